// Package store defines the persistence interfaces the HTTP handlers depend
// on. Implementations live in the gorm subpackage; tests substitute mocks.
package store
