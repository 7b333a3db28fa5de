// Package gorm implements the store interfaces on top of GORM and Postgres.
// Unique-constraint violations are translated to the store sentinel errors so
// handlers never inspect driver errors.
package gorm
