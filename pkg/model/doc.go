// Package model defines the database models for codebridge.
//
// This package contains GORM models that map to the codebridge PostgreSQL
// schema (see db/migrations).
//
// # Core Models
//
//   - Customer: enrolled ShipSec customers with forwarding address and codes
//   - Order: VJD orders matched to the ShipSec draft orders mirroring them
package model
