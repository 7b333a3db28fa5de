// Package db embeds the SQL migrations so production builds carry their own
// schema.
package db

import "embed"

// Migrations holds the embedded migration files
//
//go:embed migrations/*.sql
var Migrations embed.FS
