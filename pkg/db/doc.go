// Package db provides database connection utilities for codebridge.
//
// This package handles PostgreSQL database connections using GORM. The
// connection string is assembled from the same environment variables the
// provisioning step consumes (DB_USER, PASSWD, DB_NAME, HOST, PORT), so the
// role and database created by `bridgectl db provision` are what the server
// connects to.
//
// # Connection
//
//	database, err := db.Connect(db.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Set BRIDGE_LOG_LEVEL=debug for SQL query logging.
package db
