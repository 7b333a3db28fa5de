// Package config provides configuration management for codebridge.
//
// Configuration is loaded from a .env file (if present), an optional YAML
// config file, and environment variables, in increasing order of precedence.
// Each attribute remembers where its value came from.
//
// # Key Configuration Options
//
//   - DB_USER, PASSWD, DB_NAME, HOST, PORT: application database connection
//   - ADMIN_DATABASE_URL: administrative connection for `bridgectl db provision`
//   - SHIPSEC_API_KEY, SHIPSEC_BASE_URL: ShipSec store admin API
//   - VJD_API_KEY, VJD_BASE_URL: VJD store admin API
//   - WEBHOOK_SECRET: shared webhook signing secret
//   - SHOPIFY_API_VERSION: admin API version pin
//   - SERVER_PORT, BIND_ADDRESS: HTTP listener
package config
