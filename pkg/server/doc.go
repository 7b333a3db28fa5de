// Package server assembles the HTTP server: router, CORS, request logging,
// persistence stores, and the per-store Shopify clients. Endpoint handlers
// live in the endpoints subpackage; request middleware in middleware.
package server
