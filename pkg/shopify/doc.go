// Package shopify is a minimal Shopify admin API client for the two stores
// the bridge connects.
//
// The bridge uses one Client per store: the ShipSec client pushes validation
// codes as customer metafields and creates draft orders; the VJD client reads
// fulfillment orders and places/releases fulfillment holds via the GraphQL
// admin API. Only the endpoints the bridge needs are implemented.
//
// All calls carry the store access token in X-Shopify-Access-Token and hit
// the pinned admin API version.
package shopify
