// Package endpoints implements the HTTP handlers: the customer
// administration API, the ShipSec and VJD webhook receivers, the storefront
// code validation API, and the status page.
//
// Handlers depend only on the store interfaces and the shopify clients, so
// unit tests run against sqlmock-backed stores and httptest Shopify stubs.
package endpoints
