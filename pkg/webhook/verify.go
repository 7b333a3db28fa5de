// Package webhook verifies Shopify webhook signatures.
//
// Shopify signs each webhook delivery with base64(HMAC-SHA256(secret, body))
// and sends the digest in the X-Shopify-Hmac-Sha256 header. Verification must
// read the raw request body before any JSON decoding.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Headers set by Shopify on webhook deliveries.
const (
	HeaderHmac       = "X-Shopify-Hmac-Sha256"
	HeaderShopDomain = "X-Shopify-Shop-Domain"
	HeaderTopic      = "X-Shopify-Topic"
	HeaderWebhookID  = "X-Shopify-Webhook-Id"
)

// Sign computes the base64-encoded HMAC-SHA256 digest of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify reports whether the given header digest matches the body signature.
// The comparison is constant time.
func Verify(secret string, body []byte, digest string) bool {
	if secret == "" || digest == "" {
		return false
	}
	return hmac.Equal([]byte(Sign(secret, body)), []byte(digest))
}
