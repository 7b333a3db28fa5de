package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/glocalvision/codebridge/pkg/config"
	"github.com/glocalvision/codebridge/pkg/webhook"
)

// WebhookVerifier rejects webhook deliveries whose HMAC signature does not
// match the per-store signing secret.
type WebhookVerifier struct {
	Config *config.Config
}

// NewWebhookVerifier creates a new WebhookVerifier
func NewWebhookVerifier(cfg *config.Config) *WebhookVerifier {
	return &WebhookVerifier{Config: cfg}
}

// Middleware returns an HTTP middleware that verifies the Shopify webhook
// signature before the handler runs. The body is re-buffered so handlers can
// read it again. Development mode skips verification entirely.
func (v *WebhookVerifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if v.Config.DevelopmentMode {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeFailure(w, http.StatusBadRequest, "Failed to read body")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		secret := v.Config.WebhookSecretForShop(r.Header.Get(webhook.HeaderShopDomain))
		digest := r.Header.Get(webhook.HeaderHmac)
		if !webhook.Verify(secret, body, digest) {
			log.Printf("Invalid webhook signature from %s", r.Header.Get(webhook.HeaderShopDomain))
			writeFailure(w, http.StatusBadRequest, "Invalid signature")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeFailure(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "failure",
		"message": message,
	})
}
