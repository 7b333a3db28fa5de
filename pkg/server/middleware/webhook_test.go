package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glocalvision/codebridge/pkg/config"
	"github.com/glocalvision/codebridge/pkg/webhook"
)

func verifierHandler(cfg *config.Config) (http.Handler, *string) {
	var seenBody string
	verifier := NewWebhookVerifier(cfg)
	handler := verifier.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seenBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &seenBody
}

func TestWebhookVerifierAccepts(t *testing.T) {
	cfg := &config.Config{ShipSecWebhookSecret: "s3cret"}
	handler, seenBody := verifierHandler(cfg)

	body := `{"id":1001}`
	req := httptest.NewRequest(http.MethodPost, "/shipsec/webhook/customers/enable", strings.NewReader(body))
	req.Header.Set(webhook.HeaderShopDomain, "shipsec.myshopify.com")
	req.Header.Set(webhook.HeaderHmac, webhook.Sign("s3cret", []byte(body)))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	// The handler must still see the full body after verification consumed it.
	assert.Equal(t, body, *seenBody)
}

func TestWebhookVerifierRejectsBadSignature(t *testing.T) {
	cfg := &config.Config{ShipSecWebhookSecret: "s3cret"}
	handler, _ := verifierHandler(cfg)

	req := httptest.NewRequest(http.MethodPost, "/shipsec/webhook/customers/enable", strings.NewReader(`{}`))
	req.Header.Set(webhook.HeaderShopDomain, "shipsec.myshopify.com")
	req.Header.Set(webhook.HeaderHmac, webhook.Sign("wrong", []byte(`{}`)))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Invalid signature")
}

func TestWebhookVerifierRejectsMissingHeader(t *testing.T) {
	cfg := &config.Config{WebhookSecret: "s3cret"}
	handler, _ := verifierHandler(cfg)

	req := httptest.NewRequest(http.MethodPost, "/vjd/webhook/orders/paid", strings.NewReader(`{}`))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestWebhookVerifierDevelopmentModeSkips(t *testing.T) {
	cfg := &config.Config{DevelopmentMode: true}
	handler, _ := verifierHandler(cfg)

	req := httptest.NewRequest(http.MethodPost, "/vjd/webhook/orders/paid", strings.NewReader(`{}`))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
}
