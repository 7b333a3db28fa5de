package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": expires.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func adminHandler(secret string) http.Handler {
	authenticator := NewAdminAuthenticator(secret)
	return authenticator.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAdminAuthenticatorAcceptsValidToken(t *testing.T) {
	handler := adminHandler("topsecret")

	req := httptest.NewRequest(http.MethodGet, "/customers/1", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "topsecret", time.Now().Add(time.Hour)))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestAdminAuthenticatorRejectsWrongSecret(t *testing.T) {
	handler := adminHandler("topsecret")

	req := httptest.NewRequest(http.MethodGet, "/customers/1", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other", time.Now().Add(time.Hour)))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAdminAuthenticatorRejectsExpiredToken(t *testing.T) {
	handler := adminHandler("topsecret")

	req := httptest.NewRequest(http.MethodGet, "/customers/1", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "topsecret", time.Now().Add(-time.Hour)))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAdminAuthenticatorRejectsMissingHeader(t *testing.T) {
	handler := adminHandler("topsecret")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/customers/1", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAdminAuthenticatorDisabledWithoutSecret(t *testing.T) {
	handler := adminHandler("")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/customers/1", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
}
