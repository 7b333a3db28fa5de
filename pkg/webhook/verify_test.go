package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerify(t *testing.T) {
	body := []byte(`{"id":12345,"email":"test@example.com"}`)
	secret := "shhh"

	digest := Sign(secret, body)

	testCases := []struct {
		name   string
		secret string
		body   []byte
		digest string
		want   bool
	}{
		{"valid signature", secret, body, digest, true},
		{"wrong secret", "other", body, digest, false},
		{"tampered body", secret, []byte(`{"id":12345}`), digest, false},
		{"empty digest", secret, body, "", false},
		{"empty secret", "", body, digest, false},
		{"garbage digest", secret, body, "not-base64!", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Verify(tc.secret, tc.body, tc.digest))
		})
	}
}

func TestSignIsDeterministic(t *testing.T) {
	body := []byte("payload")
	assert.Equal(t, Sign("s", body), Sign("s", body))
	assert.NotEqual(t, Sign("s", body), Sign("t", body))
}
