// Package codes issues the validation codes handed to ShipSec customers on
// enrollment. Each customer gets one code per Kind; the code is the kind's
// prefix followed by a random lowercase alphanumeric suffix.
package codes

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	suffixLength = 12
	alphabet     = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Generate returns a new validation code of the given kind.
func Generate(kind Kind) (string, error) {
	suffix := make([]byte, suffixLength)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		suffix[i] = alphabet[n.Int64()]
	}
	return kind.Prefix() + string(suffix), nil
}

// GeneratePair returns a fresh simple and signature code for a new customer.
func GeneratePair() (simple, signature string, err error) {
	simple, err = Generate(KindSimple)
	if err != nil {
		return "", "", err
	}
	signature, err = Generate(KindSignature)
	if err != nil {
		return "", "", err
	}
	return simple, signature, nil
}
