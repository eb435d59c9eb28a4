// Package webhook validates payment gateway callbacks before they reach
// the processor. A failed signature is an authentication failure and
// short-circuits without creating any pago.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Validator checks an HMAC-SHA256 hex digest of the raw request body.
type Validator struct {
	secret []byte
}

// NewValidator builds a validator for the shared secret. With an empty
// secret the validator accepts everything, which is the simulated mode
// used in local development.
func NewValidator(secret string) *Validator {
	return &Validator{secret: []byte(secret)}
}

// Valid reports whether signature matches the body.
func (v *Validator) Valid(body []byte, signature string) bool {
	if len(v.secret) == 0 {
		return true
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	expected := mac.Sum(nil)

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, provided)
}
