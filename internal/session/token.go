package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes gives 256 bits of entropy, far beyond what is guessable within
// any session TTL.
const tokenBytes = 32

// newToken returns a fresh opaque session token from a cryptographically
// secure source. Tokens are URL-safe and never reused.
func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("could not generate token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
