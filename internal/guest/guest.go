// Package guest issues the tokens that let an unauthenticated session prove
// ownership of an order it created.
package guest

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// TokenBytes is the entropy of a guest token. 32 bytes of CSPRNG output
// makes collisions and guessing negligible.
const TokenBytes = 32

// Issue returns a fresh 64-character hex token. The caller persists the
// token keyed by its order; a token is never reissued for the same order.
func Issue() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("guest: reading random source: %w", err)
	}
	return hex.EncodeToString(b), nil
}
