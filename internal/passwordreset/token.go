package passwordreset

import (
	"crypto/rand"
	"fmt"
)

// TokenAlphabet omits 0, O, 1 and I so tokens survive being read aloud or
// retyped from an email.
const TokenAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// TokenLength is the number of symbols in an issued token.
const TokenLength = 6

// TokenGenerator produces a fresh reset token.
type TokenGenerator func() (string, error)

// RandomToken draws TokenLength symbols from TokenAlphabet using crypto/rand.
// The alphabet has 32 symbols, so masking a random byte with 31 is unbiased.
func RandomToken() (string, error) {
	buf := make([]byte, TokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	for i, b := range buf {
		buf[i] = TokenAlphabet[b&31]
	}
	return string(buf), nil
}
