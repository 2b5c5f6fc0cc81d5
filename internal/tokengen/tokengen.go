// Package tokengen generates opaque request tokens.
//
// A token is n random bytes encoded with URL-safe base64 without padding,
// so it can travel in headers and URLs as is.
package tokengen

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// DefaultLength is the token length in random bytes. Encoded it is 22 characters long.
const DefaultLength = 16

// Generate reads n bytes from r and encodes them.
// If r is nil crypto/rand is used.
func Generate(r io.Reader, n int) (string, error) {
	if r == nil {
		r = rand.Reader
	}

	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("error while reading random bytes. Err: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// New generates a token of DefaultLength bytes from crypto/rand.
func New() (string, error) {
	return Generate(rand.Reader, DefaultLength)
}

// Decode returns the random bytes the token was built from.
func Decode(token string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(token)
}
