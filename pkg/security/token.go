package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const defaultTokenBytes = 20

// GenerateToken returns an opaque hex token built from n random bytes.
func GenerateToken(n int) (string, error) {
	if n <= 0 {
		n = defaultTokenBytes
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
