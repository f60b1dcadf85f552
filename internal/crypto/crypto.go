package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

const (
	// TokenBytes is the entropy of a review request token (128 bits).
	TokenBytes = 16
	// TokenHexLength is the length of a hex encoded TokenBytes token.
	TokenHexLength = TokenBytes * 2
)

// GenerateToken returns nBytes of cryptographically secure randomness, hex encoded.
func GenerateToken(nBytes int) (string, error) {
	if nBytes <= 0 {
		return "", errors.New("token size must be positive")
	}
	buf := make([]byte, nBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// NewReviewToken returns a fresh public token for a review request link.
func NewReviewToken() (string, error) {
	return GenerateToken(TokenBytes)
}

// IsReviewToken reports whether s has the shape of a token produced by NewReviewToken.
func IsReviewToken(s string) bool {
	if len(s) != TokenHexLength {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
