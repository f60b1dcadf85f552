package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(8)
	require.NoError(t, err)
	assert.Len(t, token, 16)

	_, err = GenerateToken(0)
	assert.Error(t, err)
}

func TestNewReviewToken_UniqueAndWellFormed(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		token, err := NewReviewToken()
		require.NoError(t, err)
		require.True(t, IsReviewToken(token), "token %q is not 32 hex chars", token)
		_, dup := seen[token]
		require.False(t, dup, "duplicate token %q", token)
		seen[token] = struct{}{}
	}
}

func TestIsReviewToken(t *testing.T) {
	assert.True(t, IsReviewToken("0123456789abcdef0123456789abcdef"))
	assert.False(t, IsReviewToken("short"))
	assert.False(t, IsReviewToken("zz23456789abcdef0123456789abcdef"))
}
