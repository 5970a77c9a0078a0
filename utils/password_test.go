package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, CheckPassword(hash, "secret123"))
	assert.Error(t, CheckPassword(hash, "wrong-password"))
}

func TestGenerateRandomPassword(t *testing.T) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		password := GenerateRandomPassword()
		require.Len(t, password, 10)
		for _, c := range password {
			assert.True(t, strings.ContainsRune(charset, c))
		}
		seen[password] = true
	}

	// Ten draws collapsing to one value would mean the generator is broken.
	assert.Greater(t, len(seen), 1)
}
