package utils

import (
	"os"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("ana@example.com", "ProjectManager")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "ProjectManager", claims.Role)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token")
	require.Error(t, err)
	assert.Equal(t, "invalid token", err.Error())
}

func TestValidateTokenRejectsMissingExpiry(t *testing.T) {
	// Correctly signed, but no exp claim.
	claims := &Claims{Email: "ana@example.com", Role: "Admin"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, "invalid token", err.Error())
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("ana@example.com", "Admin")
	require.NoError(t, err)

	os.Setenv("JWT_SECRET", "another-secret")
	defer os.Setenv("JWT_SECRET", "test-secret")

	_, err = ValidateToken(token)
	assert.Error(t, err)
}
