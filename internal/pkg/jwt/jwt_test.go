package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "ada@example.com", "staff", "secret", 15)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "staff", claims.AccountLevel)
	assert.Equal(t, "42", claims.Subject)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(42, "ada@example.com", "guest", "secret", 15)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAccessTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken(42, "ada@example.com", "guest", "secret", -1)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "secret")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshTokenNotAcceptedAsAccess(t *testing.T) {
	refresh, err := GenerateRefreshToken(42, "tid", "secret", 7)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(refresh, "secret")
	require.NoError(t, err)
	assert.Equal(t, "tid", claims.TokenID)

	_, err = ValidateAccessToken(refresh, "access-secret")
	assert.Error(t, err)
}
