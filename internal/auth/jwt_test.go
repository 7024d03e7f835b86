package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret        = "test-access-secret"
	testRefreshSecret = "test-refresh-secret"
)

func newTestAuthenticator() *JWTAuthenticator {
	return NewJWTAuthenticator(testSecret, testRefreshSecret, "slotbook", "slotbook",
		time.Hour, 24*time.Hour)
}

func TestGenerateAndValidateTokens(t *testing.T) {
	a := newTestAuthenticator()

	access, refresh, err := a.GenerateTokens(42, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	parsed, err := a.ValidateAccessToken(access)
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.EqualValues(t, 42, claims["sub"])
	assert.Equal(t, "admin", claims["role"])

	parsed, err = a.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
}

func TestAccessTokenRejectedByRefreshValidator(t *testing.T) {
	a := newTestAuthenticator()

	access, _, err := a.GenerateTokens(1, "user")
	require.NoError(t, err)

	// signed with a different secret
	_, err = a.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	a := NewJWTAuthenticator(testSecret, testRefreshSecret, "slotbook", "slotbook",
		-time.Minute, -time.Minute)

	access, _, err := a.GenerateTokens(1, "user")
	require.NoError(t, err)

	_, err = a.ValidateAccessToken(access)
	assert.Error(t, err)
}

func TestTamperedTokenRejected(t *testing.T) {
	a := newTestAuthenticator()

	access, _, err := a.GenerateTokens(1, "user")
	require.NoError(t, err)

	_, err = a.ValidateAccessToken(access + "x")
	assert.Error(t, err)
}
