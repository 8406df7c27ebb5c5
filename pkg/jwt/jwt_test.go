package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateAccessToken(1, "ops@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.AdminID)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, "referralhub-coupon-backend", claims.Issuer)
	assert.Equal(t, "1", claims.Subject)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateRefreshToken(1, "ops@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, RefreshToken, claims.TokenType)
}

func TestTokenTypeIsEnforced(t *testing.T) {
	svc := newTestService()

	access, err := svc.GenerateAccessToken(1, "ops@example.com")
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken(1, "ops@example.com")
	require.NoError(t, err)

	t.Run("Refresh Endpoint Rejects Access Token", func(t *testing.T) {
		claims, err := svc.ValidateRefreshToken(access)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Access Endpoint Rejects Refresh Token", func(t *testing.T) {
		claims, err := svc.ValidateAccessToken(refresh)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}

func TestExpiredTokenIsRejected(t *testing.T) {
	svc := NewService("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	token, err := svc.GenerateAccessToken(1, "ops@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestForeignSignatureIsRejected(t *testing.T) {
	svc := newTestService()
	other := NewService("different-secret", "different-refresh", 15*time.Minute, 24*time.Hour)

	token, err := other.GenerateAccessToken(1, "ops@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestGarbageTokenIsRejected(t *testing.T) {
	svc := newTestService()

	claims, err := svc.ValidateAccessToken("definitely.not.ajwt")
	assert.Error(t, err)
	assert.Nil(t, claims)
}
