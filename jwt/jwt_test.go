package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("alice", "user", testSecret)
	require.NoError(t, err)

	claims, err := VerifyToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, ScopeAccess, claims.Scope)
	assert.WithinDuration(t, time.Now().Add(AccessTokenTTL), claims.ExpiresAt, 5*time.Second)
}

func TestRefreshTokenScope(t *testing.T) {
	token, err := GenerateRefreshToken("alice", "user", testSecret)
	require.NoError(t, err)

	claims, err := VerifyToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, ScopeRefresh, claims.Scope)
	assert.WithinDuration(t, time.Now().Add(RefreshTokenTTL), claims.ExpiresAt, 5*time.Second)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("alice", "user", testSecret)
	require.NoError(t, err)

	_, err = VerifyToken(token, []byte("other-secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenGarbage(t *testing.T) {
	_, err := VerifyToken("not-a-token", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenExpired(t *testing.T) {
	token, err := generateToken("alice", "user", ScopeAccess, -time.Hour, testSecret)
	require.NoError(t, err)

	_, err = VerifyToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

// isTokenExpired需要解析已過期的Token，DecodeToken不檢查效期
func TestDecodeTokenIgnoresExpiry(t *testing.T) {
	token, err := generateToken("alice", "user", ScopeAccess, -time.Hour, testSecret)
	require.NoError(t, err)

	claims, err := DecodeToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.ExpiresAt.Before(time.Now()))
}

func TestDecodeTokenStillChecksSignature(t *testing.T) {
	token, err := GenerateAccessToken("alice", "user", testSecret)
	require.NoError(t, err)

	_, err = DecodeToken(token, []byte("other-secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}
