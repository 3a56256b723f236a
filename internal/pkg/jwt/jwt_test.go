package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func TestSSEToken_RoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret)

	token, expiresIn, err := svc.GenerateSSEToken(Claims{UserID: "u1", IsAdmin: true})
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	claims, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func TestValidateSSEToken_RejectsAccessToken(t *testing.T) {
	svc := NewJWTService(testSecret)

	token, _, err := svc.GenerateAccessToken(Claims{UserID: "u1"}, time.Hour)
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(token)
	assert.Error(t, err)
}

func TestValidateSSEToken_RejectsOtherSecret(t *testing.T) {
	token, _, err := NewJWTService("other-secret").GenerateSSEToken(Claims{UserID: "u1"})
	require.NoError(t, err)

	_, err = NewJWTService(testSecret).ValidateSSEToken(token)
	assert.Error(t, err)
}

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := NewJWTService(testSecret)

	token, expiresAt, err := svc.GenerateAccessToken(Claims{UserID: "u1", Email: "admin@example.com", IsAdmin: true}, time.Hour)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	m, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	claims, err := ClaimsFromMap(m)
	require.NoError(t, err)
	assert.Equal(t, Claims{UserID: "u1", Email: "admin@example.com", IsAdmin: true}, claims)
	assert.Equal(t, "access", m["type"])
}

func TestClaimsFromMap(t *testing.T) {
	_, err := ClaimsFromMap(map[string]interface{}{"is_admin": true})
	assert.Error(t, err)

	claims, err := ClaimsFromMap(map[string]interface{}{"user_id": "u2", "is_admin": "yes"})
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin)
}

func TestValidateAccessToken(t *testing.T) {
	svc := NewJWTService(testSecret)

	token, _, err := svc.GenerateAccessToken(Claims{UserID: "u1", IsAdmin: true}, time.Hour)
	require.NoError(t, err)
	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)

	sseToken, _, err := svc.GenerateSSEToken(Claims{UserID: "u1"})
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(sseToken)
	assert.Error(t, err)

	expired, _, err := svc.GenerateAccessToken(Claims{UserID: "u1"}, -time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(expired)
	assert.Error(t, err)
}
