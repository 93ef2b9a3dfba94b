package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "spearow/pkg/errors"
)

var jwtService = NewJWTService("test-signing-key", "test-issuer")

const userEmail = "user@example.com"

var expiresIn = time.Hour

func Test_GenerateAccessToken(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(userEmail, false, expiresIn)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, userEmail, claims.Subject)
	assert.False(t, claims.Admin)
	assert.WithinDuration(t, time.Now().Add(expiresIn), claims.ExpiresAt.Time, time.Minute)
}

func Test_GenerateAccessToken_AdminFlag(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(userEmail, true, expiresIn)
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.Admin)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.ErrorIs(t, err, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token"))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(userEmail, false, -time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.ErrorIs(t, err, pkgerrors.New(pkgerrors.CodeUnauthorized, "token has expired"))
}

func Test_ValidateToken_WrongKey(t *testing.T) {
	other := NewJWTService("another-key", "test-issuer")
	token, err := other.GenerateAccessToken(userEmail, false, expiresIn)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.ErrorIs(t, err, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token"))
}

func Test_Adapter_Verify(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(userEmail, true, expiresIn)
	require.NoError(t, err)

	adapter := NewJWTServiceAdapter(jwtService)
	claims, err := adapter.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userEmail, claims.Email)
	assert.True(t, claims.Admin)
}
