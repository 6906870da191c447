package token

import (
	"strings"
	"testing"
	"time"
	
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

func TestNewJWTMakerRejectsShortKey(t *testing.T) {
	_, err := NewJWTMaker("short")
	require.Error(t, err)
}

func TestJWTMaker(t *testing.T) {
	maker, err := NewJWTMaker(testSecretKey)
	require.NoError(t, err)
	
	token, payload, err := maker.CreateToken("admin-1", "admin", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	
	verified, err := maker.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", verified.Subject)
	assert.Equal(t, "admin", verified.Role)
	assert.Equal(t, payload.ID, verified.ID)
	assert.WithinDuration(t, time.Now().Add(time.Minute), verified.ExpiresAt.Time, 2*time.Second)
}

func TestJWTMakerExpiredToken(t *testing.T) {
	maker, err := NewJWTMaker(testSecretKey)
	require.NoError(t, err)
	
	token, _, err := maker.CreateToken("admin-1", "admin", -time.Minute)
	require.NoError(t, err)
	
	_, err = maker.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTMakerInvalidToken(t *testing.T) {
	maker, err := NewJWTMaker(testSecretKey)
	require.NoError(t, err)
	
	other, err := NewJWTMaker(strings.Repeat("x", 32))
	require.NoError(t, err)
	foreign, _, err := other.CreateToken("admin-1", "admin", time.Minute)
	require.NoError(t, err)
	
	payload, err := NewPayload("admin-1", "admin", time.Minute)
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, payload).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	
	for name, token := range map[string]string{
		"wrong key": foreign,
		"alg none":  unsigned,
		"garbage":   "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := maker.VerifyToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
