package hubapi

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeekExpiry_ValidToken(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString([]byte("any-secret"))
	require.NoError(t, err)

	got, ok := PeekExpiry(signed)

	require.True(t, ok)
	assert.True(t, got.Equal(exp))
}

func TestPeekExpiry_NoExpClaim(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u1"})
	signed, err := token.SignedString([]byte("any-secret"))
	require.NoError(t, err)

	_, ok := PeekExpiry(signed)
	assert.False(t, ok)
}

func TestPeekExpiry_Garbage(t *testing.T) {
	_, ok := PeekExpiry("not-a-jwt")
	assert.False(t, ok)

	_, ok = PeekExpiry("")
	assert.False(t, ok)
}
