package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVerifyToken_PathForm(t *testing.T) {
	token, pathForm := extractVerifyToken("https://hub.example.com/verify-email/abc123")
	assert.Equal(t, "abc123", token)
	assert.True(t, pathForm)

	// trailing query junk is stripped
	token, pathForm = extractVerifyToken("https://hub.example.com/verify-email/abc123?utm_source=mail")
	assert.Equal(t, "abc123", token)
	assert.True(t, pathForm)
}

func TestExtractVerifyToken_QueryForm(t *testing.T) {
	token, pathForm := extractVerifyToken("https://hub.example.com/verify-email?token=abc123")
	assert.Equal(t, "abc123", token)
	assert.False(t, pathForm)
}

func TestExtractVerifyToken_BareToken(t *testing.T) {
	token, pathForm := extractVerifyToken("abc123")
	assert.Equal(t, "abc123", token)
	assert.False(t, pathForm)
}

func TestExtractVerifyToken_MalformedQuery(t *testing.T) {
	token, _ := extractVerifyToken("https://hub.example.com/verify?token=")
	assert.Empty(t, token)
}
