package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCooldown_Remaining(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cd := NewCooldown(start, ResendCooldown)

	assert.Equal(t, 60*time.Second, cd.Remaining(start))
	assert.Equal(t, 35*time.Second, cd.Remaining(start.Add(25*time.Second)))
	assert.Equal(t, time.Duration(0), cd.Remaining(start.Add(60*time.Second)))

	// never negative, even long past expiry
	assert.Equal(t, time.Duration(0), cd.Remaining(start.Add(time.Hour)))
}

func TestCooldown_Expired(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cd := NewCooldown(start, ResendCooldown)

	assert.False(t, cd.Expired(start.Add(59*time.Second)))
	assert.True(t, cd.Expired(start.Add(60*time.Second)))
}

func TestCooldown_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s, err := OpenPath(path)
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, s.StartCooldown(CooldownEmailResend, NewCooldown(start, ResendCooldown)))

	// a fresh process resumes the same countdown rather than resetting it
	reopened, err := OpenPath(path)
	require.NoError(t, err)

	cd, ok := reopened.Cooldown(CooldownEmailResend)
	require.True(t, ok)

	rem := cd.Remaining(time.Now())
	assert.Greater(t, rem, 55*time.Second)
	assert.LessOrEqual(t, rem, 60*time.Second)
}

func TestCooldown_RestartPerPurpose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s, err := OpenPath(path)
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, s.StartCooldown(CooldownOTP, NewCooldown(start, ResendCooldown)))
	require.NoError(t, s.StartCooldown(CooldownEmailResend, NewCooldown(start.Add(-time.Hour), ResendCooldown)))

	otp, ok := s.Cooldown(CooldownOTP)
	require.True(t, ok)
	assert.False(t, otp.Expired(time.Now()))

	email, ok := s.Cooldown(CooldownEmailResend)
	require.True(t, ok)
	assert.True(t, email.Expired(time.Now()))
}
