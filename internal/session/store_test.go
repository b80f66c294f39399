package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	s, err := OpenPath(path)
	require.NoError(t, err)
	return s, path
}

func TestStore_TokenRoundTrip(t *testing.T) {
	s, path := tempStore(t)

	require.NoError(t, s.SetToken("jwt-abc"))
	assert.Equal(t, "jwt-abc", s.Token())

	// a second open sees the same state
	reopened, err := OpenPath(path)
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", reopened.Token())

	require.NoError(t, reopened.ClearToken())
	assert.Empty(t, reopened.Token())
}

func TestStore_OnboardingEmailSurvivesRestart(t *testing.T) {
	s, path := tempStore(t)

	require.NoError(t, s.SetOnboardingEmail("new@example.com"))

	reopened, err := OpenPath(path)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", reopened.OnboardingEmail())
}

func TestStore_ClearKeepsTheme(t *testing.T) {
	s, _ := tempStore(t)

	require.NoError(t, s.SetToken("jwt-abc"))
	require.NoError(t, s.SetOnboardingEmail("new@example.com"))
	require.NoError(t, s.StartCooldown(CooldownOTP, NewCooldown(time.Now(), ResendCooldown)))
	require.NoError(t, s.SetTheme("dark"))

	require.NoError(t, s.Clear())

	assert.Empty(t, s.Token())
	assert.Empty(t, s.OnboardingEmail())
	_, ok := s.Cooldown(CooldownOTP)
	assert.False(t, ok)
	assert.Equal(t, "dark", s.Theme())
}

func TestStore_CorruptFileResets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := OpenPath(path)
	require.NoError(t, err)
	assert.Empty(t, s.Token())
}

func TestStore_FilePermissions(t *testing.T) {
	s, path := tempStore(t)
	require.NoError(t, s.SetToken("jwt-abc"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
