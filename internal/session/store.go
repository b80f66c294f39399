package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"codeberg.org/podhub/hub/internal/logger"
)

// opens the session store at the default location under the user config dir
func Open() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config dir: %w", err)
	}

	return OpenPath(filepath.Join(dir, "hub", "session.json"))
}

// opens a session store backed by the given file, creating parents as needed
func OpenPath(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session dir: %w", err)
	}

	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	if err := json.Unmarshal(data, &s.state); err != nil {
		// a corrupt session file is not fatal, start over anonymous
		logger.Warn("session file corrupt, resetting", "path", path)
		s.state = fileState{}
	}

	return s, nil
}

// returns the stored bearer token, empty if anonymous
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// stores a new bearer token
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = token
	return s.save()
}

// removes the bearer token
func (s *Store) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = ""
	return s.save()
}

// returns the recovery email for an in-flight onboarding, if any
func (s *Store) OnboardingEmail() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.OnboardingEmail
}

// records the onboarding email so a restart mid-flow can recover it
func (s *Store) SetOnboardingEmail(email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.OnboardingEmail = email
	return s.save()
}

// returns the cooldown for a purpose and whether one is recorded
func (s *Store) Cooldown(purpose string) (Cooldown, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cd, ok := s.state.Cooldowns[purpose]
	return cd, ok
}

// starts (or restarts) a cooldown for a purpose
func (s *Store) StartCooldown(purpose string, cd Cooldown) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Cooldowns == nil {
		s.state.Cooldowns = make(map[string]Cooldown)
	}
	s.state.Cooldowns[purpose] = cd
	return s.save()
}

// returns the persisted UI theme name
func (s *Store) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Theme
}

// persists the UI theme name
func (s *Store) SetTheme(theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Theme = theme
	return s.save()
}

// wipes token and onboarding keys on logout. the theme survives.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = ""
	s.state.OnboardingEmail = ""
	s.state.Cooldowns = nil
	return s.save()
}

// writes the state atomically: temp file in the same dir, then rename
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}

	return nil
}
