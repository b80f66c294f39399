// Package authstate holds the tab-lifetime authentication state: the
// current user, the authenticated and admin flags, and the startup
// loading flag. One State is constructed in main and handed to every
// screen; there is no package-level instance.
package authstate

import (
	"context"
	"sync"

	"codeberg.org/podhub/hub/internal/hubapi"
	"codeberg.org/podhub/hub/internal/logger"
	"codeberg.org/podhub/hub/internal/session"
)

type State struct {
	mu sync.RWMutex

	client *hubapi.Client
	store  *session.Store

	user          *hubapi.User
	authenticated bool
	admin         bool
	loading       bool
}

// creates an unresolved auth state; callers must run Init before the
// guards will allow anything through
func New(client *hubapi.Client, store *session.Store) *State {
	return &State{
		client:  client,
		store:   store,
		loading: true,
	}
}

// Init resolves the stored credential against the server, exactly once.
// A present token is validated with one CurrentUser call; on failure the
// token is cleared and the user is anonymous. No retry loop.
func (s *State) Init(ctx context.Context) {
	defer s.setLoading(false)

	token := s.store.Token()
	if token == "" {
		return
	}

	if exp, ok := hubapi.PeekExpiry(token); ok {
		logger.Debug("stored token found", "expires_at", exp)
	}

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		logger.Warn("stored token invalid, starting anonymous")
		if clearErr := s.store.ClearToken(); clearErr != nil {
			logger.ErrorErr(clearErr, "failed to clear invalid token")
		}
		return
	}

	s.setUser(user)
}

// Login commits the token to durable storage first, then fetches the
// profile with it. The order matters: the next screen's guarded calls
// must find the credential already in place.
func (s *State) Login(ctx context.Context, token string) error {
	if token != "" {
		if err := s.store.SetToken(token); err != nil {
			return err
		}
	}

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		s.reset()
		if clearErr := s.store.ClearToken(); clearErr != nil {
			logger.ErrorErr(clearErr, "failed to clear token after login failure")
		}
		return err
	}

	s.setUser(user)
	return nil
}

// Logout revokes the token server-side on a best-effort basis, then
// always wipes local state.
func (s *State) Logout(ctx context.Context) {
	if err := s.client.Logout(ctx); err != nil {
		logger.ErrorErr(err, "server logout failed, clearing local session anyway")
	}

	if err := s.store.Clear(); err != nil {
		logger.ErrorErr(err, "failed to clear session store")
	}

	s.reset()
}

// Refresh re-fetches the current user without touching the token,
// used after profile edits
func (s *State) Refresh(ctx context.Context) error {
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return err
	}
	s.setUser(user)
	return nil
}

func (s *State) User() *hubapi.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *State) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *State) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin
}

// reports whether the startup validation is still in flight
func (s *State) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *State) setUser(user *hubapi.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.authenticated = true
	s.admin = user.Role == hubapi.RoleAdmin
}

func (s *State) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.authenticated = false
	s.admin = false
}

func (s *State) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}
