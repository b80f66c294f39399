package authstate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/podhub/hub/internal/config"
	"codeberg.org/podhub/hub/internal/hubapi"
	"codeberg.org/podhub/hub/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T, handler http.Handler) (*State, *session.Store) {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	store, err := session.OpenPath(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	cfg := &config.Config{APIEndpoint: ts.URL, RequestTimeout: 5 * time.Second}
	return New(hubapi.New(cfg, store), store), store
}

func meHandler(role string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me" || r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "unauthorized"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(map[string]string{ //nolint:errcheck
			"id": "u1", "email": "a@example.com", "role": role,
		})
	})
}

func TestInit_NoStoredToken(t *testing.T) {
	s, _ := newTestState(t, meHandler("user"))

	assert.True(t, s.Loading())
	s.Init(context.Background())

	assert.False(t, s.Loading())
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
}

func TestInit_ValidTokenResolvesUser(t *testing.T) {
	s, store := newTestState(t, meHandler("user"))
	require.NoError(t, store.SetToken("jwt-abc"))

	s.Init(context.Background())

	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.IsAdmin())
	require.NotNil(t, s.User())
	assert.Equal(t, "a@example.com", s.User().Email)
}

func TestInit_InvalidTokenClearedWithoutRetry(t *testing.T) {
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"message": "account disabled"}) //nolint:errcheck
	})

	s, store := newTestState(t, handler)
	require.NoError(t, store.SetToken("jwt-abc"))

	s.Init(context.Background())

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, store.Token())
	assert.Equal(t, 1, calls, "a failed startup validation must not loop")
}

func TestLogin_CommitsTokenBeforeProfileFetch(t *testing.T) {
	var sawToken string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawToken = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]string{ //nolint:errcheck
			"id": "u1", "email": "a@example.com", "role": "user",
		})
	})

	s, store := newTestState(t, handler)

	require.NoError(t, s.Login(context.Background(), "jwt-new"))

	assert.Equal(t, "Bearer jwt-new", sawToken, "profile fetch must already use the new token")
	assert.Equal(t, "jwt-new", store.Token())
	assert.True(t, s.IsAuthenticated())
}

func TestGuards_WhileLoading(t *testing.T) {
	s, _ := newTestState(t, meHandler("user"))

	assert.Equal(t, DecisionWait, GuardPrivate(s))
	assert.Equal(t, DecisionWait, GuardAdmin(s))
}

func TestGuards_Anonymous(t *testing.T) {
	s, _ := newTestState(t, meHandler("user"))
	s.Init(context.Background())

	assert.Equal(t, DecisionRedirectLogin, GuardPrivate(s))
	assert.Equal(t, DecisionRedirectLogin, GuardAdmin(s))
}

func TestGuards_AuthenticatedUser(t *testing.T) {
	s, store := newTestState(t, meHandler("user"))
	require.NoError(t, store.SetToken("jwt-abc"))
	s.Init(context.Background())

	assert.Equal(t, DecisionAllow, GuardPrivate(s))
	// a valid session with insufficient privilege is not sent back to login
	assert.Equal(t, DecisionRedirectUnauthorized, GuardAdmin(s))
}

func TestGuards_Admin(t *testing.T) {
	s, store := newTestState(t, meHandler("admin"))
	require.NoError(t, store.SetToken("jwt-abc"))
	s.Init(context.Background())

	assert.Equal(t, DecisionAllow, GuardPrivate(s))
	assert.Equal(t, DecisionAllow, GuardAdmin(s))
}
