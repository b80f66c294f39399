package hubapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"codeberg.org/podhub/hub/internal/config"
	"codeberg.org/podhub/hub/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedirector struct {
	screen    string
	redirects atomic.Int32
}

func (r *fakeRedirector) ActiveScreen() string { return r.screen }
func (r *fakeRedirector) RedirectToLogin()     { r.redirects.Add(1) }

func newTestClient(t *testing.T, endpoint string) (*Client, *session.Store) {
	t.Helper()

	store, err := session.OpenPath(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	cfg := &config.Config{
		APIEndpoint:    endpoint,
		RequestTimeout: 5 * time.Second,
	}

	return New(cfg, store), store
}

func TestDo_ExpiredTokenRefreshedAndRetriedOnce(t *testing.T) {
	var meCalls, refreshCalls atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/me":
			meCalls.Add(1)
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{ //nolint:errcheck
					"error": CodeTokenExpired, "message": "token expired",
				})
				return
			}
			json.NewEncoder(w).Encode(map[string]string{ //nolint:errcheck
				"id": "u1", "email": "a@example.com",
			})
		case "/users/refresh-token":
			refreshCalls.Add(1)
			json.NewEncoder(w).Encode(map[string]string{"token": "fresh"}) //nolint:errcheck
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	client, store := newTestClient(t, ts.URL)
	require.NoError(t, store.SetToken("stale"))

	user, err := client.CurrentUser(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "a@example.com", user.Email)
	assert.Equal(t, "fresh", store.Token(), "refreshed token should be committed")
	assert.Equal(t, int32(2), meCalls.Load(), "original call plus exactly one retry")
	assert.Equal(t, int32(1), refreshCalls.Load())
}

func TestDo_RetriedCallStillUnauthorizedSurfacesError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/refresh-token":
			json.NewEncoder(w).Encode(map[string]string{"token": "fresh"}) //nolint:errcheck
		default:
			// even the fresh token is rejected: no second refresh loop
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "nope"}) //nolint:errcheck
		}
	}))
	defer ts.Close()

	client, store := newTestClient(t, ts.URL)
	require.NoError(t, store.SetToken("stale"))

	_, err := client.CurrentUser(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestDo_RefreshFailureClearsTokenAndRedirectsOnce(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{ //nolint:errcheck
			"error": CodeTokenExpired, "message": "token expired",
		})
	}))
	defer ts.Close()

	client, store := newTestClient(t, ts.URL)
	require.NoError(t, store.SetToken("stale"))

	redir := &fakeRedirector{screen: "dashboard"}
	client.SetRedirector(redir)

	_, err := client.CurrentUser(context.Background())
	require.Error(t, err)

	assert.Empty(t, store.Token(), "irrecoverable 401 must clear the stored token")
	assert.Equal(t, int32(1), redir.redirects.Load())

	// further failures while the latch is set do not redirect again
	_, err = client.Notifications(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), redir.redirects.Load())

	// landing on login resets the latch
	client.ResetRedirecting()
	_, err = client.Notifications(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(2), redir.redirects.Load())
}

func TestDo_AdminPathsBypassRefreshAndRedirect(t *testing.T) {
	var refreshCalls atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/refresh-token" {
			refreshCalls.Add(1)
		}
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "unauthorized"}) //nolint:errcheck
	}))
	defer ts.Close()

	client, store := newTestClient(t, ts.URL)
	require.NoError(t, store.SetToken("stale"))

	redir := &fakeRedirector{screen: "dashboard"}
	client.SetRedirector(redir)

	_, err := client.AdminStats(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, int32(0), refreshCalls.Load(), "admin 401s must not trigger a refresh")
	assert.Equal(t, int32(0), redir.redirects.Load())
	assert.Equal(t, "stale", store.Token(), "admin 401s must not clear the session")
}

func TestDo_AuthPathsNeverRefresh(t *testing.T) {
	var refreshCalls atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/refresh-token" {
			refreshCalls.Add(1)
		}
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "bad credentials"}) //nolint:errcheck
	}))
	defer ts.Close()

	client, _ := newTestClient(t, ts.URL)

	_, err := client.Login(context.Background(), "a@example.com", "wrong")

	require.Error(t, err)
	assert.Equal(t, int32(0), refreshCalls.Load())
}

func TestDo_RedirectSuppressedOnAuthScreens(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "token expired"}) //nolint:errcheck
	}))
	defer ts.Close()

	for _, screen := range []string{"login", "register", "verify-email", "verify-otp", "oauth-callback", "unauthorized"} {
		client, store := newTestClient(t, ts.URL)
		require.NoError(t, store.SetToken("stale"))

		redir := &fakeRedirector{screen: screen}
		client.SetRedirector(redir)

		_, err := client.CurrentUser(context.Background())
		require.Error(t, err)
		assert.Equal(t, int32(0), redir.redirects.Load(), "screen %q must suppress the redirect", screen)
	}
}

func TestRefresh_ConcurrentCallersCoalesce(t *testing.T) {
	var refreshCalls atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/me":
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"message": "token expired"}) //nolint:errcheck
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"id": "u1", "email": "a@example.com"}) //nolint:errcheck
		case "/users/refresh-token":
			refreshCalls.Add(1)
			// slow enough that every concurrent 401 joins this call
			time.Sleep(300 * time.Millisecond)
			json.NewEncoder(w).Encode(map[string]string{"token": "fresh"}) //nolint:errcheck
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	client, store := newTestClient(t, ts.URL)
	require.NoError(t, store.SetToken("stale"))

	const callers = 5
	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.CurrentUser(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "caller %d", i)
	}
	assert.Equal(t, int32(1), refreshCalls.Load(), "concurrent 401s must share one refresh")
}

func TestGoogleAuthURL(t *testing.T) {
	client, _ := newTestClient(t, "http://localhost:4000/api")

	got := client.GoogleAuthURL("http://127.0.0.1:43117/callback")

	assert.Equal(t,
		"http://localhost:4000/api/users/auth/google?redirect_uri=http%3A%2F%2F127.0.0.1%3A43117%2Fcallback",
		got)
}

func TestAPIErrorFrom_NonStandardBody(t *testing.T) {
	apiErr := apiErrorFrom(http.StatusBadGateway, []byte("<html>bad gateway</html>"))

	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Contains(t, apiErr.Error(), "502")
}
