// Package hubapi is the REST client for the Podcast Link Hub API.
// It owns the one piece of centralized error handling in the client:
// 401 interception with a single coalesced token refresh and, when that
// fails, a single forced redirect to the login screen.
package hubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"codeberg.org/podhub/hub/internal/config"
	"codeberg.org/podhub/hub/internal/logger"
	"codeberg.org/podhub/hub/internal/session"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Redirector lets the client force navigation to the login screen after
// an irrecoverable auth failure. The navigation layer provides it.
type Redirector interface {
	// name of the screen currently shown, used to suppress redundant redirects
	ActiveScreen() string

	// navigate to the login screen
	RedirectToLogin()
}

// Client talks to the Hub API. Safe for concurrent use; in-flight 401
// refreshes are coalesced so concurrent failures share one refresh call.
type Client struct {
	endpoint   string
	httpClient *http.Client
	store      *session.Store
	limiter    *rate.Limiter

	redirectorMu sync.RWMutex
	redirector   Redirector

	refreshMu sync.Mutex
	inflight  *refreshCall

	redirecting atomic.Bool
}

// a refresh in progress; waiters block on done
type refreshCall struct {
	done  chan struct{}
	token string
	err   error
}

// an immutable request descriptor. retries are new descriptors with
// attempted set, never mutations of the original.
type request struct {
	method    string
	path      string
	query     url.Values
	body      any
	attempted bool
}

// creates a new Hub API client
func New(cfg *config.Config, store *session.Store) *Client {
	return &Client{
		endpoint: strings.TrimRight(cfg.APIEndpoint, "/"),
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		store: store,
		// generous ceiling, only there so a wedged screen cannot spam the API
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

// installs the navigation hook. Done after construction because the TUI
// needs the client to exist before it can build its screens.
func (c *Client) SetRedirector(r Redirector) {
	c.redirectorMu.Lock()
	defer c.redirectorMu.Unlock()
	c.redirector = r
}

// clears the redirect latch. Called by the navigation layer once it lands
// on the login screen so a false trigger cannot wedge the client.
func (c *Client) ResetRedirecting() {
	c.redirecting.Store(false)
}

// returns the URL the browser should open to start Google sign-in
func (c *Client) GoogleAuthURL(redirectURI string) string {
	return fmt.Sprintf("%s/users/auth/google?redirect_uri=%s", c.endpoint, url.QueryEscape(redirectURI))
}

// paths that are themselves auth calls and must never trigger a refresh
func isAuthPath(path string) bool {
	switch path {
	case "/users/login", "/users/register", "/users/refresh-token":
		return true
	}
	return false
}

// admin endpoints surface their 401s to the caller; the admin screens
// render denial inline instead of bouncing through the login redirect
func isAdminPath(path string) bool {
	return strings.HasPrefix(path, "/admin")
}

// screens on which a forced login redirect would be redundant or loop
func suppressRedirect(screen string) bool {
	switch {
	case screen == "login", screen == "register", screen == "unauthorized",
		screen == "oauth-callback":
		return true
	case strings.HasPrefix(screen, "verify-"):
		return true
	case strings.HasPrefix(screen, "admin"):
		return true
	}
	return false
}

// executes a request with 401 interception
func (c *Client) do(ctx context.Context, req request, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	status, body, err := c.send(ctx, req)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && !req.attempted && !isAuthPath(req.path) && !isAdminPath(req.path) {
		if _, refreshErr := c.refresh(ctx); refreshErr != nil {
			if clearErr := c.store.ClearToken(); clearErr != nil {
				logger.ErrorErr(clearErr, "failed to clear token after refresh failure")
			}
			c.forceLogin()
			return apiErrorFrom(status, body)
		}

		retry := req
		retry.attempted = true

		status, body, err = c.send(ctx, retry)
		if err != nil {
			return err
		}
	}

	if status < 200 || status > 299 {
		return apiErrorFrom(status, body)
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// performs one HTTP round trip, attaching the bearer token if present
func (c *Client) send(ctx context.Context, req request) (int, []byte, error) {
	target := c.endpoint + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var payload io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	if token := c.store.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	logger.Debug("api call",
		"method", req.method,
		"path", req.path,
		"status", resp.StatusCode,
		"retried", req.attempted,
	)

	return resp.StatusCode, body, nil
}

// issues one token refresh, coalescing concurrent callers onto a single
// in-flight call. On success the new token is committed to the store
// before any waiter resumes.
func (c *Client) refresh(ctx context.Context) (string, error) {
	c.refreshMu.Lock()
	if c.inflight != nil {
		call := c.inflight
		c.refreshMu.Unlock()

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-call.done:
			return call.token, call.err
		}
	}

	call := &refreshCall{done: make(chan struct{})}
	c.inflight = call
	c.refreshMu.Unlock()

	defer func() {
		close(call.done)
		c.refreshMu.Lock()
		c.inflight = nil
		c.refreshMu.Unlock()
	}()

	var result struct {
		Token string `json:"token"`
	}

	status, body, err := c.send(ctx, request{method: http.MethodPost, path: "/users/refresh-token"})
	if err != nil {
		call.err = err
		return "", call.err
	}

	if status < 200 || status > 299 {
		call.err = apiErrorFrom(status, body)
		return "", call.err
	}

	if err := json.Unmarshal(body, &result); err != nil {
		call.err = fmt.Errorf("failed to parse refresh response: %w", err)
		return "", call.err
	}

	if result.Token == "" {
		call.err = fmt.Errorf("refresh returned no token")
		return "", call.err
	}

	if err := c.store.SetToken(result.Token); err != nil {
		call.err = fmt.Errorf("failed to store refreshed token: %w", err)
		return "", call.err
	}

	logger.Info("token refreshed")
	call.token = result.Token
	return call.token, nil
}

// fires the login redirect at most once until the latch is reset
func (c *Client) forceLogin() {
	c.redirectorMu.RLock()
	r := c.redirector
	c.redirectorMu.RUnlock()

	if r == nil {
		return
	}

	if suppressRedirect(r.ActiveScreen()) {
		return
	}

	if c.redirecting.CompareAndSwap(false, true) {
		logger.Warn("session expired, redirecting to login")
		r.RedirectToLogin()
	}
}

// builds an APIError from a failed response body, falling back to a
// generic message when the body is not the standard error shape
func apiErrorFrom(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		if apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("request failed with status %d", status)
		}
	}
	return apiErr
}
