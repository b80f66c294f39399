package mockhub

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codeberg.org/podhub/hub/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
)

// session key for the client's loopback redirect target across the
// provider round trip
const redirectURIKey = "hub_redirect_uri"

// wires up the real Google provider when credentials are configured.
// Without them the mock serves an instant-approve fake flow instead, so
// the client's OAuth path is exercisable offline.
func (s *Server) initOAuth(baseURL string) {
	if s.cfg.GoogleClientID == "" || s.cfg.GoogleClientSecret == "" {
		logger.Info("google oauth credentials not set, using fake oauth flow")
		return
	}

	store := sessions.NewCookieStore([]byte(s.cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300, // 5 minutes, enough for the OAuth round trip
		HttpOnly: true,
		Secure:   strings.HasPrefix(baseURL, "https://"),
		SameSite: http.SameSiteLaxMode,
	}
	gothic.Store = store

	goth.UseProviders(google.New(
		s.cfg.GoogleClientID,
		s.cfg.GoogleClientSecret,
		baseURL+"/api/users/auth/google/callback",
		"email", "profile",
	))
}

func (s *Server) oauthConfigured() bool {
	return s.cfg.GoogleClientID != "" && s.cfg.GoogleClientSecret != ""
}

func (s *Server) handleGoogleAuth(c *gin.Context) {
	redirectURI := c.Query("redirect_uri")
	if redirectURI == "" {
		badRequest(c, "redirect_uri is required")
		return
	}

	if !s.oauthConfigured() {
		s.fakeGoogleAuth(c, redirectURI)
		return
	}

	session, err := gothic.Store.Get(c.Request, redirectURIKey)
	if err == nil {
		session.Values["uri"] = redirectURI
		if saveErr := session.Save(c.Request, c.Writer); saveErr != nil {
			logger.ErrorErr(saveErr, "failed to persist redirect uri")
		}
	}

	q := c.Request.URL.Query()
	q.Add("provider", "google")
	c.Request.URL.RawQuery = q.Encode()

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

func (s *Server) handleGoogleCallback(c *gin.Context) {
	if !s.oauthConfigured() {
		badRequest(c, "oauth is not configured")
		return
	}

	q := c.Request.URL.Query()
	q.Add("provider", "google")
	c.Request.URL.RawQuery = q.Encode()

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		badRequest(c, "authentication failed")
		return
	}

	redirectURI := ""
	if session, sessErr := gothic.Store.Get(c.Request, redirectURIKey); sessErr == nil {
		redirectURI, _ = session.Values["uri"].(string)
	}
	if redirectURI == "" {
		badRequest(c, "missing redirect target")
		return
	}

	acc := s.findOrCreateGoogleUser(gothUser.Email, gothUser.Name, gothUser.AvatarURL)
	s.completeOAuth(c, acc, redirectURI)
}

// serves the whole provider round trip locally: find or create the demo
// Google user and bounce straight back to the client
func (s *Server) fakeGoogleAuth(c *gin.Context, redirectURI string) {
	email := c.Query("email")
	if email == "" {
		email = "googleuser@podhub.local"
	}

	acc := s.findOrCreateGoogleUser(email, "Google User", "")
	s.completeOAuth(c, acc, redirectURI)
}

func (s *Server) findOrCreateGoogleUser(email, name, avatar string) *account {
	email = strings.ToLower(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if acc, ok := s.accounts[email]; ok {
		return acc
	}

	acc := &account{
		ID:             uuid.NewString(),
		Email:          email,
		Name:           name,
		Role:           "user",
		Plan:           "FREE",
		LoginMethod:    "GOOGLE",
		ProfilePicture: avatar,
		IsActive:       true,
		CreatedAt:      time.Now(),
		// the provider vouched for the email; phone and username are
		// still the user's to finish
		EmailVerified: true,
	}
	s.accounts[email] = acc
	return acc
}

// mints a token and redirects back to the client's loopback listener
func (s *Server) completeOAuth(c *gin.Context, acc *account, redirectURI string) {
	token, err := s.generateToken(acc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "server_error", Message: "failed to generate token"})
		return
	}

	params := url.Values{
		"token": {token},
		"email": {acc.Email},
	}
	if action := nextAction(acc); action != "" {
		params.Set("next_action", string(action))
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("%s?%s", redirectURI, params.Encode()))
}
