package mockhub

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/podhub/hub/internal/config"
	"codeberg.org/podhub/hub/internal/hubapi"
	"codeberg.org/podhub/hub/internal/onboarding"
	"codeberg.org/podhub/hub/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *hubapi.Client, *session.Store) {
	t.Helper()

	srv := New(&config.MockConfig{
		BaseURL:       "http://localhost:4000",
		JWTSecret:     "test-secret",
		TokenTTL:      time.Minute,
		Environment:   "test",
		SessionSecret: "test-session-secret",
	})

	ts := httptest.NewServer(srv.Engine())
	t.Cleanup(ts.Close)

	store, err := session.OpenPath(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	cfg := &config.Config{APIEndpoint: ts.URL + "/api", RequestTimeout: 5 * time.Second}
	return srv, hubapi.New(cfg, store), store
}

func (s *Server) verifyTokenFor(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.accounts[email]; ok {
		return acc.VerifyToken
	}
	return ""
}

// walks a fresh account through every onboarding step, driving the mock
// server through the real API client
func TestOnboarding_FullFlow(t *testing.T) {
	srv, client, store := newTestServer(t)
	ctx := context.Background()
	email := "flow@example.com"

	require.NoError(t, client.Register(ctx, "Flow Tester", email, "secret123"))

	// logging in before finishing onboarding reports where to resume
	_, err := client.Login(ctx, email, "secret123")
	var apiErr *hubapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, onboarding.ActionEmailVerification, apiErr.NextAction)
	assert.Equal(t, email, apiErr.Email)

	// redeem the emailed link
	res, err := client.VerifyEmailPath(ctx, srv.verifyTokenFor(email))
	require.NoError(t, err)
	assert.Equal(t, onboarding.ActionMobileOTP, res.NextAction)
	assert.Equal(t, email, res.Email)

	// the email carried in the flow state means no re-entry at the OTP step
	require.NoError(t, client.SendOTP(ctx, email, "+15550100"))

	res, err = client.VerifyOTP(ctx, email, devOTP)
	require.NoError(t, err)
	assert.Equal(t, onboarding.ActionProfileUpdated, res.NextAction)
	require.NotEmpty(t, res.Token, "otp verification issues a credential for the profile step")
	require.NoError(t, store.SetToken(res.Token))

	res, err = client.CompleteProfile(ctx, "flowtester", "")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.NoError(t, store.SetToken(res.Token))

	user, err := client.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "flowtester", user.Username)

	// with onboarding finished, login issues a token with no next action
	res, err = client.Login(ctx, email, "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, onboarding.ActionNone, res.NextAction)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	_, client, _ := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "First", "dup@example.com", "secret123"))

	err := client.Register(ctx, "Second", "dup@example.com", "secret123")
	var apiErr *hubapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.Status)
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	srv, client, _ := newTestServer(t)
	ctx := context.Background()
	email := "otp@example.com"

	require.NoError(t, client.Register(ctx, "OTP Tester", email, "secret123"))
	_, err := client.VerifyEmailPath(ctx, srv.verifyTokenFor(email))
	require.NoError(t, err)
	require.NoError(t, client.SendOTP(ctx, email, "+15550100"))

	_, err = client.VerifyOTP(ctx, email, "000000")
	var apiErr *hubapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)

	// the right code still works afterwards
	_, err = client.VerifyOTP(ctx, email, devOTP)
	assert.NoError(t, err)
}

func TestCompleteProfile_UsernameTakenSuggests(t *testing.T) {
	srv, client, store := newTestServer(t)
	ctx := context.Background()

	onboardAccount(t, srv, client, store, "taken@example.com", "takenname")

	_, client2, store2 := newTestServerClient(t, srv)
	onboardTo(t, srv, client2, store2, "second@example.com")

	_, err := client2.CompleteProfile(ctx, "takenname", "")
	var apiErr *hubapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.Status)
	assert.NotEmpty(t, apiErr.Suggestions)
	assert.Contains(t, apiErr.Suggestions, "takenname1")
}

func TestResumeFlow_ReportsPendingStep(t *testing.T) {
	srv, client, _ := newTestServer(t)
	ctx := context.Background()
	email := "resume@example.com"

	require.NoError(t, client.Register(ctx, "Resume Tester", email, "secret123"))

	res, err := client.ResumeFlow(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, onboarding.ActionEmailVerification, res.NextAction)

	_, err = client.VerifyEmailPath(ctx, srv.verifyTokenFor(email))
	require.NoError(t, err)

	res, err = client.ResumeFlow(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, onboarding.ActionMobileOTP, res.NextAction)
}

func TestPayment_UpgradeFlow(t *testing.T) {
	srv, client, store := newTestServer(t)
	ctx := context.Background()

	onboardAccount(t, srv, client, store, "payer@example.com", "payer")

	order, err := client.CreateOrder(ctx, "GOLD")
	require.NoError(t, err)
	assert.Equal(t, 49900, order.Amount)

	sig := srv.Signature(order.OrderID, "pay_123")
	err = client.VerifyPayment(ctx, hubapi.PaymentVerification{
		OrderID:   order.OrderID,
		PaymentID: "pay_123",
		Signature: sig,
		Plan:      order.Plan,
	})
	require.NoError(t, err)

	user, err := client.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "GOLD", user.Plan)

	// the upgrade leaves a notification for the bell
	list, err := client.Notifications(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "PLAN_UPGRADED", list[0].Type)
	assert.False(t, list[0].Seen)

	require.NoError(t, client.MarkNotificationSeen(ctx, list[0].ID))
	list, err = client.Notifications(ctx)
	require.NoError(t, err)
	assert.True(t, list[0].Seen)
}

func TestPayment_BadSignatureRejected(t *testing.T) {
	srv, client, store := newTestServer(t)
	ctx := context.Background()

	onboardAccount(t, srv, client, store, "fraud@example.com", "fraud")

	order, err := client.CreateOrder(ctx, "SILVER")
	require.NoError(t, err)

	err = client.VerifyPayment(ctx, hubapi.PaymentVerification{
		OrderID:   order.OrderID,
		PaymentID: "pay_123",
		Signature: "not-a-real-signature",
		Plan:      order.Plan,
	})

	var apiErr *hubapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)

	user, err := client.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "FREE", user.Plan, "a failed verification must not upgrade the plan")
}

func TestPodcasts_CreateAndPublicPage(t *testing.T) {
	srv, client, store := newTestServer(t)
	ctx := context.Background()

	onboardAccount(t, srv, client, store, "creator@example.com", "creator")

	created, err := client.CreatePodcast(ctx, hubapi.PodcastInput{
		Title:       "Night Static",
		Description: "late night radio stories",
		SpotifyURL:  "https://open.spotify.com/show/x",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	mine, err := client.MyPodcasts(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Night Static", mine[0].Title)

	page, err := client.PublicPage(ctx, "creator")
	require.NoError(t, err)
	assert.Equal(t, "creator", page.Username)
	require.Len(t, page.Podcasts, 1)

	// anonymous visits count against the podcast
	require.NoError(t, client.TrackVisit(ctx, "creator"))
	page, err = client.PublicPage(ctx, "creator")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Podcasts[0].Visits)
}

// the free listing only shows creators still on the FREE plan, and the
// q parameter narrows by title
func TestFreePodcasts_FiltersByPlanAndQuery(t *testing.T) {
	srv, client, store := newTestServer(t)
	ctx := context.Background()

	onboardAccount(t, srv, client, store, "freebie@example.com", "freebie")
	_, err := client.CreatePodcast(ctx, hubapi.PodcastInput{Title: "Night Static"})
	require.NoError(t, err)
	_, err = client.CreatePodcast(ctx, hubapi.PodcastInput{Title: "Morning Brew"})
	require.NoError(t, err)

	// a second creator upgrades off the free tier
	_, client2, store2 := newTestServerClient(t, srv)
	onboardAccount(t, srv, client2, store2, "mogul@example.com", "mogul")
	order, err := client2.CreateOrder(ctx, "GOLD")
	require.NoError(t, err)
	require.NoError(t, client2.VerifyPayment(ctx, hubapi.PaymentVerification{
		OrderID:   order.OrderID,
		PaymentID: "pay_disc",
		Signature: srv.Signature(order.OrderID, "pay_disc"),
		Plan:      order.Plan,
	}))
	_, err = client2.CreatePodcast(ctx, hubapi.PodcastInput{Title: "Business Hour"})
	require.NoError(t, err)

	list, err := client.FreePodcasts(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 2, "paid creators stay out of the free listing")

	list, err = client.FreePodcasts(ctx, "night")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Night Static", list[0].Title)
}

func TestPlaylists_ListEverythingForSignedInUsers(t *testing.T) {
	srv, client, store := newTestServer(t)
	ctx := context.Background()

	onboardAccount(t, srv, client, store, "listener@example.com", "listener")
	_, err := client.CreatePodcast(ctx, hubapi.PodcastInput{Title: "First"})
	require.NoError(t, err)
	_, err = client.CreatePodcast(ctx, hubapi.PodcastInput{Title: "Second"})
	require.NoError(t, err)

	list, err := client.Playlists(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	// anonymous callers are refused
	_, anon, _ := newTestServerClient(t, srv)
	_, err = anon.Playlists(ctx)
	var apiErr *hubapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
}

func TestAdmin_StatsAndUserManagement(t *testing.T) {
	srv, client, store := newTestServer(t)
	ctx := context.Background()

	onboardAccount(t, srv, client, store, "civilian@example.com", "civilian")

	// a regular user is refused without bouncing through a refresh
	_, err := client.AdminStats(ctx)
	var apiErr *hubapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.Status)

	// the seeded admin account can manage users
	res, err := client.Login(ctx, "admin@podhub.local", "admin")
	require.NoError(t, err)
	assert.True(t, res.IsAdmin)
	require.NoError(t, store.SetToken(res.Token))

	stats, err := client.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalUsers)

	users, err := client.AdminUsers(ctx, "civilian", 1)
	require.NoError(t, err)
	require.Len(t, users, 1)

	inactive := false
	require.NoError(t, client.AdminUpdateUser(ctx, users[0].ID, hubapi.AdminUserUpdate{IsActive: &inactive}))

	users, err = client.AdminUsers(ctx, "civilian", 1)
	require.NoError(t, err)
	assert.False(t, users[0].IsActive)

	// deactivated accounts cannot log back in
	_, err = client.Login(ctx, "civilian@example.com", "secret123")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.Status)
}

// drives an account through the whole flow and leaves the client signed in
func onboardAccount(t *testing.T, srv *Server, client *hubapi.Client, store *session.Store, email, username string) {
	t.Helper()
	ctx := context.Background()

	onboardTo(t, srv, client, store, email)

	res, err := client.CompleteProfile(ctx, username, "")
	require.NoError(t, err)
	require.NoError(t, store.SetToken(res.Token))
}

// registers and verifies email and phone, leaving the profile step pending
func onboardTo(t *testing.T, srv *Server, client *hubapi.Client, store *session.Store, email string) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "Test Account", email, "secret123"))

	_, err := client.VerifyEmailPath(ctx, srv.verifyTokenFor(email))
	require.NoError(t, err)

	require.NoError(t, client.SendOTP(ctx, email, "+15550100"))

	res, err := client.VerifyOTP(ctx, email, devOTP)
	require.NoError(t, err)
	require.NoError(t, store.SetToken(res.Token))
}

// builds a second client against an already-running server so two accounts
// can act independently
func newTestServerClient(t *testing.T, srv *Server) (*Server, *hubapi.Client, *session.Store) {
	t.Helper()

	ts := httptest.NewServer(srv.Engine())
	t.Cleanup(ts.Close)

	store, err := session.OpenPath(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	cfg := &config.Config{APIEndpoint: ts.URL + "/api", RequestTimeout: 5 * time.Second}
	return srv, hubapi.New(cfg, store), store
}
