package hubapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// creates a new account. The server mails a verification link; the caller
// moves the user to the verify-email screen regardless of payload.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.do(ctx, request{method: http.MethodPost, path: "/users/register", body: body}, nil)
}

// authenticates with email and password. A 403 carrying a next_action means
// the account exists but onboarding is unfinished; callers should inspect
// the returned *APIError for it.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result AuthResult
	if err := c.do(ctx, request{method: http.MethodPost, path: "/users/login", body: body}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// fetches the profile for the held token. This is the only call that
// confirms a stored token is actually valid.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users/me"}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// best-effort server-side logout; callers clear local state regardless
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/users/logout"}, nil)
}

// asks the server to text an OTP to the given phone
func (c *Client) SendOTP(ctx context.Context, email, phone string) error {
	body := map[string]string{"email": email, "phone": phone}
	return c.do(ctx, request{method: http.MethodPost, path: "/users/send-otp", body: body}, nil)
}

// submits an OTP. On success the server may rotate the credential; the
// caller must commit any returned token before navigating onward.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*AuthResult, error) {
	body := map[string]string{"email": email, "otp": otp}
	var result AuthResult
	if err := c.do(ctx, request{method: http.MethodPost, path: "/users/verify-otp", body: body}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// redeems an email verification token passed as a query parameter
func (c *Client) VerifyEmailQuery(ctx context.Context, token string) (*AuthResult, error) {
	q := url.Values{"token": {token}}
	var result AuthResult
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users/verify-email", query: q}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// redeems an email verification token passed as a path segment.
// Older verification mails embed this form of the link.
func (c *Client) VerifyEmailPath(ctx context.Context, token string) (*AuthResult, error) {
	var result AuthResult
	path := "/users/verify-email/" + url.PathEscape(token)
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// asks for a fresh verification mail
func (c *Client) ResendVerification(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, request{method: http.MethodPost, path: "/users/resend-verification", body: body}, nil)
}

// sets the username (and optionally a password, for accounts created via
// Google). A 409 carries alternative username suggestions in the error.
func (c *Client) CompleteProfile(ctx context.Context, username, newPassword string) (*AuthResult, error) {
	body := map[string]string{"username": username}
	if newPassword != "" {
		body["newPassword"] = newPassword
	}
	var result AuthResult
	if err := c.do(ctx, request{method: http.MethodPost, path: "/users/complete-profile", body: body}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// asks the server where an interrupted onboarding should continue
func (c *Client) ResumeFlow(ctx context.Context, email string) (*AuthResult, error) {
	body := map[string]string{"email": email}
	var result AuthResult
	if err := c.do(ctx, request{method: http.MethodPost, path: "/users/resume-flow", body: body}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// updates mutable profile fields
func (c *Client) EditProfile(ctx context.Context, update ProfileUpdate) error {
	return c.do(ctx, request{method: http.MethodPut, path: "/users/edit-profile", body: update}, nil)
}

func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var list []Notification
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users/notifications"}, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) MarkNotificationSeen(ctx context.Context, id string) error {
	path := fmt.Sprintf("/users/notifications/%s/seen", url.PathEscape(id))
	return c.do(ctx, request{method: http.MethodPut, path: path}, nil)
}

// lists the authenticated user's podcasts
func (c *Client) MyPodcasts(ctx context.Context) ([]Podcast, error) {
	var list []Podcast
	if err := c.do(ctx, request{method: http.MethodGet, path: "/podcast/mine"}, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) CreatePodcast(ctx context.Context, input PodcastInput) (*Podcast, error) {
	var created Podcast
	if err := c.do(ctx, request{method: http.MethodPost, path: "/podcast/create", body: input}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// lists podcasts on the free tier, optionally filtered by a search query
func (c *Client) FreePodcasts(ctx context.Context, query string) ([]Podcast, error) {
	var q url.Values
	if query != "" {
		q = url.Values{"q": {query}}
	}
	var list []Podcast
	if err := c.do(ctx, request{method: http.MethodGet, path: "/podcast/free", query: q}, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) Playlists(ctx context.Context) ([]Podcast, error) {
	var list []Podcast
	if err := c.do(ctx, request{method: http.MethodGet, path: "/podcast/playlists"}, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// fetches a creator's public page
func (c *Client) PublicPage(ctx context.Context, username string) (*PublicPage, error) {
	var page PublicPage
	path := "/podcast/" + url.PathEscape(username)
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// records a public page visit; failures are the caller's to ignore
func (c *Client) TrackVisit(ctx context.Context, username string) error {
	path := "/podcast/track/" + url.PathEscape(username)
	return c.do(ctx, request{method: http.MethodPost, path: path}, nil)
}

// starts a checkout for a plan upgrade
func (c *Client) CreateOrder(ctx context.Context, plan string) (*PaymentOrder, error) {
	body := map[string]string{"plan": plan}
	var order PaymentOrder
	if err := c.do(ctx, request{method: http.MethodPost, path: "/payment/create-order", body: body}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// confirms a completed checkout with the gateway's signature
func (c *Client) VerifyPayment(ctx context.Context, verification PaymentVerification) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/payment/verify", body: verification}, nil)
}

func (c *Client) YouTubeLinks(ctx context.Context) ([]YouTubeLink, error) {
	var list []YouTubeLink
	if err := c.do(ctx, request{method: http.MethodGet, path: "/youtube/links"}, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) AddYouTubeLink(ctx context.Context, youtubeURL string) (*YouTubeLink, error) {
	body := map[string]string{"youtube_url": youtubeURL}
	var link YouTubeLink
	if err := c.do(ctx, request{method: http.MethodPost, path: "/youtube/links", body: body}, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (c *Client) DeleteYouTubeLink(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/youtube/links/" + url.PathEscape(id)}, nil)
}

// admin endpoints. 401s here bypass the refresh/redirect flow; the admin
// screens render the denial themselves.

func (c *Client) AdminStats(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/stats"}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) AdminUsers(ctx context.Context, search string, page int) ([]AdminUser, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if page > 0 {
		q.Set("page", fmt.Sprintf("%d", page))
	}
	var list []AdminUser
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/users", query: q}, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) AdminUpdateUser(ctx context.Context, id string, update AdminUserUpdate) error {
	return c.do(ctx, request{method: http.MethodPut, path: "/admin/users/" + url.PathEscape(id), body: update}, nil)
}

func (c *Client) AdminDeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/admin/users/" + url.PathEscape(id)}, nil)
}
