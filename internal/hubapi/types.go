package hubapi

import (
	"fmt"
	"time"

	"codeberg.org/podhub/hub/internal/onboarding"
)

// a Hub account as returned by GET /users/me
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Role           string    `json:"role"`
	Plan           string    `json:"plan"`
	LoginMethod    string    `json:"login_method"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// account roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// subscription plans
const (
	PlanFree    = "FREE"
	PlanSilver  = "SILVER"
	PlanGold    = "GOLD"
	PlanPremium = "PREMIUM"
)

// login methods
const (
	LoginLocal  = "LOCAL"
	LoginGoogle = "GOOGLE"
)

// outcome of an auth-related call. Token may be empty when the server
// only advances the onboarding flow without issuing a credential.
type AuthResult struct {
	Token      string            `json:"token,omitempty"`
	NextAction onboarding.Action `json:"next_action,omitempty"`
	Email      string            `json:"email,omitempty"`
	Message    string            `json:"message,omitempty"`
	IsAdmin    bool              `json:"isAdmin,omitempty"`
}

type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Seen      bool      `json:"seen"`
	CreatedAt time.Time `json:"created_at"`
}

type Podcast struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CoverURL    string    `json:"cover_url,omitempty"`
	SpotifyURL  string    `json:"spotify_url,omitempty"`
	AppleURL    string    `json:"apple_url,omitempty"`
	YouTubeURL  string    `json:"youtube_url,omitempty"`
	Visits      int       `json:"visits"`
	CreatedAt   time.Time `json:"created_at"`
}

type PodcastInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CoverURL    string `json:"cover_url,omitempty"`
	SpotifyURL  string `json:"spotify_url,omitempty"`
	AppleURL    string `json:"apple_url,omitempty"`
	YouTubeURL  string `json:"youtube_url,omitempty"`
}

// a creator's public page: profile plus their published podcasts
type PublicPage struct {
	Username       string    `json:"username"`
	Name           string    `json:"name"`
	Plan           string    `json:"plan"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	Podcasts       []Podcast `json:"podcasts"`
}

type ProfileUpdate struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Bio   *string `json:"bio,omitempty"`
}

// a checkout order created by the payment gateway
type PaymentOrder struct {
	OrderID  string `json:"order_id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	Plan     string `json:"plan"`
}

type PaymentVerification struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
	Plan      string `json:"plan"`
}

type YouTubeLink struct {
	ID         string `json:"id"`
	YouTubeURL string `json:"youtube_url"`
	Title      string `json:"title,omitempty"`
}

type AdminStats struct {
	TotalUsers    int `json:"total_users"`
	ActiveUsers   int `json:"active_users"`
	TotalPodcasts int `json:"total_podcasts"`
	PaidUsers     int `json:"paid_users"`
}

type AdminUser struct {
	User
	IsActive bool `json:"is_active"`
}

type AdminUserUpdate struct {
	IsActive *bool   `json:"is_active,omitempty"`
	Role     *string `json:"role,omitempty"`
}

// APIError is the client-side view of a failed call. Message is the
// server's user-facing text and is rendered verbatim by the screens.
type APIError struct {
	Status      int               `json:"-"`
	Code        string            `json:"error"`
	Message     string            `json:"message"`
	NextAction  onboarding.Action `json:"next_action,omitempty"`
	Email       string            `json:"email,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// error code the server uses to distinguish an expired token from a
// missing or malformed one
const CodeTokenExpired = "TOKEN_EXPIRED"
