package mockhub

import (
	"sync"
	"time"

	"codeberg.org/podhub/hub/internal/config"
)

// a registered account and its onboarding progress
type account struct {
	ID             string
	Email          string
	Password       string
	Username       string
	Name           string
	Phone          string
	Role           string
	Plan           string
	LoginMethod    string
	ProfilePicture string
	Bio            string
	IsActive       bool
	CreatedAt      time.Time

	EmailVerified bool
	PhoneVerified bool
	ProfileDone   bool

	// pending email verification token, cleared once redeemed
	VerifyToken string
	// pending OTP, cleared once redeemed
	OTP string
}

type notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Seen      bool      `json:"seen"`
	CreatedAt time.Time `json:"created_at"`
}

type podcast struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CoverURL    string    `json:"cover_url,omitempty"`
	SpotifyURL  string    `json:"spotify_url,omitempty"`
	AppleURL    string    `json:"apple_url,omitempty"`
	YouTubeURL  string    `json:"youtube_url,omitempty"`
	Visits      int       `json:"visits"`
	CreatedAt   time.Time `json:"created_at"`
}

type youtubeLink struct {
	ID         string `json:"id"`
	OwnerID    string `json:"-"`
	YouTubeURL string `json:"youtube_url"`
	Title      string `json:"title,omitempty"`
}

type paymentOrder struct {
	OrderID string
	UserID  string
	Plan    string
	Amount  int
}

// Server is an in-memory stand-in for the Hub API, good enough to develop
// and test the terminal client against. Nothing survives a restart.
type Server struct {
	cfg *config.MockConfig

	mu            sync.Mutex
	accounts      map[string]*account // keyed by lowercase email
	notifications map[string][]notification
	podcasts      []*podcast
	links         []*youtubeLink
	orders        map[string]*paymentOrder
}
