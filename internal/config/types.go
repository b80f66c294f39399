package config

import "time"

// client configuration resolved from the environment
type Config struct {
	// base URL of the Hub REST API, including the /api prefix
	APIEndpoint string

	// where the OAuth provider redirects back to on this machine
	OAuthCallbackAddr string

	// per-request timeout for API calls
	RequestTimeout time.Duration

	Environment string
}

// mock server configuration
type MockConfig struct {
	Addr        string
	BaseURL     string
	JWTSecret   string
	TokenTTL    time.Duration
	Environment string

	// optional real Google OAuth credentials; when empty the mock
	// serves a fake instant-approve flow instead
	GoogleClientID     string
	GoogleClientSecret string
	SessionSecret      string
}
