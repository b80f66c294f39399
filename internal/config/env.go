package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// loads client configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have a .env file
	}

	endpoint := os.Getenv("HUB_API_ENDPOINT")
	if endpoint == "" {
		endpoint = "http://localhost:4000/api"
	}

	callbackAddr := os.Getenv("HUB_OAUTH_CALLBACK_ADDR")
	if callbackAddr == "" {
		callbackAddr = "127.0.0.1:43117"
	}

	environment := os.Getenv("HUB_ENV")
	if environment == "" {
		environment = "development"
	}

	timeout := 30 * time.Second
	if raw := os.Getenv("HUB_REQUEST_TIMEOUT"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			timeout = parsed
		}
	}

	return &Config{
		APIEndpoint:       endpoint,
		OAuthCallbackAddr: callbackAddr,
		RequestTimeout:    timeout,
		Environment:       environment,
	}, nil
}

// loads mock server configuration from environment variables
func LoadMockEnvironment() (*MockConfig, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // .env is optional
	}

	addr := os.Getenv("MOCKHUB_ADDR")
	if addr == "" {
		addr = ":4000"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "mockhub-development-secret"
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		sessionSecret = "mockhub-session-secret"
	}

	ttl := 15 * time.Minute
	if raw := os.Getenv("MOCKHUB_TOKEN_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			ttl = parsed
		}
	}

	environment := os.Getenv("HUB_ENV")
	if environment == "" {
		environment = "development"
	}

	baseURL := os.Getenv("MOCKHUB_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:4000"
	}

	return &MockConfig{
		Addr:               addr,
		BaseURL:            baseURL,
		JWTSecret:          secret,
		TokenTTL:           ttl,
		Environment:        environment,
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		SessionSecret:      sessionSecret,
	}, nil
}
