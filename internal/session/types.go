package session

import (
	"sync"
	"time"
)

// purposes for anti-spam cooldowns persisted across restarts
const (
	CooldownOTP         = "otp_sent"
	CooldownEmailResend = "resend_email"
)

// default cooldown applied to resend actions
const ResendCooldown = 60 * time.Second

// a persisted anti-spam timer
type Cooldown struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// on-disk shape of the session file
type fileState struct {
	Token           string              `json:"token,omitempty"`
	OnboardingEmail string              `json:"onboarding_email,omitempty"`
	Cooldowns       map[string]Cooldown `json:"cooldowns,omitempty"`
	Theme           string              `json:"theme,omitempty"`
}

// durable client-side session state.
// holding the token here is necessary but not sufficient for "authenticated";
// only a successful CurrentUser call confirms it.
type Store struct {
	mu    sync.Mutex
	path  string
	state fileState
}
