// Package onboarding owns the step ordering of the signup flow.
// The server drives the flow by returning a next-action code on every
// auth-related call; Route is the single place that code is interpreted.
package onboarding

import (
	"codeberg.org/podhub/hub/internal/logger"
)

// server-issued next-action codes
type Action string

const (
	ActionEmailVerification Action = "EMAIL_VERIFICATION"
	ActionMobileOTP         Action = "MOBILE_OTP"
	ActionProfileUpdated    Action = "PROFILE_UPDATED"
	ActionDashboard         Action = "DASHBOARD"
	ActionNone              Action = ""
)

// a screen the router can send the user to
type Destination int

const (
	DestDashboard Destination = iota
	DestVerifyEmail
	DestVerifyOTP
	DestCompleteProfile
)

func (d Destination) String() string {
	switch d {
	case DestVerifyEmail:
		return "verify-email"
	case DestVerifyOTP:
		return "verify-otp"
	case DestCompleteProfile:
		return "complete-profile"
	default:
		return "dashboard"
	}
}

// maps a next-action code to its destination screen.
// DASHBOARD and "no action" both resolve to the authenticated home view.
// Unrecognized codes fall open to the home view with a warning: the server
// and client can drift independently and a bad code should not strand the
// user on an error screen.
func Route(action Action) Destination {
	switch action {
	case ActionEmailVerification:
		return DestVerifyEmail
	case ActionMobileOTP:
		return DestVerifyOTP
	case ActionProfileUpdated:
		return DestCompleteProfile
	case ActionDashboard, ActionNone:
		return DestDashboard
	default:
		logger.Warn("unknown next_action, routing to dashboard", "next_action", string(action))
		return DestDashboard
	}
}
