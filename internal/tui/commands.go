package tui

import (
	"context"

	"codeberg.org/podhub/hub/internal/onboarding"
	tea "github.com/charmbracelet/bubbletea"
)

// sent when committing a credential fails
type loginFailedMsg struct {
	err error
}

// commits a fresh credential and then routes the next action. The commit
// happens before any navigation so the next screen's guarded calls find
// a valid session.
func commitAndRoute(deps *Deps, token string, action onboarding.Action, ctx onboarding.StepContext) tea.Cmd {
	return func() tea.Msg {
		if err := deps.Auth.Login(context.Background(), token); err != nil {
			return loginFailedMsg{err: err}
		}

		return NavigateMsg{Screen: destinationScreen(onboarding.Route(action)), Ctx: ctx}
	}
}

func destinationScreen(dest onboarding.Destination) string {
	switch dest {
	case onboarding.DestVerifyEmail:
		return screenVerifyEmail
	case onboarding.DestVerifyOTP:
		return screenVerifyOTP
	case onboarding.DestCompleteProfile:
		return screenCompleteProfile
	default:
		return screenDashboard
	}
}

// commits a credential and then navigates to an explicit screen, used by
// login to honor the guard's "from" path
func commitAndRouteTo(deps *Deps, token, screen string) tea.Cmd {
	return func() tea.Msg {
		if err := deps.Auth.Login(context.Background(), token); err != nil {
			return loginFailedMsg{err: err}
		}
		return NavigateMsg{Screen: screen}
	}
}

// routes a server-issued next action without a credential change
func routeActionCmd(action onboarding.Action, ctx onboarding.StepContext) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Screen: destinationScreen(onboarding.Route(action)), Ctx: ctx}
	}
}

// best-effort server logout, then local wipe
func logoutCmd(deps *Deps) tea.Cmd {
	return func() tea.Msg {
		deps.Auth.Logout(context.Background())
		return loggedOutMsg{}
	}
}
