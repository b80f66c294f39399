package tui

import (
	"sync/atomic"

	"codeberg.org/podhub/hub/internal/authstate"
	"codeberg.org/podhub/hub/internal/config"
	"codeberg.org/podhub/hub/internal/hubapi"
	"codeberg.org/podhub/hub/internal/onboarding"
	"codeberg.org/podhub/hub/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

// screen names. The API client's redirect suppression matches on these,
// so they double as the ActiveScreen values.
const (
	screenWelcome         = "welcome"
	screenLogin           = "login"
	screenRegister        = "register"
	screenVerifyEmail     = "verify-email"
	screenVerifyOTP       = "verify-otp"
	screenCompleteProfile = "complete-profile"
	screenDashboard       = "dashboard"
	screenDiscover        = "discover"
	screenCreatePodcast   = "create-podcast"
	screenPayment         = "payment"
	screenProfile         = "profile"
	screenAdmin           = "admin"
	screenOAuth           = "oauth-callback"
	screenUnauthorized    = "unauthorized"
)

// shared dependencies handed to every screen at construction
type Deps struct {
	Cfg    *config.Config
	Client *hubapi.Client
	Store  *session.Store
	Auth   *authstate.State
}

// one screen of the application
type screenModel interface {
	Init() tea.Cmd
	Update(tea.Msg) (screenModel, tea.Cmd)
	View() string
}

// requests navigation to a screen, carrying onboarding context
type NavigateMsg struct {
	Screen string
	Ctx    onboarding.StepContext
}

// sent by the API client's redirector after an irrecoverable auth failure
type ForceLoginMsg struct{}

// sent once the startup credential validation finishes
type authResolvedMsg struct{}

// sent after a logout completes
type loggedOutMsg struct{}

// main application model
type App struct {
	deps *Deps
	nav  *Navigator

	screen string
	model  screenModel

	// navigation deferred until the startup auth check resolves
	pending *NavigateMsg
}

// Navigator carries the active screen name to the API client's
// interceptor and lets it push a forced login from outside the
// bubbletea loop.
type Navigator struct {
	screen atomic.Value
	send   atomic.Pointer[func(tea.Msg)]
}

func NewNavigator() *Navigator {
	n := &Navigator{}
	n.screen.Store(screenWelcome)
	return n
}

// Bind attaches the running program's Send function. Called after
// tea.NewProgram, before any API call can fail.
func (n *Navigator) Bind(send func(tea.Msg)) {
	n.send.Store(&send)
}

func (n *Navigator) ActiveScreen() string {
	s, _ := n.screen.Load().(string)
	return s
}

func (n *Navigator) RedirectToLogin() {
	if send := n.send.Load(); send != nil {
		(*send)(ForceLoginMsg{})
	}
}

func (n *Navigator) setScreen(name string) {
	n.screen.Store(name)
}
