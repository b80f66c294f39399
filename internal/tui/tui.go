package tui

import (
	"context"

	"codeberg.org/podhub/hub/internal/authstate"
	tea "github.com/charmbracelet/bubbletea"
)

func NewApp(deps *Deps, nav *Navigator) *App {
	return &App{
		deps:   deps,
		nav:    nav,
		screen: screenWelcome,
		model:  newWelcome(deps),
	}
}

func (m *App) Init() tea.Cmd {
	return tea.Batch(m.model.Init(), m.resolveAuth())
}

// validates any stored credential once at startup
func (m *App) resolveAuth() tea.Cmd {
	return func() tea.Msg {
		m.deps.Auth.Init(context.Background())
		return authResolvedMsg{}
	}
}

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.screen == screenWelcome {
				return m, tea.Quit
			}
			// anywhere else, ctrl+c backs out to the welcome screen
			return m, m.navigate(NavigateMsg{Screen: screenWelcome})
		}

	case NavigateMsg:
		return m, m.navigate(msg)

	case ForceLoginMsg:
		return m, m.navigate(NavigateMsg{Screen: screenLogin})

	case authResolvedMsg:
		if m.pending != nil {
			target := *m.pending
			m.pending = nil
			return m, m.navigate(target)
		}
		// let the current screen re-render with the resolved state
		return m, nil

	case loggedOutMsg:
		return m, m.navigate(NavigateMsg{Screen: screenWelcome})
	}

	var cmd tea.Cmd
	m.model, cmd = m.model.Update(msg)
	return m, cmd
}

func (m *App) View() string {
	if m.pending != nil {
		// startup validation still in flight: neutral waiting view, no
		// redirect yet
		return "\n  " + infoStyle.Render("checking session...") + "\n"
	}

	return m.model.View()
}

// moves to a screen, applying the route guards
func (m *App) navigate(msg NavigateMsg) tea.Cmd {
	target := msg

	switch guardFor(msg.Screen)(m.deps.Auth) {
	case authstate.DecisionWait:
		m.pending = &msg
		return nil

	case authstate.DecisionRedirectLogin:
		// carry the attempted screen so login can return the user there
		target = NavigateMsg{Screen: screenLogin, Ctx: msg.Ctx}
		m.model = newLogin(m.deps, msg.Ctx, msg.Screen)

	case authstate.DecisionRedirectUnauthorized:
		target = NavigateMsg{Screen: screenUnauthorized}
		m.model = newUnauthorized()

	default:
		m.model = m.buildScreen(msg)
	}

	m.screen = target.Screen
	m.nav.setScreen(target.Screen)

	if target.Screen == screenLogin {
		// landing on login clears the redirect latch so a later expiry
		// can trigger again
		m.deps.Client.ResetRedirecting()
	}

	return m.model.Init()
}

// guards by screen; everything not listed is public
func guardFor(screen string) func(*authstate.State) authstate.Decision {
	switch screen {
	case screenDashboard, screenCreatePodcast, screenPayment, screenProfile:
		return authstate.GuardPrivate
	case screenAdmin:
		return authstate.GuardAdmin
	default:
		return func(*authstate.State) authstate.Decision { return authstate.DecisionAllow }
	}
}

// constructs the model for an allowed navigation
func (m *App) buildScreen(msg NavigateMsg) screenModel {
	switch msg.Screen {
	case screenLogin:
		return newLogin(m.deps, msg.Ctx, "")
	case screenRegister:
		return newRegister(m.deps)
	case screenVerifyEmail:
		return newVerifyEmail(m.deps, msg.Ctx)
	case screenVerifyOTP:
		return newVerifyOTP(m.deps, msg.Ctx)
	case screenCompleteProfile:
		return newCompleteProfile(m.deps, msg.Ctx)
	case screenDashboard:
		return newDashboard(m.deps, msg.Ctx)
	case screenDiscover:
		return newDiscover(m.deps)
	case screenCreatePodcast:
		return newPodcastForm(m.deps)
	case screenPayment:
		return newPayment(m.deps)
	case screenProfile:
		return newProfile(m.deps)
	case screenAdmin:
		return newAdmin(m.deps)
	case screenOAuth:
		return newOAuthCallback(m.deps)
	case screenUnauthorized:
		return newUnauthorized()
	default:
		return newWelcome(m.deps)
	}
}
