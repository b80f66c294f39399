package tui

import (
	"context"
	"strings"

	"codeberg.org/podhub/hub/internal/oauthcb"
	"codeberg.org/podhub/hub/internal/onboarding"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// parks on a spinner while a loopback listener waits for the provider to
// redirect the browser back with a token
type oauthModel struct {
	deps    *Deps
	spin    spinner.Model
	authURL string
	cancel  context.CancelFunc
	errMsg  string
}

type oauthResultMsg struct {
	res *oauthcb.Result
}

type oauthErrMsg struct {
	err error
}

func newOAuthCallback(deps *Deps) *oauthModel {
	sp := spinner.New()
	sp.Spinner = spinner.Points

	redirectURI := "http://" + deps.Cfg.OAuthCallbackAddr + "/callback"

	return &oauthModel{
		deps:    deps,
		spin:    sp,
		authURL: deps.Client.GoogleAuthURL(redirectURI),
	}
}

func (m *oauthModel) Init() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	addr := m.deps.Cfg.OAuthCallbackAddr

	listen := func() tea.Msg {
		res, err := oauthcb.Listen(ctx, addr)
		if err != nil {
			return oauthErrMsg{err: err}
		}
		return oauthResultMsg{res: res}
	}

	return tea.Batch(m.spin.Tick, listen)
}

func (m *oauthModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			if m.cancel != nil {
				m.cancel()
			}
			return m, func() tea.Msg { return NavigateMsg{Screen: screenLogin} }
		}

	case oauthResultMsg:
		if m.cancel != nil {
			m.cancel()
		}
		ctx := onboarding.ContextFromEmail(msg.res.Email)
		return m, commitAndRoute(m.deps, msg.res.Token, msg.res.NextAction, ctx)

	case oauthErrMsg:
		if m.cancel != nil {
			m.cancel()
		}
		m.errMsg = msg.err.Error()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *oauthModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Sign in with Google"))
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("open this link in your browser:"))
	b.WriteString("\n\n")
	b.WriteString(boxStyle.Render(m.authURL))
	b.WriteString("\n\n")

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("esc: back to login"))
		return b.String()
	}

	b.WriteString(m.spin.View())
	b.WriteString(infoStyle.Render(" waiting for the redirect..."))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("esc: cancel"))

	return b.String()
}
