package tui

import (
	"context"
	"errors"
	"strings"

	"codeberg.org/podhub/hub/internal/hubapi"
	"codeberg.org/podhub/hub/internal/onboarding"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type loginModel struct {
	deps   *Deps
	email  textinput.Model
	pass   textinput.Model
	focus  int
	busy   bool
	errMsg string
	banner string

	// screen to return to after a guard bounced the user here
	from string
}

type loginResultMsg struct {
	result *hubapi.AuthResult
}

type loginErrMsg struct {
	err error
}

func newLogin(deps *Deps, ctx onboarding.StepContext, from string) *loginModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.Prompt = "> "
	email.CharLimit = 254
	email.Focus()
	if ctx.Email != "" {
		email.SetValue(ctx.Email)
	}

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.Prompt = "> "
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '*'

	return &loginModel{
		deps:   deps,
		email:  email,
		pass:   pass,
		banner: ctx.Message,
		from:   from,
	}
}

func (m *loginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *loginModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.cycleFocus()
			return m, nil

		case "enter":
			if m.busy {
				return m, nil
			}
			if m.focus == 0 {
				m.cycleFocus()
				return m, nil
			}
			return m, m.submit()

		case "ctrl+g":
			return m, func() tea.Msg { return NavigateMsg{Screen: screenOAuth} }

		case "ctrl+r":
			return m, func() tea.Msg { return NavigateMsg{Screen: screenRegister} }
		}

	case loginResultMsg:
		m.busy = false
		res := msg.result

		if res.Token != "" && res.NextAction == onboarding.ActionNone {
			// fully onboarded: commit and land wherever the guard wanted
			target := m.from
			if target == "" {
				target = screenDashboard
			}
			return m, commitAndRouteTo(m.deps, res.Token, target)
		}

		// onboarding unfinished; the server says where to go
		email := res.Email
		if email == "" {
			email = m.email.Value()
		}
		return m, routeActionCmd(res.NextAction, onboarding.ContextFrom(email, res.Message))

	case loginErrMsg:
		m.busy = false

		var apiErr *hubapi.APIError
		if errors.As(msg.err, &apiErr) {
			m.errMsg = apiErr.Message

			// 403 with a next_action: account exists, onboarding unfinished
			if apiErr.Status == 403 && apiErr.NextAction != onboarding.ActionNone {
				email := apiErr.Email
				if email == "" {
					email = m.email.Value()
				}
				return m, routeActionCmd(apiErr.NextAction, onboarding.ContextFrom(email, apiErr.Message))
			}
			return m, nil
		}

		m.errMsg = msg.err.Error()
		return m, nil

	case loginFailedMsg:
		m.busy = false
		m.errMsg = msg.err.Error()
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.pass, cmd = m.pass.Update(msg)
	}
	return m, cmd
}

func (m *loginModel) cycleFocus() {
	m.focus = (m.focus + 1) % 2
	if m.focus == 0 {
		m.email.Focus()
		m.pass.Blur()
	} else {
		m.email.Blur()
		m.pass.Focus()
	}
}

func (m *loginModel) submit() tea.Cmd {
	email := strings.TrimSpace(m.email.Value())
	pass := m.pass.Value()

	if email == "" || pass == "" {
		m.errMsg = "email and password are required"
		return nil
	}

	m.busy = true
	m.errMsg = ""
	deps := m.deps

	return func() tea.Msg {
		res, err := deps.Client.Login(context.Background(), email, pass)
		if err != nil {
			return loginErrMsg{err: err}
		}
		return loginResultMsg{result: res}
	}
}

func (m *loginModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Sign in"))
	b.WriteString("\n")

	if m.banner != "" {
		b.WriteString(infoStyle.Render(m.banner))
		b.WriteString("\n\n")
	}

	b.WriteString(labelStyle.Render("email"))
	b.WriteString("\n")
	b.WriteString(m.email.View())
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("password"))
	b.WriteString("\n")
	b.WriteString(m.pass.View())
	b.WriteString("\n")

	if m.busy {
		b.WriteString("\n")
		b.WriteString(infoStyle.Render("signing in..."))
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter: submit | tab: next field | ctrl+g: google | ctrl+r: register | ctrl+c: back"))

	return b.String()
}
