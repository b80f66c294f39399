package tui

import (
	"context"
	"strings"

	"codeberg.org/podhub/hub/internal/logger"
	"codeberg.org/podhub/hub/internal/onboarding"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type registerModel struct {
	deps   *Deps
	fields []textinput.Model
	focus  int
	busy   bool
	errMsg string
}

type registerDoneMsg struct {
	email string
}

type registerErrMsg struct {
	err error
}

func newRegister(deps *Deps) *registerModel {
	name := textinput.New()
	name.Placeholder = "name"
	name.Prompt = "> "
	name.Focus()

	email := textinput.New()
	email.Placeholder = "email"
	email.Prompt = "> "
	email.CharLimit = 254

	pass := textinput.New()
	pass.Placeholder = "password (min 6 characters)"
	pass.Prompt = "> "
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '*'

	return &registerModel{
		deps:   deps,
		fields: []textinput.Model{name, email, pass},
	}
}

func (m *registerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *registerModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			m.setFocus((m.focus + 1) % len(m.fields))
			return m, nil

		case "shift+tab", "up":
			m.setFocus((m.focus + len(m.fields) - 1) % len(m.fields))
			return m, nil

		case "enter":
			if m.busy {
				return m, nil
			}
			if m.focus < len(m.fields)-1 {
				m.setFocus(m.focus + 1)
				return m, nil
			}
			return m, m.submit()

		case "ctrl+g":
			return m, func() tea.Msg { return NavigateMsg{Screen: screenOAuth} }
		}

	case registerDoneMsg:
		m.busy = false
		// mirror the email into durable storage so a restart on the
		// verification screen can recover it
		if err := m.deps.Store.SetOnboardingEmail(msg.email); err != nil {
			logger.ErrorErr(err, "failed to persist onboarding email")
		}

		ctx := onboarding.ContextFrom(msg.email, "Please check your email for verification link")
		return m, func() tea.Msg {
			return NavigateMsg{Screen: screenVerifyEmail, Ctx: ctx}
		}

	case registerErrMsg:
		m.busy = false
		m.errMsg = msg.err.Error()
		return m, nil
	}

	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

func (m *registerModel) setFocus(i int) {
	m.fields[m.focus].Blur()
	m.focus = i
	m.fields[m.focus].Focus()
}

func (m *registerModel) submit() tea.Cmd {
	name := strings.TrimSpace(m.fields[0].Value())
	email := strings.TrimSpace(m.fields[1].Value())
	pass := m.fields[2].Value()

	if name == "" || email == "" || len(pass) < 6 {
		m.errMsg = "name, email and a password of at least 6 characters are required"
		return nil
	}

	m.busy = true
	m.errMsg = ""
	deps := m.deps

	return func() tea.Msg {
		if err := deps.Client.Register(context.Background(), name, email, pass); err != nil {
			return registerErrMsg{err: err}
		}
		return registerDoneMsg{email: email}
	}
}

func (m *registerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Create your account"))
	b.WriteString("\n")
	b.WriteString(onboardingProgress(onboarding.ActionEmailVerification))
	b.WriteString("\n\n")

	labels := []string{"name", "email", "password"}
	for i, field := range m.fields {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(field.View())
		b.WriteString("\n\n")
	}

	if m.busy {
		b.WriteString(infoStyle.Render("creating account..."))
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter: next/submit | ctrl+g: use google instead | ctrl+c: back"))

	return b.String()
}
