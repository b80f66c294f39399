package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codeberg.org/podhub/hub/internal/hubapi"
	"codeberg.org/podhub/hub/internal/logger"
	"codeberg.org/podhub/hub/internal/onboarding"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type completeProfileModel struct {
	deps        *Deps
	email       string
	username    textinput.Model
	password    textinput.Model
	focus       int
	busy        bool
	errMsg      string
	suggestions []string

	// Google accounts have no local password yet and may set one here
	googleUser bool
}

type profileDoneMsg struct {
	result *hubapi.AuthResult
}

type profileErrMsg struct {
	err error
}

func newCompleteProfile(deps *Deps, ctx onboarding.StepContext) *completeProfileModel {
	email := ctx.Email
	if email == "" {
		email = deps.Store.OnboardingEmail()
	}
	if email == "" {
		if user := deps.Auth.User(); user != nil {
			email = user.Email
		}
	}

	username := textinput.New()
	username.Placeholder = "e.g. johndoe"
	username.Prompt = "> "
	username.Focus()

	password := textinput.New()
	password.Placeholder = "new password (optional)"
	password.Prompt = "> "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	googleUser := false
	if user := deps.Auth.User(); user != nil {
		googleUser = user.LoginMethod == hubapi.LoginGoogle
	}

	return &completeProfileModel{
		deps:       deps,
		email:      email,
		username:   username,
		password:   password,
		googleUser: googleUser,
	}
}

func (m *completeProfileModel) Init() tea.Cmd {
	// this step needs both a credential and an email context
	if m.deps.Store.Token() == "" && !m.deps.Auth.IsAuthenticated() {
		return func() tea.Msg { return NavigateMsg{Screen: screenLogin} }
	}
	if m.email == "" {
		return func() tea.Msg { return NavigateMsg{Screen: screenLogin} }
	}
	return textinput.Blink
}

func (m *completeProfileModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			if m.googleUser {
				m.cycleFocus()
			}
			return m, nil

		case "enter":
			if m.busy {
				return m, nil
			}
			return m, m.submit()
		}

	case profileDoneMsg:
		m.busy = false

		// onboarding is finished: drop the recovery keys
		if err := m.deps.Store.SetOnboardingEmail(""); err != nil {
			logger.ErrorErr(err, "failed to clear onboarding email")
		}

		if msg.result.Token != "" {
			return m, commitAndRoute(m.deps, msg.result.Token, onboarding.ActionNone, onboarding.StepContext{})
		}
		return m, commitAndRoute(m.deps, m.deps.Store.Token(), onboarding.ActionNone, onboarding.StepContext{})

	case profileErrMsg:
		m.busy = false

		var apiErr *hubapi.APIError
		if errors.As(msg.err, &apiErr) {
			m.errMsg = apiErr.Message
			m.suggestions = apiErr.Suggestions
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
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *completeProfileModel) cycleFocus() {
	m.focus = (m.focus + 1) % 2
	if m.focus == 0 {
		m.username.Focus()
		m.password.Blur()
	} else {
		m.username.Blur()
		m.password.Focus()
	}
}

func (m *completeProfileModel) submit() tea.Cmd {
	username := strings.TrimSpace(m.username.Value())
	if username == "" {
		m.errMsg = "choose a username"
		return nil
	}

	password := ""
	if m.googleUser {
		password = m.password.Value()
	}

	m.busy = true
	m.errMsg = ""
	m.suggestions = nil
	deps := m.deps

	return func() tea.Msg {
		res, err := deps.Client.CompleteProfile(context.Background(), username, password)
		if err != nil {
			return profileErrMsg{err: err}
		}
		return profileDoneMsg{result: res}
	}
}

func (m *completeProfileModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Complete your profile"))
	b.WriteString("\n")
	b.WriteString(onboardingProgress(onboarding.ActionProfileUpdated))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render(fmt.Sprintf("account: %s", m.email)))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("username"))
	b.WriteString("\n")
	b.WriteString(m.username.View())
	b.WriteString("\n")

	if m.googleUser {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("set a password for email login (optional)"))
		b.WriteString("\n")
		b.WriteString(m.password.View())
		b.WriteString("\n")
	}

	if len(m.suggestions) > 0 {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render("available alternatives: " + strings.Join(m.suggestions, ", ")))
		b.WriteString("\n")
	}

	if m.busy {
		b.WriteString("\n")
		b.WriteString(infoStyle.Render("saving..."))
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter: save | ctrl+c: back"))

	return b.String()
}
