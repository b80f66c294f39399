package tui

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"codeberg.org/podhub/hub/internal/hubapi"
	"codeberg.org/podhub/hub/internal/logger"
	"codeberg.org/podhub/hub/internal/onboarding"
	"codeberg.org/podhub/hub/internal/session"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type verifyEmailModel struct {
	deps   *Deps
	email  string
	banner string
	input  textinput.Model
	busy   bool
	errMsg string
	status string

	cooldown time.Duration
	gen      int
}

type emailVerifiedMsg struct {
	result *hubapi.AuthResult
}

type verifyEmailErrMsg struct {
	err error
}

type resendDoneMsg struct{}

type resendErrMsg struct {
	err error
}

func newVerifyEmail(deps *Deps, ctx onboarding.StepContext) *verifyEmailModel {
	email := ctx.Email
	if email == "" {
		// recover from durable storage if navigation state was lost
		email = deps.Store.OnboardingEmail()
	}

	input := textinput.New()
	input.Placeholder = "paste the verification link or token"
	input.Prompt = "> "
	input.Focus()

	return &verifyEmailModel{
		deps:   deps,
		email:  email,
		banner: ctx.Message,
		input:  input,
	}
}

func (m *verifyEmailModel) Init() tea.Cmd {
	// reached with no known email: terminal for this screen, back to register
	if m.email == "" {
		return func() tea.Msg { return NavigateMsg{Screen: screenRegister} }
	}

	// restore a running cooldown so a restart does not reset it
	if cd, ok := m.deps.Store.Cooldown(session.CooldownEmailResend); ok {
		if rem := cd.Remaining(time.Now()); rem > 0 {
			m.cooldown = rem
			return tea.Batch(textinput.Blink, tickCooldown(m.gen))
		}
	}

	return textinput.Blink
}

func (m *verifyEmailModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if m.busy {
				return m, nil
			}
			return m, m.submit()

		case "ctrl+s":
			return m, m.resend()
		}

	case cooldownTickMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if cd, ok := m.deps.Store.Cooldown(session.CooldownEmailResend); ok {
			m.cooldown = cd.Remaining(time.Now())
		} else {
			m.cooldown = 0
		}
		if m.cooldown > 0 {
			return m, tickCooldown(m.gen)
		}
		return m, nil

	case emailVerifiedMsg:
		m.busy = false
		res := msg.result

		email := res.Email
		if email == "" {
			email = m.email
		}
		ctx := onboarding.ContextFrom(email, res.Message)

		if res.Token != "" {
			return m, commitAndRoute(m.deps, res.Token, res.NextAction, ctx)
		}
		return m, routeActionCmd(res.NextAction, ctx)

	case verifyEmailErrMsg:
		m.busy = false
		m.errMsg = msg.err.Error()
		return m, nil

	case resendDoneMsg:
		m.busy = false
		m.status = "verification email sent"
		m.errMsg = ""

		cd := session.NewCooldown(time.Now(), session.ResendCooldown)
		if err := m.deps.Store.StartCooldown(session.CooldownEmailResend, cd); err != nil {
			logger.ErrorErr(err, "failed to persist resend cooldown")
		}
		m.cooldown = session.ResendCooldown
		m.gen++
		return m, tickCooldown(m.gen)

	case resendErrMsg:
		// send failed: stay idle, no cooldown starts
		m.busy = false
		m.errMsg = msg.err.Error()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *verifyEmailModel) submit() tea.Cmd {
	raw := strings.TrimSpace(m.input.Value())
	if raw == "" {
		m.errMsg = "paste the link from your verification email"
		return nil
	}

	token, pathForm := extractVerifyToken(raw)
	if token == "" {
		m.errMsg = "that does not look like a verification link or token"
		return nil
	}

	m.busy = true
	m.errMsg = ""
	deps := m.deps

	return func() tea.Msg {
		var (
			res *hubapi.AuthResult
			err error
		)
		if pathForm {
			res, err = deps.Client.VerifyEmailPath(context.Background(), token)
		} else {
			res, err = deps.Client.VerifyEmailQuery(context.Background(), token)
		}
		if err != nil {
			return verifyEmailErrMsg{err: err}
		}
		return emailVerifiedMsg{result: res}
	}
}

func (m *verifyEmailModel) resend() tea.Cmd {
	if m.cooldown > 0 || m.busy {
		return nil
	}

	m.busy = true
	deps := m.deps
	email := m.email

	return func() tea.Msg {
		if err := deps.Client.ResendVerification(context.Background(), email); err != nil {
			return resendErrMsg{err: err}
		}
		return resendDoneMsg{}
	}
}

// pulls the token out of either mail link form:
// .../verify-email?token=x or .../verify-email/x. A bare token is treated
// as the query form.
func extractVerifyToken(raw string) (token string, pathForm bool) {
	if idx := strings.Index(raw, "/verify-email/"); idx >= 0 {
		rest := raw[idx+len("/verify-email/"):]
		if cut := strings.IndexAny(rest, "?#"); cut >= 0 {
			rest = rest[:cut]
		}
		return rest, true
	}

	if strings.Contains(raw, "token=") {
		if u, err := url.Parse(raw); err == nil {
			if t := u.Query().Get("token"); t != "" {
				return t, false
			}
		}
		return "", false
	}

	return raw, false
}

func (m *verifyEmailModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Verify your email"))
	b.WriteString("\n")
	b.WriteString(onboardingProgress(onboarding.ActionEmailVerification))
	b.WriteString("\n\n")

	if m.banner != "" {
		b.WriteString(infoStyle.Render(m.banner))
		b.WriteString("\n\n")
	}

	b.WriteString(labelStyle.Render(fmt.Sprintf("we sent a verification link to %s", m.email)))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.busy {
		b.WriteString("\n")
		b.WriteString(infoStyle.Render("working..."))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(successStyle.Render(m.status))
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	resendHint := "ctrl+s: resend email"
	if m.cooldown > 0 {
		resendHint = fmt.Sprintf("resend available in %ds", int(m.cooldown.Seconds()))
	}

	b.WriteString(helpStyle.Render(fmt.Sprintf("enter: verify | %s | ctrl+c: back", resendHint)))

	return b.String()
}
