package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"codeberg.org/podhub/hub/internal/hubapi"
	"codeberg.org/podhub/hub/internal/logger"
	"codeberg.org/podhub/hub/internal/onboarding"
	"codeberg.org/podhub/hub/internal/session"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// the server issues 6 digit codes but older SMS templates used 4
const minOTPLength = 4

type verifyOTPModel struct {
	deps   *Deps
	email  string
	phone  textinput.Model
	code   textinput.Model
	sent   bool
	busy   bool
	errMsg string
	status string

	cooldown time.Duration
	gen      int
}

type otpSentMsg struct {
	phone string
}

type otpSendErrMsg struct {
	err error
}

type otpVerifiedMsg struct {
	result *hubapi.AuthResult
}

type otpVerifyErrMsg struct {
	err error
}

func newVerifyOTP(deps *Deps, ctx onboarding.StepContext) *verifyOTPModel {
	email := ctx.Email
	if email == "" {
		email = deps.Store.OnboardingEmail()
	}

	phone := textinput.New()
	phone.Placeholder = "+91 9999999999"
	phone.Prompt = "> "
	phone.Focus()

	code := textinput.New()
	code.Placeholder = "6-digit code"
	code.Prompt = "> "
	code.CharLimit = 6

	return &verifyOTPModel{
		deps:  deps,
		email: email,
		phone: phone,
		code:  code,
	}
}

func (m *verifyOTPModel) Init() tea.Cmd {
	if m.email == "" {
		// no email in navigation state or storage: nothing to verify
		return func() tea.Msg { return NavigateMsg{Screen: screenRegister} }
	}

	// a running cooldown means an OTP was already sent before a restart
	if cd, ok := m.deps.Store.Cooldown(session.CooldownOTP); ok {
		if rem := cd.Remaining(time.Now()); rem > 0 {
			m.cooldown = rem
			m.sent = true
			m.phone.Blur()
			m.code.Focus()
			return tea.Batch(textinput.Blink, tickCooldown(m.gen))
		}
	}

	return textinput.Blink
}

func (m *verifyOTPModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if m.busy {
				return m, nil
			}
			if !m.sent {
				return m, m.sendOTP()
			}
			return m, m.verify()

		case "ctrl+s":
			return m, m.resend()
		}

	case cooldownTickMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if cd, ok := m.deps.Store.Cooldown(session.CooldownOTP); ok {
			m.cooldown = cd.Remaining(time.Now())
		} else {
			m.cooldown = 0
		}
		if m.cooldown > 0 {
			return m, tickCooldown(m.gen)
		}
		// cooldown ran out: resend re-enables without any server call
		return m, nil

	case otpSentMsg:
		m.busy = false
		m.sent = true
		m.status = fmt.Sprintf("OTP sent to %s", msg.phone)
		m.errMsg = ""
		m.phone.Blur()
		m.code.Focus()

		cd := session.NewCooldown(time.Now(), session.ResendCooldown)
		if err := m.deps.Store.StartCooldown(session.CooldownOTP, cd); err != nil {
			logger.ErrorErr(err, "failed to persist otp cooldown")
		}
		m.cooldown = session.ResendCooldown
		m.gen++
		return m, tickCooldown(m.gen)

	case otpSendErrMsg:
		// failed send keeps the flow idle; no cooldown starts
		m.busy = false
		m.errMsg = msg.err.Error()
		return m, nil

	case otpVerifiedMsg:
		m.busy = false
		res := msg.result

		email := res.Email
		if email == "" {
			email = m.email
		}
		ctx := onboarding.ContextFrom(email, res.Message)

		if res.Token != "" {
			// the refreshed credential must be committed before moving
			// on, or the next screen's guarded calls would 401
			return m, commitAndRoute(m.deps, res.Token, res.NextAction, ctx)
		}
		return m, routeActionCmd(res.NextAction, ctx)

	case otpVerifyErrMsg:
		// surface the server's message verbatim and keep the email
		// context so retry and resend work without re-entry
		m.busy = false
		m.errMsg = msg.err.Error()
		return m, nil
	}

	var cmd tea.Cmd
	if m.sent {
		m.code, cmd = m.code.Update(msg)
	} else {
		m.phone, cmd = m.phone.Update(msg)
	}
	return m, cmd
}

func (m *verifyOTPModel) sendOTP() tea.Cmd {
	phone := strings.TrimSpace(m.phone.Value())
	if phone == "" {
		m.errMsg = "enter your phone number"
		return nil
	}

	m.busy = true
	m.errMsg = ""
	deps := m.deps
	email := m.email

	return func() tea.Msg {
		if err := deps.Client.SendOTP(context.Background(), email, phone); err != nil {
			return otpSendErrMsg{err: err}
		}
		return otpSentMsg{phone: phone}
	}
}

func (m *verifyOTPModel) resend() tea.Cmd {
	if !m.sent || m.cooldown > 0 || m.busy {
		return nil
	}

	m.busy = true
	deps := m.deps
	email := m.email
	phone := strings.TrimSpace(m.phone.Value())

	return func() tea.Msg {
		if err := deps.Client.SendOTP(context.Background(), email, phone); err != nil {
			return otpSendErrMsg{err: err}
		}
		return otpSentMsg{phone: phone}
	}
}

func (m *verifyOTPModel) verify() tea.Cmd {
	code := strings.TrimSpace(m.code.Value())
	if len(code) < minOTPLength {
		// submit stays disabled below the minimum length
		return nil
	}

	m.busy = true
	m.errMsg = ""
	deps := m.deps
	email := m.email

	return func() tea.Msg {
		res, err := deps.Client.VerifyOTP(context.Background(), email, code)
		if err != nil {
			return otpVerifyErrMsg{err: err}
		}
		return otpVerifiedMsg{result: res}
	}
}

func (m *verifyOTPModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Verify your mobile number"))
	b.WriteString("\n")
	b.WriteString(onboardingProgress(onboarding.ActionMobileOTP))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render(fmt.Sprintf("account: %s", m.email)))
	b.WriteString("\n\n")

	if !m.sent {
		b.WriteString(labelStyle.Render("phone number"))
		b.WriteString("\n")
		b.WriteString(m.phone.View())
		b.WriteString("\n")
	} else {
		b.WriteString(labelStyle.Render("enter the code we texted you"))
		b.WriteString("\n")
		b.WriteString(m.code.View())
		b.WriteString("\n")

		if len(strings.TrimSpace(m.code.Value())) < minOTPLength {
			b.WriteString(infoStyle.Render(fmt.Sprintf("at least %d digits", minOTPLength)))
			b.WriteString("\n")
		}
	}

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

	hint := "enter: send code"
	if m.sent {
		hint = "enter: verify"
		if m.cooldown > 0 {
			hint += fmt.Sprintf(" | resend in %ds", int(m.cooldown.Seconds()))
		} else {
			hint += " | ctrl+s: resend"
		}
	}

	b.WriteString(helpStyle.Render(hint + " | ctrl+c: back"))

	return b.String()
}
