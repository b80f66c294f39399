package tui

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/podhub/hub/internal/hubapi"
	"codeberg.org/podhub/hub/internal/onboarding"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// upgrade flow in two phases: pick a plan to create an order, then paste
// the gateway confirmation to verify it
type paymentModel struct {
	deps   *Deps
	plans  []string
	cursor int
	order  *hubapi.PaymentOrder
	fields []textinput.Model
	focus  int
	busy   bool
	errMsg string
}

type orderCreatedMsg struct {
	order *hubapi.PaymentOrder
}

type paymentDoneMsg struct {
	plan string
}

type paymentErrMsg struct {
	err error
}

func newPayment(deps *Deps) *paymentModel {
	paymentID := textinput.New()
	paymentID.Placeholder = "payment id"
	paymentID.Prompt = "> "

	signature := textinput.New()
	signature.Placeholder = "signature"
	signature.Prompt = "> "

	return &paymentModel{
		deps:   deps,
		plans:  []string{hubapi.PlanSilver, hubapi.PlanGold, hubapi.PlanPremium},
		fields: []textinput.Model{paymentID, signature},
	}
}

func (m *paymentModel) Init() tea.Cmd {
	return nil
}

func (m *paymentModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.order == nil {
			return m.updatePlanPick(msg)
		}
		return m.updateConfirm(msg)

	case orderCreatedMsg:
		m.busy = false
		m.order = msg.order
		m.fields[0].Focus()
		return m, textinput.Blink

	case paymentDoneMsg:
		m.busy = false
		deps := m.deps
		ctx := onboarding.StepContext{Message: "Plan upgraded to " + msg.plan}
		return m, func() tea.Msg {
			// pick up the new plan before the dashboard renders it
			_ = deps.Auth.Refresh(context.Background())
			return NavigateMsg{Screen: screenDashboard, Ctx: ctx}
		}

	case paymentErrMsg:
		m.busy = false
		m.errMsg = msg.err.Error()
		return m, nil
	}

	if m.order != nil {
		var cmd tea.Cmd
		m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *paymentModel) updatePlanPick(msg tea.KeyMsg) (screenModel, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.plans)-1 {
			m.cursor++
		}
	case "enter":
		if m.busy {
			return m, nil
		}
		return m, m.createOrder(m.plans[m.cursor])
	case "esc":
		return m, func() tea.Msg { return NavigateMsg{Screen: screenDashboard} }
	}
	return m, nil
}

func (m *paymentModel) updateConfirm(msg tea.KeyMsg) (screenModel, tea.Cmd) {
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
		return m, m.verify()

	case "esc":
		// dropping the confirmation leaves the order unpaid server-side,
		// which is fine: orders are only honored once verified
		m.order = nil
		m.errMsg = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

func (m *paymentModel) setFocus(i int) {
	m.fields[m.focus].Blur()
	m.focus = i
	m.fields[m.focus].Focus()
}

func (m *paymentModel) createOrder(plan string) tea.Cmd {
	m.busy = true
	m.errMsg = ""
	deps := m.deps

	return func() tea.Msg {
		order, err := deps.Client.CreateOrder(context.Background(), plan)
		if err != nil {
			return paymentErrMsg{err: err}
		}
		return orderCreatedMsg{order: order}
	}
}

func (m *paymentModel) verify() tea.Cmd {
	paymentID := strings.TrimSpace(m.fields[0].Value())
	signature := strings.TrimSpace(m.fields[1].Value())

	if paymentID == "" || signature == "" {
		m.errMsg = "payment id and signature are required"
		return nil
	}

	m.busy = true
	m.errMsg = ""
	deps := m.deps
	verification := hubapi.PaymentVerification{
		OrderID:   m.order.OrderID,
		PaymentID: paymentID,
		Signature: signature,
		Plan:      m.order.Plan,
	}

	return func() tea.Msg {
		if err := deps.Client.VerifyPayment(context.Background(), verification); err != nil {
			return paymentErrMsg{err: err}
		}
		return paymentDoneMsg{plan: verification.Plan}
	}
}

func (m *paymentModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Upgrade your plan"))
	b.WriteString("\n\n")

	if m.order == nil {
		for i, plan := range m.plans {
			cursor := "  "
			if i == m.cursor {
				cursor = accentStyle.Render("> ")
			}
			b.WriteString(cursor)
			b.WriteString(commandStyle.Render(plan))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.busy {
			b.WriteString(infoStyle.Render("creating order..."))
			b.WriteString("\n")
		}
		if m.errMsg != "" {
			b.WriteString(errorStyle.Render(m.errMsg))
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("up/down: pick plan | enter: checkout | esc: back"))
		return b.String()
	}

	b.WriteString(infoStyle.Render(fmt.Sprintf("order %s: %s %d.%02d for %s",
		m.order.OrderID, m.order.Currency, m.order.Amount/100, m.order.Amount%100, m.order.Plan)))
	b.WriteString("\n\n")
	b.WriteString(infoStyle.Render("complete the checkout with your payment provider, then paste the confirmation below"))
	b.WriteString("\n\n")

	labels := []string{"payment id", "signature"}
	for i, field := range m.fields {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(field.View())
		b.WriteString("\n\n")
	}

	if m.busy {
		b.WriteString(infoStyle.Render("verifying payment..."))
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter: next/verify | esc: pick a different plan"))

	return b.String()
}
