package tui

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/podhub/hub/internal/hubapi"
	tea "github.com/charmbracelet/bubbletea"
)

type adminModel struct {
	deps   *Deps
	stats  *hubapi.AdminStats
	users  []hubapi.AdminUser
	cursor int
	busy   bool
	errMsg string
}

type adminDataMsg struct {
	stats *hubapi.AdminStats
	users []hubapi.AdminUser
}

type adminErrMsg struct {
	err error
}

func newAdmin(deps *Deps) *adminModel {
	return &adminModel{deps: deps, busy: true}
}

func (m *adminModel) Init() tea.Cmd {
	return m.fetch()
}

func (m *adminModel) fetch() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		ctx := context.Background()

		stats, err := deps.Client.AdminStats(ctx)
		if err != nil {
			return adminErrMsg{err: err}
		}
		users, err := deps.Client.AdminUsers(ctx, "", 1)
		if err != nil {
			return adminErrMsg{err: err}
		}
		return adminDataMsg{stats: stats, users: users}
	}
}

func (m *adminModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.users)-1 {
				m.cursor++
			}

		case "t":
			return m, m.toggleActive()
		case "o":
			return m, m.toggleRole()
		case "x":
			return m, m.deleteUser()
		case "r":
			m.busy = true
			return m, m.fetch()

		case "esc":
			return m, func() tea.Msg { return NavigateMsg{Screen: screenDashboard} }
		}

	case adminDataMsg:
		m.busy = false
		m.stats = msg.stats
		m.users = msg.users
		if m.cursor >= len(m.users) {
			m.cursor = 0
		}
		return m, nil

	case adminErrMsg:
		m.busy = false
		// a 401 or 403 here is shown inline rather than bouncing the
		// whole app back to login
		m.errMsg = msg.err.Error()
		return m, nil
	}

	return m, nil
}

func (m *adminModel) selected() *hubapi.AdminUser {
	if m.cursor >= len(m.users) {
		return nil
	}
	return &m.users[m.cursor]
}

func (m *adminModel) toggleActive() tea.Cmd {
	target := m.selected()
	if target == nil || m.busy {
		return nil
	}

	m.busy = true
	m.errMsg = ""
	deps := m.deps
	active := !target.IsActive
	id := target.ID
	fetch := m.fetch()

	return func() tea.Msg {
		update := hubapi.AdminUserUpdate{IsActive: &active}
		if err := deps.Client.AdminUpdateUser(context.Background(), id, update); err != nil {
			return adminErrMsg{err: err}
		}
		return fetch()
	}
}

func (m *adminModel) toggleRole() tea.Cmd {
	target := m.selected()
	if target == nil || m.busy {
		return nil
	}

	role := hubapi.RoleAdmin
	if target.Role == hubapi.RoleAdmin {
		role = hubapi.RoleUser
	}

	m.busy = true
	m.errMsg = ""
	deps := m.deps
	id := target.ID
	fetch := m.fetch()

	return func() tea.Msg {
		update := hubapi.AdminUserUpdate{Role: &role}
		if err := deps.Client.AdminUpdateUser(context.Background(), id, update); err != nil {
			return adminErrMsg{err: err}
		}
		return fetch()
	}
}

func (m *adminModel) deleteUser() tea.Cmd {
	target := m.selected()
	if target == nil || m.busy {
		return nil
	}

	m.busy = true
	m.errMsg = ""
	deps := m.deps
	id := target.ID
	fetch := m.fetch()

	return func() tea.Msg {
		if err := deps.Client.AdminDeleteUser(context.Background(), id); err != nil {
			return adminErrMsg{err: err}
		}
		return fetch()
	}
}

func (m *adminModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Admin"))
	b.WriteString("\n\n")

	if m.stats != nil {
		b.WriteString(infoStyle.Render(fmt.Sprintf(
			"users: %d (%d active, %d paid) | podcasts: %d",
			m.stats.TotalUsers, m.stats.ActiveUsers, m.stats.PaidUsers, m.stats.TotalPodcasts,
		)))
		b.WriteString("\n\n")
	}

	if m.busy {
		b.WriteString(infoStyle.Render("loading..."))
		b.WriteString("\n")
	}

	for i, u := range m.users {
		cursor := "  "
		if i == m.cursor {
			cursor = accentStyle.Render("> ")
		}

		state := successStyle.Render("active")
		if !u.IsActive {
			state = errorStyle.Render("disabled")
		}

		role := ""
		if u.Role == hubapi.RoleAdmin {
			role = warnStyle.Render(" [admin]")
		}

		b.WriteString(fmt.Sprintf("%s%s %s %s%s\n",
			cursor, commandStyle.Render(u.Email), infoStyle.Render(u.Plan), state, role))
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("t: toggle active | o: toggle role | x: delete | r: refresh | esc: back"))

	return b.String()
}
