package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type unauthorizedModel struct{}

func newUnauthorized() *unauthorizedModel {
	return &unauthorizedModel{}
}

func (m *unauthorizedModel) Init() tea.Cmd {
	return nil
}

func (m *unauthorizedModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter", "esc":
			return m, func() tea.Msg { return NavigateMsg{Screen: screenDashboard} }
		}
	}
	return m, nil
}

func (m *unauthorizedModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("403"))
	b.WriteString("\n\n")
	b.WriteString(errorStyle.Render("you don't have access to that page"))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter: back to dashboard"))

	return b.String()
}
