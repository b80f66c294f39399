package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type welcomeCommand struct {
	Name        string
	Description string
}

type welcomeModel struct {
	deps     *Deps
	input    string
	status   string
	commands []welcomeCommand
}

func newWelcome(deps *Deps) *welcomeModel {
	return &welcomeModel{
		deps: deps,
		commands: []welcomeCommand{
			{Name: "login", Description: "sign in to your hub"},
			{Name: "register", Description: "create a new account"},
			{Name: "google", Description: "sign in with Google"},
			{Name: "dashboard", Description: "go to your dashboard"},
			{Name: "discover", Description: "browse podcasts by other creators"},
			{Name: "admin", Description: "open the admin panel"},
			{Name: "quit", Description: "exit podhub"},
		},
	}
}

func (m *welcomeModel) Init() tea.Cmd {
	return nil
}

func (m *welcomeModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m, m.executeCommand()
		case "backspace":
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
		default:
			if len(msg.String()) == 1 {
				m.input += msg.String()
			}
		}
	}

	return m, nil
}

func (m *welcomeModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(logo))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("all your podcast links in one place"))
	b.WriteString("\n\n")

	if user := m.deps.Auth.User(); user != nil {
		b.WriteString(infoStyle.Render(fmt.Sprintf("signed in as %s (%s plan)", user.Email, user.Plan)))
		b.WriteString("\n\n")
	} else if m.deps.Auth.Loading() {
		b.WriteString(infoStyle.Render("checking session..."))
		b.WriteString("\n\n")
	}

	b.WriteString(commandStyle.Render("commands:"))
	b.WriteString("\n\n")

	for _, cmd := range m.commands {
		line := fmt.Sprintf("  %s %s",
			commandStyle.Render(cmd.Name),
			commandDescStyle.Render("- "+cmd.Description),
		)
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("> "))
	b.WriteString(commandStyle.Render(m.input + "_"))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("type a command and press enter. press ctrl+c to quit."))

	return b.String()
}

func (m *welcomeModel) executeCommand() tea.Cmd {
	cmd := strings.TrimSpace(m.input)
	m.input = ""
	m.status = ""

	switch cmd {
	case "quit":
		return tea.Quit

	case "login":
		return func() tea.Msg { return NavigateMsg{Screen: screenLogin} }

	case "register":
		return func() tea.Msg { return NavigateMsg{Screen: screenRegister} }

	case "google":
		return func() tea.Msg { return NavigateMsg{Screen: screenOAuth} }

	case "dashboard":
		return func() tea.Msg { return NavigateMsg{Screen: screenDashboard} }

	case "discover":
		return func() tea.Msg { return NavigateMsg{Screen: screenDiscover} }

	case "admin":
		return func() tea.Msg { return NavigateMsg{Screen: screenAdmin} }

	case "":
		return nil

	default:
		m.status = fmt.Sprintf("unknown command: %s", cmd)
		return nil
	}
}
