package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"codeberg.org/podhub/hub/internal/hubapi"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type profileMode int

const (
	profileViewing profileMode = iota
	profileEditing
	profileAddingLink
)

type profileModel struct {
	deps   *Deps
	mode   profileMode
	fields []textinput.Model
	focus  int
	link   textinput.Model
	links  []hubapi.YouTubeLink
	cursor int
	busy   bool
	errMsg string
	notice string
}

type profileSavedMsg struct{}

type linksMsg struct {
	links []hubapi.YouTubeLink
}

type profileLoadErrMsg struct {
	err error
}

func newProfile(deps *Deps) *profileModel {
	name := textinput.New()
	name.Placeholder = "name"
	name.Prompt = "> "

	phone := textinput.New()
	phone.Placeholder = "phone"
	phone.Prompt = "> "

	bio := textinput.New()
	bio.Placeholder = "bio"
	bio.Prompt = "> "
	bio.CharLimit = 300

	link := textinput.New()
	link.Placeholder = "https://youtube.com/watch?v=..."
	link.Prompt = "> "

	return &profileModel{
		deps:   deps,
		fields: []textinput.Model{name, phone, bio},
		link:   link,
	}
}

func (m *profileModel) Init() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		links, err := deps.Client.YouTubeLinks(context.Background())
		if err != nil {
			return profileLoadErrMsg{err: err}
		}
		return linksMsg{links: links}
	}
}

func (m *profileModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case profileViewing:
			return m.updateViewing(msg)
		case profileEditing:
			return m.updateEditing(msg)
		case profileAddingLink:
			return m.updateAddingLink(msg)
		}

	case profileSavedMsg:
		m.busy = false
		m.mode = profileViewing
		m.notice = "profile saved"
		deps := m.deps
		return m, func() tea.Msg {
			_ = deps.Auth.Refresh(context.Background())
			return nil
		}

	case linksMsg:
		m.busy = false
		m.links = msg.links
		if m.cursor >= len(m.links) {
			m.cursor = 0
		}
		return m, nil

	case profileLoadErrMsg:
		m.busy = false
		m.errMsg = msg.err.Error()
		return m, nil
	}

	return m, nil
}

func (m *profileModel) updateViewing(msg tea.KeyMsg) (screenModel, tea.Cmd) {
	switch msg.String() {
	case "e":
		user := m.deps.Auth.User()
		if user != nil {
			m.fields[0].SetValue(user.Name)
			m.fields[1].SetValue(user.Phone)
		}
		m.mode = profileEditing
		m.notice = ""
		m.errMsg = ""
		m.setFocus(0)
		return m, textinput.Blink

	case "a":
		m.mode = profileAddingLink
		m.notice = ""
		m.errMsg = ""
		m.link.SetValue("")
		m.link.Focus()
		return m, textinput.Blink

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.links)-1 {
			m.cursor++
		}

	case "d":
		if len(m.links) == 0 || m.busy {
			return m, nil
		}
		return m, m.deleteLink(m.links[m.cursor].ID)

	case "esc":
		return m, func() tea.Msg { return NavigateMsg{Screen: screenDashboard} }
	}
	return m, nil
}

func (m *profileModel) updateEditing(msg tea.KeyMsg) (screenModel, tea.Cmd) {
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
		return m, m.save()

	case "esc":
		m.mode = profileViewing
		m.fields[m.focus].Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

func (m *profileModel) updateAddingLink(msg tea.KeyMsg) (screenModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.busy {
			return m, nil
		}
		return m, m.addLink()

	case "esc":
		m.mode = profileViewing
		m.link.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.link, cmd = m.link.Update(msg)
	return m, cmd
}

func (m *profileModel) setFocus(i int) {
	m.fields[m.focus].Blur()
	m.focus = i
	m.fields[m.focus].Focus()
}

func (m *profileModel) save() tea.Cmd {
	name := strings.TrimSpace(m.fields[0].Value())
	phone := strings.TrimSpace(m.fields[1].Value())
	bio := strings.TrimSpace(m.fields[2].Value())

	update := hubapi.ProfileUpdate{}
	if name != "" {
		update.Name = &name
	}
	if phone != "" {
		update.Phone = &phone
	}
	if bio != "" {
		update.Bio = &bio
	}

	m.busy = true
	m.errMsg = ""
	deps := m.deps

	return func() tea.Msg {
		if err := deps.Client.EditProfile(context.Background(), update); err != nil {
			return profileLoadErrMsg{err: err}
		}
		return profileSavedMsg{}
	}
}

func (m *profileModel) addLink() tea.Cmd {
	url := strings.TrimSpace(m.link.Value())
	if url == "" {
		m.errMsg = "a youtube url is required"
		return nil
	}

	m.busy = true
	m.errMsg = ""
	m.mode = profileViewing
	m.link.Blur()
	deps := m.deps

	return func() tea.Msg {
		ctx := context.Background()
		if _, err := deps.Client.AddYouTubeLink(ctx, url); err != nil {
			return profileLoadErrMsg{err: err}
		}
		links, err := deps.Client.YouTubeLinks(ctx)
		if err != nil {
			return profileLoadErrMsg{err: err}
		}
		return linksMsg{links: links}
	}
}

func (m *profileModel) deleteLink(id string) tea.Cmd {
	m.busy = true
	m.errMsg = ""
	deps := m.deps

	return func() tea.Msg {
		ctx := context.Background()
		if err := deps.Client.DeleteYouTubeLink(ctx, id); err != nil {
			return profileLoadErrMsg{err: err}
		}
		links, err := deps.Client.YouTubeLinks(ctx)
		if err != nil {
			return profileLoadErrMsg{err: err}
		}
		return linksMsg{links: links}
	}
}

func (m *profileModel) View() string {
	switch m.mode {
	case profileEditing:
		return m.viewEditing()
	case profileAddingLink:
		return m.viewAddingLink()
	default:
		return m.viewViewing()
	}
}

func (m *profileModel) viewViewing() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Your profile"))
	b.WriteString("\n\n")

	user := m.deps.Auth.User()
	if user != nil {
		b.WriteString(labelStyle.Render("email    "))
		b.WriteString(user.Email)
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("username "))
		b.WriteString(user.Username)
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("name     "))
		b.WriteString(user.Name)
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("phone    "))
		b.WriteString(user.Phone)
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("plan     "))
		b.WriteString(user.Plan)
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("sign-in  "))
		b.WriteString(user.LoginMethod)
		b.WriteString("\n")
	}

	if exp, ok := hubapi.PeekExpiry(m.deps.Store.Token()); ok {
		b.WriteString(labelStyle.Render("session  "))
		b.WriteString(infoStyle.Render(fmt.Sprintf("expires %s", exp.Local().Format(time.Kitchen))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(commandStyle.Render("youtube links:"))
	b.WriteString("\n")

	if len(m.links) == 0 {
		b.WriteString(infoStyle.Render("  none yet. press a to add one."))
		b.WriteString("\n")
	}
	for i, l := range m.links {
		cursor := "  "
		if i == m.cursor {
			cursor = accentStyle.Render("> ")
		}
		b.WriteString(cursor)
		b.WriteString(l.YouTubeURL)
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(successStyle.Render(m.notice))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("e: edit profile | a: add link | d: delete link | esc: back"))

	return b.String()
}

func (m *profileModel) viewEditing() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Edit profile"))
	b.WriteString("\n\n")

	labels := []string{"name", "phone", "bio"}
	for i, field := range m.fields {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(field.View())
		b.WriteString("\n\n")
	}

	if m.busy {
		b.WriteString(infoStyle.Render("saving..."))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter: next/save | esc: discard"))

	return b.String()
}

func (m *profileModel) viewAddingLink() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Add youtube link"))
	b.WriteString("\n\n")
	b.WriteString(m.link.View())
	b.WriteString("\n\n")

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter: add | esc: cancel"))

	return b.String()
}
