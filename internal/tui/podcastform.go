package tui

import (
	"context"
	"strings"

	"codeberg.org/podhub/hub/internal/hubapi"
	"codeberg.org/podhub/hub/internal/onboarding"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type podcastFormModel struct {
	deps   *Deps
	fields []textinput.Model
	focus  int
	busy   bool
	errMsg string
}

type podcastCreatedMsg struct {
	podcast *hubapi.Podcast
}

type podcastFormErrMsg struct {
	err error
}

func newPodcastForm(deps *Deps) *podcastFormModel {
	title := textinput.New()
	title.Placeholder = "title"
	title.Prompt = "> "
	title.CharLimit = 120
	title.Focus()

	desc := textinput.New()
	desc.Placeholder = "description"
	desc.Prompt = "> "
	desc.CharLimit = 500

	cover := textinput.New()
	cover.Placeholder = "cover image url (optional)"
	cover.Prompt = "> "

	spotify := textinput.New()
	spotify.Placeholder = "spotify url (optional)"
	spotify.Prompt = "> "

	apple := textinput.New()
	apple.Placeholder = "apple podcasts url (optional)"
	apple.Prompt = "> "

	youtube := textinput.New()
	youtube.Placeholder = "youtube url (optional)"
	youtube.Prompt = "> "

	return &podcastFormModel{
		deps:   deps,
		fields: []textinput.Model{title, desc, cover, spotify, apple, youtube},
	}
}

func (m *podcastFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *podcastFormModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
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

		case "esc":
			return m, func() tea.Msg { return NavigateMsg{Screen: screenDashboard} }
		}

	case podcastCreatedMsg:
		m.busy = false
		ctx := onboarding.StepContext{Message: "Podcast \"" + msg.podcast.Title + "\" created"}
		return m, func() tea.Msg {
			return NavigateMsg{Screen: screenDashboard, Ctx: ctx}
		}

	case podcastFormErrMsg:
		m.busy = false
		m.errMsg = msg.err.Error()
		return m, nil
	}

	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

func (m *podcastFormModel) setFocus(i int) {
	m.fields[m.focus].Blur()
	m.focus = i
	m.fields[m.focus].Focus()
}

func (m *podcastFormModel) submit() tea.Cmd {
	input := hubapi.PodcastInput{
		Title:       strings.TrimSpace(m.fields[0].Value()),
		Description: strings.TrimSpace(m.fields[1].Value()),
		CoverURL:    strings.TrimSpace(m.fields[2].Value()),
		SpotifyURL:  strings.TrimSpace(m.fields[3].Value()),
		AppleURL:    strings.TrimSpace(m.fields[4].Value()),
		YouTubeURL:  strings.TrimSpace(m.fields[5].Value()),
	}

	if input.Title == "" {
		m.errMsg = "a title is required"
		return nil
	}

	m.busy = true
	m.errMsg = ""
	deps := m.deps

	return func() tea.Msg {
		podcast, err := deps.Client.CreatePodcast(context.Background(), input)
		if err != nil {
			return podcastFormErrMsg{err: err}
		}
		return podcastCreatedMsg{podcast: podcast}
	}
}

func (m *podcastFormModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("New podcast"))
	b.WriteString("\n\n")

	labels := []string{"title", "description", "cover", "spotify", "apple", "youtube"}
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

	b.WriteString(helpStyle.Render("enter: next/submit | esc: back to dashboard"))

	return b.String()
}
