package tui

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/podhub/hub/internal/hubapi"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// discover tabs
const (
	discoverTabFree = iota
	discoverTabPlaylists
)

// browses podcasts by other creators. Public: anyone can search the free
// tier, playlists need a session because the endpoint is behind auth.
type discoverModel struct {
	deps    *Deps
	search  textinput.Model
	spin    spinner.Model
	loading bool
	errMsg  string

	tab       int
	free      []hubapi.Podcast
	playlists []hubapi.Podcast
}

type discoverFreeMsg struct {
	list []hubapi.Podcast
}

type discoverPlaylistsMsg struct {
	list []hubapi.Podcast
}

type discoverErrMsg struct {
	err error
}

func newDiscover(deps *Deps) *discoverModel {
	search := textinput.New()
	search.Placeholder = "search free podcasts"
	search.Prompt = "> "
	search.CharLimit = 80
	search.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &discoverModel{
		deps:    deps,
		search:  search,
		spin:    sp,
		loading: true,
	}
}

func (m *discoverModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spin.Tick, m.fetchFree("")}
	if m.deps.Auth.IsAuthenticated() {
		cmds = append(cmds, m.fetchPlaylists())
	}
	return tea.Batch(cmds...)
}

func (m *discoverModel) fetchFree(query string) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		list, err := deps.Client.FreePodcasts(context.Background(), query)
		if err != nil {
			return discoverErrMsg{err: err}
		}
		return discoverFreeMsg{list: list}
	}
}

func (m *discoverModel) fetchPlaylists() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		list, err := deps.Client.Playlists(context.Background())
		if err != nil {
			return discoverErrMsg{err: err}
		}
		return discoverPlaylistsMsg{list: list}
	}
}

func (m *discoverModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			m.loading = true
			m.errMsg = ""
			return m, tea.Batch(m.spin.Tick, m.fetchFree(strings.TrimSpace(m.search.Value())))

		case "tab":
			if !m.deps.Auth.IsAuthenticated() {
				m.errMsg = "sign in to browse playlists"
				return m, nil
			}
			if m.tab == discoverTabFree {
				m.tab = discoverTabPlaylists
			} else {
				m.tab = discoverTabFree
			}
			return m, nil

		case "esc":
			if m.deps.Auth.IsAuthenticated() {
				return m, func() tea.Msg { return NavigateMsg{Screen: screenDashboard} }
			}
			return m, func() tea.Msg { return NavigateMsg{Screen: screenWelcome} }
		}

	case discoverFreeMsg:
		m.loading = false
		m.free = msg.list
		return m, nil

	case discoverPlaylistsMsg:
		m.playlists = msg.list
		return m, nil

	case discoverErrMsg:
		m.loading = false
		m.errMsg = msg.err.Error()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *discoverModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Discover"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("podcasts from other creators"))
	b.WriteString("\n\n")

	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	list := m.free
	heading := "free tier:"
	if m.tab == discoverTabPlaylists {
		list = m.playlists
		heading = "playlists:"
	}
	b.WriteString(commandStyle.Render(heading))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spin.View())
		b.WriteString(infoStyle.Render(" loading..."))
		b.WriteString("\n")
	} else if len(list) == 0 {
		b.WriteString(infoStyle.Render("  nothing here yet."))
		b.WriteString("\n")
	} else {
		for _, p := range list {
			b.WriteString(fmt.Sprintf("  %s %s\n",
				commandStyle.Render(p.Title),
				infoStyle.Render(fmt.Sprintf("(%d visits)", p.Visits)),
			))
			if p.Description != "" {
				b.WriteString(infoStyle.Render("    " + p.Description))
				b.WriteString("\n")
			}
		}
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter: search | tab: free/playlists | esc: back"))

	return b.String()
}
