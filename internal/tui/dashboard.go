package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"codeberg.org/podhub/hub/internal/hubapi"
	"codeberg.org/podhub/hub/internal/onboarding"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/glamour"
	tea "github.com/charmbracelet/bubbletea"
)

// how often the notification bell refreshes
const notificationPollInterval = time.Minute

type dashboardModel struct {
	deps    *Deps
	banner  string
	spin    spinner.Model
	loading bool
	errMsg  string

	podcasts      []hubapi.Podcast
	notifications []hubapi.Notification
	unread        int
	preview       string

	// poll generation; ticks from a left screen carry a stale gen
	gen int
}

type dashboardDataMsg struct {
	podcasts []hubapi.Podcast
	preview  string
}

type dashboardErrMsg struct {
	err error
}

type notificationsMsg struct {
	gen  int
	list []hubapi.Notification
}

type notificationPollTickMsg struct {
	gen int
}

func newDashboard(deps *Deps, ctx onboarding.StepContext) *dashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &dashboardModel{
		deps:    deps,
		banner:  ctx.Message,
		spin:    sp,
		loading: true,
	}
}

func (m *dashboardModel) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		m.fetch(),
		m.fetchNotifications(),
		m.pollTick(),
	)
}

func (m *dashboardModel) fetch() tea.Cmd {
	deps := m.deps
	user := deps.Auth.User()

	return func() tea.Msg {
		ctx := context.Background()

		podcasts, err := deps.Client.MyPodcasts(ctx)
		if err != nil {
			return dashboardErrMsg{err: err}
		}

		preview := ""
		if user != nil && user.Username != "" {
			if page, pageErr := deps.Client.PublicPage(ctx, user.Username); pageErr == nil {
				preview = renderPublicPreview(page)
			}
		}

		return dashboardDataMsg{podcasts: podcasts, preview: preview}
	}
}

func (m *dashboardModel) fetchNotifications() tea.Cmd {
	deps := m.deps
	gen := m.gen

	return func() tea.Msg {
		list, err := deps.Client.Notifications(context.Background())
		if err != nil {
			// the bell is best-effort; a failed poll just keeps the old list
			return notificationsMsg{gen: gen, list: nil}
		}
		return notificationsMsg{gen: gen, list: list}
	}
}

func (m *dashboardModel) pollTick() tea.Cmd {
	gen := m.gen
	return tea.Tick(notificationPollInterval, func(time.Time) tea.Msg {
		return notificationPollTickMsg{gen: gen}
	})
}

func (m *dashboardModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "n":
			m.gen++
			return m, func() tea.Msg { return NavigateMsg{Screen: screenCreatePodcast} }
		case "u":
			m.gen++
			return m, func() tea.Msg { return NavigateMsg{Screen: screenPayment} }
		case "p":
			m.gen++
			return m, func() tea.Msg { return NavigateMsg{Screen: screenProfile} }
		case "a":
			m.gen++
			return m, func() tea.Msg { return NavigateMsg{Screen: screenAdmin} }
		case "d":
			m.gen++
			return m, func() tea.Msg { return NavigateMsg{Screen: screenDiscover} }
		case "r":
			m.loading = true
			return m, tea.Batch(m.fetch(), m.fetchNotifications())
		case "m":
			return m, m.markAllSeen()
		case "q":
			m.gen++
			return m, logoutCmd(m.deps)
		}

	case dashboardDataMsg:
		m.loading = false
		m.podcasts = msg.podcasts
		m.preview = msg.preview
		return m, nil

	case dashboardErrMsg:
		m.loading = false
		m.errMsg = msg.err.Error()
		return m, nil

	case notificationsMsg:
		// a poll that resolves after this view was left is a no-op
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.list != nil {
			m.notifications = msg.list
			m.unread = 0
			for _, n := range m.notifications {
				if !n.Seen {
					m.unread++
				}
			}
		}
		return m, nil

	case notificationPollTickMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		return m, tea.Batch(m.fetchNotifications(), m.pollTick())

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *dashboardModel) markAllSeen() tea.Cmd {
	deps := m.deps
	gen := m.gen
	unseen := make([]string, 0)
	for _, n := range m.notifications {
		if !n.Seen {
			unseen = append(unseen, n.ID)
		}
	}

	return func() tea.Msg {
		ctx := context.Background()
		for _, id := range unseen {
			if err := deps.Client.MarkNotificationSeen(ctx, id); err != nil {
				break
			}
		}
		list, err := deps.Client.Notifications(ctx)
		if err != nil {
			return notificationsMsg{gen: gen, list: nil}
		}
		return notificationsMsg{gen: gen, list: list}
	}
}

func (m *dashboardModel) View() string {
	var b strings.Builder

	user := m.deps.Auth.User()

	title := "Dashboard"
	if user != nil {
		title = fmt.Sprintf("Dashboard: %s", user.Email)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if user != nil {
		b.WriteString(infoStyle.Render(fmt.Sprintf("plan: %s", user.Plan)))
		if m.unread > 0 {
			b.WriteString("  ")
			b.WriteString(warnStyle.Render(fmt.Sprintf("🔔 %d unread", m.unread)))
		}
		b.WriteString("\n")
	}

	if m.banner != "" {
		b.WriteString("\n")
		b.WriteString(successStyle.Render(m.banner))
		b.WriteString("\n")
	}

	b.WriteString("\n")

	if m.loading {
		b.WriteString(m.spin.View())
		b.WriteString(infoStyle.Render(" loading your podcasts..."))
		b.WriteString("\n")
	} else {
		b.WriteString(commandStyle.Render("your podcasts:"))
		b.WriteString("\n\n")

		if len(m.podcasts) == 0 {
			b.WriteString(infoStyle.Render("  nothing yet. press n to add your first podcast."))
			b.WriteString("\n")
		}

		for _, p := range m.podcasts {
			b.WriteString(fmt.Sprintf("  %s %s\n",
				commandStyle.Render(p.Title),
				infoStyle.Render(fmt.Sprintf("(%d visits)", p.Visits)),
			))
		}
	}

	if m.unread > 0 {
		b.WriteString("\n")
		b.WriteString(commandStyle.Render("notifications:"))
		b.WriteString("\n")
		for _, n := range m.notifications {
			if n.Seen {
				continue
			}
			b.WriteString(warnStyle.Render("  • " + n.Message))
			b.WriteString("\n")
		}
	}

	if m.preview != "" {
		b.WriteString("\n")
		b.WriteString(commandStyle.Render("public page preview:"))
		b.WriteString("\n")
		b.WriteString(m.preview)
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("n: new podcast | d: discover | u: upgrade plan | p: profile | m: mark seen | r: refresh | q: logout | ctrl+c: back"))

	return b.String()
}

// renders the creator's public page as markdown, the same shape visitors
// see on the web
func renderPublicPreview(page *hubapi.PublicPage) string {
	var md strings.Builder

	fmt.Fprintf(&md, "# %s\n\n", page.Name)
	if page.Bio != "" {
		fmt.Fprintf(&md, "%s\n\n", page.Bio)
	}
	for _, p := range page.Podcasts {
		fmt.Fprintf(&md, "- **%s**: %s\n", p.Title, p.Description)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)
	if err != nil {
		return md.String()
	}

	out, err := renderer.Render(md.String())
	if err != nil {
		return md.String()
	}
	return out
}
