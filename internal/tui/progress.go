package tui

import (
	"strings"
	"time"

	"codeberg.org/podhub/hub/internal/onboarding"
	tea "github.com/charmbracelet/bubbletea"
)

// renders the onboarding step bar with the current step highlighted
func onboardingProgress(current onboarding.Action) string {
	steps := []struct {
		action onboarding.Action
		label  string
	}{
		{onboarding.ActionEmailVerification, "email"},
		{onboarding.ActionMobileOTP, "mobile"},
		{onboarding.ActionProfileUpdated, "profile"},
		{onboarding.ActionNone, "done"},
	}

	parts := make([]string, 0, len(steps))
	for _, step := range steps {
		if step.action == current {
			parts = append(parts, accentStyle.Render("["+step.label+"]"))
		} else {
			parts = append(parts, infoStyle.Render(step.label))
		}
	}

	return strings.Join(parts, infoStyle.Render(" → "))
}

// a one second countdown tick. The generation tag makes ticks from an
// abandoned countdown no-ops instead of racing the new one.
type cooldownTickMsg struct {
	gen int
}

func tickCooldown(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return cooldownTickMsg{gen: gen}
	})
}
