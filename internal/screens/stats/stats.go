package stats

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduspark/internal/progress"
	"github.com/abhisek/eduspark/internal/router"
	"github.com/abhisek/eduspark/internal/screen"
	"github.com/abhisek/eduspark/internal/ui/components"
	"github.com/abhisek/eduspark/internal/ui/layout"
	"github.com/abhisek/eduspark/internal/ui/theme"
)

// StatsScreen shows the learner's progress.
type StatsScreen struct {
	tracker *progress.Tracker

	// earned is the points just awarded, shown as a banner after a quiz.
	earned int
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)

// New creates a StatsScreen.
func New(tracker *progress.Tracker) *StatsScreen {
	return &StatsScreen{tracker: tracker}
}

// NewAfterCompletion creates a StatsScreen celebrating earned points.
func NewAfterCompletion(tracker *progress.Tracker, earned int) *StatsScreen {
	return &StatsScreen{tracker: tracker, earned: earned}
}

func (s *StatsScreen) Init() tea.Cmd {
	return nil
}

func (s *StatsScreen) Title() string {
	return "Your Progress"
}

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Dashboard"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	}
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	st := s.tracker.CurrentStats()
	policy := s.tracker.Policy()
	cw := min(width-8, 60)

	var b strings.Builder
	b.WriteString("\n")
	if s.earned > 0 {
		b.WriteString(layout.Center(theme.Correct.Render(fmt.Sprintf("Session complete! +%d points", s.earned)), width))
		b.WriteString("\n\n")
	}

	b.WriteString(layout.Center(theme.Title.Render(fmt.Sprintf("Level %d", st.Level)), width))
	b.WriteString("\n\n")
	bar := components.NewProgressBar("", policy.LevelProgress(st.Points), true, cw)
	b.WriteString(layout.Center(bar.View(), width))
	b.WriteString("\n")
	b.WriteString(layout.Center(theme.Hint.Render(
		fmt.Sprintf("%d points to level %d", policy.ToNextLevel(st.Points), st.Level+1)), width))
	b.WriteString("\n\n")

	rows := []struct {
		label string
		value string
	}{
		{"Points", fmt.Sprintf("%d", st.Points)},
		{"Streak", fmt.Sprintf("%d days", st.Streak)},
		{"Sessions completed", fmt.Sprintf("%d", st.CompletedSessions)},
	}
	var card strings.Builder
	for i, r := range rows {
		label := theme.Subtitle.Render(r.label)
		value := theme.Points.Render(r.value)
		gap := max(cw-6-lipgloss.Width(label)-lipgloss.Width(value), 1)
		card.WriteString(label + strings.Repeat(" ", gap) + value)
		if i < len(rows)-1 {
			card.WriteString("\n")
		}
	}
	b.WriteString(layout.Center(theme.Card.Width(cw).Render(card.String()), width))
	b.WriteString("\n\n")

	b.WriteString(layout.Center(theme.Subtitle.Render("Badges"), width))
	b.WriteString("\n")
	if len(st.Badges) == 0 {
		b.WriteString(layout.Center(theme.Hint.Render("No badges yet. Keep studying!"), width))
	} else {
		for _, badge := range st.Badges {
			b.WriteString(layout.Center(
				theme.Body.Render(fmt.Sprintf("%s %s  %s", badge.Icon, badge.Name, badge.Description)), width))
			b.WriteString("\n")
		}
	}
	return b.String()
}
