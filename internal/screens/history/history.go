package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduspark/internal/screen"
	"github.com/abhisek/eduspark/internal/store"
	"github.com/abhisek/eduspark/internal/ui/layout"
	"github.com/abhisek/eduspark/internal/ui/theme"
)

const historyLimit = 50

type historyLoadedMsg struct {
	Events []store.SessionEvent
	Err    error
}

// HistoryScreen lists past study session events, newest first.
type HistoryScreen struct {
	eventRepo store.EventRepo
	events    []store.SessionEvent
	selected  int
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{eventRepo: eventRepo}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		events, err := repo.QuerySessionEvents(context.Background(), store.QueryOpts{Limit: historyLimit})
		return historyLoadedMsg{Events: events, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	centered := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.errMsg != "":
		return centered.Foreground(theme.Error).Render("\n\nError: " + s.errMsg)
	case !s.loaded:
		return centered.Foreground(theme.TextDim).Render("\n\nLoading history...")
	case len(s.events) == 0:
		return centered.Foreground(theme.TextDim).Italic(true).Render("\n\nNo study sessions yet. Create your first study pack!")
	}

	var b strings.Builder
	b.WriteString("\n")

	// Keep the selection on screen.
	visible := max(height-2, 1)
	start := max(s.selected-visible+1, 0)
	end := min(start+visible, len(s.events))

	for i := start; i < end; i++ {
		line := formatEvent(s.events[i])
		prefix := "  "
		style := theme.Unselected
		if i == s.selected {
			prefix = "> "
			style = theme.Selected
		}
		b.WriteString(layout.Center(style.Render(prefix+line), width))
		b.WriteString("\n")
	}
	return b.String()
}

func formatEvent(e store.SessionEvent) string {
	date := e.Timestamp.Local().Format("Jan 02 15:04")
	title := e.Title
	if len([]rune(title)) > 36 {
		title = string([]rune(title)[:35]) + "…"
	}
	switch e.Action {
	case store.SessionCompleted:
		return fmt.Sprintf("%s  completed  %-36s  %d/%d  +%d pts",
			date, title, e.QuizCorrect, e.QuizTotal, e.PointsAwarded)
	default:
		return fmt.Sprintf("%s  generated  %-36s  %d questions", date, title, e.QuizTotal)
	}
}
