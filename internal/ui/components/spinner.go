package components

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduspark/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SpinnerTickMsg advances a Spinner.
type SpinnerTickMsg time.Time

// Spinner is a loading indicator driven by SpinnerTickMsg.
type Spinner struct {
	frame int
}

// Tick schedules the next frame.
func (s Spinner) Tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return SpinnerTickMsg(t)
	})
}

// Advance moves to the next frame.
func (s Spinner) Advance() Spinner {
	s.frame = (s.frame + 1) % len(spinnerFrames)
	return s
}

// View renders the current frame.
func (s Spinner) View() string {
	return theme.Selected.Render(spinnerFrames[s.frame])
}
