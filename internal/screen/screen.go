package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduspark/internal/ui/layout"
)

// Screen is one view of the terminal UI, managed by the router stack.
type Screen interface {
	// Init returns an initial command when the screen becomes active.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content between header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens that show their own footer
// key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscapeHandler is implemented by screens that sometimes handle Esc
// themselves instead of letting the app pop them.
type EscapeHandler interface {
	HandlesEscape() bool
}
