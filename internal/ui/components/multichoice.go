package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduspark/internal/ui/theme"
)

// MultiChoice is an option picker. Once submitted it shows the correct
// option in green and a wrong pick in red.
type MultiChoice struct {
	Options      []string
	CorrectIndex int
	Selected     int
	Submitted    bool
	ChosenIndex  int
}

// NewMultiChoice creates a picker over options. CorrectIndex is -1 when
// correct is not among them.
func NewMultiChoice(options []string, correct string) MultiChoice {
	ci := -1
	for i, o := range options {
		if o == correct {
			ci = i
			break
		}
	}
	return MultiChoice{
		Options:      options,
		CorrectIndex: ci,
		ChosenIndex:  -1,
	}
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.Submitted = true
		m.ChosenIndex = m.Selected
	default:
		// a, b, c... pick directly.
		if len(key) == 1 && key[0] >= 'a' && int(key[0]-'a') < len(m.Options) {
			m.Selected = int(key[0] - 'a')
		}
	}

	return m, nil
}

// Chosen returns the submitted option, or "" before submission.
func (m MultiChoice) Chosen() string {
	if !m.Submitted || m.ChosenIndex < 0 {
		return ""
	}
	return m.Options[m.ChosenIndex]
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%c)  %s", prefix, 'A'+i, opt)

		switch {
		case m.Submitted && i == m.CorrectIndex:
			b.WriteString(theme.Correct.Render(line))
		case m.Submitted && i == m.ChosenIndex:
			b.WriteString(theme.Incorrect.Render(line))
		case m.Submitted:
			b.WriteString(theme.Hint.Render(line))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
