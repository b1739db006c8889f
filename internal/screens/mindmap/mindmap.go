package mindmap

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduspark/internal/screen"
	"github.com/abhisek/eduspark/internal/study"
	"github.com/abhisek/eduspark/internal/ui/layout"
	"github.com/abhisek/eduspark/internal/ui/theme"
)

// MindMapScreen renders the session's mind map as an indented tree.
type MindMapScreen struct {
	lines  []study.NodeAt
	offset int
}

var _ screen.Screen = (*MindMapScreen)(nil)
var _ screen.KeyHintProvider = (*MindMapScreen)(nil)

// New creates a MindMapScreen for root.
func New(root *study.MindMapNode) *MindMapScreen {
	return &MindMapScreen{lines: study.Flatten(root)}
}

func (m *MindMapScreen) Init() tea.Cmd {
	return nil
}

func (m *MindMapScreen) Title() string {
	return "Mind Map"
}

func (m *MindMapScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (m *MindMapScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
		case "down", "j":
			if m.offset < len(m.lines)-1 {
				m.offset++
			}
		case "home", "g":
			m.offset = 0
		}
	}
	return m, nil
}

func (m *MindMapScreen) View(width, height int) string {
	if len(m.lines) == 0 {
		return theme.Hint.Render("\n  This study pack has no mind map.")
	}

	rendered := Render(m.lines)
	start := min(m.offset, len(rendered)-1)
	end := min(start+max(height-2, 1), len(rendered))

	var b strings.Builder
	b.WriteString("\n")
	for _, line := range rendered[start:end] {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// Render turns flattened nodes into styled tree lines. The root is
// highlighted and children are drawn with box connectors.
func Render(lines []study.NodeAt) []string {
	out := make([]string, 0, len(lines))
	// open[d] is true while the ancestor at depth d has siblings below it.
	var open []bool
	for i, l := range lines {
		if l.Depth == 0 {
			out = append(out, theme.Title.Render("◉ "+l.Node.Label))
			continue
		}

		var prefix strings.Builder
		for d := 1; d < l.Depth; d++ {
			if d < len(open) && open[d] {
				prefix.WriteString("│  ")
			} else {
				prefix.WriteString("   ")
			}
		}
		last := isLastSibling(lines, i)
		if last {
			prefix.WriteString("└─ ")
		} else {
			prefix.WriteString("├─ ")
		}
		for len(open) <= l.Depth {
			open = append(open, false)
		}
		open[l.Depth] = !last

		style := theme.Body
		if l.Depth == 1 {
			style = theme.Tag
		}
		out = append(out, theme.Subtitle.Render(prefix.String())+style.Render(l.Node.Label))
	}
	return out
}

// isLastSibling reports whether no later node shares the parent of lines[i].
func isLastSibling(lines []study.NodeAt, i int) bool {
	d := lines[i].Depth
	for _, l := range lines[i+1:] {
		if l.Depth < d {
			return true
		}
		if l.Depth == d {
			return false
		}
	}
	return true
}
