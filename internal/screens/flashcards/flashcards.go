package flashcards

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduspark/internal/screen"
	"github.com/abhisek/eduspark/internal/study"
	"github.com/abhisek/eduspark/internal/ui/layout"
	"github.com/abhisek/eduspark/internal/ui/theme"
)

// FlashcardsScreen shows one card at a time. Navigation wraps around.
type FlashcardsScreen struct {
	cards   []study.Flashcard
	index   int
	flipped bool
}

var _ screen.Screen = (*FlashcardsScreen)(nil)
var _ screen.KeyHintProvider = (*FlashcardsScreen)(nil)

// New creates a FlashcardsScreen.
func New(cards []study.Flashcard) *FlashcardsScreen {
	return &FlashcardsScreen{cards: cards}
}

func (f *FlashcardsScreen) Init() tea.Cmd {
	return nil
}

func (f *FlashcardsScreen) Title() string {
	return "Flashcards"
}

func (f *FlashcardsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Space", Description: "Flip"},
		{Key: "←→", Description: "Prev/Next"},
		{Key: "Esc", Description: "Back"},
	}
}

func (f *FlashcardsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(f.cards) == 0 {
		return f, nil
	}

	switch kmsg.String() {
	case "space", " ", "enter", "f":
		f.flipped = !f.flipped
	case "right", "l", "n":
		f.index = (f.index + 1) % len(f.cards)
		f.flipped = false
	case "left", "h", "p":
		f.index = (f.index - 1 + len(f.cards)) % len(f.cards)
		f.flipped = false
	}
	return f, nil
}

// Current returns the index of the shown card and whether it is flipped.
func (f *FlashcardsScreen) Current() (int, bool) {
	return f.index, f.flipped
}

func (f *FlashcardsScreen) View(width, height int) string {
	if len(f.cards) == 0 {
		return theme.Hint.Render("\n  This study pack has no flashcards.")
	}

	card := f.cards[f.index]
	cw := min(width-8, 60)
	ch := max(min(height-8, 9), 5)

	var face string
	if f.flipped {
		face = theme.FlashBack.Width(cw).Height(ch).Render(card.Back)
	} else {
		face = theme.FlashFront.Width(cw).Height(ch).Render(card.Front)
	}

	side := "Front"
	if f.flipped {
		side = "Back"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Center(theme.Subtitle.Render(
		fmt.Sprintf("Card %d of %d  ·  %s", f.index+1, len(f.cards), side)), width))
	b.WriteString("\n\n")
	b.WriteString(layout.Center(face, width))
	b.WriteString("\n\n")
	b.WriteString(layout.Center(theme.Hint.Render("Press space to flip"), width))
	return b.String()
}
