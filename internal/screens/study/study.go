package study

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/eduspark/internal/llm"
	"github.com/abhisek/eduspark/internal/router"
	"github.com/abhisek/eduspark/internal/screen"
	"github.com/abhisek/eduspark/internal/screens"
	"github.com/abhisek/eduspark/internal/screens/flashcards"
	"github.com/abhisek/eduspark/internal/screens/mindmap"
	"github.com/abhisek/eduspark/internal/screens/quiz"
	sp "github.com/abhisek/eduspark/internal/study"
	"github.com/abhisek/eduspark/internal/ui/components"
	"github.com/abhisek/eduspark/internal/ui/layout"
	"github.com/abhisek/eduspark/internal/ui/theme"
)

const groundingTimeout = 45 * time.Second

type groundedMsg struct {
	text string
	err  error
}

// StudyScreen is the overview of a generated study pack and the entry
// point to its quiz, flashcards and mind map.
type StudyScreen struct {
	svc     *screens.Services
	session *sp.Session
	menu    components.Menu

	spinner   components.Spinner
	grounding bool
	grounded  string
	groundErr string
}

var _ screen.Screen = (*StudyScreen)(nil)
var _ screen.KeyHintProvider = (*StudyScreen)(nil)

// New creates a StudyScreen for session.
func New(svc *screens.Services, session *sp.Session) *StudyScreen {
	s := &StudyScreen{
		svc:     svc,
		session: session,
	}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: fmt.Sprintf("Take the quiz (%d questions)", len(session.Quizzes)), Action: func() tea.Cmd {
			return router.Push(quiz.New(svc, session))
		}},
		{Label: fmt.Sprintf("Flashcards (%d)", len(session.Flashcards)), Action: func() tea.Cmd {
			return router.Push(flashcards.New(session.Flashcards))
		}},
		{Label: "Mind map", Action: func() tea.Cmd {
			return router.Push(mindmap.New(&session.MindMap))
		}},
		{Label: "Search for more context", Disabled: !svc.CanGenerate(), Action: s.ground},
	})
	return s
}

func (s *StudyScreen) Init() tea.Cmd {
	return nil
}

func (s *StudyScreen) Title() string {
	return s.session.Title
}

func (s *StudyScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StudyScreen) ground() tea.Cmd {
	if s.grounding || !s.svc.CanGenerate() {
		return nil
	}
	s.grounding = true
	s.groundErr = ""

	gen := s.svc.Controller.Generator()
	query := s.session.Title
	log := s.svc.Log()
	return tea.Batch(s.spinner.Tick(), func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), groundingTimeout)
		defer cancel()
		text, err := gen.Ground(ctx, query)
		if err != nil {
			log.Warn("search grounding failed", zap.String("query", query), zap.Error(err))
		}
		return groundedMsg{text: text, err: err}
	})
}

func (s *StudyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case groundedMsg:
		s.grounding = false
		switch {
		case errors.Is(msg.err, llm.ErrGroundingUnsupported):
			s.groundErr = "Search isn't available with the configured AI provider."
		case msg.err != nil:
			s.groundErr = "Couldn't fetch more context right now."
		default:
			s.grounded = msg.text
		}
		return s, nil

	case components.SpinnerTickMsg:
		if !s.grounding {
			return s, nil
		}
		s.spinner = s.spinner.Advance()
		return s, s.spinner.Tick()

	case tea.KeyMsg:
		if msg.String() == "g" {
			return s, s.ground()
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *StudyScreen) View(width, height int) string {
	cw := min(width-8, 76)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + theme.Title.Render(s.session.Title) + "\n\n")
	for _, line := range strings.Split(layout.Wrap(s.session.Summary, cw), "\n") {
		b.WriteString("  " + theme.Body.Render(line) + "\n")
	}
	b.WriteString("\n")

	if len(s.session.Concepts) > 0 {
		tags := make([]string, len(s.session.Concepts))
		for i, c := range s.session.Concepts {
			tags[i] = theme.Tag.Render("#" + c)
		}
		b.WriteString("  " + layout.Wrap(strings.Join(tags, "  "), cw) + "\n\n")
	}

	for _, line := range strings.Split(strings.TrimRight(s.menu.View(), "\n"), "\n") {
		b.WriteString(line + "\n")
	}

	switch {
	case s.grounding:
		b.WriteString("\n  " + s.spinner.View() + theme.Hint.Render(" Searching for more context..."))
	case s.groundErr != "":
		b.WriteString("\n  " + theme.Incorrect.Render(s.groundErr))
	case s.grounded != "":
		b.WriteString("\n  " + theme.Subtitle.Render("More context") + "\n")
		for _, line := range strings.Split(layout.Wrap(s.grounded, cw), "\n") {
			b.WriteString("  " + theme.Body.Render(line) + "\n")
		}
	}
	return b.String()
}
