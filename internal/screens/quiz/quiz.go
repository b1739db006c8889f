package quiz

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/eduspark/internal/router"
	"github.com/abhisek/eduspark/internal/screen"
	"github.com/abhisek/eduspark/internal/screens"
	"github.com/abhisek/eduspark/internal/screens/stats"
	"github.com/abhisek/eduspark/internal/study"
	"github.com/abhisek/eduspark/internal/ui/components"
	"github.com/abhisek/eduspark/internal/ui/layout"
	"github.com/abhisek/eduspark/internal/ui/theme"
)

// completedMsg reports that the session completion was recorded.
type completedMsg struct {
	earned int
}

// QuizScreen walks through a session's questions one at a time. Finishing
// the last question records the session completion exactly once.
type QuizScreen struct {
	svc     *screens.Services
	session *study.Session

	index     int
	correct   int
	answered  bool
	lastRight bool
	completed bool

	choice components.MultiChoice
	input  components.TextInput
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a QuizScreen.
func New(svc *screens.Services, session *study.Session) *QuizScreen {
	q := &QuizScreen{svc: svc, session: session}
	q.loadQuestion()
	return q
}

func (q *QuizScreen) Init() tea.Cmd {
	if q.current() != nil && !q.current().HasOptions() {
		return q.input.Init()
	}
	return nil
}

func (q *QuizScreen) Title() string {
	return "Quiz"
}

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case q.answered && q.isLast():
		return []layout.KeyHint{{Key: "Enter", Description: "Complete"}}
	case q.answered:
		return []layout.KeyHint{{Key: "Enter", Description: "Next question"}}
	case q.current() != nil && q.current().HasOptions():
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Leave quiz"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Leave quiz"},
		}
	}
}

// Score returns correct answers and total questions.
func (q *QuizScreen) Score() (int, int) {
	return q.correct, len(q.session.Quizzes)
}

func (q *QuizScreen) current() *study.QuizQuestion {
	if q.index >= len(q.session.Quizzes) {
		return nil
	}
	return &q.session.Quizzes[q.index]
}

func (q *QuizScreen) isLast() bool {
	return q.index >= len(q.session.Quizzes)-1
}

func (q *QuizScreen) loadQuestion() {
	q.answered = false
	q.lastRight = false
	cur := q.current()
	if cur == nil {
		return
	}
	if cur.HasOptions() {
		q.choice = components.NewMultiChoice(cur.Options, cur.Answer)
	} else {
		q.input = components.NewTextInput("Type your answer...", 120)
	}
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case completedMsg:
		return q, router.Replace(stats.NewAfterCompletion(q.svc.Tracker, msg.earned))
	case tea.KeyMsg:
		return q.handleKey(msg)
	}

	if cur := q.current(); cur != nil && !cur.HasOptions() && !q.answered {
		var cmd tea.Cmd
		q.input, cmd = q.input.Update(msg)
		return q, cmd
	}
	return q, nil
}

func (q *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	cur := q.current()

	// A pack without questions completes immediately.
	if cur == nil {
		if msg.String() == "enter" {
			return q, q.complete()
		}
		return q, nil
	}

	if q.answered {
		if msg.String() != "enter" {
			return q, nil
		}
		if q.isLast() {
			return q, q.complete()
		}
		q.index++
		q.loadQuestion()
		return q, q.Init()
	}

	if cur.HasOptions() {
		var cmd tea.Cmd
		q.choice, cmd = q.choice.Update(msg)
		if q.choice.Submitted {
			q.submit(q.choice.Chosen())
		}
		return q, cmd
	}

	if msg.String() == "enter" {
		if strings.TrimSpace(q.input.Value()) == "" {
			return q, nil
		}
		q.submit(q.input.Value())
		q.input.Submit(q.lastRight)
		return q, nil
	}

	var cmd tea.Cmd
	q.input, cmd = q.input.Update(msg)
	return q, cmd
}

func (q *QuizScreen) submit(answer string) {
	q.answered = true
	q.lastRight = q.current().IsCorrect(answer)
	if q.lastRight {
		q.correct++
	}
}

// complete records the session once. Later calls are no-ops.
func (q *QuizScreen) complete() tea.Cmd {
	if q.completed {
		return nil
	}
	q.completed = true

	svc, session, correct := q.svc, q.session, q.correct
	return func() tea.Msg {
		ctx := context.Background()
		before := svc.Tracker.CurrentStats().Points
		after := svc.Tracker.RecordSessionCompletion(ctx)
		earned := after.Points - before

		if svc.Controller != nil {
			svc.Controller.Generator().RecordCompletion(ctx, session, correct, earned)
		}
		svc.Log().Info("study session completed",
			zap.String("session_id", session.ID),
			zap.Int("correct", correct),
			zap.Int("total", len(session.Quizzes)),
			zap.Int("points", after.Points),
			zap.Int("level", after.Level),
		)
		return completedMsg{earned: earned}
	}
}

func (q *QuizScreen) View(width, height int) string {
	cw := min(width-8, 72)
	total := len(q.session.Quizzes)

	var b strings.Builder
	b.WriteString("\n")

	cur := q.current()
	if cur == nil {
		b.WriteString(layout.Center(theme.Hint.Render("This study pack has no quiz questions."), width))
		b.WriteString("\n\n")
		b.WriteString(layout.Center(theme.Body.Render("Press Enter to complete the session."), width))
		return b.String()
	}

	header := fmt.Sprintf("Question %d of %d", q.index+1, total)
	score := theme.Points.Render(fmt.Sprintf("Score %d/%d", q.correct, total))
	b.WriteString("  " + theme.Subtitle.Render(header) + "   " + score + "\n\n")

	b.WriteString("  " + theme.Hint.Render(typeLabel(cur.Type)) + "\n")
	b.WriteString("  " + theme.Body.Bold(true).Render(layout.Wrap(cur.Question, cw)) + "\n\n")

	if cur.HasOptions() {
		for _, line := range strings.Split(strings.TrimRight(q.choice.View(), "\n"), "\n") {
			b.WriteString("  " + line + "\n")
		}
	} else {
		b.WriteString("  " + q.input.View() + "\n")
	}

	if q.answered {
		b.WriteString("\n")
		if q.lastRight {
			b.WriteString("  " + theme.Correct.Render("Correct!") + "\n")
		} else {
			b.WriteString("  " + theme.Incorrect.Render("Not quite. The answer is: "+cur.Answer) + "\n")
		}
		if cur.Explanation != "" {
			b.WriteString("  " + theme.Subtitle.Render(layout.Wrap(cur.Explanation, cw)) + "\n")
		}
		b.WriteString("\n")
		next := "Press Enter for the next question"
		if q.isLast() {
			next = "Press Enter to complete the session"
		}
		b.WriteString("  " + theme.Hint.Render(next) + "\n")
	}
	return b.String()
}

func typeLabel(t study.QuizType) string {
	switch t {
	case study.MultipleChoice:
		return "Multiple choice"
	case study.TrueFalse:
		return "True or false"
	case study.FillBlank:
		return "Fill in the blank"
	default:
		return string(t)
	}
}
