package quiz

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduspark/internal/progress"
	"github.com/abhisek/eduspark/internal/router"
	"github.com/abhisek/eduspark/internal/screens"
	"github.com/abhisek/eduspark/internal/screens/stats"
	"github.com/abhisek/eduspark/internal/study"
)

func testSession() *study.Session {
	return &study.Session{
		ID:    "s1",
		Title: "Photosynthesis",
		Quizzes: []study.QuizQuestion{
			{ID: "q1", Type: study.MultipleChoice, Question: "Where does the Calvin cycle run?",
				Options: []string{"Stroma", "Nucleus"}, Answer: "Stroma", Explanation: "In the stroma."},
			{ID: "q2", Type: study.FillBlank, Question: "The green pigment is ____.",
				Answer: "Chlorophyll", Explanation: "It absorbs light."},
		},
	}
}

func testServices(t *testing.T) *screens.Services {
	t.Helper()
	return &screens.Services{
		Tracker: progress.NewTracker(t.Context(), progress.NewMemoryStore(nil), progress.DefaultPolicy(), nil),
	}
}

func enter() tea.KeyPressMsg { return tea.KeyPressMsg{Code: tea.KeyEnter} }

func TestQuizCompletesOnce(t *testing.T) {
	svc := testServices(t)
	q := New(svc, testSession())

	// Q1: pick the first option, which is correct.
	q.Update(enter())
	if !q.answered || !q.lastRight {
		t.Fatal("expected first answer to be marked correct")
	}
	if !strings.Contains(q.View(80, 30), "Correct!") {
		t.Error("answered view should say Correct!")
	}
	q.Update(enter())
	if q.index != 1 {
		t.Fatalf("expected to advance to question 2, at %d", q.index)
	}

	// Q2: typed answer, case-insensitive.
	q.input.SetValue("  chlorophyll ")
	q.Update(enter())
	if correct, total := q.Score(); correct != 2 || total != 2 {
		t.Errorf("Score = %d/%d, want 2/2", correct, total)
	}

	_, cmd := q.Update(enter())
	if cmd == nil {
		t.Fatal("expected completion command on last question")
	}
	msg := cmd()
	done, ok := msg.(completedMsg)
	if !ok {
		t.Fatalf("expected completedMsg, got %T", msg)
	}
	if done.earned != 100 {
		t.Errorf("earned = %d, want 100", done.earned)
	}

	st := svc.Tracker.CurrentStats()
	if st.Points != 100 || st.CompletedSessions != 1 {
		t.Errorf("stats = %+v, want 100 points and 1 session", st)
	}

	// A second Enter must not record again.
	if _, cmd := q.Update(enter()); cmd != nil {
		t.Error("completion fired twice")
	}

	_, cmd = q.Update(done)
	replace, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg after completion")
	}
	if _, ok := replace.Screen.(*stats.StatsScreen); !ok {
		t.Errorf("expected stats screen, got %T", replace.Screen)
	}
}

func TestQuizWrongAnswerShowsExpected(t *testing.T) {
	q := New(testServices(t), testSession())
	q.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	q.Update(enter())

	if q.lastRight {
		t.Error("second option should be wrong")
	}
	view := q.View(80, 30)
	if !strings.Contains(view, "The answer is: Stroma") {
		t.Error("wrong answer view should reveal the answer")
	}
	if !strings.Contains(view, "In the stroma.") {
		t.Error("answered view should show the explanation")
	}
}

func TestQuizEmptyTypedAnswerIgnored(t *testing.T) {
	s := testSession()
	s.Quizzes = s.Quizzes[1:]
	q := New(testServices(t), s)

	q.Update(enter())
	if q.answered {
		t.Error("blank answer should not submit")
	}
}

func TestQuizWithoutQuestions(t *testing.T) {
	svc := testServices(t)
	q := New(svc, &study.Session{ID: "s2", Title: "Empty"})
	if !strings.Contains(q.View(80, 30), "no quiz questions") {
		t.Error("expected empty quiz message")
	}
	_, cmd := q.Update(enter())
	if cmd == nil {
		t.Fatal("expected completion command")
	}
	cmd()
	if svc.Tracker.CurrentStats().CompletedSessions != 1 {
		t.Error("completion not recorded")
	}
}

func TestQuizKeyHints(t *testing.T) {
	q := New(testServices(t), testSession())
	if got := q.KeyHints()[0].Description; got != "Choose" {
		t.Errorf("first hint = %q, want Choose", got)
	}
	q.Update(enter())
	if got := q.KeyHints()[0].Description; got != "Next question" {
		t.Errorf("hint after answer = %q", got)
	}
}
