package upload

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduspark/internal/generator"
	"github.com/abhisek/eduspark/internal/llm"
	"github.com/abhisek/eduspark/internal/progress"
	"github.com/abhisek/eduspark/internal/router"
	"github.com/abhisek/eduspark/internal/screens"
	studyscreen "github.com/abhisek/eduspark/internal/screens/study"
)

const packJSON = `{
	"title": "Photosynthesis",
	"summary": "Plants turn light into chemical energy.",
	"concepts": ["chlorophyll"],
	"quizzes": [{"id": "q1", "type": "true-false", "question": "Oxygen is released.", "options": ["True", "False"], "answer": "True", "explanation": "From water."}],
	"flashcards": [{"id": "f1", "front": "ATP", "back": "Energy carrier"}],
	"mindMap": {"id": "root", "label": "Photosynthesis", "children": []}
}`

func newServices(t *testing.T, responses ...llm.MockResponse) (*screens.Services, *llm.MockProvider) {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	return &screens.Services{
		Controller: generator.NewController(generator.New(mock, generator.DefaultConfig())),
		Tracker:    progress.NewTracker(t.Context(), progress.NewMemoryStore(nil), progress.DefaultPolicy(), nil),
	}, mock
}

// runGenerate executes the command returned by generate and returns the
// generation result, skipping spinner ticks.
func runGenerate(t *testing.T, cmd tea.Cmd) generatedMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msgs := []tea.Msg{cmd()}
	if batch, ok := msgs[0].(tea.BatchMsg); ok {
		msgs = msgs[:0]
		for _, c := range batch {
			if c != nil {
				msgs = append(msgs, c())
			}
		}
	}
	for _, m := range msgs {
		if g, ok := m.(generatedMsg); ok {
			return g
		}
	}
	t.Fatalf("no generatedMsg in %v", msgs)
	return generatedMsg{}
}

func ctrlS() tea.KeyPressMsg { return tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl} }

func TestGenerateDisabledWithoutInput(t *testing.T) {
	svc, mock := newServices(t)
	u := New(svc)

	if !u.button.Disabled {
		t.Error("button should start disabled")
	}
	_, cmd := u.Update(ctrlS())
	if cmd != nil || u.Generating() {
		t.Error("empty input must not start generation")
	}

	u.text.SetValue("   \n ")
	if _, cmd := u.Update(ctrlS()); cmd != nil {
		t.Error("whitespace input must not start generation")
	}
	if mock.CallCount() != 0 {
		t.Errorf("provider called %d times", mock.CallCount())
	}
}

func TestGenerateSuccessOpensStudyScreen(t *testing.T) {
	svc, mock := newServices(t, llm.MockResponse{Content: json.RawMessage(packJSON)})
	u := New(svc)
	u.text.SetValue("Photosynthesis converts light energy into chemical energy.")

	_, cmd := u.Update(ctrlS())
	if !u.Generating() {
		t.Fatal("expected generating state")
	}
	if !strings.Contains(u.View(80, 24), "AI is analyzing your content...") {
		t.Error("loading view missing")
	}

	// Keys are ignored while a request is in flight.
	if _, again := u.Update(ctrlS()); again != nil {
		t.Error("second generate should be ignored")
	}
	if !u.HandlesEscape() {
		t.Error("esc should stay on the screen while generating")
	}

	res := runGenerate(t, cmd)
	if res.err != nil {
		t.Fatalf("generate: %v", res.err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("provider called %d times, want 1", mock.CallCount())
	}

	_, next := u.Update(res)
	if u.Generating() || u.HandlesEscape() {
		t.Error("generating should clear")
	}
	msg, ok := next().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if _, ok := msg.Screen.(*studyscreen.StudyScreen); !ok {
		t.Errorf("expected study screen, got %T", msg.Screen)
	}
}

func TestGenerateFailureKeepsInput(t *testing.T) {
	svc, _ := newServices(t, llm.MockResponse{Err: errors.New("network down")})
	u := New(svc)
	notes := "Mitochondria are the powerhouse of the cell."
	u.text.SetValue(notes)

	res := runGenerate(t, u.generate())
	if !errors.Is(res.err, generator.ErrGenerationFailed) {
		t.Fatalf("err = %v, want ErrGenerationFailed", res.err)
	}

	u.Update(res)
	if u.Err() != failureMessage {
		t.Errorf("Err() = %q", u.Err())
	}
	if u.text.Value() != notes {
		t.Error("input should be preserved after a failure")
	}
	if !strings.Contains(u.View(80, 24), failureMessage) {
		t.Error("view should show the failure")
	}
	if svc.Controller.Status().Phase != generator.Failed {
		t.Errorf("phase = %v", svc.Controller.Status().Phase)
	}
}

func TestGenerateFromFile(t *testing.T) {
	svc, mock := newServices(t, llm.MockResponse{Content: json.RawMessage(packJSON)})
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("Cells divide by mitosis."), 0o644); err != nil {
		t.Fatal(err)
	}

	u := New(svc)
	u.path.SetValue(path)
	res := runGenerate(t, u.generate())
	if res.err != nil {
		t.Fatalf("generate: %v", res.err)
	}

	req, ok := mock.LastCall()
	if !ok || len(req.Messages) == 0 {
		t.Fatal("no request recorded")
	}
	if !strings.Contains(req.Messages[len(req.Messages)-1].Content, "Cells divide by mitosis.") {
		t.Error("file content not sent to the provider")
	}
}

func TestGenerateMissingFile(t *testing.T) {
	svc, mock := newServices(t)
	u := New(svc)
	u.path.SetValue(filepath.Join(t.TempDir(), "missing.pdf"))

	res := runGenerate(t, u.generate())
	if res.err == nil {
		t.Fatal("expected error")
	}
	u.Update(res)
	if u.Err() == "" {
		t.Error("expected an error message")
	}
	if mock.CallCount() != 0 {
		t.Error("provider should not be called")
	}
}

func TestGenerateNotConfigured(t *testing.T) {
	svc, _ := newServices(t)
	svc.SetupHint = "Set EDUSPARK_GEMINI_API_KEY."
	u := New(svc)
	u.text.SetValue("notes")

	if cmd := u.generate(); cmd != nil {
		t.Error("generation should not start without setup")
	}
	if !strings.Contains(u.View(80, 24), "EDUSPARK_GEMINI_API_KEY") {
		t.Error("view should show the setup hint")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{generator.ErrNoMaterial, "There is nothing to study in that input."},
		{generator.ErrUnsupportedMaterial, "That file type isn't supported."},
		{generator.ErrGenerationInProgress, "A study pack is already being generated."},
		{generator.ErrMalformedResponse, failureMessage},
		{errors.New("other"), failureMessage},
	}
	for _, tt := range tests {
		if got, _ := describe(tt.err); got != tt.want {
			t.Errorf("describe(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestFocusCycles(t *testing.T) {
	svc, _ := newServices(t)
	u := New(svc)

	u.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if u.focus != focusPath {
		t.Errorf("focus = %d, want path", u.focus)
	}
	u.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if u.focus != focusButton || !u.button.Focused {
		t.Error("expected button focus")
	}
	u.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if u.focus != focusPath {
		t.Errorf("shift+tab focus = %d, want path", u.focus)
	}
}
