package upload

import (
	"context"
	"errors"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/eduspark/internal/generator"
	"github.com/abhisek/eduspark/internal/material"
	"github.com/abhisek/eduspark/internal/router"
	"github.com/abhisek/eduspark/internal/screen"
	"github.com/abhisek/eduspark/internal/screens"
	studyscreen "github.com/abhisek/eduspark/internal/screens/study"
	"github.com/abhisek/eduspark/internal/study"
	"github.com/abhisek/eduspark/internal/ui/components"
	"github.com/abhisek/eduspark/internal/ui/layout"
	"github.com/abhisek/eduspark/internal/ui/theme"
)

const failureMessage = "Something went wrong generating your study pack."

type focus int

const (
	focusText focus = iota
	focusPath
	focusButton
)

type generatedMsg struct {
	session *study.Session
	err     error
}

// UploadScreen collects study material and runs generation.
type UploadScreen struct {
	svc *screens.Services

	text   textarea.Model
	path   components.TextInput
	button components.Button
	focus  focus

	spinner    components.Spinner
	generating bool
	errMsg     string
	errDetail  string
}

var _ screen.Screen = (*UploadScreen)(nil)
var _ screen.KeyHintProvider = (*UploadScreen)(nil)
var _ screen.EscapeHandler = (*UploadScreen)(nil)

// New creates an UploadScreen.
func New(svc *screens.Services) *UploadScreen {
	ta := textarea.New()
	ta.Placeholder = "Paste your notes, a textbook page or lecture transcript..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(8)

	path := components.NewTextInput("...or a path to a text, PDF, DOCX or image file", 512)
	path.Blur()

	u := &UploadScreen{
		svc:  svc,
		text: ta,
		path: path,
	}
	u.button = components.NewButton("Generate study pack", nil)
	u.syncButton()
	return u
}

func (u *UploadScreen) Init() tea.Cmd {
	return u.text.Focus()
}

func (u *UploadScreen) Title() string {
	return "New Study Pack"
}

func (u *UploadScreen) KeyHints() []layout.KeyHint {
	if u.generating {
		return nil
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Ctrl+S", Description: "Generate"},
		{Key: "Esc", Description: "Back"},
	}
}

// Generating reports whether a request is in flight.
func (u *UploadScreen) Generating() bool {
	return u.generating
}

// HandlesEscape keeps the screen open until the request in flight finishes,
// so its result is never dropped.
func (u *UploadScreen) HandlesEscape() bool {
	return u.generating
}

// Err returns the error message shown to the learner.
func (u *UploadScreen) Err() string {
	return u.errMsg
}

func (u *UploadScreen) hasInput() bool {
	return strings.TrimSpace(u.text.Value()) != "" || strings.TrimSpace(u.path.Value()) != ""
}

func (u *UploadScreen) syncButton() {
	u.button.Disabled = !u.hasInput()
	u.button.Focused = u.focus == focusButton
}

func (u *UploadScreen) setFocus(f focus) tea.Cmd {
	u.focus = f
	u.text.Blur()
	u.path.Blur()
	u.syncButton()
	switch f {
	case focusText:
		return u.text.Focus()
	case focusPath:
		return u.path.Focus()
	}
	return nil
}

func (u *UploadScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		u.generating = false
		if msg.err != nil {
			u.errMsg, u.errDetail = describe(msg.err)
			return u, nil
		}
		return u, router.Replace(studyscreen.New(u.svc, msg.session))

	case components.SpinnerTickMsg:
		if !u.generating {
			return u, nil
		}
		u.spinner = u.spinner.Advance()
		return u, u.spinner.Tick()

	case tea.KeyMsg:
		if u.generating {
			return u, nil
		}
		switch msg.String() {
		case "ctrl+s":
			return u, u.generate()
		case "tab":
			return u, u.setFocus((u.focus + 1) % 3)
		case "shift+tab":
			return u, u.setFocus((u.focus + 2) % 3)
		case "enter":
			if u.focus == focusButton || u.focus == focusPath {
				return u, u.generate()
			}
		}
	}

	var cmd tea.Cmd
	switch u.focus {
	case focusText:
		u.text, cmd = u.text.Update(msg)
	case focusPath:
		u.path, cmd = u.path.Update(msg)
	}
	u.syncButton()
	return u, cmd
}

// generate starts a request unless there is nothing to send.
func (u *UploadScreen) generate() tea.Cmd {
	if !u.hasInput() || u.generating {
		return nil
	}
	if !u.svc.CanGenerate() {
		u.errMsg = "Study pack generation is not set up."
		u.errDetail = u.svc.SetupHint
		return nil
	}

	u.generating = true
	u.errMsg, u.errDetail = "", ""

	ctrl := u.svc.Controller
	log := u.svc.Log()
	path := strings.TrimSpace(u.path.Value())
	text := u.text.Value()

	return tea.Batch(u.spinner.Tick(), func() tea.Msg {
		var m generator.Material
		if path != "" {
			loaded, err := material.Load(path)
			if err != nil {
				log.Warn("failed to load material", zap.String("path", path), zap.Error(err))
				return generatedMsg{err: err}
			}
			m = loaded
		} else {
			m = material.FromText(text)
		}

		log.Info("generating study pack", zap.String("material", m.Describe()))
		session, err := ctrl.Generate(context.Background(), m)
		return generatedMsg{session: session, err: err}
	})
}

// describe turns a failure into a headline and a hint.
func describe(err error) (string, string) {
	switch {
	case errors.Is(err, generator.ErrNoMaterial):
		return "There is nothing to study in that input.", "Paste some text or choose a file with readable content."
	case errors.Is(err, generator.ErrUnsupportedMaterial):
		return "That file type isn't supported.", "Use plain text, PDF, DOCX or an image."
	case errors.Is(err, generator.ErrGenerationInProgress):
		return "A study pack is already being generated.", "Wait for it to finish and try again."
	case errors.Is(err, generator.ErrMalformedResponse):
		return failureMessage, "The AI returned an incomplete study pack. Try again."
	case errors.Is(err, generator.ErrGenerationFailed):
		return failureMessage, "Check your connection and API key, then try again."
	default:
		return failureMessage, err.Error()
	}
}

func (u *UploadScreen) View(width, height int) string {
	cw := min(width-8, 76)

	if u.generating {
		var b strings.Builder
		b.WriteString("\n\n\n")
		b.WriteString(layout.Center(u.spinner.View()+" "+theme.Title.Render("AI is analyzing your content..."), width))
		b.WriteString("\n\n")
		b.WriteString(layout.Center(theme.Hint.Render("Generating quizzes, flashcards and mind maps."), width))
		return b.String()
	}

	u.text.SetWidth(cw)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + theme.Title.Render("What are you studying today?") + "\n\n")
	b.WriteString(indent(u.text.View(), "  ") + "\n\n")
	b.WriteString("  " + u.path.View() + "\n\n")
	b.WriteString("  " + u.button.View() + "\n")

	if u.errMsg != "" {
		b.WriteString("\n  " + theme.Incorrect.Render(u.errMsg) + "\n")
		if u.errDetail != "" {
			b.WriteString("  " + theme.Hint.Render(layout.Wrap(u.errDetail, cw)) + "\n")
		}
	}
	return b.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
