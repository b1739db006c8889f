package history

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduspark/internal/store"
)

func openRepo(t *testing.T) store.EventRepo {
	t.Helper()
	st, err := store.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st.EventRepo()
}

func TestHistoryLoadsEvents(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	events := []store.SessionEventData{
		{SessionID: "s1", Action: store.SessionGenerated, Title: "Photosynthesis", QuizTotal: 5},
		{SessionID: "s1", Action: store.SessionCompleted, Title: "Photosynthesis", QuizTotal: 5, QuizCorrect: 4, PointsAwarded: 100},
	}
	for _, e := range events {
		if err := repo.AppendSessionEvent(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	h := New(repo)
	if !strings.Contains(h.View(100, 20), "Loading history") {
		t.Error("expected loading view before Init completes")
	}

	h.Update(h.Init()())
	view := h.View(120, 20)
	if !strings.Contains(view, "generated") || !strings.Contains(view, "completed") {
		t.Errorf("view missing events:\n%s", view)
	}
	if !strings.Contains(view, "4/5") || !strings.Contains(view, "+100 pts") {
		t.Error("completion details missing")
	}

	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if h.selected != 1 {
		t.Errorf("selected = %d, want 1", h.selected)
	}
}

func TestHistoryEmpty(t *testing.T) {
	h := New(openRepo(t))
	h.Update(h.Init()())
	if !strings.Contains(h.View(100, 20), "No study sessions yet") {
		t.Error("expected empty message")
	}
}

func TestFormatEventTruncatesTitle(t *testing.T) {
	e := store.SessionEvent{SessionEventData: store.SessionEventData{
		Action: store.SessionGenerated,
		Title:  strings.Repeat("x", 50),
	}}
	if !strings.Contains(formatEvent(e), "…") {
		t.Error("long titles should be truncated")
	}
}
