package notice

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduspark/internal/router"
)

func TestNotice(t *testing.T) {
	n := New("Setup needed", "Set an API key first.")
	if n.Title() != "Setup needed" {
		t.Errorf("Title() = %q", n.Title())
	}
	if !strings.Contains(n.View(80, 20), "Set an API key first.") {
		t.Error("message not rendered")
	}

	if _, cmd := n.Update(tea.KeyPressMsg{Code: 'x', Text: "x"}); cmd != nil {
		t.Error("other keys should be ignored")
	}
	_, cmd := n.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("Enter should pop")
	}
}
