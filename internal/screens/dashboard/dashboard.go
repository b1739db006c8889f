package dashboard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduspark/internal/router"
	"github.com/abhisek/eduspark/internal/screen"
	"github.com/abhisek/eduspark/internal/screens"
	"github.com/abhisek/eduspark/internal/screens/history"
	"github.com/abhisek/eduspark/internal/screens/notice"
	"github.com/abhisek/eduspark/internal/screens/stats"
	"github.com/abhisek/eduspark/internal/screens/upload"
	"github.com/abhisek/eduspark/internal/ui/components"
	"github.com/abhisek/eduspark/internal/ui/layout"
	"github.com/abhisek/eduspark/internal/ui/theme"
)

// DashboardScreen is the home screen: progress at a glance and the main
// menu.
type DashboardScreen struct {
	svc  *screens.Services
	menu components.Menu
}

var _ screen.Screen = (*DashboardScreen)(nil)

// New creates a DashboardScreen.
func New(svc *screens.Services) *DashboardScreen {
	d := &DashboardScreen{svc: svc}
	d.menu = components.NewMenu([]components.MenuItem{
		{Label: "New study pack", Action: func() tea.Cmd {
			if !svc.CanGenerate() {
				return router.Push(notice.New("Setup needed", svc.SetupHint))
			}
			return router.Push(upload.New(svc))
		}},
		{Label: "Your progress", Action: func() tea.Cmd {
			return router.Push(stats.New(svc.Tracker))
		}},
		{Label: "History", Disabled: svc.Events == nil, Action: func() tea.Cmd {
			return router.Push(history.New(svc.Events))
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	})
	return d
}

func (d *DashboardScreen) Init() tea.Cmd {
	return nil
}

func (d *DashboardScreen) Title() string {
	return "Dashboard"
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	d.menu, cmd = d.menu.Update(msg)
	return d, cmd
}

func (d *DashboardScreen) View(width, height int) string {
	st := d.svc.Tracker.CurrentStats()
	policy := d.svc.Tracker.Policy()
	cw := min(width-8, 60)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Center(theme.Title.Render("Ready to learn something new?"), width))
	b.WriteString("\n")
	b.WriteString(layout.Center(theme.Subtitle.Render("Turn your notes into quizzes, flashcards and mind maps."), width))
	b.WriteString("\n\n")

	bar := components.NewProgressBar(fmt.Sprintf("Level %d", st.Level), policy.LevelProgress(st.Points), true, cw)
	b.WriteString(layout.Center(bar.View(), width))
	b.WriteString("\n\n")

	summary := fmt.Sprintf("%s  %s   %s  %s   %s  %s",
		theme.Points.Render(fmt.Sprintf("%d", st.Points)), theme.Subtitle.Render("points"),
		theme.Points.Render(fmt.Sprintf("%d", st.Streak)), theme.Subtitle.Render("day streak"),
		theme.Points.Render(fmt.Sprintf("%d", st.CompletedSessions)), theme.Subtitle.Render("sessions"),
	)
	b.WriteString(layout.Center(summary, width))
	b.WriteString("\n\n")

	b.WriteString(layout.Center(d.menu.View(), width))

	if d.svc.SetupHint != "" {
		b.WriteString("\n")
		b.WriteString(layout.Center(theme.Hint.Render(layout.Wrap(d.svc.SetupHint, cw)), width))
	}
	return b.String()
}
