package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/learnhub/internal/model"
	"github.com/verte-zerg/learnhub/internal/state"
	"github.com/verte-zerg/learnhub/internal/store"
)

func openTestApp(t *testing.T) *state.App {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "learnhub.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	app, err := state.Open(context.Background(), st, state.Options{Logf: t.Logf})
	if err != nil {
		_ = st.Close()
		t.Fatalf("open app: %v", err)
	}
	t.Cleanup(func() {
		_ = app.Close(context.Background())
		_ = st.Close()
	})
	return app
}

func TestCourseRowsListLearningThenCompleted(t *testing.T) {
	app := openTestApp(t)
	app.Catalog.Enroll("1")
	app.Catalog.Enroll("2")
	app.Catalog.GrantCompletion("2")
	app.Lessons.CalculateProgress("1", 5)
	app.Lessons.CompleteLesson("1", "l1")

	m := NewModel(app)
	rows := m.courseTable.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Python Fundamentals" || rows[0][2] != "learning" || rows[0][3] != "1/5" || rows[0][4] != "20%" {
		t.Fatalf("unexpected first row %v", rows[0])
	}
	if rows[1][0] != "Modern JavaScript" || rows[1][2] != "completed" {
		t.Fatalf("unexpected second row %v", rows[1])
	}
}

func TestProfileTabShowsPlanAndContinueLearning(t *testing.T) {
	app := openTestApp(t)
	app.Catalog.Enroll("1")
	app.Lessons.CalculateProgress("1", 5)
	app.Lessons.CompleteLesson("1", "l1")
	if err := app.Subscription.Subscribe(model.PlanMonthly); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	m := NewModel(app)
	out := m.renderProfile(100)
	for _, want := range []string{"Guest", "Enrolled", "monthly", "Continue learning", "Python Fundamentals"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in profile:\n%s", want, out)
		}
	}
}

func TestTabNavigationAndRefresh(t *testing.T) {
	app := openTestApp(t)
	m := NewModel(app)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabCourses {
		t.Fatalf("expected courses tab, got %d", m.activeTab)
	}
	if !strings.Contains(m.View(), "No enrolled or completed courses.") {
		t.Fatalf("expected empty courses message")
	}

	app.Catalog.Enroll("5")
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if len(m.courseTable.Rows()) != 1 {
		t.Fatalf("expected refreshed rows, got %d", len(m.courseTable.Rows()))
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabProfile {
		t.Fatalf("expected wrap to profile tab, got %d", m.activeTab)
	}
	if lines := strings.Split(m.View(), "\n"); len(lines) != 30 {
		t.Fatalf("expected 30 lines, got %d", len(lines))
	}
}

func TestQuizTabContent(t *testing.T) {
	app := openTestApp(t)
	app.Prefs.SetQuizScore("javascript", 6)
	m := NewModel(app)
	out := renderQuiz(m.report.Quiz, 80)
	if !strings.Contains(out, "Overall: 19% (6/32 correct)") || !strings.Contains(out, "JavaScript") {
		t.Fatalf("unexpected quiz content:\n%s", out)
	}
}
