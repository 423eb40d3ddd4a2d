package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

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

func newTestModel(t *testing.T) (*Model, *state.App) {
	t.Helper()
	app := openTestApp(t)
	m := NewModel(app, model.Config{SampleInterval: 5 * time.Minute, LessonSeconds: 600})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, app
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, key := range keys {
		var msg tea.KeyMsg
		switch key {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

func courseIDs(courses []model.Course) []string {
	out := make([]string, 0, len(courses))
	for _, c := range courses {
		out = append(out, c.ID)
	}
	return out
}

func TestEnrollFromCatalog(t *testing.T) {
	m, app := newTestModel(t)
	press(m, "e")
	if !app.Catalog.IsEnrolled("1") {
		t.Fatalf("expected course 1 enrolled")
	}
	cp, ok := app.Lessons.CourseProgress("1")
	if !ok || cp.TotalLessons != 5 {
		t.Fatalf("expected lesson total 5 after enroll, got %+v", cp)
	}
	if m.courseTable.Rows()[0][0] != "*" {
		t.Fatalf("expected enrolled mark, got %q", m.courseTable.Rows()[0][0])
	}
}

func TestSearchFiltersCourses(t *testing.T) {
	m, app := newTestModel(t)
	press(m, "/", "kowalski")
	if got := app.Catalog.SearchQuery(); got != "kowalski" {
		t.Fatalf("expected live query, got %q", got)
	}
	if ids := courseIDs(m.courses); len(ids) != 1 || ids[0] != "3" {
		t.Fatalf("expected only course 3, got %v", ids)
	}
	press(m, "esc")
	if m.searching {
		t.Fatalf("expected search to close on esc")
	}
	press(m, "e")
	if !app.Catalog.IsEnrolled("3") {
		t.Fatalf("expected enroll to act on the filtered row")
	}
}

func TestCategoryCycle(t *testing.T) {
	m, app := newTestModel(t)
	press(m, "c")
	if got := app.Catalog.SelectedCategory(); got != "Python" {
		t.Fatalf("expected Python category, got %q", got)
	}
	if ids := courseIDs(m.courses); len(ids) != 1 || ids[0] != "1" {
		t.Fatalf("expected course 1, got %v", ids)
	}
	press(m, "C")
	if got := app.Catalog.SelectedCategory(); got != "" {
		t.Fatalf("expected category cleared, got %q", got)
	}
	if len(m.courses) != 6 {
		t.Fatalf("expected all 6 courses, got %d", len(m.courses))
	}
}

func TestLessonsRequireEnrollment(t *testing.T) {
	m, app := newTestModel(t)
	press(m, "enter")
	if m.screen != screenCourse || m.course.ID != "1" {
		t.Fatalf("expected course screen for course 1")
	}
	if c, ok := app.Catalog.CurrentCourse(); !ok || c.ID != "1" {
		t.Fatalf("expected current course 1")
	}
	press(m, "enter")
	if m.screen != screenCourse || m.errMsg == "" {
		t.Fatalf("expected enrollment prompt, got screen %d err %q", m.screen, m.errMsg)
	}
}

func TestPlayerSamplesProgress(t *testing.T) {
	m, app := newTestModel(t)
	press(m, "enter", "e", "enter")
	if m.screen != screenPlayer {
		t.Fatalf("expected player screen, got %d", m.screen)
	}
	if m.player.total != 624 {
		t.Fatalf("expected total 624s from 10:24, got %v", m.player.total)
	}
	if cp, _ := app.Lessons.CourseProgress("1"); cp.CurrentLessonID != "l1" {
		t.Fatalf("expected current lesson l1, got %q", cp.CurrentLessonID)
	}

	if cmd := m.handleTick(tickMsg{seq: m.player.seq}); cmd == nil {
		t.Fatalf("expected another tick while playing")
	}
	lp, ok := app.Lessons.LessonProgress("1", "l1")
	if !ok || lp.WatchedDuration != 300 || lp.Completed {
		t.Fatalf("unexpected progress after one sample: %+v", lp)
	}

	m.handleTick(tickMsg{seq: m.player.seq})
	if !app.Lessons.IsLessonCompleted("1", "l1") {
		t.Fatalf("expected lesson complete past 90%%")
	}
	if cp, _ := app.Lessons.CourseProgress("1"); cp.ProgressPercentage() != 20 {
		t.Fatalf("expected 20%% course progress, got %d", cp.ProgressPercentage())
	}

	if cmd := m.handleTick(tickMsg{seq: m.player.seq}); cmd != nil {
		t.Fatalf("expected player to stop at the end")
	}
	if m.player.playing || m.player.watched != 624 {
		t.Fatalf("expected stopped at 624s, got %+v", m.player)
	}
}

func TestPausedPlayerIgnoresStaleTicks(t *testing.T) {
	m, app := newTestModel(t)
	press(m, "enter", "e", "enter")
	stale := m.player.seq
	press(m, " ")
	if m.player.playing {
		t.Fatalf("expected pause")
	}
	m.handleTick(tickMsg{seq: stale})
	if _, ok := app.Lessons.LessonProgress("1", "l1"); ok {
		t.Fatalf("expected stale tick to be ignored")
	}
	if cmd := press(m, " "); cmd == nil || !m.player.playing {
		t.Fatalf("expected resume to schedule a tick")
	}
}

func TestPlayerFinishAndNext(t *testing.T) {
	m, app := newTestModel(t)
	press(m, "enter", "e", "enter", "f")
	if !app.Lessons.IsLessonCompleted("1", "l1") {
		t.Fatalf("expected l1 completed")
	}
	press(m, "n")
	if m.player.lesson.ID != "l2" || !m.player.playing {
		t.Fatalf("expected l2 playing, got %+v", m.player)
	}
	press(m, "esc")
	if m.screen != screenCourse {
		t.Fatalf("expected course screen after esc")
	}
	if got := m.lessonTable.Rows()[0][0]; got != "x" {
		t.Fatalf("expected completed mark on l1, got %q", got)
	}
	if got := m.lessonTable.Rows()[1][0]; got != ">" {
		t.Fatalf("expected current mark on l2, got %q", got)
	}
}

func TestToggleTheme(t *testing.T) {
	m, app := newTestModel(t)
	press(m, "t")
	if app.Prefs.Theme() != model.ThemeDark {
		t.Fatalf("expected dark theme, got %s", app.Prefs.Theme())
	}
	if m.styles.palette != darkPalette {
		t.Fatalf("expected dark palette")
	}
}

func TestRenderFooter(t *testing.T) {
	m, app := newTestModel(t)
	app.Catalog.Enroll("2")
	app.Tasks.CompleteTask("2", "t1", 20, "")
	out := m.renderFooter()
	for _, want := range []string{"Enrolled 1", "Completed 0", "Points 20", "Search: /"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
	if strings.Contains(out, "Premium") {
		t.Fatalf("expected no premium badge without a plan")
	}
	if err := app.Subscription.Subscribe(model.PlanYearly); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if !strings.Contains(m.renderFooter(), "Premium") {
		t.Fatalf("expected premium badge")
	}
}

func TestViewFitsWindow(t *testing.T) {
	m, _ := newTestModel(t)
	lines := strings.Split(m.View(), "\n")
	if len(lines) != 40 {
		t.Fatalf("expected 40 lines, got %d", len(lines))
	}
}

func TestLessonSeconds(t *testing.T) {
	if got := LessonSeconds(model.Lesson{Duration: "12:30"}, 0); got != 750 {
		t.Fatalf("expected 750, got %v", got)
	}
	if got := LessonSeconds(model.Lesson{Duration: "soon"}, 90); got != 90 {
		t.Fatalf("expected fallback 90, got %v", got)
	}
	if got := LessonSeconds(model.Lesson{}, 0); got != defaultLessonSeconds {
		t.Fatalf("expected default, got %v", got)
	}
	if got := formatClock(3725); got != "1:02:05" {
		t.Fatalf("expected 1:02:05, got %q", got)
	}
}
