package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/learnhub/internal/state"
	"github.com/verte-zerg/learnhub/internal/store"
)

func openTestApp(t *testing.T) *state.App {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "learnhub.db")
	st, err := store.Open(dbPath)
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

func TestBuildReport(t *testing.T) {
	app := openTestApp(t)

	app.Catalog.Enroll("1")
	app.Catalog.Enroll("3")
	app.Catalog.Enroll("6")
	app.Catalog.GrantCompletion("3")
	app.Lessons.CalculateProgress("1", 5)
	app.Lessons.CompleteLesson("1", "l1")
	app.Lessons.CompleteLesson("1", "l2")
	app.Tasks.CompleteTask("1", "t1", 10, "")
	app.Tasks.CompleteTask("3", "t2", 20, "")
	app.Prefs.SetQuizScore("python", 8)
	app.Prefs.SetQuizScore("java", 4)

	report := BuildReport(app)

	p := report.Profile
	if p.Enrolled != 3 || p.Completed != 1 || p.TotalPoints != 30 {
		t.Fatalf("unexpected profile %+v", p)
	}
	// 12 hours + 18h + "35:20" read as 35 hours 20 minutes.
	if p.TotalHours != 65.33 {
		t.Fatalf("expected 65.33 hours, got %v", p.TotalHours)
	}

	if len(report.InProgress) != 2 || report.InProgress[0].ID != "1" || report.InProgress[1].ID != "6" {
		t.Fatalf("unexpected in-progress rows %+v", report.InProgress)
	}
	if got := report.InProgress[0]; got.Percent != 40 || got.Done != 2 || got.Points != 10 {
		t.Fatalf("unexpected row for course 1: %+v", got)
	}
	if len(report.Completed) != 1 || report.Completed[0].Points != 20 || !report.Completed[0].Completed {
		t.Fatalf("unexpected completed rows %+v", report.Completed)
	}

	q := report.Quiz
	if q.Score != 12 || q.Max != 32 || q.Percent != 38 {
		t.Fatalf("unexpected quiz overview %+v", q)
	}
	if len(q.Rows) != 4 || q.Rows[0].Name != "Python" || q.Rows[0].Percent != 100 || q.Rows[3].Name != "C++" {
		t.Fatalf("unexpected quiz rows %+v", q.Rows)
	}
}

func TestQuizOverviewCapsStoredScores(t *testing.T) {
	q := BuildQuizOverview(map[string]int{"cpp": 20, "rust": 3})
	if q.Score != 8 || q.Max != 32 {
		t.Fatalf("expected capped score 8/32, got %d/%d", q.Score, q.Max)
	}
}

func TestRenderViews(t *testing.T) {
	app := openTestApp(t)
	app.Catalog.Enroll("2")
	app.Lessons.CalculateProgress("2", 4)
	app.Lessons.UpdateLessonProgress("2", "l1", 100, 100)
	app.Lessons.UpdateLessonProgress("2", "l2", 50, 100)
	app.Tasks.CompleteTask("2", "t1", 20, "console.log(1)")

	report := BuildReport(app)
	opts := RenderOptions{Width: 80}

	var buf bytes.Buffer
	if err := RenderProfile(&buf, nil, report.Profile); err != nil {
		t.Fatalf("render profile: %v", err)
	}
	if err := RenderMyCourses(&buf, report.InProgress, report.Completed, opts); err != nil {
		t.Fatalf("render my courses: %v", err)
	}
	if err := RenderQuizOverview(&buf, report.Quiz, opts); err != nil {
		t.Fatalf("render quiz: %v", err)
	}
	course, _ := app.Catalog.FindByID("2")
	progress, _ := app.Lessons.CourseProgress("2")
	tasks, _ := app.Tasks.CourseTaskProgress("2")
	if err := RenderCourse(&buf, CourseDetail{Course: course, Enrolled: true, Progress: progress, Tasks: tasks}); err != nil {
		t.Fatalf("render course: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Not signed in",
		"In Progress (1)",
		"Modern JavaScript",
		"25%",
		"No completed courses yet.",
		"Overall: 0% (0/32 correct)",
		"Curriculum [@+  ] 25%",
		"Tasks (20 pts earned)",
		"1 attempts",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes for a buffer")
	}
}

func TestRenderCatalog(t *testing.T) {
	app := openTestApp(t)
	app.Catalog.Enroll("1")
	app.Catalog.GrantCompletion("4")

	var rows []CatalogRow
	for _, c := range app.Catalog.FilterCourses("", "") {
		rows = append(rows, CatalogRow{
			Course:    c,
			Enrolled:  app.Catalog.IsEnrolled(c.ID),
			Completed: app.Catalog.IsCompleted(c.ID),
		})
	}
	var buf bytes.Buffer
	if err := RenderCatalog(&buf, rows, RenderOptions{Width: 120}); err != nil {
		t.Fatalf("render catalog: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected header plus 6 courses, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "*  1   Python Fundamentals") {
		t.Fatalf("unexpected enrolled row %q", lines[1])
	}
	if !strings.HasPrefix(lines[4], "x  4   C++ Essentials") {
		t.Fatalf("unexpected completed row %q", lines[4])
	}

	buf.Reset()
	if err := RenderCatalog(&buf, nil, RenderOptions{Width: 80}); err != nil {
		t.Fatalf("render empty catalog: %v", err)
	}
	if buf.String() != "No courses match.\n" {
		t.Fatalf("unexpected empty output %q", buf.String())
	}
}
