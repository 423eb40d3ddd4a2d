package state

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/verte-zerg/learnhub/internal/model"
)

type memWriter struct {
	mu     sync.Mutex
	values map[string][]byte
	puts   int
}

func newMemWriter() *memWriter {
	return &memWriter{values: map[string][]byte{}}
}

func (w *memWriter) Put(key string, value []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.values[key] = value
	w.puts++
}

func (w *memWriter) Delete(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.values, key)
}

func (w *memWriter) decode(t *testing.T, key string, v any) {
	t.Helper()
	w.mu.Lock()
	raw, ok := w.values[key]
	w.mu.Unlock()
	if !ok {
		t.Fatalf("expected %s to be written", key)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode %s: %v", key, err)
	}
}

func newLoadedCatalog(w Writer, requireEnrollment bool) *CatalogStore {
	s := NewCatalogStore(w, CatalogOptions{RequireEnrollment: requireEnrollment})
	s.Load()
	return s
}

func courseIDs(courses []model.Course) []string {
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestEnrollIsIdempotent(t *testing.T) {
	w := newMemWriter()
	s := newLoadedCatalog(w, false)

	s.Enroll("1")
	s.Enroll("1")
	s.Enroll("2")

	if got := s.Enrolled(); len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Fatalf("expected [1 2], got %v", got)
	}
	if w.puts != 2 {
		t.Fatalf("expected 2 writes, got %d", w.puts)
	}
	var rec courseRecord
	w.decode(t, KeyCourses, &rec)
	if len(rec.EnrolledCourses) != 2 || rec.CompletedCourses == nil {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	s := newLoadedCatalog(newMemWriter(), false)
	s.Load()
	if got := len(s.Courses()); got != 6 {
		t.Fatalf("expected 6 courses, got %d", got)
	}
	if got := len(s.Categories()); got != 6 {
		t.Fatalf("expected 6 categories, got %d", got)
	}
}

func TestFilterCourses(t *testing.T) {
	s := newLoadedCatalog(newMemWriter(), false)

	if got := len(s.FilterCourses("", "")); got != 6 {
		t.Fatalf("expected full catalog, got %d", got)
	}

	ids := courseIDs(s.FilterCourses("  PYTHON ", ""))
	if !contains(ids, "1") {
		t.Fatalf("expected Python Fundamentals in %v", ids)
	}
	if contains(ids, "3") {
		t.Fatalf("expected Java Basics excluded from %v", ids)
	}

	ids = courseIDs(s.FilterCourses("", "Java"))
	if len(ids) != 1 || ids[0] != "3" {
		t.Fatalf("expected only course 3, got %v", ids)
	}

	ids = courseIDs(s.FilterCourses("kowalski", ""))
	if len(ids) != 1 || ids[0] != "3" {
		t.Fatalf("expected instructor match on course 3, got %v", ids)
	}

	if got := s.FilterCourses("python", "Java"); len(got) != 0 {
		t.Fatalf("expected no match, got %v", courseIDs(got))
	}
}

func TestFilteredUsesLiveQuery(t *testing.T) {
	s := newLoadedCatalog(newMemWriter(), false)

	s.SetSearchQuery("java")
	s.SetSelectedCategory("JavaScript")
	ids := courseIDs(s.Filtered())
	if len(ids) != 1 || ids[0] != "2" {
		t.Fatalf("expected course 2, got %v", ids)
	}

	s.SetSearchQuery("")
	s.SetSelectedCategory("")
	if got := len(s.Filtered()); got != 6 {
		t.Fatalf("expected full catalog after clearing filters, got %d", got)
	}
}

func TestFeaturedAndPopular(t *testing.T) {
	s := newLoadedCatalog(newMemWriter(), false)

	featured := courseIDs(s.Featured())
	if len(featured) != 3 || featured[0] != "1" || featured[1] != "2" || featured[2] != "5" {
		t.Fatalf("expected featured [1 2 5], got %v", featured)
	}
	popular := courseIDs(s.Popular())
	if len(popular) != 4 || popular[0] != "1" {
		t.Fatalf("expected 4 popular courses starting with 1, got %v", popular)
	}
}

func TestFindByID(t *testing.T) {
	s := newLoadedCatalog(newMemWriter(), false)

	c, ok := s.FindByID("4")
	if !ok || c.Title != "C++ Essentials" {
		t.Fatalf("expected C++ Essentials, got %+v ok=%v", c, ok)
	}
	if _, ok := s.FindByID("404"); ok {
		t.Fatalf("expected unknown id to be absent")
	}
}

func TestCompletionWithoutGuard(t *testing.T) {
	s := newLoadedCatalog(newMemWriter(), false)

	if err := s.MarkCompleted("2"); err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	if !s.IsCompleted("2") || s.IsEnrolled("2") {
		t.Fatalf("expected completion without enrollment")
	}
}

func TestCompletionGuard(t *testing.T) {
	w := newMemWriter()
	s := newLoadedCatalog(w, true)

	if err := s.MarkCompleted("2"); err != ErrNotEnrolled {
		t.Fatalf("expected ErrNotEnrolled, got %v", err)
	}
	if s.IsCompleted("2") || w.puts != 0 {
		t.Fatalf("expected rejected completion to change nothing")
	}
	s.GrantCompletion("2")
	if !s.IsCompleted("2") {
		t.Fatalf("expected granted completion")
	}
}

func TestCourseViews(t *testing.T) {
	s := newLoadedCatalog(newMemWriter(), false)
	s.Enroll("5")
	s.Enroll("1")
	s.Enroll("3")
	s.GrantCompletion("3")

	if got := courseIDs(s.EnrolledCourses()); len(got) != 3 || got[0] != "1" || got[2] != "5" {
		t.Fatalf("expected enrolled courses in catalog order, got %v", got)
	}
	if got := courseIDs(s.InProgressCourses()); len(got) != 2 || got[0] != "1" || got[1] != "5" {
		t.Fatalf("expected in-progress [1 5], got %v", got)
	}
	if got := courseIDs(s.CompletedCourses()); len(got) != 1 || got[0] != "3" {
		t.Fatalf("expected completed [3], got %v", got)
	}
}

func TestCurrentCourse(t *testing.T) {
	s := newLoadedCatalog(newMemWriter(), false)
	if _, ok := s.CurrentCourse(); ok {
		t.Fatalf("expected no current course")
	}
	s.SetCurrentCourse("6")
	c, ok := s.CurrentCourse()
	if !ok || c.ID != "6" {
		t.Fatalf("expected current course 6, got %+v", c)
	}
}

func TestCatalogOverride(t *testing.T) {
	s := NewCatalogStore(newMemWriter(), CatalogOptions{
		Courses: []model.Course{{ID: "x", Title: "Go Concurrency", Category: "Go"}},
	})
	s.Load()
	if got := courseIDs(s.FilterCourses("concurrency", "")); len(got) != 1 || got[0] != "x" {
		t.Fatalf("expected override catalog, got %v", got)
	}
}

func TestCourseRestoreDeduplicates(t *testing.T) {
	s := newLoadedCatalog(newMemWriter(), false)
	if err := s.restore([]byte(`{"enrolledCourses":["1","1","2"],"completedCourses":["2"]}`)); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got := s.Enrolled(); len(got) != 2 {
		t.Fatalf("expected duplicates dropped, got %v", got)
	}
	if err := s.restore([]byte(`[]`)); err == nil {
		t.Fatalf("expected error for malformed record")
	}
}
