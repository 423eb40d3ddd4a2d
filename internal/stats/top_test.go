package stats

import "testing"

func TestContinueLearning(t *testing.T) {
	rows := []CourseRow{
		{ID: "1", Title: "Python Fundamentals", Percent: 20},
		{ID: "2", Title: "Modern JavaScript", Percent: 75},
		{ID: "3", Title: "Java Basics", Percent: 20},
	}
	top := ContinueLearning(rows, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(top))
	}
	if top[0].ID != "2" || top[1].ID != "3" {
		t.Fatalf("unexpected order: %v %v", top[0].ID, top[1].ID)
	}
	if rows[0].ID != "1" {
		t.Fatalf("expected input left untouched")
	}
	if got := ContinueLearning(rows, 0); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
}
