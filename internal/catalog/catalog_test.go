package catalog

import (
	"math"
	"testing"
)

func TestBundledCatalogIsWellFormed(t *testing.T) {
	courses := Courses()
	if len(courses) == 0 {
		t.Fatalf("expected bundled courses")
	}
	seen := map[string]bool{}
	for _, c := range courses {
		if c.ID == "" || seen[c.ID] {
			t.Fatalf("course id %q is empty or duplicated", c.ID)
		}
		seen[c.ID] = true
		if len(c.Curriculum) == 0 {
			t.Fatalf("course %s has no lessons", c.ID)
		}
		if c.Rating < 0 || c.Rating > 5 {
			t.Fatalf("course %s rating out of range: %v", c.ID, c.Rating)
		}
		lessons := map[string]bool{}
		for _, l := range c.Curriculum {
			if lessons[l.ID] {
				t.Fatalf("course %s repeats lesson %s", c.ID, l.ID)
			}
			lessons[l.ID] = true
			if _, ok := ParseClock(l.Duration); !ok {
				t.Fatalf("course %s lesson %s has unparsable duration %q", c.ID, l.ID, l.Duration)
			}
		}
		tasks := map[string]bool{}
		for _, task := range c.Tasks {
			if tasks[task.ID] {
				t.Fatalf("course %s repeats task %s", c.ID, task.ID)
			}
			tasks[task.ID] = true
			if !task.Difficulty.Valid() {
				t.Fatalf("course %s task %s has difficulty %q", c.ID, task.ID, task.Difficulty)
			}
		}
	}
	if len(Categories()) == 0 {
		t.Fatalf("expected bundled categories")
	}
}

func TestCoursesReturnsCopy(t *testing.T) {
	first := Courses()
	first[0].Title = "changed"
	if Courses()[0].Title == "changed" {
		t.Fatalf("expected catalog to be immutable through returned slices")
	}
}

func TestParseHours(t *testing.T) {
	cases := map[string]float64{
		"12 hours": 12,
		"10 hrs":   10,
		"18h":      18,
		"1 hour":   1,
		"35:20":    35.33,
		"75:00":    1.25,
		"1:30":     1.5,
		"":         0,
		"soon":     0,
	}
	for label, want := range cases {
		if got := ParseHours(label); math.Abs(got-want) > 1e-9 {
			t.Fatalf("ParseHours(%q): expected %v, got %v", label, want, got)
		}
	}
}

func TestParseClock(t *testing.T) {
	if got, ok := ParseClock("10:24"); !ok || got != 624 {
		t.Fatalf("expected 624 seconds, got %d (ok=%v)", got, ok)
	}
	if got, ok := ParseClock("1:02:03"); !ok || got != 3723 {
		t.Fatalf("expected 3723 seconds, got %d (ok=%v)", got, ok)
	}
	for _, bad := range []string{"", "12", "1:75", "a:10"} {
		if _, ok := ParseClock(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}
