package state

import (
	"context"
	"testing"

	"github.com/verte-zerg/learnhub/internal/model"
)

func TestThemeDefaultsAndToggle(t *testing.T) {
	w := newMemWriter()
	s := NewPreferencesStore(w, "", nil)
	if s.Theme() != model.ThemeLight {
		t.Fatalf("expected light default, got %q", s.Theme())
	}
	if got := s.ToggleTheme(); got != model.ThemeDark {
		t.Fatalf("expected dark after toggle, got %q", got)
	}
	if string(w.values[KeyTheme]) != "dark" {
		t.Fatalf("expected raw theme value, got %q", w.values[KeyTheme])
	}
	if err := s.SetTheme("sepia"); err == nil {
		t.Fatalf("expected unknown theme to fail")
	}
}

func TestQuizScores(t *testing.T) {
	w := newMemWriter()
	s := NewPreferencesStore(w, model.ThemeDark, nil)
	s.SetQuizScore("python", 7)
	s.SetQuizScore("cpp", -1)

	if score, ok := s.QuizScore("python"); !ok || score != 7 {
		t.Fatalf("expected 7, got %d ok=%v", score, ok)
	}
	if score, _ := s.QuizScore("cpp"); score != 0 {
		t.Fatalf("expected negative score clamped, got %d", score)
	}
	if got := s.QuizLanguages(); len(got) != 2 || got[0] != "cpp" || got[1] != "python" {
		t.Fatalf("expected sorted languages, got %v", got)
	}
	if string(w.values["quiz:python:score"]) != "7" {
		t.Fatalf("expected raw integer string, got %q", w.values["quiz:python:score"])
	}
}

func TestPreferencesRestoreSkipsBadValues(t *testing.T) {
	env := newTestEnv(t)
	env.open(t)
	ctx := context.Background()

	for key, value := range map[string]string{
		"quiz:python:score": "5",
		"quiz:java:score":   "lots",
		"quiz::score":       "1",
		KeyOnboardingSeen:   "true",
		KeyTheme:            "neon",
	} {
		if err := env.kv.Set(ctx, key, []byte(value)); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}

	app := env.reopen(t, func(o *Options) { o.DefaultTheme = model.ThemeDark })

	scores := app.Prefs.QuizScores()
	if len(scores) != 1 || scores["python"] != 5 {
		t.Fatalf("expected only the python score, got %v", scores)
	}
	if !app.Prefs.OnboardingSeen() {
		t.Fatalf("expected onboarding flag restored")
	}
	if app.Prefs.Theme() != model.ThemeDark {
		t.Fatalf("expected default theme kept for an unknown value, got %q", app.Prefs.Theme())
	}
}
