package state

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/verte-zerg/learnhub/internal/model"
)

// PreferencesStore holds small standalone values: quiz scores per language,
// the onboarding flag and the theme. Each is persisted as a raw string under its own key.
type PreferencesStore struct {
	mu             sync.Mutex
	w              Writer
	logf           Logf
	quizScores     map[string]int
	onboardingSeen bool
	theme          model.Theme
}

// NewPreferencesStore constructs a PreferencesStore starting on defaultTheme.
func NewPreferencesStore(w Writer, defaultTheme model.Theme, logf Logf) *PreferencesStore {
	if defaultTheme != model.ThemeDark {
		defaultTheme = model.ThemeLight
	}
	return &PreferencesStore{
		w:          w,
		logf:       logf,
		quizScores: map[string]int{},
		theme:      defaultTheme,
	}
}

// QuizScore returns the stored number of correct answers for lang.
func (s *PreferencesStore) QuizScore(lang string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	score, ok := s.quizScores[lang]
	return score, ok
}

// SetQuizScore stores the number of correct answers for lang.
func (s *PreferencesStore) SetQuizScore(lang string, score int) {
	if score < 0 {
		score = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizScores[lang] = score
	s.w.Put(QuizScoreKey(lang), []byte(strconv.Itoa(score)))
}

// QuizScores returns every stored score keyed by language.
func (s *PreferencesStore) QuizScores() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.quizScores))
	for lang, score := range s.quizScores {
		out[lang] = score
	}
	return out
}

// QuizLanguages returns the languages with a stored score, sorted.
func (s *PreferencesStore) QuizLanguages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	langs := make([]string, 0, len(s.quizScores))
	for lang := range s.quizScores {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// OnboardingSeen reports whether the onboarding flow has been dismissed.
func (s *PreferencesStore) OnboardingSeen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onboardingSeen
}

// MarkOnboardingSeen records that onboarding was dismissed.
func (s *PreferencesStore) MarkOnboardingSeen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.onboardingSeen {
		return
	}
	s.onboardingSeen = true
	s.w.Put(KeyOnboardingSeen, []byte("true"))
}

// Theme returns the active color theme.
func (s *PreferencesStore) Theme() model.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// SetTheme switches to theme.
func (s *PreferencesStore) SetTheme(theme model.Theme) error {
	if theme != model.ThemeLight && theme != model.ThemeDark {
		return fmt.Errorf("unknown theme %q", theme)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	s.w.Put(KeyTheme, []byte(theme))
	return nil
}

// ToggleTheme flips between light and dark and returns the new theme.
func (s *PreferencesStore) ToggleTheme() model.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.theme == model.ThemeDark {
		s.theme = model.ThemeLight
	} else {
		s.theme = model.ThemeDark
	}
	s.w.Put(KeyTheme, []byte(s.theme))
	return s.theme
}

func (s *PreferencesStore) restoreAll(ctx context.Context, kv Backend) error {
	keys, err := kv.Keys(ctx, quizKeyPrefix)
	if err != nil {
		return fmt.Errorf("failed to list quiz scores: %w", err)
	}
	for _, key := range keys {
		lang, ok := quizLanguage(key)
		if !ok {
			continue
		}
		raw, found, err := kv.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !found {
			continue
		}
		score, err := strconv.Atoi(strings.TrimSpace(string(raw)))
		if err != nil || score < 0 {
			s.logf.printf("ignoring bad quiz score in %s: %q\n", key, raw)
			continue
		}
		s.mu.Lock()
		s.quizScores[lang] = score
		s.mu.Unlock()
	}

	raw, found, err := kv.Get(ctx, KeyOnboardingSeen)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", KeyOnboardingSeen, err)
	}
	if found {
		s.mu.Lock()
		s.onboardingSeen = strings.TrimSpace(string(raw)) == "true"
		s.mu.Unlock()
	}

	raw, found, err = kv.Get(ctx, KeyTheme)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", KeyTheme, err)
	}
	if found {
		switch theme := model.Theme(strings.TrimSpace(string(raw))); theme {
		case model.ThemeLight, model.ThemeDark:
			s.mu.Lock()
			s.theme = theme
			s.mu.Unlock()
		default:
			s.logf.printf("ignoring unknown theme %q\n", raw)
		}
	}
	return nil
}

func quizLanguage(key string) (string, bool) {
	if !strings.HasPrefix(key, quizKeyPrefix) || !strings.HasSuffix(key, quizKeySuffix) {
		return "", false
	}
	lang := strings.TrimSuffix(strings.TrimPrefix(key, quizKeyPrefix), quizKeySuffix)
	return lang, lang != ""
}
