package quiz

import (
	"fmt"

	"github.com/verte-zerg/learnhub/internal/model"
)

// ScoreKeeper persists the correct-answer count per language.
type ScoreKeeper interface {
	QuizScore(lang string) (int, bool)
	SetQuizScore(lang string, score int)
}

// Session walks through a language quiz one question at a time.
type Session struct {
	lang      string
	questions []Question
	scores    ScoreKeeper
	idx       int
	score     int
	done      bool
}

// NewSession starts lang's quiz at the first question with the stored score carried over.
func NewSession(lang string, scores ScoreKeeper) *Session {
	s := &Session{
		lang:      lang,
		questions: Questions(lang),
		scores:    scores,
	}
	if score, ok := scores.QuizScore(lang); ok {
		s.score = min(score, len(s.questions))
	}
	return s
}

// Language returns the key the score is stored under.
func (s *Session) Language() string {
	return s.lang
}

// Current returns the question being asked and its 1-based position.
func (s *Session) Current() (Question, int, bool) {
	if s.done {
		return Question{}, 0, false
	}
	return s.questions[s.idx], s.idx + 1, true
}

// Len is the number of questions in the session.
func (s *Session) Len() int {
	return len(s.questions)
}

// Pick answers the current question. A correct answer raises the score, which is
// stored right away. It reports whether the answer was correct.
func (s *Session) Pick(choice int) (bool, error) {
	if s.done {
		return false, fmt.Errorf("quiz %s is already finished", s.lang)
	}
	q := s.questions[s.idx]
	if choice < 0 || choice >= len(q.Choices) {
		return false, fmt.Errorf("choice %d out of range 1-%d", choice+1, len(q.Choices))
	}
	correct := choice == q.Answer
	if correct {
		s.score = min(s.score+1, len(s.questions))
		s.scores.SetQuizScore(s.lang, s.score)
	}
	if s.idx+1 >= len(s.questions) {
		s.done = true
	} else {
		s.idx++
	}
	return correct, nil
}

// Done reports whether every question has been answered.
func (s *Session) Done() bool {
	return s.done
}

// Score is the number of correct answers.
func (s *Session) Score() int {
	return s.score
}

// Percent is the rounded share of correct answers.
func (s *Session) Percent() int {
	return model.Percent(s.score, len(s.questions))
}

// Feedback is the closing message for the final score.
func (s *Session) Feedback() string {
	return Feedback(s.Percent())
}

// Feedback maps a percentage to its closing message.
func Feedback(pct int) string {
	switch {
	case pct >= 100:
		return "Perfect! You mastered this!"
	case pct >= 75:
		return "Great job! Keep it up!"
	case pct >= 50:
		return "Good effort! Review and try again!"
	default:
		return "Keep learning! Practice makes perfect!"
	}
}
