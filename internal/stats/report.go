package stats

import (
	"math"

	"github.com/verte-zerg/learnhub/internal/catalog"
	"github.com/verte-zerg/learnhub/internal/model"
	"github.com/verte-zerg/learnhub/internal/quiz"
	"github.com/verte-zerg/learnhub/internal/state"
)

// Profile is the learner summary shown on the profile screen.
type Profile struct {
	Enrolled    int
	Completed   int
	TotalHours  float64
	TotalPoints int
}

// CourseRow is one course in the my-courses view.
type CourseRow struct {
	ID         string
	Title      string
	Instructor string
	Percent    int
	Lessons    int
	Done       int
	Points     int
	Completed  bool
}

// QuizRow is one language in the quiz overview.
type QuizRow struct {
	Lang    string
	Name    string
	Score   int
	Max     int
	Percent int
}

// QuizOverview totals quiz scores over every language.
type QuizOverview struct {
	Rows    []QuizRow
	Score   int
	Max     int
	Percent int
}

// Report contains precomputed data for rendering.
type Report struct {
	Profile    Profile
	InProgress []CourseRow
	Completed  []CourseRow
	Quiz       QuizOverview
}

// BuildReport reads the stores of app and prepares every derived view.
func BuildReport(app *state.App) Report {
	inProgress, completed := MyCourses(app)
	return Report{
		Profile:    BuildProfile(app),
		InProgress: inProgress,
		Completed:  completed,
		Quiz:       BuildQuizOverview(app.Prefs.QuizScores()),
	}
}

// BuildProfile counts enrolled and completed courses, sums the hours of the
// enrolled courses and the points earned from tasks.
func BuildProfile(app *state.App) Profile {
	enrolled := app.Catalog.EnrolledCourses()
	hours := 0.0
	for _, c := range enrolled {
		hours += catalog.ParseHours(c.Duration)
	}
	return Profile{
		Enrolled:    len(app.Catalog.Enrolled()),
		Completed:   len(app.Catalog.Completed()),
		TotalHours:  math.Round(hours*100) / 100,
		TotalPoints: app.Tasks.TotalPoints(),
	}
}

// MyCourses returns rows for enrolled courses not yet completed and for every
// completed course, both in catalog order.
func MyCourses(app *state.App) (inProgress, completed []CourseRow) {
	inProgress = []CourseRow{}
	for _, c := range app.Catalog.InProgressCourses() {
		inProgress = append(inProgress, courseRow(app, c))
	}
	completed = []CourseRow{}
	for _, c := range app.Catalog.CompletedCourses() {
		completed = append(completed, courseRow(app, c))
	}
	return inProgress, completed
}

func courseRow(app *state.App, c model.Course) CourseRow {
	row := CourseRow{
		ID:         c.ID,
		Title:      c.Title,
		Instructor: c.Instructor,
		Lessons:    len(c.Curriculum),
		Completed:  app.Catalog.IsCompleted(c.ID),
	}
	if cp, ok := app.Lessons.CourseProgress(c.ID); ok {
		row.Percent = cp.ProgressPercentage()
		row.Done = len(cp.CompletedLessons)
	}
	if tp, ok := app.Tasks.CourseTaskProgress(c.ID); ok {
		row.Points = tp.TotalPoints()
	}
	return row
}

// BuildQuizOverview lists every quiz language with its stored score, missing scores
// counting as zero, plus the overall share of correct answers.
func BuildQuizOverview(scores map[string]int) QuizOverview {
	overview := QuizOverview{}
	for _, lang := range quiz.Languages() {
		maxScore := quiz.MaxScore(lang)
		score := min(scores[lang], maxScore)
		overview.Rows = append(overview.Rows, QuizRow{
			Lang:    lang,
			Name:    quiz.DisplayName(lang),
			Score:   score,
			Max:     maxScore,
			Percent: model.Percent(score, maxScore),
		})
		overview.Score += score
		overview.Max += maxScore
	}
	overview.Percent = model.Percent(overview.Score, overview.Max)
	return overview
}
