package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/learnhub/internal/model"
)

const stripChars = " .:-=+*#%@"

// RenderOptions controls text output sizing.
type RenderOptions struct {
	// Width is the total terminal width; 0 means detect it.
	Width      int
	ForceColor bool
}

func (o RenderOptions) width() int {
	if o.Width > 0 {
		return o.Width
	}
	return TerminalWidth()
}

// LessonStrip renders one character per lesson scaled by the watched fraction,
// "@" for a completed lesson and " " for one never started.
func LessonStrip(fractions []float64) string {
	var b strings.Builder
	for _, f := range fractions {
		f = math.Max(0, math.Min(f, 1))
		idx := int(math.Round(f * float64(len(stripChars)-1)))
		b.WriteByte(stripChars[idx])
	}
	return b.String()
}

// LessonFractions lists the watched fraction of each curriculum lesson in order.
func LessonFractions(course model.Course, progress model.CourseProgress) []float64 {
	out := make([]float64, len(course.Curriculum))
	for i, lesson := range course.Curriculum {
		if progress.HasCompleted(lesson.ID) {
			out[i] = 1
			continue
		}
		lp, ok := progress.Lessons[lesson.ID]
		if !ok || lp.TotalDuration <= 0 {
			continue
		}
		out[i] = lp.WatchedDuration / lp.TotalDuration
	}
	return out
}

// RenderProfile prints the learner summary.
func RenderProfile(w io.Writer, user *model.User, p Profile) error {
	if user != nil {
		if _, err := fmt.Fprintf(w, "%s <%s>\n", user.Name, user.Email); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintln(w, "Not signed in"); err != nil {
			return err
		}
	}
	lines := formatTable(nil, [][]string{
		{"Enrolled", fmt.Sprintf("%d", p.Enrolled)},
		{"Completed", fmt.Sprintf("%d", p.Completed)},
		{"Hours", fmt.Sprintf("%.0f", math.Round(p.TotalHours))},
		{"Points", fmt.Sprintf("%d", p.TotalPoints)},
	}, map[int]bool{1: true})
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderMyCourses prints the in-progress and completed course lists.
func RenderMyCourses(w io.Writer, inProgress, completed []CourseRow, opts RenderOptions) error {
	useColor := shouldUseColor(w, opts.ForceColor)
	if _, err := fmt.Fprintf(w, "In Progress (%d)\n", len(inProgress)); err != nil {
		return err
	}
	if len(inProgress) == 0 {
		if _, err := fmt.Fprintln(w, "No courses in progress."); err != nil {
			return err
		}
	}
	titleWidth := 0
	for _, r := range inProgress {
		titleWidth = max(titleWidth, displayWidth(r.Title))
	}
	titleWidth = min(titleWidth, 32)
	barWidth := BarWidthFor(opts.width(), titleWidth+len(" 100%")+2)
	rows := make([][]string, 0, len(inProgress))
	for _, r := range inProgress {
		rows = append(rows, []string{
			truncate(r.Title, titleWidth),
			colorize(ProgressBar(r.Percent, barWidth), r.Percent, useColor),
			fmt.Sprintf("%d%%", r.Percent),
		})
	}
	for _, line := range formatTable(nil, rows, map[int]bool{2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\nCompleted (%d)\n", len(completed)); err != nil {
		return err
	}
	if len(completed) == 0 {
		if _, err := fmt.Fprintln(w, "No completed courses yet."); err != nil {
			return err
		}
	}
	rows = rows[:0]
	for _, r := range completed {
		rows = append(rows, []string{r.Title, r.Instructor, fmt.Sprintf("%d pts", r.Points)})
	}
	for _, line := range formatTable(nil, rows, map[int]bool{2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderQuizOverview prints the overall quiz score and one bar per language.
func RenderQuizOverview(w io.Writer, q QuizOverview, opts RenderOptions) error {
	useColor := shouldUseColor(w, opts.ForceColor)
	if _, err := fmt.Fprintf(w, "Overall: %d%% (%d/%d correct)\n", q.Percent, q.Score, q.Max); err != nil {
		return err
	}
	nameWidth := 0
	for _, r := range q.Rows {
		nameWidth = max(nameWidth, displayWidth(r.Name))
	}
	barWidth := BarWidthFor(opts.width(), nameWidth+len(" 8/8 100%")+4)
	rows := make([][]string, 0, len(q.Rows))
	for _, r := range q.Rows {
		rows = append(rows, []string{
			r.Name,
			colorize(ProgressBar(r.Percent, barWidth), r.Percent, useColor),
			fmt.Sprintf("%d/%d", r.Score, r.Max),
			fmt.Sprintf("%d%%", r.Percent),
		})
	}
	for _, line := range formatTable(nil, rows, map[int]bool{2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// FormatPrice renders a catalog price, "Free" for zero.
func FormatPrice(price float64) string {
	if price <= 0 {
		return "Free"
	}
	return fmt.Sprintf("$%.2f", price)
}

// CourseDetail is the per-course view of the course screen.
type CourseDetail struct {
	Course   model.Course
	Enrolled bool
	Done     bool
	Progress model.CourseProgress
	Tasks    model.CourseTaskProgress
}

// RenderCourse prints a course header, its curriculum with watch state and its tasks.
func RenderCourse(w io.Writer, d CourseDetail) error {
	c := d.Course
	status := "not enrolled"
	switch {
	case d.Done:
		status = "completed"
	case d.Enrolled:
		status = "enrolled"
	}
	if _, err := fmt.Fprintf(w, "%s (%s)\n", c.Title, status); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s | %s | %s | %.1f (%d reviews) | %s students | %s\n",
		c.Instructor, c.Level, c.Duration, c.Rating, c.Reviews, c.Students, FormatPrice(c.Price)); err != nil {
		return err
	}
	if c.Description != "" {
		if _, err := fmt.Fprintln(w, c.Description); err != nil {
			return err
		}
	}
	fractions := LessonFractions(c, d.Progress)
	if _, err := fmt.Fprintf(w, "\nCurriculum [%s] %d%%\n", LessonStrip(fractions), d.Progress.ProgressPercentage()); err != nil {
		return err
	}
	rows := make([][]string, 0, len(c.Curriculum))
	for i, lesson := range c.Curriculum {
		mark := " "
		if fractions[i] >= 1 {
			mark = "x"
		} else if lesson.ID == d.Progress.CurrentLessonID {
			mark = ">"
		}
		rows = append(rows, []string{
			mark,
			lesson.ID,
			lesson.Title,
			lesson.Duration,
			fmt.Sprintf("%d%%", int(math.Round(fractions[i]*100))),
		})
	}
	for _, line := range formatTable(nil, rows, map[int]bool{3: true, 4: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if len(c.Tasks) > 0 {
		if _, err := fmt.Fprintf(w, "\nTasks (%d pts earned)\n", d.Tasks.TotalPoints()); err != nil {
			return err
		}
		rows = rows[:0]
		for _, task := range c.Tasks {
			tp := d.Tasks.Tasks[task.ID]
			mark := " "
			if d.Tasks.HasCompleted(task.ID) {
				mark = "x"
			}
			rows = append(rows, []string{
				mark,
				task.ID,
				task.Title,
				string(task.Difficulty),
				fmt.Sprintf("%d pts", task.Points),
				fmt.Sprintf("%d attempts", tp.Attempts),
			})
		}
		for _, line := range formatTable(nil, rows, map[int]bool{4: true, 5: true}) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// CatalogRow is one course of a catalog listing with the learner's status.
type CatalogRow struct {
	Course    model.Course
	Enrolled  bool
	Completed bool
}

// RenderCatalog prints one aligned line per course: status mark, id, title,
// instructor, category, duration, rating and price.
func RenderCatalog(w io.Writer, rows []CatalogRow, opts RenderOptions) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No courses match.")
		return err
	}
	titleWidth := max(16, min(40, opts.width()-70))
	headers := []string{"", "ID", "Course", "Instructor", "Category", "Duration", "Rating", "Price"}
	lines := make([][]string, 0, len(rows))
	for _, r := range rows {
		mark := ""
		switch {
		case r.Completed:
			mark = "x"
		case r.Enrolled:
			mark = "*"
		}
		c := r.Course
		lines = append(lines, []string{
			mark,
			c.ID,
			truncate(c.Title, titleWidth),
			c.Instructor,
			c.Category,
			c.Duration,
			fmt.Sprintf("%.1f", c.Rating),
			FormatPrice(c.Price),
		})
	}
	for _, line := range formatTable(headers, lines, map[int]bool{6: true, 7: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
