package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/learnhub/internal/model"
	"github.com/verte-zerg/learnhub/internal/state"
	"github.com/verte-zerg/learnhub/internal/stats"
	"github.com/verte-zerg/learnhub/internal/tui"
)

var (
	coursesSearch   string
	coursesCategory string
	coursesFeatured bool
	coursesPopular  bool

	completeGrant bool

	watchSeconds float64
	watchTotal   float64
)

func newCoursesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List the course catalog",
		Args:  cobra.NoArgs,
		RunE:  runCoursesCmd,
	}
	cmd.Flags().StringVar(&coursesSearch, "search", "", "match title, instructor, category or description")
	cmd.Flags().StringVar(&coursesCategory, "category", "", "exact category name")
	cmd.Flags().BoolVar(&coursesFeatured, "featured", false, "only featured courses")
	cmd.Flags().BoolVar(&coursesPopular, "popular", false, "only popular courses")
	return cmd
}

func runCoursesCmd(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	courses := s.app.Catalog.FilterCourses(coursesSearch, coursesCategory)
	rows := make([]stats.CatalogRow, 0, len(courses))
	for _, c := range courses {
		if coursesFeatured && !c.Featured {
			continue
		}
		if coursesPopular && !c.Popular {
			continue
		}
		rows = append(rows, stats.CatalogRow{
			Course:    c,
			Enrolled:  s.app.Catalog.IsEnrolled(c.ID),
			Completed: s.app.Catalog.IsCompleted(c.ID),
		})
	}
	return stats.RenderCatalog(cmd.OutOrStdout(), rows, stats.RenderOptions{})
}

func newCourseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "course <id>",
		Short: "Show a course with its curriculum and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			c, err := findCourse(s.app, args[0])
			if err != nil {
				return err
			}
			progress, _ := s.app.Lessons.CourseProgress(c.ID)
			tasks, _ := s.app.Tasks.CourseTaskProgress(c.ID)
			return stats.RenderCourse(cmd.OutOrStdout(), stats.CourseDetail{
				Course:   c,
				Enrolled: s.app.Catalog.IsEnrolled(c.ID),
				Done:     s.app.Catalog.IsCompleted(c.ID),
				Progress: progress,
				Tasks:    tasks,
			})
		},
	}
}

func newEnrollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enroll <id>",
		Short: "Enroll in a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			c, err := findCourse(s.app, args[0])
			if err != nil {
				return err
			}
			if s.app.Catalog.IsEnrolled(c.ID) {
				return printf(cmd, "Already enrolled in %s\n", c.Title)
			}
			s.app.Catalog.Enroll(c.ID)
			s.app.Lessons.CalculateProgress(c.ID, len(c.Curriculum))
			return printf(cmd, "Enrolled in %s\n", c.Title)
		},
	}
}

func newCompleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a course completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			c, err := findCourse(s.app, args[0])
			if err != nil {
				return err
			}
			if completeGrant {
				s.app.Catalog.GrantCompletion(c.ID)
			} else if err := s.app.Catalog.MarkCompleted(c.ID); err != nil {
				if errors.Is(err, state.ErrNotEnrolled) {
					return fmt.Errorf("not enrolled in %s (run: learnhub enroll %s)", c.Title, c.ID)
				}
				return err
			}
			return printf(cmd, "Completed %s\n", c.Title)
		},
	}
	cmd.Flags().BoolVar(&completeGrant, "grant", false, "complete without enrollment")
	return cmd
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <course> <lesson>",
		Short: "Play a lesson and record progress",
		Long: "Play a lesson and record progress. Without --seconds the player samples\n" +
			"progress every --sample-interval until the lesson ends or is interrupted.",
		Args: cobra.ExactArgs(2),
		RunE: runWatchCmd,
	}
	cmd.Flags().Float64Var(&watchSeconds, "seconds", -1, "record a single sample at this position")
	cmd.Flags().Float64Var(&watchTotal, "total", 0, "lesson length in seconds (default: from the lesson duration)")
	return cmd
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	c, lesson, err := findLesson(s.app, args[0], args[1])
	if err != nil {
		return err
	}
	if s.cfg.RequireEnrollment && !s.app.Catalog.IsEnrolled(c.ID) {
		return fmt.Errorf("not enrolled in %s (run: learnhub enroll %s)", c.Title, c.ID)
	}
	total := watchTotal
	if total <= 0 {
		total = tui.LessonSeconds(lesson, s.cfg.LessonSeconds)
	}
	s.app.Lessons.CalculateProgress(c.ID, len(c.Curriculum))

	if cmd.Flags().Changed("seconds") {
		if watchSeconds < 0 {
			return fmt.Errorf("--seconds must be >= 0")
		}
		s.app.Lessons.UpdateLessonProgress(c.ID, lesson.ID, min(watchSeconds, total), total)
		return printLessonState(cmd, s.app, c, lesson)
	}

	watched := 0.0
	if lp, ok := s.app.Lessons.LessonProgress(c.ID, lesson.ID); ok && lp.WatchedDuration < total {
		watched = lp.WatchedDuration
	}
	s.app.Lessons.SetCurrentLesson(c.ID, lesson.ID)
	ticker := time.NewTicker(s.cfg.SampleInterval)
	defer ticker.Stop()
	out := cmd.OutOrStdout()
	for watched < total {
		select {
		case <-cmd.Context().Done():
			if _, err := fmt.Fprintln(out); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return printLessonState(cmd, s.app, c, lesson)
		case <-ticker.C:
		}
		watched = min(watched+s.cfg.SampleInterval.Seconds(), total)
		s.app.Lessons.UpdateLessonProgress(c.ID, lesson.ID, watched, total)
		pct := int(watched / total * 100)
		if _, err := fmt.Fprintf(out, "\r%s %s %3d%%", lesson.Title, stats.ProgressBar(pct, 30), pct); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return printLessonState(cmd, s.app, c, lesson)
}

func newLessonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lesson",
		Short: "Manage lesson progress",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "complete <course> <lesson>",
		Short: "Mark a lesson completed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			c, lesson, err := findLesson(s.app, args[0], args[1])
			if err != nil {
				return err
			}
			s.app.Lessons.CalculateProgress(c.ID, len(c.Curriculum))
			s.app.Lessons.CompleteLesson(c.ID, lesson.ID)
			return printLessonState(cmd, s.app, c, lesson)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset <course>",
		Short: "Forget lesson progress for a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			c, err := findCourse(s.app, args[0])
			if err != nil {
				return err
			}
			s.app.Lessons.ResetCourse(c.ID)
			return printf(cmd, "Reset lesson progress for %s\n", c.Title)
		},
	})
	return cmd
}

func printLessonState(cmd *cobra.Command, app *state.App, c model.Course, lesson model.Lesson) error {
	lp, _ := app.Lessons.LessonProgress(c.ID, lesson.ID)
	cp, _ := app.Lessons.CourseProgress(c.ID)
	status := "in progress"
	if app.Lessons.IsLessonCompleted(c.ID, lesson.ID) {
		status = "completed"
	}
	return printf(cmd, "%s: %s (%.0fs of %.0fs watched)\nCourse progress: %d%%\n",
		lesson.Title, status, lp.WatchedDuration, lp.TotalDuration, cp.ProgressPercentage())
}

func findCourse(app *state.App, id string) (model.Course, error) {
	c, ok := app.Catalog.FindByID(id)
	if !ok {
		return model.Course{}, fmt.Errorf("course %q not found (run: learnhub courses)", id)
	}
	return c, nil
}

func findLesson(app *state.App, courseID, lessonID string) (model.Course, model.Lesson, error) {
	c, err := findCourse(app, courseID)
	if err != nil {
		return model.Course{}, model.Lesson{}, err
	}
	lesson, ok := c.Lesson(lessonID)
	if !ok {
		return model.Course{}, model.Lesson{}, fmt.Errorf("lesson %q not found in %s (run: learnhub course %s)", lessonID, c.Title, c.ID)
	}
	return c, lesson, nil
}

func printf(cmd *cobra.Command, format string, args ...any) error {
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
