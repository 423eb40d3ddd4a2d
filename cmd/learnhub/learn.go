package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/learnhub/internal/model"
	"github.com/verte-zerg/learnhub/internal/quiz"
	"github.com/verte-zerg/learnhub/internal/stats"
)

var (
	taskCode     string
	taskCodeFile string

	quizRestart bool
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Work on coding tasks",
	}

	draft := &cobra.Command{
		Use:   "draft <course> <task>",
		Short: "Save a code draft without submitting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readTaskCode()
			if err != nil {
				return err
			}
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			c, err := findCourse(s.app, args[0])
			if err != nil {
				return err
			}
			task, ok := c.Task(args[1])
			if !ok {
				return fmt.Errorf("task %q not found in %s", args[1], c.Title)
			}
			s.app.Tasks.UpdateTaskCode(c.ID, task.ID, code)
			return printf(cmd, "Saved draft for %s\n", task.Title)
		},
	}
	submit := &cobra.Command{
		Use:   "submit <course> <task>",
		Short: "Submit a solution",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readTaskCode()
			if err != nil {
				return err
			}
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			c, err := findCourse(s.app, args[0])
			if err != nil {
				return err
			}
			task, ok := c.Task(args[1])
			if !ok {
				return fmt.Errorf("task %q not found in %s", args[1], c.Title)
			}
			if code == "" {
				if tp, ok := s.app.Tasks.TaskProgress(c.ID, task.ID); ok {
					code = tp.Code
				}
			}
			already := s.app.Tasks.IsTaskCompleted(c.ID, task.ID)
			if err := s.app.Tasks.SubmitTask(c.ID, task, code); err != nil {
				return err
			}
			tp, _ := s.app.Tasks.TaskProgress(c.ID, task.ID)
			if already {
				return printf(cmd, "%s already completed (%d attempts)\n", task.Title, tp.Attempts)
			}
			return printf(cmd, "Task completed! +%d points (%d attempts)\n", task.Points, tp.Attempts)
		},
	}
	for _, sub := range []*cobra.Command{draft, submit} {
		sub.Flags().StringVar(&taskCode, "code", "", "solution source")
		sub.Flags().StringVar(&taskCodeFile, "file", "", "read the solution from a file")
	}
	reset := &cobra.Command{
		Use:   "reset <course>",
		Short: "Forget task progress for a course",
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
			s.app.Tasks.ResetCourseProgress(c.ID)
			return printf(cmd, "Reset task progress for %s\n", c.Title)
		},
	}
	cmd.AddCommand(draft, submit, reset)
	return cmd
}

func readTaskCode() (string, error) {
	if taskCodeFile == "" {
		return taskCode, nil
	}
	if taskCode != "" {
		return "", fmt.Errorf("use either --code or --file")
	}
	data, err := os.ReadFile(taskCodeFile)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", taskCodeFile, err)
	}
	return string(data), nil
}

func newQuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz <lang>",
		Short: "Take a language quiz (" + strings.Join(quiz.Languages(), ", ") + ")",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuizCmd,
	}
	cmd.Flags().BoolVar(&quizRestart, "restart", false, "reset the stored score first")
	return cmd
}

func runQuizCmd(cmd *cobra.Command, args []string) error {
	lang := strings.ToLower(strings.TrimSpace(args[0]))
	if !quiz.Has(lang) {
		return fmt.Errorf("unknown quiz %q (available: %s)", lang, strings.Join(quiz.Languages(), ", "))
	}
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if quizRestart {
		s.app.Prefs.SetQuizScore(lang, 0)
	}
	session := quiz.NewSession(lang, s.app.Prefs)
	in := bufio.NewScanner(cmd.InOrStdin())
	if err := printf(cmd, "%s quiz\n", quiz.DisplayName(lang)); err != nil {
		return err
	}
	for !session.Done() {
		q, pos, _ := session.Current()
		if err := printf(cmd, "\nQuestion %d of %d\n%s\n", pos+1, session.Len(), q.Prompt); err != nil {
			return err
		}
		for i, choice := range q.Choices {
			if err := printf(cmd, "  %d) %s\n", i+1, choice); err != nil {
				return err
			}
		}
		choice, err := readChoice(cmd, in, len(q.Choices))
		if err != nil {
			return err
		}
		correct, err := session.Pick(choice)
		if err != nil {
			return err
		}
		if correct {
			err = printf(cmd, "Correct!\n")
		} else {
			err = printf(cmd, "Wrong. Answer: %s\n", q.Choices[q.Answer])
		}
		if err != nil {
			return err
		}
	}
	return printf(cmd, "\nScore: %d/%d (%d%%)\n%s\n", session.Score(), session.Len(), session.Percent(), session.Feedback())
}

func readChoice(cmd *cobra.Command, in *bufio.Scanner, count int) (int, error) {
	for {
		if err := printf(cmd, "Answer [1-%d]: ", count); err != nil {
			return 0, err
		}
		if !in.Scan() {
			if err := in.Err(); err != nil {
				return 0, fmt.Errorf("failed to read answer: %w", err)
			}
			return 0, fmt.Errorf("quiz aborted")
		}
		n, err := strconv.Atoi(strings.TrimSpace(in.Text()))
		if err == nil && n >= 1 && n <= count {
			return n - 1, nil
		}
	}
}

func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the learner profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			report := stats.BuildReport(s.app)
			var userPtr *model.User
			if user, ok := s.app.Identity.User(); ok {
				userPtr = &user
			}
			out := cmd.OutOrStdout()
			if err := stats.RenderProfile(out, userPtr, report.Profile); err != nil {
				return err
			}
			next := stats.ContinueLearning(report.InProgress, 3)
			if len(next) == 0 {
				return nil
			}
			if err := printf(cmd, "Continue learning\n"); err != nil {
				return err
			}
			for _, r := range next {
				if err := printf(cmd, "%s %3d%%  %s (learnhub course %s)\n", stats.ProgressBar(r.Percent, 20), r.Percent, r.Title, r.ID); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newMyCoursesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "my-courses",
		Short: "List courses in progress and completed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			inProgress, completed := stats.MyCourses(s.app)
			return stats.RenderMyCourses(cmd.OutOrStdout(), inProgress, completed, stats.RenderOptions{})
		},
	}
}

func newProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show quiz scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			overview := stats.BuildQuizOverview(s.app.Prefs.QuizScores())
			return stats.RenderQuizOverview(cmd.OutOrStdout(), overview, stats.RenderOptions{})
		},
	}
}
