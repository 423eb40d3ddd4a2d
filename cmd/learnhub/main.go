// Package main provides the CLI entrypoint for learnhub.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/learnhub/internal/config"
	"github.com/verte-zerg/learnhub/internal/model"
	"github.com/verte-zerg/learnhub/internal/state"
	"github.com/verte-zerg/learnhub/internal/statsui"
	"github.com/verte-zerg/learnhub/internal/store"
	"github.com/verte-zerg/learnhub/internal/tui"
)

const (
	defaultLoginDelay     = time.Second
	defaultSampleInterval = time.Second
	defaultLessonSeconds  = 600
	defaultTheme          = string(model.ThemeLight)
)

var (
	appLoginDelay        time.Duration
	appTheme             string
	appRequireEnrollment bool
	playerSampleInterval time.Duration
	playerLessonSeconds  int
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		logErrf("failed to load .env: %v\n", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "learnhub",
		Short:         "Learn to code from the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runBrowseCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.DurationVar(&appLoginDelay, "login-delay", defaultLoginDelay, "simulated sign-in delay")
	flags.StringVar(&appTheme, "theme", defaultTheme, "initial theme when none is saved (light|dark)")
	flags.BoolVar(&appRequireEnrollment, "require-enrollment", true, "only enrolled courses can be completed")
	flags.DurationVar(&playerSampleInterval, "sample-interval", defaultSampleInterval, "lesson progress sampling interval")
	flags.IntVar(&playerLessonSeconds, "lesson-seconds", defaultLessonSeconds, "lesson length when its duration is unknown")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newCoursesCmd())
	rootCmd.AddCommand(newCourseCmd())
	rootCmd.AddCommand(newEnrollCmd())
	rootCmd.AddCommand(newCompleteCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newLessonCmd())
	rootCmd.AddCommand(newTaskCmd())
	rootCmd.AddCommand(newQuizCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newAccountCmd())
	rootCmd.AddCommand(newSubscribeCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newMyCoursesCmd())
	rootCmd.AddCommand(newProgressCmd())
	rootCmd.AddCommand(newThemeCmd())
	rootCmd.AddCommand(newOnboardingCmd())
	rootCmd.AddCommand(newBackupCmd())

	return rootCmd
}

// session is one opened database with the application state restored from it.
type session struct {
	cfg model.Config
	st  *store.Store
	app *state.App
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	st, err := openStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	app, err := state.Open(cmd.Context(), st, state.Options{
		LoginDelay:        cfg.LoginDelay,
		DefaultTheme:      cfg.Theme,
		RequireEnrollment: cfg.RequireEnrollment,
		Logf:              logErrf,
	})
	if err != nil {
		if cerr := st.Close(); cerr != nil {
			_ = cerr
		}
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return &session{cfg: cfg, st: st, app: app}, nil
}

// close waits for pending writes and releases the database.
func (s *session) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.app.Close(ctx); err != nil {
		logErrf("%v\n", err)
	}
	if err := s.st.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

func openStore(path string) (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyDurationConfig(cmd, "login-delay", &appLoginDelay, fileCfg.App.LoginDelay); err != nil {
		return model.Config{}, err
	}
	applyStringConfig(cmd, "theme", &appTheme, fileCfg.App.Theme)
	applyBoolConfig(cmd, "require-enrollment", &appRequireEnrollment, fileCfg.App.RequireEnrollment)
	if err := applyDurationConfig(cmd, "sample-interval", &playerSampleInterval, fileCfg.Player.SampleInterval); err != nil {
		return model.Config{}, err
	}
	applyIntConfig(cmd, "lesson-seconds", &playerLessonSeconds, fileCfg.Player.LessonSeconds)

	cfg := model.Config{
		DBPath:            config.DefaultDBPath(),
		LoginDelay:        appLoginDelay,
		SampleInterval:    playerSampleInterval,
		LessonSeconds:     playerLessonSeconds,
		Theme:             model.Theme(strings.ToLower(strings.TrimSpace(appTheme))),
		RequireEnrollment: appRequireEnrollment,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.LoginDelay < 0 {
		return fmt.Errorf("--login-delay must be >= 0")
	}
	if cfg.SampleInterval <= 0 {
		return fmt.Errorf("--sample-interval must be > 0")
	}
	if cfg.LessonSeconds <= 0 {
		return fmt.Errorf("--lesson-seconds must be > 0")
	}
	if cfg.Theme != model.ThemeLight && cfg.Theme != model.ThemeDark {
		return fmt.Errorf("--theme must be light or dark")
	}
	return nil
}

func runBrowseCmd(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if !s.app.Prefs.OnboardingSeen() {
		logErrln("First time here? Run: learnhub onboarding")
	}
	program := tea.NewProgram(tui.NewModel(s.app, s.cfg), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Browse profile, courses and quiz scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			program := tea.NewProgram(statsui.NewModel(s.app), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("failed to run dashboard: %w", err)
			}
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil {
		return nil
	}
	if cmd.Flags().Changed(name) {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(*value))
	if err != nil {
		return fmt.Errorf("invalid %s in config: %w", name, err)
	}
	*target = d
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# learnhub configuration
# Uncomment a value to enable it. CLI flags override config values.

[app]
# login-delay = %q          # Simulated sign-in delay
# theme = %q                # Initial theme when none is saved (light|dark)
# require-enrollment = true   # Only enrolled courses can be marked completed

[player]
# sample-interval = %q      # How often lesson progress is recorded
# lesson-seconds = %d        # Lesson length when its duration is unknown
`,
		defaultLoginDelay.String(),
		defaultTheme,
		defaultSampleInterval.String(),
		defaultLessonSeconds,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
