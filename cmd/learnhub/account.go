package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/learnhub/internal/backup"
	"github.com/verte-zerg/learnhub/internal/config"
	"github.com/verte-zerg/learnhub/internal/model"
	"github.com/verte-zerg/learnhub/internal/state"
)

var (
	authName     string
	authEmail    string
	authPassword string
	authAvatar   string
)

var planPrices = map[model.Plan]string{
	model.PlanFree:    "$0 forever",
	model.PlanMonthly: "$9.99 per month",
	model.PlanYearly:  "$99.99 per year",
}

var onboardingSlides = [][2]string{
	{"Learn to Code Anytime, Anywhere", "Master programming with interactive lessons designed for all skill levels"},
	{"Build Real Projects", "Apply your knowledge with hands-on coding challenges and quizzes"},
	{"Track Your Progress", "Monitor your learning journey and earn certificates as you grow"},
}

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.app.Identity.Login(cmd.Context(), authEmail, authPassword); err != nil {
				return err
			}
			return printSignedIn(cmd, s.app)
		},
	}
	cmd.Flags().StringVar(&authEmail, "email", "", "account email")
	cmd.Flags().StringVar(&authPassword, "password", "", "account password")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.app.Identity.Register(cmd.Context(), authName, authEmail, authPassword); err != nil {
				return err
			}
			return printSignedIn(cmd, s.app)
		},
	}
	cmd.Flags().StringVar(&authName, "name", "", "display name")
	cmd.Flags().StringVar(&authEmail, "email", "", "account email")
	cmd.Flags().StringVar(&authPassword, "password", "", "account password")
	return cmd
}

func printSignedIn(cmd *cobra.Command, app *state.App) error {
	user, ok := app.Identity.User()
	if !ok {
		return fmt.Errorf("sign-in did not complete")
	}
	return printf(cmd, "Signed in as %s <%s>\n", user.Name, user.Email)
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if !s.app.Identity.IsAuthenticated() {
				return printf(cmd, "Not signed in\n")
			}
			s.app.Identity.Logout()
			return printf(cmd, "Signed out\n")
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			user, ok := s.app.Identity.User()
			if !ok {
				return printf(cmd, "Not signed in\n")
			}
			return printf(cmd, "%s <%s>\nid: %s\navatar: %s\n", user.Name, user.Email, user.ID, user.Avatar)
		},
	}
}

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Update profile fields of the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if !s.app.Identity.IsAuthenticated() {
				return fmt.Errorf("not signed in (run: learnhub login)")
			}
			var update state.ProfileUpdate
			if cmd.Flags().Changed("name") {
				update.Name = &authName
			}
			if cmd.Flags().Changed("email") {
				update.Email = &authEmail
			}
			if cmd.Flags().Changed("avatar") {
				update.Avatar = &authAvatar
			}
			s.app.Identity.UpdateProfile(update)
			return printSignedIn(cmd, s.app)
		},
	}
	cmd.Flags().StringVar(&authName, "name", "", "new display name")
	cmd.Flags().StringVar(&authEmail, "email", "", "new email")
	cmd.Flags().StringVar(&authAvatar, "avatar", "", "new avatar URL")
	return cmd
}

func newSubscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe <free|monthly|yearly>",
		Short: "Choose a subscription plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.app.Subscription.Subscribe(model.Plan(strings.ToLower(args[0]))); err != nil {
				return err
			}
			return printPlan(cmd, s.app)
		},
	}
}

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the subscription status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			return printPlan(cmd, s.app)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "cancel",
		Short: "Stop automatic renewal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			s.app.Subscription.CancelSubscription()
			return printPlan(cmd, s.app)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "auto-renew <on|off>",
		Short: "Turn automatic renewal on or off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var on bool
			switch strings.ToLower(args[0]) {
			case "on", "true":
				on = true
			case "off", "false":
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			s.app.Subscription.UpdateAutoRenew(on)
			return printPlan(cmd, s.app)
		},
	})
	return cmd
}

func printPlan(cmd *cobra.Command, app *state.App) error {
	sub, ok := app.Subscription.Subscription()
	if !ok {
		lines := []string{"No plan. Available plans:"}
		for _, p := range []model.Plan{model.PlanFree, model.PlanMonthly, model.PlanYearly} {
			lines = append(lines, fmt.Sprintf("  %-8s %s", p, planPrices[p]))
		}
		return printf(cmd, "%s\n", strings.Join(lines, "\n"))
	}
	status := "active"
	if !app.Subscription.IsSubscribed() {
		status = "expired"
	}
	lines := []string{
		fmt.Sprintf("Plan:       %s (%s)", sub.Plan, planPrices[sub.Plan]),
		fmt.Sprintf("Status:     %s", status),
		fmt.Sprintf("Started:    %s", sub.StartDate.Local().Format(time.DateOnly)),
	}
	if sub.EndDate != nil {
		label := "Expires:"
		if sub.AutoRenew {
			label = "Renews:"
		}
		lines = append(lines, fmt.Sprintf("%-11s %s", label, sub.EndDate.Local().Format(time.DateOnly)))
	}
	lines = append(lines,
		fmt.Sprintf("Auto-renew: %t", sub.AutoRenew),
		fmt.Sprintf("Premium:    %t", app.Subscription.HasPremiumAccess()),
	)
	return printf(cmd, "%s\n", strings.Join(lines, "\n"))
}

func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theme [light|dark|toggle]",
		Short: "Show or change the color theme",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if len(args) == 1 {
				switch arg := strings.ToLower(args[0]); arg {
				case "toggle":
					s.app.Prefs.ToggleTheme()
				default:
					if err := s.app.Prefs.SetTheme(model.Theme(arg)); err != nil {
						return err
					}
				}
			}
			return printf(cmd, "%s\n", s.app.Prefs.Theme())
		},
	}
}

func newOnboardingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "onboarding",
		Short: "Show the introduction and mark it seen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			for i, slide := range onboardingSlides {
				if err := printf(cmd, "%d/%d  %s\n      %s\n\n", i+1, len(onboardingSlides), slide[0], slide[1]); err != nil {
					return err
				}
			}
			s.app.Prefs.MarkOnboardingSeen()
			return printf(cmd, "Get started: learnhub courses\n")
		},
	}
}

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import all saved state",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "export [file]",
		Short: "Write a compressed backup",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := backupPath(args)
			st, err := openStore(config.DefaultDBPath())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := st.Close(); cerr != nil {
					logErrf("failed to close db: %v\n", cerr)
				}
			}()
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("failed to create backup directory: %w", err)
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create backup: %w", err)
			}
			n, err := backup.Export(cmd.Context(), st, f, time.Now())
			if cerr := f.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("failed to write backup: %w", cerr)
			}
			if err != nil {
				return err
			}
			return printf(cmd, "Exported %d records to %s\n", n, path)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "import [file]",
		Short: "Restore a backup, overwriting the keys it contains",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := backupPath(args)
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open backup: %w", err)
			}
			defer func() {
				if cerr := f.Close(); cerr != nil {
					_ = cerr
				}
			}()
			st, err := openStore(config.DefaultDBPath())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := st.Close(); cerr != nil {
					logErrf("failed to close db: %v\n", cerr)
				}
			}()
			n, err := backup.Import(cmd.Context(), st, f)
			if err != nil {
				return err
			}
			return printf(cmd, "Imported %d records from %s\n", n, path)
		},
	})
	return cmd
}

func backupPath(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return config.DefaultBackupPath()
}
