package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"waterlog/internal/backend"
	"waterlog/internal/config"
	"waterlog/internal/core"
	applog "waterlog/internal/log"
	"waterlog/internal/services"
	"waterlog/internal/session"
)

// runner carries the state one command invocation shares between the
// bootstrap hook and the command body.
type runner struct {
	cfg    *config.Config
	logOut io.Writer
	app    *App
}

func (r *runner) bootstrap(cmd *cobra.Command, _ []string) error {
	if err := r.cfg.Validate(); err != nil {
		return err
	}
	logger, err := SetupLogger(r.cfg, r.logOut)
	if err != nil {
		return err
	}
	r.app, err = Bootstrap(cmd.Context(), r.cfg, logger)
	if err != nil {
		logger.LogError(cmd.Context(), "Startup failed", err, applog.ErrorTypeConfiguration, applog.OpStartup, nil)
	}
	return err
}

// run wraps fn so the store is closed however fn returns.
func (r *runner) run(fn func(cmd *cobra.Command, args []string, a *App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if cerr := r.app.Close(); cerr != nil {
				r.app.Logger.LogError(cmd.Context(), "Closing intake log failed", cerr, applog.ErrorTypePersistence, applog.OpShutdown, nil)
				if err == nil {
					err = cerr
				}
			}
		}()

		cmd.SetContext(applog.NewContext(cmd.Context(), r.app.Logger))
		err = fn(cmd, args, r.app)
		if err != nil && !services.IsUserError(err) {
			r.app.Logger.LogError(cmd.Context(), "Command failed", err, applog.ErrorTypeInternal, cmd.Name(), nil)
		}
		return err
	}
}

// NewRootCommand builds the waterlog command tree. cfg holds the
// environment-derived defaults; flags overwrite its fields in place.
// Logs go to logOut.
func NewRootCommand(cfg *config.Config, logOut io.Writer) *cobra.Command {
	r := &runner{cfg: cfg, logOut: logOut}

	rootCmd := &cobra.Command{
		Use:               "waterlog",
		Short:             "Track daily water intake against a goal",
		Long:              "waterlog records water intake in ml and shows progress toward a daily goal.\nRun without a subcommand for the interactive menu.",
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: r.bootstrap,
		RunE: r.run(func(cmd *cobra.Command, _ []string, a *App) error {
			in := cmd.InOrStdin()
			if IsInteractive(in) {
				fmt.Fprintln(cmd.OutOrStdout(), "Welcome to the Water Tracker. Your data stays on this machine.")
			}
			ctrl := session.New(a.Intake, a.Agg, a.Renderer, cmd.OutOrStdout(), a.Logger)
			return ctrl.Run(cmd.Context(), in)
		}),
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.DataBackend, "backend", cfg.DataBackend, "storage backend: "+strings.Join(backend.GetBackendTypeStrings(), ", "))
	flags.StringVar(&cfg.JSONPath, "file", cfg.JSONPath, "path of the JSON intake log")
	flags.StringVar(&cfg.SQLiteDBPath, "db", cfg.SQLiteDBPath, "path of the SQLite database")
	flags.IntVar(&cfg.DailyGoal, "goal", cfg.DailyGoal, "daily goal in ml")
	flags.IntVar(&cfg.BarHeight, "bar-height", cfg.BarHeight, "rows in the progress bar")
	flags.IntVar(&cfg.WindowDays, "window", cfg.WindowDays, "days shown by the weekly view (1-7)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newInitCmd(r),
		newLogCmd(r),
		newProgressCmd(r),
		newWeekCmd(r),
		newResetCmd(r),
	)
	return rootCmd
}

func newInitCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the intake log if it does not exist",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, _ []string, a *App) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Intake log ready: %s\n", a.StorePath())
			return nil
		}),
	}
}

func newLogCmd(r *runner) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "log <ml>",
		Short: "Log an amount of water for today",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(cmd *cobra.Command, args []string, a *App) error {
			amount, err := core.ParseAmount(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !yes && !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Confirm logging %dml? (y/n): ", amount)) {
				fmt.Fprintln(out, "Action canceled.")
				return nil
			}
			if _, err := a.Intake.Log(cmd.Context(), amount); err != nil {
				return err
			}
			fmt.Fprintf(out, "%dml logged!\n", amount)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newProgressCmd(r *runner) *cobra.Command {
	var percent bool
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show today's progress toward the goal",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, _ []string, a *App) error {
			total, err := a.Agg.TotalFor(cmd.Context(), a.Intake.Today())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if percent {
				fmt.Fprintln(out, a.Renderer.Percent(total))
				return nil
			}
			fmt.Fprintln(out, strings.Join(a.Renderer.Bar(total), "\n"))
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&percent, "percent", "p", false, "show a percentage instead of the bar")
	return cmd
}

func newWeekCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show daily totals for the last week, oldest first",
		Args:  cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, _ []string, a *App) error {
			days, err := a.Agg.Window(cmd.Context(), a.Intake.Today())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(a.Renderer.Weekly(days), "\n"))
			return nil
		}),
	}
}

func newResetCmd(r *runner) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "reset",
		Aliases: []string{"new-day"},
		Short:   "Delete all logged intake and start a new day",
		Args:    cobra.NoArgs,
		RunE: r.run(func(cmd *cobra.Command, _ []string, a *App) error {
			out := cmd.OutOrStdout()
			if !yes && !confirm(cmd.InOrStdin(), out, "Start a new day? All logged intake will be deleted. (y/n): ") {
				fmt.Fprintln(out, "Action canceled.")
				return nil
			}
			if err := a.Intake.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out, "New day started!")
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// confirm prints prompt and reads one line; only "y" or "yes" agree.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, root *cobra.Command) error {
	return root.ExecuteContext(ctx)
}
