package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pfrederiksen/slotwatch/internal/config"
	"github.com/pfrederiksen/slotwatch/internal/logger"
	"github.com/pfrederiksen/slotwatch/internal/report"
	"github.com/pfrederiksen/slotwatch/internal/target"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitAvailable = 2
)

// exitCode carries a non-error exit status out of RunE.
type exitCode int

func (c exitCode) Error() string { return fmt.Sprintf("exit status %d", int(c)) }

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var (
		opts       Options
		configPath string
		format     string
		weekday    target.WeekdaySpec
	)

	cmd := &cobra.Command{
		Use:   "slotwatch",
		Short: "Check Kawaguchi city sports centres for open gym slots",
		Long: `Checks the municipal facility reservation site for open gym slots on the
next target weekday and reports which sports centres have one.

The report is printed to stdout and, when configured, posted to Slack,
Telegram, Twitter/X and MQTT.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			opts.Format = f
			if weekday.Valid() {
				opts.Weekday = &weekday
			}
			opts.HeadlessSet = cmd.Flags().Changed("headless")

			cfg, err := config.Load(configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}

			level, err := logger.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			if opts.Verbose {
				level = logger.LevelDebug
			}
			if opts.Verbose || !headless(cfg, opts) {
				logger.SetDefault(logger.NewConsole(level, cmd.ErrOrStderr()))
			} else {
				logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))
			}

			r := NewRunner()
			r.Stdout = cmd.OutOrStdout()
			r.Stderr = cmd.ErrOrStderr()
			r.Stdin = cmd.InOrStdin()

			code, err := r.Run(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}
			if code != ExitSuccess {
				return exitCode(code)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath, "Path to the YAML config file")
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Slack webhook URL (or env: SLACK_WEBHOOK_URL)")
	cmd.Flags().BoolVar(&opts.Headless, "headless", false, "Run Chrome without a window (forced when GITHUB_ACTIONS=true)")
	cmd.Flags().Var(&weekday, "weekday", "Target weekday for the primary facility: sat, sun, wed or 0-6 (Monday=0)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print notifications instead of sending them")
	cmd.Flags().BoolVar(&opts.Verbose, "verbose", false, "Enable verbose logging")
	cmd.Flags().BoolVar(&opts.ExitStatus, "exit-status", false, "Exit with status 2 when any facility is available")
	cmd.Flags().StringVar(&opts.ChromePath, "chrome-path", "", "Chrome executable (or env: CHROME_PATH)")

	return cmd
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	if code, ok := err.(exitCode); ok {
		os.Exit(int(code))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
