package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/slotwatch/internal/browser"
	"github.com/pfrederiksen/slotwatch/internal/config"
	"github.com/pfrederiksen/slotwatch/internal/logger"
	"github.com/pfrederiksen/slotwatch/internal/notifier"
	"github.com/pfrederiksen/slotwatch/internal/report"
	"github.com/pfrederiksen/slotwatch/internal/scraper"
	"github.com/pfrederiksen/slotwatch/internal/target"
)

// Options are the per-run settings given on the command line.
type Options struct {
	WebhookURL  string
	Headless    bool
	HeadlessSet bool
	Weekday     *target.WeekdaySpec
	Format      report.OutputFormat
	DryRun      bool
	Verbose     bool
	ExitStatus  bool
	ChromePath  string
}

// Launcher starts a browser session.
type Launcher func(ctx context.Context, opts browser.Options) (browser.Session, error)

// Runner performs one scan. Its fields are replaced in tests.
type Runner struct {
	Launch    Launcher
	Notifiers func(cfg *config.Config, opts Options, out io.Writer) ([]notifier.Notifier, func())
	Now       func() time.Time
	NewID     func() string
	Stdout    io.Writer
	Stderr    io.Writer
	Stdin     io.Reader
	Log       *logger.Logger
}

// NewRunner returns a Runner that drives a real Chrome.
func NewRunner() *Runner {
	return &Runner{
		Launch: func(ctx context.Context, opts browser.Options) (browser.Session, error) {
			return browser.Launch(ctx, opts)
		},
		Notifiers: buildNotifiers,
		Now:       time.Now,
		NewID:     uuid.NewString,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Stdin:     os.Stdin,
	}
}

// headless reports whether Chrome runs without a window. CI always does.
func headless(cfg *config.Config, opts Options) bool {
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}
	if opts.HeadlessSet {
		return opts.Headless
	}
	return cfg.Headless
}

// Run scans every configured facility and reports the result. The returned
// code is ExitAvailable only when opts.ExitStatus is set and a slot is open.
// Notification failures are logged and do not affect the outcome.
func (r *Runner) Run(ctx context.Context, cfg *config.Config, opts Options) (int, error) {
	roster, err := cfg.Roster()
	if err != nil {
		return ExitError, fmt.Errorf("facilities: %w", err)
	}
	if opts.Weekday != nil {
		roster[0].Weekday = *opts.Weekday
	}
	if opts.Format == "" {
		opts.Format = report.FormatText
	}

	scanID := r.NewID()
	base := r.Log
	if base == nil {
		base = logger.Default()
	}
	log := base.With(logger.Fields{"scan_id": scanID})

	chromePath := cfg.ChromePath
	if opts.ChromePath != "" {
		chromePath = opts.ChromePath
	}
	hl := headless(cfg, opts)

	log.Info("starting scan", logger.Fields{
		"facilities": len(roster),
		"weekday":    roster[0].Weekday.String(),
		"headless":   hl,
	})

	session, err := r.Launch(ctx, browser.Options{
		Headless: hl,
		ExecPath: chromePath,
		Frame:    cfg.Frame,
		Timeout:  cfg.Site.Timing.ElementTimeout,
	})
	if err != nil {
		log.Error("browser launch failed", nil, err)
		return ExitError, fmt.Errorf("launching browser: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn("closing browser", logger.Fields{"error": err.Error()})
		}
	}()

	scan, err := scraper.New(session, cfg.Site,
		scraper.WithClock(r.Now),
		scraper.WithLogger(log),
	).Scan(ctx, roster)
	if err != nil {
		log.Error("scan failed", nil, err)
		return ExitError, fmt.Errorf("scan: %w", err)
	}

	msg := report.Format(scan.Result, scan.Date, r.Now())
	msg.ScanID = scanID
	if err := report.Write(r.Stdout, msg, opts.Format); err != nil {
		return ExitError, fmt.Errorf("writing output: %w", err)
	}

	available := len(msg.AvailableNames())
	logger.SetGauge("scan.available", float64(available))
	log.Info("scan finished", logger.Fields{
		"date":      scan.Date.Display(),
		"available": available,
	})

	notifiers, closeAll := r.Notifiers(cfg, opts, r.Stderr)
	if err := notifier.Dispatch(ctx, notifiers, msg, log); err != nil {
		log.Warn("some notifications were not delivered", logger.Fields{"error": err.Error()})
	}
	if closeAll != nil {
		closeAll()
	}
	logger.DefaultMetrics().Log(log)

	if !hl {
		r.pause()
	}

	if opts.ExitStatus && msg.AnyAvailable {
		return ExitAvailable, nil
	}
	return ExitSuccess, nil
}

// pause keeps the browser window open until the operator presses Enter.
func (r *Runner) pause() {
	fmt.Fprint(r.Stderr, "Press Enter to continue...")
	bufio.NewReader(r.Stdin).ReadString('\n') // nolint:errcheck
}
