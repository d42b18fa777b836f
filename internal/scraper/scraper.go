package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/slotwatch/internal/browser"
	"github.com/pfrederiksen/slotwatch/internal/facility"
	"github.com/pfrederiksen/slotwatch/internal/logger"
	"github.com/pfrederiksen/slotwatch/internal/target"
)

// Scraper runs availability scans over a browser session.
type Scraper struct {
	session   browser.Session
	cfg       Config
	log       *logger.Logger
	now       func() time.Time
	primary   *PrimaryDetector
	secondary *SecondaryDetector
}

// Option customises a Scraper.
type Option func(*Scraper)

// WithClock sets the source of "today" used to resolve the target date.
func WithClock(now func() time.Time) Option {
	return func(s *Scraper) { s.now = now }
}

// WithLogger sets the logger for scan progress.
func WithLogger(l *logger.Logger) Option {
	return func(s *Scraper) { s.log = l }
}

// New creates a Scraper driving session against the site described by cfg.
func New(session browser.Session, cfg Config, opts ...Option) *Scraper {
	s := &Scraper{
		session: session,
		cfg:     cfg,
		log:     logger.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	pace := pacer{session: session, timing: cfg.Timing, log: s.log}
	nav := &Navigator{session: session, sel: cfg.Selectors, timing: cfg.Timing, pace: pace, log: s.log}
	s.primary = &PrimaryDetector{
		session: session,
		sel:     cfg.Selectors,
		timing:  cfg.Timing,
		markers: cfg.PrimaryMarkers,
		nav:     nav,
		pace:    pace,
		now:     func() time.Time { return s.now() },
		log:     s.log,
	}
	s.secondary = &SecondaryDetector{
		session: session,
		sel:     cfg.Selectors,
		timing:  cfg.Timing,
		markers: cfg.SecondaryMarkers,
		pace:    pace,
	}
	return s
}

// Scan is the outcome of one pass over a roster.
type Scan struct {
	Result *facility.ScanResult
	Date   target.Date
}

// Scan opens the facility search and checks every facility of roster in
// order. The first failure aborts the scan; no partial result is returned.
func (s *Scraper) Scan(ctx context.Context, roster []facility.Facility) (*Scan, error) {
	if err := facility.Validate(roster); err != nil {
		return nil, fmt.Errorf("invalid roster: %w", err)
	}

	start := time.Now()
	if err := s.openSearchResults(ctx); err != nil {
		return nil, err
	}

	result := facility.NewScanResult()
	var date target.Date
	for _, f := range roster {
		checked := time.Now()
		res, err := s.check(ctx, f)
		if err != nil {
			logger.IncrCounter("scan.failed")
			return nil, fmt.Errorf("checking %s: %w", f.Name, err)
		}
		logger.RecordTiming("scan.facility", time.Since(checked))

		if res.ResolvedDate != nil {
			date = *res.ResolvedDate
		}
		if err := result.Record(f.Name, res.Available); err != nil {
			return nil, err
		}
		s.log.Info("facility checked", logger.Fields{
			"facility":  f.Name,
			"variant":   string(f.Variant),
			"available": res.Available,
			"slots":     res.Slots,
		})
	}
	result.Seal()

	logger.RecordTiming("scan.total", time.Since(start))
	logger.IncrCounter("scan.completed")
	return &Scan{Result: result, Date: date}, nil
}

// openSearchResults lists all facilities in the gym category.
func (s *Scraper) openSearchResults(ctx context.Context) error {
	sel := s.cfg.Selectors
	timeout := s.cfg.Timing.ElementTimeout

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"open site", func(ctx context.Context) error {
			return s.session.Navigate(ctx, s.cfg.URL)
		}},
		{"open category filter", func(ctx context.Context) error {
			if err := s.session.WaitFor(ctx, sel.CategoryButton, timeout); err != nil {
				return err
			}
			return s.session.Click(ctx, sel.CategoryButton)
		}},
		{"tick sports category", func(ctx context.Context) error {
			if err := s.session.WaitFor(ctx, sel.CategoryCheckbox, timeout); err != nil {
				return err
			}
			if err := s.session.Check(ctx, sel.CategoryCheckbox); err != nil {
				return err
			}
			return s.session.Sleep(ctx, s.cfg.Timing.PreSearch)
		}},
		{"search all locations", func(ctx context.Context) error {
			if err := s.session.WaitFor(ctx, sel.SearchButton, timeout); err != nil {
				return err
			}
			return s.session.Click(ctx, sel.SearchButton)
		}},
	}

	for _, step := range steps {
		s.log.Debug("scan step", logger.Fields{"step": step.name})
		if err := step.run(ctx); err != nil {
			return &NavigationError{Step: step.name, Err: err}
		}
	}
	return nil
}
