package scraper

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pfrederiksen/slotwatch/internal/browser"
	"github.com/pfrederiksen/slotwatch/internal/logger"
)

// readiness reports whether the page has reached the state the next step needs.
type readiness func(ctx context.Context) (bool, error)

var errNotReady = errors.New("page not ready")

// pacer waits for the page to settle after state-changing actions.
type pacer struct {
	session browser.Session
	timing  Timing
	log     *logger.Logger
}

// settle polls ready until it holds, for at most limit. Without a readiness
// condition the full limit is slept. A condition that never holds is not an
// error: the next step's own element wait decides whether the scan continues.
func (p pacer) settle(ctx context.Context, step string, limit time.Duration, ready readiness) error {
	if ready == nil || p.timing.PollInterval <= 0 {
		return p.session.Sleep(ctx, limit)
	}

	tries := uint64(limit / p.timing.PollInterval)
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(p.timing.PollInterval), tries), ctx)

	start := time.Now()
	err := backoff.Retry(func() error {
		ok, err := ready(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !ok {
			return errNotReady
		}
		return nil
	}, b)
	logger.RecordTiming("scan.settle", time.Since(start))

	if errors.Is(err, errNotReady) {
		p.log.Warn("page did not settle in time", logger.Fields{
			"step":  step,
			"limit": limit.String(),
		})
		return nil
	}
	return err
}

// present is ready once selector matches at least one element.
func (p pacer) present(selector string) readiness {
	return func(ctx context.Context) (bool, error) {
		n, err := p.session.Count(ctx, selector)
		return n > 0, err
	}
}
