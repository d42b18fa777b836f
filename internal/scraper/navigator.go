package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/slotwatch/internal/browser"
	"github.com/pfrederiksen/slotwatch/internal/logger"
	"github.com/pfrederiksen/slotwatch/internal/target"
)

// Navigator moves the reservation calendar to a target date.
type Navigator struct {
	session browser.Session
	sel     Selectors
	timing  Timing
	pace    pacer
	log     *logger.Logger
}

// DisplayedMonth reads the year and month in the calendar heading.
func (n *Navigator) DisplayedMonth(ctx context.Context) (int, time.Month, error) {
	text, err := n.session.InnerText(ctx, n.sel.CalendarTitle)
	if err != nil {
		return 0, 0, &NavigationError{Step: "read calendar title", Err: err}
	}
	return parseCalendarTitle(text)
}

// EnsureDateVisible advances the calendar by one month when d is not in the
// month on display. It never pages backward and never more than once.
func (n *Navigator) EnsureDateVisible(ctx context.Context, d target.Date) error {
	year, month, err := n.DisplayedMonth(ctx)
	if err != nil {
		return err
	}
	if d.InMonth(year, month) {
		return nil
	}

	n.log.Debug("advancing calendar", logger.Fields{
		"displayed": fmt.Sprintf("%04d-%02d", year, month),
		"target":    d.Display(),
	})
	if err := n.session.Click(ctx, n.sel.NextMonth); err != nil {
		return &NavigationError{Step: "show next month", Err: err}
	}
	logger.IncrCounter("calendar.next_month")

	return n.pace.settle(ctx, "show next month", n.timing.Settle, func(ctx context.Context) (bool, error) {
		if c, err := n.session.Count(ctx, n.sel.CalendarTitle); err != nil || c == 0 {
			return false, err
		}
		y, m, err := n.DisplayedMonth(ctx)
		if err != nil {
			// heading mid re-render
			return false, nil
		}
		return d.InMonth(y, m), nil
	})
}

// SelectDate clicks the calendar cell for d and waits for the slot grid.
func (n *Navigator) SelectDate(ctx context.Context, d target.Date) error {
	link := fmt.Sprintf(n.sel.DayLink, d.ShortForm())
	if err := n.session.Click(ctx, link); err != nil {
		return &NavigationError{Step: "select date " + d.Display(), Err: err}
	}
	return n.pace.settle(ctx, "select date", n.timing.Settle, nil)
}
