package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/slotwatch/internal/browser"
	"github.com/pfrederiksen/slotwatch/internal/facility"
	"github.com/pfrederiksen/slotwatch/internal/logger"
	"github.com/pfrederiksen/slotwatch/internal/target"
)

// Result is the outcome of checking one facility.
type Result struct {
	Available bool
	Slots     int
	// ResolvedDate is set only by the primary check, which fixes the scan's target date.
	ResolvedDate *target.Date
}

// PrimaryDetector opens a facility's reservation calendar from the search
// results and anchors the scan's target date.
type PrimaryDetector struct {
	session browser.Session
	sel     Selectors
	timing  Timing
	markers []string
	nav     *Navigator
	pace    pacer
	now     func() time.Time
	log     *logger.Logger
}

// Check opens the calendar of the ordinal-th listing of name, resolves the
// target date from today and spec, and counts open slots in the gym row.
func (d *PrimaryDetector) Check(ctx context.Context, name string, ordinal int, spec target.WeekdaySpec) (Result, error) {
	if err := d.session.WaitFor(ctx, d.sel.ReserveButton, d.timing.ElementTimeout); err != nil {
		return Result{}, &NavigationError{Step: "find reservation buttons", Err: err}
	}

	page, err := d.session.HTML(ctx)
	if err != nil {
		return Result{}, &NavigationError{Step: "read search results", Err: err}
	}
	idx, err := reserveButtonIndex(strings.NewReader(page), d.sel.ReserveButton, name, ordinal)
	if err != nil {
		return Result{}, &NavigationError{Step: "locate reservation button", Err: err}
	}
	if err := d.session.ClickNth(ctx, d.sel.ReserveButton, idx); err != nil {
		return Result{}, &NavigationError{Step: "open reservation calendar", Err: err}
	}
	if err := d.pace.settle(ctx, "open reservation calendar", d.timing.Settle, d.pace.present(d.sel.CalendarTitle)); err != nil {
		return Result{}, err
	}

	date := target.Resolve(d.now(), spec)
	d.log.Info("target date resolved", logger.Fields{
		"date":    date.Display(),
		"weekday": spec.String(),
	})

	if err := d.nav.EnsureDateVisible(ctx, date); err != nil {
		return Result{}, err
	}
	if err := d.nav.SelectDate(ctx, date); err != nil {
		return Result{}, err
	}

	slots, err := countSlots(ctx, d.session, d.markers, firstRow, d.sel.AvailableSlot)
	if err != nil {
		return Result{}, err
	}
	return Result{Available: slots > 0, Slots: slots, ResolvedDate: &date}, nil
}

// SecondaryDetector switches the facility dropdown on an already open
// calendar, keeping the selected date.
type SecondaryDetector struct {
	session browser.Session
	sel     Selectors
	timing  Timing
	markers []string
	pace    pacer
}

// Check selects name in the facility dropdown and counts open slots in the
// last gym or arena row. A facility with neither row is reported unavailable.
func (d *SecondaryDetector) Check(ctx context.Context, name string) (Result, error) {
	if err := d.session.SelectOption(ctx, d.sel.FacilitySelect, name); err != nil {
		return Result{}, &NavigationError{Step: "select facility " + name, Err: err}
	}
	if err := d.session.Evaluate(ctx, changeScript(d.sel.FacilitySelect), nil); err != nil {
		return Result{}, &NavigationError{Step: "reload facility " + name, Err: err}
	}
	if err := d.pace.settle(ctx, "reload facility", d.timing.ReloadSettle, nil); err != nil {
		return Result{}, err
	}

	slots, err := countSlots(ctx, d.session, d.markers, lastRow, d.sel.AvailableSlot)
	if err != nil {
		return Result{}, err
	}
	return Result{Available: slots > 0, Slots: slots}, nil
}

// changeScript fires the dropdown's change handler, which reloads the grid.
func changeScript(selector string) string {
	return fmt.Sprintf(`const el = document.querySelector(%q);
if (!el) return false;
el.dispatchEvent(new Event("change"));
return true;`, selector)
}

func countSlots(ctx context.Context, s browser.Session, markers []string, pick rowPick, slotSel string) (int, error) {
	page, err := s.HTML(ctx)
	if err != nil {
		return 0, &NavigationError{Step: "read slot grid", Err: err}
	}
	n, found, err := rowSlots(strings.NewReader(page), markers, pick, slotSel)
	if err != nil {
		return 0, &NavigationError{Step: "parse slot grid", Err: err}
	}
	if !found {
		logger.Debug("no gym row on page", logger.Fields{"markers": markers})
	}
	return n, nil
}

// check dispatches on the facility variant.
func (s *Scraper) check(ctx context.Context, f facility.Facility) (Result, error) {
	switch f.Variant {
	case facility.Primary:
		return s.primary.Check(ctx, f.Name, f.Ordinal, f.Weekday)
	case facility.Secondary:
		return s.secondary.Check(ctx, f.Name)
	default:
		return Result{}, fmt.Errorf("facility %q has unknown variant %q", f.Name, f.Variant)
	}
}
