package target

import (
	"fmt"
	"time"
)

const (
	// ShortLayout is the compact form the reservation calendar uses as a day key.
	ShortLayout = "20060102"
	// DisplayLayout is the form used in notifications.
	DisplayLayout = "2006-01-02"
)

// Date is a calendar day with no time-of-day component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseShortForm parses a YYYYMMDD string.
func ParseShortForm(s string) (Date, error) {
	t, err := time.Parse(ShortLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// ShortForm returns YYYYMMDD.
func (d Date) ShortForm() string {
	return d.Time(time.UTC).Format(ShortLayout)
}

// Display returns YYYY-MM-DD.
func (d Date) Display() string {
	return d.Time(time.UTC).Format(DisplayLayout)
}

func (d Date) String() string {
	return d.Display()
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// InMonth reports whether d falls in the given year and month.
func (d Date) InMonth(year int, month time.Month) bool {
	return d.Year == year && d.Month == month
}

// AddDays returns d shifted by n days, normalizing month and year overflow.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

// MarshalText renders the display form so dates read naturally in JSON output.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.Display()), nil
}

// Resolve returns the next occurrence of spec's weekday after today.
// Today itself is never returned: a match on the same weekday resolves
// to the occurrence one week later.
func Resolve(today time.Time, spec WeekdaySpec) Date {
	base := DateOf(today)
	todayIndex := mondayIndex(today)
	targetIndex := spec.Index()

	if todayIndex == targetIndex {
		return base.AddDays(7)
	}

	days := ((targetIndex-todayIndex)%7 + 7) % 7
	return base.AddDays(days)
}
