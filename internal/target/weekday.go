package target

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type specKind int

const (
	kindSaturday specKind = iota + 1
	kindSunday
	kindWednesday
	kindExplicit
)

// WeekdaySpec specifies the weekday a scan targets.
// The zero value is not valid; use one of the named values or Explicit.
type WeekdaySpec struct {
	kind  specKind
	index int
}

var (
	Saturday  = WeekdaySpec{kind: kindSaturday}
	Sunday    = WeekdaySpec{kind: kindSunday}
	Wednesday = WeekdaySpec{kind: kindWednesday}
)

// Explicit returns a WeekdaySpec for a Monday=0 weekday index.
func Explicit(index int) (WeekdaySpec, error) {
	if index < 0 || index > 6 {
		return WeekdaySpec{}, fmt.Errorf("weekday index %d out of range [0,6]", index)
	}
	return WeekdaySpec{kind: kindExplicit, index: index}, nil
}

// ParseWeekdaySpec parses "sat", "sun", "wed" or a numeric index 0-6.
func ParseWeekdaySpec(s string) (WeekdaySpec, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sat", "saturday":
		return Saturday, nil
	case "sun", "sunday":
		return Sunday, nil
	case "wed", "wednesday":
		return Wednesday, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return WeekdaySpec{}, fmt.Errorf("invalid weekday %q (want sat, sun, wed or 0-6)", s)
	}
	return Explicit(n)
}

// Index returns the Monday=0 weekday index.
func (w WeekdaySpec) Index() int {
	switch w.kind {
	case kindSaturday:
		return 5
	case kindSunday:
		return 6
	case kindWednesday:
		return 2
	default:
		return w.index
	}
}

// Valid reports whether w was built by this package.
func (w WeekdaySpec) Valid() bool {
	return w.kind != 0
}

// Weekday converts w to a time.Weekday.
func (w WeekdaySpec) Weekday() time.Weekday {
	return time.Weekday((w.Index() + 1) % 7)
}

func (w WeekdaySpec) String() string {
	switch w.kind {
	case kindSaturday:
		return "sat"
	case kindSunday:
		return "sun"
	case kindWednesday:
		return "wed"
	case kindExplicit:
		return strconv.Itoa(w.index)
	default:
		return ""
	}
}

// Set implements the flag value interface used by cobra.
func (w *WeekdaySpec) Set(s string) error {
	spec, err := ParseWeekdaySpec(s)
	if err != nil {
		return err
	}
	*w = spec
	return nil
}

// Type implements the flag value interface used by cobra.
func (w *WeekdaySpec) Type() string {
	return "weekday"
}

// mondayIndex maps a time to its Monday=0 weekday index.
func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// MarshalText renders w in the form ParseWeekdaySpec accepts.
func (w WeekdaySpec) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("invalid weekday spec")
	}
	return []byte(w.String()), nil
}

// UnmarshalText lets config files spell weekdays the same way as flags.
func (w *WeekdaySpec) UnmarshalText(text []byte) error {
	return w.Set(string(text))
}
