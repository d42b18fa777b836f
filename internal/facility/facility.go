package facility

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pfrederiksen/slotwatch/internal/target"
)

// Variant selects the detection procedure used for a facility.
type Variant string

const (
	Primary   Variant = "primary"
	Secondary Variant = "secondary"
)

// Facility is one bookable venue tracked by the scan
type Facility struct {
	Name    string             `json:"name" yaml:"name"`
	Variant Variant            `json:"variant" yaml:"variant"`
	Ordinal int                `json:"ordinal,omitempty" yaml:"ordinal,omitempty"` // Primary only; -1 picks the last match
	Weekday target.WeekdaySpec `json:"-" yaml:"-"`                                 // Primary only
}

// NewPrimary creates the anchoring facility.
func NewPrimary(name string, ordinal int, weekday target.WeekdaySpec) Facility {
	return Facility{
		Name:    name,
		Variant: Primary,
		Ordinal: ordinal,
		Weekday: weekday,
	}
}

// NewSecondary creates a facility checked through the facility dropdown.
func NewSecondary(name string) Facility {
	return Facility{Name: name, Variant: Secondary}
}

// Defaults returns the roster of Kawaguchi city sports centres checked when no
// configuration overrides it. 芝スポーツセンター is listed twice on the search
// results page, so its second reservation button is the one that opens the gym.
func Defaults() []Facility {
	return []Facility{
		NewPrimary("芝スポーツセンター", 1, target.Saturday),
		NewSecondary("体育武道センター"),
		NewSecondary("鳩ヶ谷スポーツセンター"),
		NewSecondary("戸塚スポーツセンター"),
		NewSecondary("西スポーツセンター"),
		NewSecondary("安行スポーツセンター"),
		NewSecondary("東スポーツセンター"),
	}
}

var (
	ErrEmptyRoster       = errors.New("facility roster is empty")
	ErrPrimaryNotFirst   = errors.New("first facility must be the primary facility")
	ErrMultiplePrimaries = errors.New("roster has more than one primary facility")
)

// Validate checks the roster invariants: a non-empty list whose first entry is
// the only Primary facility, with unique non-empty names.
func Validate(roster []Facility) error {
	if len(roster) == 0 {
		return ErrEmptyRoster
	}
	if roster[0].Variant != Primary {
		return ErrPrimaryNotFirst
	}
	if !roster[0].Weekday.Valid() {
		return fmt.Errorf("primary facility %q has no weekday", roster[0].Name)
	}

	seen := make(map[string]bool, len(roster))
	for i, f := range roster {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return fmt.Errorf("facility %d has no name", i)
		}
		if seen[name] {
			return fmt.Errorf("duplicate facility %q", name)
		}
		seen[name] = true

		switch f.Variant {
		case Primary:
			if i != 0 {
				return ErrMultiplePrimaries
			}
		case Secondary:
		default:
			return fmt.Errorf("facility %q has unknown variant %q", name, f.Variant)
		}
	}
	return nil
}
