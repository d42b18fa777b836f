package facility

import (
	"errors"
	"testing"

	"github.com/pfrederiksen/slotwatch/internal/target"
)

func TestDefaults(t *testing.T) {
	roster := Defaults()
	if err := Validate(roster); err != nil {
		t.Fatalf("Validate(Defaults()) error = %v", err)
	}

	want := []string{
		"芝スポーツセンター",
		"体育武道センター",
		"鳩ヶ谷スポーツセンター",
		"戸塚スポーツセンター",
		"西スポーツセンター",
		"安行スポーツセンター",
		"東スポーツセンター",
	}
	if len(roster) != len(want) {
		t.Fatalf("Defaults() has %d facilities, want %d", len(roster), len(want))
	}
	for i, name := range want {
		if roster[i].Name != name {
			t.Errorf("Defaults()[%d] = %q, want %q", i, roster[i].Name, name)
		}
	}
	if roster[0].Weekday != target.Saturday {
		t.Errorf("primary weekday = %s, want sat", roster[0].Weekday)
	}
}

func TestValidate(t *testing.T) {
	primary := NewPrimary("A", 0, target.Sunday)

	tests := []struct {
		name    string
		roster  []Facility
		wantErr error
		anyErr  bool
	}{
		{name: "valid", roster: []Facility{primary, NewSecondary("B")}},
		{name: "primary only", roster: []Facility{primary}},
		{name: "empty", roster: nil, wantErr: ErrEmptyRoster},
		{name: "secondary first", roster: []Facility{NewSecondary("B"), primary}, wantErr: ErrPrimaryNotFirst},
		{name: "two primaries", roster: []Facility{primary, NewPrimary("C", 0, target.Sunday)}, wantErr: ErrMultiplePrimaries},
		{name: "duplicate name", roster: []Facility{primary, NewSecondary("A")}, anyErr: true},
		{name: "blank name", roster: []Facility{primary, NewSecondary("  ")}, anyErr: true},
		{name: "unknown variant", roster: []Facility{primary, {Name: "X", Variant: "tertiary"}}, anyErr: true},
		{name: "primary without weekday", roster: []Facility{{Name: "A", Variant: Primary}}, anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.roster)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
				}
			case tt.anyErr:
				if err == nil {
					t.Error("Validate() expected error, got nil")
				}
			default:
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			}
		})
	}
}
