package target

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 30, 0, 0, time.Local)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		today time.Time
		spec  WeekdaySpec
		want  string
	}{
		{
			name:  "Monday to Saturday",
			today: day(2026, time.October, 19),
			spec:  Saturday,
			want:  "20261024",
		},
		{
			name:  "Saturday to Saturday skips today",
			today: day(2026, time.October, 24),
			spec:  Saturday,
			want:  "20261031",
		},
		{
			name:  "Saturday to Wednesday wraps the week",
			today: day(2026, time.October, 24),
			spec:  Wednesday,
			want:  "20261028",
		},
		{
			name:  "Monday to Sunday crosses month",
			today: day(2026, time.October, 26),
			spec:  Sunday,
			want:  "20261101",
		},
		{
			name:  "Monday to Saturday crosses year",
			today: day(2026, time.December, 28),
			spec:  Saturday,
			want:  "20270102",
		},
		{
			name:  "Leap day",
			today: day(2024, time.February, 26),
			spec:  mustExplicit(t, 3),
			want:  "20240229",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.today, tt.spec)
			if got.ShortForm() != tt.want {
				t.Errorf("Resolve(%s, %s) = %s, want %s", tt.today.Format("2006-01-02"), tt.spec, got.ShortForm(), tt.want)
			}
		})
	}
}

func TestResolve_AlwaysFutureAndOnWeekday(t *testing.T) {
	start := day(2026, time.January, 1)
	for offset := 0; offset < 400; offset++ {
		today := start.AddDate(0, 0, offset)
		for idx := 0; idx <= 6; idx++ {
			spec := mustExplicit(t, idx)
			got := Resolve(today, spec)

			diff := int(got.Time(time.UTC).Sub(DateOf(today).Time(time.UTC)).Hours() / 24)
			if diff < 1 || diff > 7 {
				t.Fatalf("Resolve(%s, %d) = %s, %d days ahead, want 1-7", today.Format("2006-01-02"), idx, got, diff)
			}
			if got.Time(time.UTC).Weekday() != spec.Weekday() {
				t.Fatalf("Resolve(%s, %d) = %s on %s, want %s", today.Format("2006-01-02"), idx, got, got.Time(time.UTC).Weekday(), spec.Weekday())
			}
			if mondayIndex(today) == idx && diff != 7 {
				t.Fatalf("Resolve(%s, %d) = %s, want exactly one week ahead", today.Format("2006-01-02"), idx, got)
			}
		}
	}
}

func TestDateForms(t *testing.T) {
	d := Date{Year: 2026, Month: time.March, Day: 7}
	if got := d.ShortForm(); got != "20260307" {
		t.Errorf("ShortForm() = %q, want %q", got, "20260307")
	}
	if got := d.Display(); got != "2026-03-07" {
		t.Errorf("Display() = %q, want %q", got, "2026-03-07")
	}

	parsed, err := ParseShortForm("20260307")
	if err != nil {
		t.Fatalf("ParseShortForm() error = %v", err)
	}
	if parsed != d {
		t.Errorf("ParseShortForm() = %+v, want %+v", parsed, d)
	}

	if _, err := ParseShortForm("2026-03-07"); err == nil {
		t.Error("ParseShortForm() expected error for display form")
	}
}

func TestDate_InMonth(t *testing.T) {
	d := Date{Year: 2026, Month: time.November, Day: 1}
	if !d.InMonth(2026, time.November) {
		t.Error("InMonth(2026, November) = false, want true")
	}
	if d.InMonth(2026, time.October) {
		t.Error("InMonth(2026, October) = true, want false")
	}
	if d.InMonth(2025, time.November) {
		t.Error("InMonth(2025, November) = true, want false")
	}
}

func mustExplicit(t *testing.T, idx int) WeekdaySpec {
	t.Helper()
	spec, err := Explicit(idx)
	if err != nil {
		t.Fatalf("Explicit(%d) error = %v", idx, err)
	}
	return spec
}
