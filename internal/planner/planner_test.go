package planner

import (
	"slices"
	"testing"
	"time"

	"github.com/dl-alexandre/dukascopy-go/internal/common"
)

func date(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func collect(seq func(yield func(Unit) bool)) []Unit {
	var out []Unit
	seq(func(u Unit) bool {
		out = append(out, u)
		return true
	})
	return out
}

func TestPlanEmptyWhenFromNotBeforeTo(t *testing.T) {
	now := date(2024, 1, 10, 0)
	units := collect(Plan(common.Hour, now, now, now))
	if len(units) != 0 {
		t.Fatalf("expected no units for from==to, got %d", len(units))
	}

	units = collect(Plan(common.Hour, now.Add(time.Hour), now, now))
	if len(units) != 0 {
		t.Fatalf("expected no units for from>to, got %d", len(units))
	}
}

func TestPlanTicksOneHourPerUnit(t *testing.T) {
	from := date(2024, 3, 1, 0)
	to := date(2024, 3, 1, 3)
	now := to.Add(24 * time.Hour) // well past, no current-period fallback concern for ticks

	units := collect(Plan(common.Ticks, from, to, now))
	if len(units) != 3 {
		t.Fatalf("expected 3 hourly units, got %d", len(units))
	}
	for i, u := range units {
		if u.FetchGranularity != common.Ticks {
			t.Errorf("unit %d: got granularity %v, want Ticks", i, u.FetchGranularity)
		}
		if u.Hour != i {
			t.Errorf("unit %d: got hour %d, want %d", i, u.Hour, i)
		}
	}
}

func TestPlanDayBarsNoFallbackWhenFullyPast(t *testing.T) {
	from := date(2024, 1, 1, 0)
	to := date(2024, 1, 4, 0)
	now := date(2025, 6, 1, 0) // a later year, so all of 2024 is complete

	// Day bars come in one file per year, so the whole range is one unit.
	units := collect(Plan(common.Day, from, to, now))
	if len(units) != 1 {
		t.Fatalf("expected 1 yearly day unit, got %d", len(units))
	}
	for _, u := range units {
		if u.FetchGranularity != common.Day {
			t.Errorf("expected Day granularity, got %v", u.FetchGranularity)
		}
	}
}

func TestPlanDayBarsFallsBackToHourForCurrentYear(t *testing.T) {
	from := date(2023, 1, 1, 0)
	to := date(2024, 3, 1, 0)
	now := date(2024, 6, 15, 0) // inside 2024, the trailing yearly period

	units := collect(Plan(common.Day, from, to, now))

	// 2023 is one full yearly day unit; 2024 falls back to monthly hour
	// units (Jan, Feb), none of which contains now.
	var dayUnits, hourUnits int
	for _, u := range units {
		switch u.FetchGranularity {
		case common.Day:
			dayUnits++
		case common.Hour:
			hourUnits++
		default:
			t.Errorf("unexpected granularity %v in day-with-fallback plan", u.FetchGranularity)
		}
	}
	if dayUnits != 1 {
		t.Errorf("expected 1 full day unit (2023), got %d", dayUnits)
	}
	if hourUnits == 0 {
		t.Errorf("expected hour fallback units for 2024, got 0")
	}
}

func TestPlanHourBarsFallsBackToMinuteForCurrentMonth(t *testing.T) {
	from := date(2023, 12, 1, 0)
	to := date(2024, 1, 3, 0)
	// now falls inside January 2024 (the trailing monthly period for Hour
	// granularity), so December is one full hour unit and January falls
	// back to daily minute units.
	now := time.Date(2024, 1, 2, 12, 30, 0, 0, time.UTC)

	units := collect(Plan(common.Hour, from, to, now))

	var hourUnits, minuteUnits int
	for _, u := range units {
		switch u.FetchGranularity {
		case common.Hour:
			hourUnits++
		case common.Minute:
			minuteUnits++
		}
	}
	if hourUnits != 1 {
		t.Errorf("expected 1 full hour unit, got %d", hourUnits)
	}
	if minuteUnits == 0 {
		t.Errorf("expected minute fallback units for the current month, got 0")
	}
}

func TestPlanMinuteHasNoFinerFallback(t *testing.T) {
	from := date(2024, 1, 1, 0)
	to := date(2024, 1, 3, 0)
	now := date(2024, 1, 2, 12) // inside the trailing day

	units := collect(Plan(common.Minute, from, to, now))
	for _, u := range units {
		if u.FetchGranularity != common.Minute {
			t.Errorf("expected only Minute units, got %v", u.FetchGranularity)
		}
	}
	if len(units) != 2 {
		t.Fatalf("expected 2 day-keyed minute units, got %d", len(units))
	}
}

func TestPlanStopsEarlyWhenConsumerBreaks(t *testing.T) {
	from := date(2024, 1, 1, 0)
	to := date(2024, 1, 1, 10)
	now := to.Add(time.Hour)

	var seen []Unit
	Plan(common.Ticks, from, to, now)(func(u Unit) bool {
		seen = append(seen, u)
		return len(seen) < 3
	})

	if len(seen) != 3 {
		t.Fatalf("expected iteration to stop at 3 units, got %d", len(seen))
	}
}

func TestPlanIsOrdered(t *testing.T) {
	from := date(2024, 1, 1, 0)
	to := date(2024, 1, 5, 0)
	now := to.Add(24 * time.Hour)

	units := collect(Plan(common.Day, from, to, now))
	keys := make([]time.Time, len(units))
	for i, u := range units {
		keys[i] = u.Key
	}
	if !slices.IsSortedFunc(keys, func(a, b time.Time) int {
		if a.Before(b) {
			return -1
		}
		if a.After(b) {
			return 1
		}
		return 0
	}) {
		t.Errorf("plan units are not chronologically ordered: %v", keys)
	}
}
