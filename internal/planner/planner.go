// Package planner turns a (granularity, from, to) request into the ordered
// sequence of fetch units that cover it, applying the current-period
// fallback rule described in spec.md §4.2. The plan is produced lazily —
// Plan returns a pull-style iterator, never a materialized slice — so an
// enormous range does not balloon memory (spec.md §9, "Plan as a lazy
// iterator").
package planner

import (
	"iter"
	"time"

	"github.com/dl-alexandre/dukascopy-go/internal/common"
)

// Unit is one planned download: a fetch granularity and the period key it
// covers. Hour is only meaningful when FetchGranularity is common.Ticks;
// for bar units the period start is fully described by Key.
type Unit struct {
	FetchGranularity common.Granularity
	Key              time.Time
	Hour             int
}

// Plan returns a lazy, ordered sequence of fetch units covering [from, to).
// now is the wall-clock instant used to decide whether the plan's trailing
// period is still in progress (and must therefore fall back to a finer
// granularity); production callers pass time.Now().UTC(), tests pass a
// fixed instant.
func Plan(g common.Granularity, from, to, now time.Time) iter.Seq[Unit] {
	return func(yield func(Unit) bool) {
		if !from.Before(to) {
			return
		}
		if g == common.Ticks {
			planTicks(from, to, yield)
			return
		}
		planBars(g, from, to, now, yield)
	}
}

func planTicks(from, to time.Time, yield func(Unit) bool) bool {
	cur := floorHour(from)
	for cur.Before(to) {
		if !yield(Unit{FetchGranularity: common.Ticks, Key: floorDay(cur), Hour: cur.Hour()}) {
			return false
		}
		cur = cur.Add(time.Hour)
	}
	return true
}

// planBars emits units for granularity g over [from, to), recursing to a
// finer granularity when the trailing unit's covering period is still in
// progress. The bool return propagates early-stop from yield through the
// recursion so cancellation works across a cascaded fallback.
func planBars(g common.Granularity, from, to, now time.Time, yield func(Unit) bool) bool {
	periodStart := floorPeriod(g, from)

	for periodStart.Before(to) {
		periodEnd := addPeriod(g, periodStart)
		isLast := !periodEnd.Before(to)

		if isLast && coversNow(periodStart, periodEnd, now) {
			if g == common.Minute {
				// Finest bar fallback level: ticks are never substituted
				// for a bar plan. Emit the (possibly empty-on-fetch) unit
				// as-is.
				return yield(Unit{FetchGranularity: common.Minute, Key: periodStart})
			}
			return planBars(g.Finer(), periodStart, to, now, yield)
		}

		if !yield(Unit{FetchGranularity: g, Key: periodStart}) {
			return false
		}
		periodStart = periodEnd
	}
	return true
}

func coversNow(periodStart, periodEnd, now time.Time) bool {
	return !now.Before(periodStart) && now.Before(periodEnd)
}

func floorHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)
}

func floorDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func floorMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func floorYear(t time.Time) time.Time {
	return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
}

// floorPeriod aligns t down to the start of the period that fetch
// granularity g aggregates over.
func floorPeriod(g common.Granularity, t time.Time) time.Time {
	switch g {
	case common.Minute:
		return floorDay(t)
	case common.Hour:
		return floorMonth(t)
	case common.Day:
		return floorYear(t)
	default:
		panic("planner: floorPeriod called with non-bar granularity")
	}
}

// addPeriod advances a period start by exactly one period of granularity g.
func addPeriod(g common.Granularity, periodStart time.Time) time.Time {
	switch g {
	case common.Minute:
		return periodStart.AddDate(0, 0, 1)
	case common.Hour:
		return periodStart.AddDate(0, 1, 0)
	case common.Day:
		return periodStart.AddDate(1, 0, 0)
	default:
		panic("planner: addPeriod called with non-bar granularity")
	}
}
