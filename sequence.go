package dukascopy

import (
	"iter"
	"time"

	"github.com/dl-alexandre/dukascopy-go/internal/cache"
	"github.com/dl-alexandre/dukascopy-go/internal/model"
)

// TickRecord is a single bid/ask quote update. See internal/model for the
// field-level contract; it is re-exported here unchanged so callers never
// need to import an internal package.
type TickRecord = model.TickRecord

// BarRecord is an OHLCV summary over one fixed interval.
type BarRecord = model.BarRecord

// Record is the tagged union All yields: exactly one of Tick or Bar is
// non-nil, matching the request's granularity.
type Record = model.Record

// Sequence is the lazy, ordered, single-pass output of Stream. Consumers
// pull with All (or Ticks/Bars for a typed view); stopping early (breaking
// out of a range loop) cancels outstanding network requests best-effort
// and the orchestrator stops launching new ones.
type Sequence struct {
	from, to time.Time
	records  iter.Seq2[model.Record, error]
	cache    *cache.Cache
}

// Close releases resources Stream opened on the caller's behalf — the
// cache's SQLite index handle, when UseCache was set. It is safe to call
// on a Sequence with no cache (a no-op) and safe to call more than once.
// Callers that enable caching should defer Close() right after Stream
// returns.
func (s *Sequence) Close() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Close()
}

// All ranges over every record the request's [from, to) implies, in
// chronological order, already filtered to the half-open range (spec.md
// §4.7). A non-nil error terminates iteration; per-unit errors are
// *UnitError when HaltOnError is true.
func (s *Sequence) All() iter.Seq2[model.Record, error] {
	return func(yield func(model.Record, error) bool) {
		for rec, err := range s.records {
			if err != nil {
				yield(rec, err)
				return
			}
			if rec.HasTime() {
				t := rec.Time()
				if t.Before(s.from) || !t.Before(s.to) {
					continue
				}
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Ticks is a convenience view over All for tick requests: it yields only
// the Tick half of each Record, skipping anything else (there is nothing
// else for a ticks granularity request today).
func (s *Sequence) Ticks() iter.Seq2[TickRecord, error] {
	return func(yield func(TickRecord, error) bool) {
		for rec, err := range s.All() {
			if err != nil {
				yield(TickRecord{}, err)
				return
			}
			if rec.Tick == nil {
				continue
			}
			if !yield(*rec.Tick, nil) {
				return
			}
		}
	}
}

// Bars is the bar-granularity counterpart to Ticks.
func (s *Sequence) Bars() iter.Seq2[BarRecord, error] {
	return func(yield func(BarRecord, error) bool) {
		for rec, err := range s.All() {
			if err != nil {
				yield(BarRecord{}, err)
				return
			}
			if rec.Bar == nil {
				continue
			}
			if !yield(*rec.Bar, nil) {
				return
			}
		}
	}
}
