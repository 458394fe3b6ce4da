// Package model holds the decoded record shapes shared by the decoders,
// the orchestrator, and the public API. It has no dependencies on the rest
// of the pipeline so every other package can depend on it without risk of
// an import cycle.
package model

import "time"

// TickRecord is a single quote update. ask >= bid is not guaranteed by
// source data and must never be asserted by callers.
type TickRecord struct {
	Time      time.Time
	Ask       float64
	Bid       float64
	AskVolume float32
	BidVolume float32
}

// HasTime reports whether the record carries a time field usable by the
// range filter; always true for ticks today, but the range filter treats
// this generically so future record shapes without a time field pass
// through unfiltered rather than panicking.
func (r TickRecord) HasTime() bool    { return true }
func (r TickRecord) RecordTime() time.Time { return r.Time }

// BarRecord is an OHLCV summary over one fixed interval. The decoder
// copies high and low from the file as they are; it does not check
// high >= max(open,close,low) or low <= min(open,close,high).
type BarRecord struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float32
}

func (r BarRecord) HasTime() bool        { return true }
func (r BarRecord) RecordTime() time.Time { return r.Time }

// Record is a tagged union over the two decoded record shapes a stream can
// emit. Exactly one of Tick/Bar is non-nil for any record produced by the
// pipeline today; the shape exists so the range filter and orchestrator can
// handle both kinds generically by time without a third concrete type.
type Record struct {
	Tick *TickRecord
	Bar  *BarRecord
}

// HasTime reports whether the record carries a time field the range filter
// can apply. Both known record kinds always do; an empty Record (neither
// field set) has none and passes the filter through unchanged, per the
// "stable to extension" contract in spec.md §4.7.
func (r Record) HasTime() bool {
	return r.Tick != nil || r.Bar != nil
}

func (r Record) Time() time.Time {
	switch {
	case r.Tick != nil:
		return r.Tick.Time
	case r.Bar != nil:
		return r.Bar.Time
	default:
		return time.Time{}
	}
}
