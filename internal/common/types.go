// Package common holds the small value types shared across the pipeline
// stages (URL builder, planner, fetcher, decoders, orchestrator) so each of
// them can be developed and tested independently without importing each
// other.
package common

import "fmt"

// Granularity is both the caller's requested granularity and, per unit,
// the granularity of the remote file actually fetched. The two can differ
// because of current-period fallback (see internal/planner) — that
// divergence is deliberate and propagated all the way to the decoders.
type Granularity int

const (
	Ticks Granularity = iota
	Minute
	Hour
	Day
)

func (g Granularity) String() string {
	switch g {
	case Ticks:
		return "ticks"
	case Minute:
		return "minute"
	case Hour:
		return "hour"
	case Day:
		return "day"
	default:
		return fmt.Sprintf("Granularity(%d)", int(g))
	}
}

// ParseGranularity validates and normalizes a caller-supplied granularity
// string. It is the sole entry point for turning untrusted input into a
// Granularity value.
func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "ticks":
		return Ticks, nil
	case "minute":
		return Minute, nil
	case "hour":
		return Hour, nil
	case "day":
		return Day, nil
	default:
		return 0, fmt.Errorf("invalid_granularity: %q", s)
	}
}

// Finer returns the next finer bar granularity used by current-period
// fallback recursion. It panics on Ticks (there is no finer-than-ticks
// level) and on an already-finest bar granularity the caller must check
// for itself (Minute has no finer fallback target).
func (g Granularity) Finer() Granularity {
	switch g {
	case Day:
		return Hour
	case Hour:
		return Minute
	default:
		panic(fmt.Sprintf("common: Granularity(%v) has no finer bar fallback", g))
	}
}

// Side is the requested price side. Ticks always carry both bid and ask;
// bars are fetched per side, and Mid requires two underlying fetches
// averaged (OHLC) or summed (volume) at the decode/orchestration layer.
type Side int

const (
	SideBid Side = iota
	SideAsk
	SideMid
)

func (s Side) String() string {
	switch s {
	case SideBid:
		return "bid"
	case SideAsk:
		return "ask"
	case SideMid:
		return "mid"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// ParseSide validates and normalizes a caller-supplied side string.
func ParseSide(s string) (Side, error) {
	switch s {
	case "bid":
		return SideBid, nil
	case "ask":
		return SideAsk, nil
	case "mid":
		return SideMid, nil
	default:
		return 0, fmt.Errorf("invalid_price_type: %q", s)
	}
}

// URLSide is the Bid/Ask distinction as it appears on the wire — Mid has
// already been split into two URLSide fetches by the time a URL is built.
type URLSide int

const (
	URLSideBid URLSide = iota
	URLSideAsk
)

func (s URLSide) String() string {
	if s == URLSideAsk {
		return "ASK"
	}
	return "BID"
}

// FromSide converts a two-sided request Side to the URL-level side. It
// panics on SideMid, which callers must have already split before reaching
// URL composition.
func FromSide(s Side) URLSide {
	switch s {
	case SideAsk:
		return URLSideAsk
	case SideBid:
		return URLSideBid
	default:
		panic("common: SideMid has no single URLSide; split into bid+ask first")
	}
}
