package dukascopy

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dl-alexandre/dukascopy-go/internal/catalog"
	"github.com/dl-alexandre/dukascopy-go/internal/common"
)

// DateRange is the inclusive alternative to From/To: [First, Last] lifts to
// the half-open range [First at 00:00 UTC, (Last+1 day) at 00:00 UTC).
type DateRange struct {
	First time.Time
	Last  time.Time
}

// RetryDelay is the caller-supplied attempt -> delay policy, for callers
// that need something other than the default exponential backoff or a
// fixed interval.
type RetryDelay func(attempt int) time.Duration

// Request describes one stream() call, per spec.md §3.
type Request struct {
	Instrument  string
	Granularity string // "ticks" | "minute" | "hour" | "day"

	// Exactly one of (From, To) or DateRange must be set.
	From, To  time.Time
	DateRange *DateRange

	Side string // "bid" | "ask" | "mid"; defaults to "bid"

	BatchSize    int // defaults to 10
	BatchPauseMs int // defaults to 0
	MaxRetries   int // defaults to 3

	// RetryDelayMs, if non-zero, is a fixed per-attempt delay. RetryDelayFn,
	// if set, takes precedence and may implement any non-exponential
	// policy. Neither set means the default 200*2^attempt policy.
	RetryDelayMs int
	RetryDelayFn RetryDelay

	RetryOnEmpty     bool
	FailAfterRetries bool

	UseCache      bool
	CacheDir      string
	CacheMemLimit string // human byte budget for the in-process cache tier, e.g. "256MB"

	HaltOnError bool // defaults to false
}

// normalizedRequest is the validated, defaulted, range-resolved form of a
// Request, plus the resolved catalog descriptor. It is what the rest of
// the pipeline is built from.
type normalizedRequest struct {
	Descriptor       catalog.Descriptor
	Granularity      common.Granularity
	From, To         time.Time
	Side             common.Side
	BatchSize        int
	BatchPauseMs     int
	MaxRetries       int
	RetryDelay       RetryDelay
	RetryOnEmpty     bool
	FailAfterRetries bool
	UseCache         bool
	CacheDir         string
	CacheMemLimit    string
	HaltOnError      bool
}

type enumCheck struct {
	Granularity string `validate:"required,oneof=ticks minute hour day"`
	Side        string `validate:"omitempty,oneof=bid ask mid"`
}

var validate = validator.New()

// normalize validates req and fills in defaults, per spec.md §4.8. It
// performs no I/O beyond the catalog lookup (an in-memory map).
func normalize(req Request) (normalizedRequest, error) {
	var out normalizedRequest

	descriptor, ok := catalog.Lookup(req.Instrument)
	if !ok {
		return out, fmt.Errorf("%w: %q", ErrUnknownInstrument, req.Instrument)
	}
	out.Descriptor = descriptor

	side := req.Side
	if side == "" {
		side = "bid"
	}

	check := enumCheck{Granularity: req.Granularity, Side: side}
	if err := validate.Struct(check); err != nil {
		return out, translateValidationError(err)
	}

	g, err := common.ParseGranularity(req.Granularity)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidGranularity, err)
	}
	out.Granularity = g

	s, err := common.ParseSide(side)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidPriceType, err)
	}
	out.Side = s

	from, to, err := resolveRange(req)
	if err != nil {
		return out, err
	}
	out.From, out.To = from, to

	batchSize := req.BatchSize
	if batchSize == 0 {
		batchSize = 10
	}
	if batchSize < 1 {
		return out, fmt.Errorf("%w: batch_size must be positive, got %d", ErrInvalidPositiveInteger, batchSize)
	}
	out.BatchSize = batchSize

	if req.BatchPauseMs < 0 {
		return out, fmt.Errorf("%w: batch_pause_ms must be non-negative, got %d", ErrInvalidNonNegativeInteger, req.BatchPauseMs)
	}
	out.BatchPauseMs = req.BatchPauseMs

	maxRetries := req.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}
	if maxRetries < 0 {
		return out, fmt.Errorf("%w: max_retries must be non-negative, got %d", ErrInvalidNonNegativeInteger, req.MaxRetries)
	}
	out.MaxRetries = maxRetries

	delay, err := resolveRetryDelay(req)
	if err != nil {
		return out, err
	}
	out.RetryDelay = delay

	out.RetryOnEmpty = req.RetryOnEmpty
	out.FailAfterRetries = req.FailAfterRetries
	out.UseCache = req.UseCache
	out.CacheDir = req.CacheDir
	out.CacheMemLimit = req.CacheMemLimit

	out.HaltOnError = req.HaltOnError

	return out, nil
}

func resolveRange(req Request) (time.Time, time.Time, error) {
	hasFromTo := !req.From.IsZero() || !req.To.IsZero()
	hasDateRange := req.DateRange != nil

	switch {
	case hasFromTo && hasDateRange:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: specify either From/To or DateRange, not both", ErrInvalidDateRange)
	case !hasFromTo && !hasDateRange:
		return time.Time{}, time.Time{}, fmt.Errorf("%w", ErrMissingDateRange)
	case hasDateRange:
		first := liftToMidnightUTC(req.DateRange.First)
		last := liftToMidnightUTC(req.DateRange.Last).AddDate(0, 0, 1)
		if !first.Before(last) {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: date_range first must be on or before last", ErrInvalidDateRange)
		}
		return first, last, nil
	default:
		from := liftToMidnightIfBareDate(req.From)
		to := liftToMidnightIfBareDate(req.To)
		return from, to, nil
	}
}

func liftToMidnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// liftToMidnightIfBareDate normalizes a caller-provided instant to UTC. A
// "bare date" in this library means any time.Time without a meaningful
// time-of-day component is taken as-is; times with a time-of-day are
// preserved exactly (the planner, not this function, aligns to period
// boundaries).
func liftToMidnightIfBareDate(t time.Time) time.Time {
	return t.UTC()
}

func resolveRetryDelay(req Request) (RetryDelay, error) {
	switch {
	case req.RetryDelayFn != nil:
		return req.RetryDelayFn, nil
	case req.RetryDelayMs < 0:
		return nil, fmt.Errorf("%w: retry_delay must be non-negative, got %d", ErrInvalidRetryDelay, req.RetryDelayMs)
	case req.RetryDelayMs > 0:
		d := time.Duration(req.RetryDelayMs) * time.Millisecond
		return func(int) time.Duration { return d }, nil
	default:
		return nil, nil // Stream substitutes the pipeline's own default policy.
	}
}

func translateValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidGranularity, err)
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "Granularity":
			return fmt.Errorf("%w: %q", ErrInvalidGranularity, fe.Value())
		case "Side":
			return fmt.Errorf("%w: %q", ErrInvalidPriceType, fe.Value())
		}
	}
	return fmt.Errorf("%w: %v", ErrInvalidGranularity, err)
}
