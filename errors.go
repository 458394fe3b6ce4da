package dukascopy

import (
	"errors"

	"github.com/dl-alexandre/dukascopy-go/internal/decode"
	"github.com/dl-alexandre/dukascopy-go/internal/fetch"
)

// Validation error kinds (spec.md §7). These are returned synchronously
// from Stream and never reach the pipeline.
var (
	ErrUnknownInstrument         = errors.New("unknown_instrument")
	ErrInvalidGranularity        = errors.New("invalid_granularity")
	ErrInvalidPriceType          = errors.New("invalid_price_type")
	ErrInvalidPositiveInteger    = errors.New("invalid_positive_integer")
	ErrInvalidNonNegativeInteger = errors.New("invalid_non_negative_integer")
	ErrInvalidRetryDelay         = errors.New("invalid_retry_delay")
	ErrMissingDateRange          = errors.New("missing_date_range")
	ErrInvalidDateRange          = errors.New("invalid_date_range")
)

// Fetch/decode error kinds. These occur per planned unit and are routed by
// HaltOnError rather than returned from Stream itself. They are the same
// sentinel values the internal fetch/decode packages return, re-exported
// so callers never need to import an internal package to match on them
// with errors.Is.
var (
	ErrDecompression   = fetch.ErrDecompression
	ErrInvalidTickData = decode.ErrInvalidTickFormat
	ErrInvalidBarData  = decode.ErrInvalidBarFormat
	ErrMidMismatch     = decode.ErrMidMismatch
)

// ErrRetryExhausted marks a *RetryExhaustedError. Match it with
// errors.Is(err, dukascopy.ErrRetryExhausted); unwrap further with
// errors.As(err, &retryExhaustedErr) to get at RetryExhaustedError.Cause.
var ErrRetryExhausted = fetch.ErrRetryExhausted
