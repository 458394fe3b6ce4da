// Package dukascopy streams a lazily-materialized, chronologically ordered
// sequence of market observations — raw ticks or OHLCV bars — for a named
// instrument over a half-open time range, fetching compressed binary files
// from Dukascopy's public historical-data endpoint.
//
// The only public entry point is Stream. Everything downstream of the
// decoded records (resampling, timezone shifting, volume-unit scaling,
// flat-bar filtering) is explicitly out of scope; Stream's output is raw
// decoded, range-filtered, chronologically ordered records and nothing
// more.
package dukascopy

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/dl-alexandre/dukascopy-go/internal/cache"
	"github.com/dl-alexandre/dukascopy-go/internal/fetch"
	"github.com/dl-alexandre/dukascopy-go/internal/orchestrator"
	"github.com/dl-alexandre/dukascopy-go/internal/planner"
)

// Logger is the package-wide structured logger. Callers that want their
// own sink (or silence) can reassign it before calling Stream; it is not
// reset per call.
var Logger zerolog.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// Stream validates req and returns a lazy Sequence over every record in
// [req.From, req.To) (or the range req.DateRange implies), ordered
// chronologically. Validation errors are returned synchronously; per-unit
// fetch/decode errors surface while ranging over the returned Sequence,
// per req.HaltOnError.
//
// No network request is made before the caller begins ranging over the
// Sequence — planning and dispatch are both lazy.
//
// When req.UseCache is set, Stream opens a cache index handle that the
// caller must release by calling the returned Sequence's Close method.
func Stream(ctx context.Context, req Request) (*Sequence, error) {
	n, err := normalize(req)
	if err != nil {
		return nil, err
	}

	var c *cache.Cache
	if n.UseCache {
		c, err = cache.New(n.CacheDir, n.CacheMemLimit, Logger)
		if err != nil {
			return nil, err
		}
	}

	fetcher := fetch.New(c, Logger)

	fetchOpts := fetch.Options{
		MaxRetries:       n.MaxRetries,
		RetryOnEmpty:     n.RetryOnEmpty,
		FailAfterRetries: n.FailAfterRetries,
		UseCache:         n.UseCache,
	}
	if n.RetryDelay != nil {
		fetchOpts.RetryDelay = fetch.RetryDelay(n.RetryDelay)
	}

	now := time.Now().UTC()
	units := planner.Plan(n.Granularity, n.From, n.To, now)

	orchCfg := orchestrator.Config{
		Descriptor:   n.Descriptor,
		Side:         n.Side,
		BatchSize:    n.BatchSize,
		BatchPauseMs: n.BatchPauseMs,
		HaltOnError:  n.HaltOnError,
		FetchOptions: fetchOpts,
		Fetcher:      fetcher,
		Logger:       Logger,
	}

	return &Sequence{
		from:    n.From,
		to:      n.To,
		records: orchestrator.Run(ctx, units, orchCfg),
		cache:   c,
	}, nil
}

// UnitError wraps a per-unit terminal pipeline error with the planning key
// that produced it.
type UnitError = orchestrator.UnitError

// RetryExhaustedError is returned from a unit's fetch when every attempt
// failed and FailAfterRetries was set.
type RetryExhaustedError = fetch.RetryExhaustedError

// HTTPStatusError represents a non-404, non-200 response status.
type HTTPStatusError = fetch.HTTPStatusError
