// Package orchestrator drives the planned fetch units through fetch+decode
// with bounded per-batch parallelism, preserving plan order on output and
// routing per-unit failures per halt_on_error (spec.md §4.6).
package orchestrator

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dl-alexandre/dukascopy-go/internal/catalog"
	"github.com/dl-alexandre/dukascopy-go/internal/common"
	"github.com/dl-alexandre/dukascopy-go/internal/decode"
	"github.com/dl-alexandre/dukascopy-go/internal/fetch"
	"github.com/dl-alexandre/dukascopy-go/internal/model"
	"github.com/dl-alexandre/dukascopy-go/internal/planner"
	"github.com/dl-alexandre/dukascopy-go/internal/urlbuilder"
)

// UnitError wraps a per-unit terminal error with the planning key that
// produced it, so a halted stream can say exactly which fetch failed.
type UnitError struct {
	Key   planner.Unit
	Cause error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("unit %+v: %v", e.Key, e.Cause)
}

func (e *UnitError) Unwrap() error { return e.Cause }

// Config bundles everything a unit's fetch+decode pipeline needs along
// with the batching/failure-routing policy.
type Config struct {
	Descriptor   catalog.Descriptor
	Side         common.Side
	BatchSize    int
	BatchPauseMs int
	HaltOnError  bool
	FetchOptions fetch.Options
	Fetcher      *fetch.Fetcher
	Logger       zerolog.Logger
}

// effectiveBatchSize halves BatchSize (floor, minimum 1) in mid-price mode,
// since each unit then costs two fetches instead of one (spec.md §4.5).
func effectiveBatchSize(cfg Config) int {
	n := cfg.BatchSize
	if n < 1 {
		n = 1
	}
	if cfg.Side == common.SideMid {
		n = n / 2
		if n < 1 {
			n = 1
		}
	}
	return n
}

// Run consumes the lazily planned units and yields decoded records in plan
// order, fetching up to effectiveBatchSize(cfg) units concurrently per
// batch. Iteration stops promptly once the consumer stops pulling: Run
// cancels its internal context as soon as it returns, so any fetches still
// in flight in the final dispatched batch are aborted best-effort.
func Run(ctx context.Context, units iter.Seq[planner.Unit], cfg Config) iter.Seq2[model.Record, error] {
	return func(yield func(model.Record, error) bool) {
		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		batchSize := effectiveBatchSize(cfg)
		batch := make([]planner.Unit, 0, batchSize)

		flush := func(isLast bool) bool {
			if len(batch) == 0 {
				return true
			}
			results := dispatchBatch(runCtx, batch, cfg)

			ok := true
			for i, res := range results {
				if res.err != nil {
					uerr := &UnitError{Key: batch[i], Cause: res.err}
					if cfg.HaltOnError {
						yield(model.Record{}, uerr)
						ok = false
						break
					}
					cfg.Logger.Error().Err(uerr).Msg("unit failed, treated as empty per halt_on_error=false")
					continue
				}
				for _, rec := range res.records {
					if !yield(rec, nil) {
						ok = false
						break
					}
				}
				if !ok {
					break
				}
			}

			batch = batch[:0]
			if ok && !isLast && cfg.BatchPauseMs > 0 {
				if err := sleepCtx(runCtx, time.Duration(cfg.BatchPauseMs)*time.Millisecond); err != nil {
					return false
				}
			}
			return ok
		}

		for unit := range units {
			select {
			case <-runCtx.Done():
				return
			default:
			}

			batch = append(batch, unit)
			if len(batch) >= batchSize {
				if !flush(false) {
					return
				}
			}
		}
		flush(true)
	}
}

type unitResult struct {
	records []model.Record
	err     error
}

func dispatchBatch(ctx context.Context, batch []planner.Unit, cfg Config) []unitResult {
	results := make([]unitResult, len(batch))
	var wg sync.WaitGroup
	for i, u := range batch {
		wg.Add(1)
		go func(i int, u planner.Unit) {
			defer wg.Done()
			recs, err := fetchAndDecodeUnit(ctx, u, cfg)
			results[i] = unitResult{records: recs, err: err}
		}(i, u)
	}
	wg.Wait()
	return results
}

func fetchAndDecodeUnit(ctx context.Context, u planner.Unit, cfg Config) ([]model.Record, error) {
	opts := cfg.FetchOptions
	opts.CorrelationID = uuid.NewString()
	pointValue := cfg.Descriptor.PointValue()

	if u.FetchGranularity == common.Ticks {
		hourStart := u.Key.Add(time.Duration(u.Hour) * time.Hour)
		url := urlbuilder.TicksURL(cfg.Descriptor.RemotePrefix, hourStart)
		blob, err := cfg.Fetcher.Fetch(ctx, url, opts)
		if err != nil {
			return nil, err
		}
		ticks, err := decode.Ticks(blob, u.Key, u.Hour, pointValue)
		if err != nil {
			return nil, err
		}
		return wrapTicks(ticks), nil
	}

	if cfg.Side == common.SideMid {
		bidBars, err := fetchBars(ctx, cfg, u, common.URLSideBid, pointValue, opts)
		if err != nil {
			return nil, err
		}
		askBars, err := fetchBars(ctx, cfg, u, common.URLSideAsk, pointValue, opts)
		if err != nil {
			return nil, err
		}
		mid, err := decode.MidOHLC(bidBars, askBars)
		if err != nil {
			return nil, err
		}
		return wrapBars(mid), nil
	}

	bars, err := fetchBars(ctx, cfg, u, common.FromSide(cfg.Side), pointValue, opts)
	if err != nil {
		return nil, err
	}
	return wrapBars(bars), nil
}

func fetchBars(ctx context.Context, cfg Config, u planner.Unit, side common.URLSide, pointValue float64, opts fetch.Options) ([]model.BarRecord, error) {
	url, err := urlbuilder.BarURL(cfg.Descriptor.RemotePrefix, u.FetchGranularity, u.Key, side)
	if err != nil {
		return nil, err
	}
	blob, err := cfg.Fetcher.Fetch(ctx, url, opts)
	if err != nil {
		return nil, err
	}
	return decode.Bars(blob, u.FetchGranularity, u.Key, pointValue)
}

func wrapTicks(ticks []model.TickRecord) []model.Record {
	out := make([]model.Record, len(ticks))
	for i := range ticks {
		out[i] = model.Record{Tick: &ticks[i]}
	}
	return out
}

func wrapBars(bars []model.BarRecord) []model.Record {
	out := make([]model.Record, len(bars))
	for i := range bars {
		out[i] = model.Record{Bar: &bars[i]}
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
