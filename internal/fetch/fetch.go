// Package fetch implements the single-URL HTTP fetcher: retry with
// backoff, empty-body handling, 404-as-gap, optional cache read/write-
// through, and LZMA decompression (spec.md §4.3). It never decodes
// records — its only output is raw decompressed bytes.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/dl-alexandre/dukascopy-go/internal/cache"
	"github.com/dl-alexandre/dukascopy-go/internal/urlbuilder"
)

// DefaultTimeout is the per-unit fetch timeout applied when Options.Timeout
// is zero.
const DefaultTimeout = 60 * time.Second

// Options configures one Fetch call. It is intentionally request-scoped
// rather than fetcher-wide: every planned unit may in principle be fetched
// with different retry/cache settings, though in practice the orchestrator
// derives one Options value per stream.Request and reuses it.
type Options struct {
	MaxRetries       int
	RetryDelay       RetryDelay // nil defaults to DefaultRetryDelay
	RetryOnEmpty     bool
	FailAfterRetries bool
	UseCache         bool
	Timeout          time.Duration // zero defaults to DefaultTimeout

	// CorrelationID is attached to log lines for this fetch, typically the
	// orchestrator's per-unit identifier.
	CorrelationID string
}

func (o Options) retryDelay() RetryDelay {
	if o.RetryDelay != nil {
		return o.RetryDelay
	}
	return DefaultRetryDelay
}

func (o Options) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return DefaultTimeout
}

// Fetcher executes single-URL fetches against the Dukascopy endpoint.
type Fetcher struct {
	client *resty.Client
	cache  *cache.Cache
	logger zerolog.Logger
}

// New creates a Fetcher. cache may be nil, in which case UseCache is
// ignored for every call (equivalent to use_cache=false).
func New(c *cache.Cache, logger zerolog.Logger) *Fetcher {
	client := resty.New().
		SetRetryCount(0). // retries are driven explicitly below, not by resty
		SetHeader("Accept-Encoding", "identity")

	return &Fetcher{
		client: client,
		cache:  c,
		logger: logger.With().Str("component", "fetch").Logger(),
	}
}

// Fetch executes a single GET against url with retry, backoff, empty-body
// handling, and optional caching, per spec.md §4.3. It returns raw
// decompressed bytes (possibly empty, which is not itself an error) or a
// terminal error.
func (f *Fetcher) Fetch(ctx context.Context, url string, opts Options) ([]byte, error) {
	log := f.logger.With().Str("url", url).Str("correlation_id", opts.CorrelationID).Logger()

	cacheKey := ""
	if opts.UseCache && f.cache != nil {
		cacheKey = CacheKey(urlbuilder.BaseURL, url)
		if data, ok := f.cache.Get(cacheKey); ok {
			log.Debug().Msg("cache hit, no network request")
			return data, nil
		}
	}

	tries := 1 + opts.MaxRetries
	var lastErr error

	for attempt := 0; attempt < tries; attempt++ {
		if attempt > 0 {
			delay := opts.retryDelay()(attempt - 1)
			log.Debug().Int("attempt", attempt).Dur("delay", delay).Err(lastErr).Msg("retrying after delay")
			if err := sleepCtx(ctx, delay); err != nil {
				return nil, err
			}
		}

		body, status, err := f.doRequest(ctx, url, opts.timeout())
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case status == 404:
			return nil, nil

		case status == 200 && len(body) == 0:
			if opts.RetryOnEmpty {
				lastErr = errEmptyBody
				continue
			}
			return nil, nil

		case status == 200:
			decoded, derr := decompress(body)
			if derr != nil {
				lastErr = fmt.Errorf("%w: %v", ErrDecompression, derr)
				continue
			}
			if opts.UseCache && f.cache != nil && len(decoded) > 0 {
				if err := f.cache.Put(cacheKey, decoded); err != nil {
					log.Warn().Err(err).Msg("cache write failed, continuing without caching this response")
				}
			}
			return decoded, nil

		default:
			lastErr = &HTTPStatusError{Status: status}
			continue
		}
	}

	if opts.FailAfterRetries {
		return nil, &RetryExhaustedError{Cause: lastErr}
	}
	log.Warn().Err(lastErr).Msg("retries exhausted, treating unit as empty")
	return nil, nil
}

func (f *Fetcher) doRequest(ctx context.Context, url string, timeout time.Duration) (body []byte, status int, err error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := f.client.R().SetContext(reqCtx).Get(url)
	if err != nil {
		return nil, 0, err
	}
	return resp.Body(), resp.StatusCode(), nil
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
