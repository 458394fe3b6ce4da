package fetch

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryDelay computes the sleep duration before the (attempt+1)th retry,
// where attempt starts at 0. Callers may supply either a fixed-integer
// policy (wrap with FixedDelay) or an arbitrary attempt -> duration
// function.
type RetryDelay func(attempt int) time.Duration

// FixedDelay returns a RetryDelay that always waits the same duration
// regardless of attempt.
func FixedDelay(d time.Duration) RetryDelay {
	return func(int) time.Duration { return d }
}

// DefaultRetryDelay implements the spec's default policy — 200, 400, 800,
// 1600 ... ms — by driving cenkalti/backoff's exponential backoff
// generator with randomization disabled, rather than re-deriving the
// doubling sequence by hand.
func DefaultRetryDelay(attempt int) time.Duration {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = time.Hour
	b.Reset()

	var d time.Duration
	for i := 0; i <= attempt; i++ {
		d = b.NextBackOff()
	}
	return d
}
