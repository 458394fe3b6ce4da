package fetch

import (
	"errors"
	"fmt"
)

// ErrDecompression wraps the underlying LZMA decoder error when a non-empty
// 200 response fails to decompress; it is retryable per spec.md §4.3 step 2.
var ErrDecompression = errors.New("decompression_error")

// ErrRetryExhausted is the sentinel every *RetryExhaustedError matches via
// errors.Is; see RetryExhaustedError.Is.
var ErrRetryExhausted = errors.New("retry_exhausted")

// errEmptyBody is the internal retry trigger for a 200 with an empty body
// when retry_on_empty is set; it never escapes Fetch.
var errEmptyBody = errors.New("empty response body")

// HTTPStatusError represents any response status that is neither a
// terminal 404 nor a 200; it is retryable, and becomes the Cause of a
// RetryExhaustedError if retries are exhausted and fail_after_retries is
// set.
type HTTPStatusError struct {
	Status int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("http_error: status %d", e.Status)
}

// RetryExhaustedError is returned by Fetch when every attempt failed and
// fail_after_retries is true.
type RetryExhaustedError struct {
	Cause error
}

func (e *RetryExhaustedError) Error() string {
	if e.Cause == nil {
		return "retry_exhausted"
	}
	return fmt.Sprintf("retry_exhausted: %v", e.Cause)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrRetryExhausted, so callers can write
// errors.Is(err, dukascopy.ErrRetryExhausted) without depending on this
// package's concrete type.
func (e *RetryExhaustedError) Is(target error) bool {
	return target == ErrRetryExhausted
}
