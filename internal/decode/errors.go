package decode

import "errors"

// ErrInvalidTickFormat is returned when a decompressed tick blob's length
// is not an exact multiple of the 20-byte tick record size.
var ErrInvalidTickFormat = errors.New("invalid_tick_format")

// ErrInvalidBarFormat is returned when a decompressed bar blob's length is
// not an exact multiple of the 24-byte bar record size.
var ErrInvalidBarFormat = errors.New("invalid_bar_format")

// ErrMidMismatch is returned when the bid and ask sides of a mid-price bar
// fetch disagree on record count or per-record timestamps.
var ErrMidMismatch = errors.New("mid_mismatch")
