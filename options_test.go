package dukascopy

import (
	"errors"
	"testing"
	"time"
)

func validRequest() Request {
	return Request{
		Instrument:  "EUR/USD",
		Granularity: "hour",
		From:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:          time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestNormalizeAcceptsAValidRequest(t *testing.T) {
	if _, err := normalize(validRequest()); err != nil {
		t.Fatalf("normalize() error: %v", err)
	}
}

func TestNormalizeRejectsUnknownInstrument(t *testing.T) {
	req := validRequest()
	req.Instrument = "NOT/REAL"
	if _, err := normalize(req); !errors.Is(err, ErrUnknownInstrument) {
		t.Fatalf("expected ErrUnknownInstrument, got %v", err)
	}
}

func TestNormalizeRejectsInvalidGranularity(t *testing.T) {
	req := validRequest()
	req.Granularity = "weekly"
	if _, err := normalize(req); !errors.Is(err, ErrInvalidGranularity) {
		t.Fatalf("expected ErrInvalidGranularity, got %v", err)
	}
}

func TestNormalizeRejectsInvalidSide(t *testing.T) {
	req := validRequest()
	req.Side = "last"
	if _, err := normalize(req); !errors.Is(err, ErrInvalidPriceType) {
		t.Fatalf("expected ErrInvalidPriceType, got %v", err)
	}
}

func TestNormalizeDefaultsSideToBid(t *testing.T) {
	req := validRequest()
	req.Side = ""
	n, err := normalize(req)
	if err != nil {
		t.Fatalf("normalize() error: %v", err)
	}
	if n.Side.String() != "bid" {
		t.Errorf("expected default side %q, got %q", "bid", n.Side.String())
	}
}

func TestNormalizeRejectsMissingDateRange(t *testing.T) {
	req := validRequest()
	req.From = time.Time{}
	req.To = time.Time{}
	if _, err := normalize(req); !errors.Is(err, ErrMissingDateRange) {
		t.Fatalf("expected ErrMissingDateRange, got %v", err)
	}
}

func TestNormalizeRejectsBothFromToAndDateRangeSet(t *testing.T) {
	req := validRequest()
	req.DateRange = &DateRange{
		First: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Last:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	if _, err := normalize(req); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestNormalizeRejectsDateRangeFirstAfterLast(t *testing.T) {
	req := validRequest()
	req.From = time.Time{}
	req.To = time.Time{}
	req.DateRange = &DateRange{
		First: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Last:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if _, err := normalize(req); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestNormalizeLiftsInclusiveDateRangeToHalfOpen(t *testing.T) {
	req := validRequest()
	req.From = time.Time{}
	req.To = time.Time{}
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	req.DateRange = &DateRange{First: day, Last: day}

	n, err := normalize(req)
	if err != nil {
		t.Fatalf("normalize() error: %v", err)
	}
	wantFrom := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !n.From.Equal(wantFrom) || !n.To.Equal(wantTo) {
		t.Errorf("got [%v, %v), want [%v, %v)", n.From, n.To, wantFrom, wantTo)
	}
}

func TestNormalizeRejectsNonPositiveBatchSize(t *testing.T) {
	req := validRequest()
	req.BatchSize = -1
	if _, err := normalize(req); !errors.Is(err, ErrInvalidPositiveInteger) {
		t.Fatalf("expected ErrInvalidPositiveInteger, got %v", err)
	}
}

func TestNormalizeDefaultsBatchSizeToTen(t *testing.T) {
	n, err := normalize(validRequest())
	if err != nil {
		t.Fatalf("normalize() error: %v", err)
	}
	if n.BatchSize != 10 {
		t.Errorf("expected default batch size 10, got %d", n.BatchSize)
	}
}

func TestNormalizeRejectsNegativeBatchPauseMs(t *testing.T) {
	req := validRequest()
	req.BatchPauseMs = -1
	if _, err := normalize(req); !errors.Is(err, ErrInvalidNonNegativeInteger) {
		t.Fatalf("expected ErrInvalidNonNegativeInteger, got %v", err)
	}
}

func TestNormalizeRejectsNegativeMaxRetries(t *testing.T) {
	req := validRequest()
	req.MaxRetries = -1
	if _, err := normalize(req); !errors.Is(err, ErrInvalidNonNegativeInteger) {
		t.Fatalf("expected ErrInvalidNonNegativeInteger, got %v", err)
	}
}

func TestNormalizeDefaultsMaxRetriesToThree(t *testing.T) {
	n, err := normalize(validRequest())
	if err != nil {
		t.Fatalf("normalize() error: %v", err)
	}
	if n.MaxRetries != 3 {
		t.Errorf("expected default max_retries 3, got %d", n.MaxRetries)
	}
}

func TestNormalizeRejectsNegativeRetryDelayMs(t *testing.T) {
	req := validRequest()
	req.RetryDelayMs = -1
	if _, err := normalize(req); !errors.Is(err, ErrInvalidRetryDelay) {
		t.Fatalf("expected ErrInvalidRetryDelay, got %v", err)
	}
}

func TestNormalizeAcceptsFixedRetryDelayMs(t *testing.T) {
	req := validRequest()
	req.RetryDelayMs = 50
	n, err := normalize(req)
	if err != nil {
		t.Fatalf("normalize() error: %v", err)
	}
	if n.RetryDelay == nil {
		t.Fatal("expected a non-nil RetryDelay for a fixed retry_delay_ms")
	}
	if got := n.RetryDelay(7); got != 50*time.Millisecond {
		t.Errorf("fixed retry delay should ignore attempt, got %v", got)
	}
}

func TestNormalizeRetryDelayFnTakesPrecedenceOverMs(t *testing.T) {
	req := validRequest()
	req.RetryDelayMs = 50
	req.RetryDelayFn = func(attempt int) time.Duration {
		return time.Duration(attempt) * time.Second
	}
	n, err := normalize(req)
	if err != nil {
		t.Fatalf("normalize() error: %v", err)
	}
	if got := n.RetryDelay(3); got != 3*time.Second {
		t.Errorf("expected RetryDelayFn to take precedence, got %v", got)
	}
}
