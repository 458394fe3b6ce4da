// Command dukastream is a minimal demonstration of the dukascopy package:
// stream one instrument over one range and print the decoded records. It is
// not a packaged product, just a thin driver over Stream.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/dl-alexandre/dukascopy-go"
)

func main() {
	instrument := flag.String("instrument", "", "Instrument name, e.g. EUR/USD")
	granularity := flag.String("granularity", "hour", "ticks|minute|hour|day")
	fromStr := flag.String("from", "", "Range start, RFC3339 or 2006-01-02")
	toStr := flag.String("to", "", "Range end, RFC3339 or 2006-01-02")
	side := flag.String("side", "bid", "bid|ask|mid")
	batchSize := flag.Int("batch-size", 10, "Concurrent fetches per batch")
	haltOnError := flag.Bool("halt-on-error", true, "Stop at the first unit error")
	cacheDir := flag.String("cache-dir", "", "Enable the file-backed cache at this directory")
	limit := flag.Int("limit", 0, "Stop after printing this many records (0 = unlimited)")

	flag.Parse()

	if *instrument == "" {
		log.Fatal("-instrument is required")
	}
	if *fromStr == "" || *toStr == "" {
		log.Fatal("-from and -to are required")
	}

	from, err := parseTime(*fromStr)
	if err != nil {
		log.Fatalf("invalid -from: %v", err)
	}
	to, err := parseTime(*toStr)
	if err != nil {
		log.Fatalf("invalid -to: %v", err)
	}

	req := dukascopy.Request{
		Instrument:  *instrument,
		Granularity: *granularity,
		From:        from,
		To:          to,
		Side:        *side,
		BatchSize:   *batchSize,
		HaltOnError: *haltOnError,
		UseCache:    *cacheDir != "",
		CacheDir:    *cacheDir,
	}

	seq, err := dukascopy.Stream(context.Background(), req)
	if err != nil {
		log.Fatalf("stream: %v", err)
	}

	plain := !isatty.IsTerminal(os.Stdout.Fd())
	n := 0
	for rec, err := range seq.All() {
		if err != nil {
			log.Fatalf("pipeline error: %v", err)
		}
		printRecord(rec, plain)
		n++
		if *limit > 0 && n >= *limit {
			break
		}
	}
	fmt.Fprintf(os.Stderr, "%d record(s)\n", n)
}

func printRecord(rec dukascopy.Record, plain bool) {
	switch {
	case rec.Tick != nil:
		t := rec.Tick
		if plain {
			fmt.Printf("%s\t%.6f\t%.6f\t%.0f\t%.0f\n", t.Time.Format(time.RFC3339Nano), t.Bid, t.Ask, t.BidVolume, t.AskVolume)
		} else {
			fmt.Printf("tick %s bid=%.6f ask=%.6f\n", t.Time.Format(time.RFC3339Nano), t.Bid, t.Ask)
		}
	case rec.Bar != nil:
		b := rec.Bar
		if plain {
			fmt.Printf("%s\t%.6f\t%.6f\t%.6f\t%.6f\t%.0f\n", b.Time.Format(time.RFC3339), b.Open, b.High, b.Low, b.Close, b.Volume)
		} else {
			fmt.Printf("bar  %s O=%.6f H=%.6f L=%.6f C=%.6f V=%.0f\n", b.Time.Format(time.RFC3339), b.Open, b.High, b.Low, b.Close, b.Volume)
		}
	}
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
