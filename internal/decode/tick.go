// Package decode implements the two on-wire binary record formats: ticks
// (20 bytes/record) and OHLCV bars (24 bytes/record), both big-endian with
// no padding, per spec.md §4.4 and §4.5.
package decode

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/dl-alexandre/dukascopy-go/internal/model"
)

const tickRecordSize = 20

// Ticks decodes a decompressed hourly tick blob into ordered records with
// absolute UTC timestamps. day must already be floored to midnight UTC and
// hour is the UTC hour the blob covers (both come from the planner's unit
// key). An empty blob decodes to an empty, non-nil-error slice; a blob
// whose length is not a multiple of 20 bytes is ErrInvalidTickFormat.
func Ticks(blob []byte, day time.Time, hour int, pointValue float64) ([]model.TickRecord, error) {
	if len(blob) == 0 {
		return nil, nil
	}
	if len(blob)%tickRecordSize != 0 {
		return nil, ErrInvalidTickFormat
	}

	hourStart := day.Add(time.Duration(hour) * time.Hour)
	n := len(blob) / tickRecordSize
	records := make([]model.TickRecord, n)

	for i := 0; i < n; i++ {
		off := i * tickRecordSize
		rec := blob[off : off+tickRecordSize]

		deltaMs := binary.BigEndian.Uint32(rec[0:4])
		askRaw := int32(binary.BigEndian.Uint32(rec[4:8]))
		bidRaw := int32(binary.BigEndian.Uint32(rec[8:12]))
		askVolume := math.Float32frombits(binary.BigEndian.Uint32(rec[12:16]))
		bidVolume := math.Float32frombits(binary.BigEndian.Uint32(rec[16:20]))

		records[i] = model.TickRecord{
			Time:      hourStart.Add(time.Duration(deltaMs) * time.Millisecond),
			Ask:       float64(askRaw) / pointValue,
			Bid:       float64(bidRaw) / pointValue,
			AskVolume: askVolume,
			BidVolume: bidVolume,
		}
	}

	return records, nil
}
