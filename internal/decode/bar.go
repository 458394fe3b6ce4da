package decode

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/dl-alexandre/dukascopy-go/internal/common"
	"github.com/dl-alexandre/dukascopy-go/internal/model"
)

const barRecordSize = 24

// Bars decodes a decompressed bar blob into ordered OHLCV records. g is
// the fetch granularity (minute/hour/day) and key is the planner unit's
// period start, which together fix the timebase time_delta is measured
// from (start of day/month/year respectively). An empty blob decodes to an
// empty slice with no error; a blob whose length is not a multiple of 24
// bytes is ErrInvalidBarFormat.
func Bars(blob []byte, g common.Granularity, key time.Time, pointValue float64) ([]model.BarRecord, error) {
	if len(blob) == 0 {
		return nil, nil
	}
	if len(blob)%barRecordSize != 0 {
		return nil, ErrInvalidBarFormat
	}

	base := timebase(g, key)
	n := len(blob) / barRecordSize
	records := make([]model.BarRecord, n)

	for i := 0; i < n; i++ {
		off := i * barRecordSize
		rec := blob[off : off+barRecordSize]

		deltaSec := int32(binary.BigEndian.Uint32(rec[0:4]))
		openRaw := int32(binary.BigEndian.Uint32(rec[4:8]))
		highRaw := int32(binary.BigEndian.Uint32(rec[8:12]))
		lowRaw := int32(binary.BigEndian.Uint32(rec[12:16]))
		closeRaw := int32(binary.BigEndian.Uint32(rec[16:20]))
		volume := math.Float32frombits(binary.BigEndian.Uint32(rec[20:24]))

		records[i] = model.BarRecord{
			Time:   base.Add(time.Duration(deltaSec) * time.Second),
			Open:   float64(openRaw) / pointValue,
			High:   float64(highRaw) / pointValue,
			Low:    float64(lowRaw) / pointValue,
			Close:  float64(closeRaw) / pointValue,
			Volume: volume,
		}
	}

	return records, nil
}

// timebase returns the instant time_delta is measured from for a given bar
// fetch granularity and planner unit key.
func timebase(g common.Granularity, key time.Time) time.Time {
	switch g {
	case common.Minute:
		return time.Date(key.Year(), key.Month(), key.Day(), 0, 0, 0, 0, time.UTC)
	case common.Hour:
		return time.Date(key.Year(), key.Month(), 1, 0, 0, 0, 0, time.UTC)
	case common.Day:
		return time.Date(key.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		panic("decode: timebase called with non-bar granularity")
	}
}

// MidOHLC averages two decoded bar sequences for the same period
// componentwise into a single {time, OHLC: mean, volume: sum} sequence.
// bid and ask must agree on length and, pairwise, on Time; a mismatch is
// ErrMidMismatch.
func MidOHLC(bid, ask []model.BarRecord) ([]model.BarRecord, error) {
	if len(bid) != len(ask) {
		return nil, ErrMidMismatch
	}
	out := make([]model.BarRecord, len(bid))
	for i := range bid {
		b, a := bid[i], ask[i]
		if !b.Time.Equal(a.Time) {
			return nil, ErrMidMismatch
		}
		out[i] = model.BarRecord{
			Time:   b.Time,
			Open:   (b.Open + a.Open) / 2,
			High:   (b.High + a.High) / 2,
			Low:    (b.Low + a.Low) / 2,
			Close:  (b.Close + a.Close) / 2,
			Volume: b.Volume + a.Volume,
		}
	}
	return out, nil
}
