// Package urlbuilder composes the exact remote resource path for a fetch
// unit. The Dukascopy path convention must be reproduced bit-exactly —
// downstream compatibility depends on it — so every format verb here is
// pinned to spec.md §4.1 rather than left to time.Time's default layouts.
package urlbuilder

import (
	"fmt"
	"time"

	"github.com/dl-alexandre/dukascopy-go/internal/common"
)

// BaseURL is the root all resource paths are composed against. It is a
// var, not a const, solely so integration tests can point it at an
// httptest.Server for the duration of a test; production code must never
// reassign it.
var BaseURL = "https://datafeed.dukascopy.com/datafeed"

// TicksURL builds the hourly tick resource path:
// {prefix}/{YYYY}/{MM0}/{DD}/{HH}h_ticks.bi5
func TicksURL(remotePrefix string, hourStart time.Time) string {
	y, m, d := hourStart.Date()
	return fmt.Sprintf("%s/%s/%04d/%02d/%02d/%02dh_ticks.bi5",
		BaseURL, remotePrefix, y, int(m)-1, d, hourStart.Hour())
}

// MinuteURL builds the daily minute-bar resource path:
// {prefix}/{YYYY}/{MM0}/{DD}/{SIDE}_candles_min_1.bi5
func MinuteURL(remotePrefix string, day time.Time, side common.URLSide) string {
	y, m, d := day.Date()
	return fmt.Sprintf("%s/%s/%04d/%02d/%02d/%s_candles_min_1.bi5",
		BaseURL, remotePrefix, y, int(m)-1, d, side)
}

// HourURL builds the monthly hour-bar resource path:
// {prefix}/{YYYY}/{MM0}/{SIDE}_candles_hour_1.bi5
func HourURL(remotePrefix string, month time.Time, side common.URLSide) string {
	y, m, _ := month.Date()
	return fmt.Sprintf("%s/%s/%04d/%02d/%s_candles_hour_1.bi5",
		BaseURL, remotePrefix, y, int(m)-1, side)
}

// DayURL builds the yearly day-bar resource path:
// {prefix}/{YYYY}/{SIDE}_candles_day_1.bi5
func DayURL(remotePrefix string, year time.Time, side common.URLSide) string {
	y, _, _ := year.Date()
	return fmt.Sprintf("%s/%s/%04d/%s_candles_day_1.bi5",
		BaseURL, remotePrefix, y, side)
}

// BarURL dispatches to the right path builder for a bar fetch granularity.
// Ticks has no bar URL; callers must use TicksURL for common.Ticks.
func BarURL(remotePrefix string, g common.Granularity, key time.Time, side common.URLSide) (string, error) {
	switch g {
	case common.Minute:
		return MinuteURL(remotePrefix, key, side), nil
	case common.Hour:
		return HourURL(remotePrefix, key, side), nil
	case common.Day:
		return DayURL(remotePrefix, key, side), nil
	default:
		return "", fmt.Errorf("urlbuilder: %v is not a bar granularity", g)
	}
}
