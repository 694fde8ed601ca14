package models

import "fmt"

// Interval identifies the candle granularity. It determines how many candles
// a model needs before it may be fit and the annualization factor.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval3m  Interval = "3m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval2h  Interval = "2h"
	Interval4h  Interval = "4h"
	Interval8h  Interval = "8h"
)

const minutesPerYear = 365 * 24 * 60

type intervalSpec struct {
	minCandles int
	minutes    int
}

// Finer granularities demand more history: noise dominates short bars, so a
// larger sample is needed before a variance model is trustworthy.
var intervalSpecs = map[Interval]intervalSpec{
	Interval1m:  {minCandles: 500, minutes: 1},
	Interval3m:  {minCandles: 400, minutes: 3},
	Interval5m:  {minCandles: 300, minutes: 5},
	Interval15m: {minCandles: 250, minutes: 15},
	Interval30m: {minCandles: 200, minutes: 30},
	Interval1h:  {minCandles: 150, minutes: 60},
	Interval2h:  {minCandles: 120, minutes: 120},
	Interval4h:  {minCandles: 100, minutes: 240},
	Interval8h:  {minCandles: 80, minutes: 480},
}

// ParseInterval validates an interval token.
func ParseInterval(s string) (Interval, error) {
	iv := Interval(s)
	if _, ok := intervalSpecs[iv]; !ok {
		return "", fmt.Errorf("unknown interval %q", s)
	}
	return iv, nil
}

// Valid reports whether the interval is a member of the enumeration.
func (iv Interval) Valid() bool {
	_, ok := intervalSpecs[iv]
	return ok
}

// MinCandles returns the minimum candle count required before fitting.
func (iv Interval) MinCandles() int {
	return intervalSpecs[iv].minCandles
}

// PeriodsPerYear returns the number of bars of this granularity in a year.
func (iv Interval) PeriodsPerYear() float64 {
	spec, ok := intervalSpecs[iv]
	if !ok {
		return 0
	}
	return float64(minutesPerYear) / float64(spec.minutes)
}
