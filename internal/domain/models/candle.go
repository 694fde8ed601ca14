package models

import (
	"math"
	"time"
)

// Candle represents one OHLCV record. Instances are owned by the caller and
// are never mutated by the core.
type Candle struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time // optional; zero value allowed
}

// Valid reports whether all prices are positive and finite.
func (c Candle) Valid() bool {
	for _, p := range []float64{c.Open, c.High, c.Low, c.Close} {
		if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return false
		}
	}
	return true
}

// ValidateCandles checks every candle in the slice and returns a DataError
// naming the first offending index.
func ValidateCandles(candles []Candle) error {
	for i, c := range candles {
		if !c.Valid() {
			return NewDataError("candle", "non-positive or non-finite price").WithIndex(i)
		}
	}
	return nil
}

// ValidatePrices checks a bare price series the same way.
func ValidatePrices(prices []float64) error {
	for i, p := range prices {
		if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return NewDataError("price", "non-positive or non-finite price").WithIndex(i)
		}
	}
	return nil
}
