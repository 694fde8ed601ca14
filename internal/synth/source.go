package synth

import (
	"hash/fnv"
	"time"

	"VolCast/internal/domain/models"
)

// Source implements repository.CandleSource over simulated GARCH paths, one
// deterministic path per symbol. It stands in for a market-data feed in the
// demo runner and in integration-style tests.
type Source struct {
	seed      int64
	annualVol float64
}

// NewSource builds a source whose paths target the given annualized
// volatility (fractional, e.g. 0.6 for 60%).
func NewSource(seed int64, annualVol float64) *Source {
	if annualVol <= 0 {
		annualVol = 0.6
	}
	return &Source{seed: seed, annualVol: annualVol}
}

// Candles returns count bars for the symbol at the given granularity. The
// same symbol, interval, and count always produce the same path.
func (s *Source) Candles(symbol string, interval models.Interval, count int) ([]models.Candle, error) {
	if !interval.Valid() {
		return nil, models.NewDataError("interval", "unknown interval")
	}
	if count < 1 {
		return nil, models.NewDataError("count", "must be positive")
	}

	const alpha, beta = 0.08, 0.9
	perPeriod := s.annualVol * s.annualVol / interval.PeriodsPerYear()
	omega := perPeriod * (1 - alpha - beta)

	h := fnv.New64a()
	h.Write([]byte(symbol))
	barMinutes := float64(365*24*60) / interval.PeriodsPerYear()
	cfg := PathConfig{
		Seed: s.seed ^ int64(h.Sum64()),
		N:    count,
		Step: time.Duration(barMinutes) * time.Minute,
	}
	return GARCH(cfg, omega, alpha, beta), nil
}
