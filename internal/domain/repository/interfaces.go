package repository

import (
	"VolCast/internal/domain/models"
)

// CandleSource supplies OHLC candle history for one instrument at one
// granularity. Implementations return candles in ascending time order.
type CandleSource interface {
	Candles(symbol string, interval models.Interval, count int) ([]models.Candle, error)
}

type Metrics interface {
	RecordFit(model string, seconds float64, converged bool)
	RecordSelection(model string)
	RecordForecastSigma(symbol, model string, sigma float64)
	RecordBacktestHitRate(symbol string, rate float64)
	RecordError(kind string)
}
