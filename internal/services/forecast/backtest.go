package forecast

import (
	"VolCast/internal/domain/models"
	"VolCast/pkg/logger"
)

// BacktestReport summarizes a walk-forward run.
type BacktestReport struct {
	Window   int
	Total    int     // evaluated points
	Hits     int     // realized closes inside the predicted band
	HitRate  float64 // percent
	Required float64 // percent
	Passed   bool
}

// Backtest re-predicts on a sliding trailing window for every remaining
// candle and counts how often the realized next close falls inside the
// predicted band. The window is max(interval minimum, 75% of the history).
// requiredPercent <= 0 short-circuits to pass and >= 100 to fail, so callers
// can use those as always/never thresholds without burning a run.
func (s *Service) Backtest(candles []models.Candle, interval models.Interval, confidence, requiredPercent float64) (*BacktestReport, error) {
	if !interval.Valid() {
		return nil, models.NewDataError("interval", "unknown interval")
	}
	if requiredPercent <= 0 {
		return &BacktestReport{Required: requiredPercent, Passed: true}, nil
	}
	if requiredPercent >= 100 {
		return &BacktestReport{Required: requiredPercent, Passed: false}, nil
	}
	if err := models.ValidateCandles(candles); err != nil {
		return nil, err
	}

	window := interval.MinCandles()
	if w := len(candles) * 3 / 4; w > window {
		window = w
	}
	if len(candles) <= window {
		return nil, models.NewDataError("candles", "too few candles to backtest")
	}

	report := &BacktestReport{Window: window, Required: requiredPercent}
	for t := window; t < len(candles); t++ {
		pred, err := s.Predict(candles[t-window:t], interval, candles[t-1].Close, confidence)
		if err != nil {
			s.metrics.RecordError("backtest_predict")
			s.log.Warn("backtest step failed", logger.Int("index", t), logger.Error(err))
			continue
		}
		report.Total++
		next := candles[t].Close
		if next >= pred.LowerPrice && next <= pred.UpperPrice {
			report.Hits++
		}
	}
	if report.Total == 0 {
		return nil, models.NewDataError("candles", "no evaluable backtest points")
	}

	report.HitRate = 100 * float64(report.Hits) / float64(report.Total)
	report.Passed = report.HitRate >= requiredPercent
	s.log.Info("backtest finished",
		logger.Int("window", report.Window),
		logger.Int("points", report.Total),
		logger.Float64("hit_rate", report.HitRate),
		logger.Float64("required", requiredPercent),
		logger.Bool("passed", report.Passed))
	return report, nil
}
