package forecast

import (
	"math"

	"VolCast/internal/domain/models"
	"VolCast/internal/services/diagnostics"
	"VolCast/pkg/logger"
)

// DefaultConfidence is the two-sided coverage of a one-sigma band.
const DefaultConfidence = 0.6827

// Predict validates the candle history against the interval's minimum,
// selects the best model, and converts its one-step volatility forecast into
// a log-normal price band around the last close:
//
//	upper = price * exp(+z*sigma), lower = price * exp(-z*sigma)
//
// with z the probit of the two-sided confidence. currentPrice <= 0 falls
// back to the last close.
func (s *Service) Predict(candles []models.Candle, interval models.Interval, currentPrice, confidence float64) (*models.PredictionResult, error) {
	sel, sigma, err := s.forecastSigma(candles, interval, 1)
	if err != nil {
		return nil, err
	}
	if currentPrice <= 0 {
		currentPrice = candles[len(candles)-1].Close
	}
	return s.band(sel, currentPrice, sigma, confidence)
}

// PredictRange is the multi-step variant: per-step variances are summed
// before banding, sigma_total = sqrt(sum sigma_i^2), so the band covers the
// cumulative move over the whole horizon.
func (s *Service) PredictRange(candles []models.Candle, interval models.Interval, steps int, currentPrice, confidence float64) (*models.PredictionResult, error) {
	if steps < 1 {
		steps = 1
	}
	sel, sigma, err := s.forecastSigma(candles, interval, steps)
	if err != nil {
		return nil, err
	}
	if currentPrice <= 0 {
		currentPrice = candles[len(candles)-1].Close
	}
	return s.band(sel, currentPrice, sigma, confidence)
}

// forecastSigma runs selection and returns the aggregate forecast
// volatility over the horizon.
func (s *Service) forecastSigma(candles []models.Candle, interval models.Interval, steps int) (*Selection, float64, error) {
	if !interval.Valid() {
		return nil, 0, models.NewDataError("interval", "unknown interval")
	}
	if len(candles) < interval.MinCandles() {
		return nil, 0, models.NewDataError("candles", "too few candles for interval")
	}
	sel, err := s.Select(candles, interval)
	if err != nil {
		return nil, 0, err
	}
	fc, err := sel.model.Forecast(sel.Winner.Params, steps)
	if err != nil {
		return nil, 0, err
	}
	total := 0.0
	for _, v := range fc.Variance {
		total += v
	}
	return sel, math.Sqrt(total), nil
}

func (s *Service) band(sel *Selection, currentPrice, sigma, confidence float64) (*models.PredictionResult, error) {
	if confidence == 0 {
		confidence = DefaultConfidence
	}
	if confidence <= 0 || confidence >= 1 {
		return nil, models.NewDataError("confidence", "must lie in (0, 1)")
	}
	z := diagnostics.Probit((1 + confidence) / 2)
	move := z * sigma

	res := &models.PredictionResult{
		CurrentPrice: currentPrice,
		Sigma:        sigma,
		Move:         move,
		UpperPrice:   currentPrice * math.Exp(move),
		LowerPrice:   currentPrice * math.Exp(-move),
		Model:        sel.Winner.Model,
		Reliable:     sel.Reliable,
	}
	s.log.Debug("prediction band",
		logger.String("model", string(res.Model)),
		logger.Float64("sigma", sigma),
		logger.Float64("upper", res.UpperPrice),
		logger.Float64("lower", res.LowerPrice))
	return res, nil
}
