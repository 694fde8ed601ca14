package models

import "math"

// Calibration is the outcome of one Fit call. It is immutable and owned by
// the caller; model instances never share it.
type Calibration struct {
	Model         ModelType
	Params        Params
	LogLikelihood float64
	AIC           float64
	BIC           float64
	Iterations    int
	Converged     bool
}

// VolatilityForecast carries one entry per forecast step.
type VolatilityForecast struct {
	Variance   []float64 // conditional variance per step
	Volatility []float64 // sqrt(variance)
	Annualized []float64 // sqrt(variance * periodsPerYear) * 100, percent
}

// NewVolatilityForecast derives the volatility and annualized sequences from
// a per-step variance sequence.
func NewVolatilityForecast(variance []float64, periodsPerYear float64) *VolatilityForecast {
	f := &VolatilityForecast{
		Variance:   variance,
		Volatility: make([]float64, len(variance)),
		Annualized: make([]float64, len(variance)),
	}
	for i, v := range variance {
		f.Volatility[i] = math.Sqrt(v)
		f.Annualized[i] = math.Sqrt(v*periodsPerYear) * 100
	}
	return f
}

// PredictionResult is the confidence-banded price range produced by the
// predictor for the winning model.
type PredictionResult struct {
	CurrentPrice float64
	Sigma        float64 // per-period volatility of the forecast horizon
	Move         float64 // z * sigma, the banded log move
	UpperPrice   float64 // currentPrice * exp(+move)
	LowerPrice   float64 // currentPrice * exp(-move)
	Model        ModelType
	Reliable     bool
}
