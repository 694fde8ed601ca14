package forecast

import (
	"math"
	"math/rand"
	"time"

	"VolCast/internal/domain/models"
	"VolCast/internal/services/volmodel"
	"VolCast/internal/synth"
	"VolCast/pkg/logger"
	"VolCast/pkg/metrics"
)

// fastService keeps the calibration budget small so the walk-forward tests
// stay quick.
func fastService() *Service {
	opts := volmodel.DefaultOptions()
	opts.MaxIter = 500
	opts.Tol = 1e-7
	opts.Restarts = 1
	return New(logger.Nop(), metrics.NopRecorder{}, opts)
}

func hourlyGARCH(seed int64, n int) []models.Candle {
	return synth.GARCH(synth.PathConfig{Seed: seed, N: n}, 1.23e-6, 0.07, 0.9)
}

func hourlyConstant(seed int64, n int) []models.Candle {
	return synth.ConstantVol(synth.PathConfig{Seed: seed, N: n}, 0.01)
}

func egarchPath(seed int64, n int) []models.Candle {
	return synth.EGARCH(synth.PathConfig{Seed: seed, N: n},
		0.05*math.Log(4.1e-5), 0.12, -0.08, 0.95)
}

func gjrPath(seed int64, n int) []models.Candle {
	return synth.GJR(synth.PathConfig{Seed: seed, N: n}, 1.2e-6, 0.03, 0.1, 0.88)
}

// explodingVarianceCandles grows the per-bar volatility geometrically so
// any variance regression over the path is non-stationary. The bars carry
// no range beyond the open-to-close body.
func explodingVarianceCandles(seed int64, n int) []models.Candle {
	rng := rand.New(rand.NewSource(seed))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, n)
	price := 100.0
	sigma := 0.002
	for i := range out {
		open := price
		price *= math.Exp(sigma * rng.NormFloat64())
		out[i] = models.Candle{
			Open:      open,
			High:      math.Max(open, price),
			Low:       math.Min(open, price),
			Close:     price,
			Volume:    1000,
			Timestamp: start.Add(time.Duration(i) * time.Hour),
		}
		sigma *= 1.02
	}
	return out
}
