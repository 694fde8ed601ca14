package volmodel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VolCast/internal/domain/models"
	"VolCast/internal/synth"
)

func egarchCandles(seed int64, n int) []models.Candle {
	// Leverage path: negative gamma amplifies variance after down moves.
	logUncond := math.Log(4.1e-5)
	return synth.EGARCH(synth.PathConfig{Seed: seed, N: n},
		logUncond*(1-0.95), 0.12, -0.08, 0.95)
}

func TestEGARCHFitStationary(t *testing.T) {
	e, err := NewEGARCHFromCandles(egarchCandles(21, 500), testOptions())
	require.NoError(t, err)

	cal, err := e.Fit()
	require.NoError(t, err)
	require.Equal(t, models.ModelEGARCH, cal.Model)

	p := cal.Params.(models.EGARCHParams)
	assert.Less(t, math.Abs(p.Beta), maxPersistence)
	assert.Greater(t, p.DF, minDF)
	assert.Greater(t, p.UnconditionalVariance, 0.0)
	assert.Equal(t, p.Beta, cal.Params.Persistence())
}

func TestEGARCHVarianceAlwaysPositive(t *testing.T) {
	// Positivity holds by construction even for hostile parameter sets.
	e, err := NewEGARCHFromCandles(egarchCandles(22, 200), testOptions())
	require.NoError(t, err)

	p := models.EGARCHParams{Omega: -3, Alpha: 2.5, Gamma: -1.5, Beta: 0.9, DF: 5}
	h, err := e.VarianceSeries(p)
	require.NoError(t, err)
	for i, v := range h {
		assert.Greater(t, v, 0.0, "h[%d]", i)
		assert.False(t, math.IsInf(v, 0), "h[%d]", i)
	}
}

func TestEGARCHLogVarianceClamped(t *testing.T) {
	e, err := NewEGARCHFromCandles(egarchCandles(22, 200), testOptions())
	require.NoError(t, err)

	// Explosive coefficients drive ln h toward the clamp, not past it.
	p := models.EGARCHParams{Omega: 5, Alpha: 4, Gamma: 0, Beta: 0.99, DF: 5}
	h, err := e.VarianceSeries(p)
	require.NoError(t, err)
	ceiling := math.Exp(logVarClamp)
	for _, v := range h {
		assert.LessOrEqual(t, v, ceiling)
	}
}

func TestEGARCHForecastDecaysTowardUnconditional(t *testing.T) {
	e, err := NewEGARCHFromCandles(egarchCandles(23, 400), testOptions())
	require.NoError(t, err)
	cal, err := e.Fit()
	require.NoError(t, err)
	p := cal.Params.(models.EGARCHParams)

	fc, err := e.Forecast(cal.Params, 50)
	require.NoError(t, err)
	require.Len(t, fc.Variance, 50)

	if math.Abs(p.Beta) < 1 && !math.IsInf(p.UnconditionalVariance, 0) {
		farGap := math.Abs(math.Log(fc.Variance[49]) - math.Log(p.UnconditionalVariance))
		nearGap := math.Abs(math.Log(fc.Variance[0]) - math.Log(p.UnconditionalVariance))
		assert.LessOrEqual(t, farGap, nearGap+1e-9)
	}
}

func TestEGARCHRejectsWrongParams(t *testing.T) {
	e, err := NewEGARCHFromCandles(egarchCandles(23, 100), testOptions())
	require.NoError(t, err)
	_, err = e.VarianceSeries(models.GARCHParams{})
	assert.Error(t, err)
	_, err = e.Forecast(models.GARCHParams{}, 1)
	assert.Error(t, err)
}
