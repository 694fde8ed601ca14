package volmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VolCast/internal/domain/models"
	"VolCast/internal/synth"
)

func gjrCandles(seed int64, n int) []models.Candle {
	return synth.GJR(synth.PathConfig{Seed: seed, N: n}, 1.2e-6, 0.03, 0.1, 0.88)
}

func TestGJRFitStationary(t *testing.T) {
	g, err := NewGJRFromCandles(gjrCandles(31, 500), testOptions())
	require.NoError(t, err)

	cal, err := g.Fit()
	require.NoError(t, err)
	require.Equal(t, models.ModelGJR, cal.Model)

	p := cal.Params.(models.GJRParams)
	assert.Greater(t, p.Omega, 0.0)
	assert.GreaterOrEqual(t, p.Alpha, 0.0)
	assert.GreaterOrEqual(t, p.Beta, 0.0)
	assert.GreaterOrEqual(t, p.Alpha+p.Gamma, 0.0)
	assert.InDelta(t, p.Alpha+p.Gamma/2+p.Beta, p.Persist, 1e-12)
	assert.Less(t, p.Persist, maxPersistence)
	assert.Greater(t, p.Persist, 0.5)
}

func TestGJRVarianceSeriesUsesIndicator(t *testing.T) {
	g, err := NewGJRFromCandles(gjrCandles(32, 300), testOptions())
	require.NoError(t, err)

	// With gamma > 0 the series must sit pointwise at or above the gamma=0
	// series, strictly after any negative return.
	with := models.GJRParams{Omega: 1e-6, Alpha: 0.05, Gamma: 0.1, Beta: 0.85, Persist: 0.95}
	without := models.GJRParams{Omega: 1e-6, Alpha: 0.05, Gamma: 0, Beta: 0.85, Persist: 0.9}

	hWith, err := g.VarianceSeries(with)
	require.NoError(t, err)
	hWithout, err := g.VarianceSeries(without)
	require.NoError(t, err)

	sawNegative := false
	for i := 1; i < len(hWith); i++ {
		assert.GreaterOrEqual(t, hWith[i], hWithout[i])
		if g.Returns()[i-1] < 0 {
			sawNegative = true
			assert.Greater(t, hWith[i], hWithout[i], "after negative return at %d", i)
		}
	}
	assert.True(t, sawNegative)
}

func TestGJRVarianceSeriesRejectsBadParams(t *testing.T) {
	g, err := NewGJRFromCandles(gjrCandles(32, 100), testOptions())
	require.NoError(t, err)

	tests := []struct {
		name   string
		params models.Params
	}{
		{"wrong type", models.GARCHParams{}},
		{"zero omega", models.GJRParams{Alpha: 0.1, Beta: 0.8}},
		{"alpha plus gamma negative", models.GJRParams{Omega: 1e-6, Alpha: 0.05, Gamma: -0.1, Beta: 0.8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.VarianceSeries(tt.params)
			assert.Error(t, err)
		})
	}
}

func TestGJRForecastGeometricDecay(t *testing.T) {
	g, err := NewGJRFromCandles(gjrCandles(33, 400), testOptions())
	require.NoError(t, err)
	cal, err := g.Fit()
	require.NoError(t, err)

	fc, err := g.Forecast(cal.Params, 4)
	require.NoError(t, err)
	require.Len(t, fc.Variance, 4)
	for _, v := range fc.Variance {
		assert.Greater(t, v, 0.0)
	}

	fcOne, err := g.Forecast(cal.Params, 0)
	require.NoError(t, err)
	require.Len(t, fcOne.Variance, 1)
	assert.InDelta(t, fc.Variance[0], fcOne.Variance[0], 1e-15)
}
