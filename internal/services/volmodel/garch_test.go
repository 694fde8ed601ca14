package volmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VolCast/internal/domain/models"
)

func TestGARCHFitRecoversStationaryProcess(t *testing.T) {
	g, err := NewGARCHFromCandles(garchCandles(11, 500), testOptions())
	require.NoError(t, err)

	cal, err := g.Fit()
	require.NoError(t, err)
	require.Equal(t, models.ModelGARCH, cal.Model)

	p := cal.Params.(models.GARCHParams)
	assert.Greater(t, p.Omega, 0.0)
	assert.GreaterOrEqual(t, p.Alpha, 0.0)
	assert.GreaterOrEqual(t, p.Beta, 0.0)
	assert.Less(t, p.Persist, maxPersistence)
	assert.Greater(t, p.Persist, 0.5, "a persistent process should fit persistent")
	assert.Greater(t, p.DF, minDF)
	assert.LessOrEqual(t, p.DF, float64(maxDF))
	assert.Greater(t, p.UnconditionalVariance, 0.0)
	assert.Greater(t, p.AnnualizedVol, 0.0)
	assert.False(t, cal.LogLikelihood == 0)
	assert.Greater(t, cal.Iterations, 0)
}

func TestGARCHVarianceSeriesPositive(t *testing.T) {
	g, err := NewGARCHFromCandles(garchCandles(12, 300), testOptions())
	require.NoError(t, err)
	cal, err := g.Fit()
	require.NoError(t, err)

	h, err := g.VarianceSeries(cal.Params)
	require.NoError(t, err)
	require.Len(t, h, len(g.Returns()))
	for i, v := range h {
		assert.Greater(t, v, 0.0, "h[%d]", i)
	}
}

func TestGARCHVarianceSeriesRejectsBadParams(t *testing.T) {
	g, err := NewGARCHFromCandles(garchCandles(12, 100), testOptions())
	require.NoError(t, err)

	tests := []struct {
		name   string
		params models.Params
	}{
		{"wrong type", models.EGARCHParams{}},
		{"zero omega", models.GARCHParams{Omega: 0, Alpha: 0.1, Beta: 0.8}},
		{"negative alpha", models.GARCHParams{Omega: 1e-6, Alpha: -0.1, Beta: 0.8}},
		{"negative beta", models.GARCHParams{Omega: 1e-6, Alpha: 0.1, Beta: -0.8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.VarianceSeries(tt.params)
			assert.Error(t, err)
		})
	}
}

func TestGARCHForecast(t *testing.T) {
	g, err := NewGARCHFromCandles(garchCandles(13, 400), testOptions())
	require.NoError(t, err)
	cal, err := g.Fit()
	require.NoError(t, err)

	fc, err := g.Forecast(cal.Params, 5)
	require.NoError(t, err)
	require.Len(t, fc.Variance, 5)
	for k, v := range fc.Variance {
		assert.Greater(t, v, 0.0, "step %d", k)
		assert.Greater(t, fc.Annualized[k], 0.0)
	}

	// Multi-step forecasts decay geometrically toward the unconditional
	// variance, so consecutive gaps shrink.
	p := cal.Params.(models.GARCHParams)
	gap1 := fc.Variance[1] - fc.Variance[0]
	gap2 := fc.Variance[2] - fc.Variance[1]
	assert.InDelta(t, p.Persist, gap2/gap1, 1e-6)
}

func TestGARCHForecastDegenerateSteps(t *testing.T) {
	g, err := NewGARCHFromCandles(garchCandles(13, 200), testOptions())
	require.NoError(t, err)
	cal, err := g.Fit()
	require.NoError(t, err)

	for _, steps := range []int{0, -3} {
		fc, err := g.Forecast(cal.Params, steps)
		require.NoError(t, err)
		assert.Len(t, fc.Variance, 1, "steps=%d", steps)
	}
}

func TestGARCHFromPrices(t *testing.T) {
	candles := garchCandles(14, 300)
	prices := make([]float64, len(candles))
	for i, c := range candles {
		prices[i] = c.Close
	}
	g, err := NewGARCHFromPrices(prices, testOptions())
	require.NoError(t, err)
	cal, err := g.Fit()
	require.NoError(t, err)
	assert.Less(t, cal.Params.Persistence(), maxPersistence)
}

func TestGARCHObjectivePenalizesConstraints(t *testing.T) {
	g, err := NewGARCHFromCandles(garchCandles(15, 100), testOptions())
	require.NoError(t, err)

	penalty := g.opts.Penalty
	assert.Equal(t, penalty, g.objective([]float64{-1e-6, 0.1, 0.8, 8}))
	assert.Equal(t, penalty, g.objective([]float64{1e-6, -0.1, 0.8, 8}))
	assert.Equal(t, penalty, g.objective([]float64{1e-6, 0.3, 0.75, 8}), "alpha+beta above ceiling")
	assert.Equal(t, penalty, g.objective([]float64{1e-6, 0.1, 0.8, 1.5}), "df too small")
	assert.Less(t, g.objective([]float64{1e-6, 0.1, 0.8, 8}), penalty)
}
