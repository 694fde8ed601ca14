package volmodel

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VolCast/internal/domain/models"
)

func TestSolveNormalEquationsExact(t *testing.T) {
	// y = 2 + 3*x1 - 0.5*x2 with no noise must be recovered exactly.
	var rows [][]float64
	var targets []float64
	for i := 0; i < 30; i++ {
		x1 := float64(i) * 0.1
		x2 := math.Sin(float64(i))
		rows = append(rows, []float64{1, x1, x2})
		targets = append(targets, 2+3*x1-0.5*x2)
	}
	coef, err := solveNormalEquations(rows, targets)
	require.NoError(t, err)
	assert.InDelta(t, 2, coef[0], 1e-8)
	assert.InDelta(t, 3, coef[1], 1e-8)
	assert.InDelta(t, -0.5, coef[2], 1e-8)
}

func TestSolveLinearSystemSingular(t *testing.T) {
	a := [][]float64{{1, 2}, {2, 4}}
	b := []float64{1, 2}
	_, err := solveLinearSystem(a, b)
	require.Error(t, err)
	assert.True(t, models.IsDataError(err))
}

func TestTrailingMean(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 4.5, trailingMean(xs, 5, 2), 1e-12)
	assert.InDelta(t, 3, trailingMean(xs, 5, 5), 1e-12)
}

func TestHARRVFit(t *testing.T) {
	h, err := NewHARRVFromCandles(garchCandles(41, 400), testOptions())
	require.NoError(t, err)

	cal, err := h.Fit()
	require.NoError(t, err)
	require.Equal(t, models.ModelHARRV, cal.Model)
	assert.True(t, cal.Converged)

	p := cal.Params.(models.HARRVParams)
	assert.GreaterOrEqual(t, p.R2, 0.0)
	assert.LessOrEqual(t, p.R2, 1.0)
	assert.Greater(t, p.DF, minDF)
	assert.Equal(t, 4, p.NumParams())
}

func TestHARRVVarianceSeriesSeedsAndFloors(t *testing.T) {
	h, err := NewHARRVFromCandles(garchCandles(42, 300), testOptions())
	require.NoError(t, err)
	cal, err := h.Fit()
	require.NoError(t, err)

	series, err := h.VarianceSeries(cal.Params)
	require.NoError(t, err)
	require.Len(t, series, len(h.Returns()))

	// The warmup region carries the initial variance until the monthly lag
	// window is complete.
	for i := 0; i < harMonthly; i++ {
		assert.Equal(t, h.InitialVariance(), series[i], "index %d", i)
	}
	for i, v := range series {
		assert.GreaterOrEqual(t, v, h.opts.VarianceFloor, "index %d", i)
	}
}

func TestHARRVForecastExtendsHistory(t *testing.T) {
	h, err := NewHARRVFromCandles(garchCandles(43, 300), testOptions())
	require.NoError(t, err)
	cal, err := h.Fit()
	require.NoError(t, err)

	fc, err := h.Forecast(cal.Params, 30)
	require.NoError(t, err)
	require.Len(t, fc.Variance, 30)
	for _, v := range fc.Variance {
		assert.Greater(t, v, 0.0)
	}
}

func TestHARRVNonStationarySeriesUnavailable(t *testing.T) {
	// A geometrically exploding variance path makes the regression
	// coefficients sum above one; the fit must report the model as
	// unavailable instead of returning an explosive calibration.
	rng := rand.New(rand.NewSource(7))
	prices := make([]float64, 0, 241)
	price := 100.0
	prices = append(prices, price)
	sigma := 0.002
	for i := 0; i < 240; i++ {
		price *= math.Exp(sigma * rng.NormFloat64())
		prices = append(prices, price)
		sigma *= 1.02
	}

	h, err := NewHARRVFromPrices(prices, testOptions())
	require.NoError(t, err)
	_, err = h.Fit()
	require.ErrorIs(t, err, ErrModelUnavailable)
}

func TestHARRVRejectsShortSeries(t *testing.T) {
	// Enough candles to build a series but not to cover the monthly lag
	// is impossible here since MinObservations > 22; the data error comes
	// from the series constructor instead.
	_, err := NewHARRVFromCandles(garchCandles(44, 30), testOptions())
	require.Error(t, err)
	assert.True(t, models.IsDataError(err))
}
