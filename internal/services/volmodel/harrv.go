package volmodel

import (
	"fmt"
	"math"

	"VolCast/internal/domain/models"
	"VolCast/internal/services/diagnostics"
)

// HAR-RV horizon lengths in periods.
const (
	harWeekly  = 5
	harMonthly = 22
)

// HARRV is the heterogeneous autoregressive realized-variance model: an OLS
// regression of the variance proxy on its own daily, weekly, and monthly
// averages. No likelihood optimization is involved; the Student-t degrees of
// freedom are profiled afterwards against the fitted series.
type HARRV struct {
	*series
}

// NewHARRVFromCandles builds a HAR-RV model over an OHLC candle snapshot.
func NewHARRVFromCandles(candles []models.Candle, opts Options) (*HARRV, error) {
	s, err := newSeriesFromCandles(candles, opts)
	if err != nil {
		return nil, err
	}
	return &HARRV{series: s}, nil
}

// NewHARRVFromPrices builds a HAR-RV model over a bare price series.
func NewHARRVFromPrices(prices []float64, opts Options) (*HARRV, error) {
	s, err := newSeriesFromPrices(prices, opts)
	if err != nil {
		return nil, err
	}
	return &HARRV{series: s}, nil
}

func (h *HARRV) Type() models.ModelType { return models.ModelHARRV }

// regressors returns [1, rv_{t-1}, mean(rv_{t-5..t-1}), mean(rv_{t-22..t-1})]
// for observation t.
func (h *HARRV) regressors(t int) []float64 {
	return []float64{1, h.rv[t-1], trailingMean(h.rv, t, harWeekly), trailingMean(h.rv, t, harMonthly)}
}

// Fit runs the OLS regression over t >= 22 via the normal equations, then
// profiles the Student-t df against the fitted variance series.
func (h *HARRV) Fit() (*models.Calibration, error) {
	n := len(h.rv)
	if n <= harMonthly+1 {
		return nil, models.NewDataError("candles", "too few observations for har-rv lags")
	}

	var rows [][]float64
	var targets []float64
	for t := harMonthly; t < n; t++ {
		rows = append(rows, h.regressors(t))
		targets = append(targets, h.rv[t])
	}
	coef, err := solveNormalEquations(rows, targets)
	if err != nil {
		return nil, err
	}

	mean := 0.0
	for _, y := range targets {
		mean += y
	}
	mean /= float64(len(targets))
	ssRes, ssTot := 0.0, 0.0
	for i, row := range rows {
		fit := dot(coef, row)
		d := targets[i] - fit
		ssRes += d * d
		dt := targets[i] - mean
		ssTot += dt * dt
	}
	r2 := 0.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}
	if r2 < 0 {
		return nil, fmt.Errorf("har-rv regression fits worse than the mean: %w", ErrModelUnavailable)
	}

	params := models.HARRVParams{
		Intercept: coef[0],
		BetaD:     coef[1],
		BetaW:     coef[2],
		BetaM:     coef[3],
		R2:        r2,
	}
	if params.Persistence() >= 1 {
		return nil, fmt.Errorf("har-rv persistence %.4f is non-stationary: %w", params.Persistence(), ErrModelUnavailable)
	}
	variance, err := h.VarianceSeries(params)
	if err != nil {
		return nil, err
	}
	df, ll, evals := profileStudentDF(h.returns, variance)
	params.DF = df

	return &models.Calibration{
		Model:         models.ModelHARRV,
		Params:        params,
		LogLikelihood: ll,
		AIC:           diagnostics.AIC(ll, params.NumParams()),
		BIC:           diagnostics.BIC(ll, params.NumParams(), len(h.returns)),
		Iterations:    evals,
		Converged:     true,
	}, nil
}

// VarianceSeries evaluates the regression as a conditional-variance series.
// The first 22 entries, where the monthly lag is incomplete, carry the
// initial variance; fitted values are floored at the variance floor.
func (h *HARRV) VarianceSeries(p models.Params) ([]float64, error) {
	hp, ok := p.(models.HARRVParams)
	if !ok {
		return nil, models.NewDataError("params", "expected HARRVParams")
	}
	coef := []float64{hp.Intercept, hp.BetaD, hp.BetaW, hp.BetaM}
	out := make([]float64, len(h.rv))
	for t := range out {
		if t < harMonthly {
			out[t] = h.initVar
			continue
		}
		v := dot(coef, h.regressors(t))
		if v < h.opts.VarianceFloor {
			v = h.opts.VarianceFloor
		}
		out[t] = v
	}
	if !allPositiveFinite(out) {
		return nil, models.NewDataError("variance", "non-positive or non-finite conditional variance")
	}
	return out, nil
}

// Forecast iterates the regression forward, appending each forecast to the
// proxy history so later steps see it through the lagged averages.
// steps <= 0 degenerates to a single step.
func (h *HARRV) Forecast(p models.Params, steps int) (*models.VolatilityForecast, error) {
	hp, ok := p.(models.HARRVParams)
	if !ok {
		return nil, models.NewDataError("params", "expected HARRVParams")
	}
	if steps < 1 {
		steps = 1
	}
	coef := []float64{hp.Intercept, hp.BetaD, hp.BetaW, hp.BetaM}
	ext := make([]float64, len(h.rv), len(h.rv)+steps)
	copy(ext, h.rv)

	variance := make([]float64, steps)
	for k := 0; k < steps; k++ {
		t := len(ext)
		row := []float64{1, ext[t-1], trailingMean(ext, t, harWeekly), trailingMean(ext, t, harMonthly)}
		v := dot(coef, row)
		if v < h.opts.VarianceFloor {
			v = h.opts.VarianceFloor
		}
		variance[k] = v
		ext = append(ext, v)
	}
	return models.NewVolatilityForecast(variance, h.opts.PeriodsPerYear), nil
}

// trailingMean averages xs over the window [t-w, t).
func trailingMean(xs []float64, t, w int) float64 {
	sum := 0.0
	for i := t - w; i < t; i++ {
		sum += xs[i]
	}
	return sum / float64(w)
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// solveNormalEquations computes the least-squares coefficients of rows*coef
// = targets by forming X'X and X'y and Gaussian elimination with partial
// pivoting.
func solveNormalEquations(rows [][]float64, targets []float64) ([]float64, error) {
	k := len(rows[0])
	xtx := make([][]float64, k)
	xty := make([]float64, k)
	for i := range xtx {
		xtx[i] = make([]float64, k)
	}
	for r, row := range rows {
		for i := 0; i < k; i++ {
			xty[i] += row[i] * targets[r]
			for j := 0; j < k; j++ {
				xtx[i][j] += row[i] * row[j]
			}
		}
	}
	return solveLinearSystem(xtx, xty)
}

func solveLinearSystem(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-14 {
			return nil, models.NewDataError("regression", "singular design matrix")
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]
		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c < n; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}
	x := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := b[r]
		for c := r + 1; c < n; c++ {
			sum -= a[r][c] * x[c]
		}
		x[r] = sum / a[r][r]
	}
	return x, nil
}
