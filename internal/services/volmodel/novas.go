package volmodel

import (
	"fmt"

	"VolCast/internal/domain/models"
	"VolCast/internal/services/diagnostics"
	"VolCast/pkg/optimize"
)

// novasLags are the fixed lag offsets carrying the NoVaS weights.
var novasLags = []int{1, 4, 7, 10}

// NoVaS is a normalizing-and-variance-stabilizing predictor: the conditional
// variance is a fixed-lag weighted combination of past realized variance,
//
//	h_t = w_1*rv_{t-1} + w_2*rv_{t-4} + w_3*rv_{t-7} + w_4*rv_{t-10}
//
// with the weights chosen to minimize QLIKE against the proxy series rather
// than a likelihood. The df is profiled afterwards, like HAR-RV.
type NoVaS struct {
	*series
}

// NewNoVaSFromCandles builds a NoVaS model over an OHLC candle snapshot.
func NewNoVaSFromCandles(candles []models.Candle, opts Options) (*NoVaS, error) {
	s, err := newSeriesFromCandles(candles, opts)
	if err != nil {
		return nil, err
	}
	return &NoVaS{series: s}, nil
}

// NewNoVaSFromPrices builds a NoVaS model over a bare price series.
func NewNoVaSFromPrices(prices []float64, opts Options) (*NoVaS, error) {
	s, err := newSeriesFromPrices(prices, opts)
	if err != nil {
		return nil, err
	}
	return &NoVaS{series: s}, nil
}

func (m *NoVaS) Type() models.ModelType { return models.ModelNoVaS }

func (m *NoVaS) maxLag() int { return novasLags[len(novasLags)-1] }

// replay evaluates the weighted combination, carrying the initial variance
// until the deepest lag is available.
func (m *NoVaS) replay(weights []float64) []float64 {
	h := make([]float64, len(m.rv))
	for t := range h {
		if t < m.maxLag() {
			h[t] = m.initVar
			continue
		}
		v := 0.0
		for i, lag := range novasLags {
			v += weights[i] * m.rv[t-lag]
		}
		if v < m.opts.VarianceFloor {
			v = m.opts.VarianceFloor
		}
		h[t] = v
	}
	return h
}

func (m *NoVaS) objective(w []float64) float64 {
	for _, wi := range w {
		if wi < 0 {
			return m.opts.Penalty
		}
	}
	q := diagnostics.QLIKE(m.replay(w), m.rv)
	if !isFinite(q) {
		return m.opts.Penalty
	}
	return q
}

// Fit calibrates the lag weights by multi-start Nelder-Mead on the QLIKE
// loss, then profiles the Student-t df against the fitted series.
func (m *NoVaS) Fit() (*models.Calibration, error) {
	if len(m.rv) <= m.maxLag()+1 {
		return nil, models.NewDataError("candles", "too few observations for novas lags")
	}
	x0 := []float64{0.35, 0.25, 0.2, 0.15}

	res := optimize.MultiStart(m.objective, x0, m.opts.Restarts, m.opts.optimizer())

	weights := make([]float64, len(res.X))
	copy(weights, res.X)
	params := models.NoVaSParams{Lags: append([]int(nil), novasLags...), Weights: weights}
	if params.Persistence() >= 1 {
		return nil, fmt.Errorf("novas weights sum to %.4f: %w", params.Persistence(), ErrModelUnavailable)
	}
	variance, err := m.VarianceSeries(params)
	if err != nil {
		return nil, err
	}
	df, ll, _ := profileStudentDF(m.returns, variance)
	params.DF = df

	return &models.Calibration{
		Model:         models.ModelNoVaS,
		Params:        params,
		LogLikelihood: ll,
		AIC:           diagnostics.AIC(ll, params.NumParams()),
		BIC:           diagnostics.BIC(ll, params.NumParams(), len(m.returns)),
		Iterations:    res.Iterations,
		Converged:     res.Converged && res.Value < m.opts.Penalty,
	}, nil
}

// VarianceSeries evaluates the weighted combination over the proxy history.
func (m *NoVaS) VarianceSeries(p models.Params) ([]float64, error) {
	np, ok := p.(models.NoVaSParams)
	if !ok {
		return nil, models.NewDataError("params", "expected NoVaSParams")
	}
	if len(np.Weights) != len(novasLags) {
		return nil, models.NewDataError("params", "weight count does not match lag count")
	}
	for _, w := range np.Weights {
		if w < 0 {
			return nil, models.NewDataError("params", "negative novas weight")
		}
	}
	h := m.replay(np.Weights)
	if !allPositiveFinite(h) {
		return nil, models.NewDataError("variance", "non-positive or non-finite conditional variance")
	}
	return h, nil
}

// Forecast iterates the combination forward, appending each forecast to the
// proxy history so later steps read it back through the lags. steps <= 0
// degenerates to a single step.
func (m *NoVaS) Forecast(p models.Params, steps int) (*models.VolatilityForecast, error) {
	np, ok := p.(models.NoVaSParams)
	if !ok {
		return nil, models.NewDataError("params", "expected NoVaSParams")
	}
	if _, err := m.VarianceSeries(np); err != nil {
		return nil, err
	}
	if steps < 1 {
		steps = 1
	}
	ext := make([]float64, len(m.rv), len(m.rv)+steps)
	copy(ext, m.rv)

	variance := make([]float64, steps)
	for k := 0; k < steps; k++ {
		t := len(ext)
		v := 0.0
		for i, lag := range novasLags {
			v += np.Weights[i] * ext[t-lag]
		}
		if v < m.opts.VarianceFloor {
			v = m.opts.VarianceFloor
		}
		variance[k] = v
		ext = append(ext, v)
	}
	return models.NewVolatilityForecast(variance, m.opts.PeriodsPerYear), nil
}
