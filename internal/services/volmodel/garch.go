package volmodel

import (
	"math"

	"VolCast/internal/domain/models"
	"VolCast/internal/services/diagnostics"
	"VolCast/pkg/optimize"
)

// GARCH implements the GARCH(1,1) recursion
//
//	h_t = omega + alpha*I_{t-1} + beta*h_{t-1}
//
// where I is the realized-variance proxy (or squared return for bare price
// input). Calibration maximizes the Student-t likelihood with the degrees of
// freedom estimated jointly.
type GARCH struct {
	*series
}

// NewGARCHFromCandles builds a GARCH model over an OHLC candle snapshot.
func NewGARCHFromCandles(candles []models.Candle, opts Options) (*GARCH, error) {
	s, err := newSeriesFromCandles(candles, opts)
	if err != nil {
		return nil, err
	}
	return &GARCH{series: s}, nil
}

// NewGARCHFromPrices builds a GARCH model over a bare price series.
func NewGARCHFromPrices(prices []float64, opts Options) (*GARCH, error) {
	s, err := newSeriesFromPrices(prices, opts)
	if err != nil {
		return nil, err
	}
	return &GARCH{series: s}, nil
}

func (g *GARCH) Type() models.ModelType { return models.ModelGARCH }

// objective maps stationarity and positivity violations to a large finite
// penalty so the optimizer can navigate away instead of crashing.
func (g *GARCH) objective(x []float64) float64 {
	omega, alpha, beta, df := x[0], x[1], x[2], x[3]
	if omega <= 0 || alpha < 0 || beta < 0 || alpha+beta >= maxPersistence ||
		df <= minDF || df > maxDF {
		return g.opts.Penalty
	}

	h := g.initVar
	nll := 0.0
	for t := range g.returns {
		if t > 0 {
			h = omega + alpha*g.rv[t-1] + beta*h
		}
		if h < g.opts.VarianceFloor {
			h = g.opts.VarianceFloor
		}
		nll -= studentLogDensity(g.returns[t], h, df)
	}
	if !isFinite(nll) {
		return g.opts.Penalty
	}
	return nll
}

// Fit calibrates omega, alpha, beta, and the Student-t df by multi-start
// Nelder-Mead over the penalized negative log likelihood.
func (g *GARCH) Fit() (*models.Calibration, error) {
	const alpha0, beta0 = 0.08, 0.88
	omega0 := g.initVar * (1 - alpha0 - beta0)
	if omega0 < g.opts.VarianceFloor {
		omega0 = g.opts.VarianceFloor
	}
	x0 := []float64{omega0, alpha0, beta0, 8}

	res := optimize.MultiStart(g.objective, x0, g.opts.Restarts, g.opts.optimizer())

	omega, alpha, beta, df := res.X[0], res.X[1], res.X[2], res.X[3]
	persistence := alpha + beta
	uncond := math.Inf(1)
	if persistence < 1 {
		uncond = omega / (1 - persistence)
	}
	params := models.GARCHParams{
		Omega:                 omega,
		Alpha:                 alpha,
		Beta:                  beta,
		Persist:               persistence,
		UnconditionalVariance: uncond,
		AnnualizedVol:         math.Sqrt(uncond*g.opts.PeriodsPerYear) * 100,
		DF:                    df,
	}
	if _, err := g.VarianceSeries(params); err != nil {
		return nil, err
	}

	n := len(g.returns)
	ll := -res.Value
	return &models.Calibration{
		Model:         models.ModelGARCH,
		Params:        params,
		LogLikelihood: ll,
		AIC:           diagnostics.AIC(ll, params.NumParams()),
		BIC:           diagnostics.BIC(ll, params.NumParams(), n),
		Iterations:    res.Iterations,
		Converged:     res.Converged && res.Value < g.opts.Penalty,
	}, nil
}

// VarianceSeries replays the recursion from the stored initial variance.
func (g *GARCH) VarianceSeries(p models.Params) ([]float64, error) {
	gp, ok := p.(models.GARCHParams)
	if !ok {
		return nil, models.NewDataError("params", "expected GARCHParams")
	}
	if gp.Omega <= 0 || gp.Alpha < 0 || gp.Beta < 0 {
		return nil, models.NewDataError("params", "garch parameters violate positivity")
	}
	h := make([]float64, len(g.returns))
	h[0] = g.initVar
	for t := 1; t < len(h); t++ {
		h[t] = gp.Omega + gp.Alpha*g.rv[t-1] + gp.Beta*h[t-1]
	}
	if !allPositiveFinite(h) {
		return nil, models.NewDataError("variance", "non-positive or non-finite conditional variance")
	}
	return h, nil
}

// Forecast computes the one-step-ahead variance from the last realized
// innovation, then iterates the unconditional recursion. steps <= 0
// degenerates to a single step.
func (g *GARCH) Forecast(p models.Params, steps int) (*models.VolatilityForecast, error) {
	gp, ok := p.(models.GARCHParams)
	if !ok {
		return nil, models.NewDataError("params", "expected GARCHParams")
	}
	if steps < 1 {
		steps = 1
	}
	series, err := g.VarianceSeries(p)
	if err != nil {
		return nil, err
	}
	last := series[len(series)-1]
	lastInnovation := g.rv[len(g.rv)-1]

	variance := make([]float64, steps)
	variance[0] = gp.Omega + gp.Alpha*lastInnovation + gp.Beta*last
	for k := 1; k < steps; k++ {
		variance[k] = gp.Omega + gp.Persist*variance[k-1]
	}
	for k := range variance {
		if variance[k] < g.opts.VarianceFloor {
			variance[k] = g.opts.VarianceFloor
		}
	}
	return models.NewVolatilityForecast(variance, g.opts.PeriodsPerYear), nil
}
