package volmodel

import (
	"math"

	"VolCast/internal/domain/models"
	"VolCast/internal/services/diagnostics"
	"VolCast/pkg/optimize"
)

// GJR implements the Glosten-Jagannathan-Runkle GARCH(1,1) recursion
//
//	h_t = omega + (alpha + gamma*1{r_{t-1}<0})*I_{t-1} + beta*h_{t-1}
//
// where the indicator loads the extra gamma onto innovations following a
// negative return. Under a symmetric return distribution the indicator has
// expectation 1/2, so forecast persistence is alpha + gamma/2 + beta.
type GJR struct {
	*series
}

// NewGJRFromCandles builds a GJR-GARCH model over an OHLC candle snapshot.
func NewGJRFromCandles(candles []models.Candle, opts Options) (*GJR, error) {
	s, err := newSeriesFromCandles(candles, opts)
	if err != nil {
		return nil, err
	}
	return &GJR{series: s}, nil
}

// NewGJRFromPrices builds a GJR-GARCH model over a bare price series.
func NewGJRFromPrices(prices []float64, opts Options) (*GJR, error) {
	s, err := newSeriesFromPrices(prices, opts)
	if err != nil {
		return nil, err
	}
	return &GJR{series: s}, nil
}

func (g *GJR) Type() models.ModelType { return models.ModelGJR }

func (g *GJR) objective(x []float64) float64 {
	omega, alpha, gamma, beta, df := x[0], x[1], x[2], x[3], x[4]
	if omega <= 0 || alpha < 0 || beta < 0 || alpha+gamma < 0 ||
		alpha+gamma/2+beta >= maxPersistence || df <= minDF || df > maxDF {
		return g.opts.Penalty
	}

	h := g.initVar
	nll := 0.0
	for t := range g.returns {
		if t > 0 {
			load := alpha
			if g.returns[t-1] < 0 {
				load += gamma
			}
			h = omega + load*g.rv[t-1] + beta*h
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

// Fit calibrates omega, alpha, gamma, beta, and df by multi-start
// Nelder-Mead over the penalized negative log likelihood.
func (g *GJR) Fit() (*models.Calibration, error) {
	const alpha0, gamma0, beta0 = 0.05, 0.08, 0.86
	omega0 := g.initVar * (1 - alpha0 - gamma0/2 - beta0)
	if omega0 < g.opts.VarianceFloor {
		omega0 = g.opts.VarianceFloor
	}
	x0 := []float64{omega0, alpha0, gamma0, beta0, 8}

	res := optimize.MultiStart(g.objective, x0, g.opts.Restarts, g.opts.optimizer())

	omega, alpha, gamma, beta, df := res.X[0], res.X[1], res.X[2], res.X[3], res.X[4]
	persistence := alpha + gamma/2 + beta
	uncond := math.Inf(1)
	if persistence < 1 {
		uncond = omega / (1 - persistence)
	}
	params := models.GJRParams{
		Omega:                 omega,
		Alpha:                 alpha,
		Gamma:                 gamma,
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
		Model:         models.ModelGJR,
		Params:        params,
		LogLikelihood: ll,
		AIC:           diagnostics.AIC(ll, params.NumParams()),
		BIC:           diagnostics.BIC(ll, params.NumParams(), n),
		Iterations:    res.Iterations,
		Converged:     res.Converged && res.Value < g.opts.Penalty,
	}, nil
}

// VarianceSeries replays the recursion from the stored initial variance.
func (g *GJR) VarianceSeries(p models.Params) ([]float64, error) {
	gp, ok := p.(models.GJRParams)
	if !ok {
		return nil, models.NewDataError("params", "expected GJRParams")
	}
	if gp.Omega <= 0 || gp.Alpha < 0 || gp.Beta < 0 || gp.Alpha+gp.Gamma < 0 {
		return nil, models.NewDataError("params", "gjr parameters violate positivity")
	}
	h := make([]float64, len(g.returns))
	h[0] = g.initVar
	for t := 1; t < len(h); t++ {
		load := gp.Alpha
		if g.returns[t-1] < 0 {
			load += gp.Gamma
		}
		h[t] = gp.Omega + load*g.rv[t-1] + gp.Beta*h[t-1]
	}
	if !allPositiveFinite(h) {
		return nil, models.NewDataError("variance", "non-positive or non-finite conditional variance")
	}
	return h, nil
}

// Forecast computes the one-step-ahead variance from the last observed
// innovation and sign, then iterates with the expected indicator loading.
// steps <= 0 degenerates to a single step.
func (g *GJR) Forecast(p models.Params, steps int) (*models.VolatilityForecast, error) {
	gp, ok := p.(models.GJRParams)
	if !ok {
		return nil, models.NewDataError("params", "expected GJRParams")
	}
	if steps < 1 {
		steps = 1
	}
	series, err := g.VarianceSeries(p)
	if err != nil {
		return nil, err
	}
	last := series[len(series)-1]
	load := gp.Alpha
	if g.returns[len(g.returns)-1] < 0 {
		load += gp.Gamma
	}

	variance := make([]float64, steps)
	variance[0] = gp.Omega + load*g.rv[len(g.rv)-1] + gp.Beta*last
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
