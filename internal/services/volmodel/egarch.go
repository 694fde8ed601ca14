package volmodel

import (
	"math"

	"VolCast/internal/domain/models"
	"VolCast/internal/services/diagnostics"
	"VolCast/pkg/optimize"
)

// EGARCH implements the exponential GARCH(1,1) recursion on log variance
//
//	ln h_t = omega + alpha*(|z_{t-1}| - E|z|) + gamma*z_{t-1} + beta*ln h_{t-1}
//
// with z the standardized return. A negative gamma captures the leverage
// effect: down moves raise future variance more than up moves of the same
// size. Positivity of h is automatic, so only |beta| < 1 is constrained.
type EGARCH struct {
	*series
}

// NewEGARCHFromCandles builds an EGARCH model over an OHLC candle snapshot.
func NewEGARCHFromCandles(candles []models.Candle, opts Options) (*EGARCH, error) {
	s, err := newSeriesFromCandles(candles, opts)
	if err != nil {
		return nil, err
	}
	return &EGARCH{series: s}, nil
}

// NewEGARCHFromPrices builds an EGARCH model over a bare price series.
func NewEGARCHFromPrices(prices []float64, opts Options) (*EGARCH, error) {
	s, err := newSeriesFromPrices(prices, opts)
	if err != nil {
		return nil, err
	}
	return &EGARCH{series: s}, nil
}

func (e *EGARCH) Type() models.ModelType { return models.ModelEGARCH }

// replay runs the log-variance recursion, clamping ln h against overflow.
func (e *EGARCH) replay(omega, alpha, gamma, beta, df float64) []float64 {
	absMoment := studentAbsMoment(df)
	h := make([]float64, len(e.returns))
	logH := math.Log(e.initVar)
	h[0] = e.initVar
	for t := 1; t < len(h); t++ {
		z := e.returns[t-1] / math.Sqrt(h[t-1])
		logH = omega + alpha*(math.Abs(z)-absMoment) + gamma*z + beta*logH
		if logH > logVarClamp {
			logH = logVarClamp
		} else if logH < -logVarClamp {
			logH = -logVarClamp
		}
		h[t] = math.Exp(logH)
	}
	return h
}

func (e *EGARCH) objective(x []float64) float64 {
	omega, alpha, gamma, beta, df := x[0], x[1], x[2], x[3], x[4]
	if math.Abs(beta) >= maxPersistence || df <= minDF || df > maxDF {
		return e.opts.Penalty
	}
	nll := studentNLL(e.returns, e.replay(omega, alpha, gamma, beta, df), df)
	if !isFinite(nll) {
		return e.opts.Penalty
	}
	return nll
}

// Fit calibrates omega, alpha, gamma, beta, and df by multi-start
// Nelder-Mead. The initial omega matches the unconditional log variance
// implied by the starting beta.
func (e *EGARCH) Fit() (*models.Calibration, error) {
	const beta0 = 0.95
	x0 := []float64{(1 - beta0) * math.Log(e.initVar), 0.1, -0.05, beta0, 8}

	res := optimize.MultiStart(e.objective, x0, e.opts.Restarts, e.opts.optimizer())

	omega, alpha, gamma, beta, df := res.X[0], res.X[1], res.X[2], res.X[3], res.X[4]
	uncond := math.Inf(1)
	if math.Abs(beta) < 1 {
		uncond = math.Exp(omega / (1 - beta))
	}
	params := models.EGARCHParams{
		Omega:                 omega,
		Alpha:                 alpha,
		Gamma:                 gamma,
		Beta:                  beta,
		UnconditionalVariance: uncond,
		AnnualizedVol:         math.Sqrt(uncond*e.opts.PeriodsPerYear) * 100,
		DF:                    df,
	}
	if _, err := e.VarianceSeries(params); err != nil {
		return nil, err
	}

	n := len(e.returns)
	ll := -res.Value
	return &models.Calibration{
		Model:         models.ModelEGARCH,
		Params:        params,
		LogLikelihood: ll,
		AIC:           diagnostics.AIC(ll, params.NumParams()),
		BIC:           diagnostics.BIC(ll, params.NumParams(), n),
		Iterations:    res.Iterations,
		Converged:     res.Converged && res.Value < e.opts.Penalty,
	}, nil
}

// VarianceSeries replays the recursion from the stored initial variance.
func (e *EGARCH) VarianceSeries(p models.Params) ([]float64, error) {
	ep, ok := p.(models.EGARCHParams)
	if !ok {
		return nil, models.NewDataError("params", "expected EGARCHParams")
	}
	if ep.DF <= minDF {
		return nil, models.NewDataError("params", "degrees of freedom out of range")
	}
	h := e.replay(ep.Omega, ep.Alpha, ep.Gamma, ep.Beta, ep.DF)
	if !allPositiveFinite(h) {
		return nil, models.NewDataError("variance", "non-positive or non-finite conditional variance")
	}
	return h, nil
}

// Forecast iterates ln h_k = omega + beta*ln h_{k-1} from the one-step-ahead
// log variance. The symmetric and asymmetric shock terms have zero mean under
// the fitted distribution, so they drop out beyond the first step; the first
// step keeps them because the last innovation is observed.
func (e *EGARCH) Forecast(p models.Params, steps int) (*models.VolatilityForecast, error) {
	ep, ok := p.(models.EGARCHParams)
	if !ok {
		return nil, models.NewDataError("params", "expected EGARCHParams")
	}
	if steps < 1 {
		steps = 1
	}
	series, err := e.VarianceSeries(p)
	if err != nil {
		return nil, err
	}
	last := series[len(series)-1]
	z := e.returns[len(e.returns)-1] / math.Sqrt(last)
	absMoment := studentAbsMoment(ep.DF)

	logH := ep.Omega + ep.Alpha*(math.Abs(z)-absMoment) + ep.Gamma*z + ep.Beta*math.Log(last)
	variance := make([]float64, steps)
	for k := 0; k < steps; k++ {
		if k > 0 {
			logH = ep.Omega + ep.Beta*logH
		}
		if logH > logVarClamp {
			logH = logVarClamp
		} else if logH < -logVarClamp {
			logH = -logVarClamp
		}
		variance[k] = math.Exp(logH)
		if variance[k] < e.opts.VarianceFloor {
			variance[k] = e.opts.VarianceFloor
		}
	}
	return models.NewVolatilityForecast(variance, e.opts.PeriodsPerYear), nil
}
