package volmodel

import (
	"errors"
	"math"

	"github.com/creasty/defaults"

	"VolCast/internal/domain/models"
	"VolCast/internal/services/proxy"
	"VolCast/pkg/optimize"
)

// MinObservations is the smallest candle or price count any model accepts.
const MinObservations = 50

// ErrModelUnavailable marks a fit whose result cannot be used for
// forecasting, such as an explosive persistence or a regression that fits
// worse than the sample mean. The selector skips such candidates instead of
// failing the whole run.
var ErrModelUnavailable = errors.New("volmodel: model unavailable for this series")

const (
	// maxPersistence caps the stationarity region navigated by the
	// optimizer; parameter sets at or beyond it are penalized.
	maxPersistence = 0.9999

	// Student-t degrees of freedom are estimated jointly inside (minDF, maxDF].
	minDF = 2.01
	maxDF = 100

	// logVarClamp bounds EGARCH log-variance recursions against overflow.
	logVarClamp = 50
)

// Options configures calibration. Zero values are filled from default tags;
// the penalty and floor are named here rather than buried in objectives so
// tests can override them.
type Options struct {
	MaxIter        int     `default:"2000"`
	Tol            float64 `default:"1e-9"`
	Restarts       int     `default:"3"`
	Penalty        float64 `default:"1e10"`
	VarianceFloor  float64 `default:"1e-12"`
	PeriodsPerYear float64 `default:"8760"`
}

// DefaultOptions returns Options populated from the default tags.
func DefaultOptions() Options {
	var o Options
	_ = defaults.Set(&o)
	return o
}

func (o *Options) fill() {
	d := DefaultOptions()
	if o.MaxIter == 0 {
		o.MaxIter = d.MaxIter
	}
	if o.Tol == 0 {
		o.Tol = d.Tol
	}
	if o.Restarts == 0 {
		o.Restarts = d.Restarts
	}
	if o.Penalty == 0 {
		o.Penalty = d.Penalty
	}
	if o.VarianceFloor == 0 {
		o.VarianceFloor = d.VarianceFloor
	}
	if o.PeriodsPerYear == 0 {
		o.PeriodsPerYear = d.PeriodsPerYear
	}
}

func (o Options) optimizer() optimize.Options {
	opt := optimize.DefaultOptions()
	opt.MaxIter = o.MaxIter
	opt.Tol = o.Tol
	return opt
}

// Model is the common surface of the five conditional-variance families.
// Fit is idempotent: a pure function of the immutable data snapshot and the
// options the instance was constructed with.
type Model interface {
	Type() models.ModelType
	Fit() (*models.Calibration, error)
	VarianceSeries(p models.Params) ([]float64, error)
	Forecast(p models.Params, steps int) (*models.VolatilityForecast, error)

	// Returns and Proxy expose the immutable data snapshot for scoring
	// and residual diagnostics.
	Returns() []float64
	Proxy() []float64
}

// series is the immutable data snapshot shared by every model family:
// log returns, the per-period innovation proxy aligned with them, and an
// initial variance estimate seeding the recursions.
type series struct {
	returns []float64
	rv      []float64
	initVar float64
	opts    Options
}

func newSeriesFromCandles(candles []models.Candle, opts Options) (*series, error) {
	opts.fill()
	if len(candles) < MinObservations {
		return nil, models.NewDataError("candles", "need at least 50 observations")
	}
	returns, err := proxy.Returns(candles)
	if err != nil {
		return nil, err
	}
	rv, err := proxy.ParkinsonPerCandle(candles, returns)
	if err != nil {
		return nil, err
	}
	initVar, err := proxy.YangZhang(candles)
	if err != nil {
		return nil, err
	}
	if initVar < opts.VarianceFloor {
		initVar = opts.VarianceFloor
	}
	return &series{returns: returns, rv: rv, initVar: initVar, opts: opts}, nil
}

func newSeriesFromPrices(prices []float64, opts Options) (*series, error) {
	opts.fill()
	if len(prices) < MinObservations {
		return nil, models.NewDataError("prices", "need at least 50 observations")
	}
	returns, err := proxy.ReturnsFromPrices(prices)
	if err != nil {
		return nil, err
	}
	initVar := sampleVariance(returns)
	if initVar < opts.VarianceFloor {
		initVar = opts.VarianceFloor
	}
	return &series{
		returns: returns,
		rv:      proxy.SquaredReturns(returns),
		initVar: initVar,
		opts:    opts,
	}, nil
}

// Returns exposes the log-return series backing the model.
func (s *series) Returns() []float64 { return s.returns }

// Proxy exposes the realized-variance innovation series aligned with returns.
func (s *series) Proxy() []float64 { return s.rv }

// InitialVariance exposes the recursion seed.
func (s *series) InitialVariance() float64 { return s.initVar }

func sampleVariance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	sum := 0.0
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return sum / float64(len(xs)-1)
}

func allPositiveFinite(xs []float64) bool {
	for _, x := range xs {
		if x <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
