// Package forecast fits the full candidate model set over a candle history,
// picks a winner by out-of-sample-style QLIKE, and turns the winning
// volatility forecast into confidence-banded price ranges.
package forecast

import (
	"errors"
	"math"
	"time"

	"VolCast/internal/domain/models"
	"VolCast/internal/domain/repository"
	"VolCast/internal/services/diagnostics"
	"VolCast/internal/services/volmodel"
	"VolCast/pkg/logger"
)

// reliabilityPersistence is the persistence ceiling above which a winning
// fit is reported as unreliable even when it converged.
const reliabilityPersistence = 0.999

// ljungBoxAlpha is the residual-whiteness significance level: a p-value
// below it means the model left predictable clustering in the residuals.
const ljungBoxAlpha = 0.05

// Service orchestrates calibration, selection, prediction, and backtesting.
type Service struct {
	log     *logger.Logger
	metrics repository.Metrics
	opts    volmodel.Options
}

// New builds the forecasting service. opts.PeriodsPerYear is overridden per
// call from the candle interval.
func New(log *logger.Logger, metrics repository.Metrics, opts volmodel.Options) *Service {
	return &Service{log: log, metrics: metrics, opts: opts}
}

// Candidate is one fitted entry in a selection run.
type Candidate struct {
	Calibration *models.Calibration
	QLIKE       float64
}

// Selection is the outcome of fitting all candidates and scoring them.
type Selection struct {
	Winner     *models.Calibration
	WinnerQL   float64
	Candidates []Candidate
	Reliable   bool
	LjungBox   diagnostics.LjungBoxResult
	Leverage   bool

	model volmodel.Model
}

// Model exposes the winning fitted model for forecasting.
func (s *Selection) Model() volmodel.Model { return s.model }

// Select fits GARCH, EGARCH, GJR-GARCH, HAR-RV, and NoVaS in that order,
// scores each candidate's conditional-variance series against the realized
// proxy via QLIKE, and returns the lowest scorer. Ties keep the earlier
// candidate. A candidate that fails to fit is excluded rather than failing
// the run; selection errors only when no candidate survives, reporting the
// first GARCH-family error if there was one.
func (s *Service) Select(candles []models.Candle, interval models.Interval) (*Selection, error) {
	if !interval.Valid() {
		return nil, models.NewDataError("interval", "unknown interval")
	}
	if err := models.ValidateCandles(candles); err != nil {
		return nil, err
	}
	opts := s.opts
	opts.PeriodsPerYear = interval.PeriodsPerYear()

	type constructor struct {
		name     models.ModelType
		build    func() (volmodel.Model, error)
		optional bool
	}
	constructors := []constructor{
		{models.ModelGARCH, func() (volmodel.Model, error) { return volmodel.NewGARCHFromCandles(candles, opts) }, false},
		{models.ModelEGARCH, func() (volmodel.Model, error) { return volmodel.NewEGARCHFromCandles(candles, opts) }, false},
		{models.ModelGJR, func() (volmodel.Model, error) { return volmodel.NewGJRFromCandles(candles, opts) }, false},
		{models.ModelHARRV, func() (volmodel.Model, error) { return volmodel.NewHARRVFromCandles(candles, opts) }, true},
		{models.ModelNoVaS, func() (volmodel.Model, error) { return volmodel.NewNoVaSFromCandles(candles, opts) }, true},
	}

	sel := &Selection{WinnerQL: math.Inf(1)}
	var firstErr error
	for _, c := range constructors {
		cand, model, err := s.fitCandidate(c.name, c.build)
		if err != nil {
			if c.optional || errors.Is(err, volmodel.ErrModelUnavailable) {
				s.log.Warn("candidate excluded",
					logger.String("model", string(c.name)), logger.Error(err))
				continue
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		sel.Candidates = append(sel.Candidates, cand)
		if cand.QLIKE < sel.WinnerQL {
			sel.WinnerQL = cand.QLIKE
			sel.Winner = cand.Calibration
			sel.model = model
		}
	}
	if sel.Winner == nil {
		if firstErr != nil {
			return nil, firstErr
		}
		return nil, models.NewDataError("candles", "no model could be fit")
	}

	s.diagnose(sel)
	s.metrics.RecordSelection(string(sel.Winner.Model))
	s.log.Info("model selected",
		logger.String("model", string(sel.Winner.Model)),
		logger.Float64("qlike", sel.WinnerQL),
		logger.Bool("reliable", sel.Reliable),
		logger.Int("candidates", len(sel.Candidates)))
	return sel, nil
}

func (s *Service) fitCandidate(name models.ModelType, build func() (volmodel.Model, error)) (Candidate, volmodel.Model, error) {
	model, err := build()
	if err != nil {
		return Candidate{}, nil, err
	}
	start := time.Now()
	cal, err := model.Fit()
	if err != nil {
		s.metrics.RecordError("fit_" + string(name))
		return Candidate{}, nil, err
	}
	s.metrics.RecordFit(string(name), time.Since(start).Seconds(), cal.Converged)

	variance, err := model.VarianceSeries(cal.Params)
	if err != nil {
		return Candidate{}, nil, err
	}
	ql := diagnostics.QLIKE(variance, model.Proxy())
	if math.IsNaN(ql) {
		return Candidate{}, nil, models.NewDataError("qlike", "no valid scoring points")
	}
	s.log.Debug("candidate fit",
		logger.String("model", string(name)),
		logger.Float64("qlike", ql),
		logger.Float64("log_likelihood", cal.LogLikelihood),
		logger.Bool("converged", cal.Converged))
	return Candidate{Calibration: cal, QLIKE: ql}, model, nil
}

// diagnose certifies the winner: convergence, persistence below the ceiling,
// and white squared standardized residuals. It also records whether the
// series shows a leverage effect, which favors the asymmetric families.
func (s *Service) diagnose(sel *Selection) {
	variance, err := sel.model.VarianceSeries(sel.Winner.Params)
	if err != nil {
		sel.Reliable = false
		return
	}
	returns := sel.model.Returns()

	sq := make([]float64, len(returns))
	for i := range returns {
		z := returns[i] / math.Sqrt(variance[i])
		sq[i] = z * z
	}
	sel.LjungBox = diagnostics.LjungBox(sq, 10)
	sel.Leverage = diagnostics.CheckLeverageEffect(returns)
	sel.Reliable = sel.Winner.Converged &&
		sel.Winner.Params.Persistence() < reliabilityPersistence &&
		sel.LjungBox.PValue >= ljungBoxAlpha
}
