package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"VolCast/internal/domain/models"
	domrepo "VolCast/internal/domain/repository"
	"VolCast/internal/service/cache"
	"VolCast/internal/services/forecast"
	"VolCast/pkg/logger"
)

var validate = validator.New()

// ForecastUseCase is the application-facing surface: it pulls candle history
// from the source, runs selection and prediction, and records metrics.
// Predictions are memoized in a TTL cache keyed by the full request, since a
// calibration run over an unchanged series is deterministic.
type ForecastUseCase struct {
	source   domrepo.CandleSource
	svc      *forecast.Service
	metrics  domrepo.Metrics
	log      *logger.Logger
	cache    *cache.TTLCache
	cacheTTL time.Duration
}

func NewForecastUseCase(source domrepo.CandleSource, svc *forecast.Service, metrics domrepo.Metrics, log *logger.Logger) *ForecastUseCase {
	return &ForecastUseCase{
		source:   source,
		svc:      svc,
		metrics:  metrics,
		log:      log,
		cache:    cache.NewTTLCache(),
		cacheTTL: time.Minute,
	}
}

// SetCacheTTL overrides how long memoized predictions stay fresh.
// ttl <= 0 disables expiry checks but keeps memoization.
func (uc *ForecastUseCase) SetCacheTTL(ttl time.Duration) {
	uc.cacheTTL = ttl
}

type PredictParams struct {
	Symbol       string  `validate:"required"`
	Interval     string  `validate:"required"`
	Steps        int     `default:"1" validate:"min=1,max=1000"`
	Candles      int     `validate:"omitempty,min=50"`
	CurrentPrice float64 `validate:"omitempty,gt=0"`
	Confidence   float64 `default:"0.6827" validate:"gt=0,lt=1"`
}

type BacktestParams struct {
	Symbol          string  `validate:"required"`
	Interval        string  `validate:"required"`
	Candles         int     `validate:"omitempty,min=50"`
	Confidence      float64 `default:"0.6827" validate:"gt=0,lt=1"`
	RequiredPercent float64 `default:"60" validate:"min=0,max=100"`
}

func checkParams(p interface{}) error {
	if err := defaults.Set(p); err != nil {
		return fmt.Errorf("apply defaults: %w", err)
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("validate params: %w", err)
	}
	return nil
}

// history resolves the interval and pulls enough candles for it.
func (uc *ForecastUseCase) history(symbol, interval string, count int) ([]models.Candle, models.Interval, error) {
	iv, err := models.ParseInterval(interval)
	if err != nil {
		return nil, "", err
	}
	if count < iv.MinCandles() {
		count = iv.MinCandles() * 2
	}
	candles, err := uc.source.Candles(symbol, iv, count)
	if err != nil {
		uc.metrics.RecordError("candle_source")
		return nil, "", fmt.Errorf("fetch candles: %w", err)
	}
	return candles, iv, nil
}

// Predict fits the candidate set over the symbol's history and returns the
// banded price range for the forecast horizon.
func (uc *ForecastUseCase) Predict(ctx context.Context, p PredictParams) (*models.PredictionResult, error) {
	if err := checkParams(&p); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("predict:%s:%s:%d:%d:%g:%g",
		p.Symbol, p.Interval, p.Steps, p.Candles, p.CurrentPrice, p.Confidence)
	if v, ok := uc.cache.Get(key); ok {
		return v.(*models.PredictionResult), nil
	}
	candles, iv, err := uc.history(p.Symbol, p.Interval, p.Candles)
	if err != nil {
		return nil, err
	}

	var res *models.PredictionResult
	if p.Steps > 1 {
		res, err = uc.svc.PredictRange(candles, iv, p.Steps, p.CurrentPrice, p.Confidence)
	} else {
		res, err = uc.svc.Predict(candles, iv, p.CurrentPrice, p.Confidence)
	}
	if err != nil {
		uc.metrics.RecordError("predict")
		return nil, err
	}
	uc.cache.Set(key, res, uc.cacheTTL)
	uc.metrics.RecordForecastSigma(p.Symbol, string(res.Model), res.Sigma)
	uc.log.Info("prediction",
		logger.String("symbol", p.Symbol),
		logger.String("interval", p.Interval),
		logger.Int("steps", p.Steps),
		logger.String("model", string(res.Model)),
		logger.Float64("sigma", res.Sigma),
		logger.Bool("reliable", res.Reliable))
	return res, nil
}

// Backtest runs the walk-forward harness over the symbol's history.
func (uc *ForecastUseCase) Backtest(ctx context.Context, p BacktestParams) (*forecast.BacktestReport, error) {
	if err := checkParams(&p); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	candles, iv, err := uc.history(p.Symbol, p.Interval, p.Candles)
	if err != nil {
		return nil, err
	}

	report, err := uc.svc.Backtest(candles, iv, p.Confidence, p.RequiredPercent)
	if err != nil {
		uc.metrics.RecordError("backtest")
		return nil, err
	}
	if report.Total > 0 {
		uc.metrics.RecordBacktestHitRate(p.Symbol, report.HitRate)
	}
	return report, nil
}
