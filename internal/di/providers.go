package di

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"VolCast/internal/app"
	"VolCast/internal/domain/repository"
	"VolCast/internal/services/forecast"
	"VolCast/internal/services/volmodel"
	"VolCast/internal/synth"
	"VolCast/internal/usecase"
	"VolCast/pkg/config"
	"VolCast/pkg/logger"
	"VolCast/pkg/metrics"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config, collector *logger.Collector) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	l.AddCollector(collector)
	return l, nil
}

// ProvideCollector creates the run-scoped warn/error collector.
func ProvideCollector() *logger.Collector {
	return logger.NewCollector(200)
}

// ProvideRegistry creates the Prometheus registry with process collectors.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.New(reg)
}

// ProvideCandleSource creates the simulated market-data source.
func ProvideCandleSource(cfg *config.Config) repository.CandleSource {
	return synth.NewSource(cfg.Synth.Seed, cfg.Synth.AnnualVol)
}

// ProvideModelOptions maps fit configuration onto calibration options.
func ProvideModelOptions(cfg *config.Config) volmodel.Options {
	opts := volmodel.DefaultOptions()
	if cfg.Fit.MaxIter > 0 {
		opts.MaxIter = cfg.Fit.MaxIter
	}
	if cfg.Fit.Tol > 0 {
		opts.Tol = cfg.Fit.Tol
	}
	if cfg.Fit.Restarts > 0 {
		opts.Restarts = cfg.Fit.Restarts
	}
	return opts
}

// ProvideForecastService creates the selection/prediction service.
func ProvideForecastService(l *logger.Logger, m repository.Metrics, opts volmodel.Options) *forecast.Service {
	return forecast.New(l, m, opts)
}

// ProvideForecastUseCase creates the application use case.
func ProvideForecastUseCase(src repository.CandleSource, svc *forecast.Service, m repository.Metrics, l *logger.Logger) *usecase.ForecastUseCase {
	return usecase.NewForecastUseCase(src, svc, m, l)
}

// ProvideApp assembles the runnable application.
func ProvideApp(cfg *config.Config, l *logger.Logger, collector *logger.Collector, uc *usecase.ForecastUseCase, reg *prometheus.Registry) *app.App {
	return app.New(cfg, l, collector, uc, reg)
}
