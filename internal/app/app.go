package app

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"VolCast/internal/usecase"
	"VolCast/pkg/config"
	"VolCast/pkg/logger"
)

// App encapsulates one forecasting run: for each configured symbol it pulls
// history, fits the candidate models, prints the prediction band, and
// optionally backtests. The metrics listener, when enabled, stays up for the
// duration of the run so a scraper can collect the final state.
type App struct {
	cfg       *config.Config
	log       *logger.Logger
	collector *logger.Collector
	uc        *usecase.ForecastUseCase
	registry  *prometheus.Registry
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, log *logger.Logger, collector *logger.Collector, uc *usecase.ForecastUseCase, registry *prometheus.Registry) *App {
	return &App{cfg: cfg, log: log, collector: collector, uc: uc, registry: registry}
}

// Run executes the forecasting pass and blocks until it finishes or a
// signal arrives.
func (a *App) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if a.cfg.Run.Timeout > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, a.cfg.Run.Timeout)
		defer tcancel()
	}

	var metricsServer *http.Server
	if a.cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(a.cfg.Metrics.Path, promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", a.cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				a.log.Error("metrics server", logger.Error(err))
			}
		}()
		a.log.Info("metrics listening",
			logger.Int("port", a.cfg.Metrics.Port),
			logger.String("path", a.cfg.Metrics.Path))
	}

	var failed int
	for _, symbol := range a.cfg.Run.Symbols {
		if err := a.runSymbol(ctx, symbol); err != nil {
			failed++
			a.log.Error("symbol run failed", logger.String("symbol", symbol), logger.Error(err))
		}
		if ctx.Err() != nil {
			break
		}
	}

	a.summarize()

	if metricsServer != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d symbols failed", failed, len(a.cfg.Run.Symbols))
	}
	return ctx.Err()
}

func (a *App) runSymbol(ctx context.Context, symbol string) error {
	res, err := a.uc.Predict(ctx, usecase.PredictParams{
		Symbol:     symbol,
		Interval:   a.cfg.Run.Interval,
		Steps:      a.cfg.Run.Steps,
		Candles:    a.cfg.Run.Candles,
		Confidence: a.cfg.Run.Confidence,
	})
	if err != nil {
		return fmt.Errorf("predict %s: %w", symbol, err)
	}
	fmt.Printf("%s %s: model=%s price=%.2f band=[%.2f, %.2f] sigma=%.5f reliable=%v\n",
		symbol, a.cfg.Run.Interval, res.Model, res.CurrentPrice,
		res.LowerPrice, res.UpperPrice, res.Sigma, res.Reliable)

	if !a.cfg.Run.Backtest.Enabled {
		return nil
	}
	report, err := a.uc.Backtest(ctx, usecase.BacktestParams{
		Symbol:          symbol,
		Interval:        a.cfg.Run.Interval,
		Candles:         a.cfg.Run.Candles,
		Confidence:      a.cfg.Run.Confidence,
		RequiredPercent: a.cfg.Run.Backtest.RequiredPercent,
	})
	if err != nil {
		return fmt.Errorf("backtest %s: %w", symbol, err)
	}
	fmt.Printf("%s backtest: window=%d points=%d hit_rate=%.1f%% required=%.1f%% passed=%v\n",
		symbol, report.Window, report.Total, report.HitRate, report.Required, report.Passed)
	return nil
}

// summarize prints the warnings and errors collected during the run.
func (a *App) summarize() {
	entries := a.collector.Snapshot()
	if len(entries) == 0 {
		return
	}
	fmt.Printf("run finished with %d warnings/errors:\n", len(entries))
	for _, e := range entries {
		fmt.Printf("  [%s] %s %v\n", e.Level, e.Msg, e.Fields)
	}
}
