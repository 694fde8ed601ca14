package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fitsTotal       *prometheus.CounterVec
	fitDuration     *prometheus.HistogramVec
	selectionsTotal *prometheus.CounterVec
	forecastSigma   *prometheus.GaugeVec
	backtestHitRate *prometheus.GaugeVec
	errorsTotal     *prometheus.CounterVec
}

// New creates a Prometheus metrics recorder registered against reg. Pass a
// fresh prometheus.NewRegistry() in tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		fitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "volcast_fits_total",
				Help: "Total number of model calibrations by family and outcome",
			},
			[]string{"model", "converged"},
		),
		fitDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "volcast_fit_duration_seconds",
				Help:    "Duration of model calibrations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"model"},
		),
		selectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "volcast_selected_model_total",
				Help: "How often each model family won selection",
			},
			[]string{"model"},
		),
		forecastSigma: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "volcast_forecast_sigma",
				Help: "Last per-period forecast volatility by symbol and model",
			},
			[]string{"symbol", "model"},
		),
		backtestHitRate: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "volcast_backtest_hit_rate",
				Help: "Last walk-forward hit rate by symbol, percent",
			},
			[]string{"symbol"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "volcast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordFit records one calibration attempt.
func (r *Recorder) RecordFit(model string, seconds float64, converged bool) {
	outcome := "false"
	if converged {
		outcome = "true"
	}
	r.fitsTotal.WithLabelValues(model, outcome).Inc()
	r.fitDuration.WithLabelValues(model).Observe(seconds)
}

// RecordSelection records a selection win for a model family.
func (r *Recorder) RecordSelection(model string) {
	r.selectionsTotal.WithLabelValues(model).Inc()
}

// RecordForecastSigma records the latest forecast volatility.
func (r *Recorder) RecordForecastSigma(symbol, model string, sigma float64) {
	r.forecastSigma.WithLabelValues(symbol, model).Set(sigma)
}

// RecordBacktestHitRate records the latest walk-forward hit rate.
func (r *Recorder) RecordBacktestHitRate(symbol string, rate float64) {
	r.backtestHitRate.WithLabelValues(symbol).Set(rate)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
