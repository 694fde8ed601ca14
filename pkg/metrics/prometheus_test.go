package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderRegistersAndRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordFit("garch", 0.12, true)
	r.RecordFit("egarch", 0.3, false)
	r.RecordSelection("garch")
	r.RecordForecastSigma("BTCUSDT", "garch", 0.0064)
	r.RecordBacktestHitRate("BTCUSDT", 68.2)
	r.RecordError("predict")

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"volcast_fits_total",
		"volcast_fit_duration_seconds",
		"volcast_selected_model_total",
		"volcast_forecast_sigma",
		"volcast_backtest_hit_rate",
		"volcast_errors_total",
	} {
		assert.True(t, names[want], "missing metric %s", want)
	}
}

func TestRecorderSeparateRegistries(t *testing.T) {
	// Two recorders must not collide when given their own registries.
	a := New(prometheus.NewRegistry())
	b := New(prometheus.NewRegistry())
	a.RecordSelection("garch")
	b.RecordSelection("novas")
}
