package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VolCast/internal/services/forecast"
	"VolCast/internal/services/volmodel"
	"VolCast/internal/synth"
	"VolCast/pkg/logger"
	"VolCast/pkg/metrics"
)

func testUseCase() *ForecastUseCase {
	opts := volmodel.DefaultOptions()
	opts.MaxIter = 500
	opts.Restarts = 1
	opts.Tol = 1e-7
	rec := metrics.NopRecorder{}
	log := logger.Nop()
	svc := forecast.New(log, rec, opts)
	src := synth.NewSource(42, 0.6)
	return NewForecastUseCase(src, svc, rec, log)
}

func TestPredictParamsValidation(t *testing.T) {
	uc := testUseCase()
	ctx := context.Background()

	tests := []struct {
		name   string
		params PredictParams
	}{
		{"missing symbol", PredictParams{Interval: "1h"}},
		{"missing interval", PredictParams{Symbol: "BTCUSDT"}},
		{"unknown interval", PredictParams{Symbol: "BTCUSDT", Interval: "7h"}},
		{"confidence too high", PredictParams{Symbol: "BTCUSDT", Interval: "1h", Confidence: 1.5}},
		{"negative price", PredictParams{Symbol: "BTCUSDT", Interval: "1h", CurrentPrice: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Predict(ctx, tt.params)
			assert.Error(t, err)
		})
	}
}

func TestPredictEndToEnd(t *testing.T) {
	uc := testUseCase()
	res, err := uc.Predict(context.Background(), PredictParams{
		Symbol:   "BTCUSDT",
		Interval: "1h",
	})
	require.NoError(t, err)
	assert.Greater(t, res.Sigma, 0.0)
	assert.Greater(t, res.UpperPrice, res.LowerPrice)
	assert.NotEmpty(t, res.Model)
}

func TestPredictMemoizesRepeatedRequests(t *testing.T) {
	uc := testUseCase()
	params := PredictParams{Symbol: "BTCUSDT", Interval: "1h"}

	first, err := uc.Predict(context.Background(), params)
	require.NoError(t, err)
	second, err := uc.Predict(context.Background(), params)
	require.NoError(t, err)
	assert.Same(t, first, second, "identical request within the TTL returns the cached result")
}

func TestPredictHonorsCancelledContext(t *testing.T) {
	uc := testUseCase()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := uc.Predict(ctx, PredictParams{Symbol: "BTCUSDT", Interval: "1h"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBacktestParamsValidation(t *testing.T) {
	uc := testUseCase()
	_, err := uc.Backtest(context.Background(), BacktestParams{Interval: "1h"})
	assert.Error(t, err)

	_, err = uc.Backtest(context.Background(), BacktestParams{
		Symbol: "BTCUSDT", Interval: "1h", RequiredPercent: 150,
	})
	assert.Error(t, err)
}

func TestBacktestEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("walk-forward refits on every window")
	}
	uc := testUseCase()
	report, err := uc.Backtest(context.Background(), BacktestParams{
		Symbol:          "ETHUSDT",
		Interval:        "1h",
		RequiredPercent: 1,
	})
	require.NoError(t, err)
	assert.Greater(t, report.Total, 0)
	assert.GreaterOrEqual(t, report.HitRate, 0.0)
}
