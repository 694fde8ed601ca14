package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VolCast/internal/domain/models"
)

func TestBacktestDegenerateThresholds(t *testing.T) {
	svc := fastService()
	candles := hourlyConstant(81, 200)

	pass, err := svc.Backtest(candles, models.Interval1h, 0.6827, 0)
	require.NoError(t, err)
	assert.True(t, pass.Passed)
	assert.Equal(t, 0, pass.Total, "threshold <= 0 short-circuits before fitting")

	fail, err := svc.Backtest(candles, models.Interval1h, 0.6827, 100)
	require.NoError(t, err)
	assert.False(t, fail.Passed)
	assert.Equal(t, 0, fail.Total)
}

func TestBacktestRejectsShortHistory(t *testing.T) {
	svc := fastService()
	_, err := svc.Backtest(hourlyConstant(82, 150), models.Interval1h, 0.6827, 60)
	require.Error(t, err)
	assert.True(t, models.IsDataError(err))
}

func TestBacktestStableSeriesPasses(t *testing.T) {
	if testing.Short() {
		t.Skip("walk-forward refits on every window")
	}
	svc := fastService()
	candles := hourlyConstant(83, 400)

	// One-sigma bands must cover at least their nominal 68% of steps on a
	// long stable ~1% vol series with no shocks.
	report, err := svc.Backtest(candles, models.Interval1h, 0.6827, 68)
	require.NoError(t, err)

	assert.Equal(t, 300, report.Window, "max(interval minimum, 75%% of 400)")
	assert.Equal(t, 100, report.Total)
	assert.True(t, report.Passed, "hit rate %v below 68%%", report.HitRate)
	assert.GreaterOrEqual(t, report.HitRate, 68.0)
	assert.LessOrEqual(t, report.HitRate, 100.0)
	assert.Equal(t, report.Hits, int(report.HitRate*float64(report.Total)/100+0.5))
}

func TestBacktestWindowFloor(t *testing.T) {
	if testing.Short() {
		t.Skip("walk-forward refits on every window")
	}
	svc := fastService()
	// 75% of 180 is 135, below the 1h interval minimum of 150, so the
	// interval minimum wins.
	report, err := svc.Backtest(hourlyConstant(84, 180), models.Interval1h, 0.6827, 1)
	require.NoError(t, err)
	assert.Equal(t, 150, report.Window)
	assert.Equal(t, 30, report.Total)
}
