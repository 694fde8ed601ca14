package volmodel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentLogDensityApproachesNormal(t *testing.T) {
	// At high df the standardized t density converges to the normal.
	h := 2.5e-5
	for _, r := range []float64{0, 0.002, -0.01} {
		normal := -0.5*math.Log(2*math.Pi*h) - r*r/(2*h)
		assert.InDelta(t, normal, studentLogDensity(r, h, 200), 0.01, "r=%v", r)
	}
}

func TestStudentLogDensityFatTails(t *testing.T) {
	// A 6-sigma move is far more likely under df=3 than under df=50.
	h := 1e-4
	r := 6 * math.Sqrt(h)
	assert.Greater(t, studentLogDensity(r, h, 3), studentLogDensity(r, h, 50))
}

func TestStudentNLLSums(t *testing.T) {
	returns := []float64{0.01, -0.02}
	variance := []float64{1e-4, 2e-4}
	want := -studentLogDensity(0.01, 1e-4, 8) - studentLogDensity(-0.02, 2e-4, 8)
	assert.InDelta(t, want, studentNLL(returns, variance, 8), 1e-12)
}

func TestStudentAbsMoment(t *testing.T) {
	// E|z| of a standard normal is sqrt(2/pi); the t moment approaches it
	// from below as df grows.
	limit := math.Sqrt(2 / math.Pi)
	assert.InDelta(t, limit, studentAbsMoment(1000), 1e-3)
	assert.Less(t, studentAbsMoment(4), limit)
	assert.Greater(t, studentAbsMoment(4), 0.5)
}

func TestProfileStudentDFStaysInRange(t *testing.T) {
	s, err := newSeriesFromCandles(garchCandles(3, 300), testOptions())
	require.NoError(t, err)

	variance := make([]float64, len(s.Returns()))
	for i := range variance {
		variance[i] = s.InitialVariance()
	}
	df, ll, evals := profileStudentDF(s.Returns(), variance)
	assert.GreaterOrEqual(t, df, minDF)
	assert.LessOrEqual(t, df, float64(maxDF))
	assert.False(t, math.IsNaN(ll))
	assert.Greater(t, evals, 13, "fine pass should add evaluations beyond the coarse grid")
}
