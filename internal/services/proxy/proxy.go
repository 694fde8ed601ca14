package proxy

import (
	"math"

	"VolCast/internal/domain/models"
)

// Package proxy turns raw OHLC candles into return and realized-variance
// signals. Every function is a pure, stateless transform.

const (
	// parkinsonScale is 1 / (4 ln 2), the Parkinson range estimator constant.
	parkinsonScale = 0.3606737602222409

	// gkCloseOpen is 2 ln 2 - 1, the close-to-open weight in Garman-Klass.
	gkCloseOpen = 0.3862943611198906
)

// Returns computes log returns r_t = ln(C_t / C_{t-1}) from candle closes.
// The result has length len(candles)-1.
func Returns(candles []models.Candle) ([]float64, error) {
	if err := models.ValidateCandles(candles); err != nil {
		return nil, err
	}
	if len(candles) < 2 {
		return nil, models.NewDataError("candles", "need at least 2 candles for returns")
	}
	out := make([]float64, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		out[i-1] = math.Log(candles[i].Close / candles[i-1].Close)
	}
	return out, nil
}

// ReturnsFromPrices computes log returns from a bare price series.
func ReturnsFromPrices(prices []float64) ([]float64, error) {
	if err := models.ValidatePrices(prices); err != nil {
		return nil, err
	}
	if len(prices) < 2 {
		return nil, models.NewDataError("prices", "need at least 2 prices for returns")
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		out[i-1] = math.Log(prices[i] / prices[i-1])
	}
	return out, nil
}

// GarmanKlass estimates the per-period variance over the whole candle window
// using intraperiod open/high/low/close ranges.
func GarmanKlass(candles []models.Candle) (float64, error) {
	if err := models.ValidateCandles(candles); err != nil {
		return 0, err
	}
	if len(candles) == 0 {
		return 0, models.NewDataError("candles", "empty series")
	}
	sum := 0.0
	for _, c := range candles {
		hl := math.Log(c.High / c.Low)
		co := math.Log(c.Close / c.Open)
		sum += 0.5*hl*hl - gkCloseOpen*co*co
	}
	v := sum / float64(len(candles))
	if v <= 0 {
		// degenerate flat candles; fall back to close-to-close variance
		return closeVariance(candles), nil
	}
	return v, nil
}

// YangZhang estimates the per-period variance combining overnight,
// open-to-close, and Rogers-Satchell components. It is drift-independent and
// handles opening jumps, which makes it the preferred initial-variance
// estimate for the GARCH-family recursions.
func YangZhang(candles []models.Candle) (float64, error) {
	if err := models.ValidateCandles(candles); err != nil {
		return 0, err
	}
	n := len(candles) - 1
	if n < 2 {
		return 0, models.NewDataError("candles", "need at least 3 candles for Yang-Zhang")
	}

	overnight := make([]float64, n)
	openClose := make([]float64, n)
	rs := 0.0
	for i := 1; i < len(candles); i++ {
		c := candles[i]
		overnight[i-1] = math.Log(c.Open / candles[i-1].Close)
		openClose[i-1] = math.Log(c.Close / c.Open)

		hc := math.Log(c.High / c.Close)
		ho := math.Log(c.High / c.Open)
		lc := math.Log(c.Low / c.Close)
		lo := math.Log(c.Low / c.Open)
		rs += hc*ho + lc*lo
	}

	sigmaO := sampleVariance(overnight)
	sigmaC := sampleVariance(openClose)
	sigmaRS := rs / float64(n)

	k := 0.34 / (1.34 + float64(n+1)/float64(n-1))
	v := sigmaO + k*sigmaC + (1-k)*sigmaRS
	if v <= 0 {
		return closeVariance(candles), nil
	}
	return v, nil
}

// ParkinsonPerCandle computes a per-candle realized-variance series aligned
// 1:1 with the supplied returns (candles[1:]). The Parkinson range estimator
// is roughly five times more statistically efficient than the squared return,
// so it is preferred as the innovation term inside the variance recursions.
// When a candle has zero range (high == low) the squared return is used
// instead, since a zero innovation would poison the recursion.
func ParkinsonPerCandle(candles []models.Candle, returns []float64) ([]float64, error) {
	if err := models.ValidateCandles(candles); err != nil {
		return nil, err
	}
	if len(candles) != len(returns)+1 {
		return nil, models.NewDataError("returns", "length must be len(candles)-1")
	}
	out := make([]float64, len(returns))
	for i := 1; i < len(candles); i++ {
		c := candles[i]
		if c.High > c.Low {
			hl := math.Log(c.High / c.Low)
			out[i-1] = parkinsonScale * hl * hl
		} else {
			r := returns[i-1]
			out[i-1] = r * r
		}
	}
	return out, nil
}

// SquaredReturns is the proxy fallback for bare price series.
func SquaredReturns(returns []float64) []float64 {
	out := make([]float64, len(returns))
	for i, r := range returns {
		out[i] = r * r
	}
	return out
}

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

func closeVariance(candles []models.Candle) float64 {
	rets := make([]float64, 0, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		rets = append(rets, math.Log(candles[i].Close/candles[i-1].Close))
	}
	return sampleVariance(rets)
}
