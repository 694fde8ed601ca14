// Package synth generates seeded, deterministic OHLC candle paths from known
// variance dynamics. It backs the demo runner and the property tests: when
// the generating process is a GARCH recursion, a correct calibrator should
// recover parameters near the truth and the matching family should win
// selection.
package synth

import (
	"math"
	"math/rand"
	"time"

	"VolCast/internal/domain/models"
)

// PathConfig drives one simulated path.
type PathConfig struct {
	Seed       int64
	N          int
	StartPrice float64
	Start      time.Time
	Step       time.Duration
}

func (c PathConfig) fill() PathConfig {
	if c.StartPrice <= 0 {
		c.StartPrice = 100
	}
	if c.Start.IsZero() {
		c.Start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if c.Step == 0 {
		c.Step = time.Hour
	}
	return c
}

// ConstantVol simulates i.i.d. Gaussian log returns with per-period
// volatility sigma. The flattest series a variance model can face.
func ConstantVol(cfg PathConfig, sigma float64) []models.Candle {
	cfg = cfg.fill()
	rng := rand.New(rand.NewSource(cfg.Seed))
	returns := make([]float64, cfg.N)
	sigmas := make([]float64, cfg.N)
	for i := range returns {
		returns[i] = sigma * rng.NormFloat64()
		sigmas[i] = sigma
	}
	return candles(cfg, rng, returns, sigmas)
}

// GARCH simulates a GARCH(1,1) path with Gaussian innovations.
func GARCH(cfg PathConfig, omega, alpha, beta float64) []models.Candle {
	cfg = cfg.fill()
	rng := rand.New(rand.NewSource(cfg.Seed))
	h := omega / (1 - alpha - beta)
	returns := make([]float64, cfg.N)
	sigmas := make([]float64, cfg.N)
	for i := range returns {
		if i > 0 {
			r := returns[i-1]
			h = omega + alpha*r*r + beta*h
		}
		sigmas[i] = math.Sqrt(h)
		returns[i] = sigmas[i] * rng.NormFloat64()
	}
	return candles(cfg, rng, returns, sigmas)
}

// EGARCH simulates an EGARCH(1,1) path. A negative gamma produces the
// leverage asymmetry the EGARCH calibrator should detect.
func EGARCH(cfg PathConfig, omega, alpha, gamma, beta float64) []models.Candle {
	cfg = cfg.fill()
	rng := rand.New(rand.NewSource(cfg.Seed))
	const absMomentNormal = 0.7978845608028654 // sqrt(2/pi)
	logH := omega / (1 - beta)
	returns := make([]float64, cfg.N)
	sigmas := make([]float64, cfg.N)
	for i := range returns {
		if i > 0 {
			z := returns[i-1] / sigmas[i-1]
			logH = omega + alpha*(math.Abs(z)-absMomentNormal) + gamma*z + beta*logH
		}
		sigmas[i] = math.Exp(logH / 2)
		returns[i] = sigmas[i] * rng.NormFloat64()
	}
	return candles(cfg, rng, returns, sigmas)
}

// GJR simulates a GJR-GARCH(1,1) path where negative shocks load an extra
// gamma onto next-period variance.
func GJR(cfg PathConfig, omega, alpha, gamma, beta float64) []models.Candle {
	cfg = cfg.fill()
	rng := rand.New(rand.NewSource(cfg.Seed))
	h := omega / (1 - alpha - gamma/2 - beta)
	returns := make([]float64, cfg.N)
	sigmas := make([]float64, cfg.N)
	for i := range returns {
		if i > 0 {
			r := returns[i-1]
			load := alpha
			if r < 0 {
				load += gamma
			}
			h = omega + load*r*r + beta*h
		}
		sigmas[i] = math.Sqrt(h)
		returns[i] = sigmas[i] * rng.NormFloat64()
	}
	return candles(cfg, rng, returns, sigmas)
}

// HARRV simulates returns whose variance follows a heterogeneous
// autoregression on the daily value and the weekly and monthly trailing
// means of past squared returns. The long averaging horizons carry memory a
// one-lag recursion cannot reproduce.
func HARRV(cfg PathConfig, base, betaD, betaW, betaM float64) []models.Candle {
	cfg = cfg.fill()
	rng := rand.New(rand.NewSource(cfg.Seed))
	uncond := base / (1 - betaD - betaW - betaM)
	returns := make([]float64, cfg.N)
	sigmas := make([]float64, cfg.N)
	rv := make([]float64, cfg.N)
	for i := range returns {
		v := uncond
		if i >= 22 {
			v = base + betaD*rv[i-1] + betaW*mean(rv[i-5:i]) + betaM*mean(rv[i-22:i])
		}
		sigmas[i] = math.Sqrt(v)
		returns[i] = sigmas[i] * rng.NormFloat64()
		rv[i] = returns[i] * returns[i]
	}
	return candles(cfg, rng, returns, sigmas)
}

// NoVaS simulates returns whose variance is a sparse-lag moving average of
// past squared returns at lags 1, 4, 7, and 10 over a small floor, so
// shocks echo at fixed offsets instead of decaying geometrically.
func NoVaS(cfg PathConfig, floor float64, weights [4]float64) []models.Candle {
	cfg = cfg.fill()
	rng := rand.New(rand.NewSource(cfg.Seed))
	lags := [4]int{1, 4, 7, 10}
	uncond := floor / (1 - weights[0] - weights[1] - weights[2] - weights[3])
	returns := make([]float64, cfg.N)
	sigmas := make([]float64, cfg.N)
	rv := make([]float64, cfg.N)
	for i := range returns {
		v := uncond
		if i >= lags[3] {
			v = floor
			for k, lag := range lags {
				v += weights[k] * rv[i-lag]
			}
		}
		sigmas[i] = math.Sqrt(v)
		returns[i] = sigmas[i] * rng.NormFloat64()
		rv[i] = returns[i] * returns[i]
	}
	return candles(cfg, rng, returns, sigmas)
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// WithShock returns a copy of the candle slice whose final close jumps by
// shockSigmas times the trailing return standard deviation.
func WithShock(in []models.Candle, shockSigmas float64) []models.Candle {
	out := make([]models.Candle, len(in))
	copy(out, in)
	last := &out[len(out)-1]

	sd := 0.0
	for i := 1; i < len(in); i++ {
		r := math.Log(in[i].Close / in[i-1].Close)
		sd += r * r
	}
	sd = math.Sqrt(sd / float64(len(in)-1))

	factor := math.Exp(shockSigmas * sd)
	last.Close *= factor
	if last.Close > last.High {
		last.High = last.Close
	}
	if last.Close < last.Low {
		last.Low = last.Close
	}
	return out
}

// parkinsonRange is 2*sqrt(ln 2). A driftless diffusion with per-period
// variance sigma^2 satisfies E[(ln High/Low)^2] = 4 ln2 sigma^2, which is
// the identity the Parkinson estimator inverts, so the simulated log range
// must center on parkinsonRange*sigma for range-based proxies to see the
// same variance the closes realize.
const parkinsonRange = 1.6651092223153954

// candles turns a return path into OHLC bars. The open is the previous
// close. The log high/low range is sized to the Parkinson identity for the
// bar's own volatility, never narrower than the open-to-close move, with
// the slack split randomly above and below the bar body.
func candles(cfg PathConfig, rng *rand.Rand, returns, sigmas []float64) []models.Candle {
	out := make([]models.Candle, len(returns))
	price := cfg.StartPrice
	for i, r := range returns {
		open := price
		price *= math.Exp(r)
		hi := math.Max(open, price)
		lo := math.Min(open, price)
		body := math.Log(hi / lo)
		span := sigmas[i] * (parkinsonRange + 0.25*(rng.Float64()-0.5))
		if span < body {
			span = body
		}
		up := (span - body) * rng.Float64()
		out[i] = models.Candle{
			Open:      open,
			High:      hi * math.Exp(up),
			Low:       lo * math.Exp(body+up-span),
			Close:     price,
			Volume:    1000 + 500*rng.Float64(),
			Timestamp: cfg.Start.Add(time.Duration(i) * cfg.Step),
		}
	}
	return out
}
