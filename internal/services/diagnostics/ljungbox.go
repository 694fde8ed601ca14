package diagnostics

import "math"

// LjungBoxResult carries the portmanteau statistic and its approximate
// p-value under the chi-square null of no autocorrelation up to maxLag.
type LjungBoxResult struct {
	Statistic float64
	PValue    float64
	Lags      int
}

// LjungBox computes Q = n(n+2) * sum_{k=1..m} rho_k^2/(n-k) over the supplied
// series (squared standardized residuals, when certifying a variance model).
// The p-value uses the Wilson-Hilferty chi-square survival approximation.
func LjungBox(data []float64, maxLag int) LjungBoxResult {
	n := len(data)
	if maxLag <= 0 {
		maxLag = 10
	}
	if maxLag > n/2 {
		maxLag = n / 2
	}
	if n < 4 || maxLag < 1 {
		return LjungBoxResult{Statistic: 0, PValue: 1, Lags: 0}
	}

	mean := 0.0
	for _, x := range data {
		mean += x
	}
	mean /= float64(n)

	denom := 0.0
	for _, x := range data {
		d := x - mean
		denom += d * d
	}
	if denom <= 0 {
		return LjungBoxResult{Statistic: 0, PValue: 1, Lags: maxLag}
	}

	q := 0.0
	for k := 1; k <= maxLag; k++ {
		num := 0.0
		for i := k; i < n; i++ {
			num += (data[i] - mean) * (data[i-k] - mean)
		}
		rho := num / denom
		q += rho * rho / float64(n-k)
	}
	q *= float64(n) * float64(n+2)

	p := ChiSquareSurvival(q, maxLag)
	if math.IsNaN(p) {
		p = 0
	}
	return LjungBoxResult{Statistic: q, PValue: p, Lags: maxLag}
}
