package diagnostics

import "math"

// AIC is the Akaike information criterion, 2k - 2*logLikelihood.
func AIC(logLikelihood float64, numParams int) float64 {
	return 2*float64(numParams) - 2*logLikelihood
}

// BIC is the Bayesian information criterion, k*ln(n) - 2*logLikelihood.
func BIC(logLikelihood float64, numParams, numObs int) float64 {
	return float64(numParams)*math.Log(float64(numObs)) - 2*logLikelihood
}

// QLIKE is Patton's scale-free forecast-evaluation loss,
// mean(RV/sigma^2 - ln(RV/sigma^2) - 1), lower is better. It is neutral to
// how each candidate was calibrated (MLE vs regression), which is why model
// selection uses it instead of AIC. Points with non-positive or non-finite
// forecast or realized variance are skipped; NaN is returned when no valid
// point remains.
func QLIKE(variance, realized []float64) float64 {
	n := len(variance)
	if len(realized) < n {
		n = len(realized)
	}
	sum := 0.0
	valid := 0
	for i := 0; i < n; i++ {
		v, rv := variance[i], realized[i]
		if v <= 0 || rv <= 0 || math.IsNaN(v) || math.IsNaN(rv) || math.IsInf(v, 0) || math.IsInf(rv, 0) {
			continue
		}
		ratio := rv / v
		sum += ratio - math.Log(ratio) - 1
		valid++
	}
	if valid == 0 {
		return math.NaN()
	}
	return sum / float64(valid)
}
