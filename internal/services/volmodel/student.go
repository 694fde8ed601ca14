package volmodel

import "math"

// studentLogDensity is the log density of a Student-t distributed return with
// conditional variance h and df degrees of freedom, standardized so that h is
// the actual variance (df > 2 required).
func studentLogDensity(r, h, df float64) float64 {
	lg1, _ := math.Lgamma((df + 1) / 2)
	lg2, _ := math.Lgamma(df / 2)
	return lg1 - lg2 -
		0.5*math.Log(math.Pi*(df-2)) -
		0.5*math.Log(h) -
		(df+1)/2*math.Log1p(r*r/(h*(df-2)))
}

// studentNLL sums the negative log likelihood of returns under the supplied
// conditional-variance series.
func studentNLL(returns, variance []float64, df float64) float64 {
	nll := 0.0
	for t := range returns {
		nll -= studentLogDensity(returns[t], variance[t], df)
	}
	return nll
}

// studentAbsMoment is E|z| of a standardized Student-t variable with df
// degrees of freedom, used by the EGARCH recursion.
func studentAbsMoment(df float64) float64 {
	lg1, _ := math.Lgamma((df + 1) / 2)
	lg2, _ := math.Lgamma(df / 2)
	return 2 * math.Sqrt(df-2) * math.Exp(lg1-lg2) / (math.Sqrt(math.Pi) * (df - 1))
}

// profileStudentDF profiles the Student-t degrees of freedom over a
// coarse-then-fine 1-D grid, holding the variance series fixed. Used by the
// regression-calibrated models (HAR-RV, NoVaS) whose loss does not involve
// the likelihood. Returns the best df, the log likelihood there, and the
// number of grid evaluations.
func profileStudentDF(returns, variance []float64) (df, logLikelihood float64, evals int) {
	coarse := []float64{2.5, 3, 4, 5, 6, 8, 10, 12, 15, 20, 30, 50, 100}
	bestDF, bestNLL := coarse[0], math.Inf(1)
	for _, v := range coarse {
		evals++
		if nll := studentNLL(returns, variance, v); nll < bestNLL {
			bestNLL, bestDF = nll, v
		}
	}
	lo, hi := bestDF-2, bestDF+2
	if lo < minDF {
		lo = minDF
	}
	if hi > maxDF {
		hi = maxDF
	}
	for v := lo; v <= hi; v += 0.25 {
		evals++
		if nll := studentNLL(returns, variance, v); nll < bestNLL {
			bestNLL, bestDF = nll, v
		}
	}
	return bestDF, -bestNLL, evals
}
