package optimize

import "math"

// goldenFrac is the fractional part of the golden ratio, used as a low
// discrepancy multiplier so restart seeds spread instead of clustering.
const goldenFrac = 0.6180339887498949

// MultiStart runs Minimize from x0 and from `restarts` additional starting
// points generated by a deterministic golden-ratio quasi-random perturbation
// of x0, returning the best result found. No system entropy is involved, so
// repeated calls are reproducible.
func MultiStart(f Objective, x0 []float64, restarts int, opts Options) Result {
	best := Minimize(f, x0, opts)
	seq := 0
	for r := 0; r < restarts; r++ {
		start := make([]float64, len(x0))
		for j := range x0 {
			seq++
			// u in [-0.5, 0.5), a fresh quasi-random draw per coordinate.
			u := math.Mod(float64(seq)*goldenFrac, 1) - 0.5
			if x0[j] != 0 {
				start[j] = x0[j] * (1 + u)
			} else {
				start[j] = u * 0.001
			}
		}
		res := Minimize(f, start, opts)
		if res.Value < best.Value {
			best = res
		}
	}
	return best
}
