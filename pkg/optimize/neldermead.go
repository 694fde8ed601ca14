package optimize

import (
	"math"
	"sort"

	"github.com/creasty/defaults"
)

// Objective is a scalar function over a parameter vector. Implementations
// must not retain or mutate the argument.
type Objective func(x []float64) float64

// Options configures the Nelder-Mead simplex search. Zero values are filled
// from the default tags.
type Options struct {
	MaxIter     int     `default:"2000"`
	Tol         float64 `default:"1e-10"`
	Reflection  float64 `default:"1"`
	Expansion   float64 `default:"2"`
	Contraction float64 `default:"0.5"`
	Shrink      float64 `default:"0.5"`

	// Step scales nonzero coordinates multiplicatively when building the
	// initial simplex; ZeroStep is the absolute delta for zero coordinates,
	// which would otherwise produce a degenerate, non-spanning simplex.
	Step     float64 `default:"0.05"`
	ZeroStep float64 `default:"0.00025"`
}

// DefaultOptions returns Options populated from the default tags.
func DefaultOptions() Options {
	var o Options
	_ = defaults.Set(&o)
	return o
}

func (o *Options) fill() {
	var d Options
	_ = defaults.Set(&d)
	if o.MaxIter == 0 {
		o.MaxIter = d.MaxIter
	}
	if o.Tol == 0 {
		o.Tol = d.Tol
	}
	if o.Reflection == 0 {
		o.Reflection = d.Reflection
	}
	if o.Expansion == 0 {
		o.Expansion = d.Expansion
	}
	if o.Contraction == 0 {
		o.Contraction = d.Contraction
	}
	if o.Shrink == 0 {
		o.Shrink = d.Shrink
	}
	if o.Step == 0 {
		o.Step = d.Step
	}
	if o.ZeroStep == 0 {
		o.ZeroStep = d.ZeroStep
	}
}

// Result is the outcome of a minimization run.
type Result struct {
	X          []float64
	Value      float64
	Iterations int
	Converged  bool
}

type vertex struct {
	x []float64
	f float64
}

// Minimize runs the Nelder-Mead simplex search from x0. The starting vector
// is copied, never mutated. Converged is false when MaxIter is exhausted
// before the simplex value range falls below Tol.
func Minimize(f Objective, x0 []float64, opts Options) Result {
	opts.fill()
	n := len(x0)

	// Initial simplex: x0 plus one perturbed vertex per coordinate.
	simplex := make([]vertex, n+1)
	base := append([]float64(nil), x0...)
	simplex[0] = vertex{x: base, f: f(base)}
	for i := 0; i < n; i++ {
		x := append([]float64(nil), x0...)
		if x[i] != 0 {
			x[i] *= 1 + opts.Step
		} else {
			x[i] = opts.ZeroStep
		}
		simplex[i+1] = vertex{x: x, f: f(x)}
	}

	iter := 0
	for ; iter < opts.MaxIter; iter++ {
		sort.Slice(simplex, func(a, b int) bool { return simplex[a].f < simplex[b].f })

		if math.Abs(simplex[n].f-simplex[0].f) < opts.Tol {
			return Result{X: simplex[0].x, Value: simplex[0].f, Iterations: iter, Converged: true}
		}

		// Centroid of all vertices but the worst.
		centroid := make([]float64, n)
		for _, v := range simplex[:n] {
			for j := range centroid {
				centroid[j] += v.x[j]
			}
		}
		for j := range centroid {
			centroid[j] /= float64(n)
		}

		worst := simplex[n]
		reflected := blend(centroid, worst.x, -opts.Reflection)
		fr := f(reflected)

		switch {
		case fr < simplex[0].f:
			// Best so far: try expanding further along the same direction.
			expanded := blend(centroid, worst.x, -opts.Reflection*opts.Expansion)
			if fe := f(expanded); fe < fr {
				simplex[n] = vertex{x: expanded, f: fe}
			} else {
				simplex[n] = vertex{x: reflected, f: fr}
			}
		case fr < simplex[n-1].f:
			simplex[n] = vertex{x: reflected, f: fr}
		default:
			// Contract; shrink the whole simplex toward the best vertex if
			// even the contraction fails to improve.
			contracted := blend(centroid, worst.x, opts.Contraction)
			if fc := f(contracted); fc < worst.f {
				simplex[n] = vertex{x: contracted, f: fc}
			} else {
				for i := 1; i <= n; i++ {
					for j := range simplex[i].x {
						simplex[i].x[j] = simplex[0].x[j] + opts.Shrink*(simplex[i].x[j]-simplex[0].x[j])
					}
					simplex[i].f = f(simplex[i].x)
				}
			}
		}
	}

	sort.Slice(simplex, func(a, b int) bool { return simplex[a].f < simplex[b].f })
	return Result{X: simplex[0].x, Value: simplex[0].f, Iterations: iter, Converged: false}
}

// blend returns centroid + t*(x - centroid).
func blend(centroid, x []float64, t float64) []float64 {
	out := make([]float64, len(centroid))
	for j := range out {
		out[j] = centroid[j] + t*(x[j]-centroid[j])
	}
	return out
}
