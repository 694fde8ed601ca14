package models

// ModelType is the closed enumeration of conditional-variance model families.
type ModelType string

const (
	ModelGARCH  ModelType = "garch"
	ModelEGARCH ModelType = "egarch"
	ModelGJR    ModelType = "gjr-garch"
	ModelHARRV  ModelType = "har-rv"
	ModelNoVaS  ModelType = "novas"
)

// Params is the common surface of a fitted parameter set. Each model family
// has its own concrete struct; the selector only needs the tag, the
// persistence measure, and the parameter count for information criteria.
type Params interface {
	ModelType() ModelType
	Persistence() float64
	NumParams() int
}

// GARCHParams holds a fitted GARCH(1,1) parameter set.
type GARCHParams struct {
	Omega                 float64
	Alpha                 float64
	Beta                  float64
	Persist               float64 // alpha + beta
	UnconditionalVariance float64 // omega / (1 - persistence)
	AnnualizedVol         float64 // percent
	DF                    float64 // Student-t degrees of freedom
}

func (p GARCHParams) ModelType() ModelType { return ModelGARCH }
func (p GARCHParams) Persistence() float64 { return p.Persist }
func (p GARCHParams) NumParams() int       { return 4 } // omega, alpha, beta, df

// EGARCHParams holds a fitted EGARCH(1,1) parameter set. Persistence is beta
// alone and may be negative.
type EGARCHParams struct {
	Omega                 float64
	Alpha                 float64
	Gamma                 float64 // leverage coefficient
	Beta                  float64
	UnconditionalVariance float64 // exp(omega / (1 - beta))
	AnnualizedVol         float64
	DF                    float64
}

func (p EGARCHParams) ModelType() ModelType { return ModelEGARCH }
func (p EGARCHParams) Persistence() float64 { return p.Beta }
func (p EGARCHParams) NumParams() int       { return 5 }

// GJRParams holds a fitted GJR-GARCH(1,1) parameter set. Forecast persistence
// uses the expectation of the negative-shock indicator, alpha + gamma/2 + beta.
type GJRParams struct {
	Omega                 float64
	Alpha                 float64
	Gamma                 float64 // asymmetry coefficient on negative shocks
	Beta                  float64
	Persist               float64 // alpha + gamma/2 + beta
	UnconditionalVariance float64
	AnnualizedVol         float64
	DF                    float64
}

func (p GJRParams) ModelType() ModelType { return ModelGJR }
func (p GJRParams) Persistence() float64 { return p.Persist }
func (p GJRParams) NumParams() int       { return 5 }

// HARRVParams holds the HAR-RV regression coefficients over the daily,
// weekly (5-period), and monthly (22-period) realized-variance horizons.
type HARRVParams struct {
	Intercept float64
	BetaD     float64
	BetaW     float64
	BetaM     float64
	R2        float64
	DF        float64 // profiled post hoc, not jointly estimated
}

func (p HARRVParams) ModelType() ModelType { return ModelHARRV }
func (p HARRVParams) Persistence() float64 { return p.BetaD + p.BetaW + p.BetaM }
func (p HARRVParams) NumParams() int       { return 4 }

// NoVaSParams holds the fixed-lag weight vector of the NoVaS predictor.
// Weights[i] applies to the realized variance Lags[i] periods back.
type NoVaSParams struct {
	Lags    []int
	Weights []float64
	DF      float64
}

func (p NoVaSParams) ModelType() ModelType { return ModelNoVaS }

func (p NoVaSParams) Persistence() float64 {
	sum := 0.0
	for _, w := range p.Weights {
		sum += w
	}
	return sum
}

func (p NoVaSParams) NumParams() int { return len(p.Weights) }
