package model

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"churnscope/domain/churn"
	"churnscope/domain/core"
)

// LogisticConfig controls the IRLS fit
type LogisticConfig struct {
	MaxIter int
	Tol     float64
	Ridge   float64
}

// DefaultLogisticConfig returns the standard solver settings. The small
// ridge keeps the weighted normal equations solvable under separation.
func DefaultLogisticConfig() LogisticConfig {
	return LogisticConfig{MaxIter: 50, Tol: 1e-8, Ridge: 1e-6}
}

// LogisticModel is a fitted logistic-regression classifier. Immutable
// after fitting.
type LogisticModel struct {
	names        []string
	weights      []float64 // intercept first
	coefficients []churn.Coefficient
	converged    bool
	iterations   int
}

// FitLogistic fits P(churn|x) = sigmoid(b0 + b.x) by iteratively
// reweighted least squares and derives Wald z statistics per coefficient.
func FitLogistic(X [][]float64, y []bool, names []string, cfg LogisticConfig) (*LogisticModel, error) {
	n := len(X)
	if n == 0 {
		return nil, core.NewValidationError("trainer", "-", "no training rows")
	}
	if len(y) != n {
		return nil, core.NewValidationError("trainer", "-", "label count does not match row count")
	}
	if cfg.MaxIter <= 0 {
		return nil, core.NewConfigurationError("logistic.max_iter", "must be positive")
	}
	d := len(X[0]) + 1 // intercept column

	// Design matrix with a leading column of ones
	flat := make([]float64, n*d)
	for i, row := range X {
		flat[i*d] = 1
		copy(flat[i*d+1:], row)
	}
	design := mat.NewDense(n, d, flat)
	_ = design

	beta := make([]float64, d)
	target := make([]float64, n)
	for i, l := range y {
		if l {
			target[i] = 1
		}
	}

	p := make([]float64, n)
	w := make([]float64, n)
	var hessian *mat.Dense
	converged := false
	iter := 0
	for ; iter < cfg.MaxIter; iter++ {
		for i := 0; i < n; i++ {
			eta := beta[0]
			for j := 1; j < d; j++ {
				eta += beta[j] * flat[i*d+j]
			}
			p[i] = sigmoid(eta)
			w[i] = p[i] * (1 - p[i])
		}

		// gradient g = X'(y-p) - ridge*beta
		g := mat.NewVecDense(d, nil)
		for j := 0; j < d; j++ {
			sum := 0.0
			for i := 0; i < n; i++ {
				sum += flat[i*d+j] * (target[i] - p[i])
			}
			g.SetVec(j, sum-cfg.Ridge*beta[j])
		}

		hessian = weightedGram(flat, w, n, d, cfg.Ridge)

		var delta mat.VecDense
		if err := delta.SolveVec(hessian, g); err != nil {
			return nil, core.NewValidationError("trainer", "-", "singular weighted design matrix: "+err.Error())
		}

		maxStep := 0.0
		for j := 0; j < d; j++ {
			step := delta.AtVec(j)
			beta[j] += step
			if s := math.Abs(step); s > maxStep {
				maxStep = s
			}
		}
		if maxStep < cfg.Tol {
			converged = true
			break
		}
	}

	iterations := iter
	if converged {
		iterations = iter + 1
	}

	coeffs, err := waldCoefficients(hessian, beta, names)
	if err != nil {
		return nil, err
	}

	return &LogisticModel{
		names:        append([]string(nil), names...),
		weights:      beta,
		coefficients: coeffs,
		converged:    converged,
		iterations:   iterations,
	}, nil
}

// weightedGram builds X'WX + ridge*I as a dense matrix
func weightedGram(flat, w []float64, n, d int, ridge float64) *mat.Dense {
	h := make([]float64, d*d)
	for i := 0; i < n; i++ {
		row := flat[i*d : (i+1)*d]
		wi := w[i]
		for a := 0; a < d; a++ {
			va := wi * row[a]
			for b := a; b < d; b++ {
				h[a*d+b] += va * row[b]
			}
		}
	}
	for a := 0; a < d; a++ {
		h[a*d+a] += ridge
		for b := 0; b < a; b++ {
			h[a*d+b] = h[b*d+a]
		}
	}
	return mat.NewDense(d, d, h)
}

// waldCoefficients derives standard errors from the inverse Hessian and
// two-sided p-values from the standard normal.
func waldCoefficients(hessian *mat.Dense, beta []float64, names []string) ([]churn.Coefficient, error) {
	d := len(beta)
	var cov mat.Dense
	if err := cov.Inverse(hessian); err != nil {
		return nil, core.NewValidationError("trainer", "-", "could not invert information matrix: "+err.Error())
	}
	norm := distuv.Normal{Mu: 0, Sigma: 1}
	coeffs := make([]churn.Coefficient, d)
	for j := 0; j < d; j++ {
		name := "(Intercept)"
		if j > 0 {
			name = names[j-1]
		}
		se := math.Sqrt(cov.At(j, j))
		z := 0.0
		if se > 0 {
			z = beta[j] / se
		}
		coeffs[j] = churn.Coefficient{
			Feature:  name,
			Estimate: beta[j],
			StdError: se,
			ZValue:   z,
			PValue:   2 * norm.CDF(-math.Abs(z)),
		}
	}
	return coeffs, nil
}

// Name implements ports.Classifier
func (m *LogisticModel) Name() string { return "logistic" }

// ProbYes implements ports.Classifier
func (m *LogisticModel) ProbYes(features []float64) float64 {
	eta := m.weights[0]
	for j, v := range features {
		eta += m.weights[j+1] * v
	}
	return sigmoid(eta)
}

// Coefficients returns the fitted terms with their Wald significance
func (m *LogisticModel) Coefficients() []churn.Coefficient {
	return append([]churn.Coefficient(nil), m.coefficients...)
}

// Converged reports whether IRLS reached the step tolerance
func (m *LogisticModel) Converged() bool { return m.converged }

// Iterations returns the number of IRLS iterations used
func (m *LogisticModel) Iterations() int { return m.iterations }

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
