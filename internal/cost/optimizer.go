// Package cost sweeps a decision threshold over a fixed test table's
// scores and selects the threshold minimizing expected per-customer cost.
package cost

import (
	"sort"

	"churnscope/domain/churn"
	"churnscope/domain/core"
	"churnscope/internal/eval"
)

// BaselineThreshold is the naive operating point every sweep is compared
// against.
const BaselineThreshold = 0.5

// DefaultThresholds returns the design grid: 10 evenly spaced thresholds
// from 0.1 to 1.0 inclusive, plus the 0.5 baseline (already on the grid).
func DefaultThresholds() []float64 {
	out := make([]float64, 0, 10)
	for i := 1; i <= 10; i++ {
		out = append(out, float64(i)/10)
	}
	return out
}

// Sweep evaluates every candidate threshold and picks the cost-optimal
// one. The grid is deduplicated, sorted ascending, and always includes the
// baseline so savings are defined. Ties on minimum cost resolve to the
// lowest threshold. Binarization is churn.Binarize (p >= t), the same
// operator the evaluator uses.
func Sweep(model string, scores []float64, truth []bool, thresholds []float64, costs churn.CostConfig, customerBase int) (churn.CostSweep, error) {
	if err := costs.Validate(); err != nil {
		return churn.CostSweep{}, err
	}
	if customerBase < 0 {
		return churn.CostSweep{}, core.NewConfigurationError("customer_base", "cannot be negative")
	}
	if len(scores) == 0 || len(scores) != len(truth) {
		return churn.CostSweep{}, core.NewValidationError("cost", "-", "scores and labels must be non-empty and aligned")
	}
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds()
	}
	grid := normalizeGrid(thresholds)

	sweep := churn.CostSweep{Model: model, CustomerBase: customerBase}
	best := -1
	for i, t := range grid {
		m := eval.ConfusionAt(scores, truth, t)
		point := churn.CostPoint{
			Threshold:    t,
			Confusion:    m,
			ExpectedCost: costs.ExpectedCost(m),
		}
		sweep.Points = append(sweep.Points, point)
		if best < 0 || point.ExpectedCost < sweep.Points[best].ExpectedCost {
			best = i
		}
		if t == BaselineThreshold {
			sweep.Baseline = point
		}
	}
	sweep.Best = sweep.Points[best]
	sweep.SavingsPerCustomer = sweep.Baseline.ExpectedCost - sweep.Best.ExpectedCost
	sweep.TotalSavings = float64(customerBase) * sweep.SavingsPerCustomer
	return sweep, nil
}

// normalizeGrid clamps to [0,1], appends the baseline, dedupes and sorts
func normalizeGrid(thresholds []float64) []float64 {
	seen := make(map[float64]bool, len(thresholds)+1)
	grid := make([]float64, 0, len(thresholds)+1)
	for _, t := range append(append([]float64(nil), thresholds...), BaselineThreshold) {
		if t < 0 || t > 1 || seen[t] {
			continue
		}
		seen[t] = true
		grid = append(grid, t)
	}
	sort.Float64s(grid)
	return grid
}
