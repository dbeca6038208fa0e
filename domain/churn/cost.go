package churn

import (
	"churnscope/domain/core"
)

// CostConfig holds the unit cost of each confusion-matrix outcome, per
// customer. All costs must be non-negative.
type CostConfig struct {
	FalseNegative float64 `json:"false_negative"`
	FalsePositive float64 `json:"false_positive"`
	TruePositive  float64 `json:"true_positive"`
	TrueNegative  float64 `json:"true_negative"`
}

// DefaultCostConfig mirrors the retention-offer economics of the analysis:
// a lost churner costs 300, an offer (to anyone flagged) costs 60.
func DefaultCostConfig() CostConfig {
	return CostConfig{
		FalseNegative: 300,
		FalsePositive: 60,
		TruePositive:  60,
		TrueNegative:  0,
	}
}

// Validate checks the unit costs
func (c CostConfig) Validate() error {
	if c.FalseNegative < 0 || c.FalsePositive < 0 || c.TruePositive < 0 || c.TrueNegative < 0 {
		return core.NewConfigurationError("costs", "unit costs must be non-negative")
	}
	return nil
}

// ExpectedCost converts a confusion matrix into expected cost per customer:
// each cell is normalized by the matrix total so unit costs weight rates,
// not raw counts.
func (c CostConfig) ExpectedCost(m ConfusionMatrix) float64 {
	n := float64(m.Total())
	if n == 0 {
		return 0
	}
	return (float64(m.FN)*c.FalseNegative +
		float64(m.TP)*c.TruePositive +
		float64(m.FP)*c.FalsePositive +
		float64(m.TN)*c.TrueNegative) / n
}

// CostPoint is one entry of the cost curve
type CostPoint struct {
	Threshold    float64         `json:"threshold"`
	Confusion    ConfusionMatrix `json:"confusion"`
	ExpectedCost float64         `json:"expected_cost"`
}

// CostSweep is the result of sweeping a decision threshold over a fixed
// test table's scores.
type CostSweep struct {
	Model              string      `json:"model"`
	Points             []CostPoint `json:"points"`
	Best               CostPoint   `json:"best"`
	Baseline           CostPoint   `json:"baseline"`
	SavingsPerCustomer float64     `json:"savings_per_customer"`
	CustomerBase       int         `json:"customer_base"`
	TotalSavings       float64     `json:"total_savings"`
}
