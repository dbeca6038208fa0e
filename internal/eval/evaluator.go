// Package eval computes threshold metrics, ROC curves and repeated
// stratified cross-validation for fitted classifiers.
package eval

import (
	"churnscope/domain/churn"
)

// ConfusionAt builds the confusion matrix of scores against true labels at
// one threshold. Binarization is churn.Binarize (p >= t).
func ConfusionAt(scores []float64, truth []bool, threshold float64) churn.ConfusionMatrix {
	var m churn.ConfusionMatrix
	for i, p := range scores {
		predicted := churn.Binarize(p, threshold)
		switch {
		case predicted && truth[i]:
			m.TP++
		case predicted && !truth[i]:
			m.FP++
		case !predicted && truth[i]:
			m.FN++
		default:
			m.TN++
		}
	}
	return m
}

// EvaluateAt derives the full threshold-dependent metric set
func EvaluateAt(model string, scores []float64, truth []bool, threshold float64) churn.ClassMetrics {
	m := ConfusionAt(scores, truth, threshold)
	return churn.ClassMetrics{
		Model:       model,
		Threshold:   threshold,
		Confusion:   m,
		Accuracy:    m.Accuracy(),
		Sensitivity: m.Sensitivity(),
		Specificity: m.Specificity(),
	}
}
