package eval

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate"

	"churnscope/domain/churn"
	"churnscope/domain/core"
)

// Curve builds the ROC curve over the full range of observed scores: one
// point per distinct predicted probability, visited in decreasing
// threshold order, plus a (0,0) anchor above the maximum score. AUC is the
// trapezoidal area over the resulting (FPR, TPR) sequence, which is
// ordered by ascending FPR with ties in the order of decreasing threshold.
func Curve(model string, scores []float64, truth []bool) (churn.ROCCurve, error) {
	if len(scores) != len(truth) {
		return churn.ROCCurve{}, core.NewValidationError("evaluator", "-", "score and label counts differ")
	}
	pos, neg := 0, 0
	for _, t := range truth {
		if t {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return churn.ROCCurve{}, fmt.Errorf("evaluator: %w: AUC undefined for a single-class sample", core.ErrDegenerateFold)
	}

	type scored struct {
		p float64
		y bool
	}
	rows := make([]scored, len(scores))
	for i := range scores {
		rows[i] = scored{p: scores[i], y: truth[i]}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].p > rows[j].p })

	points := []churn.ROCPoint{{Threshold: math.Inf(1), FPR: 0, TPR: 0}}
	tp, fp := 0, 0
	for i := 0; i < len(rows); {
		t := rows[i].p
		// consume every row tied at this threshold; p >= t admits them all
		for i < len(rows) && rows[i].p == t {
			if rows[i].y {
				tp++
			} else {
				fp++
			}
			i++
		}
		points = append(points, churn.ROCPoint{
			Threshold: t,
			FPR:       float64(fp) / float64(neg),
			TPR:       float64(tp) / float64(pos),
		})
	}

	fprs := make([]float64, len(points))
	tprs := make([]float64, len(points))
	for i, pt := range points {
		fprs[i] = pt.FPR
		tprs[i] = pt.TPR
	}
	auc := integrate.Trapezoidal(fprs, tprs)

	return churn.ROCCurve{Model: model, Points: points, AUC: auc}, nil
}
