package eval

import (
	"golang.org/x/sync/errgroup"

	"churnscope/domain/churn"
	"churnscope/domain/core"
	"churnscope/internal/split"
)

// ResamplingConfig holds the repeated k-fold settings
type ResamplingConfig struct {
	Folds   int
	Repeats int
}

// FitScoreFunc trains on one table and scores another. Cross-validation is
// generic over the model family through this contract.
type FitScoreFunc func(train, test *churn.Table) ([]float64, error)

// CrossValidate runs repeats x folds stratified cross-validation. Each
// repeat uses an independent partitioning (seed offset by repeat index);
// folds within a repeat evaluate concurrently since they share nothing.
// A fold missing either class aborts the whole run with a degenerate-fold
// error; it is never silently scored as zero.
func CrossValidate(t *churn.Table, target string, cfg ResamplingConfig, seed int64, threshold float64, model string, fit FitScoreFunc) (churn.CrossValidationSummary, error) {
	if cfg.Folds < 2 {
		return churn.CrossValidationSummary{}, core.NewConfigurationError("folds", "need at least 2 folds")
	}
	if cfg.Repeats < 1 {
		return churn.CrossValidationSummary{}, core.NewConfigurationError("repeats", "need at least 1 repeat")
	}
	labels, err := t.Labels(target)
	if err != nil {
		return churn.CrossValidationSummary{}, err
	}

	results := make([]churn.FoldMetrics, cfg.Folds*cfg.Repeats)
	for r := 0; r < cfg.Repeats; r++ {
		folds, err := split.KFold(labels, cfg.Folds, seed+int64(r))
		if err != nil {
			return churn.CrossValidationSummary{}, err
		}

		var g errgroup.Group
		for f := 0; f < cfg.Folds; f++ {
			r, f, fold := r, f, folds[f]
			g.Go(func() error {
				if class, ok := missingClass(labels, fold); !ok {
					return core.NewDegenerateFoldError(r+1, f+1, class)
				}
				trainTbl := t.Subset(split.Complement(t.Rows(), fold))
				testTbl := t.Subset(fold)
				scores, err := fit(trainTbl, testTbl)
				if err != nil {
					return err
				}
				truth, err := testTbl.Labels(target)
				if err != nil {
					return err
				}
				curve, err := Curve(model, scores, truth)
				if err != nil {
					return err
				}
				m := ConfusionAt(scores, truth, threshold)
				results[r*cfg.Folds+f] = churn.FoldMetrics{
					Repeat:      r + 1,
					Fold:        f + 1,
					AUC:         curve.AUC,
					Sensitivity: m.Sensitivity(),
					Specificity: m.Specificity(),
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return churn.CrossValidationSummary{}, err
		}
	}

	summary := churn.CrossValidationSummary{
		Model:   model,
		Folds:   cfg.Folds,
		Repeats: cfg.Repeats,
		PerFold: results,
	}
	for _, fm := range results {
		summary.MeanAUC += fm.AUC
		summary.MeanSensitivity += fm.Sensitivity
		summary.MeanSpecificity += fm.Specificity
	}
	n := float64(len(results))
	summary.MeanAUC /= n
	summary.MeanSensitivity /= n
	summary.MeanSpecificity /= n
	return summary, nil
}

// missingClass reports which class, if any, the fold lacks
func missingClass(labels []bool, fold []int) (string, bool) {
	hasYes, hasNo := false, false
	for _, i := range fold {
		if labels[i] {
			hasYes = true
		} else {
			hasNo = true
		}
	}
	if !hasYes {
		return churn.LabelYes, false
	}
	if !hasNo {
		return churn.LabelNo, false
	}
	return "", true
}
