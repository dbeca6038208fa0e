// Package report renders the structured run report into human-readable
// artifacts. All numbers come from the churn.RunReport value; nothing is
// computed here.
package report

import (
	"fmt"
	"strings"

	"churnscope/domain/churn"
)

// RenderMarkdown produces the full markdown run report
func RenderMarkdown(r *churn.RunReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Churn analysis run %s\n\n", r.RunID)
	fmt.Fprintf(&b, "- Input: `%s`\n", r.InputFile)
	fmt.Fprintf(&b, "- Seed: %d\n", r.Seed)
	fmt.Fprintf(&b, "- Rows: %d (%d columns), churn rate %.1f%%\n", r.DatasetRows, r.DatasetColumns, 100*r.ChurnRate)
	fmt.Fprintf(&b, "- Split: %d train / %d test\n", r.TrainRows, r.TestRows)
	fmt.Fprintf(&b, "- Cleaning: %d values imputed with median %.2f\n\n", r.Cleaning.ImputedCount, r.Cleaning.ImputedMedian)

	b.WriteString("## Segments\n\n")
	for _, seg := range r.Segments {
		fmt.Fprintf(&b, "### %s\n\n", seg.Column)
		b.WriteString("| Level | Count | Share | Churn rate |\n|---|---:|---:|---:|\n")
		for _, g := range seg.Groups {
			fmt.Fprintf(&b, "| %s | %d | %.1f%% | %.1f%% |\n", g.Level, g.Count, 100*g.Proportion, 100*g.ChurnRate)
		}
		b.WriteString("\n")
	}

	for _, nb := range r.ByTenure {
		fmt.Fprintf(&b, "### %s by %s\n\n", nb.Column, nb.By)
		b.WriteString("| Level | Count | Min | Q1 | Median | Q3 | Max | Mean |\n|---|---:|---:|---:|---:|---:|---:|---:|\n")
		for _, s := range nb.Summary {
			fmt.Fprintf(&b, "| %s | %d | %.1f | %.1f | %.1f | %.1f | %.1f | %.1f |\n",
				s.Level, s.Count, s.Min, s.Q1, s.Median, s.Q3, s.Max, s.Mean)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Models\n\n")
	for _, m := range r.Models {
		fmt.Fprintf(&b, "### %s\n\n", m.Family)
		if len(m.Coefficients) > 0 {
			b.WriteString("| Term | Estimate | Std. error | z | p |\n|---|---:|---:|---:|---:|\n")
			for _, c := range m.Coefficients {
				fmt.Fprintf(&b, "| %s | %.4f | %.4f | %.2f | %.4g |\n", c.Feature, c.Estimate, c.StdError, c.ZValue, c.PValue)
			}
			b.WriteString("\n")
		}
		if len(m.Importances) > 0 {
			fmt.Fprintf(&b, "%d trees, OOB error %.3f\n\n", m.NumTrees, m.OOBError)
			b.WriteString("| Feature | Mean decrease accuracy | Mean decrease Gini |\n|---|---:|---:|\n")
			for _, imp := range m.Importances {
				fmt.Fprintf(&b, "| %s | %.4f | %.2f |\n", imp.Feature, imp.MeanDecreaseAcc, imp.MeanDecreaseGini)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## Evaluation\n\n")
	b.WriteString("| Model | Threshold | TN | FP | FN | TP | Accuracy | Sensitivity | Specificity |\n|---|---:|---:|---:|---:|---:|---:|---:|---:|\n")
	for _, e := range r.Evaluations {
		m := e.Confusion
		fmt.Fprintf(&b, "| %s | %.2f | %d | %d | %d | %d | %.3f | %.3f | %.3f |\n",
			e.Model, e.Threshold, m.TN, m.FP, m.FN, m.TP, e.Accuracy, e.Sensitivity, e.Specificity)
	}
	b.WriteString("\n")
	for _, c := range r.ROCCurves {
		fmt.Fprintf(&b, "- AUC (%s): %.4f\n", c.Model, c.AUC)
	}
	b.WriteString("\n")

	if len(r.CrossVal) > 0 {
		b.WriteString("## Cross-validation\n\n")
		b.WriteString("| Model | Folds | Repeats | Mean AUC | Mean sensitivity | Mean specificity |\n|---|---:|---:|---:|---:|---:|\n")
		for _, cv := range r.CrossVal {
			fmt.Fprintf(&b, "| %s | %d | %d | %.4f | %.3f | %.3f |\n",
				cv.Model, cv.Folds, cv.Repeats, cv.MeanAUC, cv.MeanSensitivity, cv.MeanSpecificity)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Cost sweep\n\n")
	for _, sweep := range r.CostSweeps {
		fmt.Fprintf(&b, "### %s\n\n", sweep.Model)
		b.WriteString("| Threshold | TN | FP | FN | TP | Expected cost |\n|---:|---:|---:|---:|---:|---:|\n")
		for _, p := range sweep.Points {
			m := p.Confusion
			fmt.Fprintf(&b, "| %.2f | %d | %d | %d | %d | %.2f |\n", p.Threshold, m.TN, m.FP, m.FN, m.TP, p.ExpectedCost)
		}
		fmt.Fprintf(&b, "\nOptimal threshold %.2f at %.2f per customer (baseline %.2f at %.2f).\n",
			sweep.Best.Threshold, sweep.Best.ExpectedCost, sweep.Baseline.Threshold, sweep.Baseline.ExpectedCost)
		fmt.Fprintf(&b, "Savings: %.2f per customer, %.0f across a base of %d.\n\n",
			sweep.SavingsPerCustomer, sweep.TotalSavings, sweep.CustomerBase)
	}

	return b.String()
}
