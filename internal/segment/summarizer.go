// Package segment computes read-only grouped summaries of the cleaned table.
package segment

import (
	"github.com/montanaflynn/stats"

	"churnscope/domain/churn"
	"churnscope/domain/core"
)

const stage = "summarizer"

// Summarize groups the table by a categorical column and reports group
// sizes, proportions and per-group churn rates. Group order follows the
// column's level order, so output is deterministic.
func Summarize(t *churn.Table, column, target string) (churn.SegmentTable, error) {
	col := t.Column(column)
	if col == nil {
		return churn.SegmentTable{}, core.NewUnknownColumnError(stage, column)
	}
	if col.Type != churn.ColumnCategorical {
		return churn.SegmentTable{}, core.NewValidationError(stage, column, "segment column must be categorical")
	}
	labels, err := t.Labels(target)
	if err != nil {
		return churn.SegmentTable{}, err
	}

	counts := make(map[string]int, len(col.Levels))
	churned := make(map[string]int, len(col.Levels))
	for i, v := range col.Values {
		counts[v]++
		if labels[i] {
			churned[v]++
		}
	}

	total := t.Rows()
	groups := make([]churn.GroupSummary, 0, len(col.Levels))
	for _, level := range col.Levels {
		n := counts[level]
		g := churn.GroupSummary{Level: level, Count: n}
		if total > 0 {
			g.Proportion = float64(n) / float64(total)
		}
		if n > 0 {
			g.ChurnRate = float64(churned[level]) / float64(n)
		}
		groups = append(groups, g)
	}
	return churn.SegmentTable{Column: column, Groups: groups}, nil
}

// SummarizeNumericBy summarizes a numeric column per level of a categorical
// one (quartiles and mean), standing in for box plots in the report.
func SummarizeNumericBy(t *churn.Table, numeric, by string) (churn.NumericBySegment, error) {
	numCol := t.Column(numeric)
	if numCol == nil {
		return churn.NumericBySegment{}, core.NewUnknownColumnError(stage, numeric)
	}
	if numCol.Type != churn.ColumnNumeric {
		return churn.NumericBySegment{}, core.NewValidationError(stage, numeric, "expected a numeric column")
	}
	byCol := t.Column(by)
	if byCol == nil {
		return churn.NumericBySegment{}, core.NewUnknownColumnError(stage, by)
	}
	if byCol.Type != churn.ColumnCategorical {
		return churn.NumericBySegment{}, core.NewValidationError(stage, by, "segment column must be categorical")
	}

	grouped := make(map[string][]float64, len(byCol.Levels))
	for i, level := range byCol.Values {
		grouped[level] = append(grouped[level], numCol.Numeric[i])
	}

	out := churn.NumericBySegment{Column: numeric, By: by}
	for _, level := range byCol.Levels {
		vals := grouped[level]
		s := churn.NumericSummary{Level: level, Count: len(vals)}
		if len(vals) > 0 {
			s.Min, _ = stats.Min(vals)
			s.Max, _ = stats.Max(vals)
			s.Median, _ = stats.Median(vals)
			s.Mean, _ = stats.Mean(vals)
			s.Q1, _ = stats.Percentile(vals, 25)
			s.Q3, _ = stats.Percentile(vals, 75)
		}
		out.Summary = append(out.Summary, s)
	}
	return out, nil
}
