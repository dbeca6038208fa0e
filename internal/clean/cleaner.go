// Package clean prepares the raw customer table for modeling: categorical
// coercion, median imputation and identifier removal. Every value-level
// change is recorded as a cleaning operation.
package clean

import (
	"fmt"
	"math"
	"strconv"

	"github.com/montanaflynn/stats"

	"churnscope/domain/churn"
	"churnscope/domain/core"
)

const stage = "cleaner"

// Config names the special columns and the cardinality bound for
// categorical coercion.
type Config struct {
	Target         string
	IDColumn       string
	ImputeColumn   string
	TenureColumn   string
	SeniorColumn   string
	MaxCardinality int
}

// DefaultConfig returns the telco dataset conventions
func DefaultConfig() Config {
	return Config{
		Target:         "Churn",
		IDColumn:       "customerID",
		ImputeColumn:   "TotalCharges",
		TenureColumn:   "tenure",
		SeniorColumn:   "SeniorCitizen",
		MaxCardinality: 4,
	}
}

// Result is the cleaned table plus the audit summary of what changed
type Result struct {
	Table   *churn.Table
	Summary churn.CleaningSummary
}

// Clean returns a new cleaned table; the input is never mutated. The
// imputation median is computed once, over the full table, before any
// split ever happens.
func Clean(raw *churn.Table, cfg Config) (*Result, error) {
	t := raw.Clone()
	summary := churn.CleaningSummary{
		RowsIn:        raw.Rows(),
		DroppedColumn: cfg.IDColumn,
	}

	if _, err := t.Labels(cfg.Target); err != nil {
		return nil, err
	}

	if err := recodeSeniorFlag(t, cfg.SeniorColumn); err != nil {
		return nil, err
	}

	if err := coerceCategoricals(t, cfg); err != nil {
		return nil, err
	}

	ops, median, err := imputeMedian(t, cfg)
	if err != nil {
		return nil, err
	}
	summary.Operations = ops
	summary.ImputedMedian = median
	summary.ImputedCount = len(ops)

	if err := checkNoMissing(t, cfg); err != nil {
		return nil, err
	}

	t = t.DropColumn(cfg.IDColumn)
	summary.RowsOut = t.Rows()

	return &Result{Table: t, Summary: summary}, nil
}

// recodeSeniorFlag turns the 0/1 numeric flag into a categorical column
// with levels "0" and "1". The labels are kept as-is; only the type changes.
func recodeSeniorFlag(t *churn.Table, name string) error {
	col := t.Column(name)
	if col == nil {
		return core.NewUnknownColumnError(stage, name)
	}
	if col.Type != churn.ColumnNumeric {
		return nil // already categorical, e.g. on a second run
	}
	values := make([]string, len(col.Numeric))
	for i, v := range col.Numeric {
		switch v {
		case 0:
			values[i] = "0"
		case 1:
			values[i] = "1"
		default:
			return core.NewRowValidationError(stage, name, i+1, i+1,
				fmt.Sprintf("expected binary flag, got %v", v))
		}
	}
	col.Type = churn.ColumnCategorical
	col.Numeric = nil
	col.Values = values
	col.Levels = levelsOf(values)
	return nil
}

// coerceCategoricals casts every text column to categorical and enforces
// the cardinality bound. The identifier column is exempt (it is dropped).
func coerceCategoricals(t *churn.Table, cfg Config) error {
	for i := range t.Columns {
		col := &t.Columns[i]
		if col.Name == cfg.IDColumn || col.Type != churn.ColumnText {
			continue
		}
		for j, v := range col.Values {
			if v == "" {
				return core.NewRowValidationError(stage, col.Name, j+1, j+1,
					"missing value in categorical column")
			}
		}
		levels := levelsOf(col.Values)
		if cfg.MaxCardinality > 0 && len(levels) > cfg.MaxCardinality {
			return core.NewValidationError(stage, col.Name,
				fmt.Sprintf("cardinality %d exceeds limit %d", len(levels), cfg.MaxCardinality))
		}
		col.Type = churn.ColumnCategorical
		col.Levels = levels
	}
	return nil
}

// imputeMedian replaces missing entries of the impute column with the
// median of the present values. Missingness outside tenure==0 rows is a
// validation error per the dataset invariant.
func imputeMedian(t *churn.Table, cfg Config) ([]churn.CleaningOperation, float64, error) {
	col := t.Column(cfg.ImputeColumn)
	if col == nil {
		return nil, 0, core.NewUnknownColumnError(stage, cfg.ImputeColumn)
	}
	tenure := t.Column(cfg.TenureColumn)
	if tenure == nil {
		return nil, 0, core.NewUnknownColumnError(stage, cfg.TenureColumn)
	}

	var present []float64
	var missing []int
	for i, v := range col.Numeric {
		if math.IsNaN(v) {
			missing = append(missing, i)
		} else {
			present = append(present, v)
		}
	}
	if len(missing) == 0 {
		return nil, 0, nil
	}
	if len(present) == 0 {
		return nil, 0, core.NewValidationError(stage, cfg.ImputeColumn, "no present values to impute from")
	}
	for _, i := range missing {
		if tenure.Numeric[i] != 0 {
			return nil, 0, core.NewRowValidationError(stage, cfg.ImputeColumn, i+1, i+1,
				fmt.Sprintf("missing value with %s=%v; missingness only expected at %s=0",
					cfg.TenureColumn, tenure.Numeric[i], cfg.TenureColumn))
		}
	}

	median, err := stats.Median(present)
	if err != nil {
		return nil, 0, core.NewValidationError(stage, cfg.ImputeColumn, err.Error())
	}

	ops := make([]churn.CleaningOperation, 0, len(missing))
	for _, i := range missing {
		col.Numeric[i] = median
		ops = append(ops, churn.CleaningOperation{
			Column:   cfg.ImputeColumn,
			Row:      i,
			Op:       "median_imputation",
			OldValue: "NA",
			NewValue: strconv.FormatFloat(median, 'f', -1, 64),
			Reason:   "missing_total_charges",
		})
	}
	return ops, median, nil
}

// checkNoMissing verifies no modeled column still contains missing values
func checkNoMissing(t *churn.Table, cfg Config) error {
	for i := range t.Columns {
		col := &t.Columns[i]
		if col.Name == cfg.IDColumn {
			continue
		}
		if n := col.MissingCount(); n > 0 {
			return core.NewValidationError(stage, col.Name,
				fmt.Sprintf("%d missing values remain after cleaning", n))
		}
	}
	return nil
}

// levelsOf returns distinct values in first-appearance order
func levelsOf(values []string) []string {
	seen := make(map[string]bool)
	var levels []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			levels = append(levels, v)
		}
	}
	return levels
}
