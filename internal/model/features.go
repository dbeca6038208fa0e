// Package model fits the two classifier families and owns the feature
// encoding they share.
package model

import (
	"math"

	"churnscope/domain/churn"
	"churnscope/domain/core"
)

// featureSpec maps one encoded column back to its source
type featureSpec struct {
	Column  string
	Level   string // dummy level; empty for numeric passthrough
	Numeric bool
}

// Encoder turns table rows into fixed-width feature vectors. It is fitted
// on the training table and reused unchanged for any later table, so train
// and test share one encoding.
type Encoder struct {
	target string
	specs  []featureSpec
	names  []string
}

// FitEncoder builds the encoding from the given feature columns. A nil
// feature list means every column except the target. Categorical columns
// expand to one dummy per level beyond the first (the reference level);
// numeric columns pass through.
func FitEncoder(t *churn.Table, target string, features []string) (*Encoder, error) {
	if features == nil {
		for _, name := range t.ColumnNames() {
			if name != target {
				features = append(features, name)
			}
		}
	}
	e := &Encoder{target: target}
	for _, name := range features {
		if name == target {
			return nil, core.NewConfigurationError("features", "target column cannot be a feature")
		}
		col := t.Column(name)
		if col == nil {
			return nil, core.NewUnknownColumnError("encoder", name)
		}
		switch col.Type {
		case churn.ColumnNumeric:
			e.specs = append(e.specs, featureSpec{Column: name, Numeric: true})
			e.names = append(e.names, name)
		case churn.ColumnCategorical:
			for _, level := range col.Levels[1:] {
				e.specs = append(e.specs, featureSpec{Column: name, Level: level})
				e.names = append(e.names, name+"="+level)
			}
		default:
			return nil, core.NewValidationError("encoder", name, "text column must be coerced before encoding")
		}
	}
	return e, nil
}

// FeatureNames returns the encoded column names in order
func (e *Encoder) FeatureNames() []string {
	return append([]string(nil), e.names...)
}

// Width returns the encoded vector length
func (e *Encoder) Width() int { return len(e.specs) }

// Transform encodes every row of a table. Levels unseen at fit time encode
// as the reference level (all dummies zero).
func (e *Encoder) Transform(t *churn.Table) ([][]float64, error) {
	cols := make([]*churn.Column, len(e.specs))
	for i, spec := range e.specs {
		col := t.Column(spec.Column)
		if col == nil {
			return nil, core.NewUnknownColumnError("encoder", spec.Column)
		}
		cols[i] = col
	}
	out := make([][]float64, t.Rows())
	for r := 0; r < t.Rows(); r++ {
		row := make([]float64, len(e.specs))
		for i, spec := range e.specs {
			if spec.Numeric {
				v := cols[i].Numeric[r]
				if math.IsNaN(v) {
					return nil, core.NewRowValidationError("encoder", spec.Column, r+1, r+1,
						"missing numeric value reached the encoder")
				}
				row[i] = v
			} else if cols[i].Values[r] == spec.Level {
				row[i] = 1
			}
		}
		out[r] = row
	}
	return out, nil
}
