package churn

import (
	"fmt"
	"math"

	"churnscope/domain/core"
)

// ColumnType classifies how a column participates in the analysis
type ColumnType string

const (
	// ColumnNumeric holds float values; missing entries are NaN
	ColumnNumeric ColumnType = "numeric"
	// ColumnText holds raw strings before coercion; missing entries are ""
	ColumnText ColumnType = "text"
	// ColumnCategorical holds strings restricted to a fixed level set
	ColumnCategorical ColumnType = "categorical"
)

// Label values for the churn target
const (
	LabelYes = "Yes"
	LabelNo  = "No"
)

// Column is one named vector of a table. Exactly one of Numeric/Values is
// populated, depending on Type.
type Column struct {
	Name    string     `json:"name"`
	Type    ColumnType `json:"type"`
	Numeric []float64  `json:"numeric,omitempty"`
	Values  []string   `json:"values,omitempty"`
	// Levels lists the distinct values of a categorical column in
	// first-appearance order. Empty for other types.
	Levels []string `json:"levels,omitempty"`
}

// Len returns the number of entries in the column
func (c *Column) Len() int {
	if c.Type == ColumnNumeric {
		return len(c.Numeric)
	}
	return len(c.Values)
}

// MissingCount returns the number of missing entries
func (c *Column) MissingCount() int {
	n := 0
	if c.Type == ColumnNumeric {
		for _, v := range c.Numeric {
			if math.IsNaN(v) {
				n++
			}
		}
		return n
	}
	for _, v := range c.Values {
		if v == "" {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the column
func (c *Column) Clone() Column {
	out := Column{Name: c.Name, Type: c.Type}
	if c.Numeric != nil {
		out.Numeric = append([]float64(nil), c.Numeric...)
	}
	if c.Values != nil {
		out.Values = append([]string(nil), c.Values...)
	}
	if c.Levels != nil {
		out.Levels = append([]string(nil), c.Levels...)
	}
	return out
}

// Table is an ordered collection of rows sharing a fixed schema,
// stored column-wise.
type Table struct {
	Columns []Column `json:"columns"`

	index map[string]int
	rows  int
}

// NewTable builds a table from columns, validating equal lengths.
func NewTable(columns []Column) (*Table, error) {
	t := &Table{Columns: columns}
	if err := t.reindex(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) reindex() error {
	t.index = make(map[string]int, len(t.Columns))
	t.rows = 0
	for i := range t.Columns {
		c := &t.Columns[i]
		if _, dup := t.index[c.Name]; dup {
			return core.NewValidationError("table", c.Name, "duplicate column name")
		}
		t.index[c.Name] = i
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return core.NewValidationError("table", c.Name,
				fmt.Sprintf("length %d does not match table length %d", c.Len(), t.rows))
		}
	}
	return nil
}

// Rows returns the number of rows
func (t *Table) Rows() int { return t.rows }

// Column returns the named column, or nil if absent
func (t *Table) Column(name string) *Column {
	if t.index == nil {
		_ = t.reindex()
	}
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	return &t.Columns[i]
}

// ColumnNames returns the schema column names in order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i := range t.Columns {
		names[i] = t.Columns[i].Name
	}
	return names
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	cols := make([]Column, len(t.Columns))
	for i := range t.Columns {
		cols[i] = t.Columns[i].Clone()
	}
	out := &Table{Columns: cols}
	_ = out.reindex()
	return out
}

// Subset returns a new table containing the given rows, in the given order.
func (t *Table) Subset(rows []int) *Table {
	cols := make([]Column, len(t.Columns))
	for i := range t.Columns {
		src := &t.Columns[i]
		dst := Column{Name: src.Name, Type: src.Type}
		if src.Levels != nil {
			dst.Levels = append([]string(nil), src.Levels...)
		}
		if src.Type == ColumnNumeric {
			dst.Numeric = make([]float64, len(rows))
			for j, r := range rows {
				dst.Numeric[j] = src.Numeric[r]
			}
		} else {
			dst.Values = make([]string, len(rows))
			for j, r := range rows {
				dst.Values[j] = src.Values[r]
			}
		}
		cols[i] = dst
	}
	out := &Table{Columns: cols}
	_ = out.reindex()
	return out
}

// DropColumn returns a new table without the named column.
func (t *Table) DropColumn(name string) *Table {
	cols := make([]Column, 0, len(t.Columns))
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			continue
		}
		cols = append(cols, t.Columns[i].Clone())
	}
	out := &Table{Columns: cols}
	_ = out.reindex()
	return out
}

// Labels extracts the binary target column as booleans (true == churned).
// Values outside {Yes, No} are a validation error.
func (t *Table) Labels(target string) ([]bool, error) {
	col := t.Column(target)
	if col == nil {
		return nil, core.NewUnknownColumnError("table", target)
	}
	labels := make([]bool, len(col.Values))
	for i, v := range col.Values {
		switch v {
		case LabelYes:
			labels[i] = true
		case LabelNo:
			labels[i] = false
		default:
			return nil, core.NewRowValidationError("table", target, i, i,
				fmt.Sprintf("target value %q outside {Yes, No}", v))
		}
	}
	return labels, nil
}

// ChurnRate returns the fraction of rows labeled Yes in the target column.
func (t *Table) ChurnRate(target string) (float64, error) {
	labels, err := t.Labels(target)
	if err != nil {
		return 0, err
	}
	if len(labels) == 0 {
		return 0, nil
	}
	yes := 0
	for _, l := range labels {
		if l {
			yes++
		}
	}
	return float64(yes) / float64(len(labels)), nil
}
