package clean

import (
	"math"
	"testing"

	"churnscope/domain/churn"
	"churnscope/domain/core"
)

// buildRawTable constructs the 10-row imputation scenario: present
// TotalCharges [10..80], two missing entries at tenure 0 rows.
func buildRawTable(t *testing.T) *churn.Table {
	t.Helper()
	nan := math.NaN()
	tbl, err := churn.NewTable([]churn.Column{
		{Name: "customerID", Type: churn.ColumnText, Values: []string{
			"c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8", "c9", "c10"}},
		{Name: "SeniorCitizen", Type: churn.ColumnNumeric, Numeric: []float64{
			0, 1, 0, 0, 1, 0, 0, 1, 0, 0}},
		{Name: "tenure", Type: churn.ColumnNumeric, Numeric: []float64{
			5, 12, 3, 8, 0, 24, 7, 18, 0, 30}},
		{Name: "TotalCharges", Type: churn.ColumnNumeric, Numeric: []float64{
			10, 20, 30, 40, nan, 50, 60, 70, nan, 80}},
		{Name: "Contract", Type: churn.ColumnText, Values: []string{
			"Month-to-month", "One year", "Two year", "Month-to-month", "One year",
			"Two year", "Month-to-month", "One year", "Two year", "Month-to-month"}},
		{Name: "Churn", Type: churn.ColumnText, Values: []string{
			"Yes", "No", "No", "Yes", "No", "No", "Yes", "No", "No", "Yes"}},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}

func TestClean_ImputesMedianOfPresentValues(t *testing.T) {
	raw := buildRawTable(t)
	res, err := Clean(raw, DefaultConfig())
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}

	// median of [10,20,30,40,50,60,70,80] is 45
	if res.Summary.ImputedMedian != 45 {
		t.Errorf("ImputedMedian = %v, want 45", res.Summary.ImputedMedian)
	}
	if res.Summary.ImputedCount != 2 {
		t.Errorf("ImputedCount = %d, want 2", res.Summary.ImputedCount)
	}

	col := res.Table.Column("TotalCharges")
	if col.MissingCount() != 0 {
		t.Errorf("TotalCharges still has %d missing values", col.MissingCount())
	}
	if col.Numeric[4] != 45 || col.Numeric[8] != 45 {
		t.Errorf("imputed values = %v, %v, want 45, 45", col.Numeric[4], col.Numeric[8])
	}

	// audit trail names the exact rows
	rows := map[int]bool{}
	for _, op := range res.Summary.Operations {
		if op.Op != "median_imputation" || op.Column != "TotalCharges" {
			t.Errorf("unexpected operation %+v", op)
		}
		rows[op.Row] = true
	}
	if !rows[4] || !rows[8] {
		t.Errorf("operations cover rows %v, want rows 4 and 8", rows)
	}
}

func TestClean_DropsIdentifierAndCoercesTypes(t *testing.T) {
	res, err := Clean(buildRawTable(t), DefaultConfig())
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}

	if res.Table.Column("customerID") != nil {
		t.Error("customerID should be dropped")
	}
	senior := res.Table.Column("SeniorCitizen")
	if senior.Type != churn.ColumnCategorical {
		t.Errorf("SeniorCitizen type = %s, want categorical", senior.Type)
	}
	if senior.Values[1] != "1" || senior.Values[0] != "0" {
		t.Errorf("SeniorCitizen recode = %q/%q, want 0/1 labels", senior.Values[0], senior.Values[1])
	}
	contract := res.Table.Column("Contract")
	if contract.Type != churn.ColumnCategorical {
		t.Errorf("Contract type = %s, want categorical", contract.Type)
	}
	if len(contract.Levels) != 3 {
		t.Errorf("Contract levels = %v, want 3 levels", contract.Levels)
	}
}

func TestClean_Idempotent(t *testing.T) {
	raw := buildRawTable(t)
	first, err := Clean(raw, DefaultConfig())
	if err != nil {
		t.Fatalf("first Clean: %v", err)
	}
	second, err := Clean(raw, DefaultConfig())
	if err != nil {
		t.Fatalf("second Clean: %v", err)
	}

	// bit-identical result across runs on the same input
	a, b := first.Table, second.Table
	if len(a.Columns) != len(b.Columns) {
		t.Fatalf("column counts differ: %d vs %d", len(a.Columns), len(b.Columns))
	}
	for i := range a.Columns {
		ca, cb := a.Columns[i], b.Columns[i]
		if ca.Name != cb.Name || ca.Type != cb.Type {
			t.Fatalf("column %d schema differs", i)
		}
		for j := range ca.Numeric {
			if ca.Numeric[j] != cb.Numeric[j] {
				t.Errorf("column %s row %d: %v != %v", ca.Name, j, ca.Numeric[j], cb.Numeric[j])
			}
		}
		for j := range ca.Values {
			if ca.Values[j] != cb.Values[j] {
				t.Errorf("column %s row %d: %q != %q", ca.Name, j, ca.Values[j], cb.Values[j])
			}
		}
	}
}

func TestClean_InputNotMutated(t *testing.T) {
	raw := buildRawTable(t)
	if _, err := Clean(raw, DefaultConfig()); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if !math.IsNaN(raw.Column("TotalCharges").Numeric[4]) {
		t.Error("cleaner mutated its input table")
	}
	if raw.Column("Contract").Type != churn.ColumnText {
		t.Error("cleaner coerced the input table in place")
	}
}

func TestClean_RejectsMissingnessOutsideZeroTenure(t *testing.T) {
	raw := buildRawTable(t)
	// Make a missing value appear at a non-zero tenure row
	raw.Column("TotalCharges").Numeric[0] = math.NaN()

	_, err := Clean(raw, DefaultConfig())
	if err == nil {
		t.Fatal("expected validation error for missing TotalCharges at tenure != 0")
	}
	if !core.IsValidationError(err) {
		t.Errorf("error = %v, want a validation error", err)
	}
}

func TestClean_RejectsOutOfDomainTarget(t *testing.T) {
	raw := buildRawTable(t)
	raw.Column("Churn").Values[2] = "Unknown"

	_, err := Clean(raw, DefaultConfig())
	if !core.IsValidationError(err) {
		t.Errorf("error = %v, want a validation error for the target domain", err)
	}
}

func TestClean_RejectsExcessCardinality(t *testing.T) {
	raw := buildRawTable(t)
	c := raw.Column("Contract")
	c.Values[0] = "A"
	c.Values[1] = "B"
	c.Values[2] = "C"
	c.Values[3] = "D"
	c.Values[4] = "E"

	_, err := Clean(raw, DefaultConfig())
	if !core.IsValidationError(err) {
		t.Errorf("error = %v, want a cardinality validation error", err)
	}
}

func TestClean_RejectsNonBinarySeniorFlag(t *testing.T) {
	raw := buildRawTable(t)
	raw.Column("SeniorCitizen").Numeric[3] = 2

	_, err := Clean(raw, DefaultConfig())
	if !core.IsValidationError(err) {
		t.Errorf("error = %v, want a validation error for the senior flag", err)
	}
}
