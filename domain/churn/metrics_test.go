package churn

import (
	"math"
	"testing"
)

func TestBinarize_BoundaryUsesGreaterOrEqual(t *testing.T) {
	// A probability exactly at the threshold classifies as churn.
	if !Binarize(0.5, 0.5) {
		t.Error("p == t must classify as positive")
	}
	if Binarize(0.49999, 0.5) {
		t.Error("p < t must classify as negative")
	}
	if !Binarize(0.51, 0.5) {
		t.Error("p > t must classify as positive")
	}
}

func TestConfusionMatrix_DerivedMetrics(t *testing.T) {
	m := ConfusionMatrix{TN: 1300, FP: 160, FN: 200, TP: 100}

	if m.Total() != 1760 {
		t.Fatalf("Total = %d, want 1760", m.Total())
	}
	if got, want := m.Accuracy(), 1400.0/1760.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("Accuracy = %f, want %f", got, want)
	}
	if got, want := m.Sensitivity(), 100.0/300.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("Sensitivity = %f, want %f", got, want)
	}
	if got, want := m.Specificity(), 1300.0/1460.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("Specificity = %f, want %f", got, want)
	}
}

func TestConfusionMatrix_EmptyIsZero(t *testing.T) {
	var m ConfusionMatrix
	if m.Accuracy() != 0 || m.Sensitivity() != 0 || m.Specificity() != 0 {
		t.Error("empty matrix metrics should be zero, not NaN")
	}
}

func TestCostConfig_ExpectedCostScenario(t *testing.T) {
	// (200*300 + 100*60 + 160*60) / 1760 = 75600/1760
	costs := CostConfig{FalseNegative: 300, FalsePositive: 60, TruePositive: 60, TrueNegative: 0}
	m := ConfusionMatrix{TN: 1300, FP: 160, FN: 200, TP: 100}

	got := costs.ExpectedCost(m)
	want := 75600.0 / 1760.0
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("ExpectedCost = %f, want %f", got, want)
	}
	if math.Abs(got-43.0) > 0.1 {
		t.Errorf("ExpectedCost = %f, want about 43.0 per customer", got)
	}
}

func TestCostConfig_Validate(t *testing.T) {
	if err := DefaultCostConfig().Validate(); err != nil {
		t.Errorf("default costs should validate, got %v", err)
	}
	bad := CostConfig{FalseNegative: -1}
	if err := bad.Validate(); err == nil {
		t.Error("negative unit cost must fail validation")
	}
}

func TestTable_Labels(t *testing.T) {
	tbl, err := NewTable([]Column{
		{Name: "Churn", Type: ColumnCategorical, Values: []string{"Yes", "No", "Yes"}, Levels: []string{"Yes", "No"}},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	labels, err := tbl.Labels("Churn")
	if err != nil {
		t.Fatalf("Labels: %v", err)
	}
	want := []bool{true, false, true}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("label %d = %v, want %v", i, labels[i], want[i])
		}
	}

	rate, err := tbl.ChurnRate("Churn")
	if err != nil {
		t.Fatalf("ChurnRate: %v", err)
	}
	if math.Abs(rate-2.0/3.0) > 1e-12 {
		t.Errorf("ChurnRate = %f, want %f", rate, 2.0/3.0)
	}
}

func TestTable_LabelsRejectsOutOfDomainValues(t *testing.T) {
	tbl, err := NewTable([]Column{
		{Name: "Churn", Type: ColumnCategorical, Values: []string{"Yes", "Maybe"}, Levels: []string{"Yes", "Maybe"}},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	if _, err := tbl.Labels("Churn"); err == nil {
		t.Error("expected error for target value outside {Yes, No}")
	}
}

func TestTable_SubsetPreservesColumns(t *testing.T) {
	tbl, err := NewTable([]Column{
		{Name: "tenure", Type: ColumnNumeric, Numeric: []float64{1, 2, 3, 4}},
		{Name: "Contract", Type: ColumnCategorical, Values: []string{"a", "b", "a", "b"}, Levels: []string{"a", "b"}},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	sub := tbl.Subset([]int{3, 1})
	if sub.Rows() != 2 {
		t.Fatalf("Rows = %d, want 2", sub.Rows())
	}
	if got := sub.Column("tenure").Numeric[0]; got != 4 {
		t.Errorf("subset row 0 tenure = %v, want 4", got)
	}
	if got := sub.Column("Contract").Values[1]; got != "b" {
		t.Errorf("subset row 1 Contract = %q, want b", got)
	}
}
