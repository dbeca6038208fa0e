package split

import (
	"math"
	"math/rand"
	"testing"
)

func makeLabels(n int, churnRate float64, seed int64) []bool {
	rng := rand.New(rand.NewSource(seed))
	labels := make([]bool, n)
	for i := range labels {
		labels[i] = rng.Float64() < churnRate
	}
	return labels
}

func rate(labels []bool, idx []int) float64 {
	yes := 0
	for _, i := range idx {
		if labels[i] {
			yes++
		}
	}
	return float64(yes) / float64(len(idx))
}

func TestStratified_ProportionAndStratification(t *testing.T) {
	labels := makeLabels(7043, 0.265, 1)

	train, test, err := Stratified(labels, 0.75, 2017)
	if err != nil {
		t.Fatalf("Stratified: %v", err)
	}
	if len(train)+len(test) != len(labels) {
		t.Fatalf("partition sizes %d+%d != %d", len(train), len(test), len(labels))
	}

	frac := float64(len(train)) / float64(len(labels))
	if math.Abs(frac-0.75) > 0.001 {
		t.Errorf("train fraction = %f, want 0.75 within rounding", frac)
	}

	overall := rate(labels, allIndices(len(labels)))
	if math.Abs(rate(labels, train)-overall) > 0.02 {
		t.Errorf("train churn rate %f deviates from overall %f", rate(labels, train), overall)
	}
	if math.Abs(rate(labels, test)-overall) > 0.02 {
		t.Errorf("test churn rate %f deviates from overall %f", rate(labels, test), overall)
	}
}

func TestStratified_DisjointAndComplete(t *testing.T) {
	labels := makeLabels(500, 0.3, 7)
	train, test, err := Stratified(labels, 0.75, 42)
	if err != nil {
		t.Fatalf("Stratified: %v", err)
	}
	seen := make(map[int]int)
	for _, i := range train {
		seen[i]++
	}
	for _, i := range test {
		seen[i]++
	}
	if len(seen) != len(labels) {
		t.Errorf("partition covers %d rows, want %d", len(seen), len(labels))
	}
	for i, n := range seen {
		if n != 1 {
			t.Errorf("row %d appears %d times", i, n)
		}
	}
}

func TestStratified_DeterministicForSeed(t *testing.T) {
	labels := makeLabels(1000, 0.25, 3)

	train1, test1, _ := Stratified(labels, 0.75, 99)
	train2, test2, _ := Stratified(labels, 0.75, 99)
	if !equalInts(train1, train2) || !equalInts(test1, test2) {
		t.Error("same seed must produce identical partition membership")
	}

	train3, _, _ := Stratified(labels, 0.75, 100)
	if equalInts(train1, train3) {
		t.Error("different seeds should produce different partitions")
	}
}

func TestStratified_RejectsBadFraction(t *testing.T) {
	labels := makeLabels(10, 0.5, 1)
	for _, frac := range []float64{0, 1, -0.5, 1.5} {
		if _, _, err := Stratified(labels, frac, 1); err == nil {
			t.Errorf("fraction %v should be rejected", frac)
		}
	}
}

func TestKFold_PartitionInvariants(t *testing.T) {
	labels := makeLabels(1003, 0.27, 11)
	folds, err := KFold(labels, 10, 5)
	if err != nil {
		t.Fatalf("KFold: %v", err)
	}
	if len(folds) != 10 {
		t.Fatalf("got %d folds, want 10", len(folds))
	}

	seen := make(map[int]int)
	for _, fold := range folds {
		for _, i := range fold {
			seen[i]++
		}
	}
	if len(seen) != len(labels) {
		t.Errorf("folds cover %d rows, want %d", len(seen), len(labels))
	}
	for i, n := range seen {
		if n != 1 {
			t.Errorf("row %d appears in %d folds", i, n)
		}
	}

	overall := rate(labels, allIndices(len(labels)))
	for f, fold := range folds {
		if math.Abs(rate(labels, fold)-overall) > 0.05 {
			t.Errorf("fold %d churn rate %f deviates from overall %f", f, rate(labels, fold), overall)
		}
	}
}

func TestKFold_RejectsBadFoldCounts(t *testing.T) {
	labels := makeLabels(10, 0.5, 1)
	if _, err := KFold(labels, 1, 1); err == nil {
		t.Error("folds < 2 should be rejected")
	}
	if _, err := KFold(labels, 11, 1); err == nil {
		t.Error("more folds than rows should be rejected")
	}
}

func TestComplement(t *testing.T) {
	got := Complement(6, []int{1, 4})
	want := []int{0, 2, 3, 5}
	if !equalInts(got, want) {
		t.Errorf("Complement = %v, want %v", got, want)
	}
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
