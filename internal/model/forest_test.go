package model

import (
	"math/rand"
	"testing"

	"churnscope/domain/core"
)

// thresholdData labels rows by a single cutoff on the first feature, with a
// second pure-noise feature alongside it.
func thresholdData(n int, seed int64) ([][]float64, []bool) {
	rng := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]bool, n)
	for i := 0; i < n; i++ {
		signal := rng.Float64() * 100
		X[i] = []float64{signal, rng.Float64()}
		y[i] = signal >= 50
	}
	return X, y
}

func TestFitForest_LearnsThresholdRule(t *testing.T) {
	X, y := thresholdData(600, 17)
	cfg := ForestConfig{NumTrees: 50, FeaturesPerSplit: 2, MinLeaf: 1, Seed: 1}

	m, err := FitForest(X, y, []string{"signal", "noise"}, cfg)
	if err != nil {
		t.Fatalf("FitForest: %v", err)
	}

	if p := m.ProbYes([]float64{90, 0.5}); p < 0.9 {
		t.Errorf("ProbYes far above the cutoff = %v, want near 1", p)
	}
	if p := m.ProbYes([]float64{10, 0.5}); p > 0.1 {
		t.Errorf("ProbYes far below the cutoff = %v, want near 0", p)
	}
	if e := m.OOBError(); e > 0.05 {
		t.Errorf("out-of-bag error = %v on a separable rule, want small", e)
	}
}

func TestFitForest_ImportanceRanksSignalFirst(t *testing.T) {
	X, y := thresholdData(600, 29)
	cfg := ForestConfig{NumTrees: 50, FeaturesPerSplit: 1, MinLeaf: 1, Seed: 2}

	m, err := FitForest(X, y, []string{"signal", "noise"}, cfg)
	if err != nil {
		t.Fatalf("FitForest: %v", err)
	}
	imps := m.Importances()
	if len(imps) != 2 {
		t.Fatalf("got %d importances, want 2", len(imps))
	}
	if imps[0].MeanDecreaseGini <= imps[1].MeanDecreaseGini {
		t.Errorf("gini importance signal=%v noise=%v, signal must dominate",
			imps[0].MeanDecreaseGini, imps[1].MeanDecreaseGini)
	}
	if imps[0].MeanDecreaseAcc <= imps[1].MeanDecreaseAcc {
		t.Errorf("accuracy importance signal=%v noise=%v, signal must dominate",
			imps[0].MeanDecreaseAcc, imps[1].MeanDecreaseAcc)
	}
}

func TestFitForest_Deterministic(t *testing.T) {
	X, y := thresholdData(200, 5)
	cfg := ForestConfig{NumTrees: 20, FeaturesPerSplit: 1, MinLeaf: 1, Seed: 42}

	a, err := FitForest(X, y, []string{"signal", "noise"}, cfg)
	if err != nil {
		t.Fatalf("FitForest: %v", err)
	}
	b, err := FitForest(X, y, []string{"signal", "noise"}, cfg)
	if err != nil {
		t.Fatalf("FitForest: %v", err)
	}
	probe := []float64{42, 0.3}
	if a.ProbYes(probe) != b.ProbYes(probe) {
		t.Error("same seed must produce the same forest")
	}
	if a.OOBError() != b.OOBError() {
		t.Error("same seed must produce the same out-of-bag error")
	}
}

func TestForestConfig_Validation(t *testing.T) {
	X := [][]float64{{1, 2}, {3, 4}}
	y := []bool{true, false}

	if _, err := FitForest(X, y, []string{"a", "b"}, ForestConfig{NumTrees: 0}); !core.IsConfigurationError(err) {
		t.Errorf("zero trees: got %v, want configuration error", err)
	}
	bad := ForestConfig{NumTrees: 5, FeaturesPerSplit: 3}
	if _, err := FitForest(X, y, []string{"a", "b"}, bad); !core.IsConfigurationError(err) {
		t.Errorf("features_per_split beyond width: got %v, want configuration error", err)
	}
	if _, err := FitForest(nil, nil, nil, DefaultForestConfig()); err == nil {
		t.Error("empty training set must be rejected")
	}
}
