package eval

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"churnscope/domain/core"
)

func TestCurve_PerfectSeparation(t *testing.T) {
	scores := []float64{0.9, 0.8, 0.2, 0.1}
	truth := []bool{true, true, false, false}

	curve, err := Curve("logistic", scores, truth)
	if err != nil {
		t.Fatalf("Curve: %v", err)
	}
	if curve.AUC != 1 {
		t.Errorf("AUC = %v, want 1 for perfect separation", curve.AUC)
	}
	first := curve.Points[0]
	if !math.IsInf(first.Threshold, 1) || first.FPR != 0 || first.TPR != 0 {
		t.Errorf("curve must anchor at (0,0) above all scores, got %+v", first)
	}
	last := curve.Points[len(curve.Points)-1]
	if last.FPR != 1 || last.TPR != 1 {
		t.Errorf("curve must end at (1,1), got %+v", last)
	}
}

func TestCurve_ReversedScores(t *testing.T) {
	scores := []float64{0.1, 0.2, 0.8, 0.9}
	truth := []bool{true, true, false, false}

	curve, err := Curve("logistic", scores, truth)
	if err != nil {
		t.Fatalf("Curve: %v", err)
	}
	if curve.AUC != 0 {
		t.Errorf("AUC = %v, want 0 when the ordering is fully reversed", curve.AUC)
	}
}

func TestCurve_RandomScoresNearHalf(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	n := 4000
	scores := make([]float64, n)
	truth := make([]bool, n)
	for i := range scores {
		scores[i] = rng.Float64()
		truth[i] = rng.Float64() < 0.3
	}
	curve, err := Curve("random_forest", scores, truth)
	if err != nil {
		t.Fatalf("Curve: %v", err)
	}
	if math.Abs(curve.AUC-0.5) > 0.03 {
		t.Errorf("AUC = %v for uninformative scores, want near 0.5", curve.AUC)
	}
}

func TestCurve_OnePointPerDistinctScore(t *testing.T) {
	scores := []float64{0.7, 0.7, 0.7, 0.3, 0.3}
	truth := []bool{true, true, false, false, true}

	curve, err := Curve("logistic", scores, truth)
	if err != nil {
		t.Fatalf("Curve: %v", err)
	}
	// anchor + two distinct score values
	if len(curve.Points) != 3 {
		t.Fatalf("got %d points, want 3", len(curve.Points))
	}
	at07 := curve.Points[1]
	if at07.TPR != 2.0/3.0 || at07.FPR != 0.5 {
		t.Errorf("point at 0.7 = %+v, want TPR=2/3 FPR=1/2", at07)
	}
	// FPR must never decrease along the curve
	for i := 1; i < len(curve.Points); i++ {
		if curve.Points[i].FPR < curve.Points[i-1].FPR {
			t.Errorf("FPR decreased at point %d: %+v", i, curve.Points[i])
		}
	}
}

func TestCurve_SingleClassRejected(t *testing.T) {
	_, err := Curve("logistic", []float64{0.2, 0.8}, []bool{true, true})
	if !errors.Is(err, core.ErrDegenerateFold) {
		t.Errorf("single-class sample: got %v, want degenerate-fold error", err)
	}
	_, err = Curve("logistic", []float64{0.2, 0.8}, []bool{false, false})
	if !errors.Is(err, core.ErrDegenerateFold) {
		t.Errorf("single-class sample: got %v, want degenerate-fold error", err)
	}
}

func TestCurve_LengthMismatchRejected(t *testing.T) {
	if _, err := Curve("logistic", []float64{0.5}, []bool{true, false}); err == nil {
		t.Error("score and label length mismatch must be rejected")
	}
}
