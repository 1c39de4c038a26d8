package momentum

import (
	"math"
	"testing"

	"MomentumLab/internal/domain/models"
)

func TestAllocateProportional(t *testing.T) {
	adjusted := map[string][]models.Point{
		"A": {models.DefinedPoint(3)},
		"B": {models.DefinedPoint(1)},
		"C": {models.Undefined},
	}
	w := Allocate(adjusted, []string{"A", "B", "C"}, 0)
	if math.Abs(w["A"]-0.75) > 1e-12 || math.Abs(w["B"]-0.25) > 1e-12 || w["C"] != 0 {
		t.Fatalf("unexpected weights %v", w)
	}
	if math.Abs(w.Sum()-1) > 1e-12 {
		t.Fatalf("weights sum %v, want 1", w.Sum())
	}
}

func TestAllocateNonPositiveSignalsGoToCash(t *testing.T) {
	adjusted := map[string][]models.Point{
		"A": {models.DefinedPoint(-2)},
		"B": {models.DefinedPoint(0)},
		"C": {models.Undefined},
	}
	w := Allocate(adjusted, []string{"A", "B", "C"}, 0)
	if w.Sum() != 0 {
		t.Fatalf("expected all-cash vector, got %v", w)
	}
	for sym, v := range w {
		if v != 0 {
			t.Fatalf("%s = %v, want 0", sym, v)
		}
	}
}

func TestAllocateSumInvariant(t *testing.T) {
	adjusted := map[string][]models.Point{
		"A": {models.DefinedPoint(0.7), models.DefinedPoint(-1), models.Undefined},
		"B": {models.DefinedPoint(2.1), models.DefinedPoint(-2), models.Undefined},
		"C": {models.DefinedPoint(0.2), models.DefinedPoint(-3), models.Undefined},
	}
	symbols := []string{"A", "B", "C"}
	for tt := 0; tt < 3; tt++ {
		w := Allocate(adjusted, symbols, tt)
		sum := w.Sum()
		if math.Abs(sum-1) > 1e-9 && sum != 0 {
			t.Fatalf("t=%d: weight sum %v, want exactly 1 or 0", tt, sum)
		}
		for sym, v := range w {
			if v < 0 {
				t.Fatalf("t=%d: negative weight %s=%v", tt, sym, v)
			}
		}
	}
}

func TestLagShiftsByOnePeriod(t *testing.T) {
	symbols := []string{"A", "B"}
	weights := []models.WeightVector{
		{"A": 1, "B": 0},
		{"A": 0.6, "B": 0.4},
		{"A": 0, "B": 1},
	}
	lagged := Lag(weights, symbols)
	if lagged[0].Sum() != 0 {
		t.Fatalf("lagged[0] should be all cash, got %v", lagged[0])
	}
	for tt := 1; tt < len(weights); tt++ {
		for _, sym := range symbols {
			if lagged[tt][sym] != weights[tt-1][sym] {
				t.Fatalf("lagged[%d][%s] = %v, want %v", tt, sym, lagged[tt][sym], weights[tt-1][sym])
			}
		}
	}
}

func TestLagCopiesVectors(t *testing.T) {
	weights := []models.WeightVector{{"A": 1}, {"A": 0.5}}
	lagged := Lag(weights, []string{"A"})
	lagged[1]["A"] = 0
	if weights[0]["A"] != 1 {
		t.Fatalf("lag must not alias input vectors")
	}
}

func TestComparatorSchemes(t *testing.T) {
	symbols := []string{"A", "B", "C", "D"}
	for _, w := range EqualWeights(symbols, 3) {
		if math.Abs(w.Sum()-1) > 1e-12 {
			t.Fatalf("equal weights sum %v", w.Sum())
		}
		if w["A"] != 0.25 {
			t.Fatalf("equal weight = %v, want 0.25", w["A"])
		}
	}
	for _, w := range SingleWeights(symbols, "C", 3) {
		if w["C"] != 1 || w.Sum() != 1 {
			t.Fatalf("single weight vector %v", w)
		}
	}
}
