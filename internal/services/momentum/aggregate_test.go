package momentum

import (
	"math"
	"testing"

	"MomentumLab/internal/domain/models"
)

func TestAggregateWeightedSum(t *testing.T) {
	returns := map[string][]models.Point{
		"A": {models.Undefined, models.DefinedPoint(0.02)},
		"B": {models.Undefined, models.DefinedPoint(-0.01)},
	}
	lagged := []models.WeightVector{
		{"A": 0, "B": 0},
		{"A": 0.75, "B": 0.25},
	}
	got := Aggregate(returns, lagged)
	if got[0] != 0 {
		t.Fatalf("all-cash period returned %v", got[0])
	}
	want := 0.75*0.02 + 0.25*-0.01
	if math.Abs(got[1]-want) > 1e-12 {
		t.Fatalf("portfolio return %v, want %v", got[1], want)
	}
}

func TestAggregateUndefinedReturnContributesZero(t *testing.T) {
	// B holds weight but has no realized return that day: treated as not
	// held, not as NaN.
	returns := map[string][]models.Point{
		"A": {models.DefinedPoint(0.04)},
		"B": {models.Undefined},
	}
	lagged := []models.WeightVector{{"A": 0.5, "B": 0.5}}
	got := Aggregate(returns, lagged)
	if math.Abs(got[0]-0.02) > 1e-12 {
		t.Fatalf("portfolio return %v, want 0.02", got[0])
	}
}

func TestTurnoverL1Distance(t *testing.T) {
	symbols := []string{"A", "B"}
	lagged := []models.WeightVector{
		{"A": 0, "B": 0},
		{"A": 1, "B": 0},
		{"A": 0.25, "B": 0.75},
	}
	got := Turnover(lagged, symbols)
	want := []float64{0, 1, 1.5}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("turnover[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
