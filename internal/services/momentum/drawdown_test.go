package momentum

import (
	"math"
	"testing"
)

func TestDrawdownScenario(t *testing.T) {
	cumulative, drawdown := Drawdown([]float64{0.05, -0.10, 0.03})
	wantCum := []float64{1.05, 0.945, 0.97335}
	wantDD := []float64{0, -0.10, 1.05*0.9*1.03/1.05 - 1}
	for i := range wantCum {
		if math.Abs(cumulative[i]-wantCum[i]) > 1e-9 {
			t.Fatalf("cumulative[%d] = %v, want %v", i, cumulative[i], wantCum[i])
		}
		if math.Abs(drawdown[i]-wantDD[i]) > 1e-9 {
			t.Fatalf("drawdown[%d] = %v, want %v", i, drawdown[i], wantDD[i])
		}
	}
}

func TestDrawdownNeverPositiveAndZeroAtHighs(t *testing.T) {
	returns := []float64{0.01, -0.02, 0.03, 0.05, -0.04, 0.01, 0.08}
	cumulative, drawdown := Drawdown(returns)
	peak := 0.0
	for i := range returns {
		if drawdown[i] > 0 {
			t.Fatalf("drawdown[%d] = %v > 0", i, drawdown[i])
		}
		if cumulative[i] > peak {
			peak = cumulative[i]
			if math.Abs(drawdown[i]) > 1e-12 {
				t.Fatalf("drawdown[%d] = %v at a new high", i, drawdown[i])
			}
		}
	}
}

func TestCumulativeRoundTrip(t *testing.T) {
	returns := []float64{0.012, -0.007, 0, 0.031, -0.025}
	cumulative, _ := Drawdown(returns)
	prev := 1.0
	for i, c := range cumulative {
		back := c/prev - 1
		if math.Abs(back-returns[i]) > 1e-12 {
			t.Fatalf("recovered return[%d] = %v, want %v", i, back, returns[i])
		}
		prev = c
	}
}

func TestMaxDrawdown(t *testing.T) {
	_, drawdown := Drawdown([]float64{0.05, -0.10, 0.03})
	if got := MaxDrawdown(drawdown); math.Abs(got - -0.10) > 1e-12 {
		t.Fatalf("max drawdown %v, want -0.10", got)
	}
	if got := MaxDrawdown(nil); got != 0 {
		t.Fatalf("empty max drawdown %v, want 0", got)
	}
}
