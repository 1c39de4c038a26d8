package momentum

import (
	"math"
	"testing"

	"MomentumLab/internal/domain/models"
)

func pricesFrom(vals ...float64) []models.Point {
	out := make([]models.Point, len(vals))
	for i, v := range vals {
		out[i] = models.DefinedPoint(v)
	}
	return out
}

// naiveMetrics recomputes every window from scratch, the O(n*window) oracle
// the streaming implementation must agree with.
func naiveMetrics(prices []models.Point, window int) InstrumentMetrics {
	n := len(prices)
	m := InstrumentMetrics{
		Returns:    make([]models.Point, n),
		Momentum:   make([]models.Point, n),
		Volatility: make([]models.Point, n),
		Adjusted:   make([]models.Point, n),
	}
	for t := 1; t < n; t++ {
		if prices[t-1].Defined && prices[t].Defined && prices[t-1].Value != 0 {
			m.Returns[t] = models.DefinedPoint(prices[t].Value/prices[t-1].Value - 1)
		}
	}
	for t := window; t < n; t++ {
		all := true
		var sum float64
		for k := t - window + 1; k <= t; k++ {
			if !m.Returns[k].Defined {
				all = false
				break
			}
			sum += m.Returns[k].Value
		}
		if !all {
			continue
		}
		mean := sum / float64(window)
		m.Momentum[t] = models.DefinedPoint(mean)
		if window < 2 {
			continue
		}
		var sq float64
		for k := t - window + 1; k <= t; k++ {
			d := m.Returns[k].Value - mean
			sq += d * d
		}
		variance := sq / float64(window-1)
		m.Volatility[t] = models.DefinedPoint(variance)
		if variance > 0 {
			m.Adjusted[t] = models.DefinedPoint(mean / math.Sqrt(variance))
		}
	}
	return m
}

func pointsClose(t *testing.T, name string, got, want []models.Point) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: length %d vs %d", name, len(got), len(want))
	}
	for i := range got {
		if got[i].Defined != want[i].Defined {
			t.Fatalf("%s[%d]: defined %v vs %v", name, i, got[i].Defined, want[i].Defined)
		}
		if !got[i].Defined {
			continue
		}
		// Relative tolerance: streaming sums and the two-pass oracle round
		// differently, and adjusted momentum can be large when the window
		// variance is tiny.
		scale := math.Abs(want[i].Value)
		if scale < 1 {
			scale = 1
		}
		if math.Abs(got[i].Value-want[i].Value) > 1e-9*scale {
			t.Fatalf("%s[%d]: %v vs %v", name, i, got[i].Value, want[i].Value)
		}
	}
}

func TestComputeMatchesNaiveOracle(t *testing.T) {
	// Deterministic pseudo-random walk with a gap in the middle.
	prices := make([]models.Point, 120)
	v := 100.0
	seed := uint64(42)
	for i := range prices {
		seed = seed*6364136223846793005 + 1442695040888963407
		v *= 1 + (float64(seed%2001)-1000)/50000
		prices[i] = models.DefinedPoint(v)
	}
	prices[60] = models.Undefined

	for _, window := range []int{2, 5, 20} {
		calc, err := NewCalculator(window)
		if err != nil {
			t.Fatalf("calculator: %v", err)
		}
		got := calc.Compute(prices)
		want := naiveMetrics(prices, window)
		pointsClose(t, "returns", got.Returns, want.Returns)
		pointsClose(t, "momentum", got.Momentum, want.Momentum)
		pointsClose(t, "volatility", got.Volatility, want.Volatility)
		pointsClose(t, "adjusted", got.Adjusted, want.Adjusted)
	}
}

func TestComputeUndefinedBeforeWindow(t *testing.T) {
	calc, _ := NewCalculator(5)
	m := calc.Compute(pricesFrom(1, 1.1, 1.2, 1.1, 1.3, 1.4, 1.5))
	for i := 0; i < 5; i++ {
		if m.Momentum[i].Defined || m.Volatility[i].Defined || m.Adjusted[i].Defined {
			t.Fatalf("signal defined at %d before window filled", i)
		}
	}
	if !m.Momentum[5].Defined || !m.Volatility[5].Defined {
		t.Fatalf("signal not defined once window filled")
	}
}

func TestComputeZeroVarianceLeavesAdjustedUndefined(t *testing.T) {
	// Constant 2% daily growth: every return identical, window variance 0.
	prices := make([]models.Point, 30)
	v := 100.0
	for i := range prices {
		prices[i] = models.DefinedPoint(v)
		v *= 1.02
	}
	calc, _ := NewCalculator(2)
	m := calc.Compute(prices)
	for i := range prices {
		if m.Adjusted[i].Defined {
			t.Fatalf("adjusted momentum defined at %d despite zero variance", i)
		}
	}
	if !m.Volatility[2].Defined || m.Volatility[2].Value > 1e-18 {
		t.Fatalf("variance should be defined and ~0, got %+v", m.Volatility[2])
	}
}

func TestComputeGapBreaksWindow(t *testing.T) {
	prices := pricesFrom(1, 1.1, 1.2, 1.1, 1.3, 1.4)
	prices[3] = models.Undefined
	calc, _ := NewCalculator(2)
	m := calc.Compute(prices)
	// Returns at t=3 and t=4 are undefined, so windows touching them are too.
	for _, i := range []int{3, 4, 5} {
		if m.Momentum[i].Defined {
			t.Fatalf("momentum defined at %d across a gap", i)
		}
	}
	if !m.Momentum[2].Defined {
		t.Fatalf("momentum should be defined at 2")
	}
}

func TestNewCalculatorRejectsBadWindow(t *testing.T) {
	if _, err := NewCalculator(0); err == nil {
		t.Fatalf("expected error for window 0")
	}
}
