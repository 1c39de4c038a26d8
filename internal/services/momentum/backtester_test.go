package momentum

import (
	"context"
	"errors"
	"math"
	"testing"

	"MomentumLab/internal/domain/models"
)

func constantGrowthSeries(symbol string, daily float64, n int) models.PriceSeries {
	s := models.PriceSeries{Symbol: symbol}
	v := 100.0
	for i := 0; i < n; i++ {
		s.Dates = append(s.Dates, day(i))
		s.Closes = append(s.Closes, v)
		v *= 1 + daily
	}
	return s
}

func testSpec(symbols []string, benchmark string, window int) models.BacktestSpec {
	return models.BacktestSpec{
		Symbols:       symbols,
		Benchmark:     benchmark,
		Start:         day(0),
		End:           day(365),
		Window:        window,
		Annualization: 252,
	}
}

func TestRunConstantReturnsStayInCash(t *testing.T) {
	// Constant per-instrument returns mean zero window variance, so no
	// instrument ever qualifies and the strategy holds cash throughout.
	series := []models.PriceSeries{
		constantGrowthSeries("A", 0.02, 40),
		constantGrowthSeries("B", 0.01, 40),
		constantGrowthSeries("C", -0.01, 40),
	}
	bt := NewBacktester(nil)
	res, err := bt.Run(context.Background(), testSpec([]string{"A", "B", "C"}, "B", 2), series)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for tt, w := range res.Weights {
		if w.Sum() != 0 {
			t.Fatalf("weights[%d] = %v, want all cash", tt, w)
		}
	}
	for tt, r := range res.Strategy.Returns {
		if r != 0 {
			t.Fatalf("strategy return[%d] = %v, want 0", tt, r)
		}
	}
	// The comparators still compound: benchmark is pure B from day 1 on.
	if math.Abs(res.Benchmark.Returns[2]-0.01) > 1e-9 {
		t.Fatalf("benchmark return %v, want 0.01", res.Benchmark.Returns[2])
	}
}

func TestRunWeightAndLagInvariants(t *testing.T) {
	// Alternating magnitudes give real variance so signals do fire.
	mk := func(symbol string, a, b float64) models.PriceSeries {
		s := models.PriceSeries{Symbol: symbol}
		v := 100.0
		for i := 0; i < 60; i++ {
			s.Dates = append(s.Dates, day(i))
			s.Closes = append(s.Closes, v)
			if i%2 == 0 {
				v *= 1 + a
			} else {
				v *= 1 + b
			}
		}
		return s
	}
	series := []models.PriceSeries{
		mk("A", 0.03, 0.01),
		mk("B", 0.02, -0.01),
		mk("C", -0.02, 0.01),
	}
	bt := NewBacktester(nil)
	res, err := bt.Run(context.Background(), testSpec([]string{"A", "B", "C"}, "A", 5), series)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	fired := false
	for tt, w := range res.Weights {
		sum := w.Sum()
		if math.Abs(sum-1) > 1e-9 && sum != 0 {
			t.Fatalf("weights[%d] sum %v", tt, sum)
		}
		if sum > 0 {
			fired = true
		}
		for sym, v := range w {
			if v < 0 {
				t.Fatalf("weights[%d][%s] = %v < 0", tt, sym, v)
			}
		}
	}
	if !fired {
		t.Fatalf("expected at least one allocated date")
	}

	if res.LaggedWeights[0].Sum() != 0 {
		t.Fatalf("first lagged vector must be all cash")
	}
	for tt := 1; tt < len(res.Weights); tt++ {
		for sym, v := range res.Weights[tt-1] {
			if res.LaggedWeights[tt][sym] != v {
				t.Fatalf("lagged[%d][%s] = %v, want %v", tt, sym, res.LaggedWeights[tt][sym], v)
			}
		}
	}

	if len(res.Summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(res.Summaries))
	}
	for _, v := range res.Variants() {
		for tt, d := range v.Drawdown {
			if d > 0 {
				t.Fatalf("%s drawdown[%d] = %v > 0", v.Name, tt, d)
			}
		}
	}
}

func TestRunCommissionDragsStrategyOnly(t *testing.T) {
	mk := func(symbol string, a, b float64) models.PriceSeries {
		s := models.PriceSeries{Symbol: symbol}
		v := 100.0
		for i := 0; i < 30; i++ {
			s.Dates = append(s.Dates, day(i))
			s.Closes = append(s.Closes, v)
			if i%2 == 0 {
				v *= 1 + a
			} else {
				v *= 1 + b
			}
		}
		return s
	}
	series := []models.PriceSeries{mk("A", 0.03, 0.01), mk("B", 0.02, -0.01)}

	spec := testSpec([]string{"A", "B"}, "A", 3)
	bt := NewBacktester(nil)
	free, err := bt.Run(context.Background(), spec, series)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	spec.Commission = 0.001
	paid, err := bt.Run(context.Background(), spec, series)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var freeTotal, paidTotal float64
	for i := range free.Strategy.Returns {
		freeTotal += free.Strategy.Returns[i]
		paidTotal += paid.Strategy.Returns[i]
	}
	if paidTotal >= freeTotal {
		t.Fatalf("commission did not reduce strategy returns: %v vs %v", paidTotal, freeTotal)
	}
	for i := range free.Benchmark.Returns {
		if paid.Benchmark.Returns[i] != free.Benchmark.Returns[i] {
			t.Fatalf("commission must not touch the benchmark")
		}
	}
}

func TestRunInsufficientOverlapFails(t *testing.T) {
	series := []models.PriceSeries{
		{Symbol: "A", Dates: days(0, 1), Closes: []float64{1, 2}},
		{Symbol: "B", Dates: days(2, 3), Closes: []float64{1, 2}},
	}
	bt := NewBacktester(nil)
	_, err := bt.Run(context.Background(), testSpec([]string{"A", "B"}, "A", 2), series)
	var ae *AlignmentError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AlignmentError, got %v", err)
	}
}

func TestRunValidatesSpec(t *testing.T) {
	series := []models.PriceSeries{constantGrowthSeries("A", 0.01, 10)}
	bt := NewBacktester(nil)
	cases := []models.BacktestSpec{
		{Symbols: nil, Benchmark: "A", Window: 2, Annualization: 252},
		{Symbols: []string{"A"}, Benchmark: "A", Window: 0, Annualization: 252},
		{Symbols: []string{"A"}, Benchmark: "A", Window: 2, Annualization: 0},
		{Symbols: []string{"A"}, Benchmark: "Z", Window: 2, Annualization: 252},
		{Symbols: []string{"A"}, Benchmark: "A", Window: 2, Annualization: 252, Commission: -1},
	}
	for i, spec := range cases {
		if _, err := bt.Run(context.Background(), spec, series); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestRunShortHistoryStillCompletes(t *testing.T) {
	series := []models.PriceSeries{
		constantGrowthSeries("A", 0.01, 5),
		constantGrowthSeries("B", 0.02, 5),
	}
	bt := NewBacktester(nil)
	res, err := bt.Run(context.Background(), testSpec([]string{"A", "B"}, "A", 20), series)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for tt, w := range res.Weights {
		if w.Sum() != 0 {
			t.Fatalf("weights[%d] should stay all cash with no signal", tt)
		}
	}
	if len(res.Dates) != 5 {
		t.Fatalf("expected 5 dates, got %d", len(res.Dates))
	}
}
