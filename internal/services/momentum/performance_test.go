package momentum

import (
	"math"
	"testing"
	"time"
)

func TestAnalyzeSteadyGains(t *testing.T) {
	returns := make([]float64, 252)
	dates := make([]time.Time, 252)
	for i := range returns {
		returns[i] = 0.001
		dates[i] = day(i)
	}
	s := Analyze("steady", returns, dates, 252)

	if !s.AnnualizedReturn.Defined {
		t.Fatalf("annualized return undefined")
	}
	want := math.Pow(1.001, 252) - 1
	if math.Abs(s.AnnualizedReturn.Value-want) > 1e-9 {
		t.Fatalf("annualized return %v, want %v", s.AnnualizedReturn.Value, want)
	}
	if !s.WinRate.Defined || s.WinRate.Value != 1 {
		t.Fatalf("win rate %+v, want 1", s.WinRate)
	}
	if s.MaxDrawdown != 0 {
		t.Fatalf("max drawdown %v, want 0", s.MaxDrawdown)
	}
	// No drawdown and zero volatility: Calmar and Sharpe stay undefined
	// rather than blowing up to infinity.
	if s.Calmar.Defined {
		t.Fatalf("Calmar should be undefined with zero drawdown")
	}
	if s.Sharpe.Defined {
		t.Fatalf("Sharpe should be undefined with zero volatility")
	}
	if s.Sortino.Defined {
		t.Fatalf("Sortino should be undefined with no losing periods")
	}
	if s.PositivePeriods != 252 || s.TotalPeriods != 252 {
		t.Fatalf("period counts %d/%d", s.PositivePeriods, s.TotalPeriods)
	}
	if !s.Start.Equal(day(0)) || !s.End.Equal(day(251)) {
		t.Fatalf("bounds %v..%v", s.Start, s.End)
	}
}

func TestAnalyzeMixedSeries(t *testing.T) {
	returns := []float64{0.02, -0.01, 0.03, -0.02, 0.01}
	dates := days(0, 1, 2, 3, 4)
	s := Analyze("mixed", returns, dates, 252)

	if !s.AnnualizedVolatility.Defined || s.AnnualizedVolatility.Value <= 0 {
		t.Fatalf("volatility %+v", s.AnnualizedVolatility)
	}
	if !s.Sharpe.Defined {
		t.Fatalf("Sharpe undefined on a non-degenerate series")
	}
	if !s.Sortino.Defined {
		t.Fatalf("Sortino undefined with two losing periods")
	}
	if !s.Calmar.Defined {
		t.Fatalf("Calmar undefined with a real drawdown")
	}
	if s.MaxDrawdown >= 0 {
		t.Fatalf("max drawdown %v, want < 0", s.MaxDrawdown)
	}
	if s.WinRate.Value != 0.6 {
		t.Fatalf("win rate %v, want 0.6", s.WinRate.Value)
	}
}

func TestAnalyzeEmptySeries(t *testing.T) {
	s := Analyze("empty", nil, nil, 252)
	if s.AnnualizedReturn.Defined || s.AnnualizedVolatility.Defined || s.Sharpe.Defined ||
		s.Calmar.Defined || s.Sortino.Defined || s.WinRate.Defined {
		t.Fatalf("ratios must stay undefined on an empty series: %+v", s)
	}
	if s.TotalPeriods != 0 {
		t.Fatalf("total periods %d", s.TotalPeriods)
	}
}

func TestAnalyzeSingleLossHasNoSortino(t *testing.T) {
	s := Analyze("one-loss", []float64{0.01, -0.02, 0.01}, days(0, 1, 2), 252)
	if s.Sortino.Defined {
		t.Fatalf("Sortino needs at least two losing periods")
	}
}
