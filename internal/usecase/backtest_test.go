package usecase

import (
	"testing"
	"time"

	"MomentumLab/internal/domain/models"
)

func TestSpecFromRequestDefaults(t *testing.T) {
	spec, err := SpecFromRequest(&models.BacktestRequest{
		Symbols: []string{"AAA", "BBB"},
		Start:   "2024-01-02",
		Window:  20, Annualization: 252,
	})
	if err != nil {
		t.Fatalf("SpecFromRequest: %v", err)
	}
	if spec.Benchmark != "AAA" {
		t.Fatalf("benchmark = %q, want first symbol", spec.Benchmark)
	}
	if !spec.Start.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start = %v", spec.Start)
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if spec.End.Before(today.AddDate(0, 0, -1)) {
		t.Fatalf("empty end should resolve to today, got %v", spec.End)
	}
}

func TestSpecFromRequestKeepsExplicitBenchmark(t *testing.T) {
	spec, err := SpecFromRequest(&models.BacktestRequest{
		Symbols:   []string{"AAA", "BBB"},
		Benchmark: "BBB",
		Start:     "2024-01-02",
		End:       "2024-06-28",
		Window:    20, Annualization: 252,
	})
	if err != nil {
		t.Fatalf("SpecFromRequest: %v", err)
	}
	if spec.Benchmark != "BBB" {
		t.Fatalf("benchmark = %q", spec.Benchmark)
	}
	if !spec.End.Equal(time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("end = %v", spec.End)
	}
}

func TestSpecFromRequestRejectsBadDates(t *testing.T) {
	cases := []models.BacktestRequest{
		{Symbols: []string{"AAA"}, Start: "02/01/2024"},
		{Symbols: []string{"AAA"}, Start: "2024-01-02", End: "garbage"},
		{Symbols: []string{"AAA"}, Start: "2024-06-01", End: "2024-01-01"},
	}
	for i, req := range cases {
		if _, err := SpecFromRequest(&req); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}
