package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"MomentumLab/internal/domain/models"
)

func sampleResult() *models.BacktestResult {
	d0 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	dates := []time.Time{d0, d0.AddDate(0, 0, 1), d0.AddDate(0, 0, 2)}
	weights := []models.WeightVector{
		{"AAA": 0, "BBB": 0},
		{"AAA": 0.75, "BBB": 0.25},
		{"AAA": 0.5, "BBB": 0.5},
	}
	variant := func(name string) models.VariantSeries {
		return models.VariantSeries{
			Name:       name,
			Returns:    []float64{0, 0.01, -0.02},
			Cumulative: []float64{1, 1.01, 0.9898},
			Drawdown:   []float64{0, 0, -0.02},
		}
	}
	return &models.BacktestResult{
		Spec:        models.BacktestSpec{Symbols: []string{"AAA", "BBB"}, Benchmark: "AAA"},
		Dates:       dates,
		Weights:     weights,
		Strategy:    variant(models.VariantStrategy),
		Benchmark:   variant(models.VariantBenchmark),
		EqualWeight: variant(models.VariantEqualWeight),
		Summaries: []models.PerformanceSummary{
			{
				Name:                 models.VariantStrategy,
				AnnualizedReturn:     models.DefinedRatio(0.12),
				AnnualizedVolatility: models.DefinedRatio(0.2),
				Sharpe:               models.DefinedRatio(0.6),
				MaxDrawdown:          -0.02,
				Calmar:               models.DefinedRatio(6),
				Sortino:              models.Ratio{},
				WinRate:              models.DefinedRatio(1.0 / 3),
				PositivePeriods:      1,
				TotalPeriods:         3,
				Start:                dates[0],
				End:                  dates[2],
			},
		},
	}
}

func parseCSV(t *testing.T, b []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	return rows
}

func TestPerformanceCSVUndefinedRendersNA(t *testing.T) {
	b, err := PerformanceCSV(sampleResult().Summaries)
	if err != nil {
		t.Fatalf("PerformanceCSV: %v", err)
	}
	rows := parseCSV(t, b)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	header, row := rows[0], rows[1]
	col := func(name string) string {
		for i, h := range header {
			if h == name {
				return row[i]
			}
		}
		t.Fatalf("missing column %q", name)
		return ""
	}
	if got := col("sortino"); got != "n/a" {
		t.Fatalf("sortino = %q, want n/a", got)
	}
	if got := col("annualized_return"); got != "12.00%" {
		t.Fatalf("annualized_return = %q", got)
	}
	if got := col("max_drawdown"); got != "-2.00%" {
		t.Fatalf("max_drawdown = %q", got)
	}
	if got := col("variant"); got != models.VariantStrategy {
		t.Fatalf("variant = %q", got)
	}
}

func TestWeightsCSVHasSumColumn(t *testing.T) {
	b, err := WeightsCSV(sampleResult())
	if err != nil {
		t.Fatalf("WeightsCSV: %v", err)
	}
	rows := parseCSV(t, b)
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	if got := rows[0][len(rows[0])-1]; got != "weight_sum" {
		t.Fatalf("last header = %q", got)
	}
	// day 2 holds 0.75/0.25
	if rows[2][1] != "0.750000" || rows[2][2] != "0.250000" {
		t.Fatalf("weights row = %v", rows[2])
	}
	if rows[2][3] != "1.000000" {
		t.Fatalf("weight_sum = %q", rows[2][3])
	}
	// all-cash day sums to zero
	if rows[1][3] != "0.000000" {
		t.Fatalf("cash day weight_sum = %q", rows[1][3])
	}
}

func TestReturnsCSVColumns(t *testing.T) {
	b, err := ReturnsCSV(sampleResult())
	if err != nil {
		t.Fatalf("ReturnsCSV: %v", err)
	}
	rows := parseCSV(t, b)
	want := []string{"date", "strategy", "benchmark", "equal_weight"}
	for i, h := range want {
		if rows[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, rows[0][i], h)
		}
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	if rows[1][0] != "2024-01-02" {
		t.Fatalf("first date = %q", rows[1][0])
	}
}

func TestPerformanceTableRendersNA(t *testing.T) {
	s := PerformanceTable(sampleResult().Summaries)
	if !strings.Contains(s, "n/a") {
		t.Fatalf("table missing n/a for undefined sortino:\n%s", s)
	}
	if !strings.Contains(s, models.VariantStrategy) {
		t.Fatalf("table missing variant name:\n%s", s)
	}
}
