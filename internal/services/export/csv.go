package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"MomentumLab/internal/domain/models"
	"MomentumLab/pkg/util"
)

// notApplicable is what undefined ratios render as, keeping "no signal"
// distinguishable from a genuine zero in every exported artifact.
const notApplicable = "n/a"

func ratioCell(r models.Ratio, digits int) string {
	if !r.Defined {
		return notApplicable
	}
	return strconv.FormatFloat(r.Value, 'f', digits, 64)
}

func percentCell(r models.Ratio) string {
	if !r.Defined {
		return notApplicable
	}
	return fmt.Sprintf("%.2f%%", r.Value*100)
}

// PerformanceCSV renders the comparison table, one row per variant.
func PerformanceCSV(summaries []models.PerformanceSummary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{
		"variant", "annualized_return", "annualized_volatility", "sharpe",
		"max_drawdown", "calmar", "sortino", "win_rate",
		"positive_periods", "total_periods", "start", "end",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, s := range summaries {
		row := []string{
			s.Name,
			percentCell(s.AnnualizedReturn),
			percentCell(s.AnnualizedVolatility),
			ratioCell(s.Sharpe, 3),
			fmt.Sprintf("%.2f%%", s.MaxDrawdown*100),
			ratioCell(s.Calmar, 3),
			ratioCell(s.Sortino, 3),
			percentCell(s.WinRate),
			strconv.Itoa(s.PositivePeriods),
			strconv.Itoa(s.TotalPeriods),
			util.FormatDay(s.Start),
			util.FormatDay(s.End),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// WeightsCSV renders the decision weight path: one row per date, one column
// per instrument, plus the per-row sum so the fully-invested-or-cash
// invariant is visible in the artifact itself.
func WeightsCSV(result *models.BacktestResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{"date"}, result.Spec.Symbols...)
	header = append(header, "weight_sum")
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for t, date := range result.Dates {
		row := make([]string, 0, len(header))
		row = append(row, util.FormatDay(date))
		for _, sym := range result.Spec.Symbols {
			row = append(row, strconv.FormatFloat(result.Weights[t][sym], 'f', 6, 64))
		}
		row = append(row, strconv.FormatFloat(result.Weights[t].Sum(), 'f', 6, 64))
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ReturnsCSV renders the three variant return series side by side.
func ReturnsCSV(result *models.BacktestResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"date", models.VariantStrategy, models.VariantBenchmark, models.VariantEqualWeight}); err != nil {
		return nil, err
	}
	for t, date := range result.Dates {
		row := []string{
			util.FormatDay(date),
			strconv.FormatFloat(result.Strategy.Returns[t], 'f', 8, 64),
			strconv.FormatFloat(result.Benchmark.Returns[t], 'f', 8, 64),
			strconv.FormatFloat(result.EqualWeight.Returns[t], 'f', 8, 64),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
