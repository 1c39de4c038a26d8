package export

import (
	"fmt"
	"time"

	"MomentumLab/internal/domain/models"
	"MomentumLab/pkg/util"

	charts "github.com/vicanso/go-charts/v2"
)

// Chart kinds accepted by the chart endpoint and the CLI runner.
const (
	ChartCumulative = "cumulative"
	ChartDrawdown   = "drawdown"
	ChartWeights    = "weights"
)

// Chart renders one of the backtest charts as PNG bytes.
func Chart(result *models.BacktestResult, kind string) ([]byte, error) {
	switch kind {
	case ChartCumulative:
		return renderLines(
			"Cumulative return",
			result.Dates,
			variantNames(result),
			[][]float64{result.Strategy.Cumulative, result.Benchmark.Cumulative, result.EqualWeight.Cumulative},
		)
	case ChartDrawdown:
		return renderLines(
			"Drawdown",
			result.Dates,
			variantNames(result),
			[][]float64{result.Strategy.Drawdown, result.Benchmark.Drawdown, result.EqualWeight.Drawdown},
		)
	case ChartWeights:
		values := make([][]float64, len(result.Spec.Symbols))
		for i, sym := range result.Spec.Symbols {
			col := make([]float64, len(result.Dates))
			for t := range result.Dates {
				col[t] = result.Weights[t][sym]
			}
			values[i] = col
		}
		return renderLines("Daily weight allocation", result.Dates, result.Spec.Symbols, values)
	default:
		return nil, fmt.Errorf("unknown chart kind %q", kind)
	}
}

func variantNames(result *models.BacktestResult) []string {
	names := make([]string, 0, 3)
	for _, v := range result.Variants() {
		names = append(names, v.Name)
	}
	return names
}

func renderLines(title string, dates []time.Time, names []string, values [][]float64) ([]byte, error) {
	labels := make([]string, len(dates))
	for i, d := range dates {
		labels[i] = util.FormatDay(d)
	}
	split := 10
	if len(labels) < split {
		split = len(labels)
	}

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}
	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag(), SplitNumber: split}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", title, err)
	}
	return painter.Bytes()
}
