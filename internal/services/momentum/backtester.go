package momentum

import (
	"context"
	"fmt"
	"sync"

	"MomentumLab/internal/domain/models"
	applogger "MomentumLab/pkg/logger"
)

// Backtester runs the full comparative pipeline: align, per-instrument rolling
// metrics, allocation, execution lag, aggregation, and the risk/return profile
// of the momentum strategy next to buy-and-hold and equal-weight comparators.
// It holds no state between runs; concurrent Run calls do not interfere.
type Backtester struct {
	l *applogger.Logger
}

// NewBacktester creates a stateless backtester. The logger may be nil.
func NewBacktester(l *applogger.Logger) *Backtester {
	return &Backtester{l: l}
}

// Run executes one backtest over pre-fetched price series.
func (b *Backtester) Run(ctx context.Context, spec models.BacktestSpec, series []models.PriceSeries) (*models.BacktestResult, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}

	frame, err := Align(series)
	if err != nil {
		return nil, err
	}
	n := len(frame.Dates)

	calc, err := NewCalculator(spec.Window)
	if err != nil {
		return nil, err
	}

	// Per-instrument metrics are independent; run one goroutine per column
	// writing to its own slot, then join before the cross-sectional phase.
	perInstrument := make([]InstrumentMetrics, len(frame.Symbols))
	var wg sync.WaitGroup
	for i, sym := range frame.Symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			perInstrument[i] = calc.Compute(frame.Prices[sym])
		}(i, sym)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	returns := make(map[string][]models.Point, len(frame.Symbols))
	adjusted := make(map[string][]models.Point, len(frame.Symbols))
	for i, sym := range frame.Symbols {
		returns[sym] = perInstrument[i].Returns
		adjusted[sym] = perInstrument[i].Adjusted
	}

	// Fewer periods than the window means no date ever carries a signal. The
	// run still completes: every weight vector stays all cash.
	if n-1 < spec.Window && b.l != nil {
		b.l.Warn("insufficient history for signal window",
			applogger.Int("periods", n-1),
			applogger.Int("window", spec.Window),
		)
	}

	weights := make([]models.WeightVector, n)
	for t := 0; t < n; t++ {
		weights[t] = Allocate(adjusted, frame.Symbols, t)
	}
	lagged := Lag(weights, frame.Symbols)

	strategyReturns := Aggregate(returns, lagged)
	if spec.Commission > 0 {
		for t, cost := range Turnover(lagged, frame.Symbols) {
			strategyReturns[t] -= spec.Commission * cost
		}
	}

	benchLagged := Lag(SingleWeights(frame.Symbols, spec.Benchmark, n), frame.Symbols)
	equalLagged := Lag(EqualWeights(frame.Symbols, n), frame.Symbols)

	result := &models.BacktestResult{
		Spec:          spec,
		Dates:         frame.Dates,
		Weights:       weights,
		LaggedWeights: lagged,
		Strategy:      buildVariant(models.VariantStrategy, strategyReturns),
		Benchmark:     buildVariant(models.VariantBenchmark, Aggregate(returns, benchLagged)),
		EqualWeight:   buildVariant(models.VariantEqualWeight, Aggregate(returns, equalLagged)),
	}
	for _, v := range result.Variants() {
		result.Summaries = append(result.Summaries, Analyze(v.Name, v.Returns, frame.Dates, spec.Annualization))
	}

	if b.l != nil {
		b.l.Info("backtest complete",
			applogger.Int("instruments", len(frame.Symbols)),
			applogger.Int("periods", n),
			applogger.String("benchmark", spec.Benchmark),
		)
	}
	return result, nil
}

func buildVariant(name string, returns []float64) models.VariantSeries {
	cumulative, drawdown := Drawdown(returns)
	return models.VariantSeries{
		Name:       name,
		Returns:    returns,
		Cumulative: cumulative,
		Drawdown:   drawdown,
	}
}

func validateSpec(spec models.BacktestSpec) error {
	if len(spec.Symbols) == 0 {
		return fmt.Errorf("backtest: empty instrument universe")
	}
	if spec.Window <= 0 {
		return fmt.Errorf("backtest: window must be positive, got %d", spec.Window)
	}
	if spec.Annualization <= 0 {
		return fmt.Errorf("backtest: annualization must be positive, got %d", spec.Annualization)
	}
	if spec.Commission < 0 {
		return fmt.Errorf("backtest: commission cannot be negative, got %g", spec.Commission)
	}
	for _, sym := range spec.Symbols {
		if sym == spec.Benchmark {
			return nil
		}
	}
	return fmt.Errorf("backtest: benchmark %q is not in the universe", spec.Benchmark)
}
