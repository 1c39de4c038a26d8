package models

import "time"

// Variant names used across results, CSV and charts.
const (
	VariantStrategy    = "strategy"
	VariantBenchmark   = "benchmark"
	VariantEqualWeight = "equal_weight"
)

// BacktestSpec is the fully-resolved input to one backtest run.
type BacktestSpec struct {
	Symbols       []string  `json:"symbols"`
	Benchmark     string    `json:"benchmark"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Window        int       `json:"window"`
	Annualization int       `json:"annualization"`
	Commission    float64   `json:"commission"`
}

// VariantSeries holds the three parallel per-date series of one portfolio
// variant. Returns are defined by construction (undefined inputs contribute
// zero); Cumulative is the compounded growth of 1.0 and Drawdown its distance
// below the running peak, always <= 0.
type VariantSeries struct {
	Name       string    `json:"name"`
	Returns    []float64 `json:"returns"`
	Cumulative []float64 `json:"cumulative"`
	Drawdown   []float64 `json:"drawdown"`
}

// PerformanceSummary is the risk/return profile of one variant over the
// evaluation window. Ratio fields are undefined when their denominator
// degenerates (zero volatility, zero drawdown, no negative periods).
type PerformanceSummary struct {
	Name                 string    `json:"name"`
	AnnualizedReturn     Ratio     `json:"annualized_return"`
	AnnualizedVolatility Ratio     `json:"annualized_volatility"`
	Sharpe               Ratio     `json:"sharpe"`
	MaxDrawdown          float64   `json:"max_drawdown"`
	Calmar               Ratio     `json:"calmar"`
	Sortino              Ratio     `json:"sortino"`
	WinRate              Ratio     `json:"win_rate"`
	PositivePeriods      int       `json:"positive_periods"`
	TotalPeriods         int       `json:"total_periods"`
	Start                time.Time `json:"start"`
	End                  time.Time `json:"end"`
}

// BacktestResult is the full output of one run: the aligned date axis, the
// decision and execution weight paths, the three variant series and their
// summaries in strategy/benchmark/equal-weight order.
type BacktestResult struct {
	Spec          BacktestSpec         `json:"spec"`
	Dates         []time.Time          `json:"dates"`
	Weights       []WeightVector       `json:"weights"`
	LaggedWeights []WeightVector       `json:"lagged_weights"`
	Strategy      VariantSeries        `json:"strategy"`
	Benchmark     VariantSeries        `json:"benchmark"`
	EqualWeight   VariantSeries        `json:"equal_weight"`
	Summaries     []PerformanceSummary `json:"summaries"`
}

// Variants returns the three series in report order.
func (r *BacktestResult) Variants() []VariantSeries {
	return []VariantSeries{r.Strategy, r.Benchmark, r.EqualWeight}
}

// Job lifecycle states for queued backtests.
const (
	JobStatusQueued  = "queued"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// BacktestJobResult is what the async job stores for later retrieval.
type BacktestJobResult struct {
	ID         string          `json:"id"`
	Status     string          `json:"status"`
	Error      string          `json:"error,omitempty"`
	Result     *BacktestResult `json:"result,omitempty"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
	FinishedAt time.Time       `json:"finished_at,omitempty"`
}
