package models

// Requests for backtest HTTP endpoints. Defined in domain for consistency and reuse.

type BacktestRequest struct {
	Symbols       []string `query:"symbols" json:"symbols" validate:"required,min=1,dive,required"`
	Benchmark     string   `query:"benchmark" json:"benchmark"`
	Start         string   `query:"start" json:"start" validate:"required,datetime=2006-01-02"`
	End           string   `query:"end" json:"end" validate:"omitempty,datetime=2006-01-02"`
	Window        int      `query:"window" json:"window" default:"20" validate:"gte=1,lte=500"`
	Annualization int      `query:"annualization" json:"annualization" default:"252" validate:"gte=1,lte=366"`
	Commission    float64  `query:"commission" json:"commission" validate:"gte=0,lte=0.05"`
	IncludeSeries bool     `query:"include_series" json:"include_series"`
}

type PricesRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Start  string `query:"start" json:"start" validate:"required,datetime=2006-01-02"`
	End    string `query:"end" json:"end" validate:"omitempty,datetime=2006-01-02"`
}

type ChartRequest struct {
	BacktestRequest
	Kind string `query:"kind" json:"kind" default:"cumulative" validate:"oneof=cumulative drawdown weights"`
}

// BacktestResponse trims the full result down for the synchronous endpoint;
// the series block is opt-in to keep small requests small.
type BacktestResponse struct {
	Spec      BacktestSpec         `json:"spec"`
	Summaries []PerformanceSummary `json:"summaries"`
	Result    *BacktestResult      `json:"result,omitempty"`
}

// JobAccepted is returned when an async run is enqueued.
type JobAccepted struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
