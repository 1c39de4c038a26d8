package service

import (
	"context"
	"time"

	"MomentumLab/internal/domain/models"
)

// HistoryProvider loads a per-instrument daily price series, store-first with
// remote fallback. Implementations cache and deduplicate concurrent fetches.
type HistoryProvider interface {
	Series(ctx context.Context, symbol string, from, to time.Time) (models.PriceSeries, error)
}

// Backtester runs one comparative backtest over pre-fetched price series.
// Implementations are stateless; concurrent calls must not interfere.
type Backtester interface {
	Run(ctx context.Context, spec models.BacktestSpec, series []models.PriceSeries) (*models.BacktestResult, error)
}
