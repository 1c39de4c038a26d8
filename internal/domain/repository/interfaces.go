package repository

import (
	"context"
	"time"

	"MomentumLab/internal/domain/models"
)

type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Quote, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

type BarPublisher interface {
	Publish(ctx context.Context, b *models.DailyBar) error
	PublishBatch(ctx context.Context, bars []*models.DailyBar) error
	Close() error
}

type BarStorage interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, b *models.DailyBar) error
	StoreBatch(ctx context.Context, bars []*models.DailyBar) error
	GetDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.DailyBar, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// HistorySource fetches daily bars from a remote provider when the local
// store has no coverage for the requested range.
type HistorySource interface {
	FetchDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.DailyBar, error)
}

type Metrics interface {
	RecordBarStored(backend, symbol string)
	RecordError(kind string)
	RecordLastClose(symbol string, price float64)
	RecordLatency(op string, seconds float64)
	RecordBacktest(status string, seconds float64)
}
