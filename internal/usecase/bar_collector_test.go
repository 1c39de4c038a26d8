package usecase

import (
	"context"
	"testing"
	"time"

	"MomentumLab/internal/domain/models"
)

type fakeStorage struct {
	stored []*models.DailyBar
}

func (f *fakeStorage) Init(ctx context.Context) error { return nil }
func (f *fakeStorage) Store(ctx context.Context, b *models.DailyBar) error {
	f.stored = append(f.stored, b)
	return nil
}
func (f *fakeStorage) StoreBatch(ctx context.Context, bars []*models.DailyBar) error {
	f.stored = append(f.stored, bars...)
	return nil
}
func (f *fakeStorage) GetDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.DailyBar, error) {
	return nil, nil
}
func (f *fakeStorage) Health(ctx context.Context) error { return nil }
func (f *fakeStorage) Close() error                     { return nil }

type fakeMetrics struct {
	errors int
}

func (f *fakeMetrics) RecordBarStored(backend, symbol string)        {}
func (f *fakeMetrics) RecordError(kind string)                       { f.errors++ }
func (f *fakeMetrics) RecordLastClose(symbol string, price float64)  {}
func (f *fakeMetrics) RecordLatency(op string, seconds float64)      {}
func (f *fakeMetrics) RecordBacktest(status string, seconds float64) {}

func newTestBuilder() (*BarBuilder, *fakeStorage) {
	store := &fakeStorage{}
	proc := NewBarProcessor(nil, store, &fakeMetrics{}, "clickhouse", 100, time.Second)
	return NewBarBuilder(proc), store
}

func quote(sym string, price, vol float64, at time.Time) *models.Quote {
	return &models.Quote{Symbol: sym, Price: price, Volume: vol, Timestamp: at}
}

func TestBarBuilderAccumulatesWithinDay(t *testing.T) {
	b, store := newTestBuilder()
	ctx := context.Background()
	day := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

	if err := b.Process(ctx, quote("AAA", 100, 5, day)); err != nil {
		t.Fatalf("process: %v", err)
	}
	if err := b.Process(ctx, quote("AAA", 102, 3, day.Add(2*time.Hour))); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(store.stored) != 0 {
		t.Fatalf("bar flushed before day rollover: %v", store.stored)
	}

	if err := b.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if len(store.stored) != 1 {
		t.Fatalf("stored = %d, want 1", len(store.stored))
	}
	got := store.stored[0]
	if got.Close != 102 {
		t.Fatalf("close = %v, want latest price 102", got.Close)
	}
	if got.Volume != 8 {
		t.Fatalf("volume = %v, want accumulated 8", got.Volume)
	}
	if !got.Day.Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("day = %v", got.Day)
	}
}

func TestBarBuilderFlushesOnDayRollover(t *testing.T) {
	b, store := newTestBuilder()
	ctx := context.Background()
	day1 := time.Date(2024, 3, 4, 21, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	if err := b.Process(ctx, quote("AAA", 100, 1, day1)); err != nil {
		t.Fatalf("process: %v", err)
	}
	if err := b.Process(ctx, quote("AAA", 105, 1, day2)); err != nil {
		t.Fatalf("process: %v", err)
	}

	if len(store.stored) != 1 {
		t.Fatalf("stored = %d, want the finished day-1 bar", len(store.stored))
	}
	if store.stored[0].Close != 100 {
		t.Fatalf("finished close = %v, want 100", store.stored[0].Close)
	}

	if err := b.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if len(store.stored) != 2 {
		t.Fatalf("stored after flush = %d, want 2", len(store.stored))
	}
	if store.stored[1].Close != 105 {
		t.Fatalf("day-2 close = %v, want 105", store.stored[1].Close)
	}
}

func TestBarBuilderKeepsSymbolsSeparate(t *testing.T) {
	b, store := newTestBuilder()
	ctx := context.Background()
	at := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)

	_ = b.Process(ctx, quote("AAA", 10, 1, at))
	_ = b.Process(ctx, quote("BBB", 20, 1, at))
	if err := b.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if len(store.stored) != 2 {
		t.Fatalf("stored = %d, want one bar per symbol", len(store.stored))
	}
	closes := map[string]float64{}
	for _, bar := range store.stored {
		closes[bar.Symbol] = bar.Close
	}
	if closes["AAA"] != 10 || closes["BBB"] != 20 {
		t.Fatalf("closes = %v", closes)
	}
}
