package usecase

import (
	"context"
	"fmt"
	"time"

	"MomentumLab/internal/domain/models"
	drepo "MomentumLab/internal/domain/repository"
	domsvc "MomentumLab/internal/domain/service"
	pkgcache "MomentumLab/pkg/cache"
	applogger "MomentumLab/pkg/logger"
	"MomentumLab/pkg/util"
)

// staleSlack is how far the newest stored bar may trail the requested end
// before the remote source is consulted; it absorbs weekends and holidays.
const staleSlack = 4 * 24 * time.Hour

// HistoryUseCase serves per-instrument daily price series: cache, then the
// ClickHouse store, then the remote source, writing fetched bars back through
// both layers. A distributed lock keeps concurrent requests for the same
// range from fetching twice.
type HistoryUseCase struct {
	store   drepo.BarStorage
	source  drepo.HistorySource
	cache   pkgcache.Service
	ttl     time.Duration
	metrics drepo.Metrics
	l       *applogger.Logger
}

// NewHistoryUseCase creates a history provider. cache may be nil; store may
// be nil too, in which case every request goes straight to the source.
func NewHistoryUseCase(
	store drepo.BarStorage,
	source drepo.HistorySource,
	cache pkgcache.Service,
	ttl time.Duration,
	metrics drepo.Metrics,
	l *applogger.Logger,
) *HistoryUseCase {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &HistoryUseCase{store: store, source: source, cache: cache, ttl: ttl, metrics: metrics, l: l}
}

// Series returns the adjusted-close series for one instrument over [from, to].
func (uc *HistoryUseCase) Series(ctx context.Context, symbol string, from, to time.Time) (models.PriceSeries, error) {
	if symbol == "" {
		return models.PriceSeries{}, fmt.Errorf("history: symbol required")
	}
	from, to = util.AlignDayRange(from, to)
	if from.After(to) {
		return models.PriceSeries{}, fmt.Errorf("history: from %s after to %s", util.FormatDay(from), util.FormatDay(to))
	}

	key := pkgcache.GenerateKeyWithParams("momentumlab:history", symbol, util.FormatDay(from), util.FormatDay(to))
	if uc.cache != nil {
		var bars []models.DailyBar
		if err := uc.cache.Get(ctx, key, &bars); err == nil && len(bars) > 0 {
			return toPriceSeries(symbol, bars), nil
		}
	}

	var bars []models.DailyBar
	if uc.store != nil {
		var err error
		bars, err = uc.store.GetDailyBars(ctx, symbol, from, to)
		if err != nil {
			return models.PriceSeries{}, fmt.Errorf("history store: %w", err)
		}
	}

	if uc.needsFetch(bars, to) {
		fetched, err := uc.fetchAndStore(ctx, symbol, from, to, key)
		if err != nil {
			return models.PriceSeries{}, err
		}
		bars = fetched
	}
	if len(bars) == 0 {
		return models.PriceSeries{}, fmt.Errorf("history: no data for %s in %s..%s", symbol, util.FormatDay(from), util.FormatDay(to))
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, bars, uc.ttl); err != nil && uc.l != nil {
			uc.l.Warn("history cache set failed", applogger.String("key", key), applogger.Error(err))
		}
	}
	return toPriceSeries(symbol, bars), nil
}

func (uc *HistoryUseCase) needsFetch(bars []models.DailyBar, to time.Time) bool {
	if len(bars) == 0 {
		return true
	}
	newest := bars[len(bars)-1].Day
	return newest.Before(to.Add(-staleSlack)) && newest.Before(util.Day(time.Now()).Add(-staleSlack))
}

func (uc *HistoryUseCase) fetchAndStore(ctx context.Context, symbol string, from, to time.Time, key string) ([]models.DailyBar, error) {
	lockKey := key + ":lock"
	if uc.cache != nil {
		got, err := uc.cache.TryLock(ctx, lockKey, 30*time.Second)
		if err == nil && !got && uc.store != nil {
			// another request is already fetching; wait it out and re-read
			// the store rather than double-hitting the provider
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(2 * time.Second):
			}
			return uc.store.GetDailyBars(ctx, symbol, from, to)
		}
		if err == nil && got {
			defer func() { _ = uc.cache.Unlock(context.WithoutCancel(ctx), lockKey) }()
		}
	}

	start := time.Now()
	fetched, err := uc.source.FetchDailyBars(ctx, symbol, from, to)
	if err != nil {
		uc.metrics.RecordError("history_fetch")
		return nil, fmt.Errorf("history fetch %s: %w", symbol, err)
	}
	uc.metrics.RecordLatency("history_fetch", time.Since(start).Seconds())

	if len(fetched) > 0 && uc.store != nil {
		ptrs := make([]*models.DailyBar, len(fetched))
		for i := range fetched {
			ptrs[i] = &fetched[i]
		}
		if err := uc.store.StoreBatch(ctx, ptrs); err != nil {
			// the backtest can still run off the fetched copy
			uc.metrics.RecordError("history_store")
			if uc.l != nil {
				uc.l.Warn("history store-back failed", applogger.String("symbol", symbol), applogger.Error(err))
			}
		}
		for _, b := range fetched {
			uc.metrics.RecordBarStored("clickhouse", b.Symbol)
		}
	}
	if uc.l != nil {
		uc.l.Info("history fetched from source",
			applogger.String("symbol", symbol),
			applogger.Int("bars", len(fetched)),
		)
	}
	return fetched, nil
}

func toPriceSeries(symbol string, bars []models.DailyBar) models.PriceSeries {
	s := models.PriceSeries{Symbol: symbol}
	for _, b := range bars {
		if b.AdjClose <= 0 {
			continue
		}
		s.Dates = append(s.Dates, b.Day)
		s.Closes = append(s.Closes, b.AdjClose)
	}
	return s
}

var _ domsvc.HistoryProvider = (*HistoryUseCase)(nil)
