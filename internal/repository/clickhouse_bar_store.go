package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"MomentumLab/internal/domain/models"
	domrepo "MomentumLab/internal/domain/repository"
	pkgch "MomentumLab/pkg/clickhouse"
	applogger "MomentumLab/pkg/logger"
	"MomentumLab/pkg/util"
)

const barsTable = "momentumlab.daily_bars"

var barsSchema = []string{
	"CREATE DATABASE IF NOT EXISTS momentumlab",
	`CREATE TABLE IF NOT EXISTS momentumlab.daily_bars (
        symbol String,
        day Date,
        close Float64,
        adj_close Float64,
        volume Float64,
        source String,
        event_id String
    ) ENGINE = ReplacingMergeTree ORDER BY (symbol, day)`,
}

// CHBarStore implements BarStorage backed by ClickHouse. One row per
// instrument per day; re-inserts of the same (symbol, day) collapse in the
// ReplacingMergeTree, so ingest retries stay idempotent.
type CHBarStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHBarStore(ch *pkgch.Client) *CHBarStore {
	return &CHBarStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHBarStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHBarStore) Init(ctx context.Context) error {
	for _, stmt := range barsSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bar store schema: %w", err)
		}
	}
	return nil
}

func (s *CHBarStore) Store(ctx context.Context, b *models.DailyBar) error {
	return s.StoreBatch(ctx, []*models.DailyBar{b})
}

func (s *CHBarStore) StoreBatch(ctx context.Context, bars []*models.DailyBar) error {
	if len(bars) == 0 {
		return nil
	}
	// Multi-row VALUES inserts to keep round-trips down; 2000 rows covers
	// roughly eight years of daily history per chunk.
	const chunkSize = 2000
	for start := 0; start < len(bars); start += chunkSize {
		end := start + chunkSize
		if end > len(bars) {
			end = len(bars)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*7)
		for _, b := range bars[start:end] {
			if b == nil || b.Symbol == "" || b.Day.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				b.Symbol,
				b.Day,
				b.Close,
				b.AdjClose,
				b.Volume,
				b.Source,
				b.Symbol+"-"+util.FormatDay(b.Day),
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf(
			"INSERT INTO %s (symbol, day, close, adj_close, volume, source, event_id) VALUES %s",
			barsTable, strings.Join(values, ","),
		)
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse store_bars error",
					applogger.Int("rows", len(values)),
					applogger.Error(err),
				)
			}
			return fmt.Errorf("store bars: %w", err)
		}
	}
	return nil
}

func (s *CHBarStore) GetDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.DailyBar, error) {
	start := time.Now()
	const q = `
        SELECT symbol, day, close, adj_close, volume, source
        FROM momentumlab.daily_bars FINAL
        WHERE symbol = ? AND day >= ? AND day <= ?
        ORDER BY day ASC
    `
	rows, err := s.db.QueryContext(ctx, q, symbol, util.Day(from), util.Day(to))
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_daily_bars query error",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get daily bars: %w", err)
	}
	defer rows.Close()

	out := make([]models.DailyBar, 0, 512)
	for rows.Next() {
		var b models.DailyBar
		if err := rows.Scan(&b.Symbol, &b.Day, &b.Close, &b.AdjClose, &b.Volume, &b.Source); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b.Day = util.Day(b.Day)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse get_daily_bars ok",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHBarStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHBarStore) Close() error {
	return nil // connection owned by pkg/clickhouse client
}

var _ domrepo.BarStorage = (*CHBarStore)(nil)
