package usecase

import (
	"context"
	"sync"

	"MomentumLab/internal/domain/models"
	drepo "MomentumLab/internal/domain/repository"
	mid "MomentumLab/internal/middleware"
	"MomentumLab/pkg/util"
)

// BarBuilder rolls live quotes into one in-progress daily bar per symbol and
// hands each finished bar to the BarProcessor when the calendar day turns
// over. It implements the pipeline Proc interface, so quotes arrive already
// validated and throttled.
type BarBuilder struct {
	proc *BarProcessor

	mu      sync.Mutex
	pending map[string]*models.DailyBar
}

// NewBarBuilder creates a builder in front of the given processor.
func NewBarBuilder(proc *BarProcessor) *BarBuilder {
	return &BarBuilder{proc: proc, pending: make(map[string]*models.DailyBar)}
}

// Process folds one quote into its symbol's current bar. The close tracks
// the latest price; volume accumulates. A quote from a newer day flushes the
// previous bar downstream first.
func (b *BarBuilder) Process(ctx context.Context, q *models.Quote) error {
	day := util.Day(q.Timestamp)

	b.mu.Lock()
	cur := b.pending[q.Symbol]
	var finished *models.DailyBar
	if cur != nil && !cur.Day.Equal(day) {
		finished = cur
		cur = nil
	}
	if cur == nil {
		cur = &models.DailyBar{Symbol: q.Symbol, Day: day, Source: "finnhub"}
		b.pending[q.Symbol] = cur
	}
	cur.Close = q.Price
	cur.AdjClose = q.Price // live feed carries no adjustment
	cur.Volume += q.Volume
	b.mu.Unlock()

	if finished != nil {
		return b.proc.Process(ctx, finished)
	}
	return nil
}

// Flush pushes every in-progress bar downstream, used on shutdown so a
// partial trading day is not lost.
func (b *BarBuilder) Flush(ctx context.Context) error {
	b.mu.Lock()
	bars := make([]*models.DailyBar, 0, len(b.pending))
	for _, bar := range b.pending {
		bars = append(bars, bar)
	}
	b.pending = make(map[string]*models.DailyBar)
	b.mu.Unlock()
	return b.proc.ProcessBatch(ctx, bars)
}

// BarCollector reads quotes from the market stream and feeds them through
// the ingest pipeline into the bar builder.
type BarCollector struct {
	stream  drepo.MarketStream
	builder *BarBuilder
	metrics drepo.Metrics
	pipe    *mid.IngestPipeline
}

// NewBarCollector creates a new BarCollector instance.
func NewBarCollector(stream drepo.MarketStream, builder *BarBuilder, metrics drepo.Metrics, pipe *mid.IngestPipeline) *BarCollector {
	return &BarCollector{stream: stream, builder: builder, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the market stream is connected.
func (c *BarCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *BarCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	qCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, qCh, errCh)
	return nil
}

func (c *BarCollector) consume(ctx context.Context, qCh <-chan *models.Quote, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case q := <-qCh:
			if q == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, q)
			} else {
				_ = c.builder.Process(ctx, q)
			}
			c.metrics.RecordLastClose(q.Symbol, q.Price)
		}
	}
}

// Builder returns the underlying BarBuilder for lifecycle management.
func (c *BarCollector) Builder() *BarBuilder { return c.builder }

// Shutdown stops the pipeline, flushes partial bars, and closes the stream.
func (c *BarCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	if c.builder != nil {
		_ = c.builder.Flush(ctx)
	}
	return c.stream.Close()
}
