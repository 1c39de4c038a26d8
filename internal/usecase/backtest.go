package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MomentumLab/internal/domain/models"
	drepo "MomentumLab/internal/domain/repository"
	domsvc "MomentumLab/internal/domain/service"
	applogger "MomentumLab/pkg/logger"
	"MomentumLab/pkg/util"
)

// BacktestUseCase fetches the price history for a resolved spec and drives
// the comparative backtester over it.
type BacktestUseCase struct {
	history   domsvc.HistoryProvider
	backtest  domsvc.Backtester
	metrics   drepo.Metrics
	l         *applogger.Logger
	fetchWait time.Duration
}

func NewBacktestUseCase(
	history domsvc.HistoryProvider,
	backtest domsvc.Backtester,
	metrics drepo.Metrics,
	l *applogger.Logger,
) *BacktestUseCase {
	return &BacktestUseCase{
		history:   history,
		backtest:  backtest,
		metrics:   metrics,
		l:         l,
		fetchWait: 60 * time.Second,
	}
}

// SpecFromRequest resolves an HTTP request into a full backtest spec. An
// empty benchmark falls back to the first instrument; an empty end date means
// today.
func SpecFromRequest(req *models.BacktestRequest) (models.BacktestSpec, error) {
	spec := models.BacktestSpec{
		Symbols:       req.Symbols,
		Benchmark:     req.Benchmark,
		Window:        req.Window,
		Annualization: req.Annualization,
		Commission:    req.Commission,
	}
	if spec.Benchmark == "" && len(spec.Symbols) > 0 {
		spec.Benchmark = spec.Symbols[0]
	}
	start, ok := util.ParseDay(req.Start)
	if !ok {
		return spec, fmt.Errorf("bad start date %q", req.Start)
	}
	spec.Start = start
	if req.End == "" {
		spec.End = util.Day(time.Now())
	} else {
		end, ok := util.ParseDay(req.End)
		if !ok {
			return spec, fmt.Errorf("bad end date %q", req.End)
		}
		spec.End = end
	}
	if spec.End.Before(spec.Start) {
		return spec, fmt.Errorf("end %s before start %s", util.FormatDay(spec.End), util.FormatDay(spec.Start))
	}
	return spec, nil
}

// Run fetches every instrument's history concurrently, then executes the
// backtest. A failed fetch for any instrument fails the run: a silently
// shrunken universe would skew the comparison.
func (uc *BacktestUseCase) Run(ctx context.Context, spec models.BacktestSpec) (*models.BacktestResult, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, uc.fetchWait)
	defer cancel()

	type fetched struct {
		idx    int
		series models.PriceSeries
		err    error
	}
	ch := make(chan fetched, len(spec.Symbols))
	var wg sync.WaitGroup
	for i, sym := range spec.Symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			s, err := uc.history.Series(ctx, sym, spec.Start, spec.End)
			ch <- fetched{idx: i, series: s, err: err}
		}(i, sym)
	}
	go func() { wg.Wait(); close(ch) }()

	series := make([]models.PriceSeries, len(spec.Symbols))
	for f := range ch {
		if f.err != nil {
			uc.metrics.RecordBacktest("fetch_error", time.Since(start).Seconds())
			return nil, fmt.Errorf("fetch %s: %w", spec.Symbols[f.idx], f.err)
		}
		series[f.idx] = f.series
	}

	result, err := uc.backtest.Run(ctx, spec, series)
	if err != nil {
		uc.metrics.RecordBacktest("error", time.Since(start).Seconds())
		return nil, err
	}
	uc.metrics.RecordBacktest("ok", time.Since(start).Seconds())
	if uc.l != nil {
		uc.l.Info("backtest run finished",
			applogger.Int("instruments", len(spec.Symbols)),
			applogger.Int("periods", len(result.Dates)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return result, nil
}
