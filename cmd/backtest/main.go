package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"MomentumLab/internal/di"
	"MomentumLab/internal/domain/models"
	"MomentumLab/internal/domain/repository"
	"MomentumLab/internal/services/export"
	"MomentumLab/internal/services/momentum"
	"MomentumLab/internal/usecase"
	"MomentumLab/pkg/config"
	applogger "MomentumLab/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	outDir := flag.String("out", "", "output directory (overrides backtest.output_dir)")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	l, err := di.ProvideLogger(cfg)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}

	m := di.ProvideMetrics()
	source := di.ProvideHistorySource(cfg)

	// The store is optional for one-shot runs: without ClickHouse every
	// series comes straight from the source.
	var store repository.BarStorage
	if chClient, err := di.ProvideClickHouseClient(cfg); err != nil {
		l.Warn("clickhouse unavailable, fetching direct", applogger.Error(err))
	} else if st, err := di.ProvideBarStorage(chClient, l); err != nil {
		l.Warn("clickhouse schema init failed, fetching direct", applogger.Error(err))
		_ = chClient.Close()
	} else {
		store = st
		defer func() { _ = chClient.Close() }()
	}

	history := usecase.NewHistoryUseCase(store, source, nil, 0, m, l)
	uc := usecase.NewBacktestUseCase(history, momentum.NewBacktester(l), m, l)

	spec, err := usecase.SpecFromRequest(&models.BacktestRequest{
		Symbols:       cfg.Backtest.Symbols,
		Benchmark:     cfg.Backtest.Benchmark,
		Start:         cfg.Backtest.Start,
		End:           cfg.Backtest.End,
		Window:        cfg.Backtest.Window,
		Annualization: cfg.Backtest.Annualization,
		Commission:    cfg.Backtest.Commission,
	})
	if err != nil {
		log.Fatalf("bad backtest settings: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := uc.Run(ctx, spec)
	if err != nil {
		log.Fatalf("backtest failed: %v", err)
	}

	fmt.Printf("\n%s\n", export.PerformanceTable(result.Summaries))

	dir := cfg.Backtest.OutputDir
	if *outDir != "" {
		dir = *outDir
	}
	if dir == "" {
		dir = "backtest_results"
	}
	if err := writeArtifacts(dir, result); err != nil {
		log.Fatalf("write artifacts: %v", err)
	}
	l.Info("artifacts written", applogger.String("dir", dir))
}

func writeArtifacts(dir string, result *models.BacktestResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	files := []struct {
		name   string
		render func() ([]byte, error)
	}{
		{"performance_metrics.csv", func() ([]byte, error) { return export.PerformanceCSV(result.Summaries) }},
		{"daily_weights.csv", func() ([]byte, error) { return export.WeightsCSV(result) }},
		{"daily_returns.csv", func() ([]byte, error) { return export.ReturnsCSV(result) }},
		{"cumulative.png", func() ([]byte, error) { return export.Chart(result, export.ChartCumulative) }},
		{"drawdown.png", func() ([]byte, error) { return export.Chart(result, export.ChartDrawdown) }},
		{"weights.png", func() ([]byte, error) { return export.Chart(result, export.ChartWeights) }},
	}
	for _, f := range files {
		b, err := f.render()
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, f.name), b, 0o644); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return nil
}
