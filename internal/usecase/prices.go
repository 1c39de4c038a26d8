package usecase

import (
	"context"
	"fmt"
	"time"

	"MomentumLab/internal/domain/models"
	domrepo "MomentumLab/internal/domain/repository"
)

// PricesUseCase provides business logic for retrieving stored daily bars.
type PricesUseCase struct {
	store domrepo.BarStorage
}

func NewPricesUseCase(store domrepo.BarStorage) *PricesUseCase {
	return &PricesUseCase{store: store}
}

type GetPricesParams struct {
	Symbol string
	From   time.Time
	To     time.Time
	Limit  int
}

type GetPricesResult struct {
	Symbol string            `json:"symbol"`
	From   time.Time         `json:"from"`
	To     time.Time         `json:"to"`
	Count  int               `json:"count"`
	Bars   []models.DailyBar `json:"bars"`
}

func (uc *PricesUseCase) GetPrices(ctx context.Context, p GetPricesParams) (*GetPricesResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if p.Limit <= 0 {
		p.Limit = 10000
	}
	if p.Limit > 50000 {
		p.Limit = 50000
	}

	bars, err := uc.store.GetDailyBars(ctx, p.Symbol, p.From, p.To)
	if err != nil {
		return nil, fmt.Errorf("get daily bars: %w", err)
	}
	if len(bars) > p.Limit {
		bars = bars[:p.Limit]
	}

	return &GetPricesResult{
		Symbol: p.Symbol,
		From:   p.From,
		To:     p.To,
		Count:  len(bars),
		Bars:   bars,
	}, nil
}
