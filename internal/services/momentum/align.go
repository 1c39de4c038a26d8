package momentum

import (
	"fmt"
	"sort"
	"time"

	"MomentumLab/internal/domain/models"
)

// AlignmentError reports that the instruments share too little history to
// compare. It is fatal for the run that raised it.
type AlignmentError struct {
	Symbols []string
	Overlap int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("align: %d dates covered by all %d instruments, need at least 2", e.Overlap, len(e.Symbols))
}

// Align merges per-instrument price series onto their sorted union date axis.
// Dates an instrument did not trade become undefined points; nothing is
// interpolated or filled. Returns *AlignmentError when fewer than two dates
// are covered by every instrument.
func Align(series []models.PriceSeries) (*models.Frame, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("align: no instrument series given")
	}

	symbols := make([]string, 0, len(series))
	seen := make(map[string]bool, len(series))
	for _, s := range series {
		if s.Symbol == "" {
			return nil, fmt.Errorf("align: series with empty symbol")
		}
		if seen[s.Symbol] {
			return nil, fmt.Errorf("align: duplicate symbol %q", s.Symbol)
		}
		if len(s.Dates) != len(s.Closes) {
			return nil, fmt.Errorf("align: %s has %d dates but %d closes", s.Symbol, len(s.Dates), len(s.Closes))
		}
		seen[s.Symbol] = true
		symbols = append(symbols, s.Symbol)
	}

	// Union axis with per-date coverage counts.
	coverage := make(map[time.Time]int)
	for _, s := range series {
		for _, d := range s.Dates {
			coverage[d.UTC()]++
		}
	}

	dates := make([]time.Time, 0, len(coverage))
	overlap := 0
	for d, n := range coverage {
		dates = append(dates, d)
		if n == len(series) {
			overlap++
		}
	}
	if overlap < 2 {
		return nil, &AlignmentError{Symbols: symbols, Overlap: overlap}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	index := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		index[d] = i
	}

	prices := make(map[string][]models.Point, len(series))
	for _, s := range series {
		col := make([]models.Point, len(dates))
		for i, d := range s.Dates {
			col[index[d.UTC()]] = models.DefinedPoint(s.Closes[i])
		}
		prices[s.Symbol] = col
	}

	return &models.Frame{Dates: dates, Symbols: symbols, Prices: prices}, nil
}
