package momentum

import (
	"MomentumLab/internal/domain/models"
)

// Aggregate folds per-instrument realized returns and an executed (lagged)
// weight path into one portfolio return series. An instrument with an
// undefined return on a date contributes nothing that day: its weight was
// assigned when no signal existed, so the position is treated as not held.
// That is deliberate policy, not NaN leaking through the sum.
func Aggregate(returns map[string][]models.Point, lagged []models.WeightVector) []float64 {
	out := make([]float64, len(lagged))
	for t := range lagged {
		var total float64
		for sym, weight := range lagged[t] {
			if weight == 0 {
				continue
			}
			if r := returns[sym][t]; r.Defined {
				total += r.Value * weight
			}
		}
		out[t] = total
	}
	return out
}

// Turnover is the L1 distance between consecutive executed weight vectors,
// the fraction of the portfolio traded at each rebalance. The executed
// weights start as the zero vector, so index 0 is always 0 and the initial
// buy-in is charged at the first non-cash position.
func Turnover(lagged []models.WeightVector, symbols []string) []float64 {
	out := make([]float64, len(lagged))
	prev := models.ZeroWeights(symbols)
	for t := range lagged {
		var dist float64
		for _, sym := range symbols {
			d := lagged[t][sym] - prev[sym]
			if d < 0 {
				d = -d
			}
			dist += d
		}
		out[t] = dist
		prev = lagged[t]
	}
	return out
}
