package momentum

import (
	"MomentumLab/internal/domain/models"
)

// Allocate converts the adjusted momentum of every instrument at index t into
// a long-only weight vector. Instruments whose signal is undefined or not
// strictly positive are excluded; the remainder split the allocation in
// proportion to their signal. An empty qualifying set yields the all-cash
// vector, so carrying no signal is never confused with a zero-weight holding.
func Allocate(adjusted map[string][]models.Point, symbols []string, t int) models.WeightVector {
	w := models.ZeroWeights(symbols)

	var total float64
	for _, sym := range symbols {
		if p := adjusted[sym][t]; p.Defined && p.Value > 0 {
			total += p.Value
		}
	}
	if total <= 0 {
		return w
	}
	for _, sym := range symbols {
		if p := adjusted[sym][t]; p.Defined && p.Value > 0 {
			w[sym] = p.Value / total
		}
	}
	return w
}

// Lag shifts a weight path forward one period: position t of the result is
// position t-1 of the input, and position 0 is all cash. A decision made with
// information through day t is executable from day t+1 only.
func Lag(weights []models.WeightVector, symbols []string) []models.WeightVector {
	out := make([]models.WeightVector, len(weights))
	if len(weights) == 0 {
		return out
	}
	out[0] = models.ZeroWeights(symbols)
	for t := 1; t < len(weights); t++ {
		out[t] = weights[t-1].Clone()
	}
	return out
}

// EqualWeights builds the fixed 1/N decision path over the date axis, used as
// the equal-weight comparator. It feeds the same lag and aggregation pipeline
// as the strategy path.
func EqualWeights(symbols []string, n int) []models.WeightVector {
	out := make([]models.WeightVector, n)
	share := 1.0 / float64(len(symbols))
	for t := range out {
		w := make(models.WeightVector, len(symbols))
		for _, sym := range symbols {
			w[sym] = share
		}
		out[t] = w
	}
	return out
}

// SingleWeights builds the 100%-in-one-instrument decision path, used as the
// buy-and-hold comparator for the benchmark instrument.
func SingleWeights(symbols []string, benchmark string, n int) []models.WeightVector {
	out := make([]models.WeightVector, n)
	for t := range out {
		w := models.ZeroWeights(symbols)
		w[benchmark] = 1
		out[t] = w
	}
	return out
}
