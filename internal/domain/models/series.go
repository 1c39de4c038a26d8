package models

import (
	"encoding/json"
	"time"
)

// Point is one observation in a derived series. Defined is false where the
// value does not exist: a missing price on the union date axis, a return
// before enough history has accumulated, or a signal whose denominator
// degenerated. An undefined point never carries a usable Value.
type Point struct {
	Value   float64
	Defined bool
}

// Undefined is the canonical absent observation.
var Undefined = Point{}

// DefinedPoint wraps v as a present observation.
func DefinedPoint(v float64) Point { return Point{Value: v, Defined: true} }

// MarshalJSON renders undefined points as null so consumers cannot mistake
// them for a zero value.
func (p Point) MarshalJSON() ([]byte, error) {
	if !p.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// PriceSeries is the immutable per-instrument input to a backtest: close
// prices on the instrument's own date axis, ascending and without duplicate
// dates. Gaps relative to other instruments are expected and preserved.
type PriceSeries struct {
	Symbol string
	Dates  []time.Time
	Closes []float64
}

// Len returns the number of observations.
func (s PriceSeries) Len() int { return len(s.Dates) }

// Frame is an aligned panel: a single shared date axis with one column of
// points per instrument. Columns are parallel to Dates; absent observations
// are undefined points, never interpolations.
type Frame struct {
	Dates   []time.Time
	Symbols []string
	Prices  map[string][]Point
}

// WeightVector maps instrument symbol to its portfolio weight on one date.
// A valid vector is non-negative and sums to exactly 1 or exactly 0.
type WeightVector map[string]float64

// Sum returns the total allocation of the vector.
func (w WeightVector) Sum() float64 {
	var total float64
	for _, v := range w {
		total += v
	}
	return total
}

// Clone returns an independent copy.
func (w WeightVector) Clone() WeightVector {
	out := make(WeightVector, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// ZeroWeights builds an all-cash vector over the given symbols.
func ZeroWeights(symbols []string) WeightVector {
	w := make(WeightVector, len(symbols))
	for _, s := range symbols {
		w[s] = 0
	}
	return w
}

// Ratio is a possibly-undefined scalar metric. Ratios with a degenerate
// denominator stay undefined end to end: JSON null, "n/a" in tables, never
// Inf, NaN or a silent zero.
type Ratio struct {
	Value   float64
	Defined bool
}

// DefinedRatio wraps v as a defined metric value.
func DefinedRatio(v float64) Ratio { return Ratio{Value: v, Defined: true} }

func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}
