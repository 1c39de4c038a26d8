package momentum

import (
	"fmt"
	"math"

	"MomentumLab/internal/domain/models"
)

// InstrumentMetrics holds the derived per-instrument columns, all parallel to
// the frame's date axis.
type InstrumentMetrics struct {
	Returns    []models.Point
	Momentum   []models.Point
	Volatility []models.Point
	Adjusted   []models.Point
}

// Calculator derives rolling momentum, volatility and risk-adjusted momentum
// from one instrument's aligned price column.
type Calculator struct {
	window int
}

// NewCalculator returns a calculator over the given trailing window.
func NewCalculator(window int) (*Calculator, error) {
	if window <= 0 {
		return nil, fmt.Errorf("metrics: window must be positive, got %d", window)
	}
	return &Calculator{window: window}, nil
}

// Compute walks the price column once, maintaining rolling sum and sum of
// squares over the window. A slot is defined only when every return in its
// trailing window is defined. Volatility is the unbiased sample variance of
// the window, not its standard deviation; the square root is taken only when
// forming the adjusted momentum, which stays undefined wherever that variance
// is zero.
func (c *Calculator) Compute(prices []models.Point) InstrumentMetrics {
	n := len(prices)
	m := InstrumentMetrics{
		Returns:    make([]models.Point, n),
		Momentum:   make([]models.Point, n),
		Volatility: make([]models.Point, n),
		Adjusted:   make([]models.Point, n),
	}

	for t := 1; t < n; t++ {
		prev, cur := prices[t-1], prices[t]
		if prev.Defined && cur.Defined && prev.Value != 0 {
			m.Returns[t] = models.DefinedPoint(cur.Value/prev.Value - 1)
		}
	}

	var sum, sumSq float64
	defined := 0
	w := c.window

	for t := 1; t < n; t++ {
		r := m.Returns[t]
		if r.Defined {
			sum += r.Value
			sumSq += r.Value * r.Value
			defined++
		}
		if old := t - w; old >= 1 {
			if prevR := m.Returns[old]; prevR.Defined {
				sum -= prevR.Value
				sumSq -= prevR.Value * prevR.Value
				defined--
			}
		}
		if t < w || defined != w {
			continue
		}

		mean := sum / float64(w)
		m.Momentum[t] = models.DefinedPoint(mean)

		if w < 2 {
			continue
		}
		variance := (sumSq - sum*sum/float64(w)) / float64(w-1)
		if variance < 1e-18 {
			variance = 0 // cancellation noise from the streaming sums
		}
		m.Volatility[t] = models.DefinedPoint(variance)
		if variance > 0 {
			m.Adjusted[t] = models.DefinedPoint(mean / math.Sqrt(variance))
		}
	}

	return m
}

// Window returns the trailing window length.
func (c *Calculator) Window() int { return c.window }
