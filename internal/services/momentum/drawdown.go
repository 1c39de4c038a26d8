package momentum

// Drawdown compounds a return series into cumulative growth of 1.0 and the
// distance of each point below its running peak. The drawdown is never
// positive and returns to exactly 0 at every new high.
func Drawdown(returns []float64) (cumulative, drawdown []float64) {
	cumulative = make([]float64, len(returns))
	drawdown = make([]float64, len(returns))

	growth := 1.0
	peak := 0.0
	for t, r := range returns {
		growth *= 1 + r
		cumulative[t] = growth
		if growth > peak {
			peak = growth
		}
		drawdown[t] = growth/peak - 1
	}
	return cumulative, drawdown
}

// MaxDrawdown returns the deepest point of the drawdown series, 0 for an
// empty one.
func MaxDrawdown(drawdown []float64) float64 {
	var worst float64
	for _, d := range drawdown {
		if d < worst {
			worst = d
		}
	}
	return worst
}
