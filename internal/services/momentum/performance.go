package momentum

import (
	"math"
	"time"

	"MomentumLab/internal/domain/models"
)

// Analyze derives the annualized risk/return profile of one variant's return
// series. annualization is the number of return periods per year. Any ratio
// whose denominator degenerates stays undefined; callers and encoders render
// it as null or "n/a", never as infinity or a stand-in zero.
func Analyze(name string, returns []float64, dates []time.Time, annualization int) models.PerformanceSummary {
	s := models.PerformanceSummary{Name: name, TotalPeriods: len(returns)}
	if len(dates) > 0 {
		s.Start = dates[0]
		s.End = dates[len(dates)-1]
	}
	if len(returns) == 0 {
		return s
	}

	growth := 1.0
	var sum, sumSq float64
	var downSum, downSumSq float64
	negative := 0
	for _, r := range returns {
		growth *= 1 + r
		sum += r
		sumSq += r * r
		if r > 0 {
			s.PositivePeriods++
		} else if r < 0 {
			downSum += r
			downSumSq += r * r
			negative++
		}
	}

	n := float64(len(returns))
	years := n / float64(annualization)
	if growth >= 0 {
		s.AnnualizedReturn = models.DefinedRatio(math.Pow(growth, 1/years) - 1)
	}

	if len(returns) >= 2 {
		variance := (sumSq - sum*sum/n) / (n - 1)
		if variance < 0 {
			variance = 0
		}
		s.AnnualizedVolatility = models.DefinedRatio(math.Sqrt(variance) * math.Sqrt(float64(annualization)))
	}
	if s.AnnualizedReturn.Defined && s.AnnualizedVolatility.Defined && s.AnnualizedVolatility.Value > 0 {
		s.Sharpe = models.DefinedRatio(s.AnnualizedReturn.Value / s.AnnualizedVolatility.Value)
	}

	_, drawdown := Drawdown(returns)
	s.MaxDrawdown = MaxDrawdown(drawdown)
	if s.AnnualizedReturn.Defined && s.MaxDrawdown < 0 {
		s.Calmar = models.DefinedRatio(s.AnnualizedReturn.Value / -s.MaxDrawdown)
	}

	// Downside deviation over losing periods only. One losing period gives a
	// zero sample deviation, which is as degenerate as none at all.
	if negative >= 2 {
		m := float64(negative)
		downVar := (downSumSq - downSum*downSum/m) / (m - 1)
		if downVar > 0 && s.AnnualizedReturn.Defined {
			downside := math.Sqrt(downVar) * math.Sqrt(float64(annualization))
			s.Sortino = models.DefinedRatio(s.AnnualizedReturn.Value / downside)
		}
	}

	s.WinRate = models.DefinedRatio(float64(s.PositivePeriods) / n)
	return s
}
