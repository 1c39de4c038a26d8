package export

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"MomentumLab/internal/domain/models"
)

// PerformanceTable renders the comparison table for terminal output.
func PerformanceTable(summaries []models.PerformanceSummary) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "variant\tann.return\tann.vol\tsharpe\tmax.dd\tcalmar\tsortino\twin rate\tperiods")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f%%\t%s\t%s\t%s\t%d/%d\n",
			s.Name,
			percentCell(s.AnnualizedReturn),
			percentCell(s.AnnualizedVolatility),
			ratioCell(s.Sharpe, 3),
			s.MaxDrawdown*100,
			ratioCell(s.Calmar, 3),
			ratioCell(s.Sortino, 3),
			percentCell(s.WinRate),
			s.PositivePeriods, s.TotalPeriods,
		)
	}
	w.Flush()
	return buf.String()
}
