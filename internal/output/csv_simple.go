package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/cashflow/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per scenario).
// Rows follow the comparison's input order; only one row is marked best.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Years", "Final Balance (nominal)", "Final Balance (real)", "Total Deposits", "Total Interest", "Total Withdrawals", "Depletion Year", "Inflation Adjusted", "Best"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	bestMarked := false
	for _, sc := range results.Scenarios {
		s := sc.Summary
		best := !bestMarked && sc.Name == results.BestScenario
		bestMarked = bestMarked || best
		depletion := ""
		if s.DepletionYear > 0 {
			depletion = intToString(s.DepletionYear)
		}
		row := []string{
			sc.Name,
			intToString(s.Years),
			plain(s.FinalNominal),
			plainOptional(s.FinalReal),
			plain(s.TotalDeposits),
			plain(s.TotalInterest),
			plain(s.TotalWithdrawals),
			depletion,
			boolToString(s.InflationAdjusted),
			boolToString(best),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
