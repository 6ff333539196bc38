package calculation

import (
	"github.com/rpgo/cashflow/internal/domain"
	"github.com/shopspring/decimal"
)

// Summarize condenses yearly records into headline figures. Totals are
// nominal sums of the yearly flows.
func Summarize(records []domain.YearRecord) domain.ProjectionSummary {
	var summary domain.ProjectionSummary
	if len(records) == 0 {
		return summary
	}

	for _, yr := range records {
		summary.TotalDeposits = summary.TotalDeposits.Add(yr.YearlyDeposits)
		summary.TotalInterest = summary.TotalInterest.Add(yr.YearlyInterest)
		summary.TotalWithdrawals = summary.TotalWithdrawals.Add(yr.YearlyWithdrawals)
		if summary.DepletionYear == 0 && yr.IsDepleted() {
			summary.DepletionYear = yr.Year
		}
	}

	last := records[len(records)-1]
	summary.Years = len(records)
	summary.FinalNominal = last.EndBalanceNominal
	if last.EndBalanceReal != nil {
		finalReal := *last.EndBalanceReal
		summary.FinalReal = &finalReal
		summary.InflationAdjusted = true
	}
	return summary
}

// BestScenario returns the name of the scenario with the highest final
// display balance. Ties keep the earlier scenario.
func BestScenario(results []domain.ScenarioResult) string {
	var best string
	var bestBalance decimal.Decimal
	for i, r := range results {
		balance := r.Summary.FinalDisplay()
		if i == 0 || balance.GreaterThan(bestBalance) {
			best = r.Name
			bestBalance = balance
		}
	}
	return best
}
