package output

import (
	"github.com/rpgo/cashflow/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation encapsulates the selection result of the best scenario.
type Recommendation struct {
	ScenarioName      string
	FinalBalance      decimal.Decimal
	RunnerUp          string
	MarginOverRunner  decimal.Decimal
	InflationAdjusted bool
}

// AnalyzeScenarios describes the comparison's best scenario and how far it
// leads the next best one. Balances are compared on the displayed basis
// (real when inflation adjusted).
func AnalyzeScenarios(results *domain.ScenarioComparison) Recommendation {
	if results == nil || results.BestScenario == "" {
		return Recommendation{}
	}
	var rec Recommendation
	var runnerUp *domain.ScenarioResult
	found := false
	for i := range results.Scenarios {
		sc := &results.Scenarios[i]
		if !found && sc.Name == results.BestScenario {
			found = true
			rec.ScenarioName = sc.Name
			rec.FinalBalance = sc.Summary.FinalDisplay()
			rec.InflationAdjusted = sc.Summary.InflationAdjusted
			continue
		}
		if runnerUp == nil || sc.Summary.FinalDisplay().GreaterThan(runnerUp.Summary.FinalDisplay()) {
			runnerUp = sc
		}
	}
	if !found {
		return Recommendation{}
	}
	if runnerUp != nil {
		rec.RunnerUp = runnerUp.Name
		rec.MarginOverRunner = rec.FinalBalance.Sub(runnerUp.Summary.FinalDisplay())
	}
	return rec
}
