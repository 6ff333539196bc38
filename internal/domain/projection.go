package domain

import (
	"github.com/shopspring/decimal"
)

// YearRecord is the aggregate of twelve simulated months.
type YearRecord struct {
	Year int `json:"year"`

	// Flows within the year, nominal
	YearlyDeposits    decimal.Decimal `json:"yearly_deposits"`
	YearlyInterest    decimal.Decimal `json:"yearly_interest"`
	YearlyWithdrawals decimal.Decimal `json:"yearly_withdrawals"`

	// Running totals, divided by the cumulative inflation factor when inflation is enabled
	CumulativeDeposits decimal.Decimal `json:"cumulative_deposits"`
	CumulativeInterest decimal.Decimal `json:"cumulative_interest"`

	EndBalanceNominal decimal.Decimal  `json:"end_balance_nominal"`
	EndBalanceReal    *decimal.Decimal `json:"end_balance_real,omitempty"` // nil unless inflation is enabled
}

// DisplayBalance returns the real end balance when present, else nominal.
func (yr YearRecord) DisplayBalance() decimal.Decimal {
	if yr.EndBalanceReal != nil {
		return *yr.EndBalanceReal
	}
	return yr.EndBalanceNominal
}

// IsDepleted returns true if the nominal end balance is negative.
func (yr YearRecord) IsDepleted() bool {
	return yr.EndBalanceNominal.IsNegative()
}

// ProjectionSummary condenses a projection into headline figures.
type ProjectionSummary struct {
	Years             int              `json:"years"`
	FinalNominal      decimal.Decimal  `json:"final_balance_nominal"`
	FinalReal         *decimal.Decimal `json:"final_balance_real,omitempty"`
	TotalDeposits     decimal.Decimal  `json:"total_deposits"`
	TotalInterest     decimal.Decimal  `json:"total_interest"`
	TotalWithdrawals  decimal.Decimal  `json:"total_withdrawals"`
	DepletionYear     int              `json:"depletion_year"` // first year ending below zero, 0 if never
	InflationAdjusted bool             `json:"inflation_adjusted"`
}

// FinalDisplay returns the final real balance when inflation adjusted, else nominal.
func (ps ProjectionSummary) FinalDisplay() decimal.Decimal {
	if ps.FinalReal != nil {
		return *ps.FinalReal
	}
	return ps.FinalNominal
}

// ScenarioResult is one scenario's projection and summary.
type ScenarioResult struct {
	Name        string            `json:"name"`
	Config      ProjectionConfig  `json:"config"`
	Records     []YearRecord      `json:"records"`
	Summary     ProjectionSummary `json:"summary"`
	Assumptions []string          `json:"assumptions"`
}

// ScenarioComparison holds the results of one or more scenarios run together.
type ScenarioComparison struct {
	Scenarios    []ScenarioResult `json:"scenarios"`
	BestScenario string           `json:"best_scenario"`
}
