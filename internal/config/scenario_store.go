package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rpgo/cashflow/internal/domain"
	"github.com/shopspring/decimal"
)

// savedScenario is the on-disk layout written by SaveScenario. Numbers are
// written as JSON numbers so files stay hand-editable.
type savedScenario struct {
	Name                string            `json:"name"`
	InitialInvestment   float64           `json:"initial_investment"`
	MonthlyIncome       float64           `json:"monthly_income"`
	MonthlyExpenses     float64           `json:"monthly_expenses"`
	AnnualGrowthRate    float64           `json:"annual_growth_rate"`
	ProjectionYears     int               `json:"projection_years"`
	UseContributions    bool              `json:"use_contributions"`
	MonthlyContribution float64           `json:"monthly_contribution"`
	ContributionTiming  string            `json:"contribution_timing"`
	UseWithdrawals      bool              `json:"use_withdrawals"`
	NumWithdrawals      int               `json:"num_withdrawals"`
	Withdrawals         []savedWithdrawal `json:"withdrawals"`
	UseInflation        bool              `json:"use_inflation"`
	AnnualInflation     float64           `json:"annual_inflation"`
	UseIncomeGrowth     bool              `json:"use_income_growth"`
	IncomeGrowthRate    float64           `json:"income_growth_rate"`
	UseExpensesGrowth   bool              `json:"use_expenses_growth"`
	ExpensesGrowthRate  float64           `json:"expenses_growth_rate"`
}

type savedWithdrawal struct {
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	StartYear int     `json:"start_year"`
}

// DefaultScenario returns the starting values offered for a new scenario.
func DefaultScenario() domain.Scenario {
	return domain.Scenario{
		Name:                "default",
		InitialBalance:      decimal.Zero,
		MonthlyIncome:       decimal.Zero,
		MonthlyExpenses:     decimal.Zero,
		AnnualGrowthRatePct: decimal.NewFromInt(6),
		ProjectionYears:     30,
		MonthlyContribution: decimal.Zero,
		ContributionTiming:  domain.StartOfMonth,
		Withdrawals:         []domain.WithdrawalRule{},
		AnnualInflationPct:  decimal.NewFromFloat(2.0),
		IncomeGrowthPct:     decimal.Zero,
		ExpensesGrowthPct:   decimal.Zero,
	}
}

// SaveScenario writes s as indented JSON and returns the path written. A
// ".json" extension is appended when path has none.
func SaveScenario(s domain.Scenario, path string) (string, error) {
	if filepath.Ext(path) == "" {
		path += ".json"
	}

	out := savedScenario{
		Name:                s.Name,
		InitialInvestment:   s.InitialBalance.InexactFloat64(),
		MonthlyIncome:       s.MonthlyIncome.InexactFloat64(),
		MonthlyExpenses:     s.MonthlyExpenses.InexactFloat64(),
		AnnualGrowthRate:    s.AnnualGrowthRatePct.InexactFloat64(),
		ProjectionYears:     s.ProjectionYears,
		UseContributions:    s.UseContributions,
		MonthlyContribution: s.MonthlyContribution.InexactFloat64(),
		ContributionTiming:  s.ContributionTiming.String(),
		UseWithdrawals:      s.UseWithdrawals,
		NumWithdrawals:      len(s.Withdrawals),
		Withdrawals:         make([]savedWithdrawal, 0, len(s.Withdrawals)),
		UseInflation:        s.UseInflation,
		AnnualInflation:     s.AnnualInflationPct.InexactFloat64(),
		UseIncomeGrowth:     s.UseIncomeGrowth,
		IncomeGrowthRate:    s.IncomeGrowthPct.InexactFloat64(),
		UseExpensesGrowth:   s.UseExpensesGrowth,
		ExpensesGrowthRate:  s.ExpensesGrowthPct.InexactFloat64(),
	}
	for _, w := range s.Withdrawals {
		out.Withdrawals = append(out.Withdrawals, savedWithdrawal{
			Type:      w.Kind.String(),
			Amount:    w.Amount.InexactFloat64(),
			StartYear: w.StartYear,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode scenario: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return path, nil
}
