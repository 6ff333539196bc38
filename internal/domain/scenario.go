package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ContributionTiming controls where in the month a contribution lands
// relative to that month's interest.
type ContributionTiming int

const (
	// StartOfMonth deposits before interest is applied (annuity-due).
	StartOfMonth ContributionTiming = iota
	// EndOfMonth deposits after interest and withdrawals (ordinary annuity).
	EndOfMonth
)

func (t ContributionTiming) String() string {
	switch t {
	case StartOfMonth:
		return "Start of Month"
	case EndOfMonth:
		return "End of Month"
	default:
		return fmt.Sprintf("ContributionTiming(%d)", int(t))
	}
}

// ParseContributionTiming accepts the saved-scenario labels ("Start of Month",
// "End of Month") and anything starting with "start" or "end".
func ParseContributionTiming(s string) (ContributionTiming, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(n, "start"):
		return StartOfMonth, nil
	case strings.HasPrefix(n, "end"):
		return EndOfMonth, nil
	default:
		return StartOfMonth, fmt.Errorf("unknown contribution timing %q", s)
	}
}

func (t ContributionTiming) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *ContributionTiming) UnmarshalText(b []byte) error {
	v, err := ParseContributionTiming(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// WithdrawalKind distinguishes recurring withdrawals from one-off lump sums.
type WithdrawalKind int

const (
	// Monthly withdraws Amount every month from StartYear through the horizon.
	Monthly WithdrawalKind = iota
	// LumpSum withdraws Amount once, in the last month of StartYear.
	LumpSum
)

func (k WithdrawalKind) String() string {
	switch k {
	case Monthly:
		return "Monthly"
	case LumpSum:
		return "Lump Sum"
	default:
		return fmt.Sprintf("WithdrawalKind(%d)", int(k))
	}
}

// ParseWithdrawalKind accepts "Monthly" and "Lump Sum" plus the usual
// spelling variants (lump_sum, lumpsum, lump-sum).
func ParseWithdrawalKind(s string) (WithdrawalKind, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(n)
	switch n {
	case "monthly":
		return Monthly, nil
	case "lumpsum":
		return LumpSum, nil
	default:
		return Monthly, fmt.Errorf("unknown withdrawal type %q", s)
	}
}

func (k WithdrawalKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *WithdrawalKind) UnmarshalText(b []byte) error {
	v, err := ParseWithdrawalKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// WithdrawalRule is one independently evaluated withdrawal stream.
type WithdrawalRule struct {
	Kind      WithdrawalKind  `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	StartYear int             `json:"start_year"`
}

// Contributions describes a fixed monthly deposit.
type Contributions struct {
	MonthlyAmount decimal.Decimal    `json:"monthly_amount"`
	Timing        ContributionTiming `json:"timing"`
}

// Rate is an annual percentage (2.5 means 2.5%).
type Rate struct {
	AnnualRatePct decimal.Decimal `json:"annual_rate_pct"`
}

// ProjectionConfig is the fully resolved input of a single projection run.
// Nil optional blocks mean the feature is disabled.
type ProjectionConfig struct {
	InitialBalance      decimal.Decimal  `json:"initial_balance"`
	MonthlyIncome       decimal.Decimal  `json:"monthly_income"`
	MonthlyExpenses     decimal.Decimal  `json:"monthly_expenses"`
	AnnualGrowthRatePct decimal.Decimal  `json:"annual_growth_rate_pct"`
	ProjectionYears     int              `json:"projection_years"`
	Contributions       *Contributions   `json:"contributions,omitempty"`
	Withdrawals         []WithdrawalRule `json:"withdrawals,omitempty"`
	Inflation           *Rate            `json:"inflation,omitempty"`
	IncomeGrowth        *Rate            `json:"income_growth,omitempty"`
	ExpensesGrowth      *Rate            `json:"expenses_growth,omitempty"`
}

// InflationAdjusted reports whether real (inflation-adjusted) values are produced.
func (pc ProjectionConfig) InflationAdjusted() bool { return pc.Inflation != nil }

// Scenario is the editable, persisted form of a projection. Unlike
// ProjectionConfig it keeps values of disabled features so that toggling a
// feature off and on again does not lose them.
type Scenario struct {
	Name                string             `json:"name"`
	InitialBalance      decimal.Decimal    `json:"initial_investment"`
	MonthlyIncome       decimal.Decimal    `json:"monthly_income"`
	MonthlyExpenses     decimal.Decimal    `json:"monthly_expenses"`
	AnnualGrowthRatePct decimal.Decimal    `json:"annual_growth_rate"`
	ProjectionYears     int                `json:"projection_years"`
	UseContributions    bool               `json:"use_contributions"`
	MonthlyContribution decimal.Decimal    `json:"monthly_contribution"`
	ContributionTiming  ContributionTiming `json:"contribution_timing"`
	UseWithdrawals      bool               `json:"use_withdrawals"`
	Withdrawals         []WithdrawalRule   `json:"withdrawals"`
	UseInflation        bool               `json:"use_inflation"`
	AnnualInflationPct  decimal.Decimal    `json:"annual_inflation"`
	UseIncomeGrowth     bool               `json:"use_income_growth"`
	IncomeGrowthPct     decimal.Decimal    `json:"income_growth_rate"`
	UseExpensesGrowth   bool               `json:"use_expenses_growth"`
	ExpensesGrowthPct   decimal.Decimal    `json:"expenses_growth_rate"`
}

// ToProjectionConfig resolves the feature toggles into a ProjectionConfig.
func (s Scenario) ToProjectionConfig() ProjectionConfig {
	cfg := ProjectionConfig{
		InitialBalance:      s.InitialBalance,
		MonthlyIncome:       s.MonthlyIncome,
		MonthlyExpenses:     s.MonthlyExpenses,
		AnnualGrowthRatePct: s.AnnualGrowthRatePct,
		ProjectionYears:     s.ProjectionYears,
	}
	if s.UseContributions {
		cfg.Contributions = &Contributions{MonthlyAmount: s.MonthlyContribution, Timing: s.ContributionTiming}
	}
	if s.UseWithdrawals && len(s.Withdrawals) > 0 {
		cfg.Withdrawals = append([]WithdrawalRule(nil), s.Withdrawals...)
	}
	if s.UseInflation {
		cfg.Inflation = &Rate{AnnualRatePct: s.AnnualInflationPct}
	}
	if s.UseIncomeGrowth {
		cfg.IncomeGrowth = &Rate{AnnualRatePct: s.IncomeGrowthPct}
	}
	if s.UseExpensesGrowth {
		cfg.ExpensesGrowth = &Rate{AnnualRatePct: s.ExpensesGrowthPct}
	}
	return cfg
}

// Assumptions renders the active assumptions as human readable lines.
func (s Scenario) Assumptions() []string {
	lines := []string{
		fmt.Sprintf("Annual growth: %s%% (monthly rate = annual / 12)", s.AnnualGrowthRatePct.StringFixed(2)),
		fmt.Sprintf("Horizon: %d years of 12 months", s.ProjectionYears),
	}
	if s.UseContributions {
		lines = append(lines, fmt.Sprintf("Monthly contribution: %s at %s", s.MonthlyContribution.StringFixed(2), s.ContributionTiming))
	}
	if s.UseWithdrawals {
		for i, w := range s.Withdrawals {
			lines = append(lines, fmt.Sprintf("Withdrawal #%d: %s %s from year %d", i+1, w.Kind, w.Amount.StringFixed(2), w.StartYear))
		}
	}
	if s.UseInflation {
		lines = append(lines, fmt.Sprintf("Inflation: %s%% per year (real values shown)", s.AnnualInflationPct.StringFixed(2)))
	}
	if s.UseIncomeGrowth {
		lines = append(lines, fmt.Sprintf("Income growth: %s%% per year", s.IncomeGrowthPct.StringFixed(2)))
	}
	if s.UseExpensesGrowth {
		lines = append(lines, fmt.Sprintf("Expenses growth: %s%% per year", s.ExpensesGrowthPct.StringFixed(2)))
	}
	return lines
}
