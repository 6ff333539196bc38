package calculation

import (
	"fmt"

	"github.com/rpgo/cashflow/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	monthsPerYear = 12

	// internalScale bounds the digits carried by the running balance; exact
	// decimal multiplication would otherwise grow by a few digits every month.
	internalScale = 12

	displayScale = 2
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(monthsPerYear)
	one     = decimal.NewFromInt(1)
)

// MonthlyRate converts an annual percentage into the linear monthly rate
// (rate / 100 / 12) used throughout the projection.
func MonthlyRate(annualPct decimal.Decimal) decimal.Decimal {
	return annualPct.Div(hundred).Div(twelve)
}

// growthFactor returns (1 + pct/100)^(year-1), the annually compounded
// step applied to every month of the given year.
func growthFactor(rate *domain.Rate, year int) decimal.Decimal {
	if rate == nil || year <= 1 {
		return one
	}
	return one.Add(rate.AnnualRatePct.Div(hundred)).Pow(decimal.NewFromInt(int64(year - 1)))
}

// ValidateConfig rejects configurations the projection cannot run.
func ValidateConfig(cfg domain.ProjectionConfig) error {
	if cfg.ProjectionYears < 1 {
		return fmt.Errorf("%w: projection years must be at least 1, got %d", domain.ErrInvalidConfiguration, cfg.ProjectionYears)
	}
	if cfg.InitialBalance.IsNegative() {
		return fmt.Errorf("%w: initial balance cannot be negative", domain.ErrInvalidConfiguration)
	}
	if cfg.MonthlyIncome.IsNegative() {
		return fmt.Errorf("%w: monthly income cannot be negative", domain.ErrInvalidConfiguration)
	}
	if cfg.MonthlyExpenses.IsNegative() {
		return fmt.Errorf("%w: monthly expenses cannot be negative", domain.ErrInvalidConfiguration)
	}
	if cfg.Contributions != nil {
		if cfg.Contributions.MonthlyAmount.IsNegative() {
			return fmt.Errorf("%w: monthly contribution cannot be negative", domain.ErrInvalidConfiguration)
		}
		if cfg.Contributions.Timing != domain.StartOfMonth && cfg.Contributions.Timing != domain.EndOfMonth {
			return fmt.Errorf("%w: unknown contribution timing %d", domain.ErrInvalidConfiguration, int(cfg.Contributions.Timing))
		}
	}
	for i, w := range cfg.Withdrawals {
		if w.Kind != domain.Monthly && w.Kind != domain.LumpSum {
			return fmt.Errorf("%w: withdrawal #%d has unknown type %d", domain.ErrInvalidConfiguration, i+1, int(w.Kind))
		}
		if w.Amount.IsNegative() {
			return fmt.Errorf("%w: withdrawal #%d amount cannot be negative", domain.ErrInvalidConfiguration, i+1)
		}
		if w.StartYear < 1 {
			return fmt.Errorf("%w: withdrawal #%d start year must be at least 1, got %d", domain.ErrInvalidConfiguration, i+1, w.StartYear)
		}
	}
	rates := []struct {
		name string
		rate *domain.Rate
	}{
		{"inflation", cfg.Inflation},
		{"income growth", cfg.IncomeGrowth},
		{"expenses growth", cfg.ExpensesGrowth},
	}
	for _, r := range rates {
		if r.rate != nil && r.rate.AnnualRatePct.IsNegative() {
			return fmt.Errorf("%w: %s rate cannot be negative", domain.ErrInvalidConfiguration, r.name)
		}
	}
	return nil
}

// yearTotals accumulates the flows of the year being simulated.
type yearTotals struct {
	deposits    decimal.Decimal
	interest    decimal.Decimal
	withdrawals decimal.Decimal
}

// Project runs the monthly projection and returns one record per year.
//
// Within each month the order is fixed: start-of-month contribution,
// interest on the current balance, net income minus expenses, withdrawals,
// end-of-month contribution. Lump sums fire in month 12 of their start
// year. The balance is never clamped and may go negative.
func Project(cfg domain.ProjectionConfig) ([]domain.YearRecord, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	monthlyRate := MonthlyRate(cfg.AnnualGrowthRatePct)
	balance := cfg.InitialBalance
	cumulativeInflation := one
	var cumDeposits, cumInterest decimal.Decimal

	var contribution decimal.Decimal
	contributeAtStart, contributeAtEnd := false, false
	if cfg.Contributions != nil {
		contribution = cfg.Contributions.MonthlyAmount
		contributeAtStart = cfg.Contributions.Timing == domain.StartOfMonth
		contributeAtEnd = cfg.Contributions.Timing == domain.EndOfMonth
	}

	records := make([]domain.YearRecord, 0, cfg.ProjectionYears)
	for year := 1; year <= cfg.ProjectionYears; year++ {
		income := cfg.MonthlyIncome.Mul(growthFactor(cfg.IncomeGrowth, year)).Round(internalScale)
		expenses := cfg.MonthlyExpenses.Mul(growthFactor(cfg.ExpensesGrowth, year)).Round(internalScale)
		netFlow := income.Sub(expenses)

		var yt yearTotals
		for month := 1; month <= monthsPerYear; month++ {
			if contributeAtStart {
				balance = balance.Add(contribution)
				yt.deposits = yt.deposits.Add(contribution)
			}

			interest := balance.Mul(monthlyRate).Round(internalScale)
			balance = balance.Add(interest)
			yt.interest = yt.interest.Add(interest)

			balance = balance.Add(netFlow)

			for _, w := range cfg.Withdrawals {
				if withdrawalFires(w, year, month) {
					balance = balance.Sub(w.Amount)
					yt.withdrawals = yt.withdrawals.Add(w.Amount)
				}
			}

			if contributeAtEnd {
				balance = balance.Add(contribution)
				yt.deposits = yt.deposits.Add(contribution)
			}
		}

		cumDeposits = cumDeposits.Add(yt.deposits)
		cumInterest = cumInterest.Add(yt.interest)

		displayFactor := one
		if cfg.Inflation != nil {
			cumulativeInflation = cumulativeInflation.Mul(one.Add(cfg.Inflation.AnnualRatePct.Div(hundred)))
			displayFactor = cumulativeInflation
		}

		rec := domain.YearRecord{
			Year:               year,
			YearlyDeposits:     yt.deposits.Round(displayScale),
			YearlyInterest:     yt.interest.Round(displayScale),
			YearlyWithdrawals:  yt.withdrawals.Round(displayScale),
			CumulativeDeposits: cumDeposits.Div(displayFactor).Round(displayScale),
			CumulativeInterest: cumInterest.Div(displayFactor).Round(displayScale),
			EndBalanceNominal:  balance.Round(displayScale),
		}
		if cfg.InflationAdjusted() {
			realBalance := balance.Div(displayFactor).Round(displayScale)
			rec.EndBalanceReal = &realBalance
		}
		records = append(records, rec)
	}

	return records, nil
}

// withdrawalFires reports whether a rule withdraws in the given month.
// Rules starting past the horizon simply never match.
func withdrawalFires(w domain.WithdrawalRule, year, month int) bool {
	switch w.Kind {
	case domain.Monthly:
		return year >= w.StartYear
	case domain.LumpSum:
		return year == w.StartYear && month == monthsPerYear
	default:
		return false
	}
}
