package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpgo/cashflow/internal/calculation"
	"github.com/rpgo/cashflow/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// MaxProjectionYears is the longest horizon a scenario file may request.
const MaxProjectionYears = 100

// scenarioFile mirrors the saved-scenario record. Required numeric fields are
// pointers so that a missing key can be told apart from an explicit zero.
type scenarioFile struct {
	Name                *string          `yaml:"name"`
	InitialInvestment   *float64         `yaml:"initial_investment"`
	InitialBalance      *float64         `yaml:"initial_balance"`
	MonthlyIncome       *float64         `yaml:"monthly_income"`
	MonthlyExpenses     *float64         `yaml:"monthly_expenses"`
	AnnualGrowthRate    *float64         `yaml:"annual_growth_rate"`
	ProjectionYears     *float64         `yaml:"projection_years"`
	UseContributions    bool             `yaml:"use_contributions"`
	MonthlyContribution float64          `yaml:"monthly_contribution"`
	ContributionTiming  string           `yaml:"contribution_timing"`
	UseWithdrawals      bool             `yaml:"use_withdrawals"`
	NumWithdrawals      *int             `yaml:"num_withdrawals"`
	Withdrawals         []withdrawalFile `yaml:"withdrawals"`
	UseInflation        bool             `yaml:"use_inflation"`
	AnnualInflation     float64          `yaml:"annual_inflation"`
	UseIncomeGrowth     bool             `yaml:"use_income_growth"`
	IncomeGrowthRate    float64          `yaml:"income_growth_rate"`
	UseExpensesGrowth   bool             `yaml:"use_expenses_growth"`
	ExpensesGrowthRate  float64          `yaml:"expenses_growth_rate"`
}

type withdrawalFile struct {
	Type      string   `yaml:"type"`
	Amount    *float64 `yaml:"amount"`
	StartYear *float64 `yaml:"start_year"`
}

// InputParser handles parsing of scenario files
type InputParser struct {
	Logger calculation.Logger
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{Logger: calculation.NopLogger{}}
}

// LoadFromFile loads a scenario from a JSON or YAML file. The scenario name
// defaults to the file name without extension.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	scenario, err := ip.Parse(data, base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return scenario, nil
}

// Parse decodes and validates a scenario. JSON is accepted since it is a
// subset of YAML.
func (ip *InputParser) Parse(data []byte, defaultName string) (*domain.Scenario, error) {
	var raw scenarioFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to parse scenario: %v", domain.ErrMalformedScenario, err)
	}

	scenario, err := ip.toScenario(&raw, defaultName)
	if err != nil {
		return nil, err
	}

	if err := ip.ValidateScenario(scenario); err != nil {
		return nil, fmt.Errorf("scenario validation failed: %w", err)
	}
	return scenario, nil
}

func (ip *InputParser) toScenario(raw *scenarioFile, defaultName string) (*domain.Scenario, error) {
	var missing []string
	initial := raw.InitialInvestment
	if initial == nil {
		initial = raw.InitialBalance
	}
	if initial == nil {
		missing = append(missing, "initial_investment")
	}
	if raw.MonthlyIncome == nil {
		missing = append(missing, "monthly_income")
	}
	if raw.MonthlyExpenses == nil {
		missing = append(missing, "monthly_expenses")
	}
	if raw.AnnualGrowthRate == nil {
		missing = append(missing, "annual_growth_rate")
	}
	if raw.ProjectionYears == nil {
		missing = append(missing, "projection_years")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required field(s): %s", domain.ErrMalformedScenario, strings.Join(missing, ", "))
	}

	name := defaultName
	if raw.Name != nil && strings.TrimSpace(*raw.Name) != "" {
		name = strings.TrimSpace(*raw.Name)
	}

	timing := domain.StartOfMonth
	if raw.ContributionTiming != "" {
		t, err := domain.ParseContributionTiming(raw.ContributionTiming)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfiguration, err)
		}
		timing = t
	}

	if raw.NumWithdrawals != nil && *raw.NumWithdrawals != len(raw.Withdrawals) {
		ip.logger().Warnf("scenario %q: num_withdrawals=%d but %d withdrawal(s) listed; using the list",
			name, *raw.NumWithdrawals, len(raw.Withdrawals))
	}

	var num numberReader
	withdrawals := make([]domain.WithdrawalRule, 0, len(raw.Withdrawals))
	for i, w := range raw.Withdrawals {
		rule := domain.WithdrawalRule{Kind: domain.Monthly, StartYear: 1}
		if w.Type != "" {
			kind, err := domain.ParseWithdrawalKind(w.Type)
			if err != nil {
				return nil, fmt.Errorf("%w: withdrawal #%d: %v", domain.ErrInvalidConfiguration, i+1, err)
			}
			rule.Kind = kind
		}
		if w.Amount != nil {
			rule.Amount = num.decimal(fmt.Sprintf("withdrawals[%d].amount", i), *w.Amount)
		}
		if w.StartYear != nil {
			rule.StartYear = num.whole(fmt.Sprintf("withdrawals[%d].start_year", i), *w.StartYear)
		}
		withdrawals = append(withdrawals, rule)
	}

	scenario := &domain.Scenario{
		Name:                name,
		InitialBalance:      num.decimal("initial_investment", *initial),
		MonthlyIncome:       num.decimal("monthly_income", *raw.MonthlyIncome),
		MonthlyExpenses:     num.decimal("monthly_expenses", *raw.MonthlyExpenses),
		AnnualGrowthRatePct: num.decimal("annual_growth_rate", *raw.AnnualGrowthRate),
		ProjectionYears:     num.whole("projection_years", *raw.ProjectionYears),
		UseContributions:    raw.UseContributions,
		MonthlyContribution: num.decimal("monthly_contribution", raw.MonthlyContribution),
		ContributionTiming:  timing,
		UseWithdrawals:      raw.UseWithdrawals,
		Withdrawals:         withdrawals,
		UseInflation:        raw.UseInflation,
		AnnualInflationPct:  num.decimal("annual_inflation", raw.AnnualInflation),
		UseIncomeGrowth:     raw.UseIncomeGrowth,
		IncomeGrowthPct:     num.decimal("income_growth_rate", raw.IncomeGrowthRate),
		UseExpensesGrowth:   raw.UseExpensesGrowth,
		ExpensesGrowthPct:   num.decimal("expenses_growth_rate", raw.ExpensesGrowthRate),
	}
	if num.err != nil {
		return nil, num.err
	}
	return scenario, nil
}

// numberReader converts decoded numbers and records the first non-finite or
// fractional one as a malformed-scenario error.
type numberReader struct {
	err error
}

func (n *numberReader) fail(key string, v float64, want string) {
	if n.err == nil {
		n.err = fmt.Errorf("%w: %s must be %s, got %v", domain.ErrMalformedScenario, key, want, v)
	}
}

func (n *numberReader) decimal(key string, v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		n.fail(key, v, "a finite number")
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

func (n *numberReader) whole(key string, v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		n.fail(key, v, "a whole number")
		return 0
	}
	return int(v)
}

// ValidateScenario checks the limits the input form enforces on top of the
// projection's own validation: a bounded horizon and withdrawals that start
// inside it.
func (ip *InputParser) ValidateScenario(s *domain.Scenario) error {
	if s.ProjectionYears < 1 || s.ProjectionYears > MaxProjectionYears {
		return fmt.Errorf("%w: projection years must be between 1 and %d, got %d",
			domain.ErrInvalidConfiguration, MaxProjectionYears, s.ProjectionYears)
	}
	if s.UseWithdrawals {
		for i, w := range s.Withdrawals {
			if w.StartYear > s.ProjectionYears {
				return fmt.Errorf("%w: withdrawal #%d starts in year %d, after the %d-year horizon",
					domain.ErrInvalidConfiguration, i+1, w.StartYear, s.ProjectionYears)
			}
		}
	}
	if err := calculation.ValidateConfig(s.ToProjectionConfig()); err != nil {
		return err
	}
	return nil
}

func (ip *InputParser) logger() calculation.Logger {
	if ip.Logger == nil {
		return calculation.NopLogger{}
	}
	return ip.Logger
}

// IsMalformed reports whether err came from an unreadable scenario rather
// than a semantically invalid one.
func IsMalformed(err error) bool {
	return errors.Is(err, domain.ErrMalformedScenario)
}
