package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rpgo/cashflow/internal/domain"
	"github.com/shopspring/decimal"
)

const barWidth = 40

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#457b9d"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	numberStyle  = cellStyle.Align(lipgloss.Right)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8d99ae"))
	positiveBar  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2a9d8f"))
	negativeBar  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e76f51"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e76f51"))
)

// ConsoleFormatter renders each scenario's yearly table, a bar chart of end
// balances and, for several scenarios, a comparison table.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, titleStyle.Render("CASHFLOW PROJECTION"))
	fmt.Fprintln(&buf, strings.Repeat("=", 60))
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range ModelAssumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for i, sc := range results.Scenarios {
		writeScenario(&buf, i+1, sc)
	}

	if len(results.Scenarios) > 1 {
		writeComparison(&buf, results)
	}
	return buf.Bytes(), nil
}

func writeScenario(buf *bytes.Buffer, n int, sc domain.ScenarioResult) {
	fmt.Fprintln(buf, titleStyle.Render(fmt.Sprintf("SCENARIO %d: %s", n, sc.Name)))
	fmt.Fprintln(buf, strings.Repeat("-", 50))
	for _, a := range sc.Assumptions {
		fmt.Fprintf(buf, "  %s\n", a)
	}
	fmt.Fprintln(buf)

	headers := yearlyHeaders(sc.Summary.InflationAdjusted)
	rows := make([][]string, 0, len(sc.Records))
	for _, yr := range sc.Records {
		rows = append(rows, []string{
			intToString(yr.Year),
			FormatCurrency(yr.YearlyDeposits),
			FormatCurrency(yr.YearlyInterest),
			FormatCurrency(yr.CumulativeDeposits),
			FormatCurrency(yr.CumulativeInterest),
			FormatCurrency(yr.YearlyWithdrawals),
			FormatCurrency(yr.EndBalanceNominal),
			FormatOptionalCurrency(yr.EndBalanceReal),
		})
	}
	fmt.Fprintln(buf, renderTable(headers, rows))
	fmt.Fprintln(buf)

	basis := "nominal"
	if sc.Summary.InflationAdjusted {
		basis = "real"
	}
	fmt.Fprintf(buf, "END BALANCE (%s):\n", basis)
	balances := make([]decimal.Decimal, len(sc.Records))
	for i, yr := range sc.Records {
		balances[i] = yr.DisplayBalance()
	}
	for i, line := range balanceBars(balances) {
		fmt.Fprintf(buf, "  Y%02d %s %s\n", sc.Records[i].Year, line, FormatCurrency(balances[i]))
	}
	fmt.Fprintln(buf)

	s := sc.Summary
	fmt.Fprintf(buf, "Final balance: %s nominal", FormatCurrency(s.FinalNominal))
	if s.FinalReal != nil {
		fmt.Fprintf(buf, ", %s real", FormatCurrency(*s.FinalReal))
	}
	fmt.Fprintf(buf, " | Deposits: %s | Interest: %s | Withdrawals: %s\n",
		FormatCurrency(s.TotalDeposits), FormatCurrency(s.TotalInterest), FormatCurrency(s.TotalWithdrawals))
	if s.DepletionYear > 0 {
		fmt.Fprintln(buf, warningStyle.Render(fmt.Sprintf("Balance first goes negative in year %d", s.DepletionYear)))
	}
	fmt.Fprintln(buf)
}

func writeComparison(buf *bytes.Buffer, results *domain.ScenarioComparison) {
	fmt.Fprintln(buf, titleStyle.Render("SCENARIO COMPARISON"))
	fmt.Fprintln(buf, strings.Repeat("-", 50))
	headers := []string{"Scenario", "Years", "Final (nominal)", "Final (real)", "Deposits", "Interest", "Withdrawals"}
	rows := make([][]string, 0, len(results.Scenarios))
	for _, sc := range results.Scenarios {
		s := sc.Summary
		rows = append(rows, []string{
			sc.Name,
			intToString(s.Years),
			FormatCurrency(s.FinalNominal),
			FormatOptionalCurrency(s.FinalReal),
			FormatCurrency(s.TotalDeposits),
			FormatCurrency(s.TotalInterest),
			FormatCurrency(s.TotalWithdrawals),
		})
	}
	fmt.Fprintln(buf, renderTable(headers, rows))

	rec := AnalyzeScenarios(results)
	if rec.ScenarioName != "" {
		fmt.Fprintln(buf)
		if rec.RunnerUp != "" {
			fmt.Fprintf(buf, "Recommended: %s (%s, ahead of %s by %s)\n",
				rec.ScenarioName, FormatCurrency(rec.FinalBalance), rec.RunnerUp, FormatCurrency(rec.MarginOverRunner))
		} else {
			fmt.Fprintf(buf, "Recommended: %s (%s)\n", rec.ScenarioName, FormatCurrency(rec.FinalBalance))
		}
	}
}

// yearlyHeaders returns the per-year column names. Cumulative columns are
// marked real when the projection is inflation adjusted.
func yearlyHeaders(inflationAdjusted bool) []string {
	cumDeposits, cumInterest := "Cumulative Deposits", "Cumulative Interest"
	if inflationAdjusted {
		cumDeposits += " (real)"
		cumInterest += " (real)"
	}
	return []string{
		"Year",
		"Yearly Deposits",
		"Yearly Interest",
		cumDeposits,
		cumInterest,
		"Yearly Withdrawals",
		"End Balance (nominal)",
		"End Balance (real)",
	}
}

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})
	return t.String()
}

// balanceBars scales each balance against the largest magnitude. Negative
// balances are drawn with a lighter block.
func balanceBars(values []decimal.Decimal) []string {
	maxAbs := decimal.Zero
	for _, v := range values {
		if v.Abs().GreaterThan(maxAbs) {
			maxAbs = v.Abs()
		}
	}
	lines := make([]string, len(values))
	for i, v := range values {
		n := 0
		if maxAbs.IsPositive() {
			n = int(v.Abs().Div(maxAbs).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
		}
		pad := strings.Repeat(" ", barWidth-n)
		if v.IsNegative() {
			lines[i] = negativeBar.Render(strings.Repeat("░", n)) + pad
		} else {
			lines[i] = positiveBar.Render(strings.Repeat("█", n)) + pad
		}
	}
	return lines
}
