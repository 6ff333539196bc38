package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpgo/cashflow/internal/domain"
	"github.com/shopspring/decimal"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func decPtr(v float64) *decimal.Decimal {
	d := dec(v)
	return &d
}

func buildTestComparison() *domain.ScenarioComparison {
	saver := domain.ScenarioResult{
		Name: "Saver",
		Records: []domain.YearRecord{
			{Year: 1, YearlyDeposits: dec(1200), YearlyInterest: dec(60.5), CumulativeDeposits: dec(1176.47), CumulativeInterest: dec(59.31), EndBalanceNominal: dec(11260.5), EndBalanceReal: decPtr(11039.71)},
			{Year: 2, YearlyDeposits: dec(1200), YearlyInterest: dec(130.25), CumulativeDeposits: dec(2306.81), CumulativeInterest: dec(183.33), EndBalanceNominal: dec(12590.75), EndBalanceReal: decPtr(12101.83)},
		},
		Summary: domain.ProjectionSummary{
			Years: 2, FinalNominal: dec(12590.75), FinalReal: decPtr(12101.83),
			TotalDeposits: dec(2400), TotalInterest: dec(190.75), InflationAdjusted: true,
		},
		Assumptions: []string{"Annual growth: 6.00% (monthly rate = annual / 12)"},
	}
	spender := domain.ScenarioResult{
		Name: "Spender",
		Records: []domain.YearRecord{
			{Year: 1, YearlyWithdrawals: dec(6000), EndBalanceNominal: dec(4000)},
			{Year: 2, YearlyWithdrawals: dec(6000), EndBalanceNominal: dec(-2000)},
		},
		Summary: domain.ProjectionSummary{
			Years: 2, FinalNominal: dec(-2000), TotalWithdrawals: dec(12000), DepletionYear: 2,
		},
	}
	return &domain.ScenarioComparison{Scenarios: []domain.ScenarioResult{saver, spender}, BestScenario: "Saver"}
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestComparison())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	for _, want := range []string{
		"SCENARIO 1: Saver",
		"SCENARIO 2: Spender",
		"Cumulative Deposits (real)",
		"End Balance (nominal)",
		"£12,590.75",
		"N/A",
		"END BALANCE (real):",
		"END BALANCE (nominal):",
		"Balance first goes negative in year 2",
		"SCENARIO COMPARISON",
		"Recommended: Saver (£12,101.83, ahead of Spender by £14,101.83)",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in console output, got:\n%s", want, content)
		}
	}
}

func TestConsoleFormatterSingleScenarioHasNoComparison(t *testing.T) {
	cmp := buildTestComparison()
	cmp.Scenarios = cmp.Scenarios[:1]
	out, err := ConsoleFormatter{}.Format(cmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(out), "SCENARIO COMPARISON") {
		t.Fatalf("comparison section should only appear for several scenarios")
	}
}

func TestBalanceBars(t *testing.T) {
	lines := balanceBars([]decimal.Decimal{dec(100), dec(50), dec(-100), decimal.Zero})
	if got := strings.Count(lines[0], "█"); got != barWidth {
		t.Fatalf("largest balance should fill the bar, got %d blocks", got)
	}
	if got := strings.Count(lines[1], "█"); got != barWidth/2 {
		t.Fatalf("half balance should fill half the bar, got %d blocks", got)
	}
	if got := strings.Count(lines[2], "░"); got != barWidth {
		t.Fatalf("negative balance should use light blocks, got %d", got)
	}
	if strings.ContainsAny(lines[3], "█░") {
		t.Fatalf("zero balance should draw nothing: %q", lines[3])
	}

	flat := balanceBars([]decimal.Decimal{decimal.Zero, decimal.Zero})
	if strings.ContainsAny(flat[0], "█░") {
		t.Fatalf("all-zero balances should draw nothing")
	}
}

func TestCSVSummarizerKeepsInputOrder(t *testing.T) {
	out, err := CSVSummarizer{}.Format(buildTestComparison())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("csv parse: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 lines (header+2 rows), got %d", len(rows))
	}
	if rows[1][0] != "Saver" || rows[2][0] != "Spender" {
		t.Fatalf("rows not in input order: %v", rows)
	}
	if rows[1][3] != "12101.83" || rows[2][3] != "N/A" {
		t.Fatalf("unexpected real balance column: %v / %v", rows[1][3], rows[2][3])
	}
	if rows[2][7] != "2" || rows[1][7] != "" {
		t.Fatalf("unexpected depletion year column: %v / %v", rows[1][7], rows[2][7])
	}
	if rows[1][9] != "true" || rows[2][9] != "false" {
		t.Fatalf("best flag wrong: %v", rows)
	}
}

func TestCSVSummarizerMarksOneBestRow(t *testing.T) {
	cmp := buildTestComparison()
	cmp.Scenarios[1].Name = "Saver"
	out, err := CSVSummarizer{}.Format(cmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("csv parse: %v", err)
	}
	if rows[1][9] != "true" || rows[2][9] != "false" {
		t.Fatalf("expected only the first matching row marked best: %v", rows)
	}
}

func TestCSVDetailedExporterColumns(t *testing.T) {
	cmp := buildTestComparison()
	out, err := CSVDetailedExporter{}.Format(cmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("csv parse: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected header + 4 year rows, got %d", len(rows))
	}
	// mixed comparison: no "(real)" suffix on cumulative columns
	if rows[0][4] != "Cumulative Deposits" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[4][8] != "N/A" || rows[4][7] != "-2000.00" {
		t.Fatalf("unexpected last row %v", rows[4])
	}

	cmp.Scenarios = cmp.Scenarios[:1]
	out, err = CSVDetailedExporter{}.Format(cmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	header := strings.SplitN(string(out), "\n", 2)[0]
	if !strings.Contains(header, "Cumulative Deposits (real)") || !strings.Contains(header, "Cumulative Interest (real)") {
		t.Fatalf("inflation-adjusted header should mark cumulative columns real: %s", header)
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestComparison())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded struct {
		Scenarios []struct {
			Name    string `json:"name"`
			Records []struct {
				EndBalanceReal *string `json:"end_balance_real"`
			} `json:"records"`
		} `json:"scenarios"`
		BestScenario string `json:"best_scenario"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if decoded.BestScenario != "Saver" || len(decoded.Scenarios) != 2 {
		t.Fatalf("unexpected json: %s", out)
	}
	if decoded.Scenarios[1].Records[0].EndBalanceReal != nil {
		t.Fatalf("absent real balance should be omitted")
	}
}

// Golden snapshot tests (prefix-based) ensure key headers remain stable.
func TestGoldenSnapshots(t *testing.T) {
	cases := []struct {
		name      string
		golden    string
		formatter Formatter
	}{
		{"console", "console.golden", ConsoleFormatter{}},
		{"csv_summary", "csv_summary.golden", CSVSummarizer{}},
		{"csv_detailed", "csv_detailed.golden", CSVDetailedExporter{}},
		{"html", "html_prefix.golden", HTMLFormatter{}},
	}

	cmp := buildTestComparison()
	update := os.Getenv("UPDATE_GOLDEN") == "1"
	for _, tc := range cases {
		out, err := tc.formatter.Format(cmp)
		if err != nil {
			t.Fatalf("%s: format error: %v", tc.name, err)
		}
		goldenPath := filepath.Join("testdata", tc.golden)
		if update {
			// only first line to keep golden small & stable
			line := firstLine(string(out)) + "\n"
			if err := os.WriteFile(goldenPath, []byte(line), 0644); err != nil {
				t.Fatalf("%s: update golden failed: %v", tc.name, err)
			}
		}
		data, err := os.ReadFile(goldenPath)
		if err != nil {
			t.Fatalf("%s: read golden: %v", tc.name, err)
		}
		if !strings.Contains(firstLine(string(out)), strings.TrimSpace(string(data))) {
			t.Fatalf("%s: output does not match golden prefix %q", tc.name, strings.TrimSpace(string(data)))
		}
	}
}

func TestHTMLFormatterBasic(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestComparison())
	if err != nil {
		t.Fatalf("html format error: %v", err)
	}
	content := string(out)
	for _, want := range []string{
		"Scenario Summary",
		"Key Assumptions",
		ModelAssumptions[0],
		"Scenario 1: Saver",
		"Scenario 2: Spender",
		"<svg",
		`class="balance"`,
		`class="withdrawals"`,
		"£12,590.75",
		"Cumulative Deposits (real)",
		"N/A",
		`class="best"`,
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in HTML output", want)
		}
	}
}

func TestBuildChart(t *testing.T) {
	cmp := buildTestComparison()
	c := buildChart(cmp.Scenarios[0].Records)
	if len(c.Bars) != 4 {
		t.Fatalf("expected deposits and interest bars for 2 years, got %d", len(c.Bars))
	}
	for _, b := range c.Bars {
		if b.H <= 0 || b.Y+b.H > c.ZeroY+0.01 {
			t.Fatalf("positive bar should sit above the zero line: %+v zero=%v", b, c.ZeroY)
		}
	}
	if got := len(strings.Fields(c.Line)); got != 2 {
		t.Fatalf("expected 2 line points, got %d", got)
	}

	c = buildChart(cmp.Scenarios[1].Records)
	for _, b := range c.Bars {
		if b.Class != "withdrawals" || b.Y < c.ZeroY-0.01 {
			t.Fatalf("withdrawal bars should hang below the zero line: %+v zero=%v", b, c.ZeroY)
		}
	}

	empty := buildChart(nil)
	if len(empty.Bars) != 0 || empty.Line != "" {
		t.Fatalf("empty chart should have no marks")
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func TestFormatterAliasResolution(t *testing.T) {
	cases := map[string]string{
		"csv-detailed": "detailed-csv",
		" TABLE ":      "console",
		"json-pretty":  "json",
		"html":         "html",
	}
	for alias, want := range cases {
		f := GetFormatterByName(alias)
		if f == nil {
			t.Fatalf("alias %q did not resolve to a formatter", alias)
		}
		if f.Name() != want {
			t.Fatalf("alias %q resolved to %q, want %q", alias, f.Name(), want)
		}
	}
	if GetFormatterByName("pdf") != nil {
		t.Fatalf("unknown format should not resolve")
	}
}

func TestAvailableFormatterNames(t *testing.T) {
	got := strings.Join(AvailableFormatterNames(), ",")
	if got != "console,csv,detailed-csv,html,json" {
		t.Fatalf("unexpected formatter names %s", got)
	}
	if len(AvailableFormatAliases()) != len(aliasMap) {
		t.Fatalf("aliases incomplete")
	}
}
