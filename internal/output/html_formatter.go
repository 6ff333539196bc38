package output

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"math"
	"strings"

	"github.com/rpgo/cashflow/internal/domain"
)

// HTMLFormatter produces a standalone HTML report with a yearly table and an
// inline SVG chart per scenario.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":    FormatCurrency,
	"currOpt": FormatOptionalCurrency,
	"pct":     FormatPercentage,
	"num":     func(f float64) string { return fmt.Sprintf("%.1f", f) },
	"add":     func(i, j int) int { return i + j },
}).Parse(htmlTemplateSource))

type htmlScenario struct {
	domain.ScenarioResult
	Headers []string
	Chart   svgChart
}

func (h HTMLFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	scenarios := make([]htmlScenario, 0, len(results.Scenarios))
	for _, sc := range results.Scenarios {
		scenarios = append(scenarios, htmlScenario{
			ScenarioResult: sc,
			Headers:        yearlyHeaders(sc.Summary.InflationAdjusted),
			Chart:          buildChart(sc.Records),
		})
	}
	data := struct {
		Scenarios      []htmlScenario
		BestScenario   string
		Recommendation Recommendation
		Assumptions    []string
		Symbol         string
	}{scenarios, results.BestScenario, AnalyzeScenarios(results), ModelAssumptions, CurrencySymbol()}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const (
	chartWidth   = 820.0
	chartHeight  = 360.0
	chartLeft    = 90.0
	chartRight   = 20.0
	chartTop     = 20.0
	chartBottom  = 40.0
	chartYTicks  = 5
	chartBarFill = 0.7
)

type svgRect struct {
	X, Y, W, H float64
	Class      string
	Title      string
}

type svgLabel struct {
	X, Y float64
	Text string
}

type svgChart struct {
	Width, Height float64
	Left, Right   float64
	ZeroY         float64
	Bars          []svgRect
	Line          string
	Points        []svgLabel
	YTicks        []svgLabel
	XLabels       []svgLabel
}

// buildChart lays out stacked yearly bars (deposits and interest above zero,
// withdrawals and negative interest below) and the displayed end balance
// as a line.
func buildChart(records []domain.YearRecord) svgChart {
	c := svgChart{Width: chartWidth, Height: chartHeight, Left: chartLeft, Right: chartWidth - chartRight}
	if len(records) == 0 {
		c.ZeroY = chartHeight - chartBottom
		return c
	}

	type yearValues struct{ deposits, interest, withdrawals, balance float64 }
	vals := make([]yearValues, len(records))
	lo, hi := 0.0, 0.0
	for i, yr := range records {
		v := yearValues{
			deposits:    yr.YearlyDeposits.InexactFloat64(),
			interest:    yr.YearlyInterest.InexactFloat64(),
			withdrawals: yr.YearlyWithdrawals.InexactFloat64(),
			balance:     yr.DisplayBalance().InexactFloat64(),
		}
		vals[i] = v
		up, down := v.deposits, -v.withdrawals
		if v.interest >= 0 {
			up += v.interest
		} else {
			down += v.interest
		}
		hi = math.Max(hi, math.Max(up, v.balance))
		lo = math.Min(lo, math.Min(down, v.balance))
	}
	if hi == lo {
		hi = lo + 1
	}

	plotH := chartHeight - chartTop - chartBottom
	plotW := c.Right - c.Left
	y := func(v float64) float64 { return chartTop + (hi-v)/(hi-lo)*plotH }
	c.ZeroY = y(0)

	slot := plotW / float64(len(records))
	barW := slot * chartBarFill
	labelEvery := int(math.Ceil(float64(len(records)) / 15))

	var line []string
	for i, v := range vals {
		x := c.Left + float64(i)*slot + (slot-barW)/2
		year := records[i].Year

		top := 0.0
		stackUp := func(amount float64, class, title string) {
			if amount <= 0 {
				return
			}
			c.Bars = append(c.Bars, svgRect{X: x, Y: y(top + amount), W: barW, H: y(top) - y(top+amount), Class: class, Title: title})
			top += amount
		}
		stackUp(v.deposits, "deposits", fmt.Sprintf("Year %d deposits: %s", year, FormatCurrency(records[i].YearlyDeposits)))
		stackUp(v.interest, "interest", fmt.Sprintf("Year %d interest: %s", year, FormatCurrency(records[i].YearlyInterest)))

		bottom := 0.0
		stackDown := func(amount float64, class, title string) {
			if amount <= 0 {
				return
			}
			c.Bars = append(c.Bars, svgRect{X: x, Y: y(bottom), W: barW, H: y(bottom-amount) - y(bottom), Class: class, Title: title})
			bottom -= amount
		}
		stackDown(v.withdrawals, "withdrawals", fmt.Sprintf("Year %d withdrawals: %s", year, FormatCurrency(records[i].YearlyWithdrawals)))
		if v.interest < 0 {
			stackDown(-v.interest, "interest", fmt.Sprintf("Year %d interest: %s", year, FormatCurrency(records[i].YearlyInterest)))
		}

		cx := c.Left + (float64(i)+0.5)*slot
		cy := y(v.balance)
		line = append(line, fmt.Sprintf("%.1f,%.1f", cx, cy))
		c.Points = append(c.Points, svgLabel{X: cx, Y: cy, Text: fmt.Sprintf("Year %d end balance: %s", year, FormatCurrency(records[i].DisplayBalance()))})
		if i%labelEvery == 0 || i == len(vals)-1 {
			c.XLabels = append(c.XLabels, svgLabel{X: cx, Y: chartHeight - chartBottom + 18, Text: intToString(year)})
		}
	}
	c.Line = strings.Join(line, " ")

	for t := 0; t <= chartYTicks; t++ {
		v := lo + (hi-lo)*float64(t)/chartYTicks
		c.YTicks = append(c.YTicks, svgLabel{X: c.Left - 8, Y: y(v), Text: shortAmount(v)})
	}
	return c
}

// shortAmount renders axis labels compactly, e.g. £12.5k or -£1.2M.
func shortAmount(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	sym := CurrencySymbol()
	switch {
	case v >= 1e6:
		return fmt.Sprintf("%s%s%.1fM", sign, sym, v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%s%s%.1fk", sign, sym, v/1e3)
	default:
		return fmt.Sprintf("%s%s%.0f", sign, sym, v)
	}
}
