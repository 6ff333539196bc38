package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/cashflow/internal/domain"
)

// CSVDetailedExporter provides the yearly table per scenario. The cumulative
// columns carry a "(real)" suffix when every scenario is inflation adjusted;
// for a mixed comparison the Inflation Adjusted column tells rows apart.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	allReal := len(results.Scenarios) > 0
	for _, sc := range results.Scenarios {
		allReal = allReal && sc.Summary.InflationAdjusted
	}
	header := append([]string{"Scenario"}, yearlyHeaders(allReal)...)
	header = append(header, "Inflation Adjusted")
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sc := range results.Scenarios {
		for _, yr := range sc.Records {
			row := []string{
				sc.Name,
				intToString(yr.Year),
				plain(yr.YearlyDeposits),
				plain(yr.YearlyInterest),
				plain(yr.CumulativeDeposits),
				plain(yr.CumulativeInterest),
				plain(yr.YearlyWithdrawals),
				plain(yr.EndBalanceNominal),
				plainOptional(yr.EndBalanceReal),
				boolToString(sc.Summary.InflationAdjusted),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
