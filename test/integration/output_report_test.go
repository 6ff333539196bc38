package integration

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpgo/cashflow/internal/calculation"
	"github.com/rpgo/cashflow/internal/domain"
	"github.com/rpgo/cashflow/internal/journal"
	"github.com/rpgo/cashflow/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectTestdata(t *testing.T) *domain.ScenarioComparison {
	t.Helper()
	results, err := calculation.NewProjectionEngine().RunScenarios(context.Background(), loadScenarios(t))
	require.NoError(t, err)
	return results
}

func TestGenerateReport_AllFormats(t *testing.T) {
	results := projectTestdata(t)
	dir := t.TempDir()

	for _, format := range output.AvailableFormatterNames() {
		paths, err := output.GenerateReport(results, format, dir)
		require.NoError(t, err, format)
		require.Len(t, paths, 1)
		info, err := os.Stat(paths[0])
		require.NoError(t, err)
		assert.Positive(t, info.Size(), format)
	}

	paths, err := output.GenerateReport(results, "all", filepath.Join(dir, "all"))
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestDetailedCSVHasRowPerYear(t *testing.T) {
	results := projectTestdata(t)
	data, err := output.Render(results, "detailed-csv")
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1+10+25)
	assert.Equal(t, "Cumulative Deposits (real)", rows[0][4])
}

func TestJSONReportDecodes(t *testing.T) {
	results := projectTestdata(t)
	data, err := output.Render(results, "json")
	require.NoError(t, err)

	var decoded domain.ScenarioComparison
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, results.BestScenario, decoded.BestScenario)
	require.Len(t, decoded.Scenarios, 2)
	assert.True(t, decoded.Scenarios[1].Summary.FinalNominal.Equal(results.Scenarios[1].Summary.FinalNominal))
}

func TestJournalRecordsProjection(t *testing.T) {
	results := projectTestdata(t)
	j, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer j.Close()

	ctx := context.Background()
	runID, err := j.RecordRun(ctx, results, "integration")
	require.NoError(t, err)

	run, err := j.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, "Steady Saver", run.BestScenario)
	require.Len(t, run.Scenarios, 2)
	assert.Equal(t, results.Scenarios[1].Summary.DepletionYear, run.Scenarios[1].Summary.DepletionYear)

	records, err := calculation.Project(run.Scenarios[0].Config)
	require.NoError(t, err)
	assert.True(t, records[len(records)-1].EndBalanceNominal.Equal(results.Scenarios[0].Summary.FinalNominal))
}
