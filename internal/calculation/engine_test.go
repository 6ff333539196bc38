package calculation

import (
	"context"
	"errors"
	"testing"

	"github.com/rpgo/cashflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testScenario(name string, growth float64) domain.Scenario {
	return domain.Scenario{
		Name:                name,
		InitialBalance:      d(10000),
		MonthlyIncome:       d(3000),
		MonthlyExpenses:     d(2500),
		AnnualGrowthRatePct: d(growth),
		ProjectionYears:     5,
	}
}

func TestNewProjectionEngine(t *testing.T) {
	engine := NewProjectionEngine()
	require.NotNil(t, engine)
	assert.IsType(t, NopLogger{}, engine.Logger)

	engine.SetLogger(nil)
	assert.IsType(t, NopLogger{}, engine.Logger)
}

func TestProjectionEngine_RunMatchesProject(t *testing.T) {
	engine := NewProjectionEngine()
	cfg := baseConfig()

	got, err := engine.Run(cfg)
	require.NoError(t, err)
	want, err := Project(cfg)
	require.NoError(t, err)
	assertSameRecords(t, want, got)
}

func TestProjectionEngine_RunScenario(t *testing.T) {
	engine := NewProjectionEngine()
	sc := testScenario("steady", 5)
	sc.UseInflation = true
	sc.AnnualInflationPct = d(2)

	res, err := engine.RunScenario(context.Background(), sc)
	require.NoError(t, err)
	assert.Equal(t, "steady", res.Name)
	assert.Len(t, res.Records, 5)
	assert.True(t, res.Summary.InflationAdjusted)
	require.NotNil(t, res.Config.Inflation)
	assert.NotEmpty(t, res.Assumptions)
}

func TestProjectionEngine_RunScenariosPreservesOrder(t *testing.T) {
	engine := NewProjectionEngine()
	scenarios := []domain.Scenario{
		testScenario("low", 2),
		testScenario("high", 9),
		testScenario("mid", 5),
	}

	cmp, err := engine.RunScenarios(context.Background(), scenarios)
	require.NoError(t, err)
	require.Len(t, cmp.Scenarios, 3)
	assert.Equal(t, "low", cmp.Scenarios[0].Name)
	assert.Equal(t, "high", cmp.Scenarios[1].Name)
	assert.Equal(t, "mid", cmp.Scenarios[2].Name)
	assert.Equal(t, "high", cmp.BestScenario)
}

func TestProjectionEngine_RunScenariosFailsWholesale(t *testing.T) {
	engine := NewProjectionEngine()
	bad := testScenario("broken", 5)
	bad.ProjectionYears = 0

	cmp, err := engine.RunScenarios(context.Background(), []domain.Scenario{testScenario("ok", 5), bad})
	require.Error(t, err)
	assert.Nil(t, cmp)
	assert.True(t, errors.Is(err, domain.ErrInvalidConfiguration))
	assert.Contains(t, err.Error(), `"broken"`)
}

func TestProjectionEngine_RunScenariosRejectsDuplicateNames(t *testing.T) {
	poor := testScenario("plan", 0)
	poor.InitialBalance = d(100)
	rich := testScenario("plan", 0)
	rich.InitialBalance = d(900)

	cmp, err := NewProjectionEngine().RunScenarios(context.Background(), []domain.Scenario{testScenario("other", 5), poor, rich})
	require.Error(t, err)
	assert.Nil(t, cmp)
	assert.True(t, errors.Is(err, domain.ErrInvalidConfiguration))
	assert.Contains(t, err.Error(), `scenarios 2 and 3 are both named "plan"`)
}

func TestProjectionEngine_RunScenariosEmpty(t *testing.T) {
	_, err := NewProjectionEngine().RunScenarios(context.Background(), nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidConfiguration))
}

func TestProjectionEngine_RunScenariosCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProjectionEngine().RunScenarios(ctx, []domain.Scenario{testScenario("a", 5)})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestProjectionEngine_LogsThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	engine := NewProjectionEngine()
	engine.SetLogger(NewZapLogger(zap.New(core)))

	_, err := engine.RunScenarios(context.Background(), []domain.Scenario{testScenario("a", 5)})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessageSnippet("projected 5 years").Len())
	assert.Equal(t, 1, logs.FilterMessageSnippet("best: a").Len())

	bad := baseConfig()
	bad.ProjectionYears = 0
	_, err = engine.Run(bad)
	require.Error(t, err)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestNewZapLoggerNil(t *testing.T) {
	l := NewZapLogger(nil)
	assert.NotPanics(t, func() { l.Infof("hello %s", "world") })
}
