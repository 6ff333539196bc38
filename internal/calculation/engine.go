package calculation

import (
	"context"
	"fmt"

	"github.com/rpgo/cashflow/internal/domain"
	"golang.org/x/sync/errgroup"
)

// ProjectionEngine runs cashflow projections. It holds no per-run state, so a
// single engine may serve concurrent callers.
type ProjectionEngine struct {
	Logger Logger
}

// NewProjectionEngine creates a new projection engine with a no-op logger
func NewProjectionEngine() *ProjectionEngine {
	return &ProjectionEngine{Logger: NopLogger{}}
}

// SetLogger sets the logger for the projection engine. If nil is provided, a no-op logger is used.
func (pe *ProjectionEngine) SetLogger(l Logger) {
	if l == nil {
		pe.Logger = NopLogger{}
		return
	}
	pe.Logger = l
}

func (pe *ProjectionEngine) logger() Logger {
	if pe.Logger == nil {
		return NopLogger{}
	}
	return pe.Logger
}

// Run projects a single configuration.
func (pe *ProjectionEngine) Run(cfg domain.ProjectionConfig) ([]domain.YearRecord, error) {
	records, err := Project(cfg)
	if err != nil {
		pe.logger().Warnf("projection rejected: %v", err)
		return nil, err
	}
	last := records[len(records)-1]
	pe.logger().Debugf("projected %d years: end balance nominal=%s real=%s",
		len(records), last.EndBalanceNominal.StringFixed(2), realString(last))
	return records, nil
}

// RunScenario projects one scenario and summarizes it.
func (pe *ProjectionEngine) RunScenario(ctx context.Context, scenario domain.Scenario) (*domain.ScenarioResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := scenario.ToProjectionConfig()
	records, err := pe.Run(cfg)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}
	return &domain.ScenarioResult{
		Name:        scenario.Name,
		Config:      cfg,
		Records:     records,
		Summary:     Summarize(records),
		Assumptions: scenario.Assumptions(),
	}, nil
}

// RunScenarios projects every scenario concurrently and returns the results
// in input order. Any invalid scenario, or two sharing a name, fails the
// whole comparison.
func (pe *ProjectionEngine) RunScenarios(ctx context.Context, scenarios []domain.Scenario) (*domain.ScenarioComparison, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("%w: no scenarios provided", domain.ErrInvalidConfiguration)
	}
	// results and the best scenario are identified by name
	seen := make(map[string]int, len(scenarios))
	for i, s := range scenarios {
		if j, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("%w: scenarios %d and %d are both named %q; give each a distinct name",
				domain.ErrInvalidConfiguration, j+1, i+1, s.Name)
		}
		seen[s.Name] = i
	}

	results := make([]domain.ScenarioResult, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)
	for i := range scenarios {
		g.Go(func() error {
			res, err := pe.RunScenario(gctx, scenarios[i])
			if err != nil {
				return err
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	comparison := &domain.ScenarioComparison{
		Scenarios:    results,
		BestScenario: BestScenario(results),
	}
	pe.logger().Infof("ran %d scenario(s), best: %s", len(results), comparison.BestScenario)
	return comparison, nil
}

func realString(yr domain.YearRecord) string {
	if yr.EndBalanceReal == nil {
		return "n/a"
	}
	return yr.EndBalanceReal.StringFixed(2)
}
