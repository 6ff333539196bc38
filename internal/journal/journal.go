// Package journal records scenario runs in a local SQLite database so that
// past projections can be listed and compared later.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rpgo/cashflow/internal/calculation"
	"github.com/rpgo/cashflow/internal/domain"
	"github.com/rpgo/cashflow/pkg/id"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned by GetRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// DefaultListLimit caps ListRuns when no positive limit is given.
const DefaultListLimit = 20

// Run is one recorded comparison.
type Run struct {
	ID           string
	CreatedAt    time.Time
	BestScenario string
	Note         string
	Scenarios    []RunScenario
}

// RunScenario is the stored outcome of one scenario within a run.
type RunScenario struct {
	Name    string
	Summary domain.ProjectionSummary
	Config  domain.ProjectionConfig
}

// Journal is a SQLite-backed run history.
type Journal struct {
	db      *sql.DB
	nowFunc func() time.Time
	Logger  calculation.Logger

	// SchemaVersion is the migration version the database was left at.
	SchemaVersion uint
}

// Open creates (if needed) and migrates the journal database at dbPath.
func Open(dbPath string) (*Journal, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// one connection keeps the foreign_keys pragma in effect for every statement
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	version, err := migrateSchema(dbPath)
	if err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &Journal{db: db, nowFunc: time.Now, Logger: calculation.NopLogger{}, SchemaVersion: version}, nil
}

// Close releases the database.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

func (j *Journal) logger() calculation.Logger {
	if j.Logger == nil {
		return calculation.NopLogger{}
	}
	return j.Logger
}

// RecordRun stores a comparison and returns the new run id.
func (j *Journal) RecordRun(ctx context.Context, cmp *domain.ScenarioComparison, note string) (string, error) {
	if cmp == nil || len(cmp.Scenarios) == 0 {
		return "", fmt.Errorf("record run: %w: empty comparison", domain.ErrInvalidConfiguration)
	}
	now := j.nowFunc().UTC()
	runID := id.NewAt(now)

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, best_scenario, note) VALUES (?, ?, ?, ?)`,
		runID, now.Format(time.RFC3339Nano), cmp.BestScenario, note); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for pos, sc := range cmp.Scenarios {
		cfgJSON, err := json.Marshal(sc.Config)
		if err != nil {
			return "", fmt.Errorf("encode config of %q: %w", sc.Name, err)
		}
		var finalReal sql.NullString
		if sc.Summary.FinalReal != nil {
			finalReal = sql.NullString{String: sc.Summary.FinalReal.String(), Valid: true}
		}
		s := sc.Summary
		if _, err := tx.ExecContext(ctx, `INSERT INTO run_scenarios
			(run_id, position, name, years, final_nominal, final_real, total_deposits, total_interest,
			 total_withdrawals, depletion_year, inflation_adjusted, config_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, pos, sc.Name, s.Years, s.FinalNominal.String(), finalReal, s.TotalDeposits.String(),
			s.TotalInterest.String(), s.TotalWithdrawals.String(), s.DepletionYear, s.InflationAdjusted,
			string(cfgJSON)); err != nil {
			return "", fmt.Errorf("insert scenario %q: %w", sc.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run: %w", err)
	}
	j.logger().Infof("recorded run %s with %d scenario(s)", runID, len(cmp.Scenarios))
	return runID, nil
}

// GetRun loads one run with its scenarios. Malformed ids fail with
// ErrRunNotFound before the database is queried.
func (j *Journal) GetRun(ctx context.Context, runID string) (*Run, error) {
	if err := checkRunID(runID); err != nil {
		return nil, err
	}
	row := j.db.QueryRowContext(ctx, `SELECT id, created_at, best_scenario, note FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	if err := j.loadScenarios(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns the most recent runs first, with their scenarios.
func (j *Journal) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, created_at, best_scenario, note FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("list runs: %w", err)
	}
	rows.Close()

	for i := range runs {
		if err := j.loadScenarios(ctx, &runs[i]); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// DeleteRun removes a run and its scenarios.
func (j *Journal) DeleteRun(ctx context.Context, runID string) error {
	if err := checkRunID(runID); err != nil {
		return err
	}
	res, err := j.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// checkRunID rejects strings that could never have been issued as run ids.
func checkRunID(runID string) error {
	if _, err := id.Time(runID); err != nil {
		return fmt.Errorf("%w: %q is not a run id (%v)", ErrRunNotFound, runID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var created string
	if err := row.Scan(&run.ID, &created, &run.BestScenario, &run.Note); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at of run %s: %w", run.ID, err)
	}
	run.CreatedAt = t
	return &run, nil
}

func (j *Journal) loadScenarios(ctx context.Context, run *Run) error {
	rows, err := j.db.QueryContext(ctx, `SELECT name, years, final_nominal, final_real, total_deposits,
		total_interest, total_withdrawals, depletion_year, inflation_adjusted, config_json
		FROM run_scenarios WHERE run_id = ? ORDER BY position`, run.ID)
	if err != nil {
		return fmt.Errorf("load scenarios of run %s: %w", run.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sc                                     RunScenario
			nominal, deposits, interest, withdrawn string
			finalReal                              sql.NullString
			cfgJSON                                string
		)
		if err := rows.Scan(&sc.Name, &sc.Summary.Years, &nominal, &finalReal, &deposits, &interest,
			&withdrawn, &sc.Summary.DepletionYear, &sc.Summary.InflationAdjusted, &cfgJSON); err != nil {
			return fmt.Errorf("scan scenario of run %s: %w", run.ID, err)
		}
		values := []struct {
			src string
			dst *decimal.Decimal
		}{
			{nominal, &sc.Summary.FinalNominal},
			{deposits, &sc.Summary.TotalDeposits},
			{interest, &sc.Summary.TotalInterest},
			{withdrawn, &sc.Summary.TotalWithdrawals},
		}
		for _, v := range values {
			d, err := decimal.NewFromString(v.src)
			if err != nil {
				return fmt.Errorf("decode amount %q of %q: %w", v.src, sc.Name, err)
			}
			*v.dst = d
		}
		if finalReal.Valid {
			d, err := decimal.NewFromString(finalReal.String)
			if err != nil {
				return fmt.Errorf("decode real balance of %q: %w", sc.Name, err)
			}
			sc.Summary.FinalReal = &d
		}
		if err := json.Unmarshal([]byte(cfgJSON), &sc.Config); err != nil {
			return fmt.Errorf("decode config of %q: %w", sc.Name, err)
		}
		run.Scenarios = append(run.Scenarios, sc)
	}
	return rows.Err()
}
