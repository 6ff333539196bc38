package cli

import (
	"fmt"
	"strings"

	"github.com/rpgo/cashflow/internal/calculation"
	"github.com/rpgo/cashflow/internal/config"
	"github.com/rpgo/cashflow/internal/domain"
	"github.com/rpgo/cashflow/internal/journal"
	"github.com/rpgo/cashflow/internal/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runOptions struct {
	format   string
	outDir   string
	currency string
	save     bool
	record   bool
	note     string
}

func newRunCmd(rc *RootConfig) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <scenario-file>...",
		Short: "Project one or more scenarios and print the results",
		Long: `Loads each scenario file (JSON or YAML), projects them side by side and
prints the chosen format. Several files are compared and the scenario with
the highest final balance (real when inflation is enabled) is recommended.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(cmd, rc, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format (see 'cashflow formats'), or 'all'")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "Write a report file into this directory (implies --save)")
	cmd.Flags().StringVar(&opts.currency, "currency", "", "Currency symbol for formatted amounts")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Write a timestamped report file into the output directory")
	cmd.Flags().BoolVar(&opts.record, "journal", false, "Record the run in the journal database")
	cmd.Flags().StringVar(&opts.note, "note", "", "Note stored with the journal entry")

	return cmd
}

func runScenarios(cmd *cobra.Command, rc *RootConfig, opts *runOptions, paths []string) error {
	settings := rc.Settings
	format := settings.Format
	if err := output.ValidateFormat(format); err != nil {
		return err
	}

	parser := config.NewInputParser()
	parser.Logger = rc.engineLogger()
	scenarios := make([]domain.Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := parser.LoadFromFile(p)
		if err != nil {
			return err
		}
		rc.Logger.Debug("loaded scenario", zap.String("path", p), zap.String("name", s.Name), zap.Int("years", s.ProjectionYears))
		scenarios = append(scenarios, *s)
	}

	engine := calculation.NewProjectionEngine()
	engine.SetLogger(rc.engineLogger())
	cmp, err := engine.RunScenarios(cmd.Context(), scenarios)
	if err != nil {
		return err
	}

	display := format
	if strings.EqualFold(strings.TrimSpace(format), "all") {
		display = "console"
	}
	data, err := output.Render(cmp, display)
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return err
	}

	if opts.save || cmd.Flags().Changed("out") {
		written, err := output.GenerateReport(cmp, format, settings.OutputDir)
		if err != nil {
			return err
		}
		for _, p := range written {
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", p)
		}
	}

	if opts.record {
		j, err := journal.Open(settings.JournalPath)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer j.Close()
		j.Logger = rc.engineLogger()
		rc.Logger.Debug("journal opened", zap.String("path", settings.JournalPath), zap.Uint("schema_version", j.SchemaVersion))
		runID, err := j.RecordRun(cmd.Context(), cmp, opts.note)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "recorded run %s\n", runID)
	}
	return nil
}
