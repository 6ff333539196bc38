package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rpgo/cashflow/internal/journal"
	"github.com/rpgo/cashflow/internal/output"
	"github.com/spf13/cobra"
)

func newHistoryCmd(rc *RootConfig) *cobra.Command {
	var limit int
	var remove bool

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded runs, or show one run in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := journal.Open(rc.Settings.JournalPath)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer j.Close()
			j.Logger = rc.engineLogger()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				if remove {
					if err := j.DeleteRun(cmd.Context(), args[0]); err != nil {
						return err
					}
					fmt.Fprintf(out, "deleted run %s\n", args[0])
					return nil
				}
				run, err := j.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderRun(run))
				return nil
			}
			if remove {
				return fmt.Errorf("--delete needs a run id")
			}

			runs, err := j.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderRuns(runs))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", journal.DefaultListLimit, "Maximum number of runs to list")
	cmd.Flags().BoolVar(&remove, "delete", false, "Delete the given run")
	return cmd
}

var historyHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var historyCell = lipgloss.NewStyle().Padding(0, 1)

func historyTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return historyHeader
			}
			return historyCell
		}).
		String()
}

func renderRuns(runs []journal.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		names := make([]string, 0, len(r.Scenarios))
		best := ""
		for _, sc := range r.Scenarios {
			names = append(names, sc.Name)
			if sc.Name == r.BestScenario {
				best = output.FormatCurrency(sc.Summary.FinalDisplay())
			}
		}
		rows = append(rows, []string{
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			strings.Join(names, ", "),
			r.BestScenario,
			best,
			r.Note,
		})
	}
	return historyTable([]string{"Run", "Created", "Scenarios", "Best", "Best Final", "Note"}, rows)
}

func renderRun(run *journal.Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s (%s)\n", run.ID, run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	if run.Note != "" {
		fmt.Fprintf(&b, "Note: %s\n", run.Note)
	}
	rows := make([][]string, 0, len(run.Scenarios))
	for _, sc := range run.Scenarios {
		s := sc.Summary
		depleted := "-"
		if s.DepletionYear > 0 {
			depleted = fmt.Sprintf("year %d", s.DepletionYear)
		}
		marker := ""
		if sc.Name == run.BestScenario {
			marker = "*"
		}
		rows = append(rows, []string{
			marker + sc.Name,
			fmt.Sprintf("%d", s.Years),
			output.FormatCurrency(s.FinalNominal),
			output.FormatOptionalCurrency(s.FinalReal),
			output.FormatCurrency(s.TotalDeposits),
			output.FormatCurrency(s.TotalInterest),
			output.FormatCurrency(s.TotalWithdrawals),
			depleted,
		})
	}
	b.WriteString(historyTable([]string{"Scenario", "Years", "Final (nominal)", "Final (real)", "Deposits", "Interest", "Withdrawals", "Depleted"}, rows))
	return b.String()
}
