package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpgo/cashflow/internal/config"
	"github.com/spf13/cobra"
)

func newInitCmd(rc *RootConfig) *cobra.Command {
	var name string
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a scenario file with default values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "scenario.json"
			if len(args) == 1 {
				path = args[0]
			}
			if filepath.Ext(path) == "" {
				path += ".json"
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			s := config.DefaultScenario()
			s.Name = name
			if s.Name == "" {
				s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			written, err := config.SaveScenario(s, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", written)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Scenario name (default: file name)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newValidateCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario-file>...",
		Short: "Check scenario files without projecting them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			parser.Logger = rc.engineLogger()
			out := cmd.OutOrStdout()

			failed := 0
			for _, p := range args {
				s, err := parser.LoadFromFile(p)
				if err != nil {
					failed++
					kind := "invalid"
					if config.IsMalformed(err) {
						kind = "malformed"
					}
					fmt.Fprintf(out, "%-9s %v\n", kind, err)
					continue
				}
				fmt.Fprintf(out, "ok        %s (%s, %d years)\n", p, s.Name, s.ProjectionYears)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d scenario file(s) failed validation", failed, len(args))
			}
			return nil
		},
	}
}
