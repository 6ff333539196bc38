package cli

import (
	"fmt"
	"strings"

	"github.com/rpgo/cashflow/internal/output"
	"github.com/spf13/cobra"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List output formats and their aliases",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "formats: %s, all\n", strings.Join(output.AvailableFormatterNames(), ", "))
			fmt.Fprintf(out, "aliases: %s\n", strings.Join(output.AvailableFormatAliases(), ", "))
		},
	}
}
