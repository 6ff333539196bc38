package cli

import (
	"fmt"
	"os"

	"github.com/rpgo/cashflow/internal/calculation"
	"github.com/rpgo/cashflow/internal/config"
	"github.com/rpgo/cashflow/internal/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootConfig carries global flags and the state PersistentPreRunE builds
// from them for subcommands.
type RootConfig struct {
	ConfigPath string
	LogLevel   string
	Verbose    bool

	Settings *config.Settings
	Logger   *zap.Logger
}

// engineLogger adapts the zap logger for the engine, loader and journal.
func (rc *RootConfig) engineLogger() calculation.Logger {
	return calculation.NewZapLogger(rc.Logger)
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:           "cashflow",
		Short:         "Monthly cashflow and savings projections",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to settings file (default ./cashflow.yaml if present)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().BoolVarP(&rc.Verbose, "verbose", "v", false, "Shorthand for --log-level debug")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		v := config.NewSettingsViper(rc.ConfigPath)
		if err := v.BindPFlag("log_level", cmd.Root().PersistentFlags().Lookup("log-level")); err != nil {
			return err
		}
		// subcommand flags that mirror settings
		for flag, key := range map[string]string{"format": "format", "out": "output_dir", "currency": "currency_symbol"} {
			if f := cmd.Flags().Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return err
				}
			}
		}
		if rc.Verbose {
			v.Set("log_level", "debug")
		}

		settings, err := config.LoadSettings(v)
		if err != nil {
			return err
		}
		rc.Settings = settings

		logger, err := NewLogger(settings.LogLevel, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		rc.Logger = logger
		output.SetCurrencySymbol(settings.CurrencySymbol)
		logger.Debug("settings loaded",
			zap.String("format", settings.Format),
			zap.String("output_dir", settings.OutputDir),
			zap.String("journal_path", settings.JournalPath))
		return nil
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if rc.Logger != nil {
			_ = rc.Logger.Sync()
		}
	}

	cmd.AddCommand(
		newRunCmd(rc),
		newInitCmd(rc),
		newValidateCmd(rc),
		newHistoryCmd(rc),
		newFormatsCmd(),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "cashflow (dev)")
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
