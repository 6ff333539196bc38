package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Settings are the CLI-wide preferences read from cashflow.yaml, the
// environment (CASHFLOW_*) and command-line flags.
type Settings struct {
	Format         string `mapstructure:"format"`
	OutputDir      string `mapstructure:"output_dir"`
	LogLevel       string `mapstructure:"log_level"`
	JournalPath    string `mapstructure:"journal_path"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

const (
	DefaultFormat         = "console"
	DefaultOutputDir      = "reports"
	DefaultLogLevel       = "info"
	DefaultJournalPath    = "cashflow.db"
	DefaultCurrencySymbol = "£"

	// EnvPrefix is prepended to every setting when read from the environment.
	EnvPrefix = "CASHFLOW"
	// ConfigName is the settings file looked up when no --config is given.
	ConfigName = "cashflow"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// NewSettingsViper returns a viper instance with defaults and environment
// binding in place. When path is empty, cashflow.yaml is searched for in the
// working directory and it is not an error for it to be missing.
func NewSettingsViper(path string) *viper.Viper {
	v := viper.New()

	defaults := map[string]interface{}{
		"format":          DefaultFormat,
		"output_dir":      DefaultOutputDir,
		"log_level":       DefaultLogLevel,
		"journal_path":    DefaultJournalPath,
		"currency_symbol": DefaultCurrencySymbol,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadSettings reads the settings file (if any) into Settings and validates
// them. An explicitly named file that cannot be read is an error.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &s, validateSettings(&s)
}

func validateSettings(s *Settings) error {
	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))
	if !validLogLevels[s.LogLevel] {
		return fmt.Errorf("invalid log_level %q", s.LogLevel)
	}
	if strings.TrimSpace(s.Format) == "" {
		return errors.New("format must not be empty")
	}
	if strings.TrimSpace(s.OutputDir) == "" {
		return errors.New("output_dir must not be empty")
	}
	return nil
}
