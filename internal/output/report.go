package output

import (
	"strings"

	"github.com/rpgo/cashflow/internal/domain"
)

// GenerateReport writes the comparison in the named format to a timestamped
// file in dir and returns the paths written. "all" writes the console text
// and the detailed CSV.
func GenerateReport(results *domain.ScenarioComparison, format, dir string) ([]string, error) {
	if strings.EqualFold(strings.TrimSpace(format), "all") {
		var paths []string
		for _, f := range []Formatter{ConsoleFormatter{}, CSVDetailedExporter{}} {
			p, err := WriteFormatted(f, results, dir, extensionFor(f.Name()))
			if err != nil {
				return paths, err
			}
			paths = append(paths, p)
		}
		return paths, nil
	}

	f := GetFormatterByName(format)
	if f == nil {
		return nil, unsupportedFormat(format)
	}
	p, err := WriteFormatted(f, results, dir, extensionFor(f.Name()))
	if err != nil {
		return nil, err
	}
	return []string{p}, nil
}

// Render formats the comparison in memory, for printing to a terminal.
func Render(results *domain.ScenarioComparison, format string) ([]byte, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return nil, unsupportedFormat(format)
	}
	return f.Format(results)
}

// ValidateFormat reports whether format names a formatter, an alias or "all".
func ValidateFormat(format string) error {
	if strings.EqualFold(strings.TrimSpace(format), "all") || GetFormatterByName(format) != nil {
		return nil
	}
	return unsupportedFormat(format)
}
