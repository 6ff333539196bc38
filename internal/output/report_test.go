package output

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rpgo/cashflow/internal/domain"
)

func fixClock(t *testing.T) {
	t.Helper()
	prev := nowFunc
	nowFunc = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	t.Cleanup(func() { nowFunc = prev })
}

func TestGenerateReport_WritesTimestampedFiles(t *testing.T) {
	fixClock(t)
	dir := filepath.Join(t.TempDir(), "reports")

	paths, err := GenerateReport(buildTestComparison(), "csv", dir)
	if err != nil {
		t.Fatalf("GenerateReport csv error: %v", err)
	}
	want := filepath.Join(dir, "cashflow_csv_20250102_030405.csv")
	if len(paths) != 1 || paths[0] != want {
		t.Fatalf("unexpected paths %v, want %s", paths, want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.HasPrefix(string(data), "Scenario,Years") {
		t.Fatalf("unexpected csv content: %s", data)
	}

	paths, err = GenerateReport(buildTestComparison(), "json-pretty", dir)
	if err != nil {
		t.Fatalf("GenerateReport json error: %v", err)
	}
	if filepath.Ext(paths[0]) != ".json" {
		t.Fatalf("json report should end in .json: %s", paths[0])
	}
}

func TestGenerateReport_All(t *testing.T) {
	fixClock(t)
	dir := t.TempDir()
	paths, err := GenerateReport(buildTestComparison(), "all", dir)
	if err != nil {
		t.Fatalf("GenerateReport all error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected console and detailed csv, got %v", paths)
	}
	if !strings.HasSuffix(paths[0], ".txt") || !strings.Contains(paths[1], "detailed-csv") {
		t.Fatalf("unexpected report files %v", paths)
	}
}

func TestUnknownFormatErrorIncludesSuggestions(t *testing.T) {
	_, err := GenerateReport(&domain.ScenarioComparison{}, "definitely-not-a-format", t.TempDir())
	if err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "unsupported report format") || !strings.Contains(msg, "Try one of:") {
		t.Fatalf("error message missing suggestions: %s", msg)
	}
}

func TestWriteFormattedPropagatesFormatterError(t *testing.T) {
	boom := FormatterFunc{ID: "boom", F: func(*domain.ScenarioComparison) ([]byte, error) {
		return nil, errors.New("kaput")
	}}
	_, err := WriteFormatted(boom, &domain.ScenarioComparison{}, t.TempDir(), "txt")
	if err == nil || !strings.Contains(err.Error(), "boom formatter: kaput") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestRender(t *testing.T) {
	out, err := Render(buildTestComparison(), "text")
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(string(out), "SCENARIO 1: Saver") {
		t.Fatalf("unexpected console output")
	}
	if _, err := Render(buildTestComparison(), "pdf"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestValidateFormat(t *testing.T) {
	for _, ok := range []string{"all", "ALL", "console", "csv-detailed", "html"} {
		if err := ValidateFormat(ok); err != nil {
			t.Fatalf("ValidateFormat(%q) = %v", ok, err)
		}
	}
	if err := ValidateFormat("xml"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
