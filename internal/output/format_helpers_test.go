package output

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatCurrency(t *testing.T) {
	t.Cleanup(func() { SetCurrencySymbol("") })

	v := decimal.NewFromFloat(1234.567)
	if got, want := FormatCurrency(v), "£1,234.57"; got != want {
		t.Errorf("FormatCurrency(%v) = %q, want %q", v, got, want)
	}

	SetCurrencySymbol("$")
	if got, want := FormatCurrency(decimal.NewFromInt(-60)), "-$60.00"; got != want {
		t.Errorf("FormatCurrency(-60) = %q, want %q", got, want)
	}
	if got := CurrencySymbol(); got != "$" {
		t.Errorf("CurrencySymbol() = %q", got)
	}

	SetCurrencySymbol("")
	if got := CurrencySymbol(); got != "£" {
		t.Errorf("empty symbol should restore default, got %q", got)
	}
}

func TestFormatOptionalCurrency(t *testing.T) {
	if got := FormatOptionalCurrency(nil); got != "N/A" {
		t.Errorf("FormatOptionalCurrency(nil) = %q", got)
	}
	d := decimal.NewFromInt(10)
	if got := FormatOptionalCurrency(&d); got != "£10.00" {
		t.Errorf("FormatOptionalCurrency(10) = %q", got)
	}
}

func TestFormatPercentage(t *testing.T) {
	v := decimal.NewFromFloat(12.3456)
	got := FormatPercentage(v)
	want := "12.35%"
	if got != want {
		t.Errorf("FormatPercentage(%v) = %q, want %q", v, got, want)
	}
}

func TestShortAmount(t *testing.T) {
	cases := map[float64]string{
		0:        "£0",
		950:      "£950",
		12500:    "£12.5k",
		-1300000: "-£1.3M",
	}
	for in, want := range cases {
		if got := shortAmount(in); got != want {
			t.Errorf("shortAmount(%v) = %q, want %q", in, got, want)
		}
	}
}
