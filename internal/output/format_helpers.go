package output

import (
	"strconv"
	"sync/atomic"

	"github.com/shopspring/decimal"

	money "github.com/rpgo/cashflow/pkg/decimal"
)

var currencySymbol atomic.Value

// SetCurrencySymbol sets the symbol used by FormatCurrency. An empty symbol
// restores the default.
func SetCurrencySymbol(symbol string) {
	if symbol == "" {
		symbol = money.DefaultSymbol
	}
	currencySymbol.Store(symbol)
}

// CurrencySymbol returns the symbol used by FormatCurrency.
func CurrencySymbol() string {
	if s, ok := currencySymbol.Load().(string); ok {
		return s
	}
	return money.DefaultSymbol
}

// FormatCurrency formats a decimal with the configured currency symbol,
// thousands separators and 2 decimals.
func FormatCurrency(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).Format(CurrencySymbol())
}

// FormatOptionalCurrency formats a real balance, or N/A when absent.
func FormatOptionalCurrency(amount *decimal.Decimal) string {
	if amount == nil {
		return "N/A"
	}
	return FormatCurrency(*amount)
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }

// plain renders money for machine-readable outputs (no symbol, no grouping).
func plain(d decimal.Decimal) string { return d.StringFixed(2) }

func plainOptional(d *decimal.Decimal) string {
	if d == nil {
		return "N/A"
	}
	return plain(*d)
}
