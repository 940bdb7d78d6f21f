// Package format renders report figures for display.
package format

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const defaultCurrency = "USD"

var printer = message.NewPrinter(language.English)

// Currency renders amount with thousands separators and two decimals, prefixed
// by the ISO 4217 code, e.g. "USD 1,234.50". Unknown codes fall back to USD.
func Currency(code string, amount float64) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		log.Warn().Err(err).Str("currency", code).Msg("unknown currency, using default")

		unit = currency.MustParseISO(defaultCurrency)
	}

	return fmt.Sprintf("%s %s", unit.String(), printer.Sprintf("%.2f", amount))
}

// Percentage renders a whole percentage such as "75%".
func Percentage(value int) string {
	return fmt.Sprintf("%d%%", value)
}

// Number renders an integer with thousands separators.
func Number(value int) string {
	return printer.Sprintf("%d", value)
}
