package output

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Japanese)

// FormatYen formats a whole-yen amount with digit grouping ("¥38,740").
// Empty or unparsable amounts print as "-".
func FormatYen(amount string) string {
	if amount == "" {
		return "-"
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return "-"
	}
	return printer.Sprintf("¥%d", d.IntPart())
}

// FormatFlag renders a coverage flag the way Japanese payroll forms do.
func FormatFlag(b bool) string {
	if b {
		return "○"
	}
	return "×"
}
