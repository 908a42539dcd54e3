package credit

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var exponentialFrom = decimal.New(1, 6)

var printer = message.NewPrinter(language.English)

// Format renders an amount for display: two decimals with thousands
// separators, or exponential notation such as 1.23e+6 from a million up.
func Format(d decimal.Decimal) string {
	f := d.InexactFloat64()
	if d.Abs().GreaterThanOrEqual(exponentialFrom) {
		return exponential(f)
	}
	return printer.Sprint(number.Decimal(f, number.Scale(2)))
}

func exponential(f float64) string {
	s := strconv.FormatFloat(f, 'e', 2, 64)
	mant, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}

// Percent renders a ratio already scaled to percent, e.g. 0.01 -> "0.01%".
func Percent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}
