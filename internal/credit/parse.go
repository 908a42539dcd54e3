package credit

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits every amount is rounded to.
const Places = 8

var (
	multipliers = map[byte]decimal.Decimal{
		'k': decimal.New(1, 3),
		'm': decimal.New(1, 6),
		'b': decimal.New(1, 9),
	}
	percent       = decimal.New(1, -2)
	leadingNumber = regexp.MustCompile(`^\s*[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)
)

// Parse turns user input into an amount. Rules apply in order: "all" anywhere
// selects the whole reference, a trailing % takes a share of the reference, a
// plain number is taken as is, and a trailing k/m/b scales its prefix.
// Anything else parses to null.
func Parse(input string, reference decimal.Decimal) decimal.NullDecimal {
	if strings.Contains(strings.ToLower(input), "all") {
		return valid(reference)
	}
	if strings.HasSuffix(input, "%") {
		v, ok := parseLeading(strings.TrimSuffix(input, "%"))
		if !ok {
			return decimal.NullDecimal{}
		}
		return valid(v.Mul(percent).Mul(reference))
	}
	if v, ok := parseNumber(input); ok {
		return valid(v)
	}
	if input == "" {
		return decimal.NullDecimal{}
	}
	base, suffix := input[:len(input)-1], strings.ToLower(input[len(input)-1:])
	v, ok := parseLeading(base)
	if !ok {
		return decimal.NullDecimal{}
	}
	mult, ok := multipliers[suffix[0]]
	if !ok {
		return decimal.NullDecimal{}
	}
	return valid(v.Mul(mult))
}

// Normalize rounds to Places fractional digits.
func Normalize(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

func valid(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: Normalize(d), Valid: true}
}

// parseNumber accepts the whole string as a number. Blank input is zero and
// 0x/0o/0b integer literals are allowed.
func parseNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, true
	}
	if len(s) > 2 && s[0] == '0' && strings.ContainsRune("xXoObB", rune(s[1])) {
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromInt(n), true
	}
	if strings.Contains(s, "_") {
		return decimal.Decimal{}, false
	}
	return toDecimal(s)
}

// parseLeading reads the longest numeric prefix and ignores the rest.
func parseLeading(s string) (decimal.Decimal, bool) {
	m := leadingNumber.FindString(s)
	if m == "" {
		return decimal.Decimal{}, false
	}
	return toDecimal(strings.TrimSpace(m))
}

// minExponent bounds the scale of a parsed literal. Rounding a decimal costs
// time proportional to how far its exponent sits below -Places.
const minExponent = -(Places + 30)

// toDecimal keeps the exact digits when possible and rejects non-finite
// values. Literals with a tiny exponent fall back to the float value.
func toDecimal(s string) (decimal.Decimal, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, false
	}
	if f == 0 {
		return decimal.Zero, true
	}
	if d, err := decimal.NewFromString(strings.TrimPrefix(s, "+")); err == nil && d.Exponent() >= minExponent {
		return d, true
	}
	return decimal.NewFromFloat(f), true
}
