package credit

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		ref  int64
		want string
	}{
		{"all", 500, "500"},
		{"ALL in", 500, "500"},
		{"50%", 200, "100"},
		{"12.5%", 80, "10"},
		{"2k", 0, "2000"},
		{"1.5M", 0, "1500000"},
		{"3b", 0, "3000000000"},
		{"250", 0, "250"},
		{" 42 ", 0, "42"},
		{"1e3", 0, "1000"},
		{"0x10", 0, "16"},
		{"-5", 0, "-5"},
		{"", 100, "0"},
		{"0.123456789", 0, "0.12345679"},
		{"2.5kk", 0, "2500"},
	}
	for _, tc := range cases {
		got := Parse(tc.in, decimal.NewFromInt(tc.ref))
		if !got.Valid {
			t.Fatalf("%q: expected %s, got null", tc.in, tc.want)
		}
		if !got.Decimal.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("%q: expected %s, got %s", tc.in, tc.want, got.Decimal)
		}
	}
}

func TestParseNull(t *testing.T) {
	for _, in := range []string{"abc", "%", "x%", "2x", "k", "Infinity", "1e400", "NaN", "1_000"} {
		if got := Parse(in, decimal.NewFromInt(100)); got.Valid {
			t.Fatalf("%q: expected null, got %s", in, got.Decimal)
		}
	}
}

func TestParseTinyExponentIsCheap(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1e-999999999", "0"},
		{"1e-60000000", "0"},
		{"1e-60000000%", "0"},
		{"1e-60000000k", "0"},
		{"1.5e-300", "0"},
		{"0.000000000000000000000000000000000000000000000000005", "0"},
	}
	start := time.Now()
	for _, tc := range cases {
		got := Parse(tc.in, decimal.NewFromInt(100))
		if !got.Valid || !got.Decimal.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("%q: expected %s, got %+v", tc.in, tc.want, got)
		}
		if got.Decimal.Exponent() < minExponent {
			t.Fatalf("%q: exponent %d left unbounded", tc.in, got.Decimal.Exponent())
		}
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("parsing tiny exponents took %s", elapsed)
	}
	if _, err := Check("1e-60000000", decimal.NewFromInt(100)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("a zero amount must still be rejected, got %v", err)
	}
}
