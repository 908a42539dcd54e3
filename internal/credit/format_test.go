package credit

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"1234.5", "1,234.50"},
		{"999999.99", "999,999.99"},
		{"1000000", "1.00e+6"},
		{"1234567", "1.23e+6"},
		{"-2500000", "-2.50e+6"},
		{"12345678901", "1.23e+10"},
	}
	for _, tc := range cases {
		if got := Format(decimal.RequireFromString(tc.in)); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(decimal.RequireFromString("0.0056")); got != "0.01%" {
		t.Fatalf("unexpected percent %q", got)
	}
}
