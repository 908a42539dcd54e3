package credit

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func amount(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func TestValidate(t *testing.T) {
	hundred := decimal.NewFromInt(100)
	cases := []struct {
		amount decimal.NullDecimal
		want   Result
	}{
		{amount("-5"), Invalid},
		{amount("0"), Invalid},
		{decimal.NullDecimal{}, Invalid},
		{amount("150"), InsufficientFunds},
		{amount("50"), Valid},
		{amount("100"), Valid},
	}
	for _, tc := range cases {
		if got := Validate(tc.amount, hundred); got != tc.want {
			t.Fatalf("%v: expected %s, got %s", tc.amount, tc.want, got)
		}
	}
}

func TestMessage(t *testing.T) {
	if got := Message(Invalid, decimal.NullDecimal{}); got != "Invalid argument: null" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := Message(InsufficientFunds, amount("2000")); got != "Insufficient funds for transaction: 2000" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := Message(Valid, amount("1")); got != "Valid" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestCheckWrapsSentinels(t *testing.T) {
	_, err := Check("2k", decimal.NewFromInt(1000))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Result != InsufficientFunds {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := Check("abc", decimal.NewFromInt(1000)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	got, err := CheckAgainst("50%", decimal.NewFromInt(400), decimal.NewFromInt(1000))
	if err != nil || !got.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected 200, got %s err=%v", got, err)
	}
}
