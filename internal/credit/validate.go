package credit

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInsufficientFunds = errors.New("insufficient_funds")
)

type Result int

const (
	Valid Result = iota
	Invalid
	InsufficientFunds
)

func (r Result) String() string {
	switch r {
	case Valid:
		return "VALID"
	case Invalid:
		return "INVALID"
	case InsufficientFunds:
		return "INSUFFICIENT_FUNDS"
	default:
		return "UNKNOWN"
	}
}

// Validate classifies an amount against what the source side holds.
func Validate(amount decimal.NullDecimal, available decimal.Decimal) Result {
	if !amount.Valid || !amount.Decimal.IsPositive() {
		return Invalid
	}
	if amount.Decimal.GreaterThan(available) {
		return InsufficientFunds
	}
	return Valid
}

func Message(result Result, amount decimal.NullDecimal) string {
	switch result {
	case Valid:
		return "Valid"
	case Invalid:
		return fmt.Sprintf("Invalid argument: %s", display(amount))
	case InsufficientFunds:
		return fmt.Sprintf("Insufficient funds for transaction: %s", display(amount))
	default:
		return "Unknown result"
	}
}

func display(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return "null"
	}
	return amount.Decimal.String()
}

// ValidationError carries a rejected amount. It matches ErrInvalidAmount or
// ErrInsufficientFunds with errors.Is.
type ValidationError struct {
	Result Result
	Amount decimal.NullDecimal
}

func (e *ValidationError) Error() string {
	return Message(e.Result, e.Amount)
}

func (e *ValidationError) Unwrap() error {
	if e.Result == InsufficientFunds {
		return ErrInsufficientFunds
	}
	return ErrInvalidAmount
}

// Check parses and validates in one step. The amount is returned even when
// the check fails so callers can report it.
func Check(input string, available decimal.Decimal) (decimal.Decimal, error) {
	return CheckAgainst(input, available, available)
}

// CheckAgainst parses relative to reference and validates against available.
func CheckAgainst(input string, reference, available decimal.Decimal) (decimal.Decimal, error) {
	amount := Parse(input, reference)
	if r := Validate(amount, available); r != Valid {
		return amount.Decimal, &ValidationError{Result: r, Amount: amount}
	}
	return amount.Decimal, nil
}
