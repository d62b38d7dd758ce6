package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits every stored amount carries.
const MoneyScale = 2

// Round rounds d to MoneyScale places, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// NormalizeAmount rounds a deposit, withdrawal or transfer amount and
// requires the rounded value to be strictly positive.
func NormalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	normalized := Round(amount)
	if !normalized.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w (got %s)", ErrInvalidAmount, amount)
	}

	return normalized, nil
}

// NormalizeInitialBalance rounds an opening balance, which may be zero.
func NormalizeInitialBalance(balance decimal.Decimal) (decimal.Decimal, error) {
	normalized := Round(balance)
	if normalized.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w (got %s)", ErrNegativeInitialBalance, balance)
	}

	return normalized, nil
}

// ParseMoney parses textual money input such as "150", "10.1" or "0.00".
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrAmountRequired
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmountFormat, s)
	}

	return d, nil
}

// FormatMoney renders d with exactly two fractional digits.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyScale)
}
