// Package money parses and renders decimal amounts. Amounts are carried as
// decimal.Decimal and stored as NUMERIC, so sub-cent earnings keep their
// full precision.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
	ErrOutOfRange      = errors.New("amount out of range")
)

// MaxScale is the most decimal places an input amount may carry.
const MaxScale = 12

// MaxAmount bounds the magnitude of any input amount.
var MaxAmount = decimal.New(1, 15)

// Parse reads a decimal string such as "12.5" or "0.005".
func Parse(input string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if value.Abs().GreaterThanOrEqual(MaxAmount) {
		return decimal.Zero, ErrOutOfRange
	}
	if !value.Equal(value.Truncate(MaxScale)) {
		return decimal.Zero, ErrTooManyDecimals
	}
	return value, nil
}

// Format renders at least two decimals and every significant digit beyond
// them: 50 -> "50.00", 0.005 -> "0.005".
func Format(value decimal.Decimal) string {
	if value.Equal(value.Round(2)) {
		return value.StringFixed(2)
	}
	return value.String()
}
