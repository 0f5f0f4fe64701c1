// Package domain defines core data structures used throughout the ledger client.
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CurrencyScale is the number of fractional digits accepted for cash amounts.
const CurrencyScale = 2

// ParseAmount parses a cash amount from its string form.
// Amounts carry at most two fractional digits and must be positive.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if amount.Exponent() < -CurrencyScale {
		return decimal.Decimal{}, fmt.Errorf("amount %q has more than %d decimal places", s, CurrencyScale)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, fmt.Errorf("amount must be positive, got %s", amount.String())
	}
	return amount, nil
}

// ParseQuantity parses a share quantity from its string form.
// Share quantities are whole numbers.
func ParseQuantity(s string) (decimal.Decimal, error) {
	qty, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid quantity %q: %w", s, err)
	}
	if !qty.IsInteger() {
		return decimal.Decimal{}, fmt.Errorf("quantity must be a whole number of shares, got %s", qty.String())
	}
	if qty.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, fmt.Errorf("quantity must be positive, got %s", qty.String())
	}
	return qty, nil
}
