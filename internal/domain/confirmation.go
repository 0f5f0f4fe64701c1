package domain

import "github.com/shopspring/decimal"

// Confirmation authoritative post-operation state returned by the
// backend. Committed operations overwrite local caches with these
// values rather than trusting the optimistic delta, so server-side
// fees, rounding or concurrent mutations are absorbed.
type Confirmation struct {
	// Balance post-operation cash balance.
	Balance decimal.Decimal
	// Holding post-operation share quantity for the traded ticker.
	Holding decimal.Decimal
	// HoldingKnown true when the response carried a holding quantity
	// (trade operations); wallet operations only confirm the balance.
	HoldingKnown bool
}
