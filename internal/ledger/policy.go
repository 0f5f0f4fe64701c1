package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/orbitalfinances/orbital/internal/domain"
)

// Delta tentative local mutation computed for an intent. Balance and
// Holding are signed adjustments relative to the pre-operation snapshot.
type Delta struct {
	Balance decimal.Decimal
	Holding decimal.Decimal
}

// ComputeDelta validates an intent against the pre-operation snapshot and
// returns the tentative delta to apply before network confirmation.
//
// Preconditions are checked against the snapshot, never against a store
// read taken later. Any failure returns a PreconditionError naming the
// violated rule and no delta.
func ComputeDelta(intent domain.Intent, snap Snapshot, quote domain.Quote, quoteKnown bool) (Delta, error) {
	switch intent.Kind {
	case domain.KindDeposit:
		if intent.Amount.LessThanOrEqual(decimal.Zero) {
			return Delta{}, domain.NewPreconditionError(domain.RuleNonPositiveAmount,
				"deposit amount %s", intent.Amount.String())
		}
		return Delta{Balance: intent.Amount}, nil

	case domain.KindWithdraw:
		if intent.Amount.LessThanOrEqual(decimal.Zero) {
			return Delta{}, domain.NewPreconditionError(domain.RuleNonPositiveAmount,
				"withdraw amount %s", intent.Amount.String())
		}
		if intent.Amount.GreaterThan(snap.Balance) {
			return Delta{}, domain.NewPreconditionError(domain.RuleInsufficientFunds,
				"withdraw %s exceeds balance %s", intent.Amount.String(), snap.Balance.String())
		}
		return Delta{Balance: intent.Amount.Neg()}, nil

	case domain.KindBuy:
		if intent.Quantity.LessThanOrEqual(decimal.Zero) {
			return Delta{}, domain.NewPreconditionError(domain.RuleNonPositiveAmount,
				"buy quantity %s", intent.Quantity.String())
		}
		if !quoteKnown || quote.Price.LessThanOrEqual(decimal.Zero) {
			return Delta{}, domain.NewPreconditionError(domain.RuleMissingQuote,
				"no usable quote for %s", intent.Ticker)
		}
		cost := intent.Quantity.Mul(quote.Price)
		if cost.GreaterThan(snap.Balance) {
			return Delta{}, domain.NewPreconditionError(domain.RuleInsufficientFunds,
				"cost %s exceeds balance %s", cost.String(), snap.Balance.String())
		}
		return Delta{Balance: cost.Neg(), Holding: intent.Quantity}, nil

	case domain.KindSell:
		if intent.Quantity.LessThanOrEqual(decimal.Zero) {
			return Delta{}, domain.NewPreconditionError(domain.RuleNonPositiveAmount,
				"sell quantity %s", intent.Quantity.String())
		}
		if !quoteKnown || quote.Price.LessThanOrEqual(decimal.Zero) {
			return Delta{}, domain.NewPreconditionError(domain.RuleMissingQuote,
				"no usable quote for %s", intent.Ticker)
		}
		if intent.Quantity.GreaterThan(snap.Holding) {
			return Delta{}, domain.NewPreconditionError(domain.RuleInsufficientShares,
				"sell %s exceeds holding %s of %s", intent.Quantity.String(), snap.Holding.String(), intent.Ticker)
		}
		proceeds := intent.Quantity.Mul(quote.Price)
		return Delta{Balance: proceeds, Holding: intent.Quantity.Neg()}, nil

	default:
		return Delta{}, domain.NewPreconditionError(domain.RuleNonPositiveAmount,
			"unknown operation kind %s", intent.Kind)
	}
}

// Apply writes the delta on top of the snapshot values.
func (d Delta) Apply(snap Snapshot, balances *BalanceStore, holdings *HoldingStore) {
	balances.Set(snap.UserID, snap.Balance.Add(d.Balance))
	if snap.Ticker != "" {
		holdings.Set(snap.UserID, snap.Ticker, snap.Holding.Add(d.Holding))
	}
}
