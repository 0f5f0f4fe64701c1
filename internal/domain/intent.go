package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind of a ledger operation.
type Kind int

const (
	// KindDeposit adds cash to the wallet.
	KindDeposit Kind = iota
	// KindWithdraw removes cash from the wallet.
	KindWithdraw
	// KindBuy exchanges cash for shares at the current quote.
	KindBuy
	// KindSell exchanges shares for cash at the current quote.
	KindSell
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindWithdraw:
		return "withdraw"
	case KindBuy:
		return "buy"
	case KindSell:
		return "sell"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Intent a requested ledger operation, not yet validated or applied.
type Intent struct {
	// Kind operation kind.
	Kind Kind
	// Ticker instrument symbol, set only for buy/sell.
	Ticker string
	// Amount cash amount, set only for deposit/withdraw.
	Amount decimal.Decimal
	// Quantity share count, set only for buy/sell.
	Quantity decimal.Decimal
}

// String returns a human-readable string representation.
func (i Intent) String() string {
	switch i.Kind {
	case KindDeposit, KindWithdraw:
		return fmt.Sprintf("%s %s", i.Kind, i.Amount.StringFixed(CurrencyScale))
	default:
		return fmt.Sprintf("%s %s x %s", i.Kind, i.Quantity.String(), i.Ticker)
	}
}

// DepositIntent builds a deposit intent.
func DepositIntent(amount decimal.Decimal) Intent {
	return Intent{Kind: KindDeposit, Amount: amount}
}

// WithdrawIntent builds a withdraw intent.
func WithdrawIntent(amount decimal.Decimal) Intent {
	return Intent{Kind: KindWithdraw, Amount: amount}
}

// BuyIntent builds a buy intent.
func BuyIntent(ticker string, quantity decimal.Decimal) Intent {
	return Intent{Kind: KindBuy, Ticker: ticker, Quantity: quantity}
}

// SellIntent builds a sell intent.
func SellIntent(ticker string, quantity decimal.Decimal) Intent {
	return Intent{Kind: KindSell, Ticker: ticker, Quantity: quantity}
}
