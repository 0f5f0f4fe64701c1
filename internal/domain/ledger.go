package domain

import "github.com/shopspring/decimal"

// Balance cash balance of a user's wallet.
// The backend is the source of truth; the local copy is a cache reconciled
// after every operation.
type Balance struct {
	UserID string
	Amount decimal.Decimal
}

// Holding quantity of an instrument owned by a user.
type Holding struct {
	UserID   string
	Ticker   string
	Quantity decimal.Decimal
}
