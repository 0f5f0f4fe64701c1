package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote last known market price for an instrument.
type Quote struct {
	// Ticker instrument symbol, e.g. AAPL.
	Ticker string
	// Name company name.
	Name string
	// Price last known price in quote currency.
	Price decimal.Decimal
	// AsOf time the price was observed.
	AsOf time.Time
}
