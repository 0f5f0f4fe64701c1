package domain

import "time"

// Receipt journalled record of a committed operation.
// Decimal values are stored as strings to survive JSON round-trips
// without precision loss.
type Receipt struct {
	OperationID  string    `json:"operation_id"`
	UserID       string    `json:"user_id"`
	Kind         string    `json:"kind"`
	Ticker       string    `json:"ticker,omitempty"`
	Quantity     string    `json:"quantity,omitempty"`
	Amount       string    `json:"amount,omitempty"`
	BalanceAfter string    `json:"balance_after"`
	ResolvedAt   time.Time `json:"resolved_at"`
}

// ReceiptRecord bundles a receipt with its journal index.
type ReceiptRecord struct {
	Index   uint64
	Receipt Receipt
}
