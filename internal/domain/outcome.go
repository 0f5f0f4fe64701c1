package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status terminal state of an executed operation.
type Status int

const (
	// StatusCommitted the backend confirmed the operation and local state
	// was overwritten with the authoritative values.
	StatusCommitted Status = iota
	// StatusRejected a precondition failed; no state was mutated.
	StatusRejected
	// StatusRolledBack the backend rejected the operation or the request
	// failed; local state was restored to the pre-operation snapshot.
	StatusRolledBack
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusCommitted:
		return "committed"
	case StatusRejected:
		return "rejected"
	case StatusRolledBack:
		return "rolled back"
	default:
		return "unknown"
	}
}

// Outcome final result of an operation delivered to the caller.
// Every submitted intent resolves to exactly one Outcome; no error
// escapes an in-flight operation without the stores first being
// restored to a consistent snapshot.
type Outcome struct {
	// OperationID client-generated id of the operation.
	OperationID string
	// Intent the operation as requested.
	Intent Intent
	// Status terminal state.
	Status Status
	// Err reason for rejection or rollback, nil when committed.
	Err error
	// Balance server-confirmed cash balance, valid only when committed.
	Balance decimal.Decimal
	// Holding server-confirmed share quantity for the intent's ticker,
	// valid only when committed and the intent was a buy or sell.
	Holding decimal.Decimal
	// ResolvedAt time the operation reached its terminal state.
	ResolvedAt time.Time
}

// Committed reports whether the operation was confirmed by the backend.
func (o Outcome) Committed() bool { return o.Status == StatusCommitted }
