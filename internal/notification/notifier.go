// Package notification delivers human-readable operation outcomes to
// the user. Notification is best-effort and not part of the ledger's
// correctness contract.
package notification

import (
	"go.uber.org/zap"

	"github.com/orbitalfinances/orbital/internal/domain"
)

// Notifier receives operation outcomes for display.
type Notifier interface {
	OperationResolved(outcome domain.Outcome)
}

// LogNotifier reports outcomes through a zap logger.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier backed by the given logger.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// OperationResolved logs the outcome at a level matching its status.
func (n *LogNotifier) OperationResolved(outcome domain.Outcome) {
	fields := []zap.Field{
		zap.String("operation_id", outcome.OperationID),
		zap.String("intent", outcome.Intent.String()),
		zap.String("status", outcome.Status.String()),
	}

	switch outcome.Status {
	case domain.StatusCommitted:
		fields = append(fields, zap.String("balance", outcome.Balance.StringFixed(domain.CurrencyScale)))
		n.logger.Info("operation committed", fields...)
	default:
		fields = append(fields, zap.Error(outcome.Err))
		n.logger.Warn("operation failed", fields...)
	}
}

// NopNotifier discards all outcomes.
type NopNotifier struct{}

// OperationResolved does nothing.
func (NopNotifier) OperationResolved(domain.Outcome) {}
