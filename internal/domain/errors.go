package domain

import (
	"errors"
	"fmt"
)

// Precondition rules checked before any state mutation.
const (
	RuleInsufficientFunds  = "insufficient funds"
	RuleInsufficientShares = "insufficient shares"
	RuleNonPositiveAmount  = "non-positive amount"
	RuleMissingQuote       = "missing quote"
	RuleNotAuthenticated   = "not authenticated"
)

// ErrBusy is returned when the operation queue for a user is full.
var ErrBusy = errors.New("another operation is in flight, try again")

// PreconditionError reports an intent rejected before any mutation.
// The violated rule is always one of the Rule* constants.
type PreconditionError struct {
	Rule   string
	Detail string
}

func (e *PreconditionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("precondition failed: %s", e.Rule)
	}
	return fmt.Sprintf("precondition failed: %s (%s)", e.Rule, e.Detail)
}

// NewPreconditionError builds a PreconditionError for the given rule.
func NewPreconditionError(rule, format string, args ...any) *PreconditionError {
	return &PreconditionError{Rule: rule, Detail: fmt.Sprintf(format, args...)}
}

// BackendError reports a non-success response from the backend.
// Message carries the backend-provided reason when present.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// NetworkError reports a request that never produced a backend response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ConsistencyError reports a structurally unusable backend response,
// e.g. a confirmation payload missing the balance field. The operation
// must not commit on such a response.
type ConsistencyError struct {
	Field  string
	Reason string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("unusable backend response: field %q %s", e.Field, e.Reason)
}
