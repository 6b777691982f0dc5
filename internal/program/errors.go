package program

import (
	"fmt"
	"strings"
)

// The engine never swallows a rejection: every error below carries the
// specific failing rule or amounts so the caller can surface them.

// ValidationError reports the full list of failing field rules.
type ValidationError struct {
	Rules []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Rules, "; ")
}

// EligibilityError reports the disqualifying rule.
type EligibilityError struct {
	Reason string
}

func (e *EligibilityError) Error() string {
	return "not eligible: " + e.Reason
}

// RateLimitError reports the exhausted daily quota and when it resets.
type RateLimitError struct {
	Subtype         string
	Quota           int
	HoursUntilReset int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("daily quota of %d reached for %s, resets in %dh", e.Quota, e.Subtype, e.HoursUntilReset)
}

// InsufficientBalanceError cites both amounts. Nothing is debited.
type InsufficientBalanceError struct {
	Current  int
	Required int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %d, need %d", e.Current, e.Required)
}

// AuthorizationError reports an actor acting outside their role. No state
// changes.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return "not authorized: " + e.Reason
}

// TransitionError reports an attempt to leave a terminal state or skip a
// step in the workflow.
type TransitionError struct {
	Kind string
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s cannot move from %s to %s", e.Kind, e.From, e.To)
}

// NotFoundError reports a missing entry.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// ConcurrencyConflictError is retryable: a concurrent writer held the
// ledger past the retry budget. The caller should re-fetch the balance and
// re-offer the action.
type ConcurrencyConflictError struct {
	Err error
}

func (e *ConcurrencyConflictError) Error() string {
	return "concurrent ledger write conflict: " + e.Err.Error()
}

func (e *ConcurrencyConflictError) Unwrap() error { return e.Err }

// StoreUnavailableError is transient: the store did not confirm the write,
// so no entry is considered created. Retry with backoff.
type StoreUnavailableError struct {
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return "ledger store unavailable: " + e.Err.Error()
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }
