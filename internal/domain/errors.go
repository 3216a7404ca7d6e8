package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuote marks malformed pricing input (bad range, negative
	// headcount). Caller bug, not retryable.
	ErrInvalidQuote = errors.New("invalid quote input")
	// ErrNotApplicable marks a rejected discount code. The caller should
	// re-quote without a discount and surface the reason.
	ErrNotApplicable = errors.New("discount code not applicable")
	// ErrInvalidTransition marks an illegal reservation state change.
	ErrInvalidTransition = errors.New("invalid reservation state transition")
	// ErrGatewayUnavailable marks a payment provider that could not be
	// reached. Retry with backoff; never confirm silently.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrNotFound marks a missing reservation, unit or token.
	ErrNotFound = errors.New("not found")
)

// ConflictError reports that a unit is already occupied for the requested
// dates. It carries the blocking reservation's range so the caller can show
// it to the user instead of a generic failure.
type ConflictError struct {
	UnitID   int32  `json:"unit_id"`
	From     string `json:"from"`
	To       string `json:"to"`
	Blocking string `json:"blocking_code,omitempty"` // public code of the blocking reservation
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("unit %d unavailable: occupied %s to %s", e.UnitID, e.From, e.To)
}

// IsConflict reports whether err is a ConflictError and returns it.
func IsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
