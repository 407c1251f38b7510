package cgt

import (
	"errors"
	"fmt"

	"github.com/etnz/cgt/date"
)

var (
	// ErrValidation reports a malformed value rejected at construction time.
	ErrValidation = errors.New("validation error")
	// ErrInvalidTaxYear reports an unknown or malformed tax year label.
	ErrInvalidTaxYear = errors.New("invalid tax year")
	// ErrInsufficientPool reports a disposal that exceeds the tracked holdings.
	ErrInsufficientPool = errors.New("insufficient pool")
	// ErrUnmatchedDisposal reports a sell that could not be fully matched against buys.
	ErrUnmatchedDisposal = errors.New("unmatched disposal")
)

// validationErrorf returns an error wrapping ErrValidation.
func validationErrorf(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, a...))
}

// InsufficientPoolError is returned when a pool is asked to release more than it holds.
type InsufficientPoolError struct {
	Pool      string // security identifier or currency code
	On        date.Date
	Requested Quantity
	Available Quantity
}

func (e *InsufficientPoolError) Error() string {
	msg := fmt.Sprintf("%v: %s requested %s, available %s (shortfall %s)",
		ErrInsufficientPool, e.Pool, e.Requested, e.Available, e.Shortfall())
	if !e.On.IsZero() {
		msg += " on " + e.On.String()
	}
	return msg
}

// Shortfall is the quantity missing from the pool.
func (e *InsufficientPoolError) Shortfall() Quantity { return e.Requested.Sub(e.Available) }

func (e *InsufficientPoolError) Unwrap() error { return ErrInsufficientPool }

// UnmatchedDisposalError is returned by the matcher when a sell exceeds every
// acquisition it can be matched against.
type UnmatchedDisposalError struct {
	Security  string
	On        date.Date
	Requested Quantity
	Matched   Quantity
}

func (e *UnmatchedDisposalError) Error() string {
	return fmt.Sprintf("%v: %s sold %s on %s, only %s matched",
		ErrUnmatchedDisposal, e.Security, e.Requested, e.On, e.Matched)
}

// Unwrap lets the error match both ErrUnmatchedDisposal and ErrInsufficientPool:
// the sell exceeds the holdings available to it.
func (e *UnmatchedDisposalError) Unwrap() []error {
	return []error{ErrUnmatchedDisposal, ErrInsufficientPool}
}
