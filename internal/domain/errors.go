package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPattern signals a query that does not compile to a usable pattern.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrIndexOutOfRange signals a navigation request outside the current match set.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrUnsupportedCapability signals an absent host highlight capability.
	ErrUnsupportedCapability = errors.New("highlight capability not supported")
	// ErrSessionNotFound signals a missing search session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionClosed signals an operation on a torn-down session.
	ErrSessionClosed = errors.New("session closed")
	// ErrEmptyDocument signals a document with no searchable content root.
	ErrEmptyDocument = errors.New("empty document")
)

// PatternError wraps ErrInvalidPattern with the reason a pattern was rejected.
type PatternError struct {
	Pattern string
	Reason  string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidPattern.Error(), e.Reason)
}

func (e *PatternError) Unwrap() error { return ErrInvalidPattern }

// NewPatternError creates a pattern rejection error.
func NewPatternError(pattern, reason string) error {
	return &PatternError{Pattern: pattern, Reason: reason}
}
