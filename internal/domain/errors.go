package domain

import "errors"

// Sentinel errors for malformed input. They are precondition violations, not
// transient failures: callers should fix the input rather than retry.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrEmptySeries         = errors.New("empty series")
	ErrUnknownRegion       = errors.New("unknown region")
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrMisalignedSeries    = errors.New("misaligned series")
)
