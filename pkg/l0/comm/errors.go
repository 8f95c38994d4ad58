package comm

import (
	"errors"
	"fmt"
)

var (
	// ErrPayloadSize indicates the payload doesn't match the frame size.
	ErrPayloadSize = errors.New("payload size mismatch")
	// ErrInvalidSize indicates a parser configured with a non-positive size.
	ErrInvalidSize = errors.New("invalid payload size")
)

// SizeError reports a payload with unexpected length.
type SizeError struct {
	Expected int
	Actual   int
}

// Error implements error.
func (e *SizeError) Error() string {
	return fmt.Sprintf("payload size %d, expect %d", e.Actual, e.Expected)
}

// Unwrap makes errors.Is(err, ErrPayloadSize) work.
func (e *SizeError) Unwrap() error {
	return ErrPayloadSize
}
