package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a product or customer lookup misses
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock is returned when an order asks for more than is in stock
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidQuantity is returned when an order quantity is not positive
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrDuplicateID is returned when unique identifiers are enforced and an id is reused
	ErrDuplicateID = errors.New("duplicate identifier")
	// ErrCorruptRecord is returned when a persisted record cannot be parsed
	ErrCorruptRecord = errors.New("corrupt record")
)

// RecordError describes a malformed line in a persisted file
type RecordError struct {
	File   string
	Line   int
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s:%d: corrupt record: %s", e.File, e.Line, e.Reason)
}

// Unwrap lets errors.Is match ErrCorruptRecord
func (e *RecordError) Unwrap() error {
	return ErrCorruptRecord
}

// Corrupt builds a RecordError
func Corrupt(file string, line int, format string, args ...interface{}) error {
	return &RecordError{File: file, Line: line, Reason: fmt.Sprintf(format, args...)}
}
