package model

import (
	"errors"
	"fmt"
)

var (
	// ErrItemNotFound is returned when an item is missing or tombstoned.
	ErrItemNotFound = errors.New("item not found")

	// ErrInsufficientStock is returned when a sale exceeds the current quantity.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidDelta is returned for a zero stock change.
	ErrInvalidDelta = errors.New("quantity change must not be zero")

	// ErrValidation marks input rejected before touching storage.
	ErrValidation = errors.New("validation failed")

	// ErrStorage marks a failed read or write against the local store.
	ErrStorage = errors.New("storage error")
)

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// StockError carries the figures behind an ErrInsufficientStock rejection.
type StockError struct {
	ItemID    string
	Available int
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%s: item %s has %d units, %d requested", ErrInsufficientStock, e.ItemID, e.Available, e.Requested)
}

func (e *StockError) Unwrap() error {
	return ErrInsufficientStock
}
