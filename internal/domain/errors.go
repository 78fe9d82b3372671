package domain

import (
	"errors"
	"strings"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = errors.New("not found")
	ErrInsufficientInventory = errors.New("insufficient_inventory")
	ErrStorage               = errors.New("storage unavailable")
)

// ValidationError describes one bad input field.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// InsufficientInventoryError carries one detail line per offending item id.
type InsufficientInventoryError struct {
	Details []string
}

func (e *InsufficientInventoryError) Error() string {
	return ErrInsufficientInventory.Error() + ": " + strings.Join(e.Details, "; ")
}

func (e *InsufficientInventoryError) Unwrap() error {
	return ErrInsufficientInventory
}
