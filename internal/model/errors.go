package model

import (
	"errors"
	"fmt"
)

// Validation error kinds. Match with errors.Is against a *ValidationError.
var (
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownField    = errors.New("unknown field")
	ErrEmptyPeriod     = errors.New("period key is empty")
	ErrInvalidAmount   = errors.New("invalid amount")
)

// ValidationError reports a rejected input together with the field or
// category name that caused it.
type ValidationError struct {
	Kind error
	Name string
}

func (e *ValidationError) Error() string {
	if e.Name == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %q", e.Kind, e.Name)
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// NegativeAmount returns the error for a negative write to field.
func NegativeAmount(field string) error {
	return &ValidationError{Kind: ErrNegativeAmount, Name: field}
}

// UnknownCategory returns the error for an outflow name that matches nothing.
func UnknownCategory(name string) error {
	return &ValidationError{Kind: ErrUnknownCategory, Name: name}
}

// UnknownField returns the error for a write to a field outside the schema.
func UnknownField(name string) error {
	return &ValidationError{Kind: ErrUnknownField, Name: name}
}
