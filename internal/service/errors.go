package service

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every error caused by rejected user input.
var ErrValidation = errors.New("validation failed")

// ValidationError reports which input field was rejected. Nothing is
// written when a command fails validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
