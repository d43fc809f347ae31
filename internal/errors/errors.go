// Package errors provides the generic error categories shared by every layer.
// Domain packages wrap these categories with their own sentinels so callers can
// match either the precise failure or its broad class with errors.Is.
package errors

import (
	"errors"
	"fmt"
)

// Generic error categories.
var (
	// ErrNotFound indicates the requested item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the operation collides with existing state.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the caller supplied malformed or rejected input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden indicates the underlying store refused access.
	ErrForbidden = errors.New("forbidden")

	// ErrInternal indicates a failure of an underlying primitive or device.
	ErrInternal = errors.New("internal error")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
