package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrInvalidDateFormat is returned for date parameters that are not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")
	// ErrInvertedRange is returned when a range ends before it starts.
	ErrInvertedRange = errors.New("start date is after end date")
	// ErrIdentifierExhausted is returned when no free slug suffix was found
	// within the configured attempt budget.
	ErrIdentifierExhausted = errors.New("identifier collision attempts exhausted")
)

// ValidationError represents a validation error in the domain
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// Unwrap exposes ErrValidation and the optional cause to errors.Is.
func (e ValidationError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrValidation, e.Cause}
	}
	return []error{ErrValidation}
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) ValidationError {
	return ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if an error is a validation error (including wrapped errors)
func IsValidationError(err error) bool {
	var validationErr ValidationError
	return errors.As(err, &validationErr)
}

// ConflictError represents a unique constraint or duplicate resource error
type ConflictError struct {
	Field   string
	Message string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Field, e.Message)
}

func (e ConflictError) Unwrap() error { return ErrConflict }

// NewConflictError constructs ConflictError
func NewConflictError(field, message string) ConflictError {
	return ConflictError{Field: field, Message: message}
}

// IsConflictError checks if error is ConflictError
func IsConflictError(err error) bool {
	var ce ConflictError
	return errors.As(err, &ce)
}

// IsSlugConflict reports whether err is a conflict on a slug column.
func IsSlugConflict(err error) bool {
	var ce ConflictError
	return errors.As(err, &ce) && ce.Field == "slug"
}

// NotFoundError represents a missing resource
type NotFoundError struct {
	Field   string
	Message string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("not found %s: %s", e.Field, e.Message)
}

func (e NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError constructs NotFoundError
func NewNotFoundError(field, message string) NotFoundError {
	return NotFoundError{Field: field, Message: message}
}

// IsNotFoundError checks if error is NotFoundError
func IsNotFoundError(err error) bool {
	var ne NotFoundError
	return errors.As(err, &ne)
}

// AuthError is returned when the caller could not be authenticated.
type AuthError struct {
	Message string
}

func (e AuthError) Error() string { return "authentication failed: " + e.Message }

func (e AuthError) Unwrap() error { return ErrUnauthorized }

// ForbiddenError is returned when an authenticated caller touches a resource it
// does not own.
type ForbiddenError struct {
	Resource string
}

func (e ForbiddenError) Error() string { return "access denied to " + e.Resource }

func (e ForbiddenError) Unwrap() error { return ErrForbidden }
