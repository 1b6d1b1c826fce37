package domain

import (
	"errors"
	"fmt"
)

// Sentinels used to classify failures with errors.Is. The typed errors below
// match their sentinel so callers rarely need errors.As.
var (
	ErrEmptyField = errors.New("empty field")
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// EmptyFieldError reports a required field that is missing or blank.
type EmptyFieldError struct {
	Field string
}

func (e *EmptyFieldError) Error() string {
	return fmt.Sprintf("field '%s' must not be empty", e.Field)
}

func (e *EmptyFieldError) Is(target error) bool {
	return target == ErrEmptyField
}

// ValidationError reports a value that is present but out of range or malformed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports a lookup by identifier that yielded no record.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConflictError reports a uniqueness or referential rule violation.
type ConflictError struct {
	Resource string
	Field    string
	Value    string
	Message  string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s with %s %s already exists", e.Resource, e.Field, e.Value)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// IsClientError reports whether err stems from bad input rather than a fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmptyField) || errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict)
}
