package domain

import (
	"errors"
	"sort"
	"strings"
)

// Error kinds shared by every domain package. Specific errors wrap one of
// these so the HTTP boundary can map them without knowing each package.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrIncorrectSecret = errors.New("incorrect secret")
)

// ValidationError carries field level detail for rejected input.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}

	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Fields[key])
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Add records a field failure and returns the receiver for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
	return e
}

// Merge folds another validation error into e. Non-validation errors are
// returned unchanged so callers can propagate them.
func (e *ValidationError) Merge(err error) error {
	if err == nil {
		return nil
	}
	var other *ValidationError
	if !errors.As(err, &other) {
		return err
	}
	for field, message := range other.Fields {
		e.Add(field, message)
	}
	return nil
}

// OrNil returns nil when no field failed.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}
