// Package apperr defines the error taxonomy shared by the store, services and surfaces.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrValidation    = errors.New("validation failed")
	ErrActiveSession = errors.New("a time tracking session is already open")
	ErrFileStorage   = errors.New("file storage failure")
)

// ValidationError reports a rejected write. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Entity string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Entity, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid wraps err as a ValidationError for entity. A nil err yields nil.
func Invalid(entity string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Entity: entity, Err: err}
}
