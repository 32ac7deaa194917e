// Package shared contains the domain error taxonomy used by every domain
// package of the score tracker. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation    = errors.New("validation error")
	ErrInvalidID     = errors.New("invalid ID")
	ErrInvalidInput  = errors.New("invalid input")
	ErrEmptyValue    = errors.New("value cannot be empty")
	ErrNegativeValue = errors.New("value cannot be negative")
	ErrOutOfRange    = errors.New("value out of range")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")

	// Infrastructure errors
	ErrExternalService = errors.New("external service error")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g. "student", "activity", "persistence"
	Op      string // Operation that failed, e.g. "Add", "Undo"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching on the kind, the underlying error and
// the package-level sentinel values declared below.
func (e *DomainError) Is(target error) bool {
	if t, ok := target.(*DomainError); ok {
		return e.Domain == t.Domain && e.Op == t.Op && e.Kind == t.Kind
	}
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// WithMessage returns a copy of a sentinel DomainError carrying a specific
// message. The copy still matches the sentinel with errors.Is().
func (e *DomainError) WithMessage(format string, args ...any) *DomainError {
	c := *e
	c.Message = fmt.Sprintf(format, args...)
	return &c
}

// Student registry errors
var (
	ErrDuplicateID     = NewDomainError("student", "Add", ErrAlreadyExists, "Student ID already exists.")
	ErrStudentNotFound = NewDomainError("student", "Find", ErrNotFound, "Student not found!")
	ErrInvalidStudent  = NewDomainError("student", "Validate", ErrInvalidInput, "invalid student")
)

// Score errors
var (
	ErrDuplicateScore = NewDomainError("score", "Add", ErrAlreadyExists, "score already exists")
	ErrScoreNotFound  = NewDomainError("score", "Find", ErrNotFound, "score not found")
	ErrInvalidScore   = NewDomainError("score", "Validate", ErrInvalidInput, "invalid score")
)

// Activity errors
var (
	ErrNothingToUndo = NewDomainError("activity", "Pop", ErrNotFound, "No attempts to undo.")
	ErrUndoFailed    = NewDomainError("activity", "Undo", ErrNotFound, "Could not undo")
)

// Persistence errors
var (
	ErrPersistence = NewDomainError("persistence", "IO", ErrExternalService, "persistence failure")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrOutOfRange)
}

// Message extracts the human-readable message of a DomainError, falling back
// to err.Error() for anything else.
func Message(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
