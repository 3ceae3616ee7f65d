// Package shared contains common domain types, errors, and events that are
// used across all domain packages. This package has zero external dependencies.
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
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState         = errors.New("invalid state")
	ErrAlreadyProcessed     = errors.New("already processed")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrNoActiveSession      = errors.New("no active session")
	ErrSessionAlreadyActive = errors.New("session already active")

	// Store errors
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrSerialization    = errors.New("serialization failed")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "progression", "session", "catalog"
	Op      string // Operation that failed, e.g., "Signup", "Redeem"
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

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
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

// Progression domain errors
var (
	ErrRecordNotFound  = NewDomainError("progression", "Load", ErrNotFound, "progression record not found")
	ErrInvalidName     = NewDomainError("progression", "Validate", ErrEmptyValue, "name is required")
	ErrInvalidEmail    = NewDomainError("progression", "Validate", ErrEmptyValue, "email is required")
	ErrInvalidPassword = NewDomainError("progression", "Validate", ErrValueOutOfRange, "password must be at least 6 characters")
	ErrInvalidRole     = NewDomainError("progression", "Validate", ErrInvalidInput, "invalid role")
	ErrInvalidProgram  = NewDomainError("progression", "Validate", ErrInvalidInput, "invalid program")
)

// Session domain errors
var (
	ErrLoginUnknownEmail = NewDomainError("session", "Login", ErrNotFound, "no record exists for this email")
)

// Catalog domain errors
var (
	ErrRewardNotFound   = NewDomainError("catalog", "FindReward", ErrNotFound, "reward not found")
	ErrResourceNotFound = NewDomainError("catalog", "FindResource", ErrNotFound, "resource not found")
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
		errors.Is(err, ErrValueOutOfRange)
}

// IsInsufficientBalance checks if the error is a balance error.
func IsInsufficientBalance(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}
