package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a referenced id does not resolve to a
	// row owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when an operation is attempted without a
	// valid session.
	ErrUnauthorized = errors.New("unauthorized")
)

// UniqueRule identifies which uniqueness constraint fired at the store.
type UniqueRule string

const (
	UniquePeriod UniqueRule = "PERIOD"
	UniqueEmail  UniqueRule = "EMAIL"
	UniquePhone  UniqueRule = "PHONE"
)

// ConstraintViolation signals that a store uniqueness rule was broken.
// The Rule names which one, so the shell can surface a message that says
// more than "constraint violated".
type ConstraintViolation struct {
	Rule UniqueRule
}

func (e *ConstraintViolation) Error() string {
	switch e.Rule {
	case UniquePeriod:
		return "a record for this month already exists"
	case UniqueEmail:
		return "this email is already registered"
	case UniquePhone:
		return "this phone number is already registered"
	default:
		return "uniqueness constraint violated"
	}
}

// StoreError wraps a transport or backend failure that is not otherwise
// classified. The core performs no automatic retry on these.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ValidationKind classifies why a field was rejected.
type ValidationKind string

const (
	ValidationRequired   ValidationKind = "REQUIRED"
	ValidationRange      ValidationKind = "RANGE"
	ValidationFutureDate ValidationKind = "FUTURE_DATE"
)

// ValidationError describes a single rejected field. Validation failures are
// resolved locally and never reach the store.
type ValidationError struct {
	Field   string
	Kind    ValidationKind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationResult aggregates every rule failure for a candidate so the form
// can show them all at once.
type ValidationResult struct {
	Errors []*ValidationError
}

// OK reports whether every rule passed.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Add appends a failure to the result.
func (r *ValidationResult) Add(field string, kind ValidationKind, message string) {
	r.Errors = append(r.Errors, &ValidationError{Field: field, Kind: kind, Message: message})
}

// Err returns the result as an error, or nil when every rule passed.
func (r ValidationResult) Err() error {
	if r.OK() {
		return nil
	}
	return &r
}

func (r *ValidationResult) Error() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// HasKind reports whether any failure in the result has the given kind.
func (r ValidationResult) HasKind(kind ValidationKind) bool {
	for _, e := range r.Errors {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
