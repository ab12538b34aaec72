package shared

import (
	"errors"
	"fmt"
)

// Error codes understood by every layer
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeTransaction      = "TRANSACTION_FAILED"
	CodeTransient        = "STORE_UNAVAILABLE"
	CodeDuplicateRequest = "DUPLICATE_REQUEST"
	CodeInvalidState     = "INVALID_STATE"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Field names the offending input for validation errors
	Field string `json:"field,omitempty"`
	cause error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a DomainError with the same code.
// This lets callers write errors.Is(err, shared.ErrNotFound) for any not-found error.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error for the given input field
func NewValidationError(field, message string) *DomainError {
	return &DomainError{
		Code:    CodeValidation,
		Message: message,
		Field:   field,
	}
}

// NewNotFoundError creates a not-found error for the named resource
func NewNotFoundError(resource string) *DomainError {
	return &DomainError{
		Code:    CodeNotFound,
		Message: resource + " not found",
	}
}

// NewTransactionError wraps a failure that aborted an atomic write
func NewTransactionError(cause error) *DomainError {
	return &DomainError{
		Code:    CodeTransaction,
		Message: "transaction could not be committed",
		cause:   cause,
	}
}

// NewTransientError wraps a failure to reach the underlying store
func NewTransientError(cause error) *DomainError {
	return &DomainError{
		Code:    CodeTransient,
		Message: "store unavailable",
		cause:   cause,
	}
}

// Common domain errors
var (
	ErrNotFound         = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput     = NewDomainError(CodeValidation, "Invalid input provided")
	ErrTransaction      = NewDomainError(CodeTransaction, "Transaction could not be committed")
	ErrTransient        = NewDomainError(CodeTransient, "Store unavailable")
	ErrDuplicateRequest = NewDomainError(CodeDuplicateRequest, "Request was already processed")
	ErrInvalidState     = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
)

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsTransaction reports whether err is a transaction error
func IsTransaction(err error) bool { return errors.Is(err, ErrTransaction) }

// IsTransient reports whether err is a transient store error
func IsTransient(err error) bool { return errors.Is(err, ErrTransient) }

// AsDomainError extracts the DomainError from err, if any
func AsDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}
