package bookcatalog

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode enumerates the kinds of domain failures a catalog operation can report.
type ErrorCode string

const (
	ErrorCodeValidation       ErrorCode = "VALIDATION_ERROR"
	ErrorCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	ErrorCodeInternal         ErrorCode = "INTERNAL_ERROR"
	ErrorCodeTimeout          ErrorCode = "TIMEOUT_ERROR"
)

// DomainError is the single error type raised at the catalog boundary.
//
// Field carries a dotted path identifying the offending input attribute
// (e.g. "pricing.retailPrice") and is empty when no single field is to blame.
type DomainError struct {
	Message string
	Code    ErrorCode
	Field   string
}

func (e *DomainError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError creates a DomainError tagged with the offending field path.
func NewValidationError(message string, field string) *DomainError {
	return &DomainError{Message: message, Code: ErrorCodeValidation, Field: field}
}

// NewNotFoundError creates a DomainError for a missing record, always tagged with field "id".
func NewNotFoundError(message string) *DomainError {
	return &DomainError{Message: message, Code: ErrorCodeNotFound, Field: "id"}
}

// NewPermissionDeniedError creates a DomainError for a rejected authorization check.
func NewPermissionDeniedError(message string) *DomainError {
	return &DomainError{Message: message, Code: ErrorCodePermissionDenied}
}

// NewTimeoutError creates a DomainError for a caller-imposed deadline or cancellation.
func NewTimeoutError(message string) *DomainError {
	return &DomainError{Message: message, Code: ErrorCodeTimeout}
}

// NewInternalError wraps an unexpected failure, preserving the original message.
func NewInternalError(err error) *DomainError {
	return &DomainError{Message: err.Error(), Code: ErrorCodeInternal}
}

// AsDomainError unwraps err into a DomainError if one is in its chain.
func AsDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}

	return nil, false
}

// StatusCodeFor maps an ErrorCode to its transport status code.
// It is total over the enumerated codes; unmapped codes fall back to 500.
func StatusCodeFor(code ErrorCode) int {
	switch code {
	case ErrorCodeValidation:
		return http.StatusBadRequest
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodePermissionDenied:
		return http.StatusForbidden
	case ErrorCodeTimeout:
		return http.StatusRequestTimeout
	case ErrorCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
