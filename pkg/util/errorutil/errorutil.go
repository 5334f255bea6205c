package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Stable error codes surfaced to clients. Callers branch on these codes (or
// on the helper predicates below), never on message text.
const (
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeRateLimited       = "RATE_LIMITED"
	CodeReferenceNotFound = "REFERENCE_NOT_FOUND"
	CodeSequenceConflict  = "SEQUENCE_CONFLICT"
	CodeTransactionFailed = "TRANSACTION_FAILED"
	CodeNotFound          = "NOT_FOUND"
	CodeInternal          = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

// NewRateLimited reports a fixed-window denial. retryAfter is the remaining
// window; it is exposed in details as whole seconds (rounded up so clients
// never retry early).
func NewRateLimited(retryAfter time.Duration) error {
	seconds := int64((retryAfter + time.Second - 1) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return NewDomainError(CodeRateLimited, "rate limit exceeded", http.StatusTooManyRequests, map[string]any{
		"retry_after": seconds,
	})
}

func NewReferenceNotFound(resource, message string) error {
	return NewDomainError(CodeReferenceNotFound, message, http.StatusUnprocessableEntity, map[string]any{
		"resource": resource,
	})
}

// NewSequenceConflict reports exhausted ticket-number allocation retries.
func NewSequenceConflict(attempts int) error {
	return NewDomainError(CodeSequenceConflict, "could not allocate a ticket number, please retry", http.StatusServiceUnavailable, map[string]any{
		"attempts": attempts,
	})
}

func NewTransactionFailed(err error) error {
	return &DomainError{
		Code:       CodeTransactionFailed,
		Message:    "submission could not be recorded",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err is a DomainError with the given code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

// RetryAfter extracts the retry delay from a RATE_LIMITED error, in seconds.
func RetryAfter(err error) (int64, bool) {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != CodeRateLimited {
		return 0, false
	}
	seconds, ok := domainErr.Details["retry_after"].(int64)
	return seconds, ok
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
