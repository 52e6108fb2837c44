package errors

import (
	"errors"
	"fmt"
)

// RetrievalError is the structured error type for the retrieval service.
// It provides rich context for error handling, logging, and API responses.
type RetrievalError struct {
	// Code is the unique error code (e.g., "ERR_201_CORPUS_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Network, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool
}

// Error implements the error interface.
func (e *RetrievalError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *RetrievalError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with RetrievalError.
func (e *RetrievalError) Is(target error) bool {
	if t, ok := target.(*RetrievalError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *RetrievalError) WithDetail(key, value string) *RetrievalError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new RetrievalError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *RetrievalError {
	return &RetrievalError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Newf creates a new RetrievalError with a formatted message.
func Newf(code string, format string, args ...any) *RetrievalError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Wrap creates a RetrievalError from an existing error.
// The error's message becomes the RetrievalError message.
func Wrap(code string, err error) *RetrievalError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *RetrievalError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// ValidationError creates a request validation error.
func ValidationError(message string) *RetrievalError {
	return New(ErrCodeInvalidInput, message, nil)
}

// DependencyError creates a dependency-unavailable error.
func DependencyError(message string, cause error) *RetrievalError {
	return New(ErrCodeStoreUnavailable, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *RetrievalError {
	return New(ErrCodeInternal, message, cause)
}

// IsValidation reports whether err is a validation-category error.
// The CLI maps these to bad-request exits rather than failures.
func IsValidation(err error) bool {
	return GetCategory(err) == CategoryValidation
}

// IsDependency reports whether err is a dependency-category error.
// These surface as service-unavailable conditions, not crashes.
func IsDependency(err error) bool {
	return GetCategory(err) == CategoryDependency
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var re *RetrievalError
	if errors.As(err, &re) {
		return re.Retryable
	}
	return false
}

// GetCode extracts the error code, or empty string for foreign errors.
func GetCode(err error) string {
	var re *RetrievalError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// GetCategory extracts the category, or empty string for foreign errors.
func GetCategory(err error) Category {
	var re *RetrievalError
	if errors.As(err, &re) {
		return re.Category
	}
	return ""
}
