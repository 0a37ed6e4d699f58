package apify

import "fmt"

// ErrorType categorizes different types of Apify client errors
type ErrorType string

const (
	ErrorTypeRunStart        ErrorType = "run_start"
	ErrorTypeDatasetFetch    ErrorType = "dataset_fetch"
	ErrorTypeNetwork         ErrorType = "network"
	ErrorTypeInvalidResponse ErrorType = "invalid_response"
	ErrorTypeUnauthorized    ErrorType = "unauthorized"
)

// Error represents a structured error from the Apify API client
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable returns true if the error is likely to succeed on retry
func (e *Error) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork:
		return true
	default:
		return false
	}
}

func newRunStartError(message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeRunStart,
		Message: message,
		Cause:   cause,
	}
}

func newDatasetFetchError(message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeDatasetFetch,
		Message: message,
		Cause:   cause,
	}
}

func newNetworkError(cause error) *Error {
	return &Error{
		Type:    ErrorTypeNetwork,
		Message: "network error",
		Cause:   cause,
	}
}

func newInvalidResponseError(message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeInvalidResponse,
		Message: message,
		Cause:   cause,
	}
}

func newUnauthorizedError() *Error {
	return &Error{
		Type:    ErrorTypeUnauthorized,
		Message: "invalid or missing API token",
	}
}
