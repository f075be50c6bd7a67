package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorRequest  = 3   // Indicates a failed backend request.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// NetworkError reports a request that never produced an HTTP response:
// connection refused, DNS failure, timeout, or cancellation.
type NetworkError struct {
	// Endpoint is the logical path of the request (e.g. "/reverser").
	Endpoint string
	// Cause is the transport error returned by the HTTP client.
	Cause error
}

// Error returns a message naming the endpoint and the transport failure.
func (e NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Cause)
}

// Unwrap returns the transport error.
func (e NetworkError) Unwrap() error { return e.Cause }

// StatusError reports a backend response with a non-2xx status code.
type StatusError struct {
	// Endpoint is the logical path of the request.
	Endpoint string
	// StatusCode is the HTTP status returned by the backend.
	StatusCode int
	// Body is a bounded excerpt of the response body, for diagnostics.
	Body string
}

// Error returns a message naming the endpoint and the status code.
func (e StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// MalformedResponseError reports a 2xx response whose body could not be decoded
// or lacks the expected field.
type MalformedResponseError struct {
	// Endpoint is the logical path of the request.
	Endpoint string
	// Reason describes what was wrong with the body.
	Reason string
}

// Error returns a message naming the endpoint and what was malformed.
func (e MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %s", e.Endpoint, e.Reason)
}

// IsRequestError reports whether err belongs to the request failure taxonomy:
// NetworkError, StatusError or MalformedResponseError.
func IsRequestError(err error) bool {
	var netErr NetworkError
	var statusErr StatusError
	var malformedErr MalformedResponseError
	return errors.As(err, &netErr) || errors.As(err, &statusErr) || errors.As(err, &malformedErr)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// HandleRequestError reports a failed submission to out and maps it to an exit code.
// Context errors take priority over the request taxonomy, so a timed-out request
// wrapped in a NetworkError still exits with ExitErrorTimeout.
//
// Parameters:
//   - err: The error returned by the client, or nil.
//   - duration: How long the request ran before failing.
//   - out: Where the human-readable message is written.
//
// Returns:
//   - int: The exit code matching the error class.
func HandleRequestError(err error, duration time.Duration, out io.Writer) int {
	if err == nil {
		return ExitSuccess
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "Request timed out after %s\n", duration)
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "Request canceled after %s\n", duration)
		return ExitErrorCanceled
	case IsRequestError(err):
		fmt.Fprintf(out, "Request failed: %v\n", err)
		return ExitErrorRequest
	default:
		fmt.Fprintf(out, "Error: %v\n", err)
		return ExitErrorGeneric
	}
}
