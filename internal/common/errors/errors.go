// Package errors provides standardized error handling for the intake service.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed       ErrorCode = "APPLICATION_VALIDATION_FAILED"
	ErrCodeMethodNotFound         ErrorCode = "METHOD_NOT_FOUND"
	ErrCodeInternalError          ErrorCode = "INTERNAL_ERROR"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeRateLimitExceeded      ErrorCode = "RATE_LIMIT_EXCEEDED"
)

// JSON-RPC 2.0 error codes carried on the tool-call envelope.
const (
	JSONRPCMethodNotFound = -32601
	JSONRPCInternalError  = -32603
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewValidationFailedError creates a non-retryable argument validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Application data validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMethodNotFoundError creates a non-retryable unknown-operation error.
func NewMethodNotFoundError(name string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMethodNotFound,
		Message:   fmt.Sprintf("Function not found: %s", name),
		Details:   fmt.Sprintf("operation: %s", name),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unanticipated fault caught at the dispatch boundary.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternalError,
		Message:   "Unexpected error during dispatch",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification delivery error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRateLimitExceededError creates a non-retryable throttling error.
func NewRateLimitExceededError(clientKey string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimitExceeded,
		Message:   "Rate limit exceeded",
		Details:   fmt.Sprintf("client: %s", clientKey),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Normalize ensures we always have a StandardError to log and count.
func Normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return NewInternalError(err)
}

// JSONRPCCode maps an internal error code onto the wire protocol's error space.
// Everything that is not a missing operation surfaces as an internal error;
// validation failures never reach this mapping because they travel inside the
// tool result, not the envelope error.
func JSONRPCCode(code ErrorCode) int {
	if code == ErrCodeMethodNotFound {
		return JSONRPCMethodNotFound
	}
	return JSONRPCInternalError
}
