// Package errors provides the standardized error model of the intake service.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeDuplicateApplication ErrorCode = "DUPLICATE_APPLICATION"
	ErrCodeRateLimited          ErrorCode = "RATE_LIMITED"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// Public messages written to callers.
const (
	MessageValidationFailed     = "Validation failed"
	MessageDuplicateApplication = "An applicant with this email or phone already exists"
	MessageRateLimited          = "Too many submissions, try again later"
	MessageInternal             = "Internal Server Error"

	// DetailsDuplicateApplication is written with every conflict.
	DetailsDuplicateApplication = "duplicate email or phone"
)

// Issue is one field-level problem carried by a validation error.
type Issue struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StandardError represents a structured application error. Message is safe
// to show to callers; Details is for logs only.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Issues    []Issue                `json:"issues,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// NewValidationError creates a non-retryable error carrying every field issue.
func NewValidationError(issues []Issue) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   MessageValidationFailed,
		Details:   fmt.Sprintf("%d field issue(s)", len(issues)),
		Retryable: false,
		Issues:    issues,
		Timestamp: time.Now().UTC(),
	}
}

// NewConflictError reports that the email or phone is already registered.
// Resubmitting the same payload will keep failing.
func NewConflictError(cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateApplication,
		Message:   MessageDuplicateApplication,
		Details:   DetailsDuplicateApplication,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewRateLimitedError creates a retryable throttling error.
func NewRateLimitedError(retryAfter time.Duration) *StandardError {
	seconds := int(retryAfter.Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return &StandardError{
		Code:      ErrCodeRateLimited,
		Message:   MessageRateLimited,
		Details:   fmt.Sprintf("retry after %ds", seconds),
		Retryable: true,
		Metadata:  map[string]interface{}{"retryAfterSeconds": seconds},
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected failure. The cause is kept for logs
// and never written to callers.
func NewInternalError(cause error) *StandardError {
	details := "unknown error"
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   MessageInternal,
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// HTTPStatus maps an error code to its response status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeDuplicateApplication:
		return http.StatusConflict
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func IsRetryable(code ErrorCode) bool {
	switch code {
	case ErrCodeRateLimited, ErrCodeInternal:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the error category for logging and metrics.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "DUPLICATE"):
		return "CONFLICT"
	case strings.Contains(codeStr, "RATE"):
		return "THROTTLE"
	default:
		return "INTERNAL"
	}
}
