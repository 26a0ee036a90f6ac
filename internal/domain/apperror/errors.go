package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Code is the stable machine readable identifier of an error kind
type Code string

const (
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeUnauthenticated    Code = "UNAUTHORIZED"
	CodeQuotaExceeded      Code = "RATE_LIMIT_EXCEEDED"
	CodeUpstream           Code = "EXTERNAL_API_ERROR"
	CodeStore              Code = "DATABASE_ERROR"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeConflict           Code = "CONFLICT"
	CodeInternal           Code = "INTERNAL_ERROR"
)

// ErrNotFound is returned by repositories when a record does not exist
var ErrNotFound = errors.New("record not found")

// Error is the error type that crosses the core boundary.
// Every instance carries a message, a code, a timestamp and a correlation id.
type Error struct {
	Code              Code
	Message           string
	Timestamp         time.Time
	CorrelationID     string
	Details           map[string]interface{}
	RetryAfterSeconds int
	Attempts          int
	Transient         bool
	Err               error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithCorrelationID sets the correlation id unless one is already present
func (e *Error) WithCorrelationID(id string) *Error {
	if e.CorrelationID == "" {
		e.CorrelationID = id
	}
	return e
}

// WithDetail adds a key to the details map
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// HTTPStatus maps the error code to the status used by the HTTP front door
func (e *Error) HTTPStatus() int {
	return StatusFor(e.Code)
}

func newError(code Code, message string, cause error) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Err:       cause,
	}
}

// Validation reports malformed or unsupported input
func Validation(message string) *Error {
	return newError(CodeValidation, message, nil)
}

// Unauthenticated is used for missing, unknown and disabled credentials alike
func Unauthenticated(message string) *Error {
	return newError(CodeUnauthenticated, message, nil)
}

// QuotaExceeded reports an exhausted request quota with a retry-after hint
func QuotaExceeded(retryAfterSeconds int) *Error {
	e := newError(CodeQuotaExceeded, "Rate limit exceeded", nil)
	e.RetryAfterSeconds = retryAfterSeconds
	return e
}

// Upstream reports that the price provider could not be reached after retries
func Upstream(attempts int, lastCause error) *Error {
	e := newError(CodeUpstream, fmt.Sprintf("Failed to fetch prices after %d attempts", attempts), lastCause)
	e.Attempts = attempts
	if lastCause != nil {
		e.WithDetail("lastError", lastCause.Error())
	}
	e.WithDetail("attempts", attempts)
	return e
}

// Store wraps a backing store failure
func Store(operation string, cause error, transient bool) *Error {
	e := newError(CodeStore, fmt.Sprintf("store operation %s failed", operation), cause)
	e.Transient = transient
	return e
}

// ServiceUnavailable reports that no data could be obtained by any means
func ServiceUnavailable(message string) *Error {
	return newError(CodeServiceUnavailable, message, nil)
}

// Conflict reports an operation that cannot run while another one is in progress
func Conflict(message string) *Error {
	return newError(CodeConflict, message, nil)
}

// Internal hides unexpected failures behind a generic message
func Internal(cause error) *Error {
	return newError(CodeInternal, "Internal server error", cause)
}

// As extracts an *Error from an error chain
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// From converts any error into an *Error, falling back to Internal
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if appErr, ok := As(err); ok {
		return appErr
	}
	return Internal(err)
}

// IsCode reports whether err carries the given code
func IsCode(err error, code Code) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// IsTransient reports whether err is a store error worth retrying
func IsTransient(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Transient
}

// StatusFor maps an error code to an HTTP status
func StatusFor(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeQuotaExceeded:
		return http.StatusTooManyRequests
	case CodeUpstream:
		return http.StatusBadGateway
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
