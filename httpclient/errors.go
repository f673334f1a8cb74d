package httpclient

import (
	"errors"
	"fmt"
)

// ErrorCode classifies transport and HTTP failures. The set stays
// coarse on purpose: it only separates cases that retry and failover
// treat differently.
type ErrorCode int

const (
	// ErrCodeTimeout covers request and connection deadlines.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection covers refused connections, DNS failures, and
	// bodies cut off mid-read.
	ErrCodeConnection
	// ErrCodeAuth covers 401 and 403.
	ErrCodeAuth
	// ErrCodeNotFound covers 404, typically a bad path or unknown model.
	ErrCodeNotFound
	// ErrCodeRateLimit covers 429.
	ErrCodeRateLimit
	// ErrCodeValidation covers 400 and other non-retryable 4xx.
	ErrCodeValidation
	// ErrCodeServer covers 5xx.
	ErrCodeServer
)

var errorCodeNames = map[ErrorCode]string{
	ErrCodeTimeout:    "timeout",
	ErrCodeConnection: "connection",
	ErrCodeAuth:       "auth",
	ErrCodeNotFound:   "not_found",
	ErrCodeRateLimit:  "rate_limit",
	ErrCodeValidation: "validation",
	ErrCodeServer:     "server",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "unknown"
}

// Error is the typed failure the adapter returns for anything that went
// wrong on the wire. Retryable drives the adapter's own retry policy
// and, one level up, the caller's failover decisions.
type Error struct {
	// StatusCode is zero for failures before a response arrived.
	StatusCode int
	Code       ErrorCode
	Message    string
	Retryable  bool
	// Body keeps the raw response so callers can surface upstream
	// error payloads.
	Body []byte
	Err  error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewTimeoutError wraps a deadline failure. Timeouts are retryable.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Retryable: true, Err: err}
}

// NewConnectionError wraps a transport failure. Connection errors are
// retryable.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Retryable: true, Err: err}
}

// NewAuthError reports a 401 or 403 response.
func NewAuthError(statusCode int, body []byte) *Error {
	return statusError(ErrCodeAuth, statusCode, body, false)
}

// NewNotFoundError reports a 404 response.
func NewNotFoundError(body []byte) *Error {
	return statusError(ErrCodeNotFound, 404, body, false)
}

// NewRateLimitError reports a 429 response. Rate limits are retryable
// after backoff.
func NewRateLimitError(body []byte) *Error {
	return statusError(ErrCodeRateLimit, 429, body, true)
}

// NewValidationError reports a request that could not be sent or was
// rejected as malformed.
func NewValidationError(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg, Retryable: false}
}

// NewServerError reports a 5xx response.
func NewServerError(statusCode int, body []byte) *Error {
	return statusError(ErrCodeServer, statusCode, body, true)
}

func statusError(code ErrorCode, statusCode int, body []byte, retryable bool) *Error {
	return &Error{
		StatusCode: statusCode,
		Code:       code,
		Message:    fmt.Sprintf("HTTP %d", statusCode),
		Retryable:  retryable,
		Body:       body,
	}
}

// ClassifyStatusCode types a non-2xx response. Returns nil for 2xx.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == 401 || statusCode == 403:
		return NewAuthError(statusCode, body)
	case statusCode == 404:
		return NewNotFoundError(body)
	case statusCode == 429:
		return NewRateLimitError(body)
	case statusCode >= 400 && statusCode < 500:
		return statusError(ErrCodeValidation, statusCode, body, false)
	case statusCode >= 500:
		return NewServerError(statusCode, body)
	default:
		// 1xx and 3xx should not reach here; treat them as terminal.
		return statusError(ErrCodeServer, statusCode, body, false)
	}
}

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool { return isCode(err, ErrCodeAuth) }

// IsNotFound reports whether err is a 404.
func IsNotFound(err error) bool { return isCode(err, ErrCodeNotFound) }

// IsRateLimit reports whether err is a 429.
func IsRateLimit(err error) bool { return isCode(err, ErrCodeRateLimit) }

// IsServerError reports whether err is a 5xx.
func IsServerError(err error) bool { return isCode(err, ErrCodeServer) }

func isCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsRetryable reports whether err is an Error worth retrying. This is
// the adapter's default RetryIf policy.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
