package errors

import (
	"fmt"
	"net/http"
)

// AppError is the error type every llmkit layer produces and consumes. The
// code and retryable flag drive failover decisions; the HTTP status and
// details drive the gateway's responses.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	s := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return s
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause attaches the underlying error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail records one context key and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails merges details into the error's context and returns the
// receiver. The map is initialized even when details is nil or empty.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// New builds an AppError, deriving the retryable flag from the code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// Wrap normalizes any error to an AppError. An AppError anywhere in the
// chain passes through unchanged; everything else becomes Internal with the
// original as cause. Wrap(nil) returns nil.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

// ServiceUnavailable reports a service that is reachable but refusing work.
func ServiceUnavailable(service string) *AppError {
	return New(ErrCodeServiceUnavailable,
		fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		http.StatusServiceUnavailable).
		WithDetail("service", service)
}

// ConnectionFailed reports a service that could not be reached at all.
func ConnectionFailed(service string) *AppError {
	return New(ErrCodeConnectionFailed,
		fmt.Sprintf("Unable to connect to %s. Please verify the service is running.", service),
		http.StatusServiceUnavailable).
		WithDetail("service", service)
}

// Timeout reports an operation that ran out of time.
func Timeout(operation string) *AppError {
	return New(ErrCodeTimeout,
		"The request took too long. Please try again.",
		http.StatusGatewayTimeout).
		WithDetail("operation", operation)
}

// RateLimited reports a request rejected by a rate limit.
func RateLimited() *AppError {
	return New(ErrCodeRateLimited,
		"Too many requests. Please wait a moment and try again.",
		http.StatusTooManyRequests)
}

// CircuitOpen reports a request the circuit breaker rejected before any call
// was made. The reason comes from the breaker and names the recovery window.
func CircuitOpen(provider, reason string) *AppError {
	return New(ErrCodeCircuitOpen,
		fmt.Sprintf("The %s provider is temporarily suspended after repeated failures.", provider),
		http.StatusServiceUnavailable).
		WithDetail("provider", provider).
		WithDetail("reason", reason)
}

// ProvidersExhausted reports a request that failed on every candidate
// provider. The cause is the last provider's error.
func ProvidersExhausted(lastProvider string, cause error) *AppError {
	return New(ErrCodeProvidersExhausted,
		"All providers failed to complete the request. Please try again.",
		http.StatusBadGateway).
		WithDetail("last_provider", lastProvider).
		WithCause(cause)
}

// NotFound reports a missing resource. The id detail is only set when known.
func NotFound(resource, id string) *AppError {
	err := New(ErrCodeNotFound,
		fmt.Sprintf("The requested %s was not found.", resource),
		http.StatusNotFound).
		WithDetail("resource", resource)
	if id != "" {
		err.WithDetail("id", id)
	}
	return err
}

// InvalidInput reports a request value that failed validation.
func InvalidInput(field, reason string) *AppError {
	err := New(ErrCodeInvalidInput,
		fmt.Sprintf("Invalid input: %s", reason),
		http.StatusBadRequest)
	if field != "" {
		err.WithDetail("field", field)
	}
	return err
}

// Validation reports a validation failure with a caller-supplied message.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

// MissingField reports a required field that was not supplied.
func MissingField(field string) *AppError {
	return New(ErrCodeMissingField,
		fmt.Sprintf("Missing required field: %s", field),
		http.StatusBadRequest).
		WithDetail("field", field)
}

// Unauthorized reports a request without valid credentials. An empty reason
// falls back to a generic message.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return New(ErrCodeUnauthorized, reason, http.StatusUnauthorized)
}

// TokenExpired reports an authentication token past its expiry.
func TokenExpired() *AppError {
	return New(ErrCodeTokenExpired,
		"Your session has expired. Please log in again.",
		http.StatusUnauthorized)
}

// InvalidToken reports an authentication token that failed verification.
func InvalidToken() *AppError {
	return New(ErrCodeInvalidToken,
		"Invalid authentication token. Please log in again.",
		http.StatusUnauthorized)
}

// Internal reports an unexpected failure inside this process.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal,
		"An unexpected error occurred. Please try again or contact support.",
		http.StatusInternalServerError).
		WithCause(cause)
}

// ExternalServiceError reports a failure inside an upstream service.
func ExternalServiceError(service string, cause error) *AppError {
	return New(ErrCodeExternalService,
		fmt.Sprintf("The %s service encountered an error. Please try again.", service),
		http.StatusBadGateway).
		WithDetail("service", service).
		WithCause(cause)
}
