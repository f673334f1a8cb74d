package provider

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/skillsenselab/llmkit/errors"
	"github.com/skillsenselab/llmkit/httpclient"
)

// transientMarkers are the substrings the fallback matcher treats as
// retryable. Everything tagged cannot reach this list; it exists for
// providers that surface plain text errors.
var transientMarkers = []string{
	"timeout",
	"429",
	"500",
	"502",
	"503",
	"504",
	"connection",
	"network",
}

// Classify converts an arbitrary provider failure into a tagged AppError.
// It runs once, at the adapter boundary; everything above it branches on
// error codes and the retryable bit, never on message text.
//
// Precedence: AppErrors pass through unchanged, typed httpclient errors map
// by their classification, context deadline expiry maps to TIMEOUT, and
// only then does the keyword fallback inspect the message.
func Classify(provider string, err error) *errors.AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}

	var httpErr *httpclient.Error
	if stderrors.As(err, &httpErr) {
		return fromHTTPError(provider, httpErr)
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Timeout(provider).WithCause(err)
	}

	if hasTransientMarker(err.Error()) {
		return errors.ExternalServiceError(provider, err)
	}

	return errors.Internal(err).WithDetail("provider", provider)
}

// fromHTTPError maps the transport's typed classification onto the
// application taxonomy.
func fromHTTPError(provider string, httpErr *httpclient.Error) *errors.AppError {
	switch httpErr.Code {
	case httpclient.ErrCodeTimeout:
		return errors.Timeout(provider).WithCause(httpErr)
	case httpclient.ErrCodeConnection:
		return errors.ConnectionFailed(provider).WithCause(httpErr)
	case httpclient.ErrCodeRateLimit:
		return errors.RateLimited().WithDetail("provider", provider).WithCause(httpErr)
	case httpclient.ErrCodeAuth:
		return errors.Unauthorized("Provider rejected the configured credentials.").
			WithDetail("provider", provider).WithCause(httpErr)
	case httpclient.ErrCodeNotFound:
		return errors.NotFound("provider endpoint", provider).WithCause(httpErr)
	case httpclient.ErrCodeValidation:
		return errors.InvalidInput("request", httpErr.Message).
			WithDetail("provider", provider).WithCause(httpErr)
	case httpclient.ErrCodeServer:
		return errors.ServiceUnavailable(provider).WithCause(httpErr)
	default:
		return errors.ExternalServiceError(provider, httpErr)
	}
}

// hasTransientMarker is the single keyword matcher in the module.
func hasTransientMarker(msg string) bool {
	msg = strings.ToLower(msg)
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
