package errors

// ErrorCode identifies an error class across process and wire boundaries.
// Codes are stable strings; clients may switch on them.
type ErrorCode string

// Provider transport failures. All of these are transient: worth retrying
// against the same provider after a backoff, or against the next one.
const (
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeConnectionFailed   ErrorCode = "CONNECTION_FAILED"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"
)

// Failover outcomes. CIRCUIT_OPEN means the breaker refused the call before
// it was made and the request should route to a different provider.
// ALL_PROVIDERS_EXHAUSTED means every candidate already failed, so another
// attempt with the same candidates is pointless.
const (
	ErrCodeCircuitOpen        ErrorCode = "CIRCUIT_OPEN"
	ErrCodeProvidersExhausted ErrorCode = "ALL_PROVIDERS_EXHAUSTED"
)

// Request faults. Retrying an unchanged request cannot help.
const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Authentication faults.
const (
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
)

// Server-side faults. An upstream service error is retryable because the
// upstream may recover; a plain internal error is not.
const (
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

// retryableCodes marks the transient codes. Anything not listed is
// non-retryable.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeConnectionFailed:   true,
	ErrCodeTimeout:            true,
	ErrCodeRateLimited:        true,
	ErrCodeExternalService:    true,
}

// IsRetryableCode reports whether code identifies a transient failure.
func IsRetryableCode(code ErrorCode) bool { return retryableCodes[code] }
