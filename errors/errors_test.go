package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestNew_DerivesRetryableFromCode(t *testing.T) {
	transient := New(ErrCodeTimeout, "provider deadline hit", http.StatusGatewayTimeout)
	if !transient.Retryable {
		t.Error("TIMEOUT errors should be retryable")
	}
	if transient.Code != ErrCodeTimeout || transient.HTTPStatus != http.StatusGatewayTimeout {
		t.Errorf("unexpected code/status: %s/%d", transient.Code, transient.HTTPStatus)
	}
	if transient.Message != "provider deadline hit" {
		t.Errorf("unexpected message: %q", transient.Message)
	}

	permanent := New(ErrCodeNotFound, "no such model", http.StatusNotFound)
	if permanent.Retryable {
		t.Error("NOT_FOUND errors should not be retryable")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		status    int
		retryable bool
	}{
		{"ServiceUnavailable", ServiceUnavailable("ollama server"), ErrCodeServiceUnavailable, http.StatusServiceUnavailable, true},
		{"ConnectionFailed", ConnectionFailed("openai"), ErrCodeConnectionFailed, http.StatusServiceUnavailable, true},
		{"Timeout", Timeout("stream chunk"), ErrCodeTimeout, http.StatusGatewayTimeout, true},
		{"RateLimited", RateLimited(), ErrCodeRateLimited, http.StatusTooManyRequests, true},
		{"CircuitOpen", CircuitOpen("anthropic", "recovery in 42s"), ErrCodeCircuitOpen, http.StatusServiceUnavailable, false},
		{"ProvidersExhausted", ProvidersExhausted("ollama", nil), ErrCodeProvidersExhausted, http.StatusBadGateway, false},
		{"NotFound", NotFound("model", "llama3"), ErrCodeNotFound, http.StatusNotFound, false},
		{"InvalidInput", InvalidInput("temperature", "must be between 0 and 2"), ErrCodeInvalidInput, http.StatusBadRequest, false},
		{"Validation", Validation("messages: at least one required"), ErrCodeInvalidInput, http.StatusBadRequest, false},
		{"MissingField", MissingField("messages"), ErrCodeMissingField, http.StatusBadRequest, false},
		{"Unauthorized", Unauthorized(""), ErrCodeUnauthorized, http.StatusUnauthorized, false},
		{"TokenExpired", TokenExpired(), ErrCodeTokenExpired, http.StatusUnauthorized, false},
		{"InvalidToken", InvalidToken(), ErrCodeInvalidToken, http.StatusUnauthorized, false},
		{"Internal", Internal(fmt.Errorf("nil registry")), ErrCodeInternal, http.StatusInternalServerError, false},
		{"ExternalServiceError", ExternalServiceError("openai", nil), ErrCodeExternalService, http.StatusBadGateway, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("code: expected %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.HTTPStatus != tc.status {
				t.Errorf("status: expected %d, got %d", tc.status, tc.err.HTTPStatus)
			}
			if tc.err.Retryable != tc.retryable {
				t.Errorf("retryable: expected %v, got %v", tc.retryable, tc.err.Retryable)
			}
		})
	}
}

func TestConstructors_Details(t *testing.T) {
	if got := ServiceUnavailable("ollama server").Details["service"]; got != "ollama server" {
		t.Errorf("expected service detail, got %v", got)
	}
	if got := Timeout("stream chunk").Details["operation"]; got != "stream chunk" {
		t.Errorf("expected operation detail, got %v", got)
	}
	if got := MissingField("messages").Details["field"]; got != "messages" {
		t.Errorf("expected field detail, got %v", got)
	}

	co := CircuitOpen("anthropic", "recovery in 12s")
	if co.Details["provider"] != "anthropic" || co.Details["reason"] != "recovery in 12s" {
		t.Errorf("expected provider and reason details, got %v", co.Details)
	}

	pe := ProvidersExhausted("openai", ConnectionFailed("openai"))
	if pe.Details["last_provider"] != "openai" {
		t.Errorf("expected last_provider detail, got %v", pe.Details)
	}
}

func TestNotFound_IDOnlyWhenKnown(t *testing.T) {
	with := NotFound("model", "llama3")
	if with.Details["resource"] != "model" || with.Details["id"] != "llama3" {
		t.Errorf("expected resource and id details, got %v", with.Details)
	}

	without := NotFound("circuit breaker", "")
	if _, ok := without.Details["id"]; ok {
		t.Error("id detail should be absent when the id is unknown")
	}
}

func TestInvalidInput_FieldOptional(t *testing.T) {
	with := InvalidInput("model", "unknown provider hint")
	if with.Details["field"] != "model" {
		t.Errorf("expected field detail, got %v", with.Details)
	}
	if !strings.Contains(with.Message, "unknown provider hint") {
		t.Errorf("expected reason in message, got %q", with.Message)
	}

	without := InvalidInput("", "malformed request body")
	if _, ok := without.Details["field"]; ok {
		t.Error("field detail should be absent for a blank field name")
	}
}

func TestUnauthorized_DefaultMessage(t *testing.T) {
	if got := Unauthorized("").Message; got != "Authentication required." {
		t.Errorf("expected fallback message, got %q", got)
	}
	if got := Unauthorized("API key revoked").Message; got != "API key revoked" {
		t.Errorf("expected caller message, got %q", got)
	}
}

func TestError_Format(t *testing.T) {
	plain := RateLimited()
	s := plain.Error()
	if !strings.Contains(s, string(ErrCodeRateLimited)) || !strings.Contains(s, plain.Message) {
		t.Errorf("expected code and message in %q", s)
	}

	caused := Internal(fmt.Errorf("registry was nil"))
	if !strings.Contains(caused.Error(), "registry was nil") {
		t.Errorf("expected cause in %q", caused.Error())
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := ConnectionFailed("ollama server").WithCause(cause)
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
	if RateLimited().Unwrap() != nil {
		t.Error("Unwrap should return nil without a cause")
	}

	// stderrors.Is walks the cause chain.
	sentinel := stderrors.New("boom")
	chained := ProvidersExhausted("openai", ExternalServiceError("openai", sentinel))
	if !stderrors.Is(chained, sentinel) {
		t.Error("expected the sentinel to be reachable through the chain")
	}
}

func TestWithDetail_InitializesAndOverwrites(t *testing.T) {
	err := &AppError{}
	err.WithDetail("attempt", 1)
	if err.Details == nil {
		t.Fatal("Details should be initialized on first use")
	}
	err.WithDetail("attempt", 2)
	if err.Details["attempt"] != 2 {
		t.Errorf("expected overwrite to 2, got %v", err.Details["attempt"])
	}
}

func TestWithDetails_Merge(t *testing.T) {
	err := NotFound("model", "llama3").WithDetails(map[string]any{"provider": "ollama"})
	if err.Details["provider"] != "ollama" {
		t.Error("expected merged detail")
	}
	if err.Details["resource"] != "model" {
		t.Error("expected constructor details to survive the merge")
	}

	err.WithDetails(map[string]any{"attempts": 3})
	if err.Details["attempts"] != 3 || err.Details["provider"] != "ollama" {
		t.Errorf("expected both merges present, got %v", err.Details)
	}

	if Internal(nil).WithDetails(nil).Details == nil {
		t.Error("Details should be initialized even for a nil merge")
	}
}

func TestIsRetryableCode(t *testing.T) {
	for _, code := range []ErrorCode{
		ErrCodeServiceUnavailable, ErrCodeConnectionFailed, ErrCodeTimeout,
		ErrCodeRateLimited, ErrCodeExternalService,
	} {
		if !IsRetryableCode(code) {
			t.Errorf("%s should be retryable", code)
		}
	}
	for _, code := range []ErrorCode{
		ErrCodeCircuitOpen, ErrCodeProvidersExhausted, ErrCodeNotFound,
		ErrCodeInvalidInput, ErrCodeMissingField, ErrCodeUnauthorized,
		ErrCodeTokenExpired, ErrCodeInvalidToken, ErrCodeInternal,
	} {
		if IsRetryableCode(code) {
			t.Errorf("%s should not be retryable", code)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(ServiceUnavailable("ollama server")) {
		t.Error("ServiceUnavailable should be retryable")
	}
	if IsRetryable(InvalidInput("model", "unknown hint")) {
		t.Error("InvalidInput should not be retryable")
	}
	if IsRetryable(fmt.Errorf("plain error")) {
		t.Error("plain errors should not be retryable")
	}
	if IsRetryable(nil) {
		t.Error("nil should not be retryable")
	}
}

func TestPredicates(t *testing.T) {
	if !IsCircuitOpen(CircuitOpen("openai", "recovery in 5s")) {
		t.Error("IsCircuitOpen should match a circuit-open error")
	}
	if IsCircuitOpen(fmt.Errorf("plain")) {
		t.Error("IsCircuitOpen should reject plain errors")
	}
	if !IsRateLimited(RateLimited()) {
		t.Error("IsRateLimited should match a rate-limited error")
	}

	exhausted := ProvidersExhausted("ollama", nil)
	if !IsProvidersExhausted(exhausted) {
		t.Error("IsProvidersExhausted should match directly")
	}
	wrapped := fmt.Errorf("request %s: %w", "r-1", exhausted)
	if !IsProvidersExhausted(wrapped) {
		t.Error("IsProvidersExhausted should see through fmt wrapping")
	}

	if !IsCode(TokenExpired(), ErrCodeTokenExpired) {
		t.Error("IsCode should match the exact code")
	}
	if IsCode(TokenExpired(), ErrCodeInvalidToken) {
		t.Error("IsCode should not match a different code")
	}
}

func TestIsAppError_AsAppError(t *testing.T) {
	appErr := NotFound("model", "")
	if !IsAppError(appErr) {
		t.Error("IsAppError should accept an AppError")
	}
	if !IsAppError(fmt.Errorf("wrapped: %w", appErr)) {
		t.Error("IsAppError should accept a wrapped AppError")
	}
	if IsAppError(fmt.Errorf("plain")) {
		t.Error("IsAppError should reject plain errors")
	}

	got, ok := AsAppError(fmt.Errorf("outer: %w", Internal(nil)))
	if !ok || got.Code != ErrCodeInternal {
		t.Fatalf("AsAppError should unwrap to the AppError, got %v/%v", got, ok)
	}
	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Error("AsAppError should fail for plain errors")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should be nil")
	}

	orig := RateLimited()
	if Wrap(orig) != orig {
		t.Error("an AppError should pass through Wrap unchanged")
	}
	if got := Wrap(fmt.Errorf("outer: %w", orig)); got != orig {
		t.Error("a wrapped AppError should pass through Wrap unchanged")
	}

	plain := fmt.Errorf("unexpected EOF")
	got := Wrap(plain)
	if got.Code != ErrCodeInternal {
		t.Errorf("plain errors should wrap to INTERNAL_ERROR, got %s", got.Code)
	}
	if got.Cause != plain {
		t.Error("the original error should be kept as cause")
	}
}

func TestToResponse(t *testing.T) {
	resp := CircuitOpen("anthropic", "recovery in 8s").ToResponse()
	if resp.Error.Code != ErrCodeCircuitOpen {
		t.Errorf("expected CIRCUIT_OPEN in body, got %s", resp.Error.Code)
	}
	if resp.Error.Retryable {
		t.Error("expected retryable=false in body")
	}
	if resp.Error.Details["provider"] != "anthropic" {
		t.Errorf("expected provider detail in body, got %v", resp.Error.Details)
	}
	if resp.Error.Message == "" {
		t.Error("expected a message in body")
	}
}

func TestAppError_SatisfiesErrorInterface(t *testing.T) {
	var err error = Timeout("first chunk")
	if err.Error() == "" {
		t.Error("Error() should not be empty")
	}
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		t.Error("errors.As should extract the AppError")
	}
}
