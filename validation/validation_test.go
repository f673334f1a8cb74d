package validation

import (
	"strings"
	"testing"
)

func TestValidatorChecks(t *testing.T) {
	tests := []struct {
		name    string
		check   func(v *Validator)
		wantErr bool
	}{
		{"required present", func(v *Validator) { v.Required("dialect", "ollama") }, false},
		{"required empty", func(v *Validator) { v.Required("dialect", "") }, true},
		{"required whitespace only", func(v *Validator) { v.Required("dialect", "   ") }, true},

		{"max length within", func(v *Validator) { v.MaxLength("name", "ollama", 32) }, false},
		{"max length exceeded", func(v *Validator) { v.MaxLength("name", "this name is far too long", 5) }, true},

		{"min length met", func(v *Validator) { v.MinLength("secret", "abcdef", 6) }, false},
		{"min length short", func(v *Validator) { v.MinLength("secret", "ab", 6) }, true},

		{"range inside", func(v *Validator) { v.Range("server.port", 8080, 0, 65535) }, false},
		{"range below", func(v *Validator) { v.Range("server.port", -1, 0, 65535) }, true},
		{"range above", func(v *Validator) { v.Range("server.port", 70000, 0, 65535) }, true},

		{"min ok", func(v *Validator) { v.Min("max_retries", 2, 0) }, false},
		{"min violated", func(v *Validator) { v.Min("max_retries", -1, 0) }, true},
		{"max ok", func(v *Validator) { v.Max("max_retries", 2, 10) }, false},
		{"max violated", func(v *Validator) { v.Max("max_retries", 11, 10) }, true},

		{"one of member", func(v *Validator) {
			v.OneOf("environment", "production", []string{"development", "staging", "production"})
		}, false},
		{"one of non-member", func(v *Validator) {
			v.OneOf("environment", "qa", []string{"development", "staging", "production"})
		}, true},
		{"one of skips empty", func(v *Validator) {
			v.OneOf("environment", "", []string{"development"})
		}, false},

		{"custom true", func(v *Validator) { v.Custom(true, "field", "should pass") }, false},
		{"custom false", func(v *Validator) {
			v.Custom(false, "server.auth.secret", "is required when auth is enabled")
		}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := New()
			tc.check(v)
			if got := v.HasErrors(); got != tc.wantErr {
				t.Errorf("HasErrors() = %v, want %v", got, tc.wantErr)
			}
		})
	}
}

func TestValidatorCustomMessage(t *testing.T) {
	v := New()
	v.Custom(false, "server.auth.secret", "is required when auth is enabled")
	if got := v.Errors()[0].Message; got != "is required when auth is enabled" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestValidatorAddError(t *testing.T) {
	v := New()
	v.AddError("providers", "at least one provider must be configured")
	if !v.HasErrors() {
		t.Fatal("expected an error after AddError")
	}
	if got := v.Errors()[0].Field; got != "providers" {
		t.Errorf("field = %q, want providers", got)
	}
}

func TestValidatorValidate(t *testing.T) {
	v := New()
	v.Required("dialect", "openai")
	if appErr := v.Validate(); appErr != nil {
		t.Error("expected nil for valid input")
	}

	v = New()
	v.Required("dialect", "")
	v.Required("binary", "")
	appErr := v.Validate()
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.Details == nil {
		t.Fatal("expected details in error")
	}
	if !strings.Contains(appErr.Message, "dialect") || !strings.Contains(appErr.Message, "binary") {
		t.Errorf("expected both fields in message, got %q", appErr.Message)
	}
}

func TestValidatorChaining(t *testing.T) {
	v := New()
	result := v.Required("name", "ollama").MaxLength("name", "ollama", 100).Min("port", 8080, 0)
	if result != v {
		t.Error("expected chaining to return same validator")
	}
	if v.HasErrors() {
		t.Error("expected no errors for valid chained validation")
	}
}

func TestStructValidate(t *testing.T) {
	type entry struct {
		Dialect string `json:"dialect" validate:"required"`
		BaseURL string `json:"base_url" validate:"omitempty,url"`
	}

	if err := Validate(entry{Dialect: "ollama", BaseURL: "http://localhost:11434"}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	err := Validate(entry{Dialect: "", BaseURL: "not a url"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "dialect") {
		t.Errorf("expected error to mention 'dialect', got %q", err.Error())
	}
}

func TestStructValidateMaxMin(t *testing.T) {
	type input struct {
		Model string `json:"model" validate:"required,min=3,max=64"`
	}

	if err := Validate(input{Model: "llama3.2"}); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
	if err := Validate(input{Model: "ab"}); err == nil {
		t.Error("expected error for model name too short")
	}
}
