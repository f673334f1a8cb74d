package validation

import (
	"fmt"
	"strings"

	"github.com/skillsenselab/llmkit/errors"
)

// FieldError is one field's validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator collects field errors across a series of checks, so a config
// or request reports everything wrong with it in one pass. Checks return
// the receiver and chain.
type Validator struct {
	failed []FieldError
}

// New creates an empty Validator.
func New() *Validator {
	return &Validator{failed: make([]FieldError, 0)}
}

func (v *Validator) failf(field, format string, args ...any) {
	v.failed = append(v.failed, FieldError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

// AddError records a field error.
func (v *Validator) AddError(field, message string) {
	v.failf(field, "%s", message)
}

// HasErrors reports whether any check failed.
func (v *Validator) HasErrors() bool { return len(v.failed) > 0 }

// Errors returns the collected field errors.
func (v *Validator) Errors() []FieldError { return v.failed }

// Validate folds the collected errors into a single AppError, or nil when
// every check passed. The message lists each failure as "field: problem";
// the structured list rides along in the details.
func (v *Validator) Validate() *errors.AppError {
	if len(v.failed) == 0 {
		return nil
	}

	var b strings.Builder
	for i, fe := range v.failed {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(fe.Field)
		b.WriteString(": ")
		b.WriteString(fe.Message)
	}
	return errors.Validation(b.String()).WithDetail("fields", v.failed)
}

// Required checks that a string is non-blank.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.failf(field, "is required")
	}
	return v
}

// MaxLength checks that a string is within maxLen.
func (v *Validator) MaxLength(field, value string, maxLen int) *Validator {
	if len(value) > maxLen {
		v.failf(field, "must be %d characters or less", maxLen)
	}
	return v
}

// MinLength checks that a string has at least minLen characters.
func (v *Validator) MinLength(field, value string, minLen int) *Validator {
	if len(value) < minLen {
		v.failf(field, "must be at least %d characters", minLen)
	}
	return v
}

// Range checks that a number lies within [minVal, maxVal].
func (v *Validator) Range(field string, value, minVal, maxVal int) *Validator {
	if value < minVal || value > maxVal {
		v.failf(field, "must be between %d and %d", minVal, maxVal)
	}
	return v
}

// Min checks that a number meets a minimum value.
func (v *Validator) Min(field string, value, minVal int) *Validator {
	if value < minVal {
		v.failf(field, "must be at least %d", minVal)
	}
	return v
}

// Max checks that a number does not exceed a maximum value.
func (v *Validator) Max(field string, value, maxVal int) *Validator {
	if value > maxVal {
		v.failf(field, "must be %d or less", maxVal)
	}
	return v
}

// OneOf checks that a non-empty value is among the allowed set.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.failf(field, "must be one of: %s", strings.Join(allowed, ", "))
	return v
}

// Custom records a field error when condition is false.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		v.failf(field, "%s", message)
	}
	return v
}
