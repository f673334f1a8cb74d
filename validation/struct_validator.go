package validation

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/skillsenselab/llmkit/errors"
)

// backend returns the shared go-playground validator. Field names in
// error output come from json tags so they match the wire and config
// spelling, with a snake_case fallback for untagged fields.
var backend = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		tag, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if tag != "" && tag != "-" {
			return tag
		}
		return snakeCase(field.Name)
	})
	return v
})

// Validate checks a struct against its `validate:"..."` tags and folds
// every failure into a single VALIDATION_ERROR whose details carry the
// per-field breakdown.
func Validate(s any) error {
	err := backend().Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// Struct itself was not validatable (nil pointer, non-struct).
		return errors.Validation("validation failed")
	}

	fields := make([]FieldError, len(fieldErrs))
	parts := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		fields[i] = FieldError{Field: fe.Field(), Message: describe(fe)}
		parts[i] = fields[i].Field + ": " + fields[i].Message
	}

	return errors.Validation(strings.Join(parts, "; ")).
		WithDetail("fields", fields)
}

// describe renders one tag failure as a short human-readable clause.
func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}

// snakeCase lowers a Go field name, inserting underscores at word breaks.
func snakeCase(name string) string {
	out := make([]rune, 0, len(name)+4)
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				out = append(out, '_')
			}
			r = unicode.ToLower(r)
		}
		out = append(out, r)
	}
	return string(out)
}
