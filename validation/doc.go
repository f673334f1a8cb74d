// Package validation provides input validation for llmkit configs and
// request handlers.
//
// It supports both struct tag validation (via the validator library) and
// programmatic validation with error collection. Both produce an AppError
// carrying per-field details, so the gateway can return them as-is.
//
// # Struct Tag Validation
//
//	type completionRequest struct {
//	    Messages    []chat.Message `json:"messages" validate:"required,min=1"`
//	    Temperature float64        `json:"temperature" validate:"gte=0,lte=2"`
//	}
//	err := validation.Validate(req)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Range("server.port", port, 0, 65535)
//	v.Custom(secret != "", "server.auth.secret", "is required when auth is enabled")
//	err := v.Validate()
package validation
