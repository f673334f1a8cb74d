package chat

import (
	"strings"

	"github.com/skillsenselab/llmkit/errors"
)

// Validate checks that the request describes a completable prompt.
// A request with no messages, or whose messages are all blank, is rejected
// before any provider is contacted.
func (r Request) Validate() error {
	if len(r.Messages) == 0 {
		return errors.MissingField("messages")
	}
	for _, m := range r.Messages {
		if strings.TrimSpace(m.Content) != "" {
			return nil
		}
	}
	return errors.Validation("messages must contain non-blank content")
}

// UserPrompt is a convenience constructor for a single-message request.
func UserPrompt(prompt string) Request {
	return Request{Messages: []Message{{Role: RoleUser, Content: prompt}}}
}
