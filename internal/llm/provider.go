package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by a provider whose credentials are missing.
// The gateway skips such providers without retrying.
var ErrNotConfigured = errors.New("provider not configured")

// Message roles follow the OpenAI chat convention.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a model conversation.
type Message struct {
	Role    string
	Content string
}

// Provider is a single LLM backend. Complete returns the model's text
// response and an identifier for the model that actually answered.
type Provider interface {
	Name() string
	Complete(ctx context.Context, messages []Message) (text, model string, err error)
}
