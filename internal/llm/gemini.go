package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// Gemini talks to the Gemini API directly. It is the second provider in the
// cascade, used when OpenRouter is exhausted or rate limited.
type Gemini struct {
	apiKey string
	model  string
	logger *slog.Logger

	once    sync.Once
	client  *genai.Client
	initErr error
}

// NewGemini builds the provider. An empty apiKey yields a provider that
// reports ErrNotConfigured.
func NewGemini(apiKey, model string, logger *slog.Logger) *Gemini {
	return &Gemini{apiKey: apiKey, model: model, logger: logger}
}

func (p *Gemini) Name() string { return "Gemini" }

// Complete flattens the conversation into a single prompt and generates a
// response. Gemini has no native system role, so system content is inlined.
func (p *Gemini) Complete(ctx context.Context, messages []Message) (string, string, error) {
	if p.apiKey == "" {
		return "", "", ErrNotConfigured
	}

	p.once.Do(func() {
		p.client, p.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  p.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	if p.initErr != nil {
		return "", "", fmt.Errorf("gemini client: %w", p.initErr)
	}

	prompt := flattenPrompt(messages)
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.7),
		MaxOutputTokens: 2048,
	})
	if err != nil {
		p.logger.Error("gemini request failed", "error", err)
		return "", "", err
	}
	return resp.Text(), "gemini/" + strings.TrimPrefix(p.model, "gemini-"), nil
}

// flattenPrompt converts chat messages into a single text prompt with role
// markers, ending with an open Assistant turn.
func flattenPrompt(messages []Message) string {
	var parts []string
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			parts = append(parts, "System Instructions:\n"+msg.Content+"\n")
		case RoleUser:
			parts = append(parts, "User: "+msg.Content+"\n")
		case RoleAssistant:
			parts = append(parts, "Assistant: "+msg.Content+"\n")
		}
	}
	parts = append(parts, "Assistant:")
	return strings.Join(parts, "\n")
}
