package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenRouter talks to OpenRouter's OpenAI-compatible API, trying a list of
// models in order until one answers.
type OpenRouter struct {
	client openai.Client
	models []string
	apiKey string
	logger *slog.Logger
}

// NewOpenRouter builds the provider. An empty apiKey yields a provider that
// reports ErrNotConfigured, so the gateway can skip it.
func NewOpenRouter(baseURL, apiKey string, models []string, logger *slog.Logger) *OpenRouter {
	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithHeader("HTTP-Referer", "http://localhost:3000"),
		option.WithHeader("X-Title", "TodoEvolve"),
	)
	return &OpenRouter{
		client: client,
		models: models,
		apiKey: apiKey,
		logger: logger,
	}
}

func (p *OpenRouter) Name() string { return "OpenRouter" }

// Complete tries each configured model in order and returns the first answer.
func (p *OpenRouter) Complete(ctx context.Context, messages []Message) (string, string, error) {
	if p.apiKey == "" {
		return "", "", ErrNotConfigured
	}

	var lastErr error
	for _, model := range p.models {
		p.logger.Info("trying openrouter model", "model", model)
		resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:       openai.ChatModel(model),
			Messages:    toOpenAIMessages(messages),
			Temperature: openai.Float(0.7),
		})
		if err != nil {
			p.logger.Warn("openrouter model failed", "model", model, "error", err)
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("model %s returned no choices", model)
			continue
		}
		p.logger.Info("openrouter model succeeded", "model", model)
		return resp.Choices[0].Message.Content, "openrouter/" + shortModelName(model), nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no openrouter models configured")
	}
	return "", "", lastErr
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			result[i] = openai.SystemMessage(msg.Content)
		case RoleAssistant:
			result[i] = openai.AssistantMessage(msg.Content)
		default:
			result[i] = openai.UserMessage(msg.Content)
		}
	}
	return result
}

// shortModelName trims the vendor prefix and any variant suffix, turning
// "meta-llama/llama-3.3-70b-instruct:free" into "llama-3.3-70b-instruct".
func shortModelName(model string) string {
	if _, after, ok := strings.Cut(model, "/"); ok {
		model = after
	}
	model, _, _ = strings.Cut(model, ":")
	return model
}
