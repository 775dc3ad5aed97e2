package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// DegradedMessage is returned to the user when every provider has failed.
const DegradedMessage = "I'm currently experiencing high demand on my AI services. Please try again in a few minutes."

// DegradedProvider is the provider label on a degraded Result.
const DegradedProvider = "fallback"

// Status of a gateway completion.
type Status string

const (
	// StatusOK means a real provider answered.
	StatusOK Status = "ok"
	// StatusDegraded means every provider failed and Text is a canned apology.
	StatusDegraded Status = "degraded"
)

// Result is the outcome of a completion. The gateway never returns an error:
// total provider outage degrades into a usable Result instead, with Cause
// holding the last underlying failure for logging.
type Result struct {
	Text     string
	Provider string
	Status   Status
	Cause    error
}

// Degraded reports whether this result is the canned outage response.
func (r Result) Degraded() bool { return r.Status == StatusDegraded }

// Gateway runs an ordered provider cascade with per-provider retries.
// A rate-limited provider is abandoned immediately in favor of the next one.
type Gateway struct {
	providers  []Provider
	maxRetries int
	backoff    time.Duration
	timeout    time.Duration
	logger     *slog.Logger

	// sleep is overridable in tests.
	sleep func(time.Duration)
}

// NewGateway builds a gateway over the given providers, tried in order.
func NewGateway(providers []Provider, maxRetries int, backoff, timeout time.Duration, logger *slog.Logger) *Gateway {
	return &Gateway{
		providers:  providers,
		maxRetries: maxRetries,
		backoff:    backoff,
		timeout:    timeout,
		logger:     logger,
		sleep:      time.Sleep,
	}
}

// Complete asks each provider in turn, retrying transient failures with a
// linearly growing backoff. Unconfigured providers are skipped. If every
// provider fails the Result is degraded rather than an error.
func (g *Gateway) Complete(ctx context.Context, messages []Message) Result {
	var lastErr error

	for _, provider := range g.providers {
		for attempt := 0; attempt < g.maxRetries; attempt++ {
			text, model, err := g.completeOne(ctx, provider, messages)
			if err == nil {
				return Result{Text: text, Provider: model, Status: StatusOK}
			}
			if errors.Is(err, ErrNotConfigured) {
				g.logger.Info("provider not configured, skipping", "provider", provider.Name())
				break
			}

			lastErr = err
			g.logger.Warn("provider attempt failed",
				"provider", provider.Name(), "attempt", attempt+1, "error", err)

			if isRateLimited(err) {
				g.logger.Info("rate limit detected, switching provider", "provider", provider.Name())
				break
			}
			if attempt < g.maxRetries-1 {
				g.sleep(g.backoff * time.Duration(attempt+1))
			}
		}
	}

	g.logger.Error("all providers failed", "error", lastErr)
	return Result{
		Text:     DegradedMessage,
		Provider: DegradedProvider,
		Status:   StatusDegraded,
		Cause:    lastErr,
	}
}

func (g *Gateway) completeOne(ctx context.Context, provider Provider, messages []Message) (string, string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	return provider.Complete(ctx, messages)
}
