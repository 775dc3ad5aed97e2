package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the TodoEvolve server.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Chat      ChatConfig      `yaml:"chat"`
	Providers ProvidersConfig `yaml:"providers"`
	Weather   WeatherConfig   `yaml:"weather"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host      string  `yaml:"host"`
	Port      int     `yaml:"port"`
	ChatRPS   float64 `yaml:"chat_rps"`   // per-user rate limit for POST /api/chat
	ChatBurst int     `yaml:"chat_burst"` // per-user burst for POST /api/chat
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig configures token signing.
type AuthConfig struct {
	Secret   string   `yaml:"secret"`
	TokenTTL Duration `yaml:"token_ttl"`
}

// ChatConfig holds conversation loop settings.
type ChatConfig struct {
	MaxTurns   int      `yaml:"max_turns"`   // turn ceiling for one conversation request
	MaxRetries int      `yaml:"max_retries"` // attempts per provider before falling through
	Backoff    Duration `yaml:"backoff"`     // base backoff between retries (sleep backoff×attempt)
}

// ProvidersConfig configures the model provider cascade.
type ProvidersConfig struct {
	Timeout    Duration         `yaml:"timeout"` // per provider call
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Gemini     GeminiConfig     `yaml:"gemini"`
}

// OpenRouterConfig configures the primary (aggregator) provider.
type OpenRouterConfig struct {
	APIKey  string   `yaml:"api_key"`
	BaseURL string   `yaml:"base_url"`
	Models  []string `yaml:"models"` // candidate models, tried in order
}

// GeminiConfig configures the secondary (direct) provider.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// WeatherConfig configures the open-meteo endpoints.
// Overridable mainly so tests can point at a local server.
type WeatherConfig struct {
	GeocodeURL  string `yaml:"geocode_url"`
	ForecastURL string `yaml:"forecast_url"`
}

// SchedulerConfig configures the recurring-task sweep.
type SchedulerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"` // 5-field cron expression
}

// Duration wraps time.Duration for YAML unmarshaling.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	dur, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", node.Value, err)
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}
