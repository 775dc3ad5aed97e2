package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

var envTemplateRe = regexp.MustCompile(`\$\{(\w+)\}`)

// Load reads a YAML config file, expands ${VAR} environment templates,
// unmarshals it into Config, and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := expandEnvTemplates(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a config with every default applied, suitable when no
// config file exists. Provider keys come from the environment.
func Default() *Config {
	cfg := &Config{}
	cfg.Providers.OpenRouter.APIKey = os.Getenv("OPEN_ROUTER_KEY")
	cfg.Providers.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	ApplyDefaults(cfg)
	return cfg
}

// expandEnvTemplates replaces ${VAR} with the env var value.
func expandEnvTemplates(s string) string {
	return envTemplateRe.ReplaceAllStringFunc(s, func(match string) string {
		parts := envTemplateRe.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		return os.Getenv(parts[1])
	})
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.ChatRPS == 0 {
		cfg.Server.ChatRPS = 1
	}
	if cfg.Server.ChatBurst == 0 {
		cfg.Server.ChatBurst = 3
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "todoevolve.db"
	}
	if cfg.Auth.Secret == "" {
		cfg.Auth.Secret = os.Getenv("AUTH_SECRET")
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = Duration(24 * time.Hour)
	}
	if cfg.Chat.MaxTurns == 0 {
		cfg.Chat.MaxTurns = 10
	}
	if cfg.Chat.MaxRetries == 0 {
		cfg.Chat.MaxRetries = 2
	}
	if cfg.Chat.Backoff == 0 {
		cfg.Chat.Backoff = Duration(time.Second)
	}
	if cfg.Providers.Timeout == 0 {
		cfg.Providers.Timeout = Duration(60 * time.Second)
	}
	if cfg.Providers.OpenRouter.BaseURL == "" {
		cfg.Providers.OpenRouter.BaseURL = "https://openrouter.ai/api/v1"
	}
	if len(cfg.Providers.OpenRouter.Models) == 0 {
		cfg.Providers.OpenRouter.Models = []string{
			"meta-llama/llama-3.3-70b-instruct",
			"google/gemini-2.0-flash-001",
			"mistralai/mistral-large-2411",
			"openai/gpt-4o-mini",
		}
	}
	if cfg.Providers.Gemini.Model == "" {
		cfg.Providers.Gemini.Model = "gemini-1.5-flash"
	}
	if cfg.Weather.GeocodeURL == "" {
		cfg.Weather.GeocodeURL = "https://geocoding-api.open-meteo.com/v1/search"
	}
	if cfg.Weather.ForecastURL == "" {
		cfg.Weather.ForecastURL = "https://api.open-meteo.com/v1/forecast"
	}
	if cfg.Scheduler.Cron == "" {
		cfg.Scheduler.Cron = "* * * * *"
	}
}
