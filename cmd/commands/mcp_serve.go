package commands

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/todoevolve/server/internal/config"
	"github.com/todoevolve/server/internal/llm"
	todomcp "github.com/todoevolve/server/internal/mcp"
	"github.com/todoevolve/server/internal/store"
	"github.com/todoevolve/server/internal/tools"
	"github.com/todoevolve/server/internal/weather"
)

// NewMCPServeCommand returns the mcp-serve subcommand.
func NewMCPServeCommand() *cli.Command {
	return &cli.Command{
		Name:   "mcp-serve",
		Usage:  "Expose TodoEvolve tools as an MCP server (stdio)",
		Action: runMCPServe,
	}
}

func runMCPServe(ctx context.Context, cmd *cli.Command) error {
	// Log to stderr, stdout carries the MCP stdio transport.
	level := slog.LevelWarn
	if cmd.Bool("debug") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		logger.Debug("config not found, using defaults", "path", cmd.String("config"), "error", err)
		cfg = config.Default()
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	providers := []llm.Provider{
		llm.NewOpenRouter(cfg.Providers.OpenRouter.BaseURL, cfg.Providers.OpenRouter.APIKey,
			cfg.Providers.OpenRouter.Models, logger),
		llm.NewGemini(cfg.Providers.Gemini.APIKey, cfg.Providers.Gemini.Model, logger),
	}
	llmGateway := llm.NewGateway(providers, cfg.Chat.MaxRetries,
		time.Duration(cfg.Chat.Backoff), time.Duration(cfg.Providers.Timeout), logger)

	wc := weather.New(cfg.Weather.GeocodeURL, cfg.Weather.ForecastURL)
	planner := tools.NewPlanner(llmGateway, st.Tasks)
	executor := tools.NewExecutor(st.Tasks, wc, planner, logger)

	server := todomcp.NewServer(executor)
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}
