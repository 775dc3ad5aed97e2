package commands

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v3"

	"github.com/todoevolve/server/internal/auth"
	"github.com/todoevolve/server/internal/chat"
	"github.com/todoevolve/server/internal/config"
	"github.com/todoevolve/server/internal/gateway"
	"github.com/todoevolve/server/internal/llm"
	"github.com/todoevolve/server/internal/metrics"
	"github.com/todoevolve/server/internal/scheduler"
	"github.com/todoevolve/server/internal/store"
	"github.com/todoevolve/server/internal/tools"
	"github.com/todoevolve/server/internal/weather"
)

// NewServeCommand returns the serve subcommand.
func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the TodoEvolve API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to listen on",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on",
			},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	logger := setupLogger(cmd.Bool("debug"))

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		logger.Warn("config not found, using defaults", "path", cmd.String("config"), "error", err)
		cfg = config.Default()
	}
	if cmd.IsSet("host") {
		cfg.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Server.Port = cmd.Int("port")
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	m := metrics.New()
	authenticator := auth.New(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTL))

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
	engine := chat.NewEngine(llmGateway, executor, st.History, cfg.Chat.MaxTurns, logger)

	if cfg.Scheduler.Enabled {
		sched := scheduler.New(st.Tasks, m.TasksRegenerated, logger)
		if err := sched.Start(cfg.Scheduler.Cron); err != nil {
			return err
		}
		defer sched.Stop()
	}

	server := gateway.NewServer(st, authenticator, engine, m,
		cfg.Server.Host, cfg.Server.Port, cfg.Server.ChatRPS, cfg.Server.ChatBurst, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func setupLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
	return logger
}
