package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/todoevolve/server/internal/store"
	"github.com/todoevolve/server/internal/weather"
)

// ErrUnknownTool is returned when a model asks for a tool that does not
// exist. Everything else a tool can get wrong is reported inside the
// Result so the conversation loop can keep going.
var ErrUnknownTool = errors.New("unknown tool")

// Result is the JSON document a tool returns. It always carries a "status"
// of "success" or "error", usually a "message", and whatever extra payload
// the tool produces.
type Result map[string]any

// Success builds a success result with a message.
func Success(message string) Result {
	return Result{"status": "success", "message": message}
}

// Errorf builds an error result with a formatted message.
func Errorf(format string, args ...any) Result {
	return Result{"status": "error", "message": fmt.Sprintf(format, args...)}
}

// With adds a payload field and returns the result for chaining.
func (r Result) With(key string, value any) Result {
	r[key] = value
	return r
}

// IsError reports whether the result carries an error status.
func (r Result) IsError() bool {
	return r["status"] == "error"
}

// Handler executes one tool for one user.
type Handler func(ctx context.Context, userID string, args Args) Result

// Executor dispatches tool calls to their handlers. Ownership is enforced
// by passing the authenticated user id into every handler; tool arguments
// never carry identity.
type Executor struct {
	handlers map[string]Handler
	logger   *slog.Logger
}

// NewExecutor wires the full tool set against its collaborators.
func NewExecutor(tasks *store.TaskStore, wc *weather.Client, planner *Planner, logger *slog.Logger) *Executor {
	e := &Executor{
		handlers: make(map[string]Handler),
		logger:   logger,
	}

	th := &taskHandlers{tasks: tasks}
	e.register("add_task", th.add)
	e.register("list_tasks", th.list)
	e.register("complete_task", th.complete)
	e.register("bulk_complete_tasks", th.bulkComplete)
	e.register("delete_task", th.delete)
	e.register("bulk_delete_tasks", th.bulkDelete)
	e.register("update_task", th.update)

	e.register("get_weather", weatherHandler(wc))

	e.register("plan_day", func(ctx context.Context, userID string, args Args) Result {
		return Success(planner.Plan(ctx, userID, args.String("request")))
	})

	registerSkillHandlers(e)
	return e
}

func (e *Executor) register(name string, h Handler) {
	e.handlers[name] = h
}

// Names returns the registered tool names.
func (e *Executor) Names() []string {
	names := make([]string, 0, len(e.handlers))
	for name := range e.handlers {
		names = append(names, name)
	}
	return names
}

// Execute runs one tool call. The error return is non-nil only for an
// unknown tool name; handler-level failures come back as error Results.
func (e *Executor) Execute(ctx context.Context, name, userID string, args Args) (Result, error) {
	h, ok := e.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if args == nil {
		args = Args{}
	}
	e.logger.Info("executing tool", "tool", name, "user_id", userID)
	return h(ctx, userID, args), nil
}
