package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/todoevolve/server/internal/llm"
	"github.com/todoevolve/server/internal/store"
	"github.com/todoevolve/server/internal/tools"
)

const systemPromptTemplate = `You are TodoEvolve, a smart, productivity-focused AI assistant.
Your goal is to help users manage their tasks efficiently using the available tools.

You have access to:
{tool_definitions}

### RULES:
1. **Always use tools** to perform actions. Do not just say you did it.
2. **Context Awareness**: To act on specific tasks (delete/complete/update), first call ` + "`list_tasks`" + ` to find their IDs. Then, in the NEXT turn, use ` + "`bulk_delete_tasks`" + ` or ` + "`bulk_complete_tasks`" + ` to perform the action on all identified tasks at once. Do NOT guess IDs.
3. **Format**: To call a tool, reply with JUST the JSON object:
{
    "tool": "tool_name",
    "arguments": { ... }
}
4. If asked about weather, use ` + "`get_weather`" + `.
5. If the user asks to "Plan my day" or generate a schedule, use ` + "`plan_day`" + `.
6. Be concise and helpful.
7. **Natural Language**: When listing tasks or plans, use natural language (e.g., "Meeting at 2 PM"). NEVER show internal IDs (like "ID: 109") to the user unless explicitly asked for debugging. Keep IDs internal for tool use only.

Current Context:
User ID: {user_id}
Language: {language}
`

// ceilingMessage is returned when the model keeps calling tools until the
// turn budget runs out. It is not persisted to history.
const ceilingMessage = "Done! I've completed all the requested actions. Let me know if you need anything else!"

// Completer is the slice of the LLM gateway the engine needs.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) llm.Result
}

// ToolRunner executes one named tool for a user.
type ToolRunner interface {
	Execute(ctx context.Context, name, userID string, args tools.Args) (tools.Result, error)
}

// Reply is the outcome of one user message after the tool loop settles.
type Reply struct {
	Response        string `json:"response"`
	ActionPerformed bool   `json:"action_performed"`
	Tool            string `json:"tool,omitempty"`
	Model           string `json:"model,omitempty"`
}

// Engine drives the tool-calling conversation loop: ask the model, execute
// any tool it requests, feed the output back, and repeat until the model
// answers in prose or the turn budget is spent.
type Engine struct {
	gateway  Completer
	executor ToolRunner
	history  *store.HistoryStore
	maxTurns int
	logger   *slog.Logger
}

// NewEngine wires the loop. maxTurns bounds tool round-trips per message.
func NewEngine(gateway Completer, executor ToolRunner, history *store.HistoryStore, maxTurns int, logger *slog.Logger) *Engine {
	return &Engine{
		gateway:  gateway,
		executor: executor,
		history:  history,
		maxTurns: maxTurns,
		logger:   logger,
	}
}

// Send processes one user message. Only the incoming message and the final
// text answer are persisted; intermediate tool traffic stays in memory.
func (e *Engine) Send(ctx context.Context, userID, message, language string) (*Reply, error) {
	exchangeID := uuid.NewString()
	log := e.logger.With("exchange_id", exchangeID, "user_id", userID)

	if err := e.history.Append(ctx, userID, llm.RoleUser, message, ""); err != nil {
		return nil, err
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: e.systemPrompt(userID, language)},
		{Role: llm.RoleUser, Content: message},
	}

	actionPerformed := false
	lastTool := ""
	lastModel := ""

	for turn := 1; turn <= e.maxTurns; turn++ {
		log.Info("requesting completion", "turn", turn)

		res := e.gateway.Complete(ctx, messages)
		lastModel = res.Provider

		invocation, ok := ParseToolCall(res.Text)
		if !ok {
			// Prose means a final answer, including the degraded apology.
			if err := e.history.Append(ctx, userID, llm.RoleAssistant, res.Text, ""); err != nil {
				return nil, err
			}
			return &Reply{
				Response:        res.Text,
				ActionPerformed: actionPerformed,
				Tool:            lastTool,
				Model:           lastModel,
			}, nil
		}

		result, err := e.executor.Execute(ctx, invocation.Tool, userID, tools.Args(invocation.Arguments))
		if err != nil {
			return nil, err
		}
		actionPerformed = true
		lastTool = invocation.Tool

		output, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}
		messages = append(messages,
			llm.Message{Role: llm.RoleAssistant, Content: res.Text},
			llm.Message{Role: llm.RoleUser, Content: "Tool Output: " + string(output)},
		)
	}

	return &Reply{
		Response:        ceilingMessage,
		ActionPerformed: true,
		Tool:            lastTool,
		Model:           lastModel,
	}, nil
}

func (e *Engine) systemPrompt(userID, language string) string {
	return strings.NewReplacer(
		"{tool_definitions}", tools.RenderDefinitions(tools.Catalog()),
		"{user_id}", userID,
		"{language}", language,
	).Replace(systemPromptTemplate)
}
