package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/todoevolve/server/internal/llm"
	"github.com/todoevolve/server/internal/store"
)

// Completer is the slice of the LLM gateway the planner needs.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) llm.Result
}

const plannerPrompt = `You are a pro-active planning assistant.
Convert the user's request into a list of tasks.
Return STRICTLY a JSON list of objects. No markdown, no prose.
Each object must have:
- title (str)
- description (str, optional)
- priority (high/medium/low)
- tags (list of strings)

Example Input: "Plan my day: Code at 9, Lunch at 12"
Example Output:
[
    {"title": "Code", "description": "at 9", "priority": "high", "tags": ["work"]},
    {"title": "Lunch", "description": "at 12", "priority": "medium", "tags": ["personal"]}
]
`

// Planner turns a free-form "plan my day" request into stored tasks by
// making its own model call. The nested call goes through the same gateway
// cascade but does not consume the outer conversation's turn budget.
type Planner struct {
	gateway Completer
	tasks   *store.TaskStore
}

// NewPlanner builds a planner over the gateway and task store.
func NewPlanner(gateway Completer, tasks *store.TaskStore) *Planner {
	return &Planner{gateway: gateway, tasks: tasks}
}

// Plan generates and stores tasks for the request, returning a user-facing
// summary. Failures are reported in the summary text, never as an error.
func (p *Planner) Plan(ctx context.Context, userID, request string) string {
	res := p.gateway.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: plannerPrompt},
		{Role: llm.RoleUser, Content: request},
	})
	if res.Degraded() {
		return "Failed to generate plan: " + res.Text
	}

	items, err := parsePlanList(res.Text)
	if err != nil {
		return "Failed to generate plan: " + err.Error()
	}
	if items == nil {
		return "No tasks identified in your request."
	}

	var titles []string
	for _, item := range items {
		task := &store.Task{
			UserID:      userID,
			Title:       item.StringOr("title", "Untitled"),
			Description: item.String("description"),
			Priority:    item.StringOr("priority", "medium"),
			Tags:        item.Strings("tags"),
		}
		if err := p.tasks.Create(ctx, task); err != nil {
			return "Failed to generate plan: " + err.Error()
		}
		titles = append(titles, task.Title)
	}
	if len(titles) == 0 {
		return "No tasks identified in your request."
	}
	return fmt.Sprintf("I've created %d tasks for you: %s.", len(titles), strings.Join(titles, ", "))
}

// parsePlanList strips markdown fences and decodes a JSON array of task
// objects. A decoded non-array value is an error, not an empty plan.
func parsePlanList(text string) ([]Args, error) {
	s := strings.TrimSpace(text)
	if strings.Contains(s, "```json") {
		_, after, _ := strings.Cut(s, "```json")
		s, _, _ = strings.Cut(after, "```")
		s = strings.TrimSpace(s)
	} else if strings.Contains(s, "```") {
		_, after, _ := strings.Cut(s, "```")
		s, _, _ = strings.Cut(after, "```")
		s = strings.TrimSpace(s)
	}

	var raw any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, err
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("AI returned %T, expected list", raw)
	}

	var items []Args
	for _, v := range list {
		if obj, ok := v.(map[string]any); ok {
			items = append(items, Args(obj))
		}
	}
	return items, nil
}
