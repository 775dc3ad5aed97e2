package tools

import (
	"encoding/json"
	"strings"
)

// Descriptor declares one tool: its name, what it does, and a JSON Schema
// for its arguments. The catalog is rendered into the system prompt and
// exported over MCP, so both surfaces stay in sync.
type Descriptor struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// Catalog returns every tool the assistant can call.
func Catalog() []Descriptor {
	return []Descriptor{
		{
			Name:        "add_task",
			Description: "Create a new task",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":       map[string]any{"type": "string", "description": "Task title"},
					"description": map[string]any{"type": "string", "description": "Task description"},
					"priority":    map[string]any{"type": "string", "enum": []string{"high", "medium", "low"}},
					"tags":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
				"required": []string{"title"},
			},
		},
		{
			Name:        "list_tasks",
			Description: "List current tasks",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"status": map[string]any{"type": "string", "enum": []string{"all", "pending", "completed"}},
					"limit":  map[string]any{"type": "integer", "default": 20},
				},
			},
		},
		{
			Name:        "complete_task",
			Description: "Mark a task as complete or incomplete",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_id":   map[string]any{"type": "integer", "description": "ID of task to toggle"},
					"completed": map[string]any{"type": "boolean", "description": "True to mark complete, False for incomplete"},
				},
				"required": []string{"task_id"},
			},
		},
		{
			Name:        "bulk_complete_tasks",
			Description: "Mark multiple tasks as complete or incomplete",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_ids":  map[string]any{"type": "array", "items": map[string]any{"type": "integer"}, "description": "List of task IDs"},
					"completed": map[string]any{"type": "boolean", "description": "True to mark complete, False to mark incomplete"},
				},
				"required": []string{"task_ids"},
			},
		},
		{
			Name:        "delete_task",
			Description: "Delete a task by ID or title",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_id": map[string]any{"type": "integer", "description": "ID of task to delete"},
					"title":   map[string]any{"type": "string", "description": "Title of task to delete (fuzzy match)"},
				},
			},
		},
		{
			Name:        "bulk_delete_tasks",
			Description: "Delete multiple tasks by ID",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_ids": map[string]any{"type": "array", "items": map[string]any{"type": "integer"}, "description": "List of task IDs to delete"},
				},
				"required": []string{"task_ids"},
			},
		},
		{
			Name:        "update_task",
			Description: "Update a task's title, description, or priority",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_id":     map[string]any{"type": "integer", "description": "ID of task to update"},
					"title":       map[string]any{"type": "string", "description": "New title"},
					"description": map[string]any{"type": "string", "description": "New description"},
					"priority":    map[string]any{"type": "string", "enum": []string{"high", "medium", "low"}},
				},
				"required": []string{"task_id"},
			},
		},
		{
			Name:        "get_weather",
			Description: "Get current weather for a city",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"city": map[string]any{"type": "string", "description": "City name (e.g. Karachi, London)"},
				},
				"required": []string{"city"},
			},
		},
		{
			Name:        "plan_day",
			Description: "Intelligently plan the day and create multiple tasks based on user request",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"request": map[string]any{"type": "string", "description": "User's request (e.g., 'Plan my day with gym at 9 and work at 10')"},
				},
				"required": []string{"request"},
			},
		},
		{
			Name:        "detect_language",
			Description: "Detect language of text (ur/en)",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text": map[string]any{"type": "string", "description": "Text to analyze"},
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        "suggest_priority",
			Description: "Suggest priority based on content",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text": map[string]any{"type": "string", "description": "Task description or context"},
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        "schedule_reminder",
			Description: "Parse recurrence or due dates",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text": map[string]any{"type": "string", "description": "Time-related text (tomorrow, next week)"},
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        "get_deployment_blueprint",
			Description: "Get K8s deployment YAML",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"type": map[string]any{"type": "string", "description": "Blueprint type (minimal, scale)"},
				},
				"required": []string{"type"},
			},
		},
	}
}

// RenderDefinitions formats the catalog as plain text for the system prompt.
func RenderDefinitions(descriptors []Descriptor) string {
	var b strings.Builder
	for _, d := range descriptors {
		schema, _ := json.Marshal(d.InputSchema)
		b.WriteString("Tool: " + d.Name + "\n")
		b.WriteString("Description: " + d.Description + "\n")
		b.WriteString("Input Schema: " + string(schema) + "\n")
		b.WriteString("---\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
