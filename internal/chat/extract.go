package chat

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ToolInvocation is the structured tool call a model emits as JSON.
type ToolInvocation struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

var jsonObjectRe = regexp.MustCompile(`(?s)(\{.*\})`)

// ExtractJSON pulls a JSON object out of model output, tolerating markdown
// fences and surrounding prose. It tries, in order: the whole text, a
// ```json fence, any fence, and finally a greedy outermost-braces match.
// Returns nil if no JSON object can be recovered, which the caller treats
// as a final text answer.
func ExtractJSON(text string) map[string]any {
	if obj := tryUnmarshal(text); obj != nil {
		return obj
	}

	if strings.Contains(text, "```json") {
		block := fenceContent(text, "```json")
		if obj := tryUnmarshal(block); obj != nil {
			return obj
		}
	} else if strings.Contains(text, "```") {
		block := fenceContent(text, "```")
		if obj := tryUnmarshal(block); obj != nil {
			return obj
		}
	}

	if match := jsonObjectRe.FindString(text); match != "" {
		if obj := tryUnmarshal(match); obj != nil {
			return obj
		}
	}

	return nil
}

// ParseToolCall interprets model output as a tool invocation. The second
// return is false when the output is a final answer instead.
func ParseToolCall(text string) (*ToolInvocation, bool) {
	obj := ExtractJSON(text)
	if obj == nil {
		return nil, false
	}
	name, _ := obj["tool"].(string)
	if name == "" {
		return nil, false
	}
	args, _ := obj["arguments"].(map[string]any)
	if args == nil {
		args = map[string]any{}
	}
	return &ToolInvocation{Tool: name, Arguments: args}, true
}

func tryUnmarshal(s string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &obj); err != nil {
		return nil
	}
	return obj
}

// fenceContent returns the text between the opening fence marker and the
// next closing fence.
func fenceContent(text, marker string) string {
	_, after, ok := strings.Cut(text, marker)
	if !ok {
		return ""
	}
	content, _, _ := strings.Cut(after, "```")
	return strings.TrimSpace(content)
}
