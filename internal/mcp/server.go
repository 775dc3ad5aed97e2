// Package mcp exposes the TodoEvolve tool catalog as an MCP server.
package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/todoevolve/server/internal/tools"
)

// LocalUser is the caller identity for tools invoked over MCP, where there
// is no authenticated session.
const LocalUser = "user_123"

// NewServer builds an MCP server over the shared tool catalog. The same
// executor serves both the chat loop and MCP clients, so the tool surfaces
// never drift apart.
func NewServer(executor *tools.Executor) *mcpsdk.Server {
	server := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    "todo-evolve-mcp",
		Version: "1.0.0",
	}, nil)

	for _, descriptor := range tools.Catalog() {
		name := descriptor.Name

		server.AddTool(&mcpsdk.Tool{
			Name:        descriptor.Name,
			Description: descriptor.Description,
			InputSchema: descriptor.InputSchema,
		}, func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			var args tools.Args
			if len(req.Params.Arguments) > 0 {
				if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
					return &mcpsdk.CallToolResult{
						IsError: true,
						Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: "invalid arguments: " + err.Error()}},
					}, nil
				}
			}

			result, err := executor.Execute(ctx, name, LocalUser, args)
			if err != nil {
				slog.Debug("mcp tool error", "tool", name, "error", err)
				return &mcpsdk.CallToolResult{
					IsError: true,
					Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
				}, nil
			}

			payload, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return nil, err
			}
			return &mcpsdk.CallToolResult{
				IsError: result.IsError(),
				Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(payload)}},
			}, nil
		})

		slog.Debug("mcp tool registered", "tool", name)
	}

	return server
}
