package tools

import (
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type MCPRegisterableTool interface {
	Register(server *mcp.Server) (mcpToolInstance *mcp.Tool)
}

// RegisterAll registers the given tools with the MCP server. Every tool here
// needs injected API clients, so the caller constructs them and passes them
// in rather than relying on a package-level registry.
func RegisterAll(server *mcp.Server, tools ...MCPRegisterableTool) {
	for _, tool := range tools {
		mcpToolInstance := tool.Register(server)

		slog.Info("registered tool", "name", mcpToolInstance.Name)
	}
}
