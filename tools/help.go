package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/finabit/mcp-server/faq"
)

type Help struct {
	Name        string
	Description string

	client *faq.Client
}

// HelpParams defines the parameters for the help tool.
type HelpParams struct {
	Question string `json:"question" jsonschema:"Free-form question about using the system"`
}

// NewHelp creates the FAQ lookup tool backed by the given FAQ client.
func NewHelp(client *faq.Client) *Help {
	return &Help{
		Name:        "help",
		Description: "Answer a usage question by looking up the closest match in the FAQ knowledge base.",
		client:      client,
	}
}

func (tool *Help) Action(ctx context.Context, req *mcp.CallToolRequest, params *HelpParams) (*mcp.CallToolResult, any, error) {
	if params.Question == "" {
		return nil, nil, fmt.Errorf("question is required")
	}

	answer, err := tool.client.Ask(ctx, params.Question)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query FAQ service: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: FormatAnswer(answer)},
		},
	}, nil, nil
}

func (tool *Help) Register(server *mcp.Server) (mcpToolInstance *mcp.Tool) {
	mcpToolInstance = &mcp.Tool{
		Name:        tool.Name,
		Description: tool.Description,
	}

	mcp.AddTool(server, mcpToolInstance, tool.Action)

	return
}
