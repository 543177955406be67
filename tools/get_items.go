package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/finabit/mcp-server/finabit"
)

type GetItems struct {
	Name        string
	Description string

	client *finabit.Client
}

// GetItemsParams defines the parameters for the get_items tool.
type GetItemsParams struct {
	PageNumber int `json:"page_number,omitempty" jsonschema:"Page to fetch, starting at 1"`
	PageSize   int `json:"page_size,omitempty" jsonschema:"Number of items per page (default 20)"`
}

// NewGetItems creates the items lookup tool backed by the given API client.
func NewGetItems(client *finabit.Client) *GetItems {
	return &GetItems{
		Name:        "get_items",
		Description: "Retrieve a paginated list of items plus pagination metadata (total_count, total_pages, current_page).",
		client:      client,
	}
}

func (tool *GetItems) Action(ctx context.Context, req *mcp.CallToolRequest, params *GetItemsParams) (*mcp.CallToolResult, any, error) {
	pageNumber := params.PageNumber
	if pageNumber < 1 {
		pageNumber = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	page, err := tool.client.FetchItems(ctx, pageNumber, pageSize)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch items: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: FormatItems(page)},
		},
	}, nil, nil
}

func (tool *GetItems) Register(server *mcp.Server) (mcpToolInstance *mcp.Tool) {
	mcpToolInstance = &mcp.Tool{
		Name:        tool.Name,
		Description: tool.Description,
	}

	mcp.AddTool(server, mcpToolInstance, tool.Action)

	return
}
