package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/finabit/mcp-server/finabit"
)

type GetPurchases struct {
	Name        string
	Description string

	client *finabit.Client
}

// GetPurchasesParams defines the parameters for the get_purchases tool.
type GetPurchasesParams struct {
	FromDate string `json:"from_date" jsonschema:"Start of the date range (YYYY-MM-DD)"`
	ToDate   string `json:"to_date" jsonschema:"End of the date range (YYYY-MM-DD)"`
}

// NewGetPurchases creates the purchases lookup tool backed by the given API client.
func NewGetPurchases(client *finabit.Client) *GetPurchases {
	return &GetPurchases{
		Name:        "get_purchases",
		Description: "Retrieve purchase transactions for a date range, one line per invoice item.",
		client:      client,
	}
}

func (tool *GetPurchases) Action(ctx context.Context, req *mcp.CallToolRequest, params *GetPurchasesParams) (*mcp.CallToolResult, any, error) {
	if params.FromDate == "" || params.ToDate == "" {
		return nil, nil, fmt.Errorf("from_date and to_date are required")
	}

	purchases, err := tool.client.FetchPurchases(ctx, params.FromDate, params.ToDate)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch purchases: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: FormatTransactions("purchase", purchases, params.FromDate, params.ToDate)},
		},
	}, nil, nil
}

func (tool *GetPurchases) Register(server *mcp.Server) (mcpToolInstance *mcp.Tool) {
	mcpToolInstance = &mcp.Tool{
		Name:        tool.Name,
		Description: tool.Description,
	}

	mcp.AddTool(server, mcpToolInstance, tool.Action)

	return
}
