package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/finabit/mcp-server/finabit"
)

type GetSales struct {
	Name        string
	Description string

	client *finabit.Client
}

// GetSalesParams defines the parameters for the get_sales tool.
type GetSalesParams struct {
	FromDate string `json:"from_date" jsonschema:"Start of the date range (YYYY-MM-DD)"`
	ToDate   string `json:"to_date" jsonschema:"End of the date range (YYYY-MM-DD)"`
}

// NewGetSales creates the sales lookup tool backed by the given API client.
func NewGetSales(client *finabit.Client) *GetSales {
	return &GetSales{
		Name:        "get_sales",
		Description: "Retrieve sales transactions for a date range, one line per invoice item.",
		client:      client,
	}
}

func (tool *GetSales) Action(ctx context.Context, req *mcp.CallToolRequest, params *GetSalesParams) (*mcp.CallToolResult, any, error) {
	if params.FromDate == "" || params.ToDate == "" {
		return nil, nil, fmt.Errorf("from_date and to_date are required")
	}

	sales, err := tool.client.FetchSales(ctx, params.FromDate, params.ToDate)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch sales: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: FormatTransactions("sale", sales, params.FromDate, params.ToDate)},
		},
	}, nil, nil
}

func (tool *GetSales) Register(server *mcp.Server) (mcpToolInstance *mcp.Tool) {
	mcpToolInstance = &mcp.Tool{
		Name:        tool.Name,
		Description: tool.Description,
	}

	mcp.AddTool(server, mcpToolInstance, tool.Action)

	return
}
