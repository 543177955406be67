package prompts

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterAll registers all prompts with the MCP server
func RegisterAll(server *mcp.Server) {
	// Sales report prompt
	salesPrompt := &mcp.Prompt{
		Name:        "sales-report",
		Description: "Summarize sales activity for a date range",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "from_date",
				Description: "Start of the period (YYYY-MM-DD)",
				Required:    true,
			},
			{
				Name:        "to_date",
				Description: "End of the period (YYYY-MM-DD)",
				Required:    true,
			},
		},
	}

	server.AddPrompt(salesPrompt, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		args := req.Params.Arguments
		fromDate := args["from_date"]
		toDate := args["to_date"]

		message := "Please prepare a sales report for the period " + fromDate + " to " + toDate + ".\n\n"
		message += "Use the get_sales tool to retrieve the transactions, then summarize total value, "
		message += "top products by quantity, and the most active customers."

		return &mcp.GetPromptResult{
			Description: "Sales report request",
			Messages: []*mcp.PromptMessage{
				{
					Role: "user",
					Content: &mcp.TextContent{
						Text: message,
					},
				},
			},
		}, nil
	})

	slog.Info("registered prompt", "name", salesPrompt.Name)

	// Purchases report prompt
	purchasesPrompt := &mcp.Prompt{
		Name:        "purchases-report",
		Description: "Summarize purchase activity for a date range",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "from_date",
				Description: "Start of the period (YYYY-MM-DD)",
				Required:    true,
			},
			{
				Name:        "to_date",
				Description: "End of the period (YYYY-MM-DD)",
				Required:    true,
			},
		},
	}

	server.AddPrompt(purchasesPrompt, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		args := req.Params.Arguments
		fromDate := args["from_date"]
		toDate := args["to_date"]

		message := "Please prepare a purchases report for the period " + fromDate + " to " + toDate + ".\n\n"
		message += "Use the get_purchases tool to retrieve the transactions, then summarize total spend "
		message += "and the largest suppliers."

		return &mcp.GetPromptResult{
			Description: "Purchases report request",
			Messages: []*mcp.PromptMessage{
				{
					Role: "user",
					Content: &mcp.TextContent{
						Text: message,
					},
				},
			},
		}, nil
	})

	slog.Info("registered prompt", "name", purchasesPrompt.Name)

	// Inventory overview prompt
	inventoryPrompt := &mcp.Prompt{
		Name:        "inventory-overview",
		Description: "Browse the item inventory page by page",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "page_number",
				Description: "Page to start from (defaults to 1)",
				Required:    false,
			},
		},
	}

	server.AddPrompt(inventoryPrompt, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		page := req.Params.Arguments["page_number"]
		if page == "" {
			page = "1"
		}

		message := "Show me the item inventory starting at page " + page + ".\n\n"
		message += "Use the get_items tool and highlight inactive items and any items missing barcodes."

		return &mcp.GetPromptResult{
			Description: "Inventory overview request",
			Messages: []*mcp.PromptMessage{
				{
					Role: "user",
					Content: &mcp.TextContent{
						Text: message,
					},
				},
			},
		}, nil
	})

	slog.Info("registered prompt", "name", inventoryPrompt.Name)
}
