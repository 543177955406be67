// Package finabit is a thin client for the Finabit ERP HTTP API. Everything
// here is a simple fetch(filter) -> records wrapper; business semantics live
// on the server side.
package finabit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Transaction type IDs used by the transactions list endpoint.
const (
	TranTypePurchase = 1
	TranTypeSale     = 2
)

// Client calls the Finabit API with HTTP Basic auth.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// NewClient creates a client for the API at baseURL using the given
// service-account credentials.
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:  baseURL,
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchItems retrieves one page of inventory items plus pagination metadata.
func (c *Client) FetchItems(ctx context.Context, pageNumber, pageSize int) (*ItemsPage, error) {
	params := url.Values{}
	params.Set("pageNumber", strconv.Itoa(pageNumber))
	params.Set("pageSize", strconv.Itoa(pageSize))

	var page ItemsPage
	if err := c.get(ctx, "/api/Items/GetAllItems", params, &page); err != nil {
		return nil, err
	}
	if page.CurrentPage == 0 {
		page.CurrentPage = pageNumber
	}
	if page.TotalCount == 0 {
		page.TotalCount = len(page.Items)
	}
	return &page, nil
}

// FetchSales retrieves the sales transactions in the date range (inclusive).
func (c *Client) FetchSales(ctx context.Context, fromDate, toDate string) ([]Transaction, error) {
	return c.fetchTransactions(ctx, fromDate, toDate, TranTypeSale)
}

// FetchPurchases retrieves the purchase transactions in the date range.
func (c *Client) FetchPurchases(ctx context.Context, fromDate, toDate string) ([]Transaction, error) {
	return c.fetchTransactions(ctx, fromDate, toDate, TranTypePurchase)
}

func (c *Client) fetchTransactions(ctx context.Context, fromDate, toDate string, tranTypeID int) ([]Transaction, error) {
	params := url.Values{}
	params.Set("fromDate", fromDate)
	params.Set("toDate", toDate)
	params.Set("tranTypeID", strconv.Itoa(tranTypeID))

	var rows []transactionRow
	if err := c.get(ctx, "/api/Transactions/TransactionsList", params, &rows); err != nil {
		return nil, err
	}

	transactions := make([]Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, NewTransaction(row))
	}
	return transactions, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
