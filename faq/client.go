// Package faq is a client for the FAQ semantic-search service.
package faq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Answer is the best match returned by the knowledge base.
type Answer struct {
	MatchedQuestion string `json:"matched_question"`
	Answer          string `json:"answer"`
}

// Client posts questions to the FAQ service's /ask endpoint.
type Client struct {
	askURL     string
	httpClient *http.Client
}

// NewClient creates a client for the FAQ service. askURL is the full URL of
// the /ask endpoint.
func NewClient(askURL string) *Client {
	return &Client{
		askURL: askURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Ask submits a free-form question and returns the matched FAQ entry.
func (c *Client) Ask(ctx context.Context, question string) (*Answer, error) {
	payload, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return nil, fmt.Errorf("failed to encode question: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.askURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call FAQ service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FAQ service returned status %d", resp.StatusCode)
	}

	var answer Answer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, fmt.Errorf("failed to decode FAQ response: %w", err)
	}
	return &answer, nil
}
