// Copyright 2025 The Go MCP SDK Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// FirstPartyClientPrefix marks client IDs that Claude-family agents present
// without performing dynamic registration first. Such IDs are auto-registered
// on first use with a fixed callback allow-list; arbitrary unknown client IDs
// are never auto-registered.
const FirstPartyClientPrefix = "claude_client_"

// TestClientID is the client used by the integration-test flow.
const TestClientID = "test_client"

// claudeRedirectURIs covers the known Claude callback hosts.
var claudeRedirectURIs = []string{
	"https://claude.ai/api/mcp/auth_callback",
	"https://claude.anthropic.com/api/mcp/auth_callback",
	"https://claude.ai/api/mcp/oauth/callback",
	"https://claude.anthropic.com/api/mcp/oauth/callback",
}

// ClientRegistry is the in-memory mapping of client_id to registered client.
// Lifecycle is the process lifetime; clients are never deleted.
type ClientRegistry struct {
	mu        sync.RWMutex
	serverURL string
	clients   map[string]*Client
}

// NewClientRegistry creates an empty registry. serverURL is used to build the
// test client's own-host callback entry.
func NewClientRegistry(serverURL string) *ClientRegistry {
	return &ClientRegistry{
		serverURL: serverURL,
		clients:   make(map[string]*Client),
	}
}

// Register creates a client with a fresh unpredictable client_id and stores
// the requested redirect URIs verbatim.
func (r *ClientRegistry) Register(redirectURIs []string) (*Client, error) {
	id, err := generateClientID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate client ID: %w", err)
	}

	client := &Client{
		ClientID:     id,
		RedirectURIs: append([]string(nil), redirectURIs...),
		CreatedAt:    time.Now(),
	}

	r.mu.Lock()
	r.clients[id] = client
	r.mu.Unlock()

	slog.Info("registered OAuth client", "client_id", id)
	return client.clone(), nil
}

// EnsureRegistered reports whether clientID resolves to a registered client,
// auto-registering recognized first-party IDs on first use.
func (r *ClientRegistry) EnsureRegistered(clientID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[clientID]; ok {
		return true
	}

	switch {
	case strings.HasPrefix(clientID, FirstPartyClientPrefix):
		r.clients[clientID] = &Client{
			ClientID:     clientID,
			RedirectURIs: append([]string(nil), claudeRedirectURIs...),
			CreatedAt:    time.Now(),
		}
		slog.Info("auto-registered Claude client", "client_id", clientID)
		return true
	case clientID == TestClientID:
		r.clients[clientID] = &Client{
			ClientID: clientID,
			RedirectURIs: []string{
				"http://localhost:3000/callback",
				"https://localhost:3000/callback",
				"http://127.0.0.1:3000/callback",
				"https://httpbin.org/get", // shows the callback data during manual testing
				r.serverURL + "/test-callback",
			},
			CreatedAt: time.Now(),
		}
		slog.Info("auto-registered test client", "client_id", clientID)
		return true
	}

	return false
}

// Lookup retrieves a client by client ID.
func (r *ClientRegistry) Lookup(clientID string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[clientID]
	if !ok {
		return nil, false
	}
	return client.clone(), true
}

// AllowsRedirectURI checks uri against the client's registered list.
// Exact match only; no wildcard or prefix matching.
func (c *Client) AllowsRedirectURI(uri string) bool {
	for _, allowed := range c.RedirectURIs {
		if uri == allowed {
			return true
		}
	}
	return false
}

// clone returns a copy to prevent external modifications of stored state.
func (c *Client) clone() *Client {
	cp := *c
	cp.RedirectURIs = append([]string(nil), c.RedirectURIs...)
	return &cp
}

// generateClientID generates a first-party-prefixed random client ID.
func generateClientID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return FirstPartyClientPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}
