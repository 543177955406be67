// Copyright 2025 The Go MCP SDK Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// RegistrationHandler handles Dynamic Client Registration requests per RFC 7591
type RegistrationHandler struct {
	registry *ClientRegistry
}

// NewRegistrationHandler creates a new DCR handler
func NewRegistrationHandler(registry *ClientRegistry) *RegistrationHandler {
	return &RegistrationHandler{registry: registry}
}

// ServeHTTP implements http.Handler for the /register endpoint
func (h *RegistrationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeOAuthError(w, ErrorInvalidRequest, "Only POST method is allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ClientRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("client registration error", "error", err)
		writeOAuthError(w, ErrorInvalidClientMetadata, "", http.StatusBadRequest)
		return
	}

	client, err := h.registry.Register(req.RedirectURIs)
	if err != nil {
		writeOAuthError(w, ErrorServerError, "Failed to register client", http.StatusInternalServerError)
		return
	}

	resp := ClientRegistrationResponse{
		ClientID:                client.ClientID,
		ClientIDIssuedAt:        client.CreatedAt.Unix(),
		RedirectURIs:            client.RedirectURIs,
		TokenEndpointAuthMethod: "none",
		GrantTypes:              []string{"authorization_code"},
		ResponseTypes:           []string{"code"},
		Scope:                   DefaultScope,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode registration response", "error", err)
	}
}
