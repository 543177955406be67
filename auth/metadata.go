// Copyright 2025 The Go MCP SDK Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"encoding/json"
	"net/http"
)

// AuthServerMetadataHandler serves the Authorization Server Metadata document
// at /.well-known/oauth-authorization-server (and its /mcp variant).
type AuthServerMetadataHandler struct {
	config *Config
}

// NewAuthServerMetadataHandler creates a new handler for auth server metadata
func NewAuthServerMetadataHandler(config *Config) *AuthServerMetadataHandler {
	return &AuthServerMetadataHandler{config: config}
}

// ServeHTTP implements http.Handler
func (h *AuthServerMetadataHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	metadata := AuthServerMetadata{
		Issuer:                h.config.ServerURL,
		AuthorizationEndpoint: h.config.ServerURL + "/authorize",
		TokenEndpoint:         h.config.ServerURL + "/token",
		RegistrationEndpoint:  h.config.ServerURL + "/register",
		ScopesSupported:       h.config.ScopesSupported,
		ResponseTypesSupported: []string{
			"code",
		},
		GrantTypesSupported: []string{
			"authorization_code",
		},
		TokenEndpointAuthMethodsSupported: []string{
			"none",
		},
		CodeChallengeMethodsSupported: []string{
			"S256",
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600") // Cache for 1 hour

	if err := json.NewEncoder(w).Encode(metadata); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ProtectedResourceMetadataHandler serves OAuth 2.0 Protected Resource
// Metadata per RFC 9728 for the MCP endpoint.
type ProtectedResourceMetadataHandler struct {
	config *Config
}

// NewProtectedResourceMetadataHandler creates a new handler for protected resource metadata
func NewProtectedResourceMetadataHandler(config *Config) *ProtectedResourceMetadataHandler {
	return &ProtectedResourceMetadataHandler{config: config}
}

// ServeHTTP implements http.Handler
func (h *ProtectedResourceMetadataHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	metadata := ProtectedResourceMetadata{
		Resource: h.config.ServerURL + "/mcp",
		AuthorizationServers: []string{
			h.config.ServerURL,
		},
		ScopesSupported: h.config.ScopesSupported,
		BearerMethodsSupported: []string{
			"header",
		},
		ResourceDocumentation: h.config.ServerURL + "/docs",
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600") // Cache for 1 hour

	if err := json.NewEncoder(w).Encode(metadata); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
