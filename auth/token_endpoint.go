// Copyright 2025 The Go MCP SDK Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// TokenEndpointHandler handles the authorization-code exchange (POST /token).
type TokenEndpointHandler struct {
	config *Config
	store  SessionStore
	tokens *TokenService
}

// NewTokenEndpointHandler creates a new token endpoint handler
func NewTokenEndpointHandler(config *Config, store SessionStore, tokens *TokenService) *TokenEndpointHandler {
	return &TokenEndpointHandler{
		config: config,
		store:  store,
		tokens: tokens,
	}
}

// tokenRequest is the token exchange request, accepted form-encoded or JSON.
type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	Code         string `json:"code"`
	CodeVerifier string `json:"code_verifier"`
	RedirectURI  string `json:"redirect_uri"`
	ClientID     string `json:"client_id"`
}

// ServeHTTP implements http.Handler
func (h *TokenEndpointHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeOAuthError(w, ErrorInvalidRequest, "Only POST method is allowed", http.StatusMethodNotAllowed)
		return
	}

	req, err := parseTokenRequest(r)
	if err != nil {
		writeOAuthError(w, ErrorInvalidRequest, err.Error(), http.StatusBadRequest)
		return
	}

	slog.Info("token request", "grant_type", req.GrantType, "client_id", req.ClientID)

	if req.GrantType != "authorization_code" {
		writeOAuthError(w, ErrorUnsupportedGrantType,
			fmt.Sprintf("Grant type '%s' not supported", req.GrantType), http.StatusBadRequest)
		return
	}

	if req.Code == "" {
		writeOAuthError(w, ErrorInvalidRequest, "Missing authorization code", http.StatusBadRequest)
		return
	}

	codeInfo, err := h.store.GetCode(req.Code)
	if err != nil {
		// Expired codes have already been removed by GetCode, so a retry
		// gets this same error rather than a different one.
		slog.Error("authorization code rejected", "error", err)
		writeOAuthError(w, ErrorInvalidGrant, "Authorization code not found or expired", http.StatusBadRequest)
		return
	}

	// PKCE is verified only when the client presents a verifier. Skipping
	// verification for verifier-less exchanges is a deliberate compatibility
	// allowance for legacy agent clients; it weakens code-interception
	// protection and exists only because those clients cannot send one.
	if req.CodeVerifier != "" && !VerifyCodeChallenge(req.CodeVerifier, codeInfo.CodeChallenge) {
		writeOAuthError(w, ErrorInvalidGrant, "PKCE verification failed", http.StatusBadRequest)
		return
	}

	// Single use: of two concurrent exchanges of the same code, only the one
	// that actually removes it proceeds.
	if !h.store.DeleteCode(req.Code) {
		writeOAuthError(w, ErrorInvalidGrant, "Authorization code not found or expired", http.StatusBadRequest)
		return
	}

	scopes := strings.Fields(codeInfo.Scope)
	ttl := h.config.TokenTTL()

	accessToken, err := h.tokens.Issue(codeInfo.UserID, scopes, ttl)
	if err != nil {
		// Unexpected failures during the exchange surface as invalid_request
		// with the error text rather than an opaque 500.
		slog.Error("token issuance failed", "error", err)
		writeOAuthError(w, ErrorInvalidRequest, err.Error(), http.StatusBadRequest)
		return
	}

	if codeInfo.UserID == TestUserID {
		h.store.PutTestToken(accessToken, &TestTokenRecord{
			UserID:    TestUserID,
			Scope:     codeInfo.Scope,
			ExpiresAt: time.Now().Add(ttl),
		})
	}

	slog.Info("issued access token", "user_id", codeInfo.UserID, "scope", codeInfo.Scope)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	w.WriteHeader(http.StatusOK)

	resp := TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int(ttl.Seconds()),
		Scope:       codeInfo.Scope,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode token response", "error", err)
	}
}

// parseTokenRequest accepts either a form-encoded or a JSON body.
func parseTokenRequest(r *http.Request) (*tokenRequest, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var req tokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		return &req, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form data: %w", err)
	}
	return &tokenRequest{
		GrantType:    r.FormValue("grant_type"),
		Code:         r.FormValue("code"),
		CodeVerifier: r.FormValue("code_verifier"),
		RedirectURI:  r.FormValue("redirect_uri"),
		ClientID:     r.FormValue("client_id"),
	}, nil
}

// writeOAuthError sends a structured OAuth error response.
func writeOAuthError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)

	resp := OAuthError{
		Error:            errorCode,
		ErrorDescription: description,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
