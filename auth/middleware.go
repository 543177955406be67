// Copyright 2025 The Go MCP SDK Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"context"
	"net/http"

	sdkauth "github.com/modelcontextprotocol/go-sdk/auth"
)

// Middleware wires the token verifier into the MCP server's HTTP stack.
type Middleware struct {
	config   *Config
	verifier *TokenVerifier
}

// NewMiddleware creates a new OAuth middleware
func NewMiddleware(config *Config, verifier *TokenVerifier) *Middleware {
	return &Middleware{
		config:   config,
		verifier: verifier,
	}
}

// RequireAuth returns HTTP middleware that requires a valid bearer token.
// This wraps the MCP SDK's auth.RequireBearerToken with our verifier; the SDK
// middleware answers missing or rejected tokens with 401 and a
// WWW-Authenticate: Bearer challenge.
// Special handling: token-less GET requests with an MCP session ID pass
// through so SSE reconnects keep working. Session IDs are unguessable and
// only minted on an authenticated initialize, and the MCP handler rejects
// unknown ones; a GET that does present a token is verified like any other
// request.
func (m *Middleware) RequireAuth(scopes []string) func(http.Handler) http.Handler {
	opts := &sdkauth.RequireBearerTokenOptions{
		ResourceMetadataURL: m.config.ServerURL + "/.well-known/oauth-protected-resource/mcp",
		Scopes:              scopes,
	}

	sdkMiddleware := sdkauth.RequireBearerToken(
		func(ctx context.Context, token string, req *http.Request) (*sdkauth.TokenInfo, error) {
			return m.verifier.Verify(ctx, token, req)
		},
		opts,
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet && r.Header.Get("Mcp-Session-Id") != "" &&
				r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			sdkMiddleware(next).ServeHTTP(w, r)
		})
	}
}
