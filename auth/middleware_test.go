// Copyright 2025 The Go MCP SDK Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiddlewareFixture(t *testing.T) (*Middleware, *TokenService) {
	t.Helper()

	config := &Config{
		ServerURL:        "http://localhost:8080",
		InstallKey:       testInstallKey,
		TokenExpiryHours: 1,
		ScopesSupported:  []string{DefaultScope},
	}
	tokens := NewTokenService(newTestKeys(t))
	verifier := NewTokenVerifier(NewMemorySessionStore(), tokens)
	return NewMiddleware(config, verifier), tokens
}

func serveProtected(m *Middleware, req *http.Request) (*httptest.ResponseRecorder, *bool) {
	reached := false
	handler := m.RequireAuth([]string{DefaultScope})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, &reached
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	m, _ := newMiddlewareFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	rec, reached := serveProtected(m, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	m, tokens := newMiddlewareFixture(t)

	token, err := tokens.Issue(42, []string{DefaultScope}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec, reached := serveProtected(m, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}

func TestRequireAuthTokenlessSessionGetPassesThrough(t *testing.T) {
	m, _ := newMiddlewareFixture(t)

	// SSE reconnects carry only the session ID; the MCP handler validates it.
	req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	req.Header.Set("Mcp-Session-Id", "session-from-initialize")
	_, reached := serveProtected(m, req)

	assert.True(t, *reached)
}

func TestRequireAuthSessionGetWithTokenIsVerified(t *testing.T) {
	m, tokens := newMiddlewareFixture(t)

	// A forged token on a session GET must not slip past verification.
	forger := NewTokenService(newTestKeys(t))
	forged, err := forger.Issue(42, nil, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	req.Header.Set("Mcp-Session-Id", "session-from-initialize")
	req.Header.Set("Authorization", "Bearer "+forged)
	rec, reached := serveProtected(m, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)

	req = httptest.NewRequest(http.MethodGet, "/mcp", nil)
	req.Header.Set("Mcp-Session-Id", "session-from-initialize")
	valid, err := tokens.Issue(42, []string{DefaultScope}, time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+valid)
	rec, reached = serveProtected(m, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}
