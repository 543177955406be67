// Copyright 2025 The Go MCP SDK Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	sdkauth "github.com/modelcontextprotocol/go-sdk/auth"
)

// TokenVerifier validates bearer tokens presented on MCP tool calls. It
// implements the MCP SDK's auth.TokenVerifier contract.
//
// Tokens issued to the test identity are tracked in the session store and
// checked against the record's own expiry before any cryptographic check, so
// they can be expired or revoked independently of signature validity. All
// other tokens are verified by RS256 signature and exp claim.
type TokenVerifier struct {
	store  SessionStore
	tokens *TokenService
}

// NewTokenVerifier creates a new bearer-token verifier.
func NewTokenVerifier(store SessionStore, tokens *TokenService) *TokenVerifier {
	return &TokenVerifier{
		store:  store,
		tokens: tokens,
	}
}

// Verify implements auth.TokenVerifier.
// This is called by the MCP SDK's RequireBearerToken middleware.
func (v *TokenVerifier) Verify(_ context.Context, token string, _ *http.Request) (*sdkauth.TokenInfo, error) {
	rec, err := v.store.GetTestToken(token)
	switch {
	case err == nil:
		slog.Info("valid MCP request from test user")
		return &sdkauth.TokenInfo{
			Scopes:     scopesOrDefault(rec.Scope),
			Expiration: rec.ExpiresAt,
			Extra: map[string]any{
				"user_id": rec.UserID,
			},
		}, nil
	case errors.Is(err, ErrExpired):
		return nil, fmt.Errorf("%w: token expired", sdkauth.ErrInvalidToken)
	}

	claims, err := v.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", sdkauth.ErrInvalidToken)
		}
		return nil, fmt.Errorf("%w: %v", sdkauth.ErrInvalidToken, err)
	}

	slog.Info("valid MCP request", "user_id", claims.UserID)
	return &sdkauth.TokenInfo{
		Scopes:     claims.Scopes,
		Expiration: claims.ExpiresAt,
		Extra: map[string]any{
			"user_id": claims.UserID,
		},
	}, nil
}

func scopesOrDefault(scope string) []string {
	scopes := strings.Fields(scope)
	if len(scopes) == 0 {
		return []string{DefaultScope}
	}
	return scopes
}
