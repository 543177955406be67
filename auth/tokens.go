// Copyright 2025 The Go MCP SDK Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token service errors.
var (
	ErrSigningDisabled = errors.New("token signing is disabled: no private key loaded")
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
)

// TokenClaims is the verified content of an access token.
type TokenClaims struct {
	UserID    int
	Scopes    []string
	ExpiresAt time.Time
}

// TokenService mints and validates RS256-signed bearer tokens carrying the
// subject and scope claims. Any holder of the public key can verify tokens
// without calling back into this service.
type TokenService struct {
	keys *SigningKeys
}

// NewTokenService creates a token service around the loaded keypair.
func NewTokenService(keys *SigningKeys) *TokenService {
	return &TokenService{keys: keys}
}

// Issue signs a bearer token for userID with the given scopes and lifetime.
// The exp claim is always embedded.
func (s *TokenService) Issue(userID int, scopes []string, ttl time.Duration) (string, error) {
	if !s.keys.CanSign() {
		return "", ErrSigningDisabled
	}
	if len(scopes) == 0 {
		scopes = []string{DefaultScope}
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    strconv.Itoa(userID),
		"scopes": scopes,
		"iat":    now.Unix(),
		"exp":    now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(s.keys.Private)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's RS256 signature and exp claim and extracts the
// subject and scopes.
func (s *TokenService) Verify(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.keys.Public, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}
	userID, err := strconv.Atoi(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed sub claim", ErrInvalidToken)
	}

	result := &TokenClaims{UserID: userID}

	if raw, ok := claims["scopes"].([]any); ok {
		for _, v := range raw {
			if scope, ok := v.(string); ok {
				result.Scopes = append(result.Scopes, scope)
			}
		}
	}
	if len(result.Scopes) == 0 {
		result.Scopes = []string{DefaultScope}
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		result.ExpiresAt = exp.Time
	}

	return result, nil
}
