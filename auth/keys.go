// Copyright 2025 The Go MCP SDK Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"crypto/rsa"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// SigningKeys holds the RSA keypair for access-token signing and verification.
// The public key is mandatory; without the private key the server runs in
// verification-only mode and the token endpoint cannot issue tokens.
type SigningKeys struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
}

// CanSign reports whether a private key is available for issuance.
func (k *SigningKeys) CanSign() bool {
	return k.Private != nil
}

// LoadSigningKeys loads the verification key from publicPath and, if present,
// the signing key from privatePath. A missing private key is not an error.
func LoadSigningKeys(publicPath, privatePath string) (*SigningKeys, error) {
	pubPEM, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key %s: %w", publicPath, err)
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key %s: %w", publicPath, err)
	}

	keys := &SigningKeys{Public: pub}

	privPEM, err := os.ReadFile(privatePath)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("no private key found; continuing without signing (verification-only)", "path", privatePath)
			return keys, nil
		}
		return nil, fmt.Errorf("failed to read private key %s: %w", privatePath, err)
	}
	priv, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key %s: %w", privatePath, err)
	}
	keys.Private = priv

	return keys, nil
}
