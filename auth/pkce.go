// Copyright 2025 The Go MCP SDK Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"crypto/subtle"

	"golang.org/x/oauth2"
)

// CodeChallengeMethodS256 is the only PKCE challenge method supported (RFC 7636).
const CodeChallengeMethodS256 = "S256"

// ChallengeFromVerifier computes the S256 code_challenge for a code_verifier:
// BASE64URL(SHA256(verifier)), without padding. Deterministic.
func ChallengeFromVerifier(verifier string) string {
	return oauth2.S256ChallengeFromVerifier(verifier)
}

// VerifyCodeChallenge recomputes the S256 challenge from the presented
// verifier and compares it against the stored challenge in constant time.
func VerifyCodeChallenge(verifier, challenge string) bool {
	computed := ChallengeFromVerifier(verifier)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(challenge)) == 1
}
