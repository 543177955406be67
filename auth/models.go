// Copyright 2025 The Go MCP SDK Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"time"
)

// Client represents a registered OAuth client. Clients are created either
// through dynamic registration (POST /register) or through first-use
// auto-registration of recognized first-party client IDs. Once created a
// client is never mutated or deleted in-process.
type Client struct {
	// ClientID is the unique client identifier
	ClientID string `json:"client_id"`

	// RedirectURIs is the exact-match allow-list for this client
	RedirectURIs []string `json:"redirect_uris"`

	// CreatedAt is the timestamp when the client was registered
	CreatedAt time.Time `json:"created_at"`
}

// ClientRegistrationRequest is the body of a dynamic registration request.
// Only redirect_uris is consumed; other RFC 7591 metadata is ignored.
type ClientRegistrationRequest struct {
	RedirectURIs []string `json:"redirect_uris"`
}

// ClientRegistrationResponse is the response to a successful registration.
type ClientRegistrationResponse struct {
	ClientID                string   `json:"client_id"`
	ClientIDIssuedAt        int64    `json:"client_id_issued_at"`
	RedirectURIs            []string `json:"redirect_uris"`
	TokenEndpointAuthMethod string   `json:"token_endpoint_auth_method"`
	GrantTypes              []string `json:"grant_types"`
	ResponseTypes           []string `json:"response_types"`
	Scope                   string   `json:"scope"`
}

// TokenResponse is the successful response from the token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// OAuthError represents a standard OAuth error response body.
type OAuthError struct {
	// Error is the error code
	Error string `json:"error"`

	// ErrorDescription is a human-readable description
	ErrorDescription string `json:"error_description,omitempty"`
}

// Standard OAuth error codes
const (
	ErrorInvalidRequest        = "invalid_request"
	ErrorInvalidClient         = "invalid_client"
	ErrorInvalidGrant          = "invalid_grant"
	ErrorUnsupportedGrantType  = "unsupported_grant_type"
	ErrorInvalidClientMetadata = "invalid_client_metadata"
	ErrorServerError           = "server_error"
)

// AuthServerMetadata represents OAuth 2.0 Authorization Server Metadata per RFC 8414
type AuthServerMetadata struct {
	// Issuer is the authorization server's identifier
	Issuer string `json:"issuer"`

	// AuthorizationEndpoint is the URL of the authorization endpoint
	AuthorizationEndpoint string `json:"authorization_endpoint"`

	// TokenEndpoint is the URL of the token endpoint
	TokenEndpoint string `json:"token_endpoint"`

	// RegistrationEndpoint is the URL of the dynamic client registration endpoint (RFC 7591)
	RegistrationEndpoint string `json:"registration_endpoint,omitempty"`

	// ScopesSupported lists the supported OAuth scopes
	ScopesSupported []string `json:"scopes_supported,omitempty"`

	// ResponseTypesSupported lists the supported response types
	ResponseTypesSupported []string `json:"response_types_supported,omitempty"`

	// GrantTypesSupported lists the supported grant types
	GrantTypesSupported []string `json:"grant_types_supported,omitempty"`

	// TokenEndpointAuthMethodsSupported lists supported client authentication methods
	TokenEndpointAuthMethodsSupported []string `json:"token_endpoint_auth_methods_supported,omitempty"`

	// CodeChallengeMethodsSupported lists supported PKCE challenge methods
	CodeChallengeMethodsSupported []string `json:"code_challenge_methods_supported,omitempty"`

	// LogoURI points at the server icon shown by MCP clients
	LogoURI string `json:"logo_uri,omitempty"`
}

// ProtectedResourceMetadata represents OAuth 2.0 Protected Resource Metadata per RFC 9728
// This metadata is served at /.well-known/oauth-protected-resource/mcp
type ProtectedResourceMetadata struct {
	// Resource is the canonical URI of the MCP server (RFC 8707)
	Resource string `json:"resource"`

	// AuthorizationServers lists the authorization servers that can issue tokens for this resource
	AuthorizationServers []string `json:"authorization_servers"`

	// ScopesSupported lists the scopes that this resource server supports
	ScopesSupported []string `json:"scopes_supported,omitempty"`

	// BearerMethodsSupported indicates supported bearer token methods (default: ["header"])
	BearerMethodsSupported []string `json:"bearer_methods_supported,omitempty"`

	// ResourceDocumentation provides a URL for resource documentation
	ResourceDocumentation string `json:"resource_documentation,omitempty"`
}
