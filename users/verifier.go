// Package users talks to the Finabit identity endpoint. It is the external
// credential collaborator behind the OAuth login form: the server never sees
// how credentials are checked, only the opaque user ID that comes back.
package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
)

// ErrInvalidCredentials is returned when the identity endpoint rejects the
// username/password pair.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Verifier validates credentials against the Finabit API with HTTP Basic
// auth. Authentication is a side-effect-free probe of a protected endpoint.
type Verifier struct {
	baseURL    string
	httpClient *http.Client
}

// NewVerifier creates a verifier for the Finabit API at baseURL.
func NewVerifier(baseURL string) *Verifier {
	return &Verifier{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Authenticate checks the pair against the userinfo endpoint and returns the
// stable user ID on success. Any rejection maps to ErrInvalidCredentials.
func (v *Verifier) Authenticate(ctx context.Context, username, password string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/api/Account/userinfo", nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(username, password)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to call identity endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, ErrInvalidCredentials
	}

	var info struct {
		UserID   int    `json:"userId"`
		UserID2  int    `json:"UserID"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return 0, fmt.Errorf("failed to decode userinfo response: %w", err)
	}

	id := info.UserID
	if id == 0 {
		id = info.UserID2
	}
	if id == 0 {
		return 0, ErrInvalidCredentials
	}
	return id, nil
}

// EnvCredentials supplies service-account credentials from the environment
// for unattended agent runs, where nobody is present to fill the login form.
type EnvCredentials struct {
	username string
	password string
}

// CredentialsFromEnv reads FINABIT_USERNAME / FINABIT_PASSWORD. Returns nil
// when either is unset so callers can skip the non-interactive path entirely.
func CredentialsFromEnv() *EnvCredentials {
	username := os.Getenv("FINABIT_USERNAME")
	password := os.Getenv("FINABIT_PASSWORD")
	if username == "" || password == "" {
		return nil
	}
	return &EnvCredentials{username: username, password: password}
}

// Credentials returns the stored pair.
func (c *EnvCredentials) Credentials() (string, string, bool) {
	return c.username, c.password, true
}
