// Copyright 2025 The Go MCP SDK Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// DefaultScope is the scope granted when the client does not request one.
const DefaultScope = "claudeai"

// Config holds the OAuth configuration for the MCP server
type Config struct {
	// ServerURL is the canonical URL of the server, used as the OAuth issuer
	// and in the well-known metadata documents
	ServerURL string

	// InstallKey is the shared installation secret that must accompany every
	// login form submission. Compared verbatim against the form field.
	InstallKey string

	// TokenExpiryHours is how long issued access tokens remain valid
	TokenExpiryHours int

	// PublicKeyPath / PrivateKeyPath locate the PEM-encoded signing keypair
	PublicKeyPath  string
	PrivateKeyPath string

	// ScopesSupported lists the scopes advertised by this server
	ScopesSupported []string

	// AuthDisabled runs the MCP endpoint without bearer-token checks.
	// Local development only.
	AuthDisabled bool
}

// TokenTTL returns the configured access-token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenExpiryHours) * time.Hour
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:        "http://localhost:8080",
		TokenExpiryHours: 24,
		PublicKeyPath:    "keys/public.pem",
		PrivateKeyPath:   "keys/private.pem",
		ScopesSupported:  []string{DefaultScope},
	}
}

// LoadConfigFromEnv loads configuration from environment variables.
// The install key is resolved in order: INSTALL_KEY env var, the install.key
// file, AWS Secrets Manager (INSTALL_KEY_SECRET_NAME). If none of those yield
// a key, a fresh one is generated and written to the install.key file so the
// operator can hand it out.
func LoadConfigFromEnv() (*Config, error) {
	cfg := DefaultConfig()

	if serverURL := os.Getenv("AUTH_BASE_URL"); serverURL != "" {
		parsed, err := url.Parse(serverURL)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTH_BASE_URL: %w", err)
		}
		cfg.ServerURL = strings.TrimSuffix(parsed.String(), "/")
	} else if host := os.Getenv("HOST"); host != "" && os.Getenv("PORT") != "" {
		scheme := "http"
		if os.Getenv("USE_HTTPS") == "true" {
			scheme = "https"
		}
		cfg.ServerURL = fmt.Sprintf("%s://%s:%s", scheme, host, os.Getenv("PORT"))
	}

	if expiryStr := os.Getenv("TOKEN_EXPIRY_HOURS"); expiryStr != "" {
		expiry, err := strconv.Atoi(expiryStr)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_EXPIRY_HOURS: %w", err)
		}
		cfg.TokenExpiryHours = expiry
	}

	if p := os.Getenv("PUBLIC_KEY_PATH"); p != "" {
		cfg.PublicKeyPath = p
	}
	if p := os.Getenv("PRIVATE_KEY_PATH"); p != "" {
		cfg.PrivateKeyPath = p
	}

	if disabled := os.Getenv("AUTH_DISABLED"); disabled != "" {
		cfg.AuthDisabled = disabled == "true" || disabled == "1"
	}

	keyPath := os.Getenv("INSTALL_KEY_PATH")
	if keyPath == "" {
		keyPath = "install.key"
	}
	if err := resolveInstallKey(cfg, keyPath); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server URL is required")
	}
	parsed, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("server URL must use http or https scheme")
	}

	if c.TokenExpiryHours <= 0 {
		return fmt.Errorf("token expiry hours must be positive")
	}

	if len(c.ScopesSupported) == 0 {
		return fmt.Errorf("at least one scope must be supported")
	}

	if c.InstallKey == "" {
		return fmt.Errorf("install key is required")
	}

	return nil
}

func resolveInstallKey(cfg *Config, keyPath string) error {
	if key := os.Getenv("INSTALL_KEY"); key != "" {
		cfg.InstallKey = key
		return nil
	}

	if data, err := os.ReadFile(keyPath); err == nil {
		cfg.InstallKey = strings.TrimSpace(string(data))
		if cfg.InstallKey != "" {
			return nil
		}
	}

	if secretName := os.Getenv("INSTALL_KEY_SECRET_NAME"); secretName != "" {
		key, err := loadInstallKeyFromSecretsManager(secretName)
		if err != nil {
			return fmt.Errorf("failed to load install key from Secrets Manager: %w", err)
		}
		cfg.InstallKey = key
		return nil
	}

	// First run: generate a key and persist it next to the binary.
	key, err := generateInstallKey(28)
	if err != nil {
		return fmt.Errorf("failed to generate install key: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(key), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", keyPath, err)
	}
	slog.Info("generated new installation key", "path", keyPath)
	cfg.InstallKey = key
	return nil
}

// generateInstallKey produces an uppercase alphanumeric key of the given
// length, the format users are asked to type into the login form.
func generateInstallKey(length int) (string, error) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	key := make([]byte, length)
	for i := range key {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		key[i] = alphabet[n.Int64()]
	}
	return string(key), nil
}

// loadInstallKeyFromSecretsManager fetches the install key from AWS Secrets
// Manager. The secret may be either a raw string or a JSON document with an
// INSTALL_KEY field.
func loadInstallKeyFromSecretsManager(secretName string) (string, error) {
	ctx := context.Background()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	client := secretsmanager.NewFromConfig(awsCfg)

	result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &secretName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to retrieve secret: %w", err)
	}
	if result.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", secretName)
	}

	var doc struct {
		InstallKey string `json:"INSTALL_KEY"`
	}
	if err := json.Unmarshal([]byte(*result.SecretString), &doc); err == nil && doc.InstallKey != "" {
		return doc.InstallKey, nil
	}

	return strings.TrimSpace(*result.SecretString), nil
}
