// Copyright 2025 The Go MCP SDK Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/finabit/mcp-server/auth"
	"github.com/finabit/mcp-server/faq"
	"github.com/finabit/mcp-server/finabit"
	"github.com/finabit/mcp-server/prompts"
	"github.com/finabit/mcp-server/tools"
	"github.com/finabit/mcp-server/users"
)

func main() {
	host := os.Getenv("HOST")
	port := os.Getenv("PORT")
	if host == "" {
		host = "0.0.0.0"
	}
	if port == "" {
		port = "8080"
	}
	runServer(fmt.Sprintf("%s:%s", host, port))
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		// Allow CORS for localhost:6277 (MCP Inspector) and localhost:6274
		if origin == "http://localhost:6277" || origin == "http://localhost:6274" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, mcp-protocol-version")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// newMCPServer builds the MCP server with every tool and prompt registered.
func newMCPServer() *mcp.Server {
	apiURL := os.Getenv("FINABIT_API_URL")
	apiClient := finabit.NewClient(apiURL, os.Getenv("FINABIT_USERNAME"), os.Getenv("FINABIT_PASSWORD"))

	faqURL := os.Getenv("FAQ_API_URL")
	if faqURL == "" {
		faqURL = "http://localhost:8001/ask"
	}
	faqClient := faq.NewClient(faqURL)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "finabit-mcp-server",
		Version: "1.0.0",
	}, nil)

	tools.RegisterAll(server,
		tools.NewGetItems(apiClient),
		tools.NewGetSales(apiClient),
		tools.NewGetPurchases(apiClient),
		tools.NewHelp(faqClient),
	)
	prompts.RegisterAll(server)

	return server
}

func runServer(addr string) {
	config, err := auth.LoadConfigFromEnv()
	if err != nil {
		slog.Error("failed to load OAuth config, running without auth", "error", err)
		runServerWithoutAuth(addr)
		return
	}

	if config.AuthDisabled {
		slog.Warn("authentication is disabled (AUTH_DISABLED is set)")
		runServerWithoutAuth(addr)
		return
	}

	if err := config.Validate(); err != nil {
		slog.Error("invalid OAuth config, running without auth", "error", err)
		runServerWithoutAuth(addr)
		return
	}

	keys, err := auth.LoadSigningKeys(config.PublicKeyPath, config.PrivateKeyPath)
	if err != nil {
		slog.Error("failed to load signing keys", "error", err)
		os.Exit(1)
	}

	store := auth.NewMemorySessionStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Sweep(ctx, 5*time.Minute)

	registry := auth.NewClientRegistry(config.ServerURL)
	tokenService := auth.NewTokenService(keys)
	verifier := auth.NewTokenVerifier(store, tokenService)
	middleware := auth.NewMiddleware(config, verifier)

	userVerifier := users.NewVerifier(os.Getenv("FINABIT_API_URL"))

	// CredentialsFromEnv returns nil when no service account is configured;
	// the authorize endpoint then always renders the login form.
	var creds auth.CredentialSource
	if envCreds := users.CredentialsFromEnv(); envCreds != nil {
		creds = envCreds
		slog.Info("non-interactive service-account credentials configured")
	}

	authHandler := auth.NewAuthorizationHandler(config, registry, store, userVerifier, creds)
	tokenHandler := auth.NewTokenEndpointHandler(config, store, tokenService)

	server := newMCPServer()

	// Sessions are needed for GET requests (SSE streaming).
	handler := mcp.NewStreamableHTTPHandler(func(req *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{
		SessionTimeout: 30 * time.Minute,
	})

	protected := middleware.RequireAuth([]string{auth.DefaultScope})(handler)

	mux := http.NewServeMux()

	// Public endpoints (no authentication required)
	mux.HandleFunc("/health", healthCheckHandler)
	mux.Handle("/.well-known/oauth-authorization-server", auth.NewAuthServerMetadataHandler(config))
	mux.Handle("/.well-known/oauth-authorization-server/mcp", auth.NewAuthServerMetadataHandler(config))
	mux.Handle("/.well-known/oauth-protected-resource/mcp", auth.NewProtectedResourceMetadataHandler(config))
	mux.Handle("/register", auth.NewRegistrationHandler(registry))
	mux.Handle("/authorize", authHandler)
	mux.Handle("/token", tokenHandler)

	// Protected MCP endpoint
	mux.Handle("/mcp", protected)

	handlerWithLogging := loggingHandler(corsMiddleware(mux))

	slog.Info("MCP server listening", "addr", addr, "issuer", config.ServerURL)
	slog.Info("authorization server metadata at /.well-known/oauth-authorization-server")
	slog.Info("protected resource metadata at /.well-known/oauth-protected-resource/mcp")

	if err := http.ListenAndServe(addr, handlerWithLogging); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func runServerWithoutAuth(addr string) {
	server := newMCPServer()

	handler := mcp.NewStreamableHTTPHandler(func(req *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{
		SessionTimeout: 30 * time.Minute,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthCheckHandler)
	mux.Handle("/mcp", handler)

	handlerWithLogging := loggingHandler(corsMiddleware(mux))

	slog.Info("MCP server listening (no auth)", "addr", addr)

	if err := http.ListenAndServe(addr, handlerWithLogging); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
