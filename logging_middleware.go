// Copyright 2025 The Go MCP SDK Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"log/slog"
	"net/http"
	"time"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Header() http.Header {
	return rw.ResponseWriter.Header()
}

func loggingHandler(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		attrs := []any{
			"remote", r.RemoteAddr,
			"method", r.Method,
			"path", r.URL.Path,
		}
		if sessionID := r.Header.Get("Mcp-Session-Id"); sessionID != "" {
			attrs = append(attrs, "session", sessionID)
		}
		slog.Info("request", attrs...)

		handler.ServeHTTP(wrapped, r)

		attrs = append(attrs,
			"status", wrapped.statusCode,
			"duration", time.Since(start),
		)
		// The MCP handler assigns the session ID on initialize, so it may only
		// appear on the response.
		if sessionID := wrapped.Header().Get("Mcp-Session-Id"); sessionID != "" {
			attrs = append(attrs, "response_session", sessionID)
		}
		slog.Info("response", attrs...)
	})
}
