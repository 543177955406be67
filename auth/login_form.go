// Copyright 2025 The Go MCP SDK Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"html/template"
	"log/slog"
	"net/http"
)

// loginFormData feeds the login page template.
type loginFormData struct {
	AuthRequestID string
	ErrorMessage  string
}

var loginFormTemplate = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Finabit MCP Authorization</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            max-width: 500px; margin: 100px auto; padding: 20px; background: #f8fafc;
        }
        .container {
            background: white; padding: 30px; border-radius: 12px; box-shadow: 0 4px 6px rgba(0,0,0,0.1);
        }
        .header { text-align: center; margin-bottom: 30px; }
        h2 { color: #1f2937; margin: 10px 0; }
        label { display: block; margin: 15px 0 5px; font-weight: 500; }
        input { width: 100%; padding: 12px; border: 2px solid #e5e7eb; border-radius: 8px;
                font-size: 16px; box-sizing: border-box; }
        input:focus { outline: none; border-color: #2563eb; }
        button { background: #2563eb; color: white; padding: 12px 24px; border: none;
                border-radius: 8px; font-size: 16px; cursor: pointer; width: 100%; margin-top: 20px; }
        button:hover { background: #1d4ed8; }
        .error { background: #fee2e2; color: #dc2626; padding: 10px; border-radius: 6px; margin: 10px 0; }
        .testing-hint { margin-top: 15px; padding: 10px; background: #f0f9ff; border-radius: 6px; font-size: 14px; color: #0369a1; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h2>Sign in to Finabit</h2>
        </div>
        <form method="post" action="/authorize">
            <input type="hidden" name="auth_request_id" value="{{.AuthRequestID}}">
            {{if .ErrorMessage}}<div class="error">{{.ErrorMessage}}</div>{{end}}
            <label>Username:</label>
            <input name="username" required autocomplete="username" placeholder="test">
            <label>Password:</label>
            <input type="password" name="password" required autocomplete="current-password" placeholder="test">
            <label>Key:</label>
            <input name="install_key" required maxlength="28" placeholder="Installation key">
            <button type="submit">Authorize</button>
            <div class="testing-hint">
                <strong>For testing:</strong> use username "test" and password "test".<br>
                You must also enter your Installation Key (ask your admin).
            </div>
        </form>
    </div>
</body>
</html>
`))

// renderLoginForm writes the login page. Used both for the initial GET and
// for re-rendering after a failed submission, which keeps the pending session
// valid so the user can retry without restarting the flow.
func renderLoginForm(w http.ResponseWriter, authRequestID, errorMessage string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	err := loginFormTemplate.Execute(w, loginFormData{
		AuthRequestID: authRequestID,
		ErrorMessage:  errorMessage,
	})
	if err != nil {
		slog.Error("failed to render login form", "error", err)
	}
}
