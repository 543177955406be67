// Copyright 2025 The Go MCP SDK Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testInstallKey   = "ABCDEFGHIJKLMNOP0123456789AB"
	testRedirectURI  = "http://localhost:3000/callback"
	testCodeVerifier = "test-code-verifier-with-plenty-of-entropy-0123456789"
)

// fakeUserDirectory accepts exactly one username/password pair.
type fakeUserDirectory struct {
	username string
	password string
	userID   int
}

func (d *fakeUserDirectory) Authenticate(_ context.Context, username, password string) (int, error) {
	if username == d.username && password == d.password {
		return d.userID, nil
	}
	return 0, errors.New("invalid username or password")
}

// staticCredentials is a CredentialSource with a fixed pair.
type staticCredentials struct {
	username string
	password string
}

func (c *staticCredentials) Credentials() (string, string, bool) {
	return c.username, c.password, true
}

type flowFixture struct {
	config    *Config
	store     *MemorySessionStore
	registry  *ClientRegistry
	tokens    *TokenService
	authorize *AuthorizationHandler
	token     *TokenEndpointHandler
}

func newFlowFixture(t *testing.T, creds CredentialSource) *flowFixture {
	t.Helper()

	config := &Config{
		ServerURL:        "http://localhost:8080",
		InstallKey:       testInstallKey,
		TokenExpiryHours: 1,
		ScopesSupported:  []string{DefaultScope},
	}
	store := NewMemorySessionStore()
	registry := NewClientRegistry(config.ServerURL)
	tokens := NewTokenService(newTestKeys(t))
	users := &fakeUserDirectory{username: "alice", password: "secret", userID: 1234}

	return &flowFixture{
		config:    config,
		store:     store,
		registry:  registry,
		tokens:    tokens,
		authorize: NewAuthorizationHandler(config, registry, store, users, creds),
		token:     NewTokenEndpointHandler(config, store, tokens),
	}
}

var authRequestIDPattern = regexp.MustCompile(`name="auth_request_id" value="([^"]+)"`)

// beginAuthorization performs GET /authorize and returns the pending session ID
// extracted from the rendered login form.
func (f *flowFixture) beginAuthorization(t *testing.T, state string) string {
	t.Helper()

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", TestClientID)
	params.Set("redirect_uri", testRedirectURI)
	params.Set("state", state)
	params.Set("code_challenge", ChallengeFromVerifier(testCodeVerifier))
	params.Set("code_challenge_method", "S256")

	req := httptest.NewRequest(http.MethodGet, "/authorize?"+params.Encode(), nil)
	rec := httptest.NewRecorder()
	f.authorize.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	match := authRequestIDPattern.FindStringSubmatch(rec.Body.String())
	require.Len(t, match, 2, "login form should carry the auth_request_id")
	return match[1]
}

// login submits the login form and returns the recorder.
func (f *flowFixture) login(t *testing.T, authRequestID, username, password, installKey string) *httptest.ResponseRecorder {
	t.Helper()

	form := url.Values{}
	form.Set("auth_request_id", authRequestID)
	form.Set("username", username)
	form.Set("password", password)
	form.Set("install_key", installKey)

	req := httptest.NewRequest(http.MethodPost, "/authorize", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.authorize.ServeHTTP(rec, req)
	return rec
}

// obtainCode runs the flow through login and returns the code from the
// redirect.
func (f *flowFixture) obtainCode(t *testing.T, username, password string) string {
	t.Helper()

	authRequestID := f.beginAuthorization(t, "xyz")
	rec := f.login(t, authRequestID, username, password, testInstallKey)

	require.Equal(t, http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	code := loc.Query().Get("code")
	require.NotEmpty(t, code)
	return code
}

// exchange posts a form-encoded token request.
func (f *flowFixture) exchange(t *testing.T, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.token.ServeHTTP(rec, req)
	return rec
}

func tokenExchangeForm(code, verifier string) url.Values {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	if verifier != "" {
		form.Set("code_verifier", verifier)
	}
	return form
}

func decodeOAuthError(t *testing.T, rec *httptest.ResponseRecorder) OAuthError {
	t.Helper()
	var oauthErr OAuthError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &oauthErr))
	return oauthErr
}

func TestFullAuthorizationCodeFlow(t *testing.T) {
	f := newFlowFixture(t, nil)

	authRequestID := f.beginAuthorization(t, "state-abc")
	rec := f.login(t, authRequestID, "alice", "secret", testInstallKey)

	require.Equal(t, http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), testRedirectURI))
	assert.Equal(t, "state-abc", loc.Query().Get("state"))
	code := loc.Query().Get("code")
	require.NotEmpty(t, code)

	tokenRec := f.exchange(t, tokenExchangeForm(code, testCodeVerifier))
	require.Equal(t, http.StatusOK, tokenRec.Code)
	assert.Equal(t, "no-store", tokenRec.Header().Get("Cache-Control"))

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(tokenRec.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, DefaultScope, resp.Scope)
	assert.Equal(t, 3600, resp.ExpiresIn)

	claims, err := f.tokens.Verify(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, 1234, claims.UserID)
	assert.Equal(t, []string{DefaultScope}, claims.Scopes)
}

func TestEmptyStateIsEchoed(t *testing.T) {
	f := newFlowFixture(t, nil)

	authRequestID := f.beginAuthorization(t, "")
	rec := f.login(t, authRequestID, "alice", "secret", testInstallKey)

	require.Equal(t, http.StatusFound, rec.Code)
	location := rec.Header().Get("Location")
	assert.Contains(t, location, "state=")
}

func TestTestCredentialsBypassDirectory(t *testing.T) {
	f := newFlowFixture(t, nil)

	code := f.obtainCode(t, "test", "test")
	tokenRec := f.exchange(t, tokenExchangeForm(code, testCodeVerifier))
	require.Equal(t, http.StatusOK, tokenRec.Code)

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(tokenRec.Body.Bytes(), &resp))

	// Test-user tokens are tracked in the session store for revocation.
	rec, err := f.store.GetTestToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, TestUserID, rec.UserID)
}

func TestAuthorizationCodeIsSingleUse(t *testing.T) {
	f := newFlowFixture(t, nil)
	code := f.obtainCode(t, "alice", "secret")

	first := f.exchange(t, tokenExchangeForm(code, testCodeVerifier))
	require.Equal(t, http.StatusOK, first.Code)

	second := f.exchange(t, tokenExchangeForm(code, testCodeVerifier))
	require.Equal(t, http.StatusBadRequest, second.Code)
	assert.Equal(t, ErrorInvalidGrant, decodeOAuthError(t, second).Error)
}

func TestConcurrentRedemptionHasOneWinner(t *testing.T) {
	f := newFlowFixture(t, nil)
	code := f.obtainCode(t, "alice", "secret")

	const attempts = 16
	var wg sync.WaitGroup
	statuses := make(chan int, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := f.exchange(t, tokenExchangeForm(code, testCodeVerifier))
			statuses <- rec.Code
		}()
	}
	wg.Wait()
	close(statuses)

	succeeded := 0
	for status := range statuses {
		if status == http.StatusOK {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestWrongVerifierDoesNotConsumeCode(t *testing.T) {
	f := newFlowFixture(t, nil)
	code := f.obtainCode(t, "alice", "secret")

	rec := f.exchange(t, tokenExchangeForm(code, "wrong-verifier"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrorInvalidGrant, decodeOAuthError(t, rec).Error)

	// The failed PKCE check must not burn the code.
	retry := f.exchange(t, tokenExchangeForm(code, testCodeVerifier))
	assert.Equal(t, http.StatusOK, retry.Code)
}

func TestVerifierlessExchangeIsAccepted(t *testing.T) {
	f := newFlowFixture(t, nil)
	code := f.obtainCode(t, "alice", "secret")

	rec := f.exchange(t, tokenExchangeForm(code, ""))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExpiredCodeRejected(t *testing.T) {
	f := newFlowFixture(t, nil)

	f.store.PutCode("stale-code", &AuthCodeInfo{
		UserID:        1234,
		ClientID:      TestClientID,
		Scope:         DefaultScope,
		CodeChallenge: ChallengeFromVerifier(testCodeVerifier),
		ExpiresAt:     time.Now().Add(-time.Second),
		CreatedAt:     time.Now().Add(-AuthCodeTTL),
	})

	rec := f.exchange(t, tokenExchangeForm("stale-code", testCodeVerifier))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrorInvalidGrant, decodeOAuthError(t, rec).Error)
}

func TestUnsupportedGrantType(t *testing.T) {
	f := newFlowFixture(t, nil)

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	rec := f.exchange(t, form)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	oauthErr := decodeOAuthError(t, rec)
	assert.Equal(t, ErrorUnsupportedGrantType, oauthErr.Error)
	assert.Contains(t, oauthErr.ErrorDescription, "client_credentials")
}

func TestMissingCode(t *testing.T) {
	f := newFlowFixture(t, nil)

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	rec := f.exchange(t, form)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrorInvalidRequest, decodeOAuthError(t, rec).Error)
}

func TestJSONTokenRequest(t *testing.T) {
	f := newFlowFixture(t, nil)
	code := f.obtainCode(t, "alice", "secret")

	body, err := json.Marshal(map[string]string{
		"grant_type":    "authorization_code",
		"code":          code,
		"code_verifier": testCodeVerifier,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.token.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthorizeRejectsUnknownClient(t *testing.T) {
	f := newFlowFixture(t, nil)

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", "not-a-registered-client")
	params.Set("redirect_uri", testRedirectURI)
	params.Set("code_challenge", ChallengeFromVerifier(testCodeVerifier))

	req := httptest.NewRequest(http.MethodGet, "/authorize?"+params.Encode(), nil)
	rec := httptest.NewRecorder()
	f.authorize.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrorInvalidClient, decodeOAuthError(t, rec).Error)
}

func TestAuthorizeRejectsUnregisteredRedirectURI(t *testing.T) {
	f := newFlowFixture(t, nil)

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", TestClientID)
	params.Set("redirect_uri", "https://evil.example.com/steal")
	params.Set("code_challenge", ChallengeFromVerifier(testCodeVerifier))

	req := httptest.NewRequest(http.MethodGet, "/authorize?"+params.Encode(), nil)
	rec := httptest.NewRecorder()
	f.authorize.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrorInvalidRequest, decodeOAuthError(t, rec).Error)
}

func TestAuthorizeRequiresCodeChallenge(t *testing.T) {
	f := newFlowFixture(t, nil)

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", TestClientID)
	params.Set("redirect_uri", testRedirectURI)

	req := httptest.NewRequest(http.MethodGet, "/authorize?"+params.Encode(), nil)
	rec := httptest.NewRecorder()
	f.authorize.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthorizeRejectsPlainChallengeMethod(t *testing.T) {
	f := newFlowFixture(t, nil)

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", TestClientID)
	params.Set("redirect_uri", testRedirectURI)
	params.Set("code_challenge", "whatever")
	params.Set("code_challenge_method", "plain")

	req := httptest.NewRequest(http.MethodGet, "/authorize?"+params.Encode(), nil)
	rec := httptest.NewRecorder()
	f.authorize.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWrongInstallKeyKeepsSessionAlive(t *testing.T) {
	f := newFlowFixture(t, nil)
	authRequestID := f.beginAuthorization(t, "s")

	rec := f.login(t, authRequestID, "alice", "secret", "WRONGKEY")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid installation key.")
	assert.Contains(t, rec.Body.String(), authRequestID)

	// Retrying with the right key on the same session still works.
	retry := f.login(t, authRequestID, "alice", "secret", testInstallKey)
	assert.Equal(t, http.StatusFound, retry.Code)
}

func TestWrongPasswordRerendersForm(t *testing.T) {
	f := newFlowFixture(t, nil)
	authRequestID := f.beginAuthorization(t, "s")

	rec := f.login(t, authRequestID, "alice", "nope", testInstallKey)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid username or password.")
}

func TestUnknownAuthRequestIDRejected(t *testing.T) {
	f := newFlowFixture(t, nil)

	rec := f.login(t, "no-such-session", "alice", "secret", testInstallKey)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrorInvalidRequest, decodeOAuthError(t, rec).Error)
}

func TestSuccessfulLoginConsumesSession(t *testing.T) {
	f := newFlowFixture(t, nil)
	authRequestID := f.beginAuthorization(t, "s")

	first := f.login(t, authRequestID, "alice", "secret", testInstallKey)
	require.Equal(t, http.StatusFound, first.Code)

	second := f.login(t, authRequestID, "alice", "secret", testInstallKey)
	assert.Equal(t, http.StatusBadRequest, second.Code)
}

// slowUserDirectory delays authentication so concurrent submissions overlap.
type slowUserDirectory struct {
	inner fakeUserDirectory
	delay time.Duration
}

func (d *slowUserDirectory) Authenticate(ctx context.Context, username, password string) (int, error) {
	time.Sleep(d.delay)
	return d.inner.Authenticate(ctx, username, password)
}

func TestConcurrentLoginHasOneWinner(t *testing.T) {
	f := newFlowFixture(t, nil)
	f.authorize = NewAuthorizationHandler(f.config, f.registry, f.store, &slowUserDirectory{
		inner: fakeUserDirectory{username: "alice", password: "secret", userID: 1234},
		delay: 50 * time.Millisecond,
	}, nil)

	authRequestID := f.beginAuthorization(t, "race")

	const attempts = 8
	var wg sync.WaitGroup
	statuses := make(chan int, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := f.login(t, authRequestID, "alice", "secret", testInstallKey)
			statuses <- rec.Code
		}()
	}
	wg.Wait()
	close(statuses)

	redirected := 0
	for status := range statuses {
		switch status {
		case http.StatusFound:
			redirected++
		case http.StatusBadRequest:
		default:
			t.Errorf("Unexpected status %d from concurrent login", status)
		}
	}
	assert.Equal(t, 1, redirected)
}

func TestNonInteractiveAuthorization(t *testing.T) {
	f := newFlowFixture(t, &staticCredentials{username: "alice", password: "secret"})

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", TestClientID)
	params.Set("redirect_uri", testRedirectURI)
	params.Set("state", "svc")
	params.Set("code_challenge", ChallengeFromVerifier(testCodeVerifier))

	req := httptest.NewRequest(http.MethodGet, "/authorize?"+params.Encode(), nil)
	rec := httptest.NewRecorder()
	f.authorize.ServeHTTP(rec, req)

	// No form: the stored credentials authenticate and the code comes straight
	// back.
	require.Equal(t, http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.NotEmpty(t, loc.Query().Get("code"))
	assert.Equal(t, "svc", loc.Query().Get("state"))
}

func TestNonInteractiveFallsBackToFormOnBadCredentials(t *testing.T) {
	f := newFlowFixture(t, &staticCredentials{username: "alice", password: "stale-password"})

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", TestClientID)
	params.Set("redirect_uri", testRedirectURI)
	params.Set("code_challenge", ChallengeFromVerifier(testCodeVerifier))

	req := httptest.NewRequest(http.MethodGet, "/authorize?"+params.Encode(), nil)
	rec := httptest.NewRecorder()
	f.authorize.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "auth_request_id")
}
