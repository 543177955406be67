// Copyright 2025 The Go MCP SDK Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// TestUserID is the synthetic identity behind the built-in test/test login.
const TestUserID = 9999

const (
	// AuthCodeTTL is the lifetime of an authorization code.
	AuthCodeTTL = 10 * time.Minute

	// PendingAuthTTL bounds abandoned login sessions.
	PendingAuthTTL = 15 * time.Minute
)

// Session store errors.
var (
	ErrNotFound = errors.New("not found")
	ErrExpired  = errors.New("expired")
)

// PendingAuthorization is the state created by GET /authorize and consumed
// exactly once: promoted into an authorization code on successful login, or
// left to expire.
type PendingAuthorization struct {
	ClientID            string
	RedirectURI         string
	Scope               string
	State               string
	CodeChallenge       string
	CodeChallengeMethod string
	CreatedAt           time.Time
}

// AuthCodeInfo holds the state bound to an issued authorization code.
type AuthCodeInfo struct {
	UserID        int
	ClientID      string
	Scope         string
	CodeChallenge string
	ExpiresAt     time.Time
	CreatedAt     time.Time
}

// TestTokenRecord tracks an access token issued to the test identity so it
// can be expired or revoked independently of its signature validity.
type TestTokenRecord struct {
	UserID    int
	Scope     string
	ExpiresAt time.Time
}

// SessionStore owns all session-scoped authorization state: pending
// authorizations, issued authorization codes, and test-identity token
// records. All operations are atomic with respect to concurrent requests for
// the same key; in particular DeleteCode and DeletePending act as
// compare-and-deletes so two concurrent consumers of one entry cannot both
// succeed.
type SessionStore interface {
	PutPending(id string, p *PendingAuthorization)
	GetPending(id string) (*PendingAuthorization, bool)
	DeletePending(id string) bool

	PutCode(code string, info *AuthCodeInfo)
	GetCode(code string) (*AuthCodeInfo, error)
	DeleteCode(code string) bool

	PutTestToken(token string, rec *TestTokenRecord)
	GetTestToken(token string) (*TestTokenRecord, error)
	DeleteTestToken(token string)
}

// MemorySessionStore is the in-memory SessionStore. State is lost on restart,
// which is acceptable: clients simply restart the flow.
type MemorySessionStore struct {
	mu         sync.Mutex
	pending    map[string]*PendingAuthorization
	codes      map[string]*AuthCodeInfo
	testTokens map[string]*TestTokenRecord
}

// NewMemorySessionStore creates an empty session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		pending:    make(map[string]*PendingAuthorization),
		codes:      make(map[string]*AuthCodeInfo),
		testTokens: make(map[string]*TestTokenRecord),
	}
}

// PutPending stores a pending authorization keyed by its session ID.
func (s *MemorySessionStore) PutPending(id string, p *PendingAuthorization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[id] = p
}

// GetPending resolves a pending authorization. Sessions older than
// PendingAuthTTL are dropped on access.
func (s *MemorySessionStore) GetPending(id string) (*PendingAuthorization, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[id]
	if !ok {
		return nil, false
	}
	if time.Since(p.CreatedAt) > PendingAuthTTL {
		delete(s.pending, id)
		return nil, false
	}
	cp := *p
	return &cp, true
}

// DeletePending removes a pending authorization, reporting whether this call
// removed it. Of two concurrent submissions of one login form only one
// observes true, which is what makes the session single-use.
func (s *MemorySessionStore) DeletePending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[id]; !ok {
		return false
	}
	delete(s.pending, id)
	return true
}

// PutCode stores an issued authorization code.
func (s *MemorySessionStore) PutCode(code string, info *AuthCodeInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code] = info
}

// GetCode resolves an authorization code. Expired codes are deleted as a side
// effect, so a retry with the same code fails the same way (ErrNotFound and
// ErrExpired both surface to clients as invalid_grant).
func (s *MemorySessionStore) GetCode(code string) (*AuthCodeInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.codes[code]
	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(info.ExpiresAt) {
		delete(s.codes, code)
		return nil, ErrExpired
	}
	cp := *info
	return &cp, nil
}

// DeleteCode removes a code, reporting whether this call removed it. The
// report is what enforces single use: of two concurrent redemptions only one
// observes true.
func (s *MemorySessionStore) DeleteCode(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.codes[code]; !ok {
		return false
	}
	delete(s.codes, code)
	return true
}

// PutTestToken records an access token issued to the test identity.
func (s *MemorySessionStore) PutTestToken(token string, rec *TestTokenRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.testTokens[token] = rec
}

// GetTestToken resolves a test-identity token record, deleting it when its
// own expiry has passed (independent of the token's signature validity).
func (s *MemorySessionStore) GetTestToken(token string) (*TestTokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.testTokens[token]
	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(rec.ExpiresAt) {
		delete(s.testTokens, token)
		return nil, ErrExpired
	}
	cp := *rec
	return &cp, nil
}

// DeleteTestToken revokes a test-identity token record.
func (s *MemorySessionStore) DeleteTestToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.testTokens, token)
}

// Sweep periodically removes expired entries so abandoned sessions do not
// accumulate between accesses. Returns when ctx is cancelled.
func (s *MemorySessionStore) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := s.sweepOnce(time.Now())
			if removed > 0 {
				slog.Debug("session store sweep", "removed", removed)
			}
		}
	}
}

func (s *MemorySessionStore) sweepOnce(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, p := range s.pending {
		if now.Sub(p.CreatedAt) > PendingAuthTTL {
			delete(s.pending, id)
			removed++
		}
	}
	for code, info := range s.codes {
		if now.After(info.ExpiresAt) {
			delete(s.codes, code)
			removed++
		}
	}
	for token, rec := range s.testTokens {
		if now.After(rec.ExpiresAt) {
			delete(s.testTokens, token)
			removed++
		}
	}
	return removed
}
