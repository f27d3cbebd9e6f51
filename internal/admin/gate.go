// Package admin gates the admin panel behind a shared secret. Unlocking
// yields an opaque session token that mutating routes require; the token
// is a UI gate, not a real security boundary.
package admin

import (
	"crypto/subtle"
	"sync"

	"github.com/google/uuid"

	"github.com/jcmexdev/habbo-store/internal/domain"
)

// Gate holds the configured secret and the set of live session tokens.
// Sessions are in-memory only: a restart locks everyone out, which is fine
// for an ephemeral per-session gate.
type Gate struct {
	mu       sync.Mutex
	secret   []byte
	sessions map[string]struct{}
}

func NewGate(secret string) *Gate {
	return &Gate{
		secret:   []byte(secret),
		sessions: make(map[string]struct{}),
	}
}

// Unlock compares the submitted value against the secret in constant time.
// On a match it returns a fresh session token; otherwise ErrWrongSecret
// and no state change.
func (g *Gate) Unlock(secret string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(secret), g.secret) != 1 {
		return "", domain.ErrWrongSecret
	}

	token := uuid.New().String()
	g.mu.Lock()
	g.sessions[token] = struct{}{}
	g.mu.Unlock()
	return token, nil
}

// Authorized reports whether the token belongs to a live session.
func (g *Gate) Authorized(token string) bool {
	if token == "" {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.sessions[token]
	return ok
}

// Logout invalidates the token. Unknown tokens are ignored.
func (g *Gate) Logout(token string) {
	g.mu.Lock()
	delete(g.sessions, token)
	g.mu.Unlock()
}
