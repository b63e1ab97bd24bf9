package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ledgerfile/ledgerfile/internal/ledger"
)

// Locals keys under which the session middleware stores the resolved
// session and its bearer token.
const (
	SessionContextKey = "session"
	SessionTokenKey   = "session_token"
)

// Manager maps opaque bearer tokens to live ledger sessions. Tokens are
// random UUIDs with no embedded claims; a token is valid until its session
// is logged out or the process exits.
type Manager struct {
	mu       sync.RWMutex
	svc      *Service
	sessions map[string]*ledger.Session
}

// NewManager creates an empty session registry over the auth service.
func NewManager(svc *Service) *Manager {
	return &Manager{svc: svc, sessions: make(map[string]*ledger.Session)}
}

// Login authenticates the user and registers a new session under a fresh
// token.
func (m *Manager) Login(ctx context.Context, username, password string) (string, *ledger.Session, error) {
	session, err := m.svc.Login(ctx, username, password)
	if err != nil {
		return "", nil, err
	}

	token := uuid.NewString()
	m.mu.Lock()
	m.sessions[token] = session
	m.mu.Unlock()
	return token, session, nil
}

// Lookup resolves a bearer token to its session.
func (m *Manager) Lookup(token string) (*ledger.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[token]
	return session, ok
}

// Logout closes the session for the token and forgets it. Unknown tokens
// report false.
func (m *Manager) Logout(token string) bool {
	m.mu.Lock()
	session, ok := m.sessions[token]
	delete(m.sessions, token)
	m.mu.Unlock()

	if ok {
		session.Close()
	}
	return ok
}
