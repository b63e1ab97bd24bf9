package store

import (
	"context"
	"sync"

	"github.com/ledgerfile/ledgerfile/internal/record"
)

type memoryStore struct {
	mu    sync.RWMutex
	rows  []Row
	creds []record.Credential
}

// NewMemory constructs an in-memory store for tests. Accounts are copied on
// the way in and out so, like the file store, every read materialises fresh
// instances.
func NewMemory() Store {
	return &memoryStore{}
}

func copyRows(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		acc := *row.Account
		out = append(out, Row{Owner: row.Owner, Account: &acc})
	}
	return out
}

func (s *memoryStore) ReadAccounts(_ context.Context) ([]Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRows(s.rows), nil
}

func (s *memoryStore) WriteAccounts(_ context.Context, rows []Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = copyRows(rows)
	return nil
}

func (s *memoryStore) ReadCredentials(_ context.Context) ([]record.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]record.Credential, len(s.creds))
	copy(out, s.creds)
	return out, nil
}

func (s *memoryStore) AppendCredential(_ context.Context, c record.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = append(s.creds, c)
	return nil
}
