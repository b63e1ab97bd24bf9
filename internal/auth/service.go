// Package auth implements the login/logout lifecycle: credential checks
// against the shared store and the registry of live sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledgerfile/ledgerfile/internal/ledger"
	"github.com/ledgerfile/ledgerfile/internal/notification"
	"github.com/ledgerfile/ledgerfile/internal/record"
	"github.com/ledgerfile/ledgerfile/internal/store"
)

var (
	// ErrUsernameTaken occurs when registering a username that already exists.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrInvalidCredentials occurs when no credential row matches a login.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrMalformedCredential occurs when a username or password is empty or
	// would corrupt the row format.
	ErrMalformedCredential = errors.New("username and password must be non-empty and must not contain commas")
)

// Service verifies and registers credentials. Passwords are compared in
// clear text against the stored rows; the store format predates this system
// and its semantics are kept.
type Service struct {
	store    store.Store
	logger   *slog.Logger
	notifier notification.Notifier
}

// NewService creates an auth service over the shared store.
func NewService(st store.Store, logger *slog.Logger, notifier notification.Notifier) *Service {
	return &Service{store: st, logger: logger, notifier: notifier}
}

// Register appends a credential row unless the username already exists.
// The uniqueness check is case-sensitive and exact.
func (s *Service) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" ||
		strings.Contains(username, record.Delimiter) || strings.Contains(password, record.Delimiter) {
		return ErrMalformedCredential
	}

	creds, err := s.store.ReadCredentials(ctx)
	if err != nil {
		return fmt.Errorf("read credentials: %w", err)
	}
	for _, c := range creds {
		if c.Username == username {
			return ErrUsernameTaken
		}
	}

	if err := s.store.AppendCredential(ctx, record.Credential{Username: username, Password: password}); err != nil {
		s.logger.Error("register not persisted", "username", username, "error", err)
		return err
	}
	s.logger.Info("user registered", "username", username)
	return nil
}

// Login scans the credential rows for an exact trimmed match and, on
// success, opens a ledger session holding the user's accounts.
func (s *Service) Login(ctx context.Context, username, password string) (*ledger.Session, error) {
	creds, err := s.store.ReadCredentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	for _, c := range creds {
		if strings.TrimSpace(c.Username) == username && strings.TrimSpace(c.Password) == password {
			return ledger.Open(ctx, s.store, s.logger, s.notifier, username)
		}
	}
	return nil, ErrInvalidCredentials
}
