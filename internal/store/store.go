// Package store persists account and credential rows. The durable
// implementation is a pair of comma-delimited text files shared by all
// users; an in-memory implementation backs tests.
package store

import (
	"context"

	"github.com/ledgerfile/ledgerfile/internal/account"
	"github.com/ledgerfile/ledgerfile/internal/record"
)

// Row couples an account with its owning username. The accounts file holds
// rows for every user; callers filter by owner.
type Row struct {
	Owner   string
	Account *account.Account
}

// Store reads and writes the persisted rows. WriteAccounts replaces the
// whole account set; merging the active user's accounts into the full set
// is the ledger's job, not the store's.
type Store interface {
	ReadAccounts(ctx context.Context) ([]Row, error)
	WriteAccounts(ctx context.Context, rows []Row) error
	ReadCredentials(ctx context.Context) ([]record.Credential, error)
	AppendCredential(ctx context.Context, c record.Credential) error
}
