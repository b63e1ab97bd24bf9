// Package ledger implements the session-scoped account ledger: the set of
// one authenticated user's accounts, the business rules over them, and the
// load/merge/save protocol against the shared store.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/ledgerfile/ledgerfile/internal/account"
	"github.com/ledgerfile/ledgerfile/internal/notification"
	"github.com/ledgerfile/ledgerfile/internal/store"
)

const (
	numberPrefix = "ACC"
	numberFloor  = 1001
)

// Session holds one user's accounts between login and logout. The store
// remains the authoritative copy across sessions; every successful mutation
// is persisted before the call returns. Methods are safe for concurrent use
// within the process, but the underlying file is not protected against other
// processes (last-writer-wins on the whole file).
type Session struct {
	mu       sync.Mutex
	store    store.Store
	logger   *slog.Logger
	notifier notification.Notifier

	username string
	accounts map[string]*account.Account
	order    []string
	next     int
	closed   bool
}

// Open materialises the user's accounts from the store into a new session.
// Callers are expected to have verified the user's credentials first.
func Open(ctx context.Context, st store.Store, logger *slog.Logger, notifier notification.Notifier, username string) (*Session, error) {
	s := &Session{
		store:    st,
		logger:   logger,
		notifier: notifier,
		username: username,
	}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	logger.Info("session opened", "username", username, "accounts", len(s.accounts))
	return s, nil
}

// load clears the in-memory set, keeps only rows owned by the session user,
// and recomputes the numbering floor from the highest suffix seen.
func (s *Session) load(ctx context.Context) error {
	rows, err := s.store.ReadAccounts(ctx)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}

	s.accounts = make(map[string]*account.Account)
	s.order = nil
	s.next = numberFloor
	for _, row := range rows {
		if row.Owner != s.username {
			continue
		}
		s.accounts[row.Account.Number] = row.Account
		s.order = append(s.order, row.Account.Number)
		if n, ok := numberSuffix(row.Account.Number); ok && n+1 > s.next {
			s.next = n + 1
		}
	}
	return nil
}

func numberSuffix(accNo string) (int, bool) {
	rest, found := strings.CutPrefix(accNo, numberPrefix)
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// save merges the in-memory set into a fresh read of the shared store and
// rewrites it. Other users' rows pass through in their original order; the
// session user's rows are replaced wholesale. This is a best-effort merge
// with no locking, not a transaction.
func (s *Session) save(ctx context.Context) error {
	existing, err := s.store.ReadAccounts(ctx)
	if err != nil {
		return fmt.Errorf("merge accounts: %w", err)
	}

	merged := make([]store.Row, 0, len(existing)+len(s.order))
	for _, row := range existing {
		if row.Owner != s.username {
			merged = append(merged, row)
		}
	}
	for _, number := range s.order {
		merged = append(merged, store.Row{Owner: s.username, Account: s.accounts[number]})
	}

	if err := s.store.WriteAccounts(ctx, merged); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	return nil
}

// Username reports the authenticated user the session belongs to.
func (s *Session) Username() string {
	return s.username
}

// Close discards the in-memory account set. Further operations fail with
// ErrNotAuthenticated. Mutations are persisted as they happen, so nothing is
// lost here.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.accounts = nil
	s.order = nil
}

// CreateAccount allocates the next account number and adds an account of the
// given kind. A user holds at most one account per kind. Joint accounts must
// name a second signatory up front; nothing is created otherwise.
func (s *Session) CreateAccount(ctx context.Context, kind account.Kind, joint bool, signatory string) (account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return account.Account{}, ErrNotAuthenticated
	}
	if !kind.Valid() {
		return account.Account{}, ErrInvalidKind
	}
	if joint && strings.TrimSpace(signatory) == "" {
		return account.Account{}, ErrSignatoryRequired
	}
	for _, number := range s.order {
		if s.accounts[number].Kind == kind {
			return account.Account{}, ErrDuplicateKind
		}
	}

	number := fmt.Sprintf("%s%d", numberPrefix, s.next)
	acc := account.New(number, kind)
	if joint {
		acc.SetSecondSignatory(signatory)
	}

	s.accounts[number] = acc
	s.order = append(s.order, number)
	s.next++

	if err := s.save(ctx); err != nil {
		delete(s.accounts, number)
		s.order = s.order[:len(s.order)-1]
		s.next--
		s.logger.Error("create account not persisted", "username", s.username, "error", err)
		return account.Account{}, err
	}

	s.notify(ctx, notification.KindAccountCreated, number, 0)
	return *acc, nil
}

// Accounts returns a snapshot of the session's accounts in creation order.
func (s *Session) Accounts() []account.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]account.Account, 0, len(s.order))
	for _, number := range s.order {
		out = append(out, *s.accounts[number])
	}
	return out
}

// Deposit credits an account in the session's set. Non-positive amounts are
// silently ignored; only an unknown account number is an error.
func (s *Session) Deposit(ctx context.Context, accNo string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrNotAuthenticated
	}
	acc, ok := s.accounts[accNo]
	if !ok {
		return ErrNoSuchAccount
	}

	before := acc.Balance
	acc.Deposit(amount)
	if err := s.save(ctx); err != nil {
		acc.Balance = before
		s.logger.Error("deposit not persisted", "username", s.username, "account", accNo, "error", err)
		return err
	}
	s.notify(ctx, notification.KindDeposit, accNo, amount)
	return nil
}

// Withdraw debits an account, subject to the overdraft limit. Joint accounts
// are rejected before any arithmetic: debits require an out-of-band second
// signatory approval not modelled here.
func (s *Session) Withdraw(ctx context.Context, accNo string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrNotAuthenticated
	}
	acc, ok := s.accounts[accNo]
	if !ok {
		return ErrNoSuchAccount
	}
	if acc.TwoSignatories {
		return ErrJointApprovalRequired
	}

	before := acc.Balance
	if err := acc.Withdraw(amount); err != nil {
		return err
	}
	if err := s.save(ctx); err != nil {
		acc.Balance = before
		s.logger.Error("withdrawal not persisted", "username", s.username, "account", accNo, "error", err)
		return err
	}
	s.notify(ctx, notification.KindWithdrawal, accNo, amount)
	return nil
}

// Transfer moves funds between two accounts in the session's set. The
// overdraft guard applies to the source; a joint account on either side
// blocks the transfer. On failure neither balance changes.
func (s *Session) Transfer(ctx context.Context, fromNo, toNo string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrNotAuthenticated
	}
	from, ok := s.accounts[fromNo]
	if !ok {
		return ErrNoSuchAccount
	}
	to, ok := s.accounts[toNo]
	if !ok {
		return ErrNoSuchAccount
	}
	if from.TwoSignatories || to.TwoSignatories {
		return ErrJointApprovalRequired
	}

	fromBefore, toBefore := from.Balance, to.Balance
	if err := from.Transfer(to, amount); err != nil {
		return err
	}
	if err := s.save(ctx); err != nil {
		from.Balance, to.Balance = fromBefore, toBefore
		s.logger.Error("transfer not persisted", "username", s.username, "from", fromNo, "to", toNo, "error", err)
		return err
	}
	s.notify(ctx, notification.KindTransfer, fromNo, amount)
	return nil
}

func (s *Session) notify(ctx context.Context, kind, accNo string, amount float64) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Send(ctx, notification.Notice{
		Kind:          kind,
		Username:      s.username,
		AccountNumber: accNo,
		Amount:        amount,
	})
}
