package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/ledgerfile/ledgerfile/internal/account"
	"github.com/ledgerfile/ledgerfile/internal/ledger"
	"github.com/ledgerfile/ledgerfile/internal/logging"
	"github.com/ledgerfile/ledgerfile/internal/store"
)

func newFileService(t *testing.T) *Service {
	t.Helper()
	st, err := store.Open(t.TempDir(), logging.Discard())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return NewService(st, logging.Discard(), nil)
}

func TestRegisterLoginAndOperateScenario(t *testing.T) {
	svc := newFileService(t)
	ctx := context.Background()

	if err := svc.Register(ctx, "bob", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	session, err := svc.Login(ctx, "bob", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	acc, err := session.CreateAccount(ctx, account.Client, false, "")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if acc.Number != "ACC1001" {
		t.Fatalf("expected ACC1001, got %s", acc.Number)
	}

	if err := session.Deposit(ctx, acc.Number, 100); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if got := session.Accounts()[0].Balance; got != 100 {
		t.Fatalf("expected balance 100, got %v", got)
	}

	if err := session.Withdraw(ctx, acc.Number, 50); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if got := session.Accounts()[0].Balance; got != 50 {
		t.Fatalf("expected balance 50, got %v", got)
	}

	if err := session.Withdraw(ctx, acc.Number, 2000); !errors.Is(err, account.ErrOverdraftExceeded) {
		t.Fatalf("expected overdraft error, got %v", err)
	}
	if got := session.Accounts()[0].Balance; got != 50 {
		t.Fatalf("failed withdrawal changed balance: %v", got)
	}
}

func TestJointAccountScenario(t *testing.T) {
	svc := newFileService(t)
	ctx := context.Background()

	if err := svc.Register(ctx, "bob", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	session, err := svc.Login(ctx, "bob", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	acc, err := session.CreateAccount(ctx, account.Client, true, "Alice")
	if err != nil {
		t.Fatalf("create joint account: %v", err)
	}
	if err := session.Withdraw(ctx, acc.Number, 10); !errors.Is(err, ledger.ErrJointApprovalRequired) {
		t.Fatalf("expected joint withdrawal to fail, got %v", err)
	}
	if err := session.Deposit(ctx, acc.Number, 10); err != nil {
		t.Fatalf("deposit into joint account: %v", err)
	}
	if got := session.Accounts()[0].Balance; got != 10 {
		t.Fatalf("expected balance 10, got %v", got)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newFileService(t)
	ctx := context.Background()

	if err := svc.Register(ctx, "bob", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Register(ctx, "bob", "other"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	// the check is case-sensitive
	if err := svc.Register(ctx, "Bob", "pw"); err != nil {
		t.Fatalf("register with different case: %v", err)
	}
}

func TestRegisterRejectsMalformedCredentials(t *testing.T) {
	svc := newFileService(t)
	ctx := context.Background()

	cases := [][2]string{
		{"", "pw"},
		{"bob", ""},
		{"bo,b", "pw"},
		{"bob", "p,w"},
	}
	for _, c := range cases {
		if err := svc.Register(ctx, c[0], c[1]); !errors.Is(err, ErrMalformedCredential) {
			t.Fatalf("register %q/%q: expected ErrMalformedCredential, got %v", c[0], c[1], err)
		}
	}
}

func TestLoginFailures(t *testing.T) {
	svc := newFileService(t)
	ctx := context.Background()

	if err := svc.Register(ctx, "bob", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Login(ctx, "bob", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginTrimsWhitespace(t *testing.T) {
	svc := newFileService(t)
	ctx := context.Background()

	if err := svc.Register(ctx, "bob", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	session, err := svc.Login(ctx, "  bob ", " pw  ")
	if err != nil {
		t.Fatalf("login with padding: %v", err)
	}
	if session.Username() != "bob" {
		t.Fatalf("expected trimmed username, got %q", session.Username())
	}
}

func TestSeededAdminCanLogin(t *testing.T) {
	svc := newFileService(t)
	if _, err := svc.Login(context.Background(), "admin", "1234"); err != nil {
		t.Fatalf("seeded admin login: %v", err)
	}
}

func TestManagerLifecycle(t *testing.T) {
	svc := NewService(store.NewMemory(), logging.Discard(), nil)
	manager := NewManager(svc)
	ctx := context.Background()

	if err := svc.Register(ctx, "bob", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, session, err := manager.Login(ctx, "bob", "pw")
	if err != nil {
		t.Fatalf("manager login: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a session token")
	}

	got, ok := manager.Lookup(token)
	if !ok || got != session {
		t.Fatalf("lookup did not return the live session")
	}

	if !manager.Logout(token) {
		t.Fatalf("logout reported unknown token")
	}
	if _, ok := manager.Lookup(token); ok {
		t.Fatalf("token survived logout")
	}
	if manager.Logout(token) {
		t.Fatalf("second logout should report false")
	}

	// the session itself is closed by logout
	if _, err := session.CreateAccount(ctx, account.Client, false, ""); !errors.Is(err, ledger.ErrNotAuthenticated) {
		t.Fatalf("expected closed session, got %v", err)
	}
}
