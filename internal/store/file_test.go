package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledgerfile/ledgerfile/internal/account"
	"github.com/ledgerfile/ledgerfile/internal/logging"
	"github.com/ledgerfile/ledgerfile/internal/record"
)

func openTestStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(dir, logging.Discard())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s, dir
}

func TestOpenSeedsFiles(t *testing.T) {
	s, dir := openTestStore(t)

	data, err := os.ReadFile(filepath.Join(dir, "users.csv"))
	if err != nil {
		t.Fatalf("read users.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != record.CredentialsHeader {
		t.Fatalf("unexpected credentials header: %q", lines[0])
	}
	if len(lines) != 2 || lines[1] != "admin,1234" {
		t.Fatalf("expected seeded admin credential, got %v", lines)
	}

	data, err = os.ReadFile(filepath.Join(dir, "accounts.csv"))
	if err != nil {
		t.Fatalf("read accounts.csv: %v", err)
	}
	if strings.TrimSpace(string(data)) != record.AccountsHeader {
		t.Fatalf("expected accounts header only, got %q", string(data))
	}

	rows, err := s.ReadAccounts(context.Background())
	if err != nil {
		t.Fatalf("read accounts: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty store, got %d rows", len(rows))
	}
}

func TestOpenDoesNotOverwriteExistingFiles(t *testing.T) {
	s, dir := openTestStore(t)
	if err := s.AppendCredential(context.Background(), record.Credential{Username: "bob", Password: "pw"}); err != nil {
		t.Fatalf("append credential: %v", err)
	}

	// a second open over the same directory keeps the data
	s2, err := Open(dir, logging.Discard())
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	creds, err := s2.ReadCredentials(context.Background())
	if err != nil {
		t.Fatalf("read credentials: %v", err)
	}
	if len(creds) != 2 || creds[1].Username != "bob" {
		t.Fatalf("expected seeded admin plus bob, got %v", creds)
	}
}

func TestWriteAndReadAccountsRoundTrip(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	a1 := account.New("ACC1001", account.Client)
	a1.Deposit(75.25)
	a2 := account.New("ACC1002", account.Community)
	a2.SetSecondSignatory("Alice")

	in := []Row{
		{Owner: "bob", Account: a1},
		{Owner: "carol", Account: a2},
	}
	if err := s.WriteAccounts(ctx, in); err != nil {
		t.Fatalf("write accounts: %v", err)
	}

	out, err := s.ReadAccounts(ctx)
	if err != nil {
		t.Fatalf("read accounts: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
	for i := range in {
		if out[i].Owner != in[i].Owner || *out[i].Account != *in[i].Account {
			t.Fatalf("row %d mismatch: got %+v want %+v", i, out[i], in[i])
		}
	}
}

func TestReadAccountsSkipsCorruptRows(t *testing.T) {
	s, dir := openTestStore(t)
	ctx := context.Background()

	content := record.AccountsHeader + "\n" +
		"bob,ACC1001,Client,100,false,\n" +
		"half a row\n" +
		"carol,ACC1002,UnknownKind,5,false,\n" +
		"dave,ACC1003,Community,oops,true,Erin\n"
	if err := os.WriteFile(filepath.Join(dir, "accounts.csv"), []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	rows, err := s.ReadAccounts(ctx)
	if err != nil {
		t.Fatalf("read accounts: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 surviving rows, got %d", len(rows))
	}
	if rows[0].Owner != "bob" || rows[1].Owner != "dave" {
		t.Fatalf("unexpected survivors: %+v", rows)
	}
	if rows[1].Account.Balance != 0 {
		t.Fatalf("bad balance should read as 0, got %v", rows[1].Account.Balance)
	}
}

func TestMemoryStoreMatchesFileStoreBehaviour(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	acc := account.New("ACC1001", account.Client)
	acc.Deposit(10)
	if err := m.WriteAccounts(ctx, []Row{{Owner: "bob", Account: acc}}); err != nil {
		t.Fatalf("write: %v", err)
	}

	rows, err := m.ReadAccounts(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	// mutations of the returned row must not leak back into the store
	rows[0].Account.Balance = 999
	again, _ := m.ReadAccounts(ctx)
	if again[0].Account.Balance != 10 {
		t.Fatalf("store aliased its rows: %v", again[0].Account.Balance)
	}

	if err := m.AppendCredential(ctx, record.Credential{Username: "bob", Password: "pw"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	creds, err := m.ReadCredentials(ctx)
	if err != nil {
		t.Fatalf("read creds: %v", err)
	}
	if len(creds) != 1 || creds[0].Username != "bob" {
		t.Fatalf("unexpected credentials: %v", creds)
	}
}
