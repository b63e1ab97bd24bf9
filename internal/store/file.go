package store

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ledgerfile/ledgerfile/internal/record"
)

const (
	credentialsFileName = "users.csv"
	accountsFileName    = "accounts.csv"
)

// seedCredential is written when a fresh credentials file is created, so a
// new installation has a working login.
var seedCredential = record.Credential{Username: "admin", Password: "1234"}

// FileStore keeps all rows in two flat text files under a single directory.
// Reads tolerate malformed rows by skipping them; writes rewrite the
// accounts file wholesale and append to the credentials file. There is no
// cross-process locking: concurrent writers race last-writer-wins.
type FileStore struct {
	credentialsPath string
	accountsPath    string
	logger          *slog.Logger
}

// Open prepares a FileStore rooted at dir, creating both files with their
// header rows when missing.
func Open(dir string, logger *slog.Logger) (*FileStore, error) {
	s := &FileStore{
		credentialsPath: filepath.Join(dir, credentialsFileName),
		accountsPath:    filepath.Join(dir, accountsFileName),
		logger:          logger,
	}

	if err := ensureFile(s.credentialsPath, record.CredentialsHeader+"\n"+record.EncodeCredential(seedCredential)+"\n"); err != nil {
		return nil, fmt.Errorf("create credentials file: %w", err)
	}
	if err := ensureFile(s.accountsPath, record.AccountsHeader+"\n"); err != nil {
		return nil, fmt.Errorf("create accounts file: %w", err)
	}

	return s, nil
}

func ensureFile(path, initial string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte(initial), 0o644)
}

// ReadAccounts decodes every well-formed account row in the file, for all
// users. Corrupt or unrecognised rows are skipped.
func (s *FileStore) ReadAccounts(_ context.Context) ([]Row, error) {
	f, err := os.Open(s.accountsPath)
	if err != nil {
		return nil, fmt.Errorf("open accounts file: %w", err)
	}
	defer f.Close()

	var rows []Row
	skipped := 0
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		if first {
			first = false // header
			continue
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		owner, acc, ok := record.DecodeAccount(line)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, Row{Owner: owner, Account: acc})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read accounts file: %w", err)
	}
	if skipped > 0 {
		s.logger.Warn("skipped malformed account rows", "count", skipped, "file", s.accountsPath)
	}
	return rows, nil
}

// WriteAccounts rewrites the accounts file with the given rows. The write
// goes through a temporary file renamed into place so a crash mid-write
// never leaves a truncated store.
func (s *FileStore) WriteAccounts(_ context.Context, rows []Row) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.accountsPath), accountsFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp accounts file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	fmt.Fprintln(w, record.AccountsHeader)
	for _, row := range rows {
		fmt.Fprintln(w, record.EncodeAccount(row.Owner, row.Account))
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write accounts file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp accounts file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.accountsPath); err != nil {
		return fmt.Errorf("replace accounts file: %w", err)
	}
	return nil
}

// ReadCredentials decodes every well-formed credential row.
func (s *FileStore) ReadCredentials(_ context.Context) ([]record.Credential, error) {
	f, err := os.Open(s.credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("open credentials file: %w", err)
	}
	defer f.Close()

	var creds []record.Credential
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		if first {
			first = false // header
			continue
		}
		if c, ok := record.DecodeCredential(scanner.Text()); ok {
			creds = append(creds, c)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	return creds, nil
}

// AppendCredential adds one credential row to the end of the file.
// Uniqueness is the caller's responsibility.
func (s *FileStore) AppendCredential(_ context.Context, c record.Credential) error {
	f, err := os.OpenFile(s.credentialsPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open credentials file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(record.EncodeCredential(c) + "\n"); err != nil {
		return fmt.Errorf("append credential: %w", err)
	}
	return nil
}
