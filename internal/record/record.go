// Package record implements the line codec for the flat-file store. Rows are
// comma-delimited with no quoting; decoding is deliberately tolerant so a
// partially written or hand-edited file never aborts a load.
package record

import (
	"strconv"
	"strings"

	"github.com/ledgerfile/ledgerfile/internal/account"
)

// Delimiter separates fields within a row. Field values must not contain it;
// the format has no quoting or escaping.
const Delimiter = ","

// Headers for the two persisted files.
const (
	AccountsHeader    = "username,accountNumber,kind,balance,requiresTwoSignatories,secondSignatory"
	CredentialsHeader = "username,password"
)

const accountFieldCount = 6

// EncodeAccount renders one account row in fixed column order. An absent
// second signatory encodes as an empty trailing field.
func EncodeAccount(owner string, a *account.Account) string {
	return strings.Join([]string{
		owner,
		a.Number,
		a.Kind.String(),
		strconv.FormatFloat(a.Balance, 'f', -1, 64),
		strconv.FormatBool(a.TwoSignatories),
		a.SecondSignatory,
	}, Delimiter)
}

// DecodeAccount parses one account row. The second return is false for rows
// that must be skipped: too few fields, or an unrecognised kind. Recoverable
// field problems degrade instead: a malformed balance reads as 0 and an
// unrecognised signatory flag as false. A blank secondSignatory field still
// counts towards the field total, so a row ending in the delimiter decodes.
func DecodeAccount(line string) (owner string, a *account.Account, ok bool) {
	fields := strings.Split(line, Delimiter)
	if len(fields) < accountFieldCount {
		return "", nil, false
	}

	kind, known := account.ParseKind(fields[2])
	if !known {
		return "", nil, false
	}

	a = account.New(fields[1], kind)
	if balance, err := strconv.ParseFloat(fields[3], 64); err == nil {
		a.Balance = balance
	}
	if strings.EqualFold(fields[4], "true") {
		// SetSecondSignatory re-derives the flag: a joint row with a blank
		// signatory name decodes as not joint.
		a.SetSecondSignatory(fields[5])
	}
	return fields[0], a, true
}

// Credential is one username/password pair. Passwords are stored in clear
// text; the format predates this system and is kept as-is.
type Credential struct {
	Username string
	Password string
}

// EncodeCredential renders one credential row.
func EncodeCredential(c Credential) string {
	return c.Username + Delimiter + c.Password
}

// DecodeCredential parses one credential row. Rows with fewer than two
// fields are skipped; extra fields are ignored.
func DecodeCredential(line string) (Credential, bool) {
	fields := strings.Split(line, Delimiter)
	if len(fields) < 2 {
		return Credential{}, false
	}
	return Credential{Username: fields[0], Password: fields[1]}, true
}
