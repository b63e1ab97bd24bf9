package account

import "fmt"

// Kind identifies the tier of a bank account. The tier fixes the overdraft
// limit; it is set at creation and never changes.
type Kind int

const (
	SmallBusiness Kind = iota + 1
	Community
	Client
)

// overdraftLimits is the tiered risk policy: the maximum amount a balance of
// each kind may go negative.
var overdraftLimits = map[Kind]float64{
	SmallBusiness: 1000.0,
	Community:     2500.0,
	Client:        1500.0,
}

var kindNames = map[Kind]string{
	SmallBusiness: "SmallBusiness",
	Community:     "Community",
	Client:        "Client",
}

// String returns the stable name used in the persisted store and API
// responses.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the three known kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// OverdraftLimit returns the fixed overdraft limit for the kind, or 0 for an
// unknown kind.
func (k Kind) OverdraftLimit() float64 {
	return overdraftLimits[k]
}

// ParseKind maps a persisted kind name back to its Kind. The second return
// is false for unrecognised names.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Account is one bank account. Balance may go negative down to the kind's
// overdraft limit; every successful mutation preserves
// Balance >= -Kind.OverdraftLimit().
type Account struct {
	Number          string
	Kind            Kind
	Balance         float64
	TwoSignatories  bool
	SecondSignatory string
}

// New constructs an empty account of the given kind.
func New(number string, kind Kind) *Account {
	return &Account{Number: number, Kind: kind}
}

// SetSecondSignatory records the joint signatory. A non-empty name marks the
// account as requiring two signatories; an empty name clears the flag.
func (a *Account) SetSecondSignatory(name string) {
	a.SecondSignatory = name
	a.TwoSignatories = name != ""
}

// Deposit credits a positive amount. Non-positive amounts are ignored, not
// an error.
func (a *Account) Deposit(amount float64) {
	if amount > 0 {
		a.Balance += amount
	}
}

// Withdraw debits the account if the amount is positive and the resulting
// balance stays within the overdraft limit. The balance is untouched on
// failure.
func (a *Account) Withdraw(amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if a.Balance-amount < -a.Kind.OverdraftLimit() {
		return ErrOverdraftExceeded
	}
	a.Balance -= amount
	return nil
}

// Transfer moves amount from a to target. The withdraw guard applies to the
// source; on failure neither balance changes.
func (a *Account) Transfer(target *Account, amount float64) error {
	if target == nil || target == a {
		return ErrSameAccount
	}
	if err := a.Withdraw(amount); err != nil {
		return err
	}
	target.Balance += amount
	return nil
}
