package account

import "errors"

var (
	// ErrInvalidAmount occurs when a debit is requested with a non-positive amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrOverdraftExceeded occurs when a debit would take the balance below the
	// kind's overdraft limit.
	ErrOverdraftExceeded = errors.New("overdraft limit exceeded")

	// ErrSameAccount occurs when a transfer names the source as its target.
	ErrSameAccount = errors.New("cannot transfer to the same account")
)
