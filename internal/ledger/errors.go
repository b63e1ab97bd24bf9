package ledger

import "errors"

var (
	// ErrNotAuthenticated occurs when an operation is attempted on a closed
	// session.
	ErrNotAuthenticated = errors.New("not logged in")

	// ErrNoSuchAccount occurs when an account number is not part of the
	// active session's set. Other users' accounts are indistinguishable from
	// missing ones.
	ErrNoSuchAccount = errors.New("account not found")

	// ErrDuplicateKind occurs when the user already holds an account of the
	// requested kind.
	ErrDuplicateKind = errors.New("account of this kind already exists")

	// ErrInvalidKind occurs when the requested account kind is not one of the
	// three known tiers.
	ErrInvalidKind = errors.New("invalid account kind")

	// ErrSignatoryRequired occurs when a joint account is requested without a
	// second signatory name.
	ErrSignatoryRequired = errors.New("joint account requires a second signatory name")

	// ErrJointApprovalRequired occurs when a debit touches a joint account.
	// Joint accounts accept deposits but cannot be debited through this
	// interface.
	ErrJointApprovalRequired = errors.New("joint account requires second signatory approval")
)
