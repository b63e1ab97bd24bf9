package ledger

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ledgerfile/ledgerfile/internal/account"
)

// Handler exposes the ledger operations over HTTP. The session is resolved
// by the session middleware and read from request locals.
type Handler struct {
	sessionKey string
}

// NewHandler builds a ledger HTTP handler reading the session from the given
// locals key.
func NewHandler(sessionKey string) *Handler {
	return &Handler{sessionKey: sessionKey}
}

func (h *Handler) session(c *fiber.Ctx) (*Session, error) {
	session, ok := c.Locals(h.sessionKey).(*Session)
	if !ok || session == nil {
		return nil, fiber.NewError(http.StatusUnauthorized, ErrNotAuthenticated.Error())
	}
	return session, nil
}

type createAccountRequest struct {
	Kind            int    `json:"kind"`
	Joint           bool   `json:"joint"`
	SecondSignatory string `json:"second_signatory"`
}

type accountResponse struct {
	AccountNumber   string  `json:"account_number"`
	Kind            string  `json:"kind"`
	Balance         float64 `json:"balance"`
	TwoSignatories  bool    `json:"requires_two_signatories"`
	SecondSignatory string  `json:"second_signatory,omitempty"`
}

func toAccountResponse(a account.Account) accountResponse {
	return accountResponse{
		AccountNumber:   a.Number,
		Kind:            a.Kind.String(),
		Balance:         a.Balance,
		TwoSignatories:  a.TwoSignatories,
		SecondSignatory: a.SecondSignatory,
	}
}

// Create opens a new account of the requested kind (1=SmallBusiness,
// 2=Community, 3=Client).
func (h *Handler) Create(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}
	var req createAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	acc, err := session.CreateAccount(c.UserContext(), account.Kind(req.Kind), req.Joint, req.SecondSignatory)
	if err != nil {
		return operationError(err)
	}

	message := fmt.Sprintf("Created %s account: %s", acc.Kind, acc.Number)
	if acc.TwoSignatories {
		message += " | Joint account with second signatory: " + acc.SecondSignatory
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": message,
		"account": toAccountResponse(acc),
	})
}

// List returns the session's accounts in creation order.
func (h *Handler) List(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}
	accounts := session.Accounts()
	if len(accounts) == 0 {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"message":  "No accounts created.",
			"accounts": []accountResponse{},
		})
	}
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"accounts": out})
}

type amountRequest struct {
	Amount float64 `json:"amount"`
}

// Deposit credits the account named in the path.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	accNo := c.Params("accountNumber")
	if err := session.Deposit(c.UserContext(), accNo, req.Amount); err != nil {
		return operationError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "deposited", "account_number": accNo})
}

// Withdraw debits the account named in the path.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	accNo := c.Params("accountNumber")
	if err := session.Withdraw(c.UserContext(), accNo, req.Amount); err != nil {
		return operationError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "withdrawn", "account_number": accNo})
}

type transferRequest struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// Transfer moves funds between two of the session's accounts.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := session.Transfer(c.UserContext(), req.From, req.To, req.Amount); err != nil {
		return operationError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "transferred", "from": req.From, "to": req.To})
}

// operationError maps ledger and account errors onto HTTP statuses.
func operationError(err error) error {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNoSuchAccount):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateKind), errors.Is(err, account.ErrOverdraftExceeded):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrJointApprovalRequired):
		return fiber.NewError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalidKind), errors.Is(err, ErrSignatoryRequired),
		errors.Is(err, account.ErrInvalidAmount), errors.Is(err, account.ErrSameAccount):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, "operation failed")
	}
}
