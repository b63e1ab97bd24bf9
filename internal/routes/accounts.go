package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ledgerfile/ledgerfile/internal/ledger"
)

// RegisterAccountRoutes wires account and transfer endpoints. All of them
// require an authenticated session.
func RegisterAccountRoutes(r fiber.Router, h *ledger.Handler) {
	r.Post("/accounts", h.Create)
	r.Get("/accounts", h.List)
	r.Post("/accounts/:accountNumber/deposits", h.Deposit)
	r.Post("/accounts/:accountNumber/withdrawals", h.Withdraw)
	r.Post("/transfers", h.Transfer)
}
