package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ledger-api/ledger_api/internal/transaction"
)

// RegisterTransactionRoutes wires transaction-related endpoints.
func RegisterTransactionRoutes(r fiber.Router, h *transaction.Handler) {
	r.Post("/transactions", h.Create)
	r.Get("/transactions", h.List)
	r.Get("/transactions/:id", h.Get)
	r.Patch("/transactions/:id", h.Update)
	r.Delete("/transactions/:id", h.Delete)
}
