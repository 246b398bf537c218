package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ledger-api/ledger_api/internal/wallet"
)

// RegisterWalletRoutes wires wallet-related endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Post("/wallets", h.Create)
	r.Get("/wallets", h.List)
	r.Get("/wallets/:id", h.Get)
	r.Patch("/wallets/:id", h.Update)
	r.Delete("/wallets/:id", h.Delete)
}
