package wallet

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ledger-api/ledger_api/internal/ledger"
	"github.com/ledger-api/ledger_api/internal/query"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service         *Service
	defaultPageSize int
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service, defaultPageSize int) *Handler {
	return &Handler{service: service, defaultPageSize: defaultPageSize}
}

type walletRequest struct {
	Label string `json:"label"`
}

type walletResponse struct {
	ID      int64  `json:"id"`
	Label   string `json:"label"`
	Balance string `json:"balance"`
}

type walletListResponse struct {
	Count int64            `json:"count"`
	Data  []walletResponse `json:"data"`
}

// Create provisions a wallet.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req walletRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	w, err := h.service.Create(c.UserContext(), req.Label)
	if err != nil {
		return mapError(err)
	}
	resp, err := h.render(c, w)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(resp)
}

// Get returns one wallet with its live balance.
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := walletID(c)
	if err != nil {
		return err
	}
	w, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return mapError(err)
	}
	resp, err := h.render(c, w)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// Update replaces the wallet's label.
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := walletID(c)
	if err != nil {
		return err
	}
	var req walletRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	w, err := h.service.Update(c.UserContext(), id, req.Label)
	if err != nil {
		return mapError(err)
	}
	resp, err := h.render(c, w)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// Delete removes the wallet and all transactions referencing it.
func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := walletID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return mapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// List returns the filtered, sorted wallet page with the total match count.
func (h *Handler) List(c *fiber.Ctx) error {
	var filter ledger.WalletFilter
	if raw := c.Query("filter[id]"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "filter[id] must be an integer")
		}
		filter.ID = &id
	}
	if raw := c.Query("filter[label]"); raw != "" {
		label := raw
		filter.Label = &label
	}

	sort := query.ParseSort(c.Query("sort"))
	page := query.ParsePage(c.Query("page[size]"), c.Query("page[number]"), h.defaultPageSize)

	wallets, total, err := h.service.List(c.UserContext(), filter, sort, page)
	if err != nil {
		return mapError(err)
	}

	resp := walletListResponse{Count: total, Data: make([]walletResponse, 0, len(wallets))}
	for _, w := range wallets {
		item, err := h.render(c, w)
		if errors.Is(err, ledger.ErrWalletNotFound) {
			// the wallet was deleted between the page read and the balance read
			continue
		}
		if err != nil {
			return mapError(err)
		}
		resp.Data = append(resp.Data, item)
	}
	return c.Status(http.StatusOK).JSON(resp)
}

func (h *Handler) render(c *fiber.Ctx, w ledger.Wallet) (walletResponse, error) {
	balance, err := h.service.Balance(c.UserContext(), w.ID)
	if err != nil {
		return walletResponse{}, err
	}
	return walletResponse{ID: w.ID, Label: w.Label, Balance: balance.String()}, nil
}

func walletID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(http.StatusNotFound, ledger.ErrWalletNotFound.Error())
	}
	return id, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrWalletNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
