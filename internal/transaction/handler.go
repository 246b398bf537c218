package transaction

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ledger-api/ledger_api/internal/ledger"
	"github.com/ledger-api/ledger_api/internal/query"
)

// Handler exposes transaction HTTP endpoints.
type Handler struct {
	service         *Service
	defaultPageSize int
}

// NewHandler builds a transaction HTTP handler.
func NewHandler(service *Service, defaultPageSize int) *Handler {
	return &Handler{service: service, defaultPageSize: defaultPageSize}
}

type createRequest struct {
	WalletID int64   `json:"wallet"`
	TxID     string  `json:"txid"`
	Amount   *string `json:"amount"`
}

type updateRequest struct {
	WalletID *int64  `json:"wallet"`
	TxID     *string `json:"txid"`
	Amount   *string `json:"amount"`
}

type transactionResponse struct {
	ID       int64  `json:"id"`
	WalletID int64  `json:"wallet"`
	TxID     string `json:"txid"`
	Amount   string `json:"amount"`
}

type transactionListResponse struct {
	Count int64                 `json:"count"`
	Data  []transactionResponse `json:"data"`
}

// Create posts a transaction.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	input := CreateInput{WalletID: req.WalletID, TxID: req.TxID}
	if req.Amount != nil {
		input.Amount = *req.Amount
	}
	txn, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(render(txn))
}

// Get returns one transaction.
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := transactionID(c)
	if err != nil {
		return err
	}
	txn, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(render(txn))
}

// Update replaces any subset of the transaction's fields.
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := transactionID(c)
	if err != nil {
		return err
	}
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	txn, err := h.service.Update(c.UserContext(), id, UpdateInput{
		WalletID: req.WalletID,
		TxID:     req.TxID,
		Amount:   req.Amount,
	})
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(render(txn))
}

// Delete removes a transaction.
func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := transactionID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return mapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// List returns the filtered transaction page in creation order with the total
// match count.
func (h *Handler) List(c *fiber.Ctx) error {
	var filter ledger.TransactionFilter
	if raw := c.Query("filter[id]"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "filter[id] must be an integer")
		}
		filter.ID = &id
	}
	if raw := c.Query("filter[wallet]"); raw != "" {
		walletID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "filter[wallet] must be an integer")
		}
		filter.WalletID = &walletID
	}
	if raw := c.Query("filter[txid]"); raw != "" {
		txid := raw
		filter.TxID = &txid
	}

	page := query.ParsePage(c.Query("page[size]"), c.Query("page[number]"), h.defaultPageSize)

	transactions, total, err := h.service.List(c.UserContext(), filter, page)
	if err != nil {
		return mapError(err)
	}

	resp := transactionListResponse{Count: total, Data: make([]transactionResponse, 0, len(transactions))}
	for _, txn := range transactions {
		resp.Data = append(resp.Data, render(txn))
	}
	return c.Status(http.StatusOK).JSON(resp)
}

func render(txn ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:       txn.ID,
		WalletID: txn.WalletID,
		TxID:     txn.TxID,
		Amount:   ledger.FormatAmount(txn.Amount),
	}
}

func transactionID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(http.StatusNotFound, ledger.ErrTransactionNotFound.Error())
	}
	return id, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrWalletNotFound), errors.Is(err, ledger.ErrTransactionNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrDuplicateTxID),
		errors.Is(err, ErrMissingTxID),
		errors.Is(err, ErrMissingWallet),
		errors.Is(err, ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
