package transaction

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/ledger-api/ledger_api/internal/ledger"
	"github.com/ledger-api/ledger_api/internal/notification"
	"github.com/ledger-api/ledger_api/internal/query"
)

var (
	// ErrMissingTxID indicates a create or update without a usable txid.
	ErrMissingTxID = errors.New("txid is required")

	// ErrMissingWallet indicates a create without a wallet reference.
	ErrMissingWallet = errors.New("wallet is required")

	// ErrInvalidAmount indicates an amount that is not a decimal within the
	// supported 36-digit, 18-decimal-place precision.
	ErrInvalidAmount = errors.New("amount must be a decimal with at most 36 digits and 18 decimal places")
)

// Service exposes transaction operations over the ledger store.
type Service struct {
	store    ledger.Store
	notifier notification.Notifier
}

// NewService builds a transaction service instance.
func NewService(store ledger.Store, notifier notification.Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// CreateInput captures data required to post a transaction. Amount holds the
// raw decimal text; empty means the default of zero.
type CreateInput struct {
	WalletID int64
	TxID     string
	Amount   string
}

// UpdateInput carries the subset of fields to replace. Nil fields keep their
// stored value.
type UpdateInput struct {
	WalletID *int64
	TxID     *string
	Amount   *string
}

// Create posts a transaction against an existing wallet.
func (s *Service) Create(ctx context.Context, input CreateInput) (ledger.Transaction, error) {
	if input.TxID == "" {
		return ledger.Transaction{}, ErrMissingTxID
	}
	if input.WalletID == 0 {
		return ledger.Transaction{}, ErrMissingWallet
	}
	amount, err := parseAmount(input.Amount)
	if err != nil {
		return ledger.Transaction{}, err
	}

	txn, err := s.store.CreateTransaction(ctx, input.WalletID, input.TxID, amount)
	if err != nil {
		return ledger.Transaction{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:     notification.KindTransactionPosted,
			WalletID: txn.WalletID,
			TxID:     txn.TxID,
			Amount:   ledger.FormatAmount(txn.Amount),
		})
	}
	return txn, nil
}

// Get retrieves a transaction by id.
func (s *Service) Get(ctx context.Context, id int64) (ledger.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

// Update replaces any subset of txid, amount, and wallet reference in one
// atomic store operation.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (ledger.Transaction, error) {
	update := ledger.TransactionUpdate{WalletID: input.WalletID}
	if input.TxID != nil {
		if *input.TxID == "" {
			return ledger.Transaction{}, ErrMissingTxID
		}
		update.TxID = input.TxID
	}
	if input.Amount != nil {
		amount, err := parseAmount(*input.Amount)
		if err != nil {
			return ledger.Transaction{}, err
		}
		update.Amount = &amount
	}

	txn, err := s.store.UpdateTransaction(ctx, id, update)
	if err != nil {
		return ledger.Transaction{}, err
	}

	if s.notifier != nil && input.WalletID != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:     notification.KindTransactionMoved,
			WalletID: txn.WalletID,
			TxID:     txn.TxID,
			Amount:   ledger.FormatAmount(txn.Amount),
		})
	}
	return txn, nil
}

// Delete removes a transaction; the owning wallet's next balance read
// reflects the removal. The store hands back the removed row, so two racing
// deletes cannot both succeed.
func (s *Service) Delete(ctx context.Context, id int64) error {
	txn, err := s.store.DeleteTransaction(ctx, id)
	if err != nil {
		return err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:     notification.KindTransactionVoided,
			WalletID: txn.WalletID,
			TxID:     txn.TxID,
			Amount:   ledger.FormatAmount(txn.Amount),
		})
	}
	return nil
}

// List returns the filtered page of transactions in creation order along with
// the post-filter total.
func (s *Service) List(ctx context.Context, filter ledger.TransactionFilter, page query.Page) ([]ledger.Transaction, int64, error) {
	return s.store.ListTransactions(ctx, filter, page)
}

// parseAmount validates the raw decimal text against the stored precision:
// amounts must fit numeric(36,18) without rounding.
func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	if amount.Exponent() < -ledger.AmountScale {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	if int(amount.NumDigits()) > ledger.AmountDigits {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return amount, nil
}
