package wallet

import (
	"context"

	"github.com/ledger-api/ledger_api/internal/ledger"
	"github.com/ledger-api/ledger_api/internal/query"
)

// Service exposes wallet operations over the ledger store.
type Service struct {
	store ledger.Store
}

// NewService builds a wallet service instance.
func NewService(store ledger.Store) *Service {
	return &Service{store: store}
}

// Create provisions a wallet. Labels are free text and never rejected.
func (s *Service) Create(ctx context.Context, label string) (ledger.Wallet, error) {
	return s.store.CreateWallet(ctx, label)
}

// Get retrieves a wallet by id.
func (s *Service) Get(ctx context.Context, id int64) (ledger.Wallet, error) {
	return s.store.GetWallet(ctx, id)
}

// Update replaces the wallet's label. The balance is untouched: it is derived
// state and recomputed on the next read.
func (s *Service) Update(ctx context.Context, id int64, label string) (ledger.Wallet, error) {
	return s.store.UpdateWallet(ctx, id, label)
}

// Delete removes the wallet and cascades to every transaction referencing it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteWallet(ctx, id)
}

// Balance computes the wallet's live balance from its transactions.
func (s *Service) Balance(ctx context.Context, id int64) (ledger.Balance, error) {
	return s.store.Balance(ctx, id)
}

// List returns the filtered, sorted page of wallets and the post-filter total.
func (s *Service) List(ctx context.Context, filter ledger.WalletFilter, sort query.Sort, page query.Page) ([]ledger.Wallet, int64, error) {
	return s.store.ListWallets(ctx, filter, sort, page)
}
