package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ledger-api/ledger_api/internal/query"
)

// WalletFilter matches wallets by exact field values. Nil fields match
// everything; set fields combine with AND.
type WalletFilter struct {
	ID    *int64
	Label *string
}

// TransactionFilter matches transactions by exact field values.
type TransactionFilter struct {
	ID       *int64
	WalletID *int64
	TxID     *string
}

// TransactionUpdate carries the subset of transaction fields to replace. Nil
// fields are left untouched.
type TransactionUpdate struct {
	TxID     *string
	Amount   *decimal.Decimal
	WalletID *int64
}

// Store is the persistence boundary of the ledger. Every write method runs in
// a single store-level transaction, so a concurrent Balance read never sees a
// partially applied mutation.
type Store interface {
	CreateWallet(ctx context.Context, label string) (Wallet, error)
	GetWallet(ctx context.Context, id int64) (Wallet, error)
	UpdateWallet(ctx context.Context, id int64, label string) (Wallet, error)
	// DeleteWallet removes the wallet and, atomically, every transaction
	// referencing it.
	DeleteWallet(ctx context.Context, id int64) error
	// ListWallets applies the filter, then the sort (label or default id
	// ascending), then the page, and returns the slice along with the
	// post-filter total.
	ListWallets(ctx context.Context, filter WalletFilter, sort query.Sort, page query.Page) ([]Wallet, int64, error)
	// Balance aggregates the wallet's transactions with exact decimal
	// arithmetic. It is computed fresh on every call and never cached.
	Balance(ctx context.Context, walletID int64) (Balance, error)

	CreateTransaction(ctx context.Context, walletID int64, txid string, amount decimal.Decimal) (Transaction, error)
	GetTransaction(ctx context.Context, id int64) (Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, update TransactionUpdate) (Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) (Transaction, error)
	// ListTransactions applies the filter and the page over creation order
	// (ascending id) and returns the slice along with the post-filter total.
	ListTransactions(ctx context.Context, filter TransactionFilter, page query.Page) ([]Transaction, int64, error)
}
