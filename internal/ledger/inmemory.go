package ledger

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ledger-api/ledger_api/internal/query"
)

type inMemoryStore struct {
	mu           sync.RWMutex
	wallets      map[int64]Wallet
	transactions map[int64]Transaction
	nextWalletID int64
	nextTxnID    int64
}

// NewInMemory creates a concurrency-safe in-memory store used for unit tests
// and database-less development runs.
func NewInMemory() Store {
	return &inMemoryStore{
		wallets:      make(map[int64]Wallet),
		transactions: make(map[int64]Transaction),
	}
}

func (s *inMemoryStore) CreateWallet(_ context.Context, label string) (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextWalletID++
	w := Wallet{ID: s.nextWalletID, Label: label}
	s.wallets[w.ID] = w
	return w, nil
}

func (s *inMemoryStore) GetWallet(_ context.Context, id int64) (Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wallets[id]
	if !ok {
		return Wallet{}, ErrWalletNotFound
	}
	return w, nil
}

func (s *inMemoryStore) UpdateWallet(_ context.Context, id int64, label string) (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[id]
	if !ok {
		return Wallet{}, ErrWalletNotFound
	}
	w.Label = label
	s.wallets[id] = w
	return w, nil
}

func (s *inMemoryStore) DeleteWallet(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wallets[id]; !ok {
		return ErrWalletNotFound
	}
	delete(s.wallets, id)
	for txnID, txn := range s.transactions {
		if txn.WalletID == id {
			delete(s.transactions, txnID)
		}
	}
	return nil
}

func (s *inMemoryStore) ListWallets(_ context.Context, filter WalletFilter, by query.Sort, page query.Page) ([]Wallet, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]Wallet, 0, len(s.wallets))
	for _, w := range s.wallets {
		if filter.ID != nil && w.ID != *filter.ID {
			continue
		}
		if filter.Label != nil && w.Label != *filter.Label {
			continue
		}
		matched = append(matched, w)
	}

	switch {
	case by.Field == "label" && by.Desc:
		sort.Slice(matched, func(i, j int) bool {
			if matched[i].Label != matched[j].Label {
				return matched[i].Label > matched[j].Label
			}
			return matched[i].ID > matched[j].ID
		})
	case by.Field == "label":
		sort.Slice(matched, func(i, j int) bool {
			if matched[i].Label != matched[j].Label {
				return matched[i].Label < matched[j].Label
			}
			return matched[i].ID < matched[j].ID
		})
	default:
		sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	}

	total := int64(len(matched))
	lo, hi := page.Bounds(len(matched))
	return matched[lo:hi], total, nil
}

func (s *inMemoryStore) Balance(_ context.Context, walletID int64) (Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.wallets[walletID]; !ok {
		return Balance{}, ErrWalletNotFound
	}
	balance := Balance{Sum: decimal.Zero}
	for _, txn := range s.transactions {
		if txn.WalletID == walletID {
			balance.Sum = balance.Sum.Add(txn.Amount)
			balance.Entries++
		}
	}
	return balance, nil
}

func (s *inMemoryStore) CreateTransaction(_ context.Context, walletID int64, txid string, amount decimal.Decimal) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wallets[walletID]; !ok {
		return Transaction{}, ErrWalletNotFound
	}
	for _, txn := range s.transactions {
		if txn.TxID == txid {
			return Transaction{}, ErrDuplicateTxID
		}
	}
	s.nextTxnID++
	txn := Transaction{ID: s.nextTxnID, WalletID: walletID, TxID: txid, Amount: amount}
	s.transactions[txn.ID] = txn
	return txn, nil
}

func (s *inMemoryStore) GetTransaction(_ context.Context, id int64) (Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txn, ok := s.transactions[id]
	if !ok {
		return Transaction{}, ErrTransactionNotFound
	}
	return txn, nil
}

func (s *inMemoryStore) UpdateTransaction(_ context.Context, id int64, update TransactionUpdate) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.transactions[id]
	if !ok {
		return Transaction{}, ErrTransactionNotFound
	}
	if update.WalletID != nil {
		if _, ok := s.wallets[*update.WalletID]; !ok {
			return Transaction{}, ErrWalletNotFound
		}
		txn.WalletID = *update.WalletID
	}
	if update.TxID != nil {
		for otherID, other := range s.transactions {
			if otherID != id && other.TxID == *update.TxID {
				return Transaction{}, ErrDuplicateTxID
			}
		}
		txn.TxID = *update.TxID
	}
	if update.Amount != nil {
		txn.Amount = *update.Amount
	}
	s.transactions[id] = txn
	return txn, nil
}

func (s *inMemoryStore) DeleteTransaction(_ context.Context, id int64) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.transactions[id]
	if !ok {
		return Transaction{}, ErrTransactionNotFound
	}
	delete(s.transactions, id)
	return txn, nil
}

func (s *inMemoryStore) ListTransactions(_ context.Context, filter TransactionFilter, page query.Page) ([]Transaction, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]Transaction, 0, len(s.transactions))
	for _, txn := range s.transactions {
		if filter.ID != nil && txn.ID != *filter.ID {
			continue
		}
		if filter.WalletID != nil && txn.WalletID != *filter.WalletID {
			continue
		}
		if filter.TxID != nil && txn.TxID != *filter.TxID {
			continue
		}
		matched = append(matched, txn)
	}

	// creation order
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	lo, hi := page.Bounds(len(matched))
	return matched[lo:hi], total, nil
}
