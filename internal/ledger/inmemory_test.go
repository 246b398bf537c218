package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ledger-api/ledger_api/internal/query"
)

func TestInMemoryStore_BalanceOfEmptyWallet(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	w, err := s.CreateWallet(ctx, "savings")
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	balance, err := s.Balance(ctx, w.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Entries != 0 {
		t.Fatalf("expected no entries, got %d", balance.Entries)
	}
	if !balance.Sum.IsZero() {
		t.Fatalf("expected zero sum, got %s", balance.Sum)
	}
	if got := balance.String(); got != "0.0" {
		t.Fatalf("expected empty aggregate to render as 0.0, got %s", got)
	}
}

func TestInMemoryStore_BalancePrecision(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	w, err := s.CreateWallet(ctx, "savings")
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	amount := decimal.RequireFromString("10.000000000000000001")
	if _, err := s.CreateTransaction(ctx, w.ID, "tx-1", amount); err != nil {
		t.Fatalf("first transaction: %v", err)
	}
	if _, err := s.CreateTransaction(ctx, w.ID, "tx-2", amount); err != nil {
		t.Fatalf("second transaction: %v", err)
	}

	balance, err := s.Balance(ctx, w.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	want := decimal.RequireFromString("20.000000000000000002")
	if !balance.Sum.Equal(want) {
		t.Fatalf("expected %s, got %s", want, balance.Sum)
	}
	if got := balance.String(); got != "20.000000000000000002" {
		t.Fatalf("unexpected rendering: %s", got)
	}
}

func TestInMemoryStore_DeleteWalletCascades(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	w, err := s.CreateWallet(ctx, "doomed")
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	first, err := s.CreateTransaction(ctx, w.ID, "tx-1", decimal.New(10, 0))
	if err != nil {
		t.Fatalf("first transaction: %v", err)
	}
	second, err := s.CreateTransaction(ctx, w.ID, "tx-2", decimal.New(20, 0))
	if err != nil {
		t.Fatalf("second transaction: %v", err)
	}

	if err := s.DeleteWallet(ctx, w.ID); err != nil {
		t.Fatalf("delete wallet: %v", err)
	}

	if _, err := s.GetWallet(ctx, w.ID); !errors.Is(err, ErrWalletNotFound) {
		t.Fatalf("expected wallet not found, got %v", err)
	}
	if _, err := s.GetTransaction(ctx, first.ID); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected first transaction gone, got %v", err)
	}
	if _, err := s.GetTransaction(ctx, second.ID); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected second transaction gone, got %v", err)
	}
}

func TestInMemoryStore_DuplicateTxID(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	w, err := s.CreateWallet(ctx, "savings")
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	original, err := s.CreateTransaction(ctx, w.ID, "dup", decimal.New(10, 0))
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	if _, err := s.CreateTransaction(ctx, w.ID, "dup", decimal.New(99, 0)); !errors.Is(err, ErrDuplicateTxID) {
		t.Fatalf("expected duplicate txid error, got %v", err)
	}

	kept, err := s.GetTransaction(ctx, original.ID)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if !kept.Amount.Equal(decimal.New(10, 0)) {
		t.Fatalf("original transaction was modified: %s", kept.Amount)
	}
}

func TestInMemoryStore_UpdateTransactionMovesBalance(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	w1, err := s.CreateWallet(ctx, "first")
	if err != nil {
		t.Fatalf("create first wallet: %v", err)
	}
	w2, err := s.CreateWallet(ctx, "second")
	if err != nil {
		t.Fatalf("create second wallet: %v", err)
	}
	txn, err := s.CreateTransaction(ctx, w1.ID, "tx-1", decimal.New(10, 0))
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	if _, err := s.UpdateTransaction(ctx, txn.ID, TransactionUpdate{WalletID: &w2.ID}); err != nil {
		t.Fatalf("update transaction: %v", err)
	}

	fromBalance, err := s.Balance(ctx, w1.ID)
	if err != nil {
		t.Fatalf("balance of old wallet: %v", err)
	}
	if got := fromBalance.String(); got != "0.0" {
		t.Fatalf("expected old wallet emptied, got %s", got)
	}

	toBalance, err := s.Balance(ctx, w2.ID)
	if err != nil {
		t.Fatalf("balance of new wallet: %v", err)
	}
	if got := toBalance.String(); got != "10.000000000000000000" {
		t.Fatalf("expected moved amount only, got %s", got)
	}
}

func TestInMemoryStore_UpdateTransactionTxIDConflict(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	w, err := s.CreateWallet(ctx, "savings")
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	if _, err := s.CreateTransaction(ctx, w.ID, "taken", decimal.New(1, 0)); err != nil {
		t.Fatalf("first transaction: %v", err)
	}
	other, err := s.CreateTransaction(ctx, w.ID, "free", decimal.New(2, 0))
	if err != nil {
		t.Fatalf("second transaction: %v", err)
	}

	taken := "taken"
	if _, err := s.UpdateTransaction(ctx, other.ID, TransactionUpdate{TxID: &taken}); !errors.Is(err, ErrDuplicateTxID) {
		t.Fatalf("expected duplicate txid error, got %v", err)
	}

	// re-submitting a transaction's own txid is not a conflict
	free := "free"
	if _, err := s.UpdateTransaction(ctx, other.ID, TransactionUpdate{TxID: &free}); err != nil {
		t.Fatalf("update with own txid: %v", err)
	}
}

func TestInMemoryStore_UpdateTransactionMissingWallet(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	w, err := s.CreateWallet(ctx, "savings")
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	txn, err := s.CreateTransaction(ctx, w.ID, "tx-1", decimal.New(1, 0))
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	missing := int64(999)
	if _, err := s.UpdateTransaction(ctx, txn.ID, TransactionUpdate{WalletID: &missing}); !errors.Is(err, ErrWalletNotFound) {
		t.Fatalf("expected wallet not found, got %v", err)
	}
}

func TestInMemoryStore_ListWalletsSortAndPaginate(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		if _, err := s.CreateWallet(ctx, fmt.Sprintf("wallet-%02d", i)); err != nil {
			t.Fatalf("create wallet %d: %v", i, err)
		}
	}

	page1, total, err := s.ListWallets(ctx, WalletFilter{}, query.Sort{Field: "label"}, query.Page{Number: 1, Size: 5})
	if err != nil {
		t.Fatalf("list page 1: %v", err)
	}
	if total != 10 {
		t.Fatalf("expected total 10, got %d", total)
	}
	if len(page1) != 5 || page1[0].Label != "wallet-01" || page1[4].Label != "wallet-05" {
		t.Fatalf("unexpected first page: %+v", page1)
	}

	page2, total, err := s.ListWallets(ctx, WalletFilter{}, query.Sort{Field: "label"}, query.Page{Number: 2, Size: 5})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if total != 10 {
		t.Fatalf("expected total 10, got %d", total)
	}
	if len(page2) != 5 || page2[0].Label != "wallet-06" || page2[4].Label != "wallet-10" {
		t.Fatalf("unexpected second page: %+v", page2)
	}

	desc, _, err := s.ListWallets(ctx, WalletFilter{}, query.Sort{Field: "label", Desc: true}, query.Page{Number: 1, Size: 10})
	if err != nil {
		t.Fatalf("list descending: %v", err)
	}
	if desc[0].Label != "wallet-10" || desc[9].Label != "wallet-01" {
		t.Fatalf("descending sort did not reverse the order: %+v", desc)
	}

	beyond, total, err := s.ListWallets(ctx, WalletFilter{}, query.Sort{}, query.Page{Number: 5, Size: 5})
	if err != nil {
		t.Fatalf("list beyond last page: %v", err)
	}
	if total != 10 || len(beyond) != 0 {
		t.Fatalf("expected empty page with total 10, got %d items total %d", len(beyond), total)
	}
}

func TestInMemoryStore_ListWalletsFilter(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	w, err := s.CreateWallet(ctx, "target")
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	if _, err := s.CreateWallet(ctx, "other"); err != nil {
		t.Fatalf("create other wallet: %v", err)
	}

	label := "target"
	matched, total, err := s.ListWallets(ctx, WalletFilter{Label: &label}, query.Sort{}, query.Page{Number: 1, Size: 10})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if total != 1 || len(matched) != 1 || matched[0].ID != w.ID {
		t.Fatalf("expected only the target wallet, got %+v", matched)
	}
}

func TestInMemoryStore_ListTransactionsFilter(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	w1, err := s.CreateWallet(ctx, "first")
	if err != nil {
		t.Fatalf("create first wallet: %v", err)
	}
	w2, err := s.CreateWallet(ctx, "second")
	if err != nil {
		t.Fatalf("create second wallet: %v", err)
	}
	if _, err := s.CreateTransaction(ctx, w1.ID, "tx-1", decimal.New(10, 0)); err != nil {
		t.Fatalf("transaction on first wallet: %v", err)
	}
	if _, err := s.CreateTransaction(ctx, w2.ID, "tx-2", decimal.New(20, 0)); err != nil {
		t.Fatalf("transaction on second wallet: %v", err)
	}

	txid := "tx-1"
	byTxID, total, err := s.ListTransactions(ctx, TransactionFilter{TxID: &txid}, query.Page{Number: 1, Size: 10})
	if err != nil {
		t.Fatalf("list by txid: %v", err)
	}
	if total != 1 || len(byTxID) != 1 || byTxID[0].TxID != "tx-1" {
		t.Fatalf("expected the tx-1 transaction, got %+v", byTxID)
	}

	byWallet, total, err := s.ListTransactions(ctx, TransactionFilter{WalletID: &w2.ID}, query.Page{Number: 1, Size: 10})
	if err != nil {
		t.Fatalf("list by wallet: %v", err)
	}
	if total != 1 || len(byWallet) != 1 || byWallet[0].WalletID != w2.ID {
		t.Fatalf("expected the second wallet's transaction, got %+v", byWallet)
	}
}

func TestInMemoryStore_DeleteTransactionReturnsRemovedRow(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	w, err := s.CreateWallet(ctx, "savings")
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	created, err := s.CreateTransaction(ctx, w.ID, "tx-1", decimal.New(10, 0))
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	removed, err := s.DeleteTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("delete transaction: %v", err)
	}
	if removed.TxID != "tx-1" || !removed.Amount.Equal(decimal.New(10, 0)) {
		t.Fatalf("expected the removed row back, got %+v", removed)
	}

	if _, err := s.DeleteTransaction(ctx, created.ID); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected transaction not found, got %v", err)
	}
}

func TestInMemoryStore_ConcurrentDeletesRemoveRowOnce(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	w, err := s.CreateWallet(ctx, "busy")
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	txn, err := s.CreateTransaction(ctx, w.ID, "tx-1", decimal.New(10, 0))
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	const workers = 10
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.DeleteTransaction(ctx, txn.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrTransactionNotFound):
		default:
			t.Fatalf("unexpected delete error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one delete to observe the row, got %d", succeeded)
	}
}

func TestInMemoryStore_ConcurrentCreatesKeepBalanceConsistent(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	w, err := s.CreateWallet(ctx, "busy")
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	const workers = 10
	amount := decimal.RequireFromString("500.000000000000000001")

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.CreateTransaction(ctx, w.ID, fmt.Sprintf("tx-%d", i), amount); err != nil {
				t.Errorf("transaction %d failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	balance, err := s.Balance(ctx, w.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	want := decimal.RequireFromString("5000.000000000000000010")
	if !balance.Sum.Equal(want) {
		t.Fatalf("expected %s, got %s", want, balance.Sum)
	}
	if balance.Entries != workers {
		t.Fatalf("expected %d entries, got %d", workers, balance.Entries)
	}
}
