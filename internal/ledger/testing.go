package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// SeedWallet is a test helper that creates a wallet with the given
// transactions when using the in-memory store.
func SeedWallet(s Store, label string, amounts ...string) (Wallet, error) {
	mem, ok := s.(*inMemoryStore)
	if !ok {
		return Wallet{}, fmt.Errorf("seeding requires the in-memory store")
	}
	ctx := context.Background()
	w, err := mem.CreateWallet(ctx, label)
	if err != nil {
		return Wallet{}, err
	}
	for i, raw := range amounts {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return Wallet{}, err
		}
		if _, err := mem.CreateTransaction(ctx, w.ID, fmt.Sprintf("seed-%d-%d", w.ID, i), amount); err != nil {
			return Wallet{}, err
		}
	}
	return w, nil
}
