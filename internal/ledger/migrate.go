package ledger

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema defines the ledger tables. The txid unique index and the NUMERIC
// amount column are what the store's correctness leans on: uniqueness is
// enforced by the database, and SUM over NUMERIC is exact.
const schema = `
CREATE TABLE IF NOT EXISTS wallets (
    id BIGSERIAL PRIMARY KEY,
    label TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    id BIGSERIAL PRIMARY KEY,
    wallet_id BIGINT NOT NULL REFERENCES wallets (id) ON DELETE CASCADE,
    txid TEXT NOT NULL UNIQUE,
    amount NUMERIC(36, 18) NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS transactions_wallet_id_idx ON transactions (wallet_id);
`

// Migrate applies the ledger schema.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, schema)
	return err
}
