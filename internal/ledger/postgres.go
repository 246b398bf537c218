package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ledger-api/ledger_api/internal/query"
)

// PostgresStore persists the ledger in PostgreSQL. Amounts travel as text and
// live in NUMERIC columns, so aggregation stays exact decimal arithmetic.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgres constructs a Postgres-backed store.
func NewPostgres(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateWallet(ctx context.Context, label string) (Wallet, error) {
	w := Wallet{Label: label}
	err := s.db.QueryRow(ctx, `INSERT INTO wallets (label) VALUES ($1) RETURNING id`, label).Scan(&w.ID)
	if err != nil {
		return Wallet{}, err
	}
	return w, nil
}

func (s *PostgresStore) GetWallet(ctx context.Context, id int64) (Wallet, error) {
	var w Wallet
	err := s.db.QueryRow(ctx, `SELECT id, label FROM wallets WHERE id = $1`, id).Scan(&w.ID, &w.Label)
	if errors.Is(err, pgx.ErrNoRows) {
		return Wallet{}, ErrWalletNotFound
	}
	if err != nil {
		return Wallet{}, err
	}
	return w, nil
}

func (s *PostgresStore) UpdateWallet(ctx context.Context, id int64, label string) (Wallet, error) {
	var w Wallet
	err := s.db.QueryRow(ctx, `UPDATE wallets SET label = $2 WHERE id = $1 RETURNING id, label`, id, label).Scan(&w.ID, &w.Label)
	if errors.Is(err, pgx.ErrNoRows) {
		return Wallet{}, ErrWalletNotFound
	}
	if err != nil {
		return Wallet{}, err
	}
	return w, nil
}

// DeleteWallet removes the wallet and its transactions in one database
// transaction, so no reader observes the wallet without its rows or the rows
// without their wallet.
func (s *PostgresStore) DeleteWallet(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var lockedID int64
	if err := tx.QueryRow(ctx, `SELECT id FROM wallets WHERE id = $1 FOR UPDATE`, id).Scan(&lockedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrWalletNotFound
		}
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE wallet_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM wallets WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListWallets runs the count and the page query on one repeatable-read
// snapshot, so the total always agrees with the returned slice.
func (s *PostgresStore) ListWallets(ctx context.Context, filter WalletFilter, by query.Sort, page query.Page) ([]Wallet, int64, error) {
	where, args := walletPredicate(filter)

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var total int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM wallets`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := `ORDER BY id ASC`
	switch {
	case by.Field == "label" && by.Desc:
		order = `ORDER BY label DESC, id DESC`
	case by.Field == "label":
		order = `ORDER BY label ASC, id ASC`
	}

	sql := fmt.Sprintf(`SELECT id, label FROM wallets%s %s LIMIT $%d OFFSET $%d`,
		where, order, len(args)+1, len(args)+2)
	rows, err := tx.Query(ctx, sql, append(args, page.Size, page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	wallets := make([]Wallet, 0, page.Size)
	for rows.Next() {
		var w Wallet
		if err := rows.Scan(&w.ID, &w.Label); err != nil {
			return nil, 0, err
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()
	return wallets, total, tx.Commit(ctx)
}

// Balance runs the aggregation as a single statement, so the result always
// reflects exactly one committed state of the transactions table.
func (s *PostgresStore) Balance(ctx context.Context, walletID int64) (Balance, error) {
	if _, err := s.GetWallet(ctx, walletID); err != nil {
		return Balance{}, err
	}

	const sql = `SELECT COUNT(*), COALESCE(SUM(amount), 0)::text FROM transactions WHERE wallet_id = $1`
	var balance Balance
	var sum string
	if err := s.db.QueryRow(ctx, sql, walletID).Scan(&balance.Entries, &sum); err != nil {
		return Balance{}, err
	}
	parsed, err := decimal.NewFromString(sum)
	if err != nil {
		return Balance{}, fmt.Errorf("parse aggregated balance: %w", err)
	}
	balance.Sum = parsed
	return balance, nil
}

func (s *PostgresStore) CreateTransaction(ctx context.Context, walletID int64, txid string, amount decimal.Decimal) (Transaction, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Transaction{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	// Lock the owning wallet so a concurrent cascade delete cannot interleave.
	var lockedID int64
	if err := tx.QueryRow(ctx, `SELECT id FROM wallets WHERE id = $1 FOR UPDATE`, walletID).Scan(&lockedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrWalletNotFound
		}
		return Transaction{}, err
	}

	txn := Transaction{WalletID: walletID, TxID: txid, Amount: amount}
	err = tx.QueryRow(ctx, `INSERT INTO transactions (wallet_id, txid, amount) VALUES ($1, $2, $3::numeric) RETURNING id`,
		walletID, txid, amount.String()).Scan(&txn.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return Transaction{}, ErrDuplicateTxID
		}
		return Transaction{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Transaction{}, err
	}
	return txn, nil
}

func (s *PostgresStore) GetTransaction(ctx context.Context, id int64) (Transaction, error) {
	var txn Transaction
	var amount string
	err := s.db.QueryRow(ctx, `SELECT id, wallet_id, txid, amount::text FROM transactions WHERE id = $1`, id).
		Scan(&txn.ID, &txn.WalletID, &txn.TxID, &amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, ErrTransactionNotFound
	}
	if err != nil {
		return Transaction{}, err
	}
	txn.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("parse stored amount: %w", err)
	}
	return txn, nil
}

// UpdateTransaction replaces the provided fields in one database transaction.
// Re-pointing the wallet is therefore atomic: the amount moves from the old
// wallet's aggregate to the new one with no intermediate state visible.
func (s *PostgresStore) UpdateTransaction(ctx context.Context, id int64, update TransactionUpdate) (Transaction, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Transaction{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var txn Transaction
	var amount string
	err = tx.QueryRow(ctx, `SELECT id, wallet_id, txid, amount::text FROM transactions WHERE id = $1 FOR UPDATE`, id).
		Scan(&txn.ID, &txn.WalletID, &txn.TxID, &amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, ErrTransactionNotFound
	}
	if err != nil {
		return Transaction{}, err
	}
	txn.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("parse stored amount: %w", err)
	}

	if update.WalletID != nil {
		var lockedID int64
		if err := tx.QueryRow(ctx, `SELECT id FROM wallets WHERE id = $1 FOR UPDATE`, *update.WalletID).Scan(&lockedID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return Transaction{}, ErrWalletNotFound
			}
			return Transaction{}, err
		}
		txn.WalletID = *update.WalletID
	}
	if update.TxID != nil {
		txn.TxID = *update.TxID
	}
	if update.Amount != nil {
		txn.Amount = *update.Amount
	}

	_, err = tx.Exec(ctx, `UPDATE transactions SET wallet_id = $2, txid = $3, amount = $4::numeric WHERE id = $1`,
		id, txn.WalletID, txn.TxID, txn.Amount.String())
	if err != nil {
		if isUniqueViolation(err) {
			return Transaction{}, ErrDuplicateTxID
		}
		return Transaction{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Transaction{}, err
	}
	return txn, nil
}

// DeleteTransaction removes the row and returns it, so exactly one of two
// racing deleters observes the transaction.
func (s *PostgresStore) DeleteTransaction(ctx context.Context, id int64) (Transaction, error) {
	var txn Transaction
	var amount string
	err := s.db.QueryRow(ctx, `DELETE FROM transactions WHERE id = $1 RETURNING id, wallet_id, txid, amount::text`, id).
		Scan(&txn.ID, &txn.WalletID, &txn.TxID, &amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, ErrTransactionNotFound
	}
	if err != nil {
		return Transaction{}, err
	}
	txn.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("parse stored amount: %w", err)
	}
	return txn, nil
}

// ListTransactions shares ListWallets' snapshot discipline: count and page
// come from the same repeatable-read transaction.
func (s *PostgresStore) ListTransactions(ctx context.Context, filter TransactionFilter, page query.Page) ([]Transaction, int64, error) {
	where, args := transactionPredicate(filter)

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var total int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sql := fmt.Sprintf(`SELECT id, wallet_id, txid, amount::text FROM transactions%s ORDER BY id ASC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	rows, err := tx.Query(ctx, sql, append(args, page.Size, page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	transactions := make([]Transaction, 0, page.Size)
	for rows.Next() {
		var txn Transaction
		var amount string
		if err := rows.Scan(&txn.ID, &txn.WalletID, &txn.TxID, &amount); err != nil {
			return nil, 0, err
		}
		txn.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, 0, fmt.Errorf("parse stored amount: %w", err)
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()
	return transactions, total, tx.Commit(ctx)
}

func walletPredicate(filter WalletFilter) (string, []any) {
	var clauses []string
	var args []any
	if filter.ID != nil {
		args = append(args, *filter.ID)
		clauses = append(clauses, fmt.Sprintf("id = $%d", len(args)))
	}
	if filter.Label != nil {
		args = append(args, *filter.Label)
		clauses = append(clauses, fmt.Sprintf("label = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func transactionPredicate(filter TransactionFilter) (string, []any) {
	var clauses []string
	var args []any
	if filter.ID != nil {
		args = append(args, *filter.ID)
		clauses = append(clauses, fmt.Sprintf("id = $%d", len(args)))
	}
	if filter.WalletID != nil {
		args = append(args, *filter.WalletID)
		clauses = append(clauses, fmt.Sprintf("wallet_id = $%d", len(args)))
	}
	if filter.TxID != nil {
		args = append(args, *filter.TxID)
		clauses = append(clauses, fmt.Sprintf("txid = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
