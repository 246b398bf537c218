package ledger

import "errors"

var (
	// ErrWalletNotFound occurs when a wallet id does not reference a stored wallet.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrTransactionNotFound occurs when a transaction id does not reference a
	// stored transaction.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrDuplicateTxID indicates the provided txid is already taken by another
	// transaction. The text is the client-visible error detail.
	ErrDuplicateTxID = errors.New("transaction with this txid already exists.")
)
