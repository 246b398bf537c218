package notification

import (
	"context"
	"log/slog"
)

const (
	// KindTransactionPosted indicates a new ledger transaction.
	KindTransactionPosted = "transaction_posted"
	// KindTransactionMoved indicates a transaction re-pointed to another wallet.
	KindTransactionMoved = "transaction_moved"
	// KindTransactionVoided indicates a deleted transaction.
	KindTransactionVoided = "transaction_voided"
)

// Message describes a ledger mutation event.
type Message struct {
	Kind     string
	WalletID int64
	TxID     string
	Amount   string
}

// Notifier delivers mutation events to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier is a stub implementation that writes events to the logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("ledger event", "kind", message.Kind, "wallet_id", message.WalletID, "txid", message.TxID, "amount", message.Amount)
	return nil
}
