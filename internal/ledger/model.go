package ledger

import "github.com/shopspring/decimal"

// AmountScale is the fixed decimal scale amounts are stored and rendered at.
const AmountScale = 18

// AmountDigits caps the total significant digits an amount may carry.
const AmountDigits = 36

// Wallet is an account whose balance derives from its transactions.
type Wallet struct {
	ID    int64
	Label string
}

// Transaction is a signed adjustment against exactly one wallet, uniquely
// identified by its client-supplied txid.
type Transaction struct {
	ID       int64
	WalletID int64
	TxID     string
	Amount   decimal.Decimal
}

// Balance is the outcome of a live aggregation over a wallet's transactions.
// Entries distinguishes an empty aggregate from a computed zero.
type Balance struct {
	Sum     decimal.Decimal
	Entries int64
}

// String renders the balance for API responses. An aggregate with no rows
// renders as the store's zero literal "0.0"; any computed value renders at
// the full fixed scale.
func (b Balance) String() string {
	if b.Entries == 0 {
		return "0.0"
	}
	return b.Sum.StringFixed(AmountScale)
}

// FormatAmount renders a transaction amount at the fixed output scale.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountScale)
}
