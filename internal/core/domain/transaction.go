package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a ledger entry.
type TransactionKind string

const (
	TxnDeposit  TransactionKind = "deposit"
	TxnWithdraw TransactionKind = "withdraw"
	TxnRefund   TransactionKind = "refund"
)

// PaymentMethod records how money entered or left the system.
type PaymentMethod string

const (
	PayWeChat  PaymentMethod = "wechat"
	PayAlipay  PaymentMethod = "alipay"
	PayOffline PaymentMethod = "offline"
	PaySystem  PaymentMethod = "system"
)

// TransactionStatus is the settlement state of a ledger entry.
type TransactionStatus string

const (
	TxnPending   TransactionStatus = "pending"
	TxnCompleted TransactionStatus = "completed"
	TxnFailed    TransactionStatus = "failed"
)

// Transaction is an immutable, append-only ledger entry. Amount is always
// positive; the kind determines the sign. The signed sum of an account's
// completed entries must always equal its balance.
type Transaction struct {
	TransactionID    string            `json:"transactionID"`
	UserID           string            `json:"userID"`
	Kind             TransactionKind   `json:"kind"`
	Amount           decimal.Decimal   `json:"amount"`
	Method           PaymentMethod     `json:"method"`
	Status           TransactionStatus `json:"status"`
	Description      string            `json:"description"`
	RelatedBookingID string            `json:"relatedBookingID"` // empty when not booking-related
	CreatedAt        time.Time         `json:"createdAt"`
}

// SignedAmount returns the balance effect of the entry: deposits and refunds
// add, withdrawals subtract.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == TxnWithdraw {
		return t.Amount.Neg()
	}
	return t.Amount
}
