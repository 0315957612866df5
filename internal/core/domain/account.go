package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds a user's prepaid balance. Accounts are created lazily on the
// first financial operation, mutated only by the ledger, and never deleted.
// Balance never goes below zero.
type Account struct {
	AccountID string          `json:"accountID"`
	UserID    string          `json:"userID"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
