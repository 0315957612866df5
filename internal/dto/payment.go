package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
)

// DepositRequest defines the data needed to top up an account.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Method string          `json:"method" binding:"omitempty,oneof=wechat alipay offline"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID string          `json:"accountID"`
	UserID    string          `json:"userID"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID: a.AccountID,
		UserID:    a.UserID,
		Balance:   a.Balance,
		UpdatedAt: a.UpdatedAt,
	}
}

// DepositResponse is returned after a successful top-up.
type DepositResponse struct {
	TransactionID string          `json:"transactionID"`
	NewBalance    decimal.Decimal `json:"newBalance"`
}

// ListTransactionsParams defines query parameters for ledger listings.
type ListTransactionsParams struct {
	Kind    string `form:"type" binding:"omitempty,oneof=deposit withdraw refund"`
	UserID  string `form:"user_id"`
	Page    int    `form:"page,default=1"`
	PerPage int    `form:"per_page,default=10"`
}

// TransactionResponse defines the data returned for a ledger entry.
type TransactionResponse struct {
	TransactionID    string          `json:"transactionID"`
	UserID           string          `json:"userID"`
	Kind             string          `json:"kind"`
	Amount           decimal.Decimal `json:"amount"`
	Method           string          `json:"method"`
	Status           string          `json:"status"`
	Description      string          `json:"description"`
	RelatedBookingID string          `json:"relatedBookingID,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:    t.TransactionID,
		UserID:           t.UserID,
		Kind:             string(t.Kind),
		Amount:           t.Amount,
		Method:           string(t.Method),
		Status:           string(t.Status),
		Description:      t.Description,
		RelatedBookingID: t.RelatedBookingID,
		CreatedAt:        t.CreatedAt,
	}
}

// ToListTransactionResponse converts a slice of ledger entries.
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// PaymentStatisticsResponse aggregates completed ledger entries for admins.
type PaymentStatisticsResponse struct {
	TotalIncome     decimal.Decimal `json:"totalIncome"`
	TotalExpense    decimal.Decimal `json:"totalExpense"`
	NetIncome       decimal.Decimal `json:"netIncome"`
	TodayIncome     decimal.Decimal `json:"todayIncome"`
	ThisMonthIncome decimal.Decimal `json:"thisMonthIncome"`
}
