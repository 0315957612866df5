package services

import (
	"context"

	"github.com/spinhall/tt_booking_app/internal/core/domain"
	"github.com/spinhall/tt_booking_app/internal/dto"
)

// LedgerSvcFacade exposes the account and ledger operations of the payment
// surface. Balance-affecting booking/match flows bypass this facade and
// couple their ledger writes to their own atomic units.
type LedgerSvcFacade interface {
	// GetAccount returns the user's account, creating an empty one lazily.
	GetAccount(ctx context.Context, userID string) (*domain.Account, error)

	// Deposit credits the account and appends a deposit entry.
	Deposit(ctx context.Context, userID string, req dto.DepositRequest) (*domain.Account, *domain.Transaction, error)

	// ListMyTransactions lists the user's ledger entries, newest first.
	ListMyTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) ([]domain.Transaction, error)

	// ListAllTransactions lists ledger entries for administrators,
	// campus-scoped for campus admins.
	ListAllTransactions(ctx context.Context, actor domain.Actor, params dto.ListTransactionsParams) ([]domain.Transaction, error)

	// Statistics aggregates completed entries into income/expense figures.
	Statistics(ctx context.Context) (*dto.PaymentStatisticsResponse, error)
}
