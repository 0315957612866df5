package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
)

// TransactionFilter narrows ledger entry listings.
type TransactionFilter struct {
	UserID   string                 // empty matches all
	Kind     domain.TransactionKind // empty matches all
	CampusID string                 // empty matches all
	Limit    int
	Offset   int
}

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByUserID retrieves a user's account, ErrNotFound when the
	// user has never had a financial operation.
	FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error)
}

// LedgerWriter defines the balance-mutating operations. Both Credit and
// Debit lock the account row, mutate the balance and append the transaction
// in a single database transaction; the account is created lazily if absent.
type LedgerWriter interface {
	// GetOrCreateAccount returns the user's account, creating an empty one
	// on first use.
	GetOrCreateAccount(ctx context.Context, userID string) (*domain.Account, error)

	// Credit adds txn.Amount to the owner's balance and appends the entry.
	Credit(ctx context.Context, txn domain.Transaction) (*domain.Account, error)

	// Debit subtracts txn.Amount from the owner's balance and appends the
	// entry. Fails with ErrInsufficientFunds before any mutation when the
	// balance cannot cover the amount; the balance never goes negative.
	Debit(ctx context.Context, txn domain.Transaction) (*domain.Account, error)
}

// TransactionReader defines read operations over the append-only ledger.
type TransactionReader interface {
	// ListTransactions retrieves ledger entries, newest first.
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, error)

	// SumCompleted sums completed entries of one kind created at or after
	// since (all time when since is nil).
	SumCompleted(ctx context.Context, kind domain.TransactionKind, since *time.Time) (decimal.Decimal, error)
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	AccountReader
	LedgerWriter
	TransactionReader
}
