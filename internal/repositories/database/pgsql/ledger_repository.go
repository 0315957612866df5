package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/spinhall/tt_booking_app/internal/apperrors"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
	portsrepo "github.com/spinhall/tt_booking_app/internal/core/ports/repositories"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for accounts and ledger entries.
func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// FindAccountByUserID retrieves a user's account without creating one.
func (r *PgxLedgerRepository) FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	query := `
		SELECT account_id, user_id, balance, created_at, updated_at
		FROM accounts
		WHERE user_id = $1;
	`
	var acc domain.Account
	err := r.Pool.QueryRow(ctx, query, userID).Scan(
		&acc.AccountID, &acc.UserID, &acc.Balance, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account for user %s: %w", userID, err)
	}
	return &acc, nil
}

// GetOrCreateAccount returns the user's account, inserting a zero-balance one
// on first use. The insert is idempotent under concurrency.
func (r *PgxLedgerRepository) GetOrCreateAccount(ctx context.Context, userID string) (*domain.Account, error) {
	insert := `
		INSERT INTO accounts (account_id, user_id, balance, created_at, updated_at)
		VALUES ($1, $2, 0, $3, $3)
		ON CONFLICT (user_id) DO NOTHING;
	`
	if _, err := r.Pool.Exec(ctx, insert, uuid.NewString(), userID, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to ensure account for user %s: %w", userID, err)
	}
	return r.FindAccountByUserID(ctx, userID)
}

// Credit adds the entry amount to the owner's balance and appends the entry,
// both in one transaction.
func (r *PgxLedgerRepository) Credit(ctx context.Context, txn domain.Transaction) (*domain.Account, error) {
	return r.applyEntry(ctx, txn, txn.Amount)
}

// Debit subtracts the entry amount, failing with ErrInsufficientFunds before
// any mutation when the balance cannot cover it.
func (r *PgxLedgerRepository) Debit(ctx context.Context, txn domain.Transaction) (*domain.Account, error) {
	return r.applyEntry(ctx, txn, txn.Amount.Neg())
}

// applyEntry locks the account row, applies the signed delta and appends the
// ledger entry. The row lock linearizes concurrent mutations of one account.
func (r *PgxLedgerRepository) applyEntry(ctx context.Context, txn domain.Transaction, delta decimal.Decimal) (*domain.Account, error) {
	var account *domain.Account
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		acc, err := lockAccountForUpdate(ctx, tx, txn.UserID)
		if err != nil {
			return err
		}
		newBalance := acc.Balance.Add(delta)
		if newBalance.IsNegative() {
			return fmt.Errorf("balance %s cannot cover %s: %w",
				acc.Balance.StringFixed(2), txn.Amount.StringFixed(2), apperrors.ErrInsufficientFunds)
		}

		now := time.Now().UTC()
		if err := updateBalanceInTx(ctx, tx, acc.AccountID, newBalance, now); err != nil {
			return err
		}
		if err := insertTransactionInTx(ctx, tx, txn); err != nil {
			return err
		}

		acc.Balance = newBalance
		acc.UpdatedAt = now
		account = acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// lockAccountForUpdate lazily creates the owner's account and locks its row.
// Must be called within a transaction.
func lockAccountForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.Account, error) {
	insert := `
		INSERT INTO accounts (account_id, user_id, balance, created_at, updated_at)
		VALUES ($1, $2, 0, $3, $3)
		ON CONFLICT (user_id) DO NOTHING;
	`
	if _, err := tx.Exec(ctx, insert, uuid.NewString(), userID, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to ensure account for user %s: %w", userID, err)
	}

	query := `
		SELECT account_id, user_id, balance, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
		FOR UPDATE;
	`
	var acc domain.Account
	err := tx.QueryRow(ctx, query, userID).Scan(
		&acc.AccountID, &acc.UserID, &acc.Balance, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account for user %s: %w", userID, err)
	}
	return &acc, nil
}

func updateBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, balance decimal.Decimal, now time.Time) error {
	cmdTag, err := tx.Exec(ctx,
		`UPDATE accounts SET balance = $2, updated_at = $3 WHERE account_id = $1;`,
		accountID, balance, now)
	if err != nil {
		return fmt.Errorf("failed to update balance of account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func insertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	query := `
		INSERT INTO transactions (transaction_id, user_id, kind, amount, method, status, description, related_booking_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	var bookingID sql.NullString
	if txn.RelatedBookingID != "" {
		bookingID = sql.NullString{String: txn.RelatedBookingID, Valid: true}
	}
	_, err := tx.Exec(ctx, query,
		txn.TransactionID, txn.UserID, txn.Kind, txn.Amount, txn.Method,
		txn.Status, txn.Description, bookingID, txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

// ListTransactions retrieves ledger entries, newest first.
func (r *PgxLedgerRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT t.transaction_id, t.user_id, t.kind, t.amount, t.method, t.status, t.description, t.related_booking_id, t.created_at
		FROM transactions t
	`)
	args := []any{}
	conditions := []string{}

	if filter.CampusID != "" {
		sb.WriteString(" JOIN users u ON u.user_id = t.user_id")
		args = append(args, filter.CampusID)
		conditions = append(conditions, "u.campus_id = $"+strconv.Itoa(len(args)))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conditions = append(conditions, "t.user_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		conditions = append(conditions, "t.kind = $"+strconv.Itoa(len(args)))
	}
	if len(conditions) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	sb.WriteString(fmt.Sprintf(" ORDER BY t.created_at DESC, t.transaction_id DESC LIMIT $%d OFFSET $%d;", len(args)-1, len(args)))

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return transactions, nil
}

// SumCompleted sums completed entries of one kind created at or after since.
func (r *PgxLedgerRepository) SumCompleted(ctx context.Context, kind domain.TransactionKind, since *time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE kind = $1 AND status = 'completed'
	`
	args := []any{kind}
	if since != nil {
		query += " AND created_at >= $2"
		args = append(args, *since)
	}

	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum %s transactions: %w", kind, err)
	}
	return total, nil
}

func scanTransaction(rows pgx.Rows) (domain.Transaction, error) {
	var txn domain.Transaction
	var bookingID sql.NullString
	err := rows.Scan(
		&txn.TransactionID, &txn.UserID, &txn.Kind, &txn.Amount, &txn.Method,
		&txn.Status, &txn.Description, &bookingID, &txn.CreatedAt,
	)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("failed to scan transaction row: %w", err)
	}
	if bookingID.Valid {
		txn.RelatedBookingID = bookingID.String
	}
	return txn, nil
}
