package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spinhall/tt_booking_app/internal/apperrors"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
	portsrepo "github.com/spinhall/tt_booking_app/internal/core/ports/repositories"
)

type PgxMatchRepository struct {
	BaseRepository
}

// newPgxMatchRepository creates a new repository for match and registration data.
func newPgxMatchRepository(pool *pgxpool.Pool) *PgxMatchRepository {
	return &PgxMatchRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxMatchRepository implements portsrepo.MatchRepositoryFacade
var _ portsrepo.MatchRepositoryFacade = (*PgxMatchRepository)(nil)

const matchColumns = `match_id, name, campus_id, match_date, registration_start, registration_end, registration_fee, status, created_at`

const registrationColumns = `registration_id, match_id, student_id, group_label, registration_time, payment_status`

// SaveMatch persists a new match.
func (r *PgxMatchRepository) SaveMatch(ctx context.Context, match domain.Match) error {
	query := `
		INSERT INTO matches (match_id, name, campus_id, match_date, registration_start, registration_end, registration_fee, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		match.MatchID, match.Name, match.CampusID, match.MatchDate,
		match.RegistrationStart, match.RegistrationEnd, match.RegistrationFee,
		match.Status, match.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("match %s already exists: %w", match.MatchID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save match %s: %w", match.MatchID, err)
	}
	return nil
}

// FindMatchByID retrieves a match by its ID.
func (r *PgxMatchRepository) FindMatchByID(ctx context.Context, matchID string) (*domain.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE match_id = $1;`
	match, err := scanMatchRow(r.Pool.QueryRow(ctx, query, matchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find match %s: %w", matchID, err)
	}
	return match, nil
}

// ListMatches retrieves matches, most recent match date first.
func (r *PgxMatchRepository) ListMatches(ctx context.Context, filter portsrepo.MatchFilter) ([]domain.Match, error) {
	args := []any{}
	conditions := []string{}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		conditions = append(conditions, "status = ANY($"+strconv.Itoa(len(args))+")")
	}
	if filter.CampusID != "" {
		args = append(args, filter.CampusID)
		conditions = append(conditions, "campus_id = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + matchColumns + ` FROM matches`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
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
	query += fmt.Sprintf(" ORDER BY match_date DESC, match_id LIMIT $%d OFFSET $%d;", len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := []domain.Match{}
	for rows.Next() {
		match, err := scanMatchRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, *match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match rows: %w", err)
	}
	return matches, nil
}

// TransitionMatchStatus flips a match guarded by its expected current status.
func (r *PgxMatchRepository) TransitionMatchStatus(ctx context.Context, matchID string, from []domain.MatchStatus, to domain.MatchStatus) error {
	statuses := make([]string, len(from))
	for i, s := range from {
		statuses[i] = string(s)
	}
	cmdTag, err := r.Pool.Exec(ctx,
		`UPDATE matches SET status = $3 WHERE match_id = $1 AND status = ANY($2);`,
		matchID, statuses, to)
	if err != nil {
		return fmt.Errorf("failed to transition match %s: %w", matchID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindMatchByID(ctx, matchID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("match %s is not in an eligible status: %w", matchID, apperrors.ErrConflict)
	}
	return nil
}

// RegisterWithFee inserts the registration and debits the fee in one
// transaction. A repeat entry for the same (match, student) fails with
// ErrDuplicate before any money moves.
func (r *PgxMatchRepository) RegisterWithFee(ctx context.Context, registration domain.MatchRegistration, txn domain.Transaction) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO match_registrations (registration_id, match_id, student_id, group_label, registration_time, payment_status)
			VALUES ($1, $2, $3, $4, $5, $6);
		`,
			registration.RegistrationID, registration.MatchID, registration.StudentID,
			registration.Group, registration.RegistrationTime, registration.PaymentStatus,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("student %s is already registered for match %s: %w",
					registration.StudentID, registration.MatchID, apperrors.ErrDuplicate)
			}
			return fmt.Errorf("failed to insert registration %s: %w", registration.RegistrationID, err)
		}

		if txn.Amount.IsZero() {
			return nil
		}
		account, err := lockAccountForUpdate(ctx, tx, registration.StudentID)
		if err != nil {
			return err
		}
		newBalance := account.Balance.Sub(txn.Amount)
		if newBalance.IsNegative() {
			return fmt.Errorf("balance %s cannot cover registration fee %s: %w",
				account.Balance.StringFixed(2), txn.Amount.StringFixed(2), apperrors.ErrInsufficientFunds)
		}
		if err := updateBalanceInTx(ctx, tx, account.AccountID, newBalance, time.Now().UTC()); err != nil {
			return err
		}
		return insertTransactionInTx(ctx, tx, txn)
	})
}

// CancelMatchWithRefunds marks the match cancelled and refunds every paid
// registration, all in one transaction.
func (r *PgxMatchRepository) CancelMatchWithRefunds(ctx context.Context, matchID string) (int, error) {
	refunded := 0
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var match domain.Match
		err := tx.QueryRow(ctx,
			`SELECT `+matchColumns+` FROM matches WHERE match_id = $1 FOR UPDATE;`, matchID).Scan(
			&match.MatchID, &match.Name, &match.CampusID, &match.MatchDate,
			&match.RegistrationStart, &match.RegistrationEnd, &match.RegistrationFee,
			&match.Status, &match.CreatedAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to lock match %s: %w", matchID, err)
		}
		if match.Status == domain.MatchCancelled || match.Status == domain.MatchCompleted {
			return fmt.Errorf("match %s is already %s: %w", matchID, match.Status, apperrors.ErrConflict)
		}

		rows, err := tx.Query(ctx, `
			SELECT `+registrationColumns+`
			FROM match_registrations
			WHERE match_id = $1 AND payment_status = 'paid'
			ORDER BY registration_time, registration_id
			FOR UPDATE;
		`, matchID)
		if err != nil {
			return fmt.Errorf("failed to query paid registrations of match %s: %w", matchID, err)
		}
		registrations, err := collectRegistrations(rows)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, reg := range registrations {
			if txn, ok := refundEntry(match, reg.StudentID, now); ok {
				account, err := lockAccountForUpdate(ctx, tx, reg.StudentID)
				if err != nil {
					return err
				}
				if err := updateBalanceInTx(ctx, tx, account.AccountID, account.Balance.Add(txn.Amount), now); err != nil {
					return err
				}
				if err := insertTransactionInTx(ctx, tx, txn); err != nil {
					return err
				}
			}
			_, err = tx.Exec(ctx,
				`UPDATE match_registrations SET payment_status = 'refunded' WHERE registration_id = $1;`,
				reg.RegistrationID)
			if err != nil {
				return fmt.Errorf("failed to mark registration %s refunded: %w", reg.RegistrationID, err)
			}
		}

		_, err = tx.Exec(ctx, `UPDATE matches SET status = 'cancelled' WHERE match_id = $1;`, matchID)
		if err != nil {
			return fmt.Errorf("failed to cancel match %s: %w", matchID, err)
		}
		refunded = len(registrations)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return refunded, nil
}

// CountPaidByGroup returns paid registration counts keyed by group.
func (r *PgxMatchRepository) CountPaidByGroup(ctx context.Context, matchID string) (map[domain.GroupLabel]int, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT group_label, COUNT(*)
		FROM match_registrations
		WHERE match_id = $1 AND payment_status = 'paid'
		GROUP BY group_label;
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to count registrations of match %s: %w", matchID, err)
	}
	defer rows.Close()

	counts := map[domain.GroupLabel]int{}
	for rows.Next() {
		var group domain.GroupLabel
		var count int
		if err := rows.Scan(&group, &count); err != nil {
			return nil, fmt.Errorf("failed to scan registration count row: %w", err)
		}
		counts[group] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration count rows: %w", err)
	}
	return counts, nil
}

// ListPaidRegistrations returns a match's paid registrations in registration
// order. Scheduling depends on this order being stable.
func (r *PgxMatchRepository) ListPaidRegistrations(ctx context.Context, matchID string) ([]domain.MatchRegistration, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+registrationColumns+`
		FROM match_registrations
		WHERE match_id = $1 AND payment_status = 'paid'
		ORDER BY registration_time, registration_id;
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query paid registrations of match %s: %w", matchID, err)
	}
	return collectRegistrations(rows)
}

// ListRegistrations retrieves a match's registrations, newest first.
func (r *PgxMatchRepository) ListRegistrations(ctx context.Context, matchID string, group domain.GroupLabel, limit, offset int) ([]domain.MatchRegistration, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + registrationColumns + ` FROM match_registrations WHERE match_id = $1`
	args := []any{matchID}
	if group != "" {
		args = append(args, group)
		query += " AND group_label = $" + strconv.Itoa(len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY registration_time DESC, registration_id DESC LIMIT $%d OFFSET $%d;", len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations of match %s: %w", matchID, err)
	}
	return collectRegistrations(rows)
}

// ListRegistrationsForStudent retrieves a student's registrations.
func (r *PgxMatchRepository) ListRegistrationsForStudent(ctx context.Context, studentID string) ([]domain.MatchRegistration, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+registrationColumns+`
		FROM match_registrations
		WHERE student_id = $1
		ORDER BY registration_time DESC;
	`, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations of student %s: %w", studentID, err)
	}
	return collectRegistrations(rows)
}

// refundEntry builds the refund ledger entry for one paid registration. A
// fee-free match moves no money, so no entry is written for it; the
// registration is still marked refunded.
func refundEntry(match domain.Match, studentID string, now time.Time) (domain.Transaction, bool) {
	if match.RegistrationFee.IsZero() {
		return domain.Transaction{}, false
	}
	return domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        studentID,
		Kind:          domain.TxnRefund,
		Amount:        match.RegistrationFee,
		Method:        domain.PaySystem,
		Status:        domain.TxnCompleted,
		Description:   fmt.Sprintf("Registration refund for %s", match.Name),
		CreatedAt:     now,
	}, true
}

func collectRegistrations(rows pgx.Rows) ([]domain.MatchRegistration, error) {
	defer rows.Close()
	registrations := []domain.MatchRegistration{}
	for rows.Next() {
		var reg domain.MatchRegistration
		err := rows.Scan(
			&reg.RegistrationID, &reg.MatchID, &reg.StudentID,
			&reg.Group, &reg.RegistrationTime, &reg.PaymentStatus,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration row: %w", err)
		}
		registrations = append(registrations, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration rows: %w", err)
	}
	return registrations, nil
}

func scanMatchRow(row pgx.Row) (*domain.Match, error) {
	var m domain.Match
	err := row.Scan(
		&m.MatchID, &m.Name, &m.CampusID, &m.MatchDate,
		&m.RegistrationStart, &m.RegistrationEnd, &m.RegistrationFee,
		&m.Status, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
