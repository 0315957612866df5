package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spinhall/tt_booking_app/internal/apperrors"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
	portsrepo "github.com/spinhall/tt_booking_app/internal/core/ports/repositories"
)

type PgxBookingRepository struct {
	BaseRepository
}

// newPgxBookingRepository creates a new repository for booking data.
func newPgxBookingRepository(pool *pgxpool.Pool) *PgxBookingRepository {
	return &PgxBookingRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxBookingRepository implements portsrepo.BookingRepositoryFacade
var _ portsrepo.BookingRepositoryFacade = (*PgxBookingRepository)(nil)

const bookingColumns = `booking_id, student_id, coach_id, campus_id, table_id, booking_date, start_minute, end_minute, lesson_fee, status, created_at, confirm_time`

// activeStatuses are the statuses that occupy a resource's calendar.
const activeStatuses = `('pending', 'confirmed')`

// resourceColumn maps a resource kind to the bookings column holding it.
func resourceColumn(kind domain.ResourceKind) string {
	switch kind {
	case domain.ResourceStudent:
		return "student_id"
	case domain.ResourceCoach:
		return "coach_id"
	default:
		return "table_id"
	}
}

// bookingResource identifies one calendar the booking occupies.
type bookingResource struct {
	kind domain.ResourceKind
	id   string
}

func bookingResources(booking domain.Booking) []bookingResource {
	resources := []bookingResource{
		{domain.ResourceCoach, booking.CoachID},
		{domain.ResourceStudent, booking.StudentID},
	}
	if booking.TableID != "" {
		resources = append(resources, bookingResource{domain.ResourceTable, booking.TableID})
	}
	return resources
}

// bookingLockKeys returns the advisory lock keys for the booking's resources
// on its date. Keys come out sorted so concurrent creations touching the same
// resources always lock in the same order and cannot deadlock.
func bookingLockKeys(booking domain.Booking) []string {
	resources := bookingResources(booking)
	keys := make([]string, len(resources))
	for i, res := range resources {
		keys[i] = fmt.Sprintf("%s:%s:%s", res.kind, res.id, booking.Slot.Date.Format("2006-01-02"))
	}
	sort.Strings(keys)
	return keys
}

// CreateBooking serializes on the booking's resources via advisory locks,
// re-checks availability and inserts, all in one transaction. Two concurrent
// requests for an overlapping slot queue on the same lock; the loser then
// sees the winner's row and fails with a SlotConflictError.
func (r *PgxBookingRepository) CreateBooking(ctx context.Context, booking domain.Booking) error {
	resources := bookingResources(booking)
	keys := bookingLockKeys(booking)

	return r.inTx(ctx, func(tx pgx.Tx) error {
		for _, key := range keys {
			if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0));`, key); err != nil {
				return fmt.Errorf("failed to acquire booking lock %s: %w", key, err)
			}
		}

		for _, res := range resources {
			occupied, err := overlapExists(ctx, tx, res.kind, res.id, booking.Slot)
			if err != nil {
				return err
			}
			if occupied {
				return apperrors.NewSlotConflict(string(res.kind))
			}
		}

		var tableID sql.NullString
		if booking.TableID != "" {
			tableID = sql.NullString{String: booking.TableID, Valid: true}
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO bookings (booking_id, student_id, coach_id, campus_id, table_id, booking_date, start_minute, end_minute, lesson_fee, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
		`,
			booking.BookingID, booking.StudentID, booking.CoachID, booking.CampusID,
			tableID, booking.Slot.Date, booking.Slot.StartMinute, booking.Slot.EndMinute,
			booking.LessonFee, booking.Status, booking.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert booking %s: %w", booking.BookingID, err)
		}
		return nil
	})
}

// ConfirmBookingWithDebit re-checks the pending status under a row lock,
// debits the student's account and flips the booking, all atomically.
func (r *PgxBookingRepository) ConfirmBookingWithDebit(ctx context.Context, bookingID string, txn domain.Transaction, confirmTime time.Time) (*domain.Booking, error) {
	var confirmed *domain.Booking
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		booking, err := lockBookingForUpdate(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if booking.Status != domain.BookingPending {
			return fmt.Errorf("booking %s is %s, not pending: %w", bookingID, booking.Status, apperrors.ErrConflict)
		}

		// A zero-fee lesson moves no money and writes no ledger entry.
		if !txn.Amount.IsZero() {
			account, err := lockAccountForUpdate(ctx, tx, booking.StudentID)
			if err != nil {
				return err
			}
			newBalance := account.Balance.Sub(txn.Amount)
			if newBalance.IsNegative() {
				return fmt.Errorf("balance %s cannot cover lesson fee %s: %w",
					account.Balance.StringFixed(2), txn.Amount.StringFixed(2), apperrors.ErrInsufficientFunds)
			}

			now := time.Now().UTC()
			if err := updateBalanceInTx(ctx, tx, account.AccountID, newBalance, now); err != nil {
				return err
			}
			if err := insertTransactionInTx(ctx, tx, txn); err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx,
			`UPDATE bookings SET status = 'confirmed', confirm_time = $2 WHERE booking_id = $1;`,
			bookingID, confirmTime)
		if err != nil {
			return fmt.Errorf("failed to confirm booking %s: %w", bookingID, err)
		}

		booking.Status = domain.BookingConfirmed
		booking.ConfirmTime = &confirmTime
		confirmed = booking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return confirmed, nil
}

// CancelBookingWithRefund re-checks the confirmed status under a row lock,
// credits the fee back and flips the booking, all atomically.
func (r *PgxBookingRepository) CancelBookingWithRefund(ctx context.Context, bookingID string, txn domain.Transaction) (*domain.Booking, error) {
	var cancelled *domain.Booking
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		booking, err := lockBookingForUpdate(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if booking.Status != domain.BookingConfirmed {
			return fmt.Errorf("booking %s is %s, not confirmed: %w", bookingID, booking.Status, apperrors.ErrConflict)
		}

		if !txn.Amount.IsZero() {
			account, err := lockAccountForUpdate(ctx, tx, booking.StudentID)
			if err != nil {
				return err
			}
			now := time.Now().UTC()
			if err := updateBalanceInTx(ctx, tx, account.AccountID, account.Balance.Add(txn.Amount), now); err != nil {
				return err
			}
			if err := insertTransactionInTx(ctx, tx, txn); err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx,
			`UPDATE bookings SET status = 'cancelled' WHERE booking_id = $1;`, bookingID)
		if err != nil {
			return fmt.Errorf("failed to cancel booking %s: %w", bookingID, err)
		}

		booking.Status = domain.BookingCancelled
		cancelled = booking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// TransitionBookingStatus flips a booking with no ledger effect, guarded by
// the expected current status.
func (r *PgxBookingRepository) TransitionBookingStatus(ctx context.Context, bookingID string, from, to domain.BookingStatus) error {
	cmdTag, err := r.Pool.Exec(ctx,
		`UPDATE bookings SET status = $3 WHERE booking_id = $1 AND status = $2;`,
		bookingID, from, to)
	if err != nil {
		return fmt.Errorf("failed to transition booking %s: %w", bookingID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindBookingByID(ctx, bookingID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("booking %s is not %s: %w", bookingID, from, apperrors.ErrConflict)
	}
	return nil
}

// FindBookingByID retrieves a booking by its ID.
func (r *PgxBookingRepository) FindBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_id = $1;`
	booking, err := scanBookingRow(r.Pool.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking %s: %w", bookingID, err)
	}
	return booking, nil
}

// ListBookingsForStudent retrieves a student's bookings, newest first.
func (r *PgxBookingRepository) ListBookingsForStudent(ctx context.Context, studentID string, filter portsrepo.BookingFilter) ([]domain.Booking, error) {
	return r.listBookings(ctx, filter, "student_id = $%d", studentID)
}

// ListBookingsForCoach retrieves a coach's bookings, newest first.
func (r *PgxBookingRepository) ListBookingsForCoach(ctx context.Context, coachID string, filter portsrepo.BookingFilter) ([]domain.Booking, error) {
	return r.listBookings(ctx, filter, "coach_id = $%d", coachID)
}

// ListBookings retrieves bookings across users for administrators.
func (r *PgxBookingRepository) ListBookings(ctx context.Context, filter portsrepo.BookingFilter) ([]domain.Booking, error) {
	return r.listBookings(ctx, filter, "", "")
}

func (r *PgxBookingRepository) listBookings(ctx context.Context, filter portsrepo.BookingFilter, ownerCond, ownerID string) ([]domain.Booking, error) {
	args := []any{}
	conditions := []string{}

	if ownerCond != "" {
		args = append(args, ownerID)
		conditions = append(conditions, fmt.Sprintf(ownerCond, len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.CampusID != "" {
		args = append(args, filter.CampusID)
		conditions = append(conditions, "campus_id = $"+strconv.Itoa(len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conditions = append(conditions, "booking_date >= $"+strconv.Itoa(len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conditions = append(conditions, "booking_date <= $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
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
	query += fmt.Sprintf(" ORDER BY created_at DESC, booking_id DESC LIMIT $%d OFFSET $%d;", len(args)-1, len(args))

	return r.queryBookings(ctx, query, args...)
}

// ListPendingForCoach retrieves the bookings awaiting a coach's decision.
func (r *PgxBookingRepository) ListPendingForCoach(ctx context.Context, coachID string) ([]domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE coach_id = $1 AND status = 'pending'
		ORDER BY booking_date, start_minute;
	`
	return r.queryBookings(ctx, query, coachID)
}

// ListActiveForCoachRange retrieves pending and confirmed bookings of a coach
// between two dates inclusive.
func (r *PgxBookingRepository) ListActiveForCoachRange(ctx context.Context, coachID string, from, to time.Time) ([]domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE coach_id = $1 AND status IN ` + activeStatuses + ` AND booking_date BETWEEN $2 AND $3
		ORDER BY booking_date, start_minute;
	`
	return r.queryBookings(ctx, query, coachID, from, to)
}

// HasOverlap reports whether any active booking occupies the resource during
// the slot. Half-open intervals: touching endpoints do not overlap.
func (r *PgxBookingRepository) HasOverlap(ctx context.Context, kind domain.ResourceKind, resourceID string, slot domain.TimeSlot) (bool, error) {
	return overlapExists(ctx, r.Pool, kind, resourceID, slot)
}

// FindOccupiedTableIDs returns the tables with an active booking overlapping
// the slot.
func (r *PgxBookingRepository) FindOccupiedTableIDs(ctx context.Context, slot domain.TimeSlot) ([]string, error) {
	query := `
		SELECT DISTINCT table_id
		FROM bookings
		WHERE table_id IS NOT NULL
		  AND status IN ` + activeStatuses + `
		  AND booking_date = $1
		  AND start_minute < $3 AND $2 < end_minute;
	`
	rows, err := r.Pool.Query(ctx, query, slot.Date, slot.StartMinute, slot.EndMinute)
	if err != nil {
		return nil, fmt.Errorf("failed to query occupied tables: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan occupied table row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating occupied table rows: %w", err)
	}
	return ids, nil
}

// querier is satisfied by both pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func overlapExists(ctx context.Context, q querier, kind domain.ResourceKind, resourceID string, slot domain.TimeSlot) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE %s = $1
			  AND status IN %s
			  AND booking_date = $2
			  AND start_minute < $4 AND $3 < end_minute
		);
	`, resourceColumn(kind), activeStatuses)

	var exists bool
	err := q.QueryRow(ctx, query, resourceID, slot.Date, slot.StartMinute, slot.EndMinute).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check %s availability: %w", kind, err)
	}
	return exists, nil
}

func lockBookingForUpdate(ctx context.Context, tx pgx.Tx, bookingID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_id = $1 FOR UPDATE;`
	booking, err := scanBookingRow(tx.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock booking %s: %w", bookingID, err)
	}
	return booking, nil
}

func (r *PgxBookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		booking, err := scanBookingRow(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating booking rows: %w", err)
	}
	return bookings, nil
}

func scanBookingRow(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var tableID sql.NullString
	var confirmTime sql.NullTime
	err := row.Scan(
		&b.BookingID, &b.StudentID, &b.CoachID, &b.CampusID, &tableID,
		&b.Slot.Date, &b.Slot.StartMinute, &b.Slot.EndMinute,
		&b.LessonFee, &b.Status, &b.CreatedAt, &confirmTime,
	)
	if err != nil {
		return nil, err
	}
	if tableID.Valid {
		b.TableID = tableID.String
	}
	if confirmTime.Valid {
		t := confirmTime.Time
		b.ConfirmTime = &t
	}
	return &b, nil
}
