package repositories

import (
	"context"
	"time"

	"github.com/spinhall/tt_booking_app/internal/core/domain"
)

// BookingFilter narrows booking listings.
type BookingFilter struct {
	Status   domain.BookingStatus // empty matches all
	CampusID string               // empty matches all
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// BookingReader defines read operations for booking data.
type BookingReader interface {
	// FindBookingByID retrieves a booking by its unique identifier.
	FindBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error)

	// ListBookingsForStudent retrieves a student's bookings, newest first.
	ListBookingsForStudent(ctx context.Context, studentID string, filter BookingFilter) ([]domain.Booking, error)

	// ListBookingsForCoach retrieves a coach's bookings, newest first.
	ListBookingsForCoach(ctx context.Context, coachID string, filter BookingFilter) ([]domain.Booking, error)

	// ListPendingForCoach retrieves the bookings awaiting a coach's decision.
	ListPendingForCoach(ctx context.Context, coachID string) ([]domain.Booking, error)

	// ListBookings retrieves bookings across users for administrators.
	ListBookings(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)

	// ListActiveForCoachRange retrieves pending and confirmed bookings of a
	// coach between two dates inclusive, ordered by date and start time.
	ListActiveForCoachRange(ctx context.Context, coachID string, from, to time.Time) ([]domain.Booking, error)

	// HasOverlap reports whether any pending or confirmed booking occupies
	// the given resource during the slot (half-open overlap).
	HasOverlap(ctx context.Context, kind domain.ResourceKind, resourceID string, slot domain.TimeSlot) (bool, error)

	// FindOccupiedTableIDs returns the IDs of tables with a pending or
	// confirmed booking overlapping the slot.
	FindOccupiedTableIDs(ctx context.Context, slot domain.TimeSlot) ([]string, error)
}

// BookingWriter defines the mutating operations of the booking lifecycle.
// Every method that couples a status change to a ledger mutation commits
// both in a single database transaction or neither.
type BookingWriter interface {
	// CreateBooking checks student, coach and (if set) table availability and
	// inserts the booking as one critical section per affected resource.
	// A lost race or occupied slot yields a SlotConflictError.
	CreateBooking(ctx context.Context, booking domain.Booking) error

	// ConfirmBookingWithDebit atomically re-checks the pending status, debits
	// the student's account by the lesson fee, appends the withdraw
	// transaction and marks the booking confirmed at the given time.
	ConfirmBookingWithDebit(ctx context.Context, bookingID string, txn domain.Transaction, confirmTime time.Time) (*domain.Booking, error)

	// CancelBookingWithRefund atomically re-checks the confirmed status,
	// credits the fee back, appends the refund transaction and marks the
	// booking cancelled.
	CancelBookingWithRefund(ctx context.Context, bookingID string, txn domain.Transaction) (*domain.Booking, error)

	// TransitionBookingStatus moves a booking from one status to another with
	// no ledger effect, failing with a conflict if the booking is not in the
	// expected status.
	TransitionBookingStatus(ctx context.Context, bookingID string, from, to domain.BookingStatus) error
}

// BookingRepositoryFacade combines all booking repository interfaces.
type BookingRepositoryFacade interface {
	BookingReader
	BookingWriter
}
