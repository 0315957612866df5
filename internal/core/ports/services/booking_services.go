package services

import (
	"context"

	"github.com/spinhall/tt_booking_app/internal/core/domain"
	"github.com/spinhall/tt_booking_app/internal/dto"
)

// BookingSvcFacade owns the booking lifecycle. Role gating happens in the
// transport layer; these methods validate domain invariants only.
type BookingSvcFacade interface {
	// CreateBooking validates the request (approved relation, future date,
	// non-empty interval, free student/coach/table) and inserts a pending
	// booking with the fee fixed from the coach's current hourly rate.
	// The ledger is not touched.
	CreateBooking(ctx context.Context, studentID string, req dto.CreateBookingRequest) (*domain.Booking, error)

	// ConfirmBooking moves a pending booking to confirmed, debiting the
	// student's account by the lesson fee atomically with the status change.
	// Non-admin actors must be the booking's coach.
	ConfirmBooking(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, error)

	// RejectBooking cancels a pending booking with no ledger effect.
	RejectBooking(ctx context.Context, actor domain.Actor, bookingID, reason string) error

	// CancelBooking cancels a confirmed booking, refunding the fee. The
	// 24-hour pre-start cutoff applies; administrators must use
	// AdminCancelBooking instead.
	CancelBooking(ctx context.Context, actor domain.Actor, bookingID, reason string) (*domain.Booking, error)

	// AdminCancelBooking cancels a booking on behalf of an administrator.
	// The cutoff does not apply. Confirmed bookings are refunded; pending
	// ones are cancelled without ledger effect.
	AdminCancelBooking(ctx context.Context, actor domain.Actor, bookingID, reason string) (*domain.Booking, error)

	// CompleteBooking marks a confirmed booking completed, no ledger effect.
	CompleteBooking(ctx context.Context, actor domain.Actor, bookingID string) error

	// ListMyBookings lists the actor's bookings as student or coach.
	ListMyBookings(ctx context.Context, actor domain.Actor, params dto.ListBookingsParams) ([]domain.Booking, error)

	// ListPendingBookings lists the bookings awaiting the coach's decision.
	ListPendingBookings(ctx context.Context, coachID string) ([]domain.Booking, error)

	// ListAllBookings lists bookings for administrators, campus-scoped for
	// campus admins.
	ListAllBookings(ctx context.Context, actor domain.Actor, params dto.ListBookingsParams) ([]domain.Booking, error)
}
