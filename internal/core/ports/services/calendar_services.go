package services

import (
	"context"
	"time"

	"github.com/spinhall/tt_booking_app/internal/core/domain"
)

// CalendarSvcFacade answers availability questions over the three resource
// kinds. Read-only; booking creation performs its own checks inside its
// critical section.
type CalendarSvcFacade interface {
	// IsFree reports whether the resource has no pending or confirmed
	// booking overlapping the slot (half-open test, touching endpoints are
	// free).
	IsFree(ctx context.Context, kind domain.ResourceKind, resourceID string, slot domain.TimeSlot) (bool, error)

	// AvailableTables lists a campus's available-status tables with no
	// conflicting booking in the slot.
	AvailableTables(ctx context.Context, campusID string, slot domain.TimeSlot) ([]domain.Table, error)

	// CoachSchedule returns the coach's pending and confirmed bookings
	// between two dates inclusive, keyed by ISO date with every day of the
	// range present.
	CoachSchedule(ctx context.Context, coachID string, from, to time.Time) (map[string][]domain.Booking, error)
}
