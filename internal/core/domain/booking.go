package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus is the lifecycle state of a booking.
// Transitions: pending -> confirmed|cancelled, confirmed -> cancelled|completed.
// cancelled and completed are terminal. Bookings are never deleted.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Booking is a paid lesson reservation binding a student, a coach and
// optionally a table for one time slot.
type Booking struct {
	BookingID   string          `json:"bookingID"`
	StudentID   string          `json:"studentID"`
	CoachID     string          `json:"coachID"`
	CampusID    string          `json:"campusID"`
	TableID     string          `json:"tableID"` // empty when no table was requested
	Slot        TimeSlot        `json:"slot"`
	LessonFee   decimal.Decimal `json:"lessonFee"` // fixed at creation from the coach's rate
	Status      BookingStatus   `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	ConfirmTime *time.Time      `json:"confirmTime"`
}

// StartAt returns the wall-clock start of the lesson, used for the
// cancellation cutoff.
func (b Booking) StartAt() time.Time {
	return b.Slot.StartAt()
}
