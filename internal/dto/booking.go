package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
)

// CreateBookingRequest defines the data needed to request a lesson.
type CreateBookingRequest struct {
	CoachID   string  `json:"coachID" binding:"required"`
	Date      string  `json:"date" binding:"required"`
	StartTime string  `json:"startTime" binding:"required,hhmm"`
	EndTime   string  `json:"endTime" binding:"required,hhmm"`
	TableID   *string `json:"tableID"` // optional
}

// BookingDecisionRequest carries a coach's confirm-or-reject decision.
type BookingDecisionRequest struct {
	Confirm bool   `json:"confirm"`
	Reason  string `json:"reason"`
}

// CancelBookingRequest carries the cancellation reason.
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// ListBookingsParams defines query parameters for booking listings.
type ListBookingsParams struct {
	Status    string `form:"status"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	CampusID  string `form:"campus_id"`
	Page      int    `form:"page,default=1"`
	PerPage   int    `form:"per_page,default=10"`
}

// AvailabilityParams defines query parameters for the free-table query.
type AvailabilityParams struct {
	CampusID  string `form:"campus_id" binding:"required"`
	Date      string `form:"date" binding:"required"`
	StartTime string `form:"start_time" binding:"required,hhmm"`
	EndTime   string `form:"end_time" binding:"required,hhmm"`
}

// ScheduleParams defines query parameters for the coach schedule query.
type ScheduleParams struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// BookingResponse defines the data returned for a booking.
type BookingResponse struct {
	BookingID   string          `json:"bookingID"`
	StudentID   string          `json:"studentID"`
	CoachID     string          `json:"coachID"`
	CampusID    string          `json:"campusID"`
	TableID     string          `json:"tableID,omitempty"`
	Date        string          `json:"date"`
	StartTime   string          `json:"startTime"`
	EndTime     string          `json:"endTime"`
	LessonFee   decimal.Decimal `json:"lessonFee"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	ConfirmTime *time.Time      `json:"confirmTime,omitempty"`
}

// ToBookingResponse converts a domain.Booking to its response DTO.
func ToBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		BookingID:   b.BookingID,
		StudentID:   b.StudentID,
		CoachID:     b.CoachID,
		CampusID:    b.CampusID,
		TableID:     b.TableID,
		Date:        FormatDate(b.Slot.Date),
		StartTime:   FormatClock(b.Slot.StartMinute),
		EndTime:     FormatClock(b.Slot.EndMinute),
		LessonFee:   b.LessonFee,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
		ConfirmTime: b.ConfirmTime,
	}
}

// ToListBookingResponse converts a slice of bookings.
func ToListBookingResponse(bookings []domain.Booking) []BookingResponse {
	res := make([]BookingResponse, len(bookings))
	for i := range bookings {
		res[i] = ToBookingResponse(&bookings[i])
	}
	return res
}

// TableResponse defines the data returned for a table.
type TableResponse struct {
	TableID  string `json:"tableID"`
	Number   string `json:"number"`
	CampusID string `json:"campusID"`
	Status   string `json:"status"`
}

// ToListTableResponse converts a slice of tables.
func ToListTableResponse(tables []domain.Table) []TableResponse {
	res := make([]TableResponse, len(tables))
	for i, t := range tables {
		res[i] = TableResponse{TableID: t.TableID, Number: t.Number, CampusID: t.CampusID, Status: string(t.Status)}
	}
	return res
}
