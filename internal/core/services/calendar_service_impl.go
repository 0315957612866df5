package services

import (
	"context"
	"fmt"
	"time"

	"github.com/spinhall/tt_booking_app/internal/apperrors"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
	portsrepo "github.com/spinhall/tt_booking_app/internal/core/ports/repositories"
	portssvc "github.com/spinhall/tt_booking_app/internal/core/ports/services"
	"github.com/spinhall/tt_booking_app/internal/dto"
)

// calendarServiceImpl implements the CalendarSvcFacade interface.
type calendarServiceImpl struct {
	BaseService
	bookingRepo portsrepo.BookingReader
	tableRepo   portsrepo.TableReader
}

// NewCalendarServiceImpl creates a new calendar service.
func NewCalendarServiceImpl(bookingRepo portsrepo.BookingReader, tableRepo portsrepo.TableReader) portssvc.CalendarSvcFacade {
	return &calendarServiceImpl{
		bookingRepo: bookingRepo,
		tableRepo:   tableRepo,
	}
}

var _ portssvc.CalendarSvcFacade = (*calendarServiceImpl)(nil)

func (s *calendarServiceImpl) IsFree(ctx context.Context, kind domain.ResourceKind, resourceID string, slot domain.TimeSlot) (bool, error) {
	if !slot.Valid() {
		return false, fmt.Errorf("invalid time slot: %w", apperrors.ErrValidation)
	}
	occupied, err := s.bookingRepo.HasOverlap(ctx, kind, resourceID, slot)
	if err != nil {
		return false, err
	}
	return !occupied, nil
}

func (s *calendarServiceImpl) AvailableTables(ctx context.Context, campusID string, slot domain.TimeSlot) ([]domain.Table, error) {
	if !slot.Valid() {
		return nil, fmt.Errorf("invalid time slot: %w", apperrors.ErrValidation)
	}

	tables, err := s.tableRepo.ListTablesByCampus(ctx, campusID, domain.TableAvailable)
	if err != nil {
		return nil, err
	}
	occupiedIDs, err := s.bookingRepo.FindOccupiedTableIDs(ctx, slot)
	if err != nil {
		return nil, err
	}

	occupied := make(map[string]struct{}, len(occupiedIDs))
	for _, id := range occupiedIDs {
		occupied[id] = struct{}{}
	}

	free := make([]domain.Table, 0, len(tables))
	for _, table := range tables {
		if _, taken := occupied[table.TableID]; !taken {
			free = append(free, table)
		}
	}
	return free, nil
}

func (s *calendarServiceImpl) CoachSchedule(ctx context.Context, coachID string, from, to time.Time) (map[string][]domain.Booking, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("end date precedes start date: %w", apperrors.ErrValidation)
	}

	bookings, err := s.bookingRepo.ListActiveForCoachRange(ctx, coachID, from, to)
	if err != nil {
		return nil, err
	}

	// Every day of the range appears in the result, empty days included.
	schedule := make(map[string][]domain.Booking)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		schedule[dto.FormatDate(day)] = []domain.Booking{}
	}
	for _, booking := range bookings {
		key := dto.FormatDate(booking.Slot.Date)
		schedule[key] = append(schedule[key], booking)
	}
	return schedule, nil
}
