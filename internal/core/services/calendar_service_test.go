package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spinhall/tt_booking_app/internal/apperrors"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
	portssvc "github.com/spinhall/tt_booking_app/internal/core/ports/services"
	"github.com/spinhall/tt_booking_app/internal/core/services"
	"github.com/stretchr/testify/suite"
)

type CalendarServiceTestSuite struct {
	suite.Suite
	mockBookingRepo *MockBookingRepository
	mockTableRepo   *MockTableRepository
	service         portssvc.CalendarSvcFacade
	slot            domain.TimeSlot
}

func (suite *CalendarServiceTestSuite) SetupTest() {
	suite.mockBookingRepo = new(MockBookingRepository)
	suite.mockTableRepo = new(MockTableRepository)
	suite.service = services.NewCalendarServiceImpl(suite.mockBookingRepo, suite.mockTableRepo)
	suite.slot = domain.TimeSlot{
		Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartMinute: 840,
		EndMinute:   930,
	}
}

func (suite *CalendarServiceTestSuite) TestIsFree_InvertsOverlap() {
	ctx := context.Background()
	coachID := uuid.NewString()

	suite.mockBookingRepo.On("HasOverlap", ctx, domain.ResourceCoach, coachID, suite.slot).
		Return(true, nil).Once()

	free, err := suite.service.IsFree(ctx, domain.ResourceCoach, coachID, suite.slot)

	suite.Require().NoError(err)
	suite.False(free)
	suite.mockBookingRepo.AssertExpectations(suite.T())
}

func (suite *CalendarServiceTestSuite) TestIsFree_InvalidSlotRejected() {
	ctx := context.Background()
	backwards := suite.slot
	backwards.StartMinute, backwards.EndMinute = backwards.EndMinute, backwards.StartMinute

	_, err := suite.service.IsFree(ctx, domain.ResourceCoach, uuid.NewString(), backwards)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CalendarServiceTestSuite) TestAvailableTables_FiltersOccupied() {
	ctx := context.Background()
	campusID := uuid.NewString()
	tables := []domain.Table{
		{TableID: "t1", CampusID: campusID, Number: "1", Status: domain.TableAvailable},
		{TableID: "t2", CampusID: campusID, Number: "2", Status: domain.TableAvailable},
		{TableID: "t3", CampusID: campusID, Number: "3", Status: domain.TableAvailable},
	}

	suite.mockTableRepo.On("ListTablesByCampus", ctx, campusID, domain.TableAvailable).
		Return(tables, nil).Once()
	suite.mockBookingRepo.On("FindOccupiedTableIDs", ctx, suite.slot).
		Return([]string{"t2"}, nil).Once()

	free, err := suite.service.AvailableTables(ctx, campusID, suite.slot)

	suite.Require().NoError(err)
	suite.Require().Len(free, 2)
	suite.Equal("t1", free[0].TableID)
	suite.Equal("t3", free[1].TableID)
}

func (suite *CalendarServiceTestSuite) TestCoachSchedule_FillsEmptyDays() {
	ctx := context.Background()
	coachID := uuid.NewString()
	from := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	booking := domain.Booking{
		BookingID: uuid.NewString(),
		CoachID:   coachID,
		Slot:      suite.slot,
		Status:    domain.BookingConfirmed,
	}

	suite.mockBookingRepo.On("ListActiveForCoachRange", ctx, coachID, from, to).
		Return([]domain.Booking{booking}, nil).Once()

	schedule, err := suite.service.CoachSchedule(ctx, coachID, from, to)

	suite.Require().NoError(err)
	suite.Require().Len(schedule, 3)
	suite.Empty(schedule["2026-03-09"])
	suite.Len(schedule["2026-03-10"], 1)
	suite.Empty(schedule["2026-03-11"])
}

func (suite *CalendarServiceTestSuite) TestCoachSchedule_ReversedRangeRejected() {
	ctx := context.Background()
	from := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	_, err := suite.service.CoachSchedule(ctx, uuid.NewString(), from, to)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestCalendarServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CalendarServiceTestSuite))
}
