package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spinhall/tt_booking_app/internal/apperrors"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
	portssvc "github.com/spinhall/tt_booking_app/internal/core/ports/services"
	"github.com/spinhall/tt_booking_app/internal/core/services"
	"github.com/spinhall/tt_booking_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type BookingServiceTestSuite struct {
	suite.Suite
	mockBookingRepo *MockBookingRepository
	mockUserRepo    *MockUserRepository
	mockTableRepo   *MockTableRepository
	service         portssvc.BookingSvcFacade

	now       time.Time
	studentID string
	coachID   string
	campusID  string
}

func (suite *BookingServiceTestSuite) SetupTest() {
	suite.mockBookingRepo = new(MockBookingRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockTableRepo = new(MockTableRepository)
	suite.now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	suite.studentID = uuid.NewString()
	suite.coachID = uuid.NewString()
	suite.campusID = uuid.NewString()
	suite.service = services.NewBookingServiceImpl(
		suite.mockBookingRepo, suite.mockUserRepo, suite.mockTableRepo, nil,
		services.WithClock(func() time.Time { return suite.now }),
	)
}

func (suite *BookingServiceTestSuite) coach() *domain.User {
	return &domain.User{
		UserID:   suite.coachID,
		RealName: "Coach Li",
		Role:     domain.RoleCoach,
		CampusID: suite.campusID,
		Status:   domain.UserActive,
	}
}

func (suite *BookingServiceTestSuite) pendingBooking(fee string, startAt time.Time) *domain.Booking {
	return &domain.Booking{
		BookingID: uuid.NewString(),
		StudentID: suite.studentID,
		CoachID:   suite.coachID,
		CampusID:  suite.campusID,
		Slot: domain.TimeSlot{
			Date:        time.Date(startAt.Year(), startAt.Month(), startAt.Day(), 0, 0, 0, 0, time.UTC),
			StartMinute: startAt.Hour()*60 + startAt.Minute(),
			EndMinute:   startAt.Hour()*60 + startAt.Minute() + 90,
		},
		LessonFee: decimal.RequireFromString(fee),
		Status:    domain.BookingPending,
	}
}

func (suite *BookingServiceTestSuite) TestCreateBooking_FeeFromHourlyRate() {
	ctx := context.Background()
	req := dto.CreateBookingRequest{
		CoachID:   suite.coachID,
		Date:      "2026-03-02",
		StartTime: "14:00",
		EndTime:   "15:30",
	}

	suite.mockUserRepo.On("HasApprovedRelation", ctx, suite.studentID, suite.coachID).Return(true, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.coachID).Return(suite.coach(), nil).Once()
	suite.mockUserRepo.On("FindCoachProfile", ctx, suite.coachID).Return(&domain.CoachProfile{
		UserID:     suite.coachID,
		HourlyRate: decimal.NewFromInt(200),
	}, nil).Once()
	suite.mockBookingRepo.On("CreateBooking", ctx, mock.MatchedBy(func(b domain.Booking) bool {
		// 1.5 hours at 200/h
		return b.LessonFee.Equal(decimal.RequireFromString("300.00")) &&
			b.Status == domain.BookingPending &&
			b.CampusID == suite.campusID &&
			b.Slot.StartMinute == 840 && b.Slot.EndMinute == 930
	})).Return(nil).Once()

	booking, err := suite.service.CreateBooking(ctx, suite.studentID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(booking)
	suite.True(booking.LessonFee.Equal(decimal.RequireFromString("300.00")))
	suite.Empty(booking.TableID)
	suite.mockBookingRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *BookingServiceTestSuite) TestCreateBooking_TodayRejected() {
	ctx := context.Background()
	req := dto.CreateBookingRequest{
		CoachID:   suite.coachID,
		Date:      "2026-03-01",
		StartTime: "14:00",
		EndTime:   "15:00",
	}

	_, err := suite.service.CreateBooking(ctx, suite.studentID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBookingRepo.AssertNotCalled(suite.T(), "CreateBooking", mock.Anything, mock.Anything)
}

func (suite *BookingServiceTestSuite) TestCreateBooking_NoApprovedRelation() {
	ctx := context.Background()
	req := dto.CreateBookingRequest{
		CoachID:   suite.coachID,
		Date:      "2026-03-02",
		StartTime: "14:00",
		EndTime:   "15:00",
	}

	suite.mockUserRepo.On("HasApprovedRelation", ctx, suite.studentID, suite.coachID).Return(false, nil).Once()

	_, err := suite.service.CreateBooking(ctx, suite.studentID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockBookingRepo.AssertNotCalled(suite.T(), "CreateBooking", mock.Anything, mock.Anything)
}

func (suite *BookingServiceTestSuite) TestCreateBooking_SlotConflictPassthrough() {
	ctx := context.Background()
	req := dto.CreateBookingRequest{
		CoachID:   suite.coachID,
		Date:      "2026-03-02",
		StartTime: "14:00",
		EndTime:   "15:00",
	}

	suite.mockUserRepo.On("HasApprovedRelation", ctx, suite.studentID, suite.coachID).Return(true, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.coachID).Return(suite.coach(), nil).Once()
	suite.mockUserRepo.On("FindCoachProfile", ctx, suite.coachID).Return(&domain.CoachProfile{
		UserID:     suite.coachID,
		HourlyRate: decimal.NewFromInt(150),
	}, nil).Once()
	suite.mockBookingRepo.On("CreateBooking", ctx, mock.AnythingOfType("domain.Booking")).
		Return(apperrors.NewSlotConflict("coach")).Once()

	_, err := suite.service.CreateBooking(ctx, suite.studentID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *BookingServiceTestSuite) TestConfirmBooking_DebitsLessonFee() {
	ctx := context.Background()
	booking := suite.pendingBooking("300.00", suite.now.Add(48*time.Hour))
	actor := domain.Actor{UserID: suite.coachID, Role: domain.RoleCoach}

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil).Once()
	confirmedCopy := *booking
	confirmedCopy.Status = domain.BookingConfirmed
	suite.mockBookingRepo.On("ConfirmBookingWithDebit", ctx, booking.BookingID,
		mock.MatchedBy(func(txn domain.Transaction) bool {
			return txn.Kind == domain.TxnWithdraw &&
				txn.Amount.Equal(booking.LessonFee) &&
				txn.UserID == suite.studentID &&
				txn.RelatedBookingID == booking.BookingID &&
				txn.Status == domain.TxnCompleted
		}), suite.now.UTC()).Return(&confirmedCopy, nil).Once()

	confirmed, err := suite.service.ConfirmBooking(ctx, actor, booking.BookingID)

	suite.Require().NoError(err)
	suite.Equal(domain.BookingConfirmed, confirmed.Status)
	suite.mockBookingRepo.AssertExpectations(suite.T())
}

func (suite *BookingServiceTestSuite) TestConfirmBooking_InsufficientFunds() {
	ctx := context.Background()
	booking := suite.pendingBooking("300.00", suite.now.Add(48*time.Hour))
	actor := domain.Actor{UserID: suite.coachID, Role: domain.RoleCoach}

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil).Once()
	suite.mockBookingRepo.On("ConfirmBookingWithDebit", ctx, booking.BookingID, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrInsufficientFunds).Once()

	_, err := suite.service.ConfirmBooking(ctx, actor, booking.BookingID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
}

func (suite *BookingServiceTestSuite) TestConfirmBooking_WrongCoachForbidden() {
	ctx := context.Background()
	booking := suite.pendingBooking("300.00", suite.now.Add(48*time.Hour))
	actor := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleCoach}

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil).Once()

	_, err := suite.service.ConfirmBooking(ctx, actor, booking.BookingID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockBookingRepo.AssertNotCalled(suite.T(), "ConfirmBookingWithDebit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BookingServiceTestSuite) TestCancelBooking_RefundsOutsideCutoff() {
	ctx := context.Background()
	booking := suite.pendingBooking("300.00", suite.now.Add(72*time.Hour))
	booking.Status = domain.BookingConfirmed
	actor := domain.Actor{UserID: suite.studentID, Role: domain.RoleStudent}

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil).Once()
	cancelledCopy := *booking
	cancelledCopy.Status = domain.BookingCancelled
	suite.mockBookingRepo.On("CancelBookingWithRefund", ctx, booking.BookingID,
		mock.MatchedBy(func(txn domain.Transaction) bool {
			return txn.Kind == domain.TxnRefund && txn.Amount.Equal(booking.LessonFee)
		})).Return(&cancelledCopy, nil).Once()

	cancelled, err := suite.service.CancelBooking(ctx, actor, booking.BookingID, "schedule change")

	suite.Require().NoError(err)
	suite.Equal(domain.BookingCancelled, cancelled.Status)
	suite.mockBookingRepo.AssertExpectations(suite.T())
}

func (suite *BookingServiceTestSuite) TestCancelBooking_WithinCutoffRejected() {
	ctx := context.Background()
	// Lesson starts 23 hours from now, inside the 24 hour window.
	booking := suite.pendingBooking("300.00", suite.now.Add(23*time.Hour))
	booking.Status = domain.BookingConfirmed
	actor := domain.Actor{UserID: suite.studentID, Role: domain.RoleStudent}

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil).Once()

	_, err := suite.service.CancelBooking(ctx, actor, booking.BookingID, "too late")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockBookingRepo.AssertNotCalled(suite.T(), "CancelBookingWithRefund", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BookingServiceTestSuite) TestAdminCancelBooking_SkipsCutoff() {
	ctx := context.Background()
	booking := suite.pendingBooking("300.00", suite.now.Add(2*time.Hour))
	booking.Status = domain.BookingConfirmed
	actor := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleCampusAdmin, CampusID: suite.campusID}

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil).Once()
	cancelledCopy := *booking
	cancelledCopy.Status = domain.BookingCancelled
	suite.mockBookingRepo.On("CancelBookingWithRefund", ctx, booking.BookingID, mock.Anything).
		Return(&cancelledCopy, nil).Once()

	cancelled, err := suite.service.AdminCancelBooking(ctx, actor, booking.BookingID, "coach unavailable")

	suite.Require().NoError(err)
	suite.Equal(domain.BookingCancelled, cancelled.Status)
}

func (suite *BookingServiceTestSuite) TestAdminCancelBooking_PendingNoRefund() {
	ctx := context.Background()
	booking := suite.pendingBooking("300.00", suite.now.Add(48*time.Hour))
	actor := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleSuperAdmin}

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil).Once()
	suite.mockBookingRepo.On("TransitionBookingStatus", ctx, booking.BookingID,
		domain.BookingPending, domain.BookingCancelled).Return(nil).Once()

	cancelled, err := suite.service.AdminCancelBooking(ctx, actor, booking.BookingID, "duplicate request")

	suite.Require().NoError(err)
	suite.Equal(domain.BookingCancelled, cancelled.Status)
	suite.mockBookingRepo.AssertNotCalled(suite.T(), "CancelBookingWithRefund", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BookingServiceTestSuite) TestAdminCancelBooking_OtherCampusForbidden() {
	ctx := context.Background()
	booking := suite.pendingBooking("300.00", suite.now.Add(48*time.Hour))
	actor := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleCampusAdmin, CampusID: uuid.NewString()}

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil).Once()

	_, err := suite.service.AdminCancelBooking(ctx, actor, booking.BookingID, "nope")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *BookingServiceTestSuite) TestCompleteBooking_OnlyConfirmed() {
	ctx := context.Background()
	booking := suite.pendingBooking("300.00", suite.now.Add(-2*time.Hour))
	actor := domain.Actor{UserID: suite.coachID, Role: domain.RoleCoach}

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).Return(booking, nil).Once()

	err := suite.service.CompleteBooking(ctx, actor, booking.BookingID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func TestBookingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BookingServiceTestSuite))
}
