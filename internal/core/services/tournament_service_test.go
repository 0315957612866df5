package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spinhall/tt_booking_app/internal/apperrors"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
	portssvc "github.com/spinhall/tt_booking_app/internal/core/ports/services"
	"github.com/spinhall/tt_booking_app/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TournamentServiceTestSuite struct {
	suite.Suite
	mockRepo *MockMatchRepository
	service  portssvc.TournamentSvcFacade
	matchID  string
	campusID string
	admin    domain.Actor
}

func (suite *TournamentServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockMatchRepository)
	suite.service = services.NewTournamentServiceImpl(suite.mockRepo, nil)
	suite.matchID = uuid.NewString()
	suite.campusID = uuid.NewString()
	suite.admin = domain.Actor{UserID: uuid.NewString(), Role: domain.RoleCampusAdmin, CampusID: suite.campusID}
}

func (suite *TournamentServiceTestSuite) match(status domain.MatchStatus) *domain.Match {
	return &domain.Match{
		MatchID:  suite.matchID,
		Name:     "Spring Open",
		CampusID: suite.campusID,
		Status:   status,
	}
}

// registrations builds n paid entries in one group, in registration order.
func (suite *TournamentServiceTestSuite) registrations(group domain.GroupLabel, n int) []domain.MatchRegistration {
	regs := make([]domain.MatchRegistration, n)
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	for i := range regs {
		regs[i] = domain.MatchRegistration{
			RegistrationID:   uuid.NewString(),
			MatchID:          suite.matchID,
			StudentID:        fmt.Sprintf("student-%02d", i+1),
			Group:            group,
			RegistrationTime: base.Add(time.Duration(i) * time.Minute),
			PaymentStatus:    domain.PaymentPaid,
		}
	}
	return regs
}

func (suite *TournamentServiceTestSuite) TestGenerateSchedule_SevenPlayersSplitIntoChunks() {
	ctx := context.Background()

	suite.mockRepo.On("FindMatchByID", ctx, suite.matchID).Return(suite.match(domain.MatchRegistrationOpen), nil)
	suite.mockRepo.On("ListPaidRegistrations", ctx, suite.matchID).
		Return(suite.registrations(domain.GroupA, 7), nil)
	suite.mockRepo.On("TransitionMatchStatus", ctx, suite.matchID,
		[]domain.MatchStatus{domain.MatchUpcoming, domain.MatchRegistrationOpen}, domain.MatchOngoing).
		Return(nil).Once()

	schedule, err := suite.service.GenerateSchedule(ctx, suite.admin, suite.matchID)

	suite.Require().NoError(err)
	suite.Require().Len(schedule.Groups, 1)
	group := schedule.Groups[0]
	suite.Equal(domain.GroupA, group.Group)
	suite.Require().Len(group.Chunks, 2)

	// First chunk: six players, full round robin of 15 pairings.
	suite.Len(group.Chunks[0].Pairings, 15)
	// Second chunk: the seventh player alone, no pairings.
	suite.Empty(group.Chunks[1].Pairings)
}

func (suite *TournamentServiceTestSuite) TestGenerateSchedule_PairingOrderDeterministic() {
	ctx := context.Background()

	suite.mockRepo.On("FindMatchByID", ctx, suite.matchID).Return(suite.match(domain.MatchRegistrationOpen), nil)
	suite.mockRepo.On("ListPaidRegistrations", ctx, suite.matchID).
		Return(suite.registrations(domain.GroupB, 3), nil)
	suite.mockRepo.On("TransitionMatchStatus", ctx, suite.matchID,
		[]domain.MatchStatus{domain.MatchUpcoming, domain.MatchRegistrationOpen}, domain.MatchOngoing).
		Return(nil).Once()

	schedule, err := suite.service.GenerateSchedule(ctx, suite.admin, suite.matchID)

	suite.Require().NoError(err)
	suite.Require().Len(schedule.Groups, 1)
	pairings := schedule.Groups[0].Chunks[0].Pairings
	suite.Require().Len(pairings, 3)

	suite.Equal(domain.Pairing{Round: 1, Player1ID: "student-01", Player2ID: "student-02"}, pairings[0])
	suite.Equal(domain.Pairing{Round: 2, Player1ID: "student-01", Player2ID: "student-03"}, pairings[1])
	suite.Equal(domain.Pairing{Round: 3, Player1ID: "student-02", Player2ID: "student-03"}, pairings[2])
}

func (suite *TournamentServiceTestSuite) TestGenerateSchedule_IdempotentOnceOngoing() {
	ctx := context.Background()

	suite.mockRepo.On("FindMatchByID", ctx, suite.matchID).Return(suite.match(domain.MatchOngoing), nil)
	suite.mockRepo.On("ListPaidRegistrations", ctx, suite.matchID).
		Return(suite.registrations(domain.GroupA, 4), nil)

	first, err := suite.service.GenerateSchedule(ctx, suite.admin, suite.matchID)
	suite.Require().NoError(err)
	second, err := suite.service.GenerateSchedule(ctx, suite.admin, suite.matchID)
	suite.Require().NoError(err)

	suite.Equal(first, second)
	suite.mockRepo.AssertNotCalled(suite.T(), "TransitionMatchStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TournamentServiceTestSuite) TestGenerateSchedule_GroupsFollowRegistrationOrder() {
	ctx := context.Background()

	regs := append(suite.registrations(domain.GroupC, 2), suite.registrations(domain.GroupA, 2)...)
	suite.mockRepo.On("FindMatchByID", ctx, suite.matchID).Return(suite.match(domain.MatchOngoing), nil)
	suite.mockRepo.On("ListPaidRegistrations", ctx, suite.matchID).Return(regs, nil)

	schedule, err := suite.service.GenerateSchedule(ctx, suite.admin, suite.matchID)

	suite.Require().NoError(err)
	suite.Require().Len(schedule.Groups, 2)
	suite.Equal(domain.GroupC, schedule.Groups[0].Group)
	suite.Equal(domain.GroupA, schedule.Groups[1].Group)
}

func (suite *TournamentServiceTestSuite) TestGenerateSchedule_LabelAgnostic() {
	ctx := context.Background()
	open := domain.GroupLabel("group_open")

	regs := append(suite.registrations(domain.GroupA, 2), suite.registrations(open, 2)...)
	suite.mockRepo.On("FindMatchByID", ctx, suite.matchID).Return(suite.match(domain.MatchOngoing), nil)
	suite.mockRepo.On("ListPaidRegistrations", ctx, suite.matchID).Return(regs, nil)

	schedule, err := suite.service.GenerateSchedule(ctx, suite.admin, suite.matchID)

	suite.Require().NoError(err)
	suite.Require().Len(schedule.Groups, 2)
	suite.Equal(open, schedule.Groups[1].Group)
	suite.Require().Len(schedule.Groups[1].Chunks, 1)
	suite.Len(schedule.Groups[1].Chunks[0].Pairings, 1)
}

func (suite *TournamentServiceTestSuite) TestGenerateSchedule_CancelledMatchRejected() {
	ctx := context.Background()

	suite.mockRepo.On("FindMatchByID", ctx, suite.matchID).Return(suite.match(domain.MatchCancelled), nil)

	_, err := suite.service.GenerateSchedule(ctx, suite.admin, suite.matchID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *TournamentServiceTestSuite) TestGenerateSchedule_OtherCampusForbidden() {
	ctx := context.Background()
	outsider := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleCampusAdmin, CampusID: uuid.NewString()}

	suite.mockRepo.On("FindMatchByID", ctx, suite.matchID).Return(suite.match(domain.MatchOngoing), nil)

	_, err := suite.service.GenerateSchedule(ctx, outsider, suite.matchID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func TestTournamentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TournamentServiceTestSuite))
}
