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
	"github.com/spinhall/tt_booking_app/internal/dto"
	"github.com/spinhall/tt_booking_app/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  portssvc.AuthSvcFacade
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	token := services.TokenConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "ttb-test"}
	suite.service = services.NewAuthServiceImpl(suite.mockRepo, token, nil)
}

func (suite *AuthServiceTestSuite) TestRegister_StudentActiveImmediately() {
	ctx := context.Background()
	req := dto.RegisterRequest{Username: "li_wei", Password: "s3cret!!", Role: "student"}

	suite.mockRepo.On("FindUserByUsername", ctx, "li_wei").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleStudent && u.Status == domain.UserActive
	})).Return(nil).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.NotEmpty(user.UserID)
	suite.NotEqual("s3cret!!", user.PasswordHash)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestRegister_CoachStartsPending() {
	ctx := context.Background()
	req := dto.RegisterRequest{Username: "coach_zhang", Password: "s3cret!!", Role: "coach"}

	suite.mockRepo.On("FindUserByUsername", ctx, "coach_zhang").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleCoach && u.Status == domain.UserPending
	})).Return(nil).Once()

	_, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestRegister_DuplicateUsername() {
	ctx := context.Background()
	existing := &domain.User{UserID: uuid.NewString(), Username: "li_wei"}

	suite.mockRepo.On("FindUserByUsername", ctx, "li_wei").Return(existing, nil).Once()

	_, err := suite.service.Register(ctx, dto.RegisterRequest{Username: "li_wei", Password: "s3cret!!", Role: "student"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestLogin_IssuesToken() {
	ctx := context.Background()
	hash, err := utils.HashPassword("s3cret!!")
	suite.Require().NoError(err)
	user := &domain.User{
		UserID:       uuid.NewString(),
		Username:     "li_wei",
		PasswordHash: hash,
		Role:         domain.RoleStudent,
		Status:       domain.UserActive,
	}

	suite.mockRepo.On("FindUserByUsername", ctx, "li_wei").Return(user, nil).Once()

	token, got, err := suite.service.Login(ctx, dto.LoginRequest{Username: "li_wei", Password: "s3cret!!"})

	suite.Require().NoError(err)
	suite.NotEmpty(token)
	suite.Equal(user.UserID, got.UserID)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("s3cret!!")
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Username: "li_wei", PasswordHash: hash, Status: domain.UserActive}

	suite.mockRepo.On("FindUserByUsername", ctx, "li_wei").Return(user, nil).Once()

	_, _, err = suite.service.Login(ctx, dto.LoginRequest{Username: "li_wei", Password: "wrong"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownUserSameError() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := suite.service.Login(ctx, dto.LoginRequest{Username: "ghost", Password: "whatever"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AuthServiceTestSuite) TestLogin_InactiveAccountRejected() {
	ctx := context.Background()
	hash, err := utils.HashPassword("s3cret!!")
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Username: "li_wei", PasswordHash: hash, Status: domain.UserInactive}

	suite.mockRepo.On("FindUserByUsername", ctx, "li_wei").Return(user, nil).Once()

	_, _, err = suite.service.Login(ctx, dto.LoginRequest{Username: "li_wei", Password: "s3cret!!"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
