package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spinhall/tt_booking_app/internal/apperrors"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
	portsrepo "github.com/spinhall/tt_booking_app/internal/core/ports/repositories"
	portssvc "github.com/spinhall/tt_booking_app/internal/core/ports/services"
	"github.com/spinhall/tt_booking_app/internal/dto"
	"github.com/spinhall/tt_booking_app/internal/utils"
)

// TokenConfig carries the signing parameters for issued tokens.
type TokenConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// authServiceImpl implements the AuthSvcFacade interface.
type authServiceImpl struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	token    TokenConfig
}

// NewAuthServiceImpl creates a new authentication service.
func NewAuthServiceImpl(userRepo portsrepo.UserRepositoryFacade, token TokenConfig, audit portsrepo.AuditRecorder) portssvc.AuthSvcFacade {
	return &authServiceImpl{
		BaseService: BaseService{AuditRepo: audit},
		userRepo:    userRepo,
		token:       token,
	}
}

var _ portssvc.AuthSvcFacade = (*authServiceImpl)(nil)

func (s *authServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	if _, err := s.userRepo.FindUserByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("username %q is taken: %w", req.Username, apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, err
	}

	role := domain.UserRole(req.Role)
	status := domain.UserActive
	// Coaches require administrative approval before they can take bookings.
	if role == domain.RoleCoach {
		status = domain.UserPending
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hash,
		RealName:     req.RealName,
		Gender:       req.Gender,
		Age:          req.Age,
		Phone:        req.Phone,
		Email:        req.Email,
		Role:         role,
		CampusID:     req.CampusID,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user", slog.String("username", req.Username))
		return nil, err
	}

	s.LogInfo(ctx, "User registered",
		slog.String("user_id", user.UserID),
		slog.String("role", string(user.Role)))
	s.RecordAudit(ctx, user.UserID, "register", fmt.Sprintf("Registered as %s", user.Role))
	return &user, nil
}

func (s *authServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (string, *domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrForbidden)
		}
		return "", nil, err
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return "", nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrForbidden)
	}
	if user.Status == domain.UserInactive {
		return "", nil, fmt.Errorf("account is deactivated: %w", apperrors.ErrForbidden)
	}

	token, err := utils.GenerateJWT(user.UserID, string(user.Role), user.CampusID, s.token.Secret, s.token.Expiry, s.token.Issuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign token", slog.String("user_id", user.UserID))
		return "", nil, err
	}

	s.LogInfo(ctx, "User logged in", slog.String("user_id", user.UserID))
	return token, user, nil
}
