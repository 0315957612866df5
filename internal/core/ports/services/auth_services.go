package services

import (
	"context"

	"github.com/spinhall/tt_booking_app/internal/core/domain"
	"github.com/spinhall/tt_booking_app/internal/dto"
)

// AuthSvcFacade is the thin identity collaborator: registration and
// credential verification with token issuance.
type AuthSvcFacade interface {
	// Register creates a student or coach user with a hashed password.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// Login verifies credentials and returns a signed token plus the user.
	Login(ctx context.Context, req dto.LoginRequest) (string, *domain.User, error)
}
