package repositories

import (
	"context"

	"github.com/spinhall/tt_booking_app/internal/core/domain"
)

// UserReader defines read operations for user data.
type UserReader interface {
	// FindUserByID retrieves a user by ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername retrieves a user by login name.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindCoachProfile retrieves the coaching profile of a coach user,
	// ErrNotFound when the user is not a coach.
	FindCoachProfile(ctx context.Context, coachUserID string) (*domain.CoachProfile, error)
}

// UserWriter defines write operations for user data.
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error
}

// RelationReader checks coach-student relations. The core only ever needs
// the approved-relation existence test.
type RelationReader interface {
	HasApprovedRelation(ctx context.Context, studentID, coachID string) (bool, error)
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	RelationReader
}

// TableReader defines read operations for table data.
type TableReader interface {
	// FindTableByID retrieves a table by ID.
	FindTableByID(ctx context.Context, tableID string) (*domain.Table, error)

	// ListTablesByCampus retrieves a campus's tables in the given status.
	ListTablesByCampus(ctx context.Context, campusID string, status domain.TableStatus) ([]domain.Table, error)
}

// AuditRecorder is the fire-and-forget audit sink. Callers log and ignore
// failures; a failed audit write must never undo the audited operation.
type AuditRecorder interface {
	RecordAction(ctx context.Context, entry domain.AuditLog) error
}
