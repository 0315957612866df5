package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spinhall/tt_booking_app/internal/apperrors"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
	portsrepo "github.com/spinhall/tt_booking_app/internal/core/ports/repositories"
)

type PgxUserRepository struct {
	BaseRepository
}

// newPgxUserRepository creates a new repository for user data.
func newPgxUserRepository(pool *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `user_id, username, password_hash, real_name, gender, age, phone, email, role, campus_id, status, created_at, updated_at`

// SaveUser inserts a new user.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (user_id, username, password_hash, real_name, gender, age, phone, email, role, campus_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	var campusID sql.NullString
	if user.CampusID != "" {
		campusID = sql.NullString{String: user.CampusID, Valid: true}
	}
	_, err := r.Pool.Exec(ctx, query,
		user.UserID, user.Username, user.PasswordHash, user.RealName,
		user.Gender, user.Age, user.Phone, user.Email, user.Role,
		campusID, user.Status, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("username %q is taken: %w", user.Username, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save user %s: %w", user.UserID, err)
	}
	return nil
}

// FindUserByID retrieves a user by ID.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`
	return r.findUser(ctx, query, userID)
}

// FindUserByUsername retrieves a user by login name.
func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1;`
	return r.findUser(ctx, query, username)
}

func (r *PgxUserRepository) findUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	var campusID sql.NullString
	err := r.Pool.QueryRow(ctx, query, arg).Scan(
		&u.UserID, &u.Username, &u.PasswordHash, &u.RealName,
		&u.Gender, &u.Age, &u.Phone, &u.Email, &u.Role,
		&campusID, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if campusID.Valid {
		u.CampusID = campusID.String
	}
	return &u, nil
}

// FindCoachProfile retrieves the coaching profile of a coach user.
func (r *PgxUserRepository) FindCoachProfile(ctx context.Context, coachUserID string) (*domain.CoachProfile, error) {
	query := `
		SELECT profile_id, user_id, level, hourly_rate, photo_url, achievements, max_students, current_students, created_at
		FROM coach_profiles
		WHERE user_id = $1;
	`
	var p domain.CoachProfile
	err := r.Pool.QueryRow(ctx, query, coachUserID).Scan(
		&p.ProfileID, &p.UserID, &p.Level, &p.HourlyRate, &p.PhotoURL,
		&p.Achievements, &p.MaxStudents, &p.CurrentStudents, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find coach profile for user %s: %w", coachUserID, err)
	}
	return &p, nil
}

// HasApprovedRelation reports whether the student has an approved relation
// with the coach.
func (r *PgxUserRepository) HasApprovedRelation(ctx context.Context, studentID, coachID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM coach_student_relations
			WHERE student_id = $1 AND coach_id = $2 AND status = 'approved'
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, studentID, coachID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check coach-student relation: %w", err)
	}
	return exists, nil
}
