package services

import (
	"context"

	"github.com/spinhall/tt_booking_app/internal/core/domain"
	"github.com/spinhall/tt_booking_app/internal/dto"
)

// MatchSvcFacade owns the tournament lifecycle and registrations.
type MatchSvcFacade interface {
	// CreateMatch creates a tournament open for registration. Registration
	// must close before the match date.
	CreateMatch(ctx context.Context, actor domain.Actor, req dto.CreateMatchRequest) (*domain.Match, error)

	// ListMatches lists matches; with no status filter, only upcoming and
	// registration matches are shown.
	ListMatches(ctx context.Context, params dto.ListMatchesParams) ([]domain.Match, error)

	// GetMatchDetail returns a match with its per-group paid counts.
	GetMatchDetail(ctx context.Context, matchID string) (*dto.MatchDetailResponse, error)

	// Register enters a student into a group of a match inside its
	// registration window, debiting the fee atomically with the entry.
	// One registration per (match, student).
	Register(ctx context.Context, studentID, matchID string, group domain.GroupLabel) (*domain.MatchRegistration, error)

	// ListRegistrations lists a match's registrations for administrators.
	ListRegistrations(ctx context.Context, matchID string, params dto.ListRegistrationsParams) ([]domain.MatchRegistration, error)

	// MyRegistrations lists a student's registrations.
	MyRegistrations(ctx context.Context, studentID string) ([]domain.MatchRegistration, error)

	// StartMatch moves an upcoming or registration match to ongoing.
	StartMatch(ctx context.Context, actor domain.Actor, matchID string) error

	// CancelMatch cancels a match and refunds every paid registration
	// atomically. Returns the number of refunds issued.
	CancelMatch(ctx context.Context, actor domain.Actor, matchID, reason string) (int, error)
}

// TournamentSvcFacade derives match schedules from registrations.
type TournamentSvcFacade interface {
	// GenerateSchedule builds the per-group chunked round-robin schedule
	// from the match's paid registrations and flips the match to ongoing.
	// The derivation is pure: the same registration set always produces an
	// identical schedule.
	GenerateSchedule(ctx context.Context, actor domain.Actor, matchID string) (*domain.MatchSchedule, error)
}
