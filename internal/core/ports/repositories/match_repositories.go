package repositories

import (
	"context"

	"github.com/spinhall/tt_booking_app/internal/core/domain"
)

// MatchFilter narrows match listings.
type MatchFilter struct {
	Statuses []domain.MatchStatus // empty matches all
	CampusID string               // empty matches all
	Limit    int
	Offset   int
}

// MatchReader defines read operations for match and registration data.
type MatchReader interface {
	// FindMatchByID retrieves a match by its unique identifier.
	FindMatchByID(ctx context.Context, matchID string) (*domain.Match, error)

	// ListMatches retrieves matches, most recent match date first.
	ListMatches(ctx context.Context, filter MatchFilter) ([]domain.Match, error)

	// CountPaidByGroup returns the number of paid registrations per group.
	CountPaidByGroup(ctx context.Context, matchID string) (map[domain.GroupLabel]int, error)

	// ListPaidRegistrations returns the paid registrations of a match in
	// registration order (time, then ID). The pairing generator depends on
	// this order being stable.
	ListPaidRegistrations(ctx context.Context, matchID string) ([]domain.MatchRegistration, error)

	// ListRegistrations retrieves registrations of a match, optionally
	// filtered by group, newest first.
	ListRegistrations(ctx context.Context, matchID string, group domain.GroupLabel, limit, offset int) ([]domain.MatchRegistration, error)

	// ListRegistrationsForStudent retrieves a student's registrations.
	ListRegistrationsForStudent(ctx context.Context, studentID string) ([]domain.MatchRegistration, error)
}

// MatchWriter defines the mutating operations for matches.
type MatchWriter interface {
	// SaveMatch persists a new match.
	SaveMatch(ctx context.Context, match domain.Match) error

	// TransitionMatchStatus moves a match into a new status if its current
	// status is one of the expected ones, failing with a conflict otherwise.
	TransitionMatchStatus(ctx context.Context, matchID string, from []domain.MatchStatus, to domain.MatchStatus) error

	// RegisterWithFee atomically debits the registration fee, appends the
	// withdraw transaction and inserts the paid registration. A second
	// registration for the same (match, student) fails with ErrDuplicate.
	RegisterWithFee(ctx context.Context, registration domain.MatchRegistration, txn domain.Transaction) error

	// CancelMatchWithRefunds atomically marks the match cancelled, credits
	// every paid registration back, appends the refund transactions and
	// flips those registrations to refunded. Returns the number refunded.
	CancelMatchWithRefunds(ctx context.Context, matchID string) (int, error)
}

// MatchRepositoryFacade combines all match repository interfaces.
type MatchRepositoryFacade interface {
	MatchReader
	MatchWriter
}
