package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spinhall/tt_booking_app/internal/apperrors"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
	portsrepo "github.com/spinhall/tt_booking_app/internal/core/ports/repositories"
	portssvc "github.com/spinhall/tt_booking_app/internal/core/ports/services"
)

// maxChunkSize caps a single round robin. Larger groups are split into
// consecutive chunks in registration order.
const maxChunkSize = 6

// tournamentServiceImpl implements the TournamentSvcFacade interface.
type tournamentServiceImpl struct {
	BaseService
	matchRepo portsrepo.MatchRepositoryFacade
}

// NewTournamentServiceImpl creates a new tournament scheduling service.
func NewTournamentServiceImpl(matchRepo portsrepo.MatchRepositoryFacade, audit portsrepo.AuditRecorder) portssvc.TournamentSvcFacade {
	return &tournamentServiceImpl{
		BaseService: BaseService{AuditRepo: audit},
		matchRepo:   matchRepo,
	}
}

var _ portssvc.TournamentSvcFacade = (*tournamentServiceImpl)(nil)

func (s *tournamentServiceImpl) GenerateSchedule(ctx context.Context, actor domain.Actor, matchID string) (*domain.MatchSchedule, error) {
	match, err := s.matchRepo.FindMatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageCampus(match.CampusID) {
		return nil, fmt.Errorf("match belongs to another campus: %w", apperrors.ErrForbidden)
	}
	switch match.Status {
	case domain.MatchCancelled, domain.MatchCompleted:
		return nil, fmt.Errorf("match is %s: %w", match.Status, apperrors.ErrConflict)
	}

	registrations, err := s.matchRepo.ListPaidRegistrations(ctx, matchID)
	if err != nil {
		return nil, err
	}

	schedule := buildSchedule(matchID, registrations)

	// Scheduling marks the match ongoing; regenerating for an already
	// ongoing match is a no-op on status and yields the same schedule.
	if match.Status != domain.MatchOngoing {
		err = s.matchRepo.TransitionMatchStatus(ctx, matchID,
			[]domain.MatchStatus{domain.MatchUpcoming, domain.MatchRegistrationOpen}, domain.MatchOngoing)
		if err != nil {
			return nil, err
		}
	}

	s.LogInfo(ctx, "Match schedule generated",
		slog.String("match_id", matchID),
		slog.Int("registrations", len(registrations)))
	s.RecordAudit(ctx, actor.UserID, "generate_schedule",
		fmt.Sprintf("Generated schedule for match %s (%d paid registrations)", matchID, len(registrations)))
	return schedule, nil
}

// buildSchedule derives the full schedule from the paid registrations. The
// derivation is pure: a given registration sequence always produces an
// identical schedule.
func buildSchedule(matchID string, registrations []domain.MatchRegistration) *domain.MatchSchedule {
	// Labels are opaque here. Groups appear in the order their first
	// registrant arrived, which keeps the derivation deterministic for any
	// label set.
	byGroup := make(map[domain.GroupLabel][]string)
	order := []domain.GroupLabel{}
	for _, reg := range registrations {
		if _, seen := byGroup[reg.Group]; !seen {
			order = append(order, reg.Group)
		}
		byGroup[reg.Group] = append(byGroup[reg.Group], reg.StudentID)
	}

	schedule := &domain.MatchSchedule{MatchID: matchID, Groups: []domain.GroupSchedule{}}
	for _, group := range order {
		schedule.Groups = append(schedule.Groups, domain.GroupSchedule{
			Group:  group,
			Chunks: chunkRoundRobins(byGroup[group]),
		})
	}
	return schedule
}

// chunkRoundRobins splits the players into chunks of at most maxChunkSize
// and produces a full round robin inside each chunk. A chunk of one player
// gets no pairings.
func chunkRoundRobins(players []string) []domain.ChunkSchedule {
	chunks := make([]domain.ChunkSchedule, 0, (len(players)+maxChunkSize-1)/maxChunkSize)
	for start := 0; start < len(players); start += maxChunkSize {
		end := start + maxChunkSize
		if end > len(players) {
			end = len(players)
		}
		chunks = append(chunks, domain.ChunkSchedule{
			Chunk:    len(chunks) + 1,
			Pairings: roundRobin(players[start:end]),
		})
	}
	return chunks
}

// roundRobin pairs every player against every other exactly once. Rounds
// number the pairings in generation order: (0,1), (0,2), ... (n-2,n-1).
func roundRobin(players []string) []domain.Pairing {
	pairings := make([]domain.Pairing, 0, len(players)*(len(players)-1)/2)
	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			pairings = append(pairings, domain.Pairing{
				Round:     len(pairings) + 1,
				Player1ID: players[i],
				Player2ID: players[j],
			})
		}
	}
	return pairings
}
