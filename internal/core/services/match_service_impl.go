package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spinhall/tt_booking_app/internal/apperrors"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
	portsrepo "github.com/spinhall/tt_booking_app/internal/core/ports/repositories"
	portssvc "github.com/spinhall/tt_booking_app/internal/core/ports/services"
	"github.com/spinhall/tt_booking_app/internal/dto"
)

// matchServiceImpl implements the MatchSvcFacade interface.
type matchServiceImpl struct {
	BaseService
	matchRepo portsrepo.MatchRepositoryFacade
	now       func() time.Time
}

// MatchServiceOption is a functional option for the match service.
type MatchServiceOption func(*matchServiceImpl)

// WithMatchClock overrides the wall clock, used by tests to pin the
// registration window.
func WithMatchClock(now func() time.Time) MatchServiceOption {
	return func(s *matchServiceImpl) {
		s.now = now
	}
}

// NewMatchServiceImpl creates a new match service.
func NewMatchServiceImpl(matchRepo portsrepo.MatchRepositoryFacade, audit portsrepo.AuditRecorder, options ...MatchServiceOption) portssvc.MatchSvcFacade {
	svc := &matchServiceImpl{
		BaseService: BaseService{AuditRepo: audit},
		matchRepo:   matchRepo,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.MatchSvcFacade = (*matchServiceImpl)(nil)

func (s *matchServiceImpl) CreateMatch(ctx context.Context, actor domain.Actor, req dto.CreateMatchRequest) (*domain.Match, error) {
	if !actor.CanManageCampus(req.CampusID) {
		return nil, fmt.Errorf("cannot create matches for another campus: %w", apperrors.ErrForbidden)
	}

	matchDate, err := dto.ParseDate(req.MatchDate)
	if err != nil {
		return nil, err
	}
	registrationEnd, err := dto.ParseDateTime(req.RegistrationEnd)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if !matchDate.After(now) {
		return nil, fmt.Errorf("match date must be in the future: %w", apperrors.ErrValidation)
	}
	// Registration has to close before play starts.
	if !registrationEnd.Before(matchDate) {
		return nil, fmt.Errorf("registration must end before the match date: %w", apperrors.ErrValidation)
	}
	if req.RegistrationFee.IsNegative() {
		return nil, fmt.Errorf("registration fee cannot be negative: %w", apperrors.ErrValidation)
	}

	match := domain.Match{
		MatchID:           uuid.NewString(),
		Name:              req.Name,
		CampusID:          req.CampusID,
		MatchDate:         matchDate,
		RegistrationStart: now,
		RegistrationEnd:   registrationEnd,
		RegistrationFee:   req.RegistrationFee.Round(2),
		Status:            domain.MatchRegistrationOpen,
		CreatedAt:         now,
	}
	if err := s.matchRepo.SaveMatch(ctx, match); err != nil {
		s.LogError(ctx, err, "Failed to create match", slog.String("name", req.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Match created", slog.String("match_id", match.MatchID), slog.String("name", match.Name))
	s.RecordAudit(ctx, actor.UserID, "create_match",
		fmt.Sprintf("Created match %q on %s", match.Name, req.MatchDate))
	return &match, nil
}

func (s *matchServiceImpl) ListMatches(ctx context.Context, params dto.ListMatchesParams) ([]domain.Match, error) {
	limit, offset := pageToLimitOffset(params.Page, params.PerPage)
	filter := portsrepo.MatchFilter{
		CampusID: params.CampusID,
		Limit:    limit,
		Offset:   offset,
	}
	if params.Status != "" {
		filter.Statuses = []domain.MatchStatus{domain.MatchStatus(params.Status)}
	} else {
		// Without an explicit filter, past and cancelled matches stay hidden.
		filter.Statuses = []domain.MatchStatus{domain.MatchUpcoming, domain.MatchRegistrationOpen}
	}
	return s.matchRepo.ListMatches(ctx, filter)
}

func (s *matchServiceImpl) GetMatchDetail(ctx context.Context, matchID string) (*dto.MatchDetailResponse, error) {
	match, err := s.matchRepo.FindMatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	stats, err := s.matchRepo.CountPaidByGroup(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return &dto.MatchDetailResponse{
		MatchResponse:     dto.ToMatchResponse(match),
		RegistrationStats: stats,
	}, nil
}

func (s *matchServiceImpl) Register(ctx context.Context, studentID, matchID string, group domain.GroupLabel) (*domain.MatchRegistration, error) {
	match, err := s.matchRepo.FindMatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != domain.MatchRegistrationOpen && match.Status != domain.MatchUpcoming {
		return nil, fmt.Errorf("match is not open for registration: %w", apperrors.ErrConflict)
	}
	now := s.now().UTC()
	if now.Before(match.RegistrationStart) || now.After(match.RegistrationEnd) {
		return nil, fmt.Errorf("outside the registration window: %w", apperrors.ErrConflict)
	}

	registration := domain.MatchRegistration{
		RegistrationID:   uuid.NewString(),
		MatchID:          matchID,
		StudentID:        studentID,
		Group:            group,
		RegistrationTime: now,
		PaymentStatus:    domain.PaymentPaid,
	}
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        studentID,
		Kind:          domain.TxnWithdraw,
		Amount:        match.RegistrationFee,
		Method:        domain.PaySystem,
		Status:        domain.TxnCompleted,
		Description:   fmt.Sprintf("Registration fee for %s", match.Name),
		CreatedAt:     now,
	}

	if err := s.matchRepo.RegisterWithFee(ctx, registration, txn); err != nil {
		s.LogError(ctx, err, "Failed to register for match",
			slog.String("match_id", matchID),
			slog.String("student_id", studentID))
		return nil, err
	}

	s.LogInfo(ctx, "Match registration recorded",
		slog.String("match_id", matchID),
		slog.String("student_id", studentID),
		slog.String("group", string(group)))
	s.RecordAudit(ctx, studentID, "match_register",
		fmt.Sprintf("Registered for match %q in %s, fee %s", match.Name, group, match.RegistrationFee.StringFixed(2)))
	return &registration, nil
}

func (s *matchServiceImpl) ListRegistrations(ctx context.Context, matchID string, params dto.ListRegistrationsParams) ([]domain.MatchRegistration, error) {
	if _, err := s.matchRepo.FindMatchByID(ctx, matchID); err != nil {
		return nil, err
	}
	limit, offset := pageToLimitOffset(params.Page, params.PerPage)
	return s.matchRepo.ListRegistrations(ctx, matchID, domain.GroupLabel(params.Group), limit, offset)
}

func (s *matchServiceImpl) MyRegistrations(ctx context.Context, studentID string) ([]domain.MatchRegistration, error) {
	return s.matchRepo.ListRegistrationsForStudent(ctx, studentID)
}

func (s *matchServiceImpl) StartMatch(ctx context.Context, actor domain.Actor, matchID string) error {
	match, err := s.matchRepo.FindMatchByID(ctx, matchID)
	if err != nil {
		return err
	}
	if !actor.CanManageCampus(match.CampusID) {
		return fmt.Errorf("match belongs to another campus: %w", apperrors.ErrForbidden)
	}

	err = s.matchRepo.TransitionMatchStatus(ctx, matchID,
		[]domain.MatchStatus{domain.MatchUpcoming, domain.MatchRegistrationOpen}, domain.MatchOngoing)
	if err != nil {
		return err
	}

	s.LogInfo(ctx, "Match started", slog.String("match_id", matchID))
	s.RecordAudit(ctx, actor.UserID, "start_match", fmt.Sprintf("Started match %q", match.Name))
	return nil
}

func (s *matchServiceImpl) CancelMatch(ctx context.Context, actor domain.Actor, matchID, reason string) (int, error) {
	match, err := s.matchRepo.FindMatchByID(ctx, matchID)
	if err != nil {
		return 0, err
	}
	if !actor.CanManageCampus(match.CampusID) {
		return 0, fmt.Errorf("match belongs to another campus: %w", apperrors.ErrForbidden)
	}
	switch match.Status {
	case domain.MatchCancelled, domain.MatchCompleted:
		return 0, fmt.Errorf("match is already %s: %w", match.Status, apperrors.ErrConflict)
	}

	refunded, err := s.matchRepo.CancelMatchWithRefunds(ctx, matchID)
	if err != nil {
		s.LogError(ctx, err, "Failed to cancel match", slog.String("match_id", matchID))
		return 0, err
	}

	s.LogInfo(ctx, "Match cancelled",
		slog.String("match_id", matchID),
		slog.Int("refunded", refunded))
	s.RecordAudit(ctx, actor.UserID, "cancel_match",
		fmt.Sprintf("Cancelled match %q (%d refunds): %s", match.Name, refunded, reason))
	return refunded, nil
}
