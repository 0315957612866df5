package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
	portsrepo "github.com/spinhall/tt_booking_app/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// MockBookingRepository is a mock type for the BookingRepositoryFacade interface
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) FindBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListBookingsForStudent(ctx context.Context, studentID string, filter portsrepo.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, studentID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListBookingsForCoach(ctx context.Context, coachID string, filter portsrepo.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, coachID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListPendingForCoach(ctx context.Context, coachID string) ([]domain.Booking, error) {
	args := m.Called(ctx, coachID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListBookings(ctx context.Context, filter portsrepo.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListActiveForCoachRange(ctx context.Context, coachID string, from, to time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, coachID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) HasOverlap(ctx context.Context, kind domain.ResourceKind, resourceID string, slot domain.TimeSlot) (bool, error) {
	args := m.Called(ctx, kind, resourceID, slot)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) FindOccupiedTableIDs(ctx context.Context, slot domain.TimeSlot) ([]string, error) {
	args := m.Called(ctx, slot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBookingRepository) CreateBooking(ctx context.Context, booking domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) ConfirmBookingWithDebit(ctx context.Context, bookingID string, txn domain.Transaction, confirmTime time.Time) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, txn, confirmTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) CancelBookingWithRefund(ctx context.Context, bookingID string, txn domain.Transaction) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) TransitionBookingStatus(ctx context.Context, bookingID string, from, to domain.BookingStatus) error {
	args := m.Called(ctx, bookingID, from, to)
	return args.Error(0)
}

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerRepository) GetOrCreateAccount(ctx context.Context, userID string) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerRepository) Credit(ctx context.Context, txn domain.Transaction) (*domain.Account, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerRepository) Debit(ctx context.Context, txn domain.Transaction) (*domain.Account, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) SumCompleted(ctx context.Context, kind domain.TransactionKind, since *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, kind, since)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockMatchRepository is a mock type for the MatchRepositoryFacade interface
type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) FindMatchByID(ctx context.Context, matchID string) (*domain.Match, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Match), args.Error(1)
}

func (m *MockMatchRepository) ListMatches(ctx context.Context, filter portsrepo.MatchFilter) ([]domain.Match, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Match), args.Error(1)
}

func (m *MockMatchRepository) CountPaidByGroup(ctx context.Context, matchID string) (map[domain.GroupLabel]int, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.GroupLabel]int), args.Error(1)
}

func (m *MockMatchRepository) ListPaidRegistrations(ctx context.Context, matchID string) ([]domain.MatchRegistration, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MatchRegistration), args.Error(1)
}

func (m *MockMatchRepository) ListRegistrations(ctx context.Context, matchID string, group domain.GroupLabel, limit, offset int) ([]domain.MatchRegistration, error) {
	args := m.Called(ctx, matchID, group, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MatchRegistration), args.Error(1)
}

func (m *MockMatchRepository) ListRegistrationsForStudent(ctx context.Context, studentID string) ([]domain.MatchRegistration, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MatchRegistration), args.Error(1)
}

func (m *MockMatchRepository) SaveMatch(ctx context.Context, match domain.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) TransitionMatchStatus(ctx context.Context, matchID string, from []domain.MatchStatus, to domain.MatchStatus) error {
	args := m.Called(ctx, matchID, from, to)
	return args.Error(0)
}

func (m *MockMatchRepository) RegisterWithFee(ctx context.Context, registration domain.MatchRegistration, txn domain.Transaction) error {
	args := m.Called(ctx, registration, txn)
	return args.Error(0)
}

func (m *MockMatchRepository) CancelMatchWithRefunds(ctx context.Context, matchID string) (int, error) {
	args := m.Called(ctx, matchID)
	return args.Int(0), args.Error(1)
}

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindCoachProfile(ctx context.Context, coachUserID string) (*domain.CoachProfile, error) {
	args := m.Called(ctx, coachUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CoachProfile), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) HasApprovedRelation(ctx context.Context, studentID, coachID string) (bool, error) {
	args := m.Called(ctx, studentID, coachID)
	return args.Bool(0), args.Error(1)
}

// MockTableRepository is a mock type for the TableReader interface
type MockTableRepository struct {
	mock.Mock
}

func (m *MockTableRepository) FindTableByID(ctx context.Context, tableID string) (*domain.Table, error) {
	args := m.Called(ctx, tableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Table), args.Error(1)
}

func (m *MockTableRepository) ListTablesByCampus(ctx context.Context, campusID string, status domain.TableStatus) ([]domain.Table, error) {
	args := m.Called(ctx, campusID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Table), args.Error(1)
}

// MockAuditRecorder is a mock type for the AuditRecorder interface
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) RecordAction(ctx context.Context, entry domain.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
