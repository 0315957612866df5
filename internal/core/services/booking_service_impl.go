package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spinhall/tt_booking_app/internal/apperrors"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
	portsrepo "github.com/spinhall/tt_booking_app/internal/core/ports/repositories"
	portssvc "github.com/spinhall/tt_booking_app/internal/core/ports/services"
	"github.com/spinhall/tt_booking_app/internal/dto"
)

// cancelCutoff is the window before lesson start within which user-initiated
// cancellation is disallowed. Administrative cancellation skips it.
const cancelCutoff = 24 * time.Hour

// bookingServiceImpl implements the BookingSvcFacade interface.
type bookingServiceImpl struct {
	BaseService
	bookingRepo portsrepo.BookingRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
	tableRepo   portsrepo.TableReader
	now         func() time.Time
}

// BookingServiceOption is a functional option for the booking service.
type BookingServiceOption func(*bookingServiceImpl)

// WithClock overrides the wall clock, used by tests to pin cutoff checks.
func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *bookingServiceImpl) {
		s.now = now
	}
}

// NewBookingServiceImpl creates a new booking service.
func NewBookingServiceImpl(
	bookingRepo portsrepo.BookingRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	tableRepo portsrepo.TableReader,
	audit portsrepo.AuditRecorder,
	options ...BookingServiceOption,
) portssvc.BookingSvcFacade {
	svc := &bookingServiceImpl{
		BaseService: BaseService{AuditRepo: audit},
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		tableRepo:   tableRepo,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.BookingSvcFacade = (*bookingServiceImpl)(nil)

// lessonFee computes rate x duration in fractional hours, rounded to cents.
// It is evaluated once, at creation; later rate changes never reprice.
func lessonFee(hourlyRate decimal.Decimal, slot domain.TimeSlot) decimal.Decimal {
	minutes := decimal.NewFromInt(int64(slot.EndMinute - slot.StartMinute))
	return hourlyRate.Mul(minutes).Div(decimal.NewFromInt(60)).Round(2)
}

func (s *bookingServiceImpl) CreateBooking(ctx context.Context, studentID string, req dto.CreateBookingRequest) (*domain.Booking, error) {
	slot, err := dto.ParseSlot(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	// The booking date must be strictly in the future; today does not qualify.
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !slot.Date.After(today) {
		return nil, fmt.Errorf("booking date must be after today: %w", apperrors.ErrValidation)
	}

	approved, err := s.userRepo.HasApprovedRelation(ctx, studentID, req.CoachID)
	if err != nil {
		s.LogError(ctx, err, "Failed to check coach-student relation")
		return nil, err
	}
	if !approved {
		return nil, fmt.Errorf("no approved relation with this coach: %w", apperrors.ErrConflict)
	}

	coach, err := s.userRepo.FindUserByID(ctx, req.CoachID)
	if err != nil {
		return nil, fmt.Errorf("coach lookup failed: %w", err)
	}
	profile, err := s.userRepo.FindCoachProfile(ctx, req.CoachID)
	if err != nil {
		return nil, fmt.Errorf("coach profile lookup failed: %w", err)
	}

	tableID := ""
	if req.TableID != nil && *req.TableID != "" {
		table, err := s.tableRepo.FindTableByID(ctx, *req.TableID)
		if err != nil {
			return nil, fmt.Errorf("table lookup failed: %w", err)
		}
		if table.Status != domain.TableAvailable {
			return nil, fmt.Errorf("table %s is not available for booking: %w", table.Number, apperrors.ErrConflict)
		}
		tableID = table.TableID
	}

	booking := domain.Booking{
		BookingID: uuid.NewString(),
		StudentID: studentID,
		CoachID:   coach.UserID,
		CampusID:  coach.CampusID,
		TableID:   tableID,
		Slot:      slot,
		LessonFee: lessonFee(profile.HourlyRate, slot),
		Status:    domain.BookingPending,
		CreatedAt: now.UTC(),
	}

	// The repository performs the availability checks and the insert as one
	// critical section; a losing concurrent request surfaces here as a
	// SlotConflictError.
	if err := s.bookingRepo.CreateBooking(ctx, booking); err != nil {
		s.LogError(ctx, err, "Failed to create booking",
			slog.String("student_id", studentID),
			slog.String("coach_id", coach.UserID))
		return nil, err
	}

	s.LogInfo(ctx, "Booking created",
		slog.String("booking_id", booking.BookingID),
		slog.String("fee", booking.LessonFee.String()))
	s.RecordAudit(ctx, studentID, "create_booking",
		fmt.Sprintf("Booked coach %s on %s %s-%s", coach.RealName, req.Date, req.StartTime, req.EndTime))
	return &booking, nil
}

func (s *bookingServiceImpl) ConfirmBooking(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.FindBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeBookingActor(actor, booking); err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingPending {
		return nil, fmt.Errorf("only pending bookings can be confirmed: %w", apperrors.ErrConflict)
	}

	now := s.now().UTC()
	txn := domain.Transaction{
		TransactionID:    uuid.NewString(),
		UserID:           booking.StudentID,
		Kind:             domain.TxnWithdraw,
		Amount:           booking.LessonFee,
		Method:           domain.PaySystem,
		Status:           domain.TxnCompleted,
		Description:      "Lesson fee",
		RelatedBookingID: booking.BookingID,
		CreatedAt:        now,
	}

	confirmed, err := s.bookingRepo.ConfirmBookingWithDebit(ctx, booking.BookingID, txn, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to confirm booking", slog.String("booking_id", bookingID))
		return nil, err
	}

	s.LogInfo(ctx, "Booking confirmed", slog.String("booking_id", bookingID))
	s.RecordAudit(ctx, actor.UserID, "confirm_booking",
		fmt.Sprintf("Confirmed booking %s, fee %s", bookingID, booking.LessonFee.StringFixed(2)))
	return confirmed, nil
}

func (s *bookingServiceImpl) RejectBooking(ctx context.Context, actor domain.Actor, bookingID, reason string) error {
	booking, err := s.bookingRepo.FindBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if err := s.authorizeBookingActor(actor, booking); err != nil {
		return err
	}
	if booking.Status != domain.BookingPending {
		return fmt.Errorf("only pending bookings can be rejected: %w", apperrors.ErrConflict)
	}

	if err := s.bookingRepo.TransitionBookingStatus(ctx, bookingID, domain.BookingPending, domain.BookingCancelled); err != nil {
		return err
	}

	s.LogInfo(ctx, "Booking rejected", slog.String("booking_id", bookingID), slog.String("reason", reason))
	s.RecordAudit(ctx, actor.UserID, "reject_booking",
		fmt.Sprintf("Rejected booking %s: %s", bookingID, reason))
	return nil
}

func (s *bookingServiceImpl) CancelBooking(ctx context.Context, actor domain.Actor, bookingID, reason string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.FindBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actor.UserID != booking.StudentID && actor.UserID != booking.CoachID {
		return nil, fmt.Errorf("booking belongs to another user: %w", apperrors.ErrForbidden)
	}
	if booking.Status != domain.BookingConfirmed {
		return nil, fmt.Errorf("only confirmed bookings can be cancelled: %w", apperrors.ErrConflict)
	}
	if s.now().After(booking.StartAt().Add(-cancelCutoff)) {
		return nil, fmt.Errorf("bookings cannot be cancelled within 24 hours of start: %w", apperrors.ErrConflict)
	}

	cancelled, err := s.refundAndCancel(ctx, booking)
	if err != nil {
		return nil, err
	}

	s.RecordAudit(ctx, actor.UserID, "cancel_booking",
		fmt.Sprintf("Cancelled booking %s: %s", bookingID, reason))
	return cancelled, nil
}

func (s *bookingServiceImpl) AdminCancelBooking(ctx context.Context, actor domain.Actor, bookingID, reason string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.FindBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageCampus(booking.CampusID) {
		return nil, fmt.Errorf("booking belongs to another campus: %w", apperrors.ErrForbidden)
	}

	// The administrative path skips the 24-hour cutoff entirely.
	var cancelled *domain.Booking
	switch booking.Status {
	case domain.BookingPending:
		// Nothing was debited yet; plain status flip.
		if err := s.bookingRepo.TransitionBookingStatus(ctx, bookingID, domain.BookingPending, domain.BookingCancelled); err != nil {
			return nil, err
		}
		b := *booking
		b.Status = domain.BookingCancelled
		cancelled = &b
	case domain.BookingConfirmed:
		cancelled, err = s.refundAndCancel(ctx, booking)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("booking is already %s: %w", booking.Status, apperrors.ErrConflict)
	}

	s.LogInfo(ctx, "Booking cancelled by administrator", slog.String("booking_id", bookingID))
	s.RecordAudit(ctx, actor.UserID, "admin_cancel_booking",
		fmt.Sprintf("Cancelled booking %s: %s", bookingID, reason))
	return cancelled, nil
}

func (s *bookingServiceImpl) CompleteBooking(ctx context.Context, actor domain.Actor, bookingID string) error {
	booking, err := s.bookingRepo.FindBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if err := s.authorizeBookingActor(actor, booking); err != nil {
		return err
	}
	if booking.Status != domain.BookingConfirmed {
		return fmt.Errorf("only confirmed bookings can be completed: %w", apperrors.ErrConflict)
	}

	if err := s.bookingRepo.TransitionBookingStatus(ctx, bookingID, domain.BookingConfirmed, domain.BookingCompleted); err != nil {
		return err
	}

	s.LogInfo(ctx, "Booking completed", slog.String("booking_id", bookingID))
	s.RecordAudit(ctx, actor.UserID, "complete_booking", fmt.Sprintf("Completed booking %s", bookingID))
	return nil
}

func (s *bookingServiceImpl) ListMyBookings(ctx context.Context, actor domain.Actor, params dto.ListBookingsParams) ([]domain.Booking, error) {
	filter, err := bookingFilterFromParams(params)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleCoach {
		return s.bookingRepo.ListBookingsForCoach(ctx, actor.UserID, filter)
	}
	return s.bookingRepo.ListBookingsForStudent(ctx, actor.UserID, filter)
}

func (s *bookingServiceImpl) ListPendingBookings(ctx context.Context, coachID string) ([]domain.Booking, error) {
	return s.bookingRepo.ListPendingForCoach(ctx, coachID)
}

func (s *bookingServiceImpl) ListAllBookings(ctx context.Context, actor domain.Actor, params dto.ListBookingsParams) ([]domain.Booking, error) {
	filter, err := bookingFilterFromParams(params)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleCampusAdmin {
		filter.CampusID = actor.CampusID
	}
	return s.bookingRepo.ListBookings(ctx, filter)
}

// refundAndCancel builds the refund entry and hands it to the repository's
// atomic cancel. The credit, the refund append and the status change commit
// together or not at all.
func (s *bookingServiceImpl) refundAndCancel(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	txn := domain.Transaction{
		TransactionID:    uuid.NewString(),
		UserID:           booking.StudentID,
		Kind:             domain.TxnRefund,
		Amount:           booking.LessonFee,
		Method:           domain.PaySystem,
		Status:           domain.TxnCompleted,
		Description:      "Lesson fee refund",
		RelatedBookingID: booking.BookingID,
		CreatedAt:        s.now().UTC(),
	}
	cancelled, err := s.bookingRepo.CancelBookingWithRefund(ctx, booking.BookingID, txn)
	if err != nil {
		s.LogError(ctx, err, "Failed to cancel booking", slog.String("booking_id", booking.BookingID))
		return nil, err
	}
	s.LogInfo(ctx, "Booking cancelled and refunded",
		slog.String("booking_id", booking.BookingID),
		slog.String("refund", booking.LessonFee.String()))
	return cancelled, nil
}

// authorizeBookingActor permits the booking's coach, or an administrator of
// the booking's campus.
func (s *bookingServiceImpl) authorizeBookingActor(actor domain.Actor, booking *domain.Booking) error {
	if actor.Role.IsAdmin() {
		if !actor.CanManageCampus(booking.CampusID) {
			return fmt.Errorf("booking belongs to another campus: %w", apperrors.ErrForbidden)
		}
		return nil
	}
	if actor.UserID != booking.CoachID {
		return fmt.Errorf("booking belongs to another coach: %w", apperrors.ErrForbidden)
	}
	return nil
}

func bookingFilterFromParams(params dto.ListBookingsParams) (portsrepo.BookingFilter, error) {
	limit, offset := pageToLimitOffset(params.Page, params.PerPage)
	filter := portsrepo.BookingFilter{
		Status:   domain.BookingStatus(params.Status),
		CampusID: params.CampusID,
		Limit:    limit,
		Offset:   offset,
	}
	if params.StartDate != "" {
		from, err := dto.ParseDate(params.StartDate)
		if err != nil {
			return filter, err
		}
		filter.DateFrom = &from
	}
	if params.EndDate != "" {
		to, err := dto.ParseDate(params.EndDate)
		if err != nil {
			return filter, err
		}
		filter.DateTo = &to
	}
	return filter, nil
}
