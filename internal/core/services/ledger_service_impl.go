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

// ledgerServiceImpl implements the LedgerSvcFacade interface.
type ledgerServiceImpl struct {
	BaseService
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewLedgerServiceImpl creates a new ledger service.
func NewLedgerServiceImpl(repo portsrepo.LedgerRepositoryFacade, audit portsrepo.AuditRecorder) portssvc.LedgerSvcFacade {
	return &ledgerServiceImpl{
		BaseService: BaseService{AuditRepo: audit},
		ledgerRepo:  repo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerServiceImpl)(nil)

func (s *ledgerServiceImpl) GetAccount(ctx context.Context, userID string) (*domain.Account, error) {
	account, err := s.ledgerRepo.GetOrCreateAccount(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to get or create account", slog.String("user_id", userID))
		return nil, err
	}
	return account, nil
}

func (s *ledgerServiceImpl) Deposit(ctx context.Context, userID string, req dto.DepositRequest) (*domain.Account, *domain.Transaction, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("deposit amount must be positive: %w", apperrors.ErrValidation)
	}

	method := domain.PaymentMethod(req.Method)
	if method == "" {
		method = domain.PayOffline
	}

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		Kind:          domain.TxnDeposit,
		Amount:        req.Amount.Round(2),
		Method:        method,
		Status:        domain.TxnCompleted,
		Description:   fmt.Sprintf("Account deposit via %s", method),
		CreatedAt:     time.Now().UTC(),
	}

	account, err := s.ledgerRepo.Credit(ctx, txn)
	if err != nil {
		s.LogError(ctx, err, "Failed to credit deposit", slog.String("user_id", userID))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Deposit completed",
		slog.String("user_id", userID),
		slog.String("amount", txn.Amount.String()),
		slog.String("new_balance", account.Balance.String()))
	s.RecordAudit(ctx, userID, "deposit", fmt.Sprintf("Deposited %s via %s", txn.Amount.StringFixed(2), method))
	return account, &txn, nil
}

func (s *ledgerServiceImpl) ListMyTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) ([]domain.Transaction, error) {
	limit, offset := pageToLimitOffset(params.Page, params.PerPage)
	return s.ledgerRepo.ListTransactions(ctx, portsrepo.TransactionFilter{
		UserID: userID,
		Kind:   domain.TransactionKind(params.Kind),
		Limit:  limit,
		Offset: offset,
	})
}

func (s *ledgerServiceImpl) ListAllTransactions(ctx context.Context, actor domain.Actor, params dto.ListTransactionsParams) ([]domain.Transaction, error) {
	limit, offset := pageToLimitOffset(params.Page, params.PerPage)
	filter := portsrepo.TransactionFilter{
		UserID: params.UserID,
		Kind:   domain.TransactionKind(params.Kind),
		Limit:  limit,
		Offset: offset,
	}
	// Campus admins only see their own campus's transactions.
	if actor.Role == domain.RoleCampusAdmin {
		filter.CampusID = actor.CampusID
	}
	return s.ledgerRepo.ListTransactions(ctx, filter)
}

func (s *ledgerServiceImpl) Statistics(ctx context.Context) (*dto.PaymentStatisticsResponse, error) {
	totalIncome, err := s.ledgerRepo.SumCompleted(ctx, domain.TxnDeposit, nil)
	if err != nil {
		return nil, err
	}
	totalExpense, err := s.ledgerRepo.SumCompleted(ctx, domain.TxnWithdraw, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	todayIncome, err := s.ledgerRepo.SumCompleted(ctx, domain.TxnDeposit, &today)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthIncome, err := s.ledgerRepo.SumCompleted(ctx, domain.TxnDeposit, &monthStart)
	if err != nil {
		return nil, err
	}

	return &dto.PaymentStatisticsResponse{
		TotalIncome:     totalIncome,
		TotalExpense:    totalExpense,
		NetIncome:       totalIncome.Sub(totalExpense),
		TodayIncome:     todayIncome,
		ThisMonthIncome: monthIncome,
	}, nil
}

// pageToLimitOffset converts 1-based page/per_page paging into limit/offset.
func pageToLimitOffset(page, perPage int) (int, int) {
	if perPage <= 0 {
		perPage = 10
	}
	if page <= 0 {
		page = 1
	}
	return perPage, (page - 1) * perPage
}
