package services_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spinhall/tt_booking_app/internal/apperrors"
	"github.com/spinhall/tt_booking_app/internal/core/domain"
	portsrepo "github.com/spinhall/tt_booking_app/internal/core/ports/repositories"
	portssvc "github.com/spinhall/tt_booking_app/internal/core/ports/services"
	"github.com/spinhall/tt_booking_app/internal/core/services"
	"github.com/spinhall/tt_booking_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	mockRepo *MockLedgerRepository
	service  portssvc.LedgerSvcFacade
	userID   string
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockLedgerRepository)
	suite.service = services.NewLedgerServiceImpl(suite.mockRepo, nil)
	suite.userID = uuid.NewString()
}

func (suite *LedgerServiceTestSuite) TestGetAccount_LazyCreation() {
	ctx := context.Background()
	expected := &domain.Account{
		AccountID: uuid.NewString(),
		UserID:    suite.userID,
		Balance:   decimal.Zero,
	}

	suite.mockRepo.On("GetOrCreateAccount", ctx, suite.userID).Return(expected, nil).Once()

	account, err := suite.service.GetAccount(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.True(account.Balance.IsZero())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestDeposit_CreditsAccount() {
	ctx := context.Background()
	req := dto.DepositRequest{Amount: decimal.RequireFromString("500.005"), Method: "wechat"}

	suite.mockRepo.On("Credit", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Kind == domain.TxnDeposit &&
			txn.Amount.Equal(decimal.RequireFromString("500.01")) &&
			txn.Method == domain.PayWeChat &&
			txn.Status == domain.TxnCompleted &&
			txn.UserID == suite.userID
	})).Return(&domain.Account{
		AccountID: uuid.NewString(),
		UserID:    suite.userID,
		Balance:   decimal.RequireFromString("500.01"),
	}, nil).Once()

	account, txn, err := suite.service.Deposit(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.NotEmpty(txn.TransactionID)
	suite.True(account.Balance.Equal(decimal.RequireFromString("500.01")))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestDeposit_DefaultsToOffline() {
	ctx := context.Background()
	req := dto.DepositRequest{Amount: decimal.NewFromInt(100)}

	suite.mockRepo.On("Credit", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Method == domain.PayOffline
	})).Return(&domain.Account{UserID: suite.userID, Balance: decimal.NewFromInt(100)}, nil).Once()

	_, _, err := suite.service.Deposit(ctx, suite.userID, req)

	suite.Require().NoError(err)
}

func (suite *LedgerServiceTestSuite) TestDeposit_NonPositiveRejected() {
	ctx := context.Background()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-50)} {
		_, _, err := suite.service.Deposit(ctx, suite.userID, dto.DepositRequest{Amount: amount})
		suite.Require().Error(err)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "Credit", mock.Anything, mock.Anything)
}

// The ledger invariant: an account's balance always equals the signed sum of
// its completed entries. A confirm followed by a cancel nets to zero.
func (suite *LedgerServiceTestSuite) TestSignedSum_ConfirmCancelRoundTrip() {
	fee := decimal.RequireFromString("300.00")
	entries := []domain.Transaction{
		{Kind: domain.TxnDeposit, Amount: decimal.RequireFromString("500.00"), Status: domain.TxnCompleted},
		{Kind: domain.TxnWithdraw, Amount: fee, Status: domain.TxnCompleted},
		{Kind: domain.TxnRefund, Amount: fee, Status: domain.TxnCompleted},
	}

	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.SignedAmount())
	}

	suite.True(sum.Equal(decimal.RequireFromString("500.00")))
}

// The same invariant over a random entry sequence: after every step the
// balance equals the signed sum of accepted entries, a debit that would
// overdraw is rejected without leaving an entry, and the balance never goes
// negative. Seeded so a failure reproduces.
func (suite *LedgerServiceTestSuite) TestReconciliation_RandomSequence() {
	rng := rand.New(rand.NewSource(2))
	kinds := []domain.TransactionKind{domain.TxnDeposit, domain.TxnWithdraw, domain.TxnRefund}

	balance := decimal.Zero
	entries := []domain.Transaction{}
	rejected := 0

	for i := 0; i < 500; i++ {
		txn := domain.Transaction{
			Kind:   kinds[rng.Intn(len(kinds))],
			Amount: decimal.New(int64(rng.Intn(20000)+1), -2),
			Status: domain.TxnCompleted,
		}

		if txn.Kind == domain.TxnWithdraw && balance.LessThan(txn.Amount) {
			rejected++
		} else {
			balance = balance.Add(txn.SignedAmount())
			entries = append(entries, txn)
		}

		sum := decimal.Zero
		for _, e := range entries {
			sum = sum.Add(e.SignedAmount())
		}
		suite.Require().True(balance.Equal(sum), "step %d: balance %s != signed sum %s", i, balance, sum)
		suite.Require().False(balance.IsNegative(), "step %d: balance went negative", i)
	}
	suite.Positive(rejected, "the sequence never exercised the overdraw rejection")
}

func (suite *LedgerServiceTestSuite) TestListAllTransactions_CampusAdminScoped() {
	ctx := context.Background()
	campusID := uuid.NewString()
	actor := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleCampusAdmin, CampusID: campusID}

	suite.mockRepo.On("ListTransactions", ctx, mock.MatchedBy(func(f portsrepo.TransactionFilter) bool {
		return f.CampusID == campusID
	})).Return([]domain.Transaction{}, nil).Once()

	_, err := suite.service.ListAllTransactions(ctx, actor, dto.ListTransactionsParams{})

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestListAllTransactions_SuperAdminUnscoped() {
	ctx := context.Background()
	actor := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleSuperAdmin}

	suite.mockRepo.On("ListTransactions", ctx, mock.MatchedBy(func(f portsrepo.TransactionFilter) bool {
		return f.CampusID == ""
	})).Return([]domain.Transaction{}, nil).Once()

	_, err := suite.service.ListAllTransactions(ctx, actor, dto.ListTransactionsParams{})

	suite.Require().NoError(err)
}

func (suite *LedgerServiceTestSuite) TestStatistics_Aggregates() {
	ctx := context.Background()

	suite.mockRepo.On("SumCompleted", ctx, domain.TxnDeposit, (*time.Time)(nil)).
		Return(decimal.RequireFromString("1000.00"), nil).Once()
	suite.mockRepo.On("SumCompleted", ctx, domain.TxnWithdraw, (*time.Time)(nil)).
		Return(decimal.RequireFromString("400.00"), nil).Once()
	suite.mockRepo.On("SumCompleted", ctx, domain.TxnDeposit, mock.AnythingOfType("*time.Time")).
		Return(decimal.RequireFromString("100.00"), nil).Twice()

	stats, err := suite.service.Statistics(ctx)

	suite.Require().NoError(err)
	suite.True(stats.TotalIncome.Equal(decimal.RequireFromString("1000.00")))
	suite.True(stats.TotalExpense.Equal(decimal.RequireFromString("400.00")))
	suite.True(stats.NetIncome.Equal(decimal.RequireFromString("600.00")))
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
