package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/buddyair/internal/apperrors"
	"github.com/SscSPs/buddyair/internal/core/domain"
	portssvc "github.com/SscSPs/buddyair/internal/core/ports/services"
	"github.com/SscSPs/buddyair/internal/core/services"
	"github.com/SscSPs/buddyair/internal/dto"
	"github.com/SscSPs/buddyair/internal/utils/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CreditServiceTestSuite struct {
	suite.Suite
	loanRepo    *MockLoanRepository
	accountRepo *MockAccountRepository
	now         time.Time
	service     portssvc.CreditSvcFacade
}

func (suite *CreditServiceTestSuite) SetupTest() {
	suite.loanRepo = new(MockLoanRepository)
	suite.accountRepo = new(MockAccountRepository)
	suite.now = time.Date(2024, time.July, 20, 9, 0, 0, 0, time.UTC)
	suite.service = services.NewCreditService(suite.loanRepo, suite.accountRepo,
		services.WithCreditClock(clock.FixedClock{At: suite.now}))
}

func carLoan(accountID *string) *domain.Loan {
	return &domain.Loan{
		LoanID:     "loan-1",
		UserID:     "user-1",
		AccountID:  accountID,
		Name:       "Car",
		Principal:  dec("10000"),
		AnnualRate: dec("5"),
		TermMonths: 12,
		StartDate:  day(2024, time.January, 15),
	}
}

func (suite *CreditServiceTestSuite) TestCreateLoan() {
	ctx := context.Background()
	suite.loanRepo.On("SaveLoan", ctx, mock.AnythingOfType("domain.Loan")).Return(nil).Once()

	loan, err := suite.service.CreateLoan(ctx, dto.CreateLoanRequest{
		Name:       "Car",
		Principal:  dec("10000"),
		AnnualRate: dec("5"),
		TermMonths: 12,
		StartDate:  time.Date(2024, time.January, 15, 13, 0, 0, 0, time.UTC),
	}, "user-1")
	suite.Require().NoError(err)
	suite.NotEmpty(loan.LoanID)
	suite.Equal(day(2024, time.January, 15), loan.StartDate)
	suite.Nil(loan.AccountID)
}

func (suite *CreditServiceTestSuite) TestCreateLoan_InvalidParams() {
	_, err := suite.service.CreateLoan(context.Background(), dto.CreateLoanRequest{
		Name: "Nothing", Principal: decimal.Zero, TermMonths: 12, StartDate: day(2024, 1, 1),
	}, "user-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.loanRepo.AssertNotCalled(suite.T(), "SaveLoan", mock.Anything, mock.Anything)
}

func (suite *CreditServiceTestSuite) TestCreateLoan_ForeignAccount() {
	ctx := context.Background()
	account := "acc-foreign"
	suite.accountRepo.On("FindAccountByID", ctx, account).Return(&domain.Account{AccountID: account, UserID: "user-2"}, nil).Once()

	_, err := suite.service.CreateLoan(ctx, dto.CreateLoanRequest{
		Name: "Car", AccountID: &account, Principal: dec("100"), TermMonths: 2, StartDate: day(2024, 1, 1),
	}, "user-1")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CreditServiceTestSuite) TestGetLoanSchedule_Theoretical() {
	ctx := context.Background()
	suite.loanRepo.On("FindLoanByID", ctx, "loan-1").Return(carLoan(nil), nil).Once()

	sched, err := suite.service.GetLoanSchedule(ctx, "user-1", "loan-1")
	suite.Require().NoError(err)
	suite.False(sched.Hybrid)
	suite.Len(sched.Rows, 12)
	suite.True(dec("10000").Equal(sched.Summary.Capital))
	suite.Equal(6, sched.Summary.RemainingPeriods)
}

func (suite *CreditServiceTestSuite) TestGetLoanSchedule_HybridFromLinkedAccount() {
	ctx := context.Background()
	account := "acc-loan"
	suite.loanRepo.On("FindLoanByID", ctx, "loan-1").Return(carLoan(&account), nil).Once()
	suite.accountRepo.On("FindAccountByID", ctx, account).Return(&domain.Account{AccountID: account, UserID: "user-1", Balance: dec("-5000")}, nil).Once()

	sched, err := suite.service.GetLoanSchedule(ctx, "user-1", "loan-1")
	suite.Require().NoError(err)
	suite.True(sched.Hybrid)
	suite.Require().Greater(len(sched.Rows), 7)
	suite.True(dec("5000").Equal(sched.Rows[6].OpeningBalance))
}

func (suite *CreditServiceTestSuite) TestGetLoanSchedule_MissingLinkedAccountFallsBack() {
	ctx := context.Background()
	account := "acc-gone"
	suite.loanRepo.On("FindLoanByID", ctx, "loan-1").Return(carLoan(&account), nil).Once()
	suite.accountRepo.On("FindAccountByID", ctx, account).Return(nil, apperrors.ErrNotFound).Once()

	sched, err := suite.service.GetLoanSchedule(ctx, "user-1", "loan-1")
	suite.Require().NoError(err)
	suite.False(sched.Hybrid)
}

func (suite *CreditServiceTestSuite) TestGetLoan_OtherUser() {
	ctx := context.Background()
	suite.loanRepo.On("FindLoanByID", ctx, "loan-1").Return(carLoan(nil), nil).Once()

	_, err := suite.service.GetLoan(ctx, "user-2", "loan-1")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CreditServiceTestSuite) TestSimulate() {
	sim, err := suite.service.Simulate(context.Background(), dto.SimulateCreditRequest{
		Principal:     dec("1000"),
		AnnualRate:    decimal.Zero,
		TermMonths:    4,
		InsuranceRate: dec("1.2"),
	})
	suite.Require().NoError(err)
	suite.True(dec("251").Equal(sim.MonthlyPayment))
	suite.True(dec("4").Equal(sim.TotalCost))

	_, err = suite.service.Simulate(context.Background(), dto.SimulateCreditRequest{Principal: dec("-5"), TermMonths: 4})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestCreditServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CreditServiceTestSuite))
}
