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
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo   *MockAccountRepository
	ledgerRepo *MockLedgerRepository
	now        time.Time
	service    portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.ledgerRepo = new(MockLedgerRepository)
	suite.now = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	suite.service = services.NewAccountService(suite.mockRepo,
		services.WithLedgerReader(suite.ledgerRepo),
		services.WithAccountClock(clock.FixedClock{At: suite.now}))
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Name:           "Joint checking",
		AccountType:    domain.Checking,
		CurrencyCode:   "eur",
		InitialBalance: dec("1200.50"),
	}

	// Expect SaveAccount to be called once
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	createdAccount, err := suite.service.CreateAccount(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(createdAccount)
	suite.NotEmpty(createdAccount.AccountID)
	suite.Equal(req.Name, createdAccount.Name)
	suite.Equal("EUR", createdAccount.CurrencyCode)
	suite.True(createdAccount.Balance.Equal(req.InitialBalance))
	suite.True(createdAccount.IsActive)
	suite.Equal(creatorUserID, createdAccount.UserID)
	suite.Equal(creatorUserID, createdAccount.CreatedBy)
	suite.Equal(suite.now, createdAccount.CreatedAt)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SaveError() {
	ctx := context.Background()
	expectedErr := assert.AnError // Simulate a repository error
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(expectedErr).Once()

	createdAccount, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{
		Name: "Wallet", AccountType: domain.Cash, CurrencyCode: "USD",
	}, "user-1")

	suite.Require().Error(err)
	suite.Nil(createdAccount)
	suite.ErrorIs(err, expectedErr)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownType() {
	_, err := suite.service.CreateAccount(context.Background(), dto.CreateAccountRequest{
		Name: "Odd", AccountType: domain.AccountType("crypto"), CurrencyCode: "USD",
	}, "user-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_OtherUserIsHidden() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "acc-1").Return(&domain.Account{AccountID: "acc-1", UserID: "user-2"}, nil).Once()

	account, err := suite.service.GetAccountByID(ctx, "user-1", "acc-1")
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(account)
}

func (suite *AccountServiceTestSuite) TestVerifyBalance_Consistent() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "acc-1").Return(&domain.Account{
		AccountID: "acc-1", UserID: "user-1", InitialBalance: dec("100"), Balance: dec("40"),
	}, nil).Once()
	suite.ledgerRepo.On("BalanceSnapshot", ctx, "acc-1").Return(domain.BalanceSnapshot{
		StoredBalance: dec("40"), InitialBalance: dec("100"), SignedTotal: dec("-60"),
	}, nil).Once()

	check, err := suite.service.VerifyBalance(ctx, "user-1", "acc-1")
	suite.Require().NoError(err)
	suite.True(check.Consistent)
	suite.True(dec("40").Equal(check.LedgerBalance))
}

func (suite *AccountServiceTestSuite) TestVerifyBalance_Drift() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "acc-1").Return(&domain.Account{
		AccountID: "acc-1", UserID: "user-1", InitialBalance: dec("100"), Balance: dec("55"),
	}, nil).Once()
	suite.ledgerRepo.On("BalanceSnapshot", ctx, "acc-1").Return(domain.BalanceSnapshot{
		StoredBalance: dec("55"), InitialBalance: dec("100"), SignedTotal: dec("-60"),
	}, nil).Once()

	check, err := suite.service.VerifyBalance(ctx, "user-1", "acc-1")
	suite.ErrorIs(err, apperrors.ErrBalanceInconsistency)
	suite.Require().NotNil(check)
	suite.False(check.Consistent)
	suite.True(dec("55").Equal(check.StoredBalance))
}

func (suite *AccountServiceTestSuite) TestVerifyBalance_ComparesSnapshotNotAccountRead() {
	ctx := context.Background()
	// A generator commit landed between the ownership read and the snapshot.
	suite.mockRepo.On("FindAccountByID", ctx, "acc-1").Return(&domain.Account{
		AccountID: "acc-1", UserID: "user-1", InitialBalance: dec("100"), Balance: dec("40"),
	}, nil).Once()
	suite.ledgerRepo.On("BalanceSnapshot", ctx, "acc-1").Return(domain.BalanceSnapshot{
		StoredBalance: dec("-10"), InitialBalance: dec("100"), SignedTotal: dec("-110"),
	}, nil).Once()

	check, err := suite.service.VerifyBalance(ctx, "user-1", "acc-1")
	suite.Require().NoError(err)
	suite.True(check.Consistent)
	suite.True(dec("-10").Equal(check.StoredBalance))
	suite.True(dec("-10").Equal(check.LedgerBalance))
}

func (suite *AccountServiceTestSuite) TestVerifyBalance_SnapshotError() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "acc-1").Return(&domain.Account{AccountID: "acc-1", UserID: "user-1"}, nil).Once()
	suite.ledgerRepo.On("BalanceSnapshot", ctx, "acc-1").Return(domain.BalanceSnapshot{}, assert.AnError).Once()

	check, err := suite.service.VerifyBalance(ctx, "user-1", "acc-1")
	suite.Error(err)
	suite.Nil(check)
}

func (suite *AccountServiceTestSuite) TestListAccounts() {
	ctx := context.Background()
	suite.mockRepo.On("ListAccountsByUser", ctx, "user-1", 20, 0).Return([]domain.Account{{AccountID: "acc-1"}}, nil).Once()

	accounts, err := suite.service.ListAccounts(ctx, "user-1", 20, 0)
	suite.Require().NoError(err)
	suite.Len(accounts, 1)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
