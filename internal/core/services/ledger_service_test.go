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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	ledgerRepo  *MockLedgerRepository
	accountRepo *MockAccountRepository
	now         time.Time
	service     portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.ledgerRepo = new(MockLedgerRepository)
	suite.accountRepo = new(MockAccountRepository)
	suite.now = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	suite.service = services.NewLedgerService(suite.ledgerRepo, suite.accountRepo,
		services.WithLedgerClock(clock.FixedClock{At: suite.now}))
}

func (suite *LedgerServiceTestSuite) expectAccount(id, owner string) {
	suite.accountRepo.On("FindAccountByID", mock.Anything, id).
		Return(&domain.Account{AccountID: id, UserID: owner}, nil).Once()
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_Simple() {
	ctx := context.Background()
	suite.expectAccount("acc-checking", "user-1")
	suite.ledgerRepo.On("SaveEntries", ctx, mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
		return len(entries) == 1 && entries[0].AccountID == "acc-checking"
	}), "user-1", suite.now).Return(nil).Once()

	entries, err := suite.service.CreateEntry(ctx, "user-1", "acc-checking", dto.CreateEntryRequest{
		Direction: domain.Expense,
		Amount:    dec("12.50"),
		EntryDate: time.Date(2024, time.March, 9, 18, 45, 0, 0, time.UTC),
		Category:  "Groceries ",
	})

	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	suite.Equal(domain.Pending, entries[0].Status)
	suite.Nil(entries[0].PointedAt)
	suite.Equal(day(2024, time.March, 9), entries[0].EntryDate)
	suite.Equal("Groceries", entries[0].Category)
	suite.False(entries[0].IsRecurring)
	suite.ledgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_TransferWritesMirror() {
	ctx := context.Background()
	savings := "acc-savings"
	suite.expectAccount("acc-checking", "user-1")
	suite.expectAccount(savings, "user-1")
	suite.ledgerRepo.On("SaveEntries", ctx, mock.AnythingOfType("[]domain.LedgerEntry"), "user-1", suite.now).Return(nil).Once()

	entries, err := suite.service.CreateEntry(ctx, "user-1", "acc-checking", dto.CreateEntryRequest{
		Direction:         domain.Expense,
		Amount:            dec("200"),
		EntryDate:         day(2024, 3, 10),
		Status:            domain.Completed,
		TransferAccountID: &savings,
	})

	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)
	suite.Equal(domain.Income, entries[1].Direction)
	suite.Equal(savings, entries[1].AccountID)
	suite.Equal(entries[1].EntryID, *entries[0].RelatedEntryID)
	suite.Equal(entries[0].EntryID, *entries[1].RelatedEntryID)
	suite.Require().NotNil(entries[0].PointedAt)
	suite.Equal(suite.now, *entries[0].PointedAt)
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_Validation() {
	ctx := context.Background()
	_, err := suite.service.CreateEntry(ctx, "user-1", "acc-checking", dto.CreateEntryRequest{
		Direction: domain.Expense, Amount: dec("-1"), EntryDate: day(2024, 3, 1),
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.CreateEntry(ctx, "user-1", "acc-checking", dto.CreateEntryRequest{
		Direction: domain.Direction("sideways"), Amount: dec("1"), EntryDate: day(2024, 3, 1),
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ledgerRepo.AssertNotCalled(suite.T(), "SaveEntries", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_ForeignAccount() {
	ctx := context.Background()
	suite.expectAccount("acc-foreign", "user-2")

	_, err := suite.service.CreateEntry(ctx, "user-1", "acc-foreign", dto.CreateEntryRequest{
		Direction: domain.Income, Amount: dec("1"), EntryDate: day(2024, 3, 1),
	})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestDeleteEntry_RemovesMirror() {
	ctx := context.Background()
	mirrorID := "entry-mirror"
	suite.ledgerRepo.On("FindEntryByID", ctx, "entry-1").Return(&domain.LedgerEntry{
		EntryID: "entry-1", UserID: "user-1", RelatedEntryID: &mirrorID,
	}, nil).Once()
	suite.ledgerRepo.On("DeleteEntries", ctx, []string{"entry-1", mirrorID}, "user-1", suite.now).Return(nil).Once()

	suite.Require().NoError(suite.service.DeleteEntry(ctx, "user-1", "entry-1"))
	suite.ledgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestSetEntryStatus_Completed() {
	ctx := context.Background()
	suite.ledgerRepo.On("FindEntryByID", ctx, "entry-1").Return(&domain.LedgerEntry{
		EntryID: "entry-1", UserID: "user-1", Status: domain.Pending,
	}, nil).Once()
	suite.ledgerRepo.On("UpdateEntryStatus", ctx, []string{"entry-1"}, domain.Completed, &suite.now, "user-1", suite.now).Return(nil).Once()

	entry, err := suite.service.SetEntryStatus(ctx, "user-1", "entry-1", domain.Completed)
	suite.Require().NoError(err)
	suite.Equal(domain.Completed, entry.Status)
	suite.Require().NotNil(entry.PointedAt)
	suite.ledgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestSetEntryStatus_BackToPendingClearsPointedAt() {
	ctx := context.Background()
	pointed := suite.now.Add(-time.Hour)
	suite.ledgerRepo.On("FindEntryByID", ctx, "entry-1").Return(&domain.LedgerEntry{
		EntryID: "entry-1", UserID: "user-1", Status: domain.Completed, PointedAt: &pointed,
	}, nil).Once()
	suite.ledgerRepo.On("UpdateEntryStatus", ctx, []string{"entry-1"}, domain.Pending, (*time.Time)(nil), "user-1", suite.now).Return(nil).Once()

	entry, err := suite.service.SetEntryStatus(ctx, "user-1", "entry-1", domain.Pending)
	suite.Require().NoError(err)
	suite.Nil(entry.PointedAt)
}

func (suite *LedgerServiceTestSuite) TestListEntriesByAccount() {
	ctx := context.Background()
	token := "next"
	suite.expectAccount("acc-checking", "user-1")
	suite.ledgerRepo.On("ListEntriesByAccount", ctx, "acc-checking", 20, (*string)(nil)).
		Return([]domain.LedgerEntry{{EntryID: "entry-1"}}, &token, nil).Once()

	entries, next, err := suite.service.ListEntriesByAccount(ctx, "user-1", "acc-checking", dto.ListEntriesParams{Limit: 20})
	suite.Require().NoError(err)
	suite.Len(entries, 1)
	suite.Equal(&token, next)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
