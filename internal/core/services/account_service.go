package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/buddyair/internal/apperrors"
	"github.com/SscSPs/buddyair/internal/core/domain"
	portsrepo "github.com/SscSPs/buddyair/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/buddyair/internal/core/ports/services"
	"github.com/SscSPs/buddyair/internal/dto"
	"github.com/SscSPs/buddyair/internal/utils/accounting"
	"github.com/SscSPs/buddyair/internal/utils/clock"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerEntryReader
}

// ServiceOption is a functional option for configuring the account service
type ServiceOption func(*accountService)

// WithLedgerReader enables balance verification against the ledger.
func WithLedgerReader(repo portsrepo.LedgerEntryReader) ServiceOption {
	return func(s *accountService) {
		s.ledgerRepo = repo
	}
}

// WithAccountClock pins the account service's notion of now.
func WithAccountClock(c clock.Clock) ServiceOption {
	return func(s *accountService) {
		s.Clock = c
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...ServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		BaseService: BaseService{Clock: clock.SystemClock{}},
		accountRepo: repo,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}

	account := domain.Account{
		AccountID:      uuid.NewString(),
		UserID:         userID,
		Name:           name,
		AccountType:    req.AccountType,
		CurrencyCode:   strings.ToUpper(req.CurrencyCode),
		InitialBalance: req.InitialBalance,
		Balance:        req.InitialBalance,
		IsActive:       true,
		AuditFields:    domain.NewAuditFields(userID, s.Now()),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("user_id", userID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("user_id", userID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		return nil, err
	}
	if err := s.AuthorizeOwner(ctx, account.UserID, userID, "account", accountID); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, userID string, limit int, offset int) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("user_id", userID))
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) VerifyBalance(ctx context.Context, userID string, accountID string) (*domain.BalanceCheck, error) {
	if s.ledgerRepo == nil {
		return nil, fmt.Errorf("balance verification is not configured")
	}
	account, err := s.GetAccountByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	// The account read above only authorizes; both sides of the comparison come from one snapshot.
	snap, err := s.ledgerRepo.BalanceSnapshot(ctx, account.AccountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to read balance snapshot", slog.String("account_id", accountID))
		return nil, err
	}

	ledgerBalance := accounting.LedgerBalance(snap.InitialBalance, snap.SignedTotal)
	check := &domain.BalanceCheck{
		AccountID:      accountID,
		StoredBalance:  snap.StoredBalance,
		LedgerBalance:  ledgerBalance,
		InitialBalance: snap.InitialBalance,
		Consistent:     snap.StoredBalance.Equal(ledgerBalance),
	}
	if !check.Consistent {
		err := fmt.Errorf("%w: account %s stores %s, ledger gives %s", apperrors.ErrBalanceInconsistency,
			accountID, snap.StoredBalance.String(), ledgerBalance.String())
		s.LogError(ctx, err, "Account balance drifted from its ledger", slog.String("account_id", accountID))
		return check, err
	}
	return check, nil
}
