package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/buddyair/internal/apperrors"
	"github.com/SscSPs/buddyair/internal/core/domain"
	portsrepo "github.com/SscSPs/buddyair/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/buddyair/internal/core/ports/services"
	"github.com/SscSPs/buddyair/internal/dto"
	"github.com/SscSPs/buddyair/internal/utils/clock"
	"github.com/SscSPs/buddyair/internal/utils/credit"
	"github.com/google/uuid"
)

type creditService struct {
	BaseService
	loanRepo    portsrepo.LoanRepositoryFacade
	accountRepo portsrepo.AccountReader
}

// CreditServiceOption is a functional option for configuring the credit service
type CreditServiceOption func(*creditService)

// WithCreditClock pins the credit service's notion of now.
func WithCreditClock(c clock.Clock) CreditServiceOption {
	return func(s *creditService) {
		s.Clock = c
	}
}

// NewCreditService creates the loan and simulation service.
func NewCreditService(loanRepo portsrepo.LoanRepositoryFacade, accountRepo portsrepo.AccountReader, options ...CreditServiceOption) portssvc.CreditSvcFacade {
	svc := &creditService{
		BaseService: BaseService{Clock: clock.SystemClock{}},
		loanRepo:    loanRepo,
		accountRepo: accountRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CreditSvcFacade = (*creditService)(nil)

func (s *creditService) CreateLoan(ctx context.Context, req dto.CreateLoanRequest, userID string) (*domain.Loan, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: loan name is required", apperrors.ErrValidation)
	}

	loan := domain.Loan{
		LoanID:         uuid.NewString(),
		UserID:         userID,
		AccountID:      nonEmpty(req.AccountID),
		Name:           name,
		Principal:      req.Principal,
		AnnualRate:     req.AnnualRate,
		TermMonths:     req.TermMonths,
		StartDate:      dateOnly(req.StartDate),
		InsuranceRate:  req.InsuranceRate,
		InsuranceFixed: req.InsuranceFixed,
		MonthlyPayment: req.MonthlyPayment,
		AuditFields:    domain.NewAuditFields(userID, s.Now()),
	}
	if err := credit.ValidateParams(loan.Params()); err != nil {
		return nil, err
	}

	if loan.AccountID != nil {
		account, err := s.accountRepo.FindAccountByID(ctx, *loan.AccountID)
		if err != nil {
			return nil, err
		}
		if err := s.AuthorizeOwner(ctx, account.UserID, userID, "account", account.AccountID); err != nil {
			return nil, err
		}
	}

	if err := s.loanRepo.SaveLoan(ctx, loan); err != nil {
		s.LogError(ctx, err, "Failed to save loan", slog.String("loan_id", loan.LoanID))
		return nil, err
	}
	s.LogInfo(ctx, "Loan created", slog.String("loan_id", loan.LoanID), slog.String("user_id", userID))
	return &loan, nil
}

func (s *creditService) GetLoan(ctx context.Context, userID string, loanID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find loan", slog.String("loan_id", loanID))
		return nil, err
	}
	if err := s.AuthorizeOwner(ctx, loan.UserID, userID, "loan", loanID); err != nil {
		return nil, err
	}
	return loan, nil
}

func (s *creditService) ListLoans(ctx context.Context, userID string) ([]domain.Loan, error) {
	loans, err := s.loanRepo.ListLoansByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list loans", slog.String("user_id", userID))
		return nil, err
	}
	return loans, nil
}

func (s *creditService) GetLoanSchedule(ctx context.Context, userID string, loanID string) (*domain.LoanSchedule, error) {
	loan, err := s.GetLoan(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}

	params := loan.Params()
	if loan.AccountID != nil {
		account, err := s.accountRepo.FindAccountByID(ctx, *loan.AccountID)
		switch {
		case err == nil:
			balance := account.Balance
			params.ActualOutstandingBalance = &balance
		case errors.Is(err, apperrors.ErrNotFound):
			// Linked account is gone; fall back to the theoretical schedule.
			s.LogDebug(ctx, "Linked loan account not found", slog.String("loan_id", loanID))
		default:
			return nil, err
		}
	}

	now := s.Now()
	rows, err := credit.ComputeSchedule(params, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute loan schedule", slog.String("loan_id", loanID))
		return nil, err
	}

	return &domain.LoanSchedule{
		Loan:    *loan,
		Hybrid:  params.ActualOutstandingBalance != nil,
		Rows:    rows,
		Summary: credit.ComputeSummary(rows, loan.Principal),
	}, nil
}

func (s *creditService) Simulate(ctx context.Context, req dto.SimulateCreditRequest) (*domain.CreditSimulation, error) {
	sim, err := credit.Simulate(domain.LoanParams{
		Principal:      req.Principal,
		AnnualRate:     req.AnnualRate,
		TermMonths:     req.TermMonths,
		StartDate:      dateOnly(s.Now()),
		InsuranceRate:  req.InsuranceRate,
		InsuranceFixed: req.InsuranceFixed,
	})
	if err != nil {
		s.LogDebug(ctx, "Rejected credit simulation", slog.String("error", err.Error()))
		return nil, err
	}
	return &sim, nil
}
