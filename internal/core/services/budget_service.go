package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/buddyair/internal/apperrors"
	"github.com/SscSPs/buddyair/internal/core/domain"
	portsrepo "github.com/SscSPs/buddyair/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/buddyair/internal/core/ports/services"
	"github.com/SscSPs/buddyair/internal/dto"
	"github.com/SscSPs/buddyair/internal/utils/budgeting"
	"github.com/SscSPs/buddyair/internal/utils/clock"
	"github.com/SscSPs/buddyair/internal/utils/schedule"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// maxSummaryAccounts bounds the accounts read for a balance summary.
const maxSummaryAccounts = 500

type budgetService struct {
	BaseService
	budgetRepo  portsrepo.BudgetRepositoryFacade
	ledgerRepo  portsrepo.LedgerEntryReader
	ruleRepo    portsrepo.RecurrenceRuleReader
	accountRepo portsrepo.AccountReader
}

// BudgetServiceOption is a functional option for configuring the budget service
type BudgetServiceOption func(*budgetService)

// WithBudgetClock pins the budget service's notion of now.
func WithBudgetClock(c clock.Clock) BudgetServiceOption {
	return func(s *budgetService) {
		s.Clock = c
	}
}

// NewBudgetService creates the budget CRUD and reporting service.
func NewBudgetService(
	budgetRepo portsrepo.BudgetRepositoryFacade,
	ledgerRepo portsrepo.LedgerEntryReader,
	ruleRepo portsrepo.RecurrenceRuleReader,
	accountRepo portsrepo.AccountReader,
	options ...BudgetServiceOption,
) portssvc.BudgetSvcFacade {
	svc := &budgetService{
		BaseService: BaseService{Clock: clock.SystemClock{}},
		budgetRepo:  budgetRepo,
		ledgerRepo:  ledgerRepo,
		ruleRepo:    ruleRepo,
		accountRepo: accountRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

func (s *budgetService) CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, userID string) (*domain.Budget, error) {
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", apperrors.ErrValidation)
	}
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: budget amount cannot be negative", apperrors.ErrValidation)
	}

	budget := domain.Budget{
		BudgetID:    uuid.NewString(),
		UserID:      userID,
		Category:    category,
		Amount:      req.Amount,
		AuditFields: domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.budgetRepo.SaveBudget(ctx, budget); err != nil {
		s.LogError(ctx, err, "Failed to save budget", slog.String("category", category))
		return nil, err
	}
	s.LogInfo(ctx, "Budget created", slog.String("budget_id", budget.BudgetID), slog.String("category", category))
	return &budget, nil
}

func (s *budgetService) UpdateBudget(ctx context.Context, userID string, budgetID string, req dto.UpdateBudgetRequest) (*domain.Budget, error) {
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: budget amount cannot be negative", apperrors.ErrValidation)
	}
	budget, err := s.ownedBudget(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	budget.Amount = req.Amount
	budget.LastUpdatedAt = s.Now()
	budget.LastUpdatedBy = userID
	if err := s.budgetRepo.UpdateBudget(ctx, *budget); err != nil {
		s.LogError(ctx, err, "Failed to update budget", slog.String("budget_id", budgetID))
		return nil, err
	}
	return budget, nil
}

func (s *budgetService) DeleteBudget(ctx context.Context, userID string, budgetID string) error {
	if _, err := s.ownedBudget(ctx, userID, budgetID); err != nil {
		return err
	}
	if err := s.budgetRepo.DeleteBudget(ctx, budgetID); err != nil {
		s.LogError(ctx, err, "Failed to delete budget", slog.String("budget_id", budgetID))
		return err
	}
	return nil
}

func (s *budgetService) ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error) {
	budgets, err := s.budgetRepo.ListBudgetsByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budgets", slog.String("user_id", userID))
		return nil, err
	}
	return budgets, nil
}

func (s *budgetService) CurrentPeriod() (int, time.Month) {
	now := s.Now()
	return now.Year(), now.Month()
}

func (s *budgetService) GetBudgetReport(ctx context.Context, userID string, year int, month time.Month, sortBy domain.BudgetSort) (*domain.BudgetReport, error) {
	if !sortBy.IsValid() {
		return nil, fmt.Errorf("%w: unknown sort key %q", apperrors.ErrValidation, sortBy)
	}
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month %d out of range", apperrors.ErrValidation, month)
	}

	periodStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := schedule.EndOfMonth(periodStart)
	previousStart := periodStart.AddDate(0, -1, 0)
	previousEnd := schedule.EndOfMonth(previousStart)

	var (
		budgets  []domain.Budget
		entries  []domain.LedgerEntry
		previous []domain.LedgerEntry
		rules    []domain.RecurrenceRule
	)

	// The four reads hit disjoint tables.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		budgets, err = s.budgetRepo.ListBudgetsByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		entries, err = s.ledgerRepo.ListEntriesByUserInRange(gctx, userID, periodStart, periodEnd)
		return err
	})
	g.Go(func() (err error) {
		previous, err = s.ledgerRepo.ListEntriesByUserInRange(gctx, userID, previousStart, previousEnd)
		return err
	})
	g.Go(func() (err error) {
		rules, err = s.ruleRepo.ListRulesByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to load budget report inputs",
			slog.String("user_id", userID),
			slog.Int("year", year),
			slog.Int("month", int(month)))
		return nil, err
	}

	report := budgeting.Aggregate(budgeting.Input{
		Year:            year,
		Month:           month,
		Now:             s.Now(),
		Budgets:         budgets,
		Entries:         entries,
		PreviousEntries: previous,
		Rules:           rules,
		SortBy:          sortBy,
	})
	return &report, nil
}

func (s *budgetService) GetBalanceSummary(ctx context.Context, userID string, year int, month time.Month) (*domain.BalanceSummary, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month %d out of range", apperrors.ErrValidation, month)
	}
	periodStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := schedule.EndOfMonth(periodStart)

	var (
		accounts []domain.Account
		entries  []domain.LedgerEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		accounts, err = s.accountRepo.ListAccountsByUser(gctx, userID, maxSummaryAccounts, 0)
		return err
	})
	g.Go(func() (err error) {
		entries, err = s.ledgerRepo.ListEntriesByUserInRange(gctx, userID, periodStart, periodEnd)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to load balance summary inputs", slog.String("user_id", userID))
		return nil, err
	}

	summary := budgeting.SummarizeBalances(accounts, entries)
	return &summary, nil
}

func (s *budgetService) ownedBudget(ctx context.Context, userID, budgetID string) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find budget", slog.String("budget_id", budgetID))
		return nil, err
	}
	if err := s.AuthorizeOwner(ctx, budget.UserID, userID, "budget", budgetID); err != nil {
		return nil, err
	}
	return budget, nil
}
