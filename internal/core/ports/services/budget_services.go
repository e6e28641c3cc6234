package services

import (
	"context"
	"time"

	"github.com/SscSPs/buddyair/internal/core/domain"
	"github.com/SscSPs/buddyair/internal/dto"
)

// BudgetWriterSvc defines write operations for budgets
type BudgetWriterSvc interface {
	CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, userID string) (*domain.Budget, error)
	UpdateBudget(ctx context.Context, userID string, budgetID string, req dto.UpdateBudgetRequest) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, userID string, budgetID string) error
}

// BudgetReaderSvc defines read operations for budgets
type BudgetReaderSvc interface {
	ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error)
}

// BudgetReportingSvc defines the read-side aggregations.
type BudgetReportingSvc interface {
	// GetBudgetReport aggregates spending against every budget for one month.
	GetBudgetReport(ctx context.Context, userID string, year int, month time.Month, sortBy domain.BudgetSort) (*domain.BudgetReport, error)

	// GetBalanceSummary totals account balances and the month's cash flow.
	GetBalanceSummary(ctx context.Context, userID string, year int, month time.Month) (*domain.BalanceSummary, error)

	// CurrentPeriod is the year and month of the service clock.
	CurrentPeriod() (int, time.Month)
}

// BudgetSvcFacade combines all budget-related service interfaces
type BudgetSvcFacade interface {
	BudgetReaderSvc
	BudgetWriterSvc
	BudgetReportingSvc
}
