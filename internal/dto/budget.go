package dto

import (
	"time"

	"github.com/SscSPs/buddyair/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest defines the data needed to create a monthly category budget.
type CreateBudgetRequest struct {
	Category string          `json:"category" binding:"required,max=100"`
	Amount   decimal.Decimal `json:"amount"`
}

// UpdateBudgetRequest changes a budget's limit.
type UpdateBudgetRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// BudgetResponse defines the data returned for a budget.
type BudgetResponse struct {
	BudgetID      string          `json:"budgetID"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ToBudgetResponse converts a domain.Budget to BudgetResponse DTO.
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		BudgetID:      b.BudgetID,
		Category:      b.Category,
		Amount:        b.Amount,
		CreatedAt:     b.CreatedAt,
		LastUpdatedAt: b.LastUpdatedAt,
	}
}

// ToBudgetResponses converts a slice of budgets.
func ToBudgetResponses(budgets []domain.Budget) []BudgetResponse {
	res := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		res[i] = ToBudgetResponse(&b)
	}
	return res
}

// ListBudgetsResponse wraps the list of budgets.
type ListBudgetsResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
}

// PeriodParams selects a calendar month (YYYY-MM); empty means the current month.
type PeriodParams struct {
	Month string `form:"month" binding:"omitempty,datetime=2006-01"`
}

// BudgetStatsParams defines query parameters for the budget report.
type BudgetStatsParams struct {
	PeriodParams
	Sort domain.BudgetSort `form:"sort" binding:"omitempty,oneof=progress-desc spent-desc amount-desc category"`
}
