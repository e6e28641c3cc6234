package domain

import (
	"github.com/shopspring/decimal"
)

// Budget is a monthly spending limit for one expense category.
type Budget struct {
	BudgetID string          `json:"budgetID"`
	UserID   string          `json:"userID"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	AuditFields
}
