package models

import "github.com/shopspring/decimal"

// Budget represents a row of the budgets table.
type Budget struct {
	BudgetID string          `db:"budget_id"`
	UserID   string          `db:"user_id"`
	Category string          `db:"category"`
	Amount   decimal.Decimal `db:"amount"`
	AuditFields
}
