package models

import (
	"github.com/shopspring/decimal"
)

// AccountType is the stored account type.
type AccountType string

// Account represents a row of the accounts table.
type Account struct {
	AccountID      string          `db:"account_id"`
	UserID         string          `db:"user_id"`
	Name           string          `db:"name"`
	AccountType    AccountType     `db:"account_type"`
	CurrencyCode   string          `db:"currency_code"`
	InitialBalance decimal.Decimal `db:"initial_balance"`
	Balance        decimal.Decimal `db:"current_balance"` // persisted running balance
	IsActive       bool            `db:"is_active"`
	AuditFields
}
