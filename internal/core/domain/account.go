package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType describes what kind of money holder an account is.
type AccountType string

const (
	Checking   AccountType = "checking"
	Savings    AccountType = "savings"
	Credit     AccountType = "credit"
	Cash       AccountType = "cash"
	Investment AccountType = "investment"
)

// IsValid reports whether the account type is one of the known types.
func (t AccountType) IsValid() bool {
	switch t {
	case Checking, Savings, Credit, Cash, Investment:
		return true
	}
	return false
}

// Account represents a money holder owned by a single user.
// Balance is the persisted running balance: InitialBalance plus the signed sum of the account's ledger entries.
type Account struct {
	AccountID      string          `json:"accountID"`
	UserID         string          `json:"userID"`
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"accountType"`
	CurrencyCode   string          `json:"currencyCode"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Balance        decimal.Decimal `json:"balance"`
	IsActive       bool            `json:"isActive"`
	AuditFields
}

// BalanceCheck is the outcome of re-summing an account's ledger.
// BalanceSnapshot is an account's stored figures and its ledger sum, read at one instant.
type BalanceSnapshot struct {
	StoredBalance  decimal.Decimal
	InitialBalance decimal.Decimal
	SignedTotal    decimal.Decimal
}

type BalanceCheck struct {
	AccountID      string          `json:"accountID"`
	StoredBalance  decimal.Decimal `json:"storedBalance"`
	LedgerBalance  decimal.Decimal `json:"ledgerBalance"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Consistent     bool            `json:"consistent"`
}
