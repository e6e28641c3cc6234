package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan represents a row of the loans table.
type Loan struct {
	LoanID         string           `db:"loan_id"`
	UserID         string           `db:"user_id"`
	AccountID      *string          `db:"account_id"`
	Name           string           `db:"name"`
	Principal      decimal.Decimal  `db:"principal"`
	AnnualRate     decimal.Decimal  `db:"annual_rate"`
	TermMonths     int              `db:"term_months"`
	StartDate      time.Time        `db:"start_date"`
	InsuranceRate  decimal.Decimal  `db:"insurance_rate"`
	InsuranceFixed decimal.Decimal  `db:"insurance_fixed"`
	MonthlyPayment *decimal.Decimal `db:"monthly_payment"`
	AuditFields
}
