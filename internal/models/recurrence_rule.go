package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurrenceRule represents a row of the recurrence_rules table.
type RecurrenceRule struct {
	RuleID            string          `db:"rule_id"`
	UserID            string          `db:"user_id"`
	AccountID         string          `db:"account_id"`
	Direction         string          `db:"direction"`
	Amount            decimal.Decimal `db:"amount"`
	Description       string          `db:"description"`
	Category          string          `db:"category"`
	SubCategory       string          `db:"sub_category"`
	PaymentMethod     string          `db:"payment_method"`
	Frequency         string          `db:"frequency"`
	DayOfMonth        int             `db:"day_of_month"`
	ShiftWeekends     bool            `db:"shift_weekends"`
	StartDate         time.Time       `db:"start_date"`
	NextDate          time.Time       `db:"next_date"`
	EndDate           *time.Time      `db:"end_date"`            // Nullable
	TransferAccountID *string         `db:"transfer_account_id"` // Nullable
	IsActive          bool            `db:"is_active"`
	AuditFields
}
