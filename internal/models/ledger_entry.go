package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry represents a row of the ledger_entries table.
type LedgerEntry struct {
	EntryID          string          `db:"entry_id"`
	UserID           string          `db:"user_id"`
	AccountID        string          `db:"account_id"`
	Direction        string          `db:"direction"`
	Amount           decimal.Decimal `db:"amount"`
	EntryDate        time.Time       `db:"entry_date"`
	Description      string          `db:"description"`
	Category         string          `db:"category"`
	SubCategory      string          `db:"sub_category"`
	PaymentMethod    string          `db:"payment_method"`
	Status           string          `db:"status"`
	PointedAt        *time.Time      `db:"pointed_at"`
	IsRecurring      bool            `db:"is_recurring"`
	RecurrenceRuleID *string         `db:"recurrence_rule_id"`
	OccurrenceDate   *time.Time      `db:"occurrence_date"`
	RelatedEntryID   *string         `db:"related_entry_id"`
	AuditFields
}
