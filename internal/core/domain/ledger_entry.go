package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus tracks whether an entry has been reconciled against the bank statement.
type EntryStatus string

const (
	Pending   EntryStatus = "pending"
	Completed EntryStatus = "completed"
)

// IsValid reports whether s is a known status.
func (s EntryStatus) IsValid() bool {
	return s == Pending || s == Completed
}

// LedgerEntry is a single dated money movement on one account.
// Entries produced by the generator carry RecurrenceRuleID and OccurrenceDate, which together with
// AccountID form the deduplication key. Transfer legs reference each other through RelatedEntryID.
type LedgerEntry struct {
	EntryID          string          `json:"entryID"`
	UserID           string          `json:"userID"`
	AccountID        string          `json:"accountID"`
	Direction        Direction       `json:"direction"`
	Amount           decimal.Decimal `json:"amount"` // always positive; sign comes from Direction
	EntryDate        time.Time       `json:"entryDate"`
	Description      string          `json:"description"`
	Category         string          `json:"category"`
	SubCategory      string          `json:"subCategory"`
	PaymentMethod    string          `json:"paymentMethod"`
	Status           EntryStatus     `json:"status"`
	PointedAt        *time.Time      `json:"pointedAt,omitempty"`
	IsRecurring      bool            `json:"isRecurring"`
	RecurrenceRuleID *string         `json:"recurrenceRuleID,omitempty"`
	OccurrenceDate   *time.Time      `json:"occurrenceDate,omitempty"`
	RelatedEntryID   *string         `json:"relatedEntryID,omitempty"`
	AuditFields
}

// IsTransferLeg reports whether the entry is one side of a transfer pair.
func (e LedgerEntry) IsTransferLeg() bool {
	return e.RelatedEntryID != nil && *e.RelatedEntryID != ""
}
