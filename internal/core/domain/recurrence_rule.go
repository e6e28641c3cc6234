package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/buddyair/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Direction is the sign of a money movement from the owning account's point of view.
type Direction string

const (
	Income  Direction = "income"
	Expense Direction = "expense"
)

// IsValid reports whether d is income or expense.
func (d Direction) IsValid() bool {
	return d == Income || d == Expense
}

// Opposite returns the mirrored direction used for the receiving leg of a transfer.
func (d Direction) Opposite() Direction {
	if d == Income {
		return Expense
	}
	return Income
}

// Frequency is the cadence of a recurrence rule.
type Frequency string

const (
	Monthly    Frequency = "monthly"
	Bimonthly  Frequency = "bimonthly"
	Quarterly  Frequency = "quarterly"
	Semiannual Frequency = "semiannual"
	Yearly     Frequency = "yearly"
)

// StepMonths returns the number of calendar months between two occurrences, or 0 for an unknown frequency.
func (f Frequency) StepMonths() int {
	switch f {
	case Monthly:
		return 1
	case Bimonthly:
		return 2
	case Quarterly:
		return 3
	case Semiannual:
		return 6
	case Yearly:
		return 12
	}
	return 0
}

// IsValid reports whether f is a supported frequency.
func (f Frequency) IsValid() bool {
	return f.StepMonths() > 0
}

// RecurrenceRule describes a repeating money movement that the generator materializes into ledger entries.
// NextDate is the earliest occurrence not yet materialized.
type RecurrenceRule struct {
	RuleID            string          `json:"ruleID" validate:"required"`
	UserID            string          `json:"userID" validate:"required"`
	AccountID         string          `json:"accountID" validate:"required"`
	Direction         Direction       `json:"direction" validate:"required,oneof=income expense"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description" validate:"max=255"`
	Category          string          `json:"category" validate:"max=100"`
	SubCategory       string          `json:"subCategory" validate:"max=100"`
	PaymentMethod     string          `json:"paymentMethod" validate:"max=50"`
	Frequency         Frequency       `json:"frequency" validate:"required,oneof=monthly bimonthly quarterly semiannual yearly"`
	DayOfMonth        int             `json:"dayOfMonth" validate:"min=1,max=31"`
	ShiftWeekends     bool            `json:"shiftWeekends"`
	StartDate         time.Time       `json:"startDate" validate:"required"`
	NextDate          time.Time       `json:"nextDate" validate:"required"`
	EndDate           *time.Time      `json:"endDate,omitempty"`
	TransferAccountID *string         `json:"transferAccountID,omitempty"`
	IsActive          bool            `json:"isActive"`
	AuditFields
}

// IsTransfer reports whether every occurrence also produces a mirrored entry on a second account.
func (r RecurrenceRule) IsTransfer() bool {
	return r.TransferAccountID != nil && *r.TransferAccountID != ""
}

// Validate checks the rule's structural invariants. Every failure wraps apperrors.ErrInvalidRule.
func (r RecurrenceRule) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidRule, validationMessage(err))
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrInvalidRule)
	}
	if r.NextDate.Before(dateOf(r.StartDate)) {
		return fmt.Errorf("%w: next date %s precedes start date %s", apperrors.ErrInvalidRule,
			r.NextDate.Format(time.DateOnly), r.StartDate.Format(time.DateOnly))
	}
	if r.EndDate != nil && r.EndDate.Before(dateOf(r.StartDate)) {
		return fmt.Errorf("%w: end date precedes start date", apperrors.ErrInvalidRule)
	}
	if r.IsTransfer() && *r.TransferAccountID == r.AccountID {
		return fmt.Errorf("%w: transfer account must differ from source account", apperrors.ErrInvalidRule)
	}
	return nil
}

// IsPastEnd reports whether t falls after the rule's end date, if any.
func (r RecurrenceRule) IsPastEnd(t time.Time) bool {
	return r.EndDate != nil && t.After(*r.EndDate)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
