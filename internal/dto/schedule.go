package dto

import (
	"time"

	"github.com/SscSPs/buddyair/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRuleRequest defines the data needed to create a recurrence rule.
type CreateRuleRequest struct {
	AccountID         string           `json:"accountID" binding:"required"`
	Direction         domain.Direction `json:"direction" binding:"required,oneof=income expense"`
	Amount            decimal.Decimal  `json:"amount"`
	Description       string           `json:"description" binding:"max=255"`
	Category          string           `json:"category" binding:"max=100"`
	SubCategory       string           `json:"subCategory" binding:"max=100"`
	PaymentMethod     string           `json:"paymentMethod" binding:"max=50"` // Optional, defaults to direct_debit
	Frequency         domain.Frequency `json:"frequency" binding:"required,oneof=monthly bimonthly quarterly semiannual yearly"`
	DayOfMonth        int              `json:"dayOfMonth" binding:"required,min=1,max=31"`
	ShiftWeekends     bool             `json:"shiftWeekends"`
	StartDate         time.Time        `json:"startDate" binding:"required"`
	EndDate           *time.Time       `json:"endDate"`
	TransferAccountID *string          `json:"transferAccountID"`
}

// UpdateRuleRequest defines the fields of a rule that may change.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateRuleRequest struct {
	Amount        *decimal.Decimal  `json:"amount"`
	Description   *string           `json:"description" binding:"omitempty,max=255"`
	Category      *string           `json:"category" binding:"omitempty,max=100"`
	SubCategory   *string           `json:"subCategory" binding:"omitempty,max=100"`
	PaymentMethod *string           `json:"paymentMethod" binding:"omitempty,max=50"`
	Frequency     *domain.Frequency `json:"frequency" binding:"omitempty,oneof=monthly bimonthly quarterly semiannual yearly"`
	DayOfMonth    *int              `json:"dayOfMonth" binding:"omitempty,min=1,max=31"`
	ShiftWeekends *bool             `json:"shiftWeekends"`
	EndDate       *time.Time        `json:"endDate"`
	ClearEndDate  bool              `json:"clearEndDate"`
	IsActive      *bool             `json:"isActive"`
}

// RuleResponse defines the data returned for a recurrence rule.
type RuleResponse struct {
	RuleID            string           `json:"ruleID"`
	AccountID         string           `json:"accountID"`
	Direction         domain.Direction `json:"direction"`
	Amount            decimal.Decimal  `json:"amount"`
	Description       string           `json:"description"`
	Category          string           `json:"category"`
	SubCategory       string           `json:"subCategory"`
	PaymentMethod     string           `json:"paymentMethod"`
	Frequency         domain.Frequency `json:"frequency"`
	DayOfMonth        int              `json:"dayOfMonth"`
	ShiftWeekends     bool             `json:"shiftWeekends"`
	StartDate         time.Time        `json:"startDate"`
	NextDate          time.Time        `json:"nextDate"`
	EndDate           *time.Time       `json:"endDate,omitempty"`
	TransferAccountID *string          `json:"transferAccountID,omitempty"`
	IsActive          bool             `json:"isActive"`
	CreatedAt         time.Time        `json:"createdAt"`
	CreatedBy         string           `json:"createdBy"`
	LastUpdatedAt     time.Time        `json:"lastUpdatedAt"`
	LastUpdatedBy     string           `json:"lastUpdatedBy"`
}

// ToRuleResponse converts a domain.RecurrenceRule to RuleResponse DTO
func ToRuleResponse(r *domain.RecurrenceRule) RuleResponse {
	return RuleResponse{
		RuleID:            r.RuleID,
		AccountID:         r.AccountID,
		Direction:         r.Direction,
		Amount:            r.Amount,
		Description:       r.Description,
		Category:          r.Category,
		SubCategory:       r.SubCategory,
		PaymentMethod:     r.PaymentMethod,
		Frequency:         r.Frequency,
		DayOfMonth:        r.DayOfMonth,
		ShiftWeekends:     r.ShiftWeekends,
		StartDate:         r.StartDate,
		NextDate:          r.NextDate,
		EndDate:           r.EndDate,
		TransferAccountID: r.TransferAccountID,
		IsActive:          r.IsActive,
		CreatedAt:         r.CreatedAt,
		CreatedBy:         r.CreatedBy,
		LastUpdatedAt:     r.LastUpdatedAt,
		LastUpdatedBy:     r.LastUpdatedBy,
	}
}

// ToRuleResponses converts a slice of rules.
func ToRuleResponses(rules []domain.RecurrenceRule) []RuleResponse {
	res := make([]RuleResponse, len(rules))
	for i, r := range rules {
		res[i] = ToRuleResponse(&r)
	}
	return res
}

// ListRulesResponse wraps the list of rules.
type ListRulesResponse struct {
	Rules []RuleResponse `json:"rules"`
}

// GenerateParams defines query parameters for a generation run.
type GenerateParams struct {
	Horizon string `form:"horizon" binding:"omitempty,datetime=2006-01-02"` // Defaults to the end of the current month
}

// RuleFailureResponse describes one rule that failed during generation.
type RuleFailureResponse struct {
	RuleID string `json:"ruleID"`
	Error  string `json:"error"`
}

// GenerationResponse defines the data returned by a generation run.
type GenerationResponse struct {
	Horizon        time.Time             `json:"horizon"`
	RulesProcessed int                   `json:"rulesProcessed"`
	Occurrences    int                   `json:"occurrences"`
	Created        int                   `json:"created"`
	Failed         []RuleFailureResponse `json:"failed"`
}

// ToGenerationResponse converts a domain.GenerationResult.
func ToGenerationResponse(r *domain.GenerationResult) GenerationResponse {
	failed := make([]RuleFailureResponse, 0, len(r.Failed))
	for _, f := range r.Failed {
		failed = append(failed, RuleFailureResponse{RuleID: f.RuleID, Error: f.Err.Error()})
	}
	return GenerationResponse{
		Horizon:        r.Horizon,
		RulesProcessed: r.RulesProcessed,
		Occurrences:    r.Occurrences,
		Created:        r.Created,
		Failed:         failed,
	}
}

// ForceOccurrenceRequest selects the month whose occurrence should be materialized.
type ForceOccurrenceRequest struct {
	Year  int `json:"year" binding:"required,min=1900,max=9999"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// ForceOccurrenceResponse lists the entries written for a forced occurrence.
type ForceOccurrenceResponse struct {
	RuleID         string          `json:"ruleID"`
	OccurrenceDate time.Time       `json:"occurrenceDate"`
	Entries        []EntryResponse `json:"entries"`
}

// PreviewParams defines query parameters for an occurrence preview.
type PreviewParams struct {
	Count int `form:"count,default=6" binding:"min=1,max=120"`
}

// OccurrencePreviewResponse lists upcoming occurrence dates of a rule.
type OccurrencePreviewResponse struct {
	RuleID      string      `json:"ruleID"`
	Occurrences []time.Time `json:"occurrences"`
}
