package dto

import (
	"time"

	"github.com/SscSPs/buddyair/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest defines the data needed to record a manual ledger entry.
type CreateEntryRequest struct {
	Direction         domain.Direction   `json:"direction" binding:"required,oneof=income expense"`
	Amount            decimal.Decimal    `json:"amount"`
	EntryDate         time.Time          `json:"entryDate" binding:"required"`
	Description       string             `json:"description" binding:"max=255"`
	Category          string             `json:"category" binding:"max=100"`
	SubCategory       string             `json:"subCategory" binding:"max=100"`
	PaymentMethod     string             `json:"paymentMethod" binding:"max=50"`
	Status            domain.EntryStatus `json:"status" binding:"omitempty,oneof=pending completed"` // Defaults to pending
	TransferAccountID *string            `json:"transferAccountID"`                                  // Optional: mirrored entry on a second account
}

// UpdateEntryStatusRequest reconciles (or un-reconciles) an entry.
type UpdateEntryStatusRequest struct {
	Status domain.EntryStatus `json:"status" binding:"required,oneof=pending completed"`
}

// EntryResponse defines the data returned for a ledger entry.
type EntryResponse struct {
	EntryID          string             `json:"entryID"`
	AccountID        string             `json:"accountID"`
	Direction        domain.Direction   `json:"direction"`
	Amount           decimal.Decimal    `json:"amount"`
	EntryDate        time.Time          `json:"entryDate"`
	Description      string             `json:"description"`
	Category         string             `json:"category"`
	SubCategory      string             `json:"subCategory"`
	PaymentMethod    string             `json:"paymentMethod"`
	Status           domain.EntryStatus `json:"status"`
	PointedAt        *time.Time         `json:"pointedAt,omitempty"`
	IsRecurring      bool               `json:"isRecurring"`
	RecurrenceRuleID *string            `json:"recurrenceRuleID,omitempty"`
	OccurrenceDate   *time.Time         `json:"occurrenceDate,omitempty"`
	RelatedEntryID   *string            `json:"relatedEntryID,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
	CreatedBy        string             `json:"createdBy"`
}

// ToEntryResponse converts a domain.LedgerEntry to EntryResponse DTO.
func ToEntryResponse(e *domain.LedgerEntry) EntryResponse {
	return EntryResponse{
		EntryID:          e.EntryID,
		AccountID:        e.AccountID,
		Direction:        e.Direction,
		Amount:           e.Amount,
		EntryDate:        e.EntryDate,
		Description:      e.Description,
		Category:         e.Category,
		SubCategory:      e.SubCategory,
		PaymentMethod:    e.PaymentMethod,
		Status:           e.Status,
		PointedAt:        e.PointedAt,
		IsRecurring:      e.IsRecurring,
		RecurrenceRuleID: e.RecurrenceRuleID,
		OccurrenceDate:   e.OccurrenceDate,
		RelatedEntryID:   e.RelatedEntryID,
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
	}
}

// ToEntryResponses converts a slice of domain.LedgerEntry to []EntryResponse.
func ToEntryResponses(entries []domain.LedgerEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToEntryResponse(&e)
	}
	return responses
}

// ListEntriesParams defines query parameters for listing entries with token-based pagination.
type ListEntriesParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse wraps a page of entries.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// CreateEntryResponse returns the written entry and, for transfers, its mirror.
type CreateEntryResponse struct {
	Entry  EntryResponse  `json:"entry"`
	Mirror *EntryResponse `json:"mirror,omitempty"`
}
