package mapping

import (
	"github.com/SscSPs/buddyair/internal/core/domain"
	"github.com/SscSPs/buddyair/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:          d.EntryID,
		UserID:           d.UserID,
		AccountID:        d.AccountID,
		Direction:        string(d.Direction),
		Amount:           d.Amount,
		EntryDate:        d.EntryDate,
		Description:      d.Description,
		Category:         d.Category,
		SubCategory:      d.SubCategory,
		PaymentMethod:    d.PaymentMethod,
		Status:           string(d.Status),
		PointedAt:        d.PointedAt,
		IsRecurring:      d.IsRecurring,
		RecurrenceRuleID: d.RecurrenceRuleID,
		OccurrenceDate:   d.OccurrenceDate,
		RelatedEntryID:   d.RelatedEntryID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:          m.EntryID,
		UserID:           m.UserID,
		AccountID:        m.AccountID,
		Direction:        domain.Direction(m.Direction),
		Amount:           m.Amount,
		EntryDate:        m.EntryDate,
		Description:      m.Description,
		Category:         m.Category,
		SubCategory:      m.SubCategory,
		PaymentMethod:    m.PaymentMethod,
		Status:           domain.EntryStatus(m.Status),
		PointedAt:        m.PointedAt,
		IsRecurring:      m.IsRecurring,
		RecurrenceRuleID: m.RecurrenceRuleID,
		OccurrenceDate:   m.OccurrenceDate,
		RelatedEntryID:   m.RelatedEntryID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerEntrySlice converts a slice of model entries to domain entries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
