package mapping

import (
	"github.com/SscSPs/buddyair/internal/core/domain"
	"github.com/SscSPs/buddyair/internal/models"
)

// ToModelRecurrenceRule converts a domain RecurrenceRule to a model RecurrenceRule
func ToModelRecurrenceRule(d domain.RecurrenceRule) models.RecurrenceRule {
	return models.RecurrenceRule{
		RuleID:            d.RuleID,
		UserID:            d.UserID,
		AccountID:         d.AccountID,
		Direction:         string(d.Direction),
		Amount:            d.Amount,
		Description:       d.Description,
		Category:          d.Category,
		SubCategory:       d.SubCategory,
		PaymentMethod:     d.PaymentMethod,
		Frequency:         string(d.Frequency),
		DayOfMonth:        d.DayOfMonth,
		ShiftWeekends:     d.ShiftWeekends,
		StartDate:         d.StartDate,
		NextDate:          d.NextDate,
		EndDate:           d.EndDate,
		TransferAccountID: d.TransferAccountID,
		IsActive:          d.IsActive,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRecurrenceRule converts a model RecurrenceRule to a domain RecurrenceRule
func ToDomainRecurrenceRule(m models.RecurrenceRule) domain.RecurrenceRule {
	return domain.RecurrenceRule{
		RuleID:            m.RuleID,
		UserID:            m.UserID,
		AccountID:         m.AccountID,
		Direction:         domain.Direction(m.Direction),
		Amount:            m.Amount,
		Description:       m.Description,
		Category:          m.Category,
		SubCategory:       m.SubCategory,
		PaymentMethod:     m.PaymentMethod,
		Frequency:         domain.Frequency(m.Frequency),
		DayOfMonth:        m.DayOfMonth,
		ShiftWeekends:     m.ShiftWeekends,
		StartDate:         m.StartDate,
		NextDate:          m.NextDate,
		EndDate:           m.EndDate,
		TransferAccountID: m.TransferAccountID,
		IsActive:          m.IsActive,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainRecurrenceRuleSlice converts a slice of model rules to domain rules
func ToDomainRecurrenceRuleSlice(ms []models.RecurrenceRule) []domain.RecurrenceRule {
	ds := make([]domain.RecurrenceRule, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainRecurrenceRule(m)
	}
	return ds
}
