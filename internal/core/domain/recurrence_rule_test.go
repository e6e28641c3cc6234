package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/buddyair/internal/apperrors"
	"github.com/SscSPs/buddyair/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func stringPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func validRule() domain.RecurrenceRule {
	start := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	return domain.RecurrenceRule{
		RuleID:     "rule-1",
		UserID:     "user-1",
		AccountID:  "acc-1",
		Direction:  domain.Expense,
		Amount:     decimal.NewFromInt(50),
		Frequency:  domain.Monthly,
		DayOfMonth: 5,
		StartDate:  start,
		NextDate:   start,
		IsActive:   true,
	}
}

func TestRecurrenceRule_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *domain.RecurrenceRule)
		wantErr bool
	}{
		{name: "valid rule", mutate: func(r *domain.RecurrenceRule) {}},
		{name: "valid transfer", mutate: func(r *domain.RecurrenceRule) { r.TransferAccountID = stringPtr("acc-2") }},
		{name: "unknown frequency", mutate: func(r *domain.RecurrenceRule) { r.Frequency = "weekly" }, wantErr: true},
		{name: "day 32", mutate: func(r *domain.RecurrenceRule) { r.DayOfMonth = 32 }, wantErr: true},
		{name: "day 0", mutate: func(r *domain.RecurrenceRule) { r.DayOfMonth = 0 }, wantErr: true},
		{name: "zero amount", mutate: func(r *domain.RecurrenceRule) { r.Amount = decimal.Zero }, wantErr: true},
		{name: "unknown direction", mutate: func(r *domain.RecurrenceRule) { r.Direction = "sideways" }, wantErr: true},
		{name: "next before start", mutate: func(r *domain.RecurrenceRule) { r.NextDate = r.StartDate.AddDate(0, 0, -1) }, wantErr: true},
		{name: "end before start", mutate: func(r *domain.RecurrenceRule) { r.EndDate = timePtr(r.StartDate.AddDate(0, -1, 0)) }, wantErr: true},
		{name: "transfer to itself", mutate: func(r *domain.RecurrenceRule) { r.TransferAccountID = stringPtr("acc-1") }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := validRule()
			tt.mutate(&rule)
			err := rule.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrInvalidRule)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestRecurrenceRule_IsPastEnd(t *testing.T) {
	rule := validRule()
	assert.False(t, rule.IsPastEnd(time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)), "open-ended rule never ends")

	rule.EndDate = timePtr(time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC))
	assert.False(t, rule.IsPastEnd(time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC)), "end date is inclusive")
	assert.True(t, rule.IsPastEnd(time.Date(2024, time.June, 6, 0, 0, 0, 0, time.UTC)))
}

func TestFrequency_StepMonths(t *testing.T) {
	assert.Equal(t, 1, domain.Monthly.StepMonths())
	assert.Equal(t, 2, domain.Bimonthly.StepMonths())
	assert.Equal(t, 3, domain.Quarterly.StepMonths())
	assert.Equal(t, 6, domain.Semiannual.StepMonths())
	assert.Equal(t, 12, domain.Yearly.StepMonths())
	assert.Equal(t, 0, domain.Frequency("weekly").StepMonths())
	assert.False(t, domain.Frequency("weekly").IsValid())
}

func TestDirection_Opposite(t *testing.T) {
	assert.Equal(t, domain.Income, domain.Expense.Opposite())
	assert.Equal(t, domain.Expense, domain.Income.Opposite())
}
