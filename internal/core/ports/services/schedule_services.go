package services

import (
	"context"
	"time"

	"github.com/SscSPs/buddyair/internal/core/domain"
	"github.com/SscSPs/buddyair/internal/dto"
)

// ScheduleGeneratorSvc materializes recurrence rules into ledger entries.
type ScheduleGeneratorSvc interface {
	// GenerateDue materializes every occurrence due on or before horizon for the user's active rules.
	// Per-rule failures are collected in the result; result.Err() reports them.
	GenerateDue(ctx context.Context, userID string, horizon time.Time) (*domain.GenerationResult, error)

	// DefaultHorizon is the end of the current calendar month.
	DefaultHorizon() time.Time

	// ForceOccurrence materializes the rule's occurrence in the given month without moving its next date.
	ForceOccurrence(ctx context.Context, userID string, ruleID string, year int, month time.Month) ([]domain.LedgerEntry, error)
}

// RecurrenceRuleReaderSvc defines read operations for recurrence rules
type RecurrenceRuleReaderSvc interface {
	GetRule(ctx context.Context, userID string, ruleID string) (*domain.RecurrenceRule, error)
	ListRules(ctx context.Context, userID string) ([]domain.RecurrenceRule, error)

	// PreviewOccurrences projects the next count occurrences starting from the rule's next date.
	PreviewOccurrences(ctx context.Context, userID string, ruleID string, count int) ([]time.Time, error)
}

// RecurrenceRuleWriterSvc defines write operations for recurrence rules
type RecurrenceRuleWriterSvc interface {
	CreateRule(ctx context.Context, req dto.CreateRuleRequest, userID string) (*domain.RecurrenceRule, error)
	UpdateRule(ctx context.Context, userID string, ruleID string, req dto.UpdateRuleRequest) (*domain.RecurrenceRule, error)
	DeleteRule(ctx context.Context, userID string, ruleID string) error
}

// RecurrenceRuleSvcFacade combines all rule-related service interfaces
type RecurrenceRuleSvcFacade interface {
	RecurrenceRuleReaderSvc
	RecurrenceRuleWriterSvc
}
