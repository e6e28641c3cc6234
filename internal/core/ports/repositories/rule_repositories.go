package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/buddyair/internal/core/domain"
)

// RecurrenceRuleReader defines read operations for recurrence rules
type RecurrenceRuleReader interface {
	// FindRuleByID retrieves a rule by its unique identifier.
	FindRuleByID(ctx context.Context, ruleID string) (*domain.RecurrenceRule, error)

	// ListRulesByUser retrieves every rule of a user, active or not, ordered by next date.
	ListRulesByUser(ctx context.Context, userID string) ([]domain.RecurrenceRule, error)

	// ListDueRules retrieves the user's active rules whose next date is on or before the horizon.
	ListDueRules(ctx context.Context, userID string, horizon time.Time) ([]domain.RecurrenceRule, error)
}

// RecurrenceRuleWriter defines write operations for recurrence rules
type RecurrenceRuleWriter interface {
	// SaveRule persists a new rule.
	SaveRule(ctx context.Context, rule domain.RecurrenceRule) error

	// UpdateRule updates a rule's definition. The stored next date is never moved backward.
	UpdateRule(ctx context.Context, rule domain.RecurrenceRule) error

	// DeleteRule removes a rule. Entries it produced are kept and lose their rule reference.
	DeleteRule(ctx context.Context, ruleID string) error
}

// OccurrenceMaterializer writes generator output.
type OccurrenceMaterializer interface {
	// MaterializeOccurrence inserts the occurrence's entries (skipping ones whose dedup key already exists),
	// applies their balance deltas and moves the rule pointer in one transaction.
	// It returns the number of entries actually inserted. A pointer that no longer matches
	// m.ExpectedNextDate yields apperrors.ErrConflict and writes nothing.
	MaterializeOccurrence(ctx context.Context, m domain.Materialization) (int, error)
}

// RecurrenceRuleRepositoryFacade combines all rule-related repository interfaces
type RecurrenceRuleRepositoryFacade interface {
	RecurrenceRuleReader
	RecurrenceRuleWriter
	OccurrenceMaterializer
}
