package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/buddyair/internal/apperrors"
	"github.com/SscSPs/buddyair/internal/core/domain"
	portsrepo "github.com/SscSPs/buddyair/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/buddyair/internal/core/ports/services"
	"github.com/SscSPs/buddyair/internal/utils/clock"
	"github.com/SscSPs/buddyair/internal/utils/schedule"
	"github.com/google/uuid"
)

const (
	defaultPaymentMethod   = "direct_debit"
	scheduleGeneratedEvent = "schedule_generated"
)

type scheduleGeneratorService struct {
	BaseService
	ruleRepo  portsrepo.RecurrenceRuleRepositoryFacade
	analytics AnalyticsTracker
}

// GeneratorOption is a functional option for configuring the schedule generator
type GeneratorOption func(*scheduleGeneratorService)

// WithGeneratorClock pins the generator's notion of now.
func WithGeneratorClock(c clock.Clock) GeneratorOption {
	return func(s *scheduleGeneratorService) {
		s.Clock = c
	}
}

// WithGeneratorAnalytics reports each run as a schedule_generated event.
func WithGeneratorAnalytics(tracker AnalyticsTracker) GeneratorOption {
	return func(s *scheduleGeneratorService) {
		s.analytics = tracker
	}
}

// NewScheduleGeneratorService creates the generator over a rule repository that can materialize occurrences.
func NewScheduleGeneratorService(ruleRepo portsrepo.RecurrenceRuleRepositoryFacade, options ...GeneratorOption) portssvc.ScheduleGeneratorSvc {
	svc := &scheduleGeneratorService{
		BaseService: BaseService{Clock: clock.SystemClock{}},
		ruleRepo:    ruleRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ScheduleGeneratorSvc = (*scheduleGeneratorService)(nil)

func (s *scheduleGeneratorService) DefaultHorizon() time.Time {
	return endOfDay(schedule.EndOfMonth(s.Now()))
}

func (s *scheduleGeneratorService) GenerateDue(ctx context.Context, userID string, horizon time.Time) (*domain.GenerationResult, error) {
	// Rule dates are UTC midnights; a horizon in another zone would reach into the next day.
	horizon = endOfDay(horizon)
	rules, err := s.ruleRepo.ListDueRules(ctx, userID, horizon)
	if err != nil {
		s.LogError(ctx, err, "Failed to list due recurrence rules", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list due rules: %w", err)
	}

	result := &domain.GenerationResult{Horizon: horizon}
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.RulesProcessed++

		occurrences, created, err := s.generateRule(ctx, rule, horizon)
		result.Occurrences += occurrences
		result.Created += created
		if err != nil {
			s.LogError(ctx, err, "Failed to generate occurrences for rule",
				slog.String("rule_id", rule.RuleID),
				slog.String("user_id", userID))
			result.Failed = append(result.Failed, domain.RuleFailure{RuleID: rule.RuleID, Err: err})
		}
	}

	s.LogInfo(ctx, "Schedule generation finished",
		slog.String("user_id", userID),
		slog.Time("horizon", horizon),
		slog.Int("rules", result.RulesProcessed),
		slog.Int("occurrences", result.Occurrences),
		slog.Int("created", result.Created),
		slog.Int("failed", len(result.Failed)))

	if s.analytics != nil {
		s.analytics.Enqueue(userID, scheduleGeneratedEvent, map[string]any{
			"horizon":     horizon.Format(time.DateOnly),
			"rules":       result.RulesProcessed,
			"occurrences": result.Occurrences,
			"created":     result.Created,
			"failed":      len(result.Failed),
		})
	}
	return result, nil
}

// generateRule materializes the rule's due occurrences one transaction at a time.
// A conflict means a concurrent run already moved the pointer; the rule is left to it.
func (s *scheduleGeneratorService) generateRule(ctx context.Context, rule domain.RecurrenceRule, horizon time.Time) (int, int, error) {
	if err := rule.Validate(); err != nil {
		return 0, 0, err
	}

	occurrences, created := 0, 0
	next := rule.NextDate
	for !next.After(horizon) {
		if err := ctx.Err(); err != nil {
			return occurrences, created, err
		}
		expected := next
		now := s.Now()

		if rule.IsPastEnd(next) {
			_, err := s.ruleRepo.MaterializeOccurrence(ctx, domain.Materialization{
				RuleID:           rule.RuleID,
				UserID:           rule.UserID,
				ExpectedNextDate: &expected,
				Deactivate:       true,
				Now:              now,
			})
			return occurrences, created, s.ignoreConflict(ctx, rule.RuleID, err)
		}

		following, err := schedule.NextOccurrenceAfter(rule.StartDate, rule.Frequency, rule.DayOfMonth, rule.ShiftWeekends, next)
		if err != nil {
			return occurrences, created, err
		}
		deactivate := rule.IsPastEnd(following)

		inserted, err := s.ruleRepo.MaterializeOccurrence(ctx, domain.Materialization{
			RuleID:           rule.RuleID,
			UserID:           rule.UserID,
			ExpectedNextDate: &expected,
			NextDate:         &following,
			Deactivate:       deactivate,
			Entries:          BuildOccurrenceEntries(rule, next, now),
			Now:              now,
		})
		if err != nil {
			return occurrences, created, s.ignoreConflict(ctx, rule.RuleID, err)
		}

		occurrences++
		created += inserted
		s.LogDebug(ctx, "Occurrence materialized",
			slog.String("rule_id", rule.RuleID),
			slog.String("occurrence", next.Format(time.DateOnly)),
			slog.Int("inserted", inserted))

		if deactivate {
			s.LogInfo(ctx, "Recurrence rule reached its end date", slog.String("rule_id", rule.RuleID))
			return occurrences, created, nil
		}
		next = following
	}
	return occurrences, created, nil
}

func (s *scheduleGeneratorService) ignoreConflict(ctx context.Context, ruleID string, err error) error {
	if errors.Is(err, apperrors.ErrConflict) {
		s.LogInfo(ctx, "Recurrence rule advanced by a concurrent run, skipping", slog.String("rule_id", ruleID))
		return nil
	}
	return err
}

func (s *scheduleGeneratorService) ForceOccurrence(ctx context.Context, userID string, ruleID string, year int, month time.Month) ([]domain.LedgerEntry, error) {
	rule, err := s.ruleRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find rule to force", slog.String("rule_id", ruleID))
		return nil, err
	}
	if err := s.AuthorizeOwner(ctx, rule.UserID, userID, "recurrence rule", ruleID); err != nil {
		return nil, err
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	occurrence, err := schedule.OccurrenceInMonth(year, month, rule.DayOfMonth, rule.ShiftWeekends, rule.StartDate.Location())
	if err != nil {
		return nil, err
	}
	if occurrence.Before(dateOnly(rule.StartDate)) || rule.IsPastEnd(occurrence) {
		return nil, fmt.Errorf("%w: %s is outside the rule's active period", apperrors.ErrValidation, occurrence.Format(time.DateOnly))
	}

	entries := BuildOccurrenceEntries(*rule, occurrence, s.Now())
	if _, err := s.ruleRepo.MaterializeOccurrence(ctx, domain.Materialization{
		RuleID:     rule.RuleID,
		UserID:     rule.UserID,
		RequireNew: true,
		Entries:    entries,
		Now:        s.Now(),
	}); err != nil {
		s.LogError(ctx, err, "Failed to force occurrence",
			slog.String("rule_id", ruleID),
			slog.String("occurrence", occurrence.Format(time.DateOnly)))
		return nil, err
	}

	s.LogInfo(ctx, "Occurrence forced",
		slog.String("rule_id", ruleID),
		slog.String("occurrence", occurrence.Format(time.DateOnly)))
	return entries, nil
}

// BuildOccurrenceEntries produces the pending ledger entries for one occurrence of a rule:
// the entry on the rule's account and, for transfers, its mirror on the transfer account.
func BuildOccurrenceEntries(rule domain.RecurrenceRule, occurrence time.Time, now time.Time) []domain.LedgerEntry {
	ruleID := rule.RuleID
	occurrenceDate := occurrence
	paymentMethod := rule.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = defaultPaymentMethod
	}

	primary := domain.LedgerEntry{
		EntryID:          uuid.NewString(),
		UserID:           rule.UserID,
		AccountID:        rule.AccountID,
		Direction:        rule.Direction,
		Amount:           rule.Amount,
		EntryDate:        occurrence,
		Description:      rule.Description,
		Category:         rule.Category,
		SubCategory:      rule.SubCategory,
		PaymentMethod:    paymentMethod,
		Status:           domain.Pending,
		IsRecurring:      true,
		RecurrenceRuleID: &ruleID,
		OccurrenceDate:   &occurrenceDate,
		AuditFields:      domain.NewAuditFields(rule.UserID, now),
	}
	if !rule.IsTransfer() {
		return []domain.LedgerEntry{primary}
	}

	mirror := primary
	mirror.EntryID = uuid.NewString()
	mirror.AccountID = *rule.TransferAccountID
	mirror.Direction = rule.Direction.Opposite()

	primaryID, mirrorID := primary.EntryID, mirror.EntryID
	primary.RelatedEntryID = &mirrorID
	mirror.RelatedEntryID = &primaryID
	return []domain.LedgerEntry{primary, mirror}
}
