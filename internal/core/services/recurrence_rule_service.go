package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/buddyair/internal/apperrors"
	"github.com/SscSPs/buddyair/internal/core/domain"
	portsrepo "github.com/SscSPs/buddyair/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/buddyair/internal/core/ports/services"
	"github.com/SscSPs/buddyair/internal/dto"
	"github.com/SscSPs/buddyair/internal/utils/clock"
	"github.com/SscSPs/buddyair/internal/utils/schedule"
	"github.com/google/uuid"
)

const maxPreviewOccurrences = 120

type recurrenceRuleService struct {
	BaseService
	ruleRepo    portsrepo.RecurrenceRuleRepositoryFacade
	accountRepo portsrepo.AccountReader
}

// RuleServiceOption is a functional option for configuring the rule service
type RuleServiceOption func(*recurrenceRuleService)

// WithRuleClock pins the rule service's notion of now.
func WithRuleClock(c clock.Clock) RuleServiceOption {
	return func(s *recurrenceRuleService) {
		s.Clock = c
	}
}

// NewRecurrenceRuleService creates a service managing recurrence rule definitions.
func NewRecurrenceRuleService(ruleRepo portsrepo.RecurrenceRuleRepositoryFacade, accountRepo portsrepo.AccountReader, options ...RuleServiceOption) portssvc.RecurrenceRuleSvcFacade {
	svc := &recurrenceRuleService{
		BaseService: BaseService{Clock: clock.SystemClock{}},
		ruleRepo:    ruleRepo,
		accountRepo: accountRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.RecurrenceRuleSvcFacade = (*recurrenceRuleService)(nil)

func (s *recurrenceRuleService) GetRule(ctx context.Context, userID string, ruleID string) (*domain.RecurrenceRule, error) {
	rule, err := s.ruleRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find recurrence rule", slog.String("rule_id", ruleID))
		return nil, err
	}
	if err := s.AuthorizeOwner(ctx, rule.UserID, userID, "recurrence rule", ruleID); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *recurrenceRuleService) ListRules(ctx context.Context, userID string) ([]domain.RecurrenceRule, error) {
	rules, err := s.ruleRepo.ListRulesByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list recurrence rules", slog.String("user_id", userID))
		return nil, err
	}
	return rules, nil
}

func (s *recurrenceRuleService) PreviewOccurrences(ctx context.Context, userID string, ruleID string, count int) ([]time.Time, error) {
	if count < 1 || count > maxPreviewOccurrences {
		return nil, fmt.Errorf("%w: count must be between 1 and %d", apperrors.ErrValidation, maxPreviewOccurrences)
	}
	rule, err := s.GetRule(ctx, userID, ruleID)
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, count)
	next := rule.NextDate
	for len(dates) < count && !rule.IsPastEnd(next) {
		dates = append(dates, next)
		next, err = schedule.NextOccurrenceAfter(rule.StartDate, rule.Frequency, rule.DayOfMonth, rule.ShiftWeekends, next)
		if err != nil {
			return nil, err
		}
	}
	return dates, nil
}

func (s *recurrenceRuleService) CreateRule(ctx context.Context, req dto.CreateRuleRequest, userID string) (*domain.RecurrenceRule, error) {
	if err := s.checkAccounts(ctx, userID, req.AccountID, req.TransferAccountID); err != nil {
		return nil, err
	}

	startDate := dateOnly(req.StartDate)
	first, err := schedule.ProjectOccurrences(startDate, req.Frequency, req.DayOfMonth, req.ShiftWeekends, 1)
	if err != nil {
		return nil, err
	}

	paymentMethod := strings.TrimSpace(req.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = defaultPaymentMethod
	}

	rule := domain.RecurrenceRule{
		RuleID:            uuid.NewString(),
		UserID:            userID,
		AccountID:         req.AccountID,
		Direction:         req.Direction,
		Amount:            req.Amount,
		Description:       req.Description,
		Category:          strings.TrimSpace(req.Category),
		SubCategory:       strings.TrimSpace(req.SubCategory),
		PaymentMethod:     paymentMethod,
		Frequency:         req.Frequency,
		DayOfMonth:        req.DayOfMonth,
		ShiftWeekends:     req.ShiftWeekends,
		StartDate:         startDate,
		NextDate:          first[0],
		EndDate:           dateOnlyPtr(req.EndDate),
		TransferAccountID: nonEmpty(req.TransferAccountID),
		AuditFields:       domain.NewAuditFields(userID, s.Now()),
	}
	rule.IsActive = !rule.IsPastEnd(rule.NextDate)

	if err := rule.Validate(); err != nil {
		s.LogDebug(ctx, "Rejected invalid recurrence rule", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.ruleRepo.SaveRule(ctx, rule); err != nil {
		s.LogError(ctx, err, "Failed to save recurrence rule", slog.String("rule_id", rule.RuleID))
		return nil, err
	}

	s.LogInfo(ctx, "Recurrence rule created",
		slog.String("rule_id", rule.RuleID),
		slog.String("next_date", rule.NextDate.Format(time.DateOnly)))
	return &rule, nil
}

func (s *recurrenceRuleService) UpdateRule(ctx context.Context, userID string, ruleID string, req dto.UpdateRuleRequest) (*domain.RecurrenceRule, error) {
	rule, err := s.GetRule(ctx, userID, ruleID)
	if err != nil {
		return nil, err
	}

	patternChanged := false
	if req.Amount != nil {
		rule.Amount = *req.Amount
	}
	if req.Description != nil {
		rule.Description = *req.Description
	}
	if req.Category != nil {
		rule.Category = strings.TrimSpace(*req.Category)
	}
	if req.SubCategory != nil {
		rule.SubCategory = strings.TrimSpace(*req.SubCategory)
	}
	if req.PaymentMethod != nil {
		rule.PaymentMethod = strings.TrimSpace(*req.PaymentMethod)
	}
	if req.Frequency != nil && *req.Frequency != rule.Frequency {
		rule.Frequency = *req.Frequency
		patternChanged = true
	}
	if req.DayOfMonth != nil && *req.DayOfMonth != rule.DayOfMonth {
		rule.DayOfMonth = *req.DayOfMonth
		patternChanged = true
	}
	if req.ShiftWeekends != nil && *req.ShiftWeekends != rule.ShiftWeekends {
		rule.ShiftWeekends = *req.ShiftWeekends
		patternChanged = true
	}
	if req.ClearEndDate {
		rule.EndDate = nil
	} else if req.EndDate != nil {
		rule.EndDate = dateOnlyPtr(req.EndDate)
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if patternChanged {
		// Re-project from the current pointer so the new pattern never reaches back before it.
		next, err := schedule.NextOccurrenceOnOrAfter(rule.StartDate, rule.Frequency, rule.DayOfMonth, rule.ShiftWeekends, rule.NextDate)
		if err != nil {
			return nil, err
		}
		rule.NextDate = next
	}
	if rule.IsPastEnd(rule.NextDate) {
		rule.IsActive = false
	}

	if err := rule.Validate(); err != nil {
		return nil, err
	}

	now := s.Now()
	rule.LastUpdatedAt = now
	rule.LastUpdatedBy = userID
	if err := s.ruleRepo.UpdateRule(ctx, *rule); err != nil {
		s.LogError(ctx, err, "Failed to update recurrence rule", slog.String("rule_id", ruleID))
		return nil, err
	}

	s.LogInfo(ctx, "Recurrence rule updated", slog.String("rule_id", ruleID), slog.Bool("pattern_changed", patternChanged))
	return rule, nil
}

func (s *recurrenceRuleService) DeleteRule(ctx context.Context, userID string, ruleID string) error {
	if _, err := s.GetRule(ctx, userID, ruleID); err != nil {
		return err
	}
	if err := s.ruleRepo.DeleteRule(ctx, ruleID); err != nil {
		s.LogError(ctx, err, "Failed to delete recurrence rule", slog.String("rule_id", ruleID))
		return err
	}
	s.LogInfo(ctx, "Recurrence rule deleted", slog.String("rule_id", ruleID))
	return nil
}

// checkAccounts verifies that the rule's accounts exist and belong to the user.
func (s *recurrenceRuleService) checkAccounts(ctx context.Context, userID, accountID string, transferAccountID *string) error {
	ids := []string{accountID}
	if t := nonEmpty(transferAccountID); t != nil {
		if *t == accountID {
			return fmt.Errorf("%w: transfer account must differ from source account", apperrors.ErrInvalidRule)
		}
		ids = append(ids, *t)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to load rule accounts", slog.String("account_id", accountID))
		return err
	}
	for _, id := range ids {
		acc, ok := accounts[id]
		if !ok || acc.UserID != userID {
			return fmt.Errorf("account %s: %w", id, apperrors.ErrNotFound)
		}
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
