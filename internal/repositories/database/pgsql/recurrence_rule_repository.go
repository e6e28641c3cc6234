package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/buddyair/internal/apperrors"
	"github.com/SscSPs/buddyair/internal/core/domain"
	portsrepo "github.com/SscSPs/buddyair/internal/core/ports/repositories"
	"github.com/SscSPs/buddyair/internal/models"
	"github.com/SscSPs/buddyair/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ruleColumns = `rule_id, user_id, account_id, direction, amount, description, category, sub_category, payment_method,
	frequency, day_of_month, shift_weekends, start_date, next_date, end_date, transfer_account_id, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxRecurrenceRuleRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountTransactionSupport
}

// newPgxRecurrenceRuleRepository creates a new repository for recurrence rules and their materialization.
func newPgxRecurrenceRuleRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountTransactionSupport) *PgxRecurrenceRuleRepository {
	return &PgxRecurrenceRuleRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxRecurrenceRuleRepository implements portsrepo.RecurrenceRuleRepositoryFacade
var _ portsrepo.RecurrenceRuleRepositoryFacade = (*PgxRecurrenceRuleRepository)(nil)

func scanRule(row pgx.Row) (models.RecurrenceRule, error) {
	var m models.RecurrenceRule
	err := row.Scan(
		&m.RuleID,
		&m.UserID,
		&m.AccountID,
		&m.Direction,
		&m.Amount,
		&m.Description,
		&m.Category,
		&m.SubCategory,
		&m.PaymentMethod,
		&m.Frequency,
		&m.DayOfMonth,
		&m.ShiftWeekends,
		&m.StartDate,
		&m.NextDate,
		&m.EndDate,
		&m.TransferAccountID,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxRecurrenceRuleRepository) queryRules(ctx context.Context, query string, args ...any) ([]domain.RecurrenceRule, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := []models.RecurrenceRule{}
	for rows.Next() {
		m, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return mapping.ToDomainRecurrenceRuleSlice(rules), nil
}

// FindRuleByID retrieves a rule by its ID.
func (r *PgxRecurrenceRuleRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.RecurrenceRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM recurrence_rules WHERE rule_id = $1;`

	m, err := scanRule(r.Pool.QueryRow(ctx, query, ruleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find recurrence rule %s: %w", ruleID, err)
	}
	rule := mapping.ToDomainRecurrenceRule(m)
	return &rule, nil
}

// ListRulesByUser retrieves every rule of a user ordered by next date.
func (r *PgxRecurrenceRuleRepository) ListRulesByUser(ctx context.Context, userID string) ([]domain.RecurrenceRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM recurrence_rules WHERE user_id = $1 ORDER BY next_date, created_at;`

	rules, err := r.queryRules(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurrence rules for user %s: %w", userID, err)
	}
	return rules, nil
}

// ListDueRules retrieves the user's active rules whose next date is on or before the horizon.
func (r *PgxRecurrenceRuleRepository) ListDueRules(ctx context.Context, userID string, horizon time.Time) ([]domain.RecurrenceRule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM recurrence_rules
		WHERE user_id = $1 AND is_active = TRUE AND next_date <= $2
		ORDER BY next_date, rule_id;
	`
	rules, err := r.queryRules(ctx, query, userID, horizon)
	if err != nil {
		return nil, fmt.Errorf("failed to list due recurrence rules for user %s: %w", userID, err)
	}
	return rules, nil
}

// SaveRule inserts a new rule.
func (r *PgxRecurrenceRuleRepository) SaveRule(ctx context.Context, rule domain.RecurrenceRule) error {
	m := mapping.ToModelRecurrenceRule(rule)
	query := `
		INSERT INTO recurrence_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RuleID, m.UserID, m.AccountID, m.Direction, m.Amount, m.Description, m.Category, m.SubCategory,
		m.PaymentMethod, m.Frequency, m.DayOfMonth, m.ShiftWeekends, m.StartDate, m.NextDate, m.EndDate,
		m.TransferAccountID, m.IsActive, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: recurrence rule with ID %s already exists", apperrors.ErrDuplicate, m.RuleID)
		}
		return fmt.Errorf("failed to save recurrence rule %s: %w", m.RuleID, err)
	}
	return nil
}

// UpdateRule updates a rule's definition. The stored next date only moves forward.
func (r *PgxRecurrenceRuleRepository) UpdateRule(ctx context.Context, rule domain.RecurrenceRule) error {
	m := mapping.ToModelRecurrenceRule(rule)
	query := `
		UPDATE recurrence_rules
		SET amount = $2, description = $3, category = $4, sub_category = $5, payment_method = $6,
		    frequency = $7, day_of_month = $8, shift_weekends = $9, end_date = $10, is_active = $11,
		    next_date = GREATEST(next_date, $12), last_updated_at = $13, last_updated_by = $14
		WHERE rule_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.RuleID, m.Amount, m.Description, m.Category, m.SubCategory, m.PaymentMethod,
		m.Frequency, m.DayOfMonth, m.ShiftWeekends, m.EndDate, m.IsActive,
		m.NextDate, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update recurrence rule %s: %w", m.RuleID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteRule removes a rule. The foreign key clears recurrence_rule_id on the entries it produced.
func (r *PgxRecurrenceRuleRepository) DeleteRule(ctx context.Context, ruleID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM recurrence_rules WHERE rule_id = $1;`, ruleID)
	if err != nil {
		return fmt.Errorf("failed to delete recurrence rule %s: %w", ruleID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MaterializeOccurrence writes one occurrence atomically: rule lock, pointer check,
// deduplicated inserts, balance deltas for the inserted entries and the pointer move.
func (r *PgxRecurrenceRuleRepository) MaterializeOccurrence(ctx context.Context, m domain.Materialization) (int, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	var storedNext time.Time
	var isActive bool
	lockQuery := `SELECT next_date, is_active FROM recurrence_rules WHERE rule_id = $1 AND user_id = $2 FOR UPDATE;`
	if err := tx.QueryRow(ctx, lockQuery, m.RuleID, m.UserID).Scan(&storedNext, &isActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrNotFound
		}
		return 0, apperrors.NewAppError(500, "failed to lock recurrence rule "+m.RuleID, err)
	}

	if m.ExpectedNextDate != nil {
		if !isActive || !sameDay(storedNext, *m.ExpectedNextDate) {
			return 0, fmt.Errorf("%w: rule %s moved to %s", apperrors.ErrConflict, m.RuleID, storedNext.Format(time.DateOnly))
		}
	}

	inserted, err := insertLedgerEntriesInTx(ctx, tx, m.Entries, true)
	if err != nil {
		return 0, err
	}
	if m.RequireNew && len(m.Entries) > 0 && len(inserted) == 0 {
		return 0, fmt.Errorf("%w: occurrence already materialized for rule %s", apperrors.ErrDuplicate, m.RuleID)
	}
	if err := relinkSkippedLegs(ctx, tx, m.Entries, inserted); err != nil {
		return 0, err
	}

	if err := applyBalanceChangesInTx(ctx, tx, r.accountRepo, inserted, false, m.UserID, m.Now); err != nil {
		return 0, err
	}

	if m.NextDate != nil || m.Deactivate {
		pointerQuery := `
			UPDATE recurrence_rules
			SET next_date = GREATEST(next_date, COALESCE($2, next_date)),
			    is_active = is_active AND NOT $3,
			    last_updated_at = $4, last_updated_by = $5
			WHERE rule_id = $1;
		`
		if _, err := tx.Exec(ctx, pointerQuery, m.RuleID, m.NextDate, m.Deactivate, m.Now, m.UserID); err != nil {
			return 0, apperrors.NewAppError(500, "failed to advance recurrence rule "+m.RuleID, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return len(inserted), nil
}

// relinkSkippedLegs points an inserted transfer leg at the existing row of a mirror that was
// deduplicated away, or clears the link when there is none.
func relinkSkippedLegs(ctx context.Context, tx pgx.Tx, entries, inserted []domain.LedgerEntry) error {
	if len(inserted) == len(entries) {
		return nil
	}
	written := make(map[string]bool, len(inserted))
	for _, e := range inserted {
		written[e.EntryID] = true
	}
	byID := make(map[string]domain.LedgerEntry, len(entries))
	for _, e := range entries {
		byID[e.EntryID] = e
	}

	query := `
		UPDATE ledger_entries
		SET related_entry_id = (
			SELECT e.entry_id FROM ledger_entries e
			WHERE e.recurrence_rule_id = $2 AND e.occurrence_date = $3 AND e.account_id = $4
		)
		WHERE entry_id = $1;
	`
	for _, e := range inserted {
		if !e.IsTransferLeg() || written[*e.RelatedEntryID] {
			continue
		}
		mirror, ok := byID[*e.RelatedEntryID]
		if !ok {
			continue
		}
		if _, err := tx.Exec(ctx, query, e.EntryID, mirror.RecurrenceRuleID, mirror.OccurrenceDate, mirror.AccountID); err != nil {
			return apperrors.NewAppError(500, "failed to relink transfer leg "+e.EntryID, err)
		}
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
