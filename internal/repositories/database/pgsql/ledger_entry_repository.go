package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/buddyair/internal/apperrors"
	"github.com/SscSPs/buddyair/internal/core/domain"
	portsrepo "github.com/SscSPs/buddyair/internal/core/ports/repositories"
	"github.com/SscSPs/buddyair/internal/models"
	"github.com/SscSPs/buddyair/internal/utils/accounting"
	"github.com/SscSPs/buddyair/internal/utils/mapping"
	"github.com/SscSPs/buddyair/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `entry_id, user_id, account_id, direction, amount, entry_date, description, category, sub_category,
	payment_method, status, pointed_at, is_recurring, recurrence_rule_id, occurrence_date, related_entry_id,
	created_at, created_by, last_updated_at, last_updated_by`

const insertEntryQuery = `
	INSERT INTO ledger_entries (` + entryColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

type PgxLedgerEntryRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountTransactionSupport
}

// newPgxLedgerEntryRepository creates a new repository for ledger entries.
func newPgxLedgerEntryRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountTransactionSupport) *PgxLedgerEntryRepository {
	return &PgxLedgerEntryRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxLedgerEntryRepository implements portsrepo.LedgerEntryRepositoryFacade
var _ portsrepo.LedgerEntryRepositoryFacade = (*PgxLedgerEntryRepository)(nil)

func scanLedgerEntry(row pgx.Row) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.UserID,
		&m.AccountID,
		&m.Direction,
		&m.Amount,
		&m.EntryDate,
		&m.Description,
		&m.Category,
		&m.SubCategory,
		&m.PaymentMethod,
		&m.Status,
		&m.PointedAt,
		&m.IsRecurring,
		&m.RecurrenceRuleID,
		&m.OccurrenceDate,
		&m.RelatedEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func collectLedgerEntries(rows pgx.Rows) ([]models.LedgerEntry, error) {
	defer rows.Close()
	entries := []models.LedgerEntry{}
	for rows.Next() {
		m, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, m)
	}
	return entries, rows.Err()
}

// insertLedgerEntriesInTx queues one insert per entry and returns the entries actually written.
// With skipOccurrenceDuplicates, an entry whose (rule, occurrence date, account) key already exists is
// silently skipped; otherwise a unique violation surfaces as apperrors.ErrDuplicate.
func insertLedgerEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry, skipOccurrenceDuplicates bool) ([]domain.LedgerEntry, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	query := insertEntryQuery
	if skipOccurrenceDuplicates {
		query += ` ON CONFLICT ON CONSTRAINT uq_ledger_entries_occurrence DO NOTHING`
	}
	query += ` RETURNING entry_id;`

	batch := &pgx.Batch{}
	for _, e := range entries {
		m := mapping.ToModelLedgerEntry(e)
		batch.Queue(query,
			m.EntryID, m.UserID, m.AccountID, m.Direction, m.Amount, m.EntryDate,
			m.Description, m.Category, m.SubCategory, m.PaymentMethod, m.Status, m.PointedAt,
			m.IsRecurring, m.RecurrenceRuleID, m.OccurrenceDate, m.RelatedEntryID,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	inserted := make([]domain.LedgerEntry, 0, len(entries))
	var batchErr error
	for _, e := range entries {
		var entryID string
		err := br.QueryRow().Scan(&entryID)
		switch {
		case err == nil:
			inserted = append(inserted, e)
		case errors.Is(err, pgx.ErrNoRows) && skipOccurrenceDuplicates:
			// already materialized
		default:
			if batchErr == nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == "23505" {
					batchErr = fmt.Errorf("%w: ledger entry %s", apperrors.ErrDuplicate, e.EntryID)
				} else {
					batchErr = apperrors.NewAppError(500, "failed to insert ledger entry "+e.EntryID, err)
				}
			}
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = apperrors.NewAppError(500, "failed to close ledger insert batch", err)
	}
	if batchErr != nil {
		return nil, batchErr
	}
	return inserted, nil
}

// applyBalanceChangesInTx pairs inserted or deleted entries with their account deltas.
func applyBalanceChangesInTx(ctx context.Context, tx pgx.Tx, accountRepo portsrepo.AccountTransactionSupport, entries []domain.LedgerEntry, reverse bool, userID string, now time.Time) error {
	changes, err := accounting.BalanceChanges(entries)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if reverse {
		changes = accounting.ReverseChanges(changes)
	}
	if err := accountRepo.UpdateAccountBalancesInTx(ctx, tx, changes, userID, now); err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}
	return nil
}

// FindEntryByID retrieves a ledger entry by its ID.
func (r *PgxLedgerEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE entry_id = $1;`

	m, err := scanLedgerEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ledger entry %s: %w", entryID, err)
	}
	entry := mapping.ToDomainLedgerEntry(m)
	return &entry, nil
}

// ListEntriesByAccount retrieves a page of an account's entries using token-based pagination.
// Ordering is entry_date DESC, then created_at DESC, then entry_id DESC.
func (r *PgxLedgerEntryRepository) ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// One extra row tells us whether another page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE account_id = $1`
	orderByClause := `ORDER BY entry_date DESC, created_at DESC, entry_id DESC`
	args := []any{accountID}

	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		cursor, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (entry_date, created_at, entry_id) < ($2, $3, $4)`
		args = append(args, cursor.EntryDate, cursor.CreatedAt, cursor.EntryID)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger entries for account "+accountID, err)
	}
	entries, err := collectLedgerEntries(rows)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to scan ledger entries for account "+accountID, err)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt, last.EntryID)
		nextTokenVal = &token
		entries = entries[:limit]
	}

	return mapping.ToDomainLedgerEntrySlice(entries), nextTokenVal, nil
}

// ListEntriesByUserInRange retrieves a user's entries dated within [from, to], oldest first.
func (r *PgxLedgerEntryRepository) ListEntriesByUserInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE user_id = $1 AND entry_date BETWEEN $2 AND $3
		ORDER BY entry_date, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries for user %s: %w", userID, err)
	}
	entries, err := collectLedgerEntries(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger entries for user %s: %w", userID, err)
	}
	return mapping.ToDomainLedgerEntrySlice(entries), nil
}

// BalanceSnapshot reads the account's balances and its signed ledger total in one statement.
func (r *PgxLedgerEntryRepository) BalanceSnapshot(ctx context.Context, accountID string) (domain.BalanceSnapshot, error) {
	query := `
		SELECT a.balance, a.initial_balance,
			COALESCE((
				SELECT SUM(CASE WHEN e.direction = 'income' THEN e.amount ELSE -e.amount END)
				FROM ledger_entries e
				WHERE e.account_id = a.account_id
			), 0)
		FROM accounts a
		WHERE a.account_id = $1;
	`
	var snap domain.BalanceSnapshot
	err := r.Pool.QueryRow(ctx, query, accountID).Scan(&snap.StoredBalance, &snap.InitialBalance, &snap.SignedTotal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.BalanceSnapshot{}, apperrors.ErrNotFound
		}
		return domain.BalanceSnapshot{}, fmt.Errorf("failed to read balance snapshot for account %s: %w", accountID, err)
	}
	return snap, nil
}

// SaveEntries inserts entries and applies their balance deltas in one transaction.
func (r *PgxLedgerEntryRepository) SaveEntries(ctx context.Context, entries []domain.LedgerEntry, userID string, now time.Time) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	inserted, err := insertLedgerEntriesInTx(ctx, tx, entries, false)
	if err != nil {
		return err
	}
	if err := applyBalanceChangesInTx(ctx, tx, r.accountRepo, inserted, false, userID, now); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteEntries removes entries and reverses their balance deltas in one transaction.
// Every ID must exist; otherwise nothing is deleted.
func (r *PgxLedgerEntryRepository) DeleteEntries(ctx context.Context, entryIDs []string, userID string, now time.Time) error {
	if len(entryIDs) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `DELETE FROM ledger_entries WHERE entry_id = ANY($1) RETURNING entry_id, account_id, direction, amount;`
	rows, err := tx.Query(ctx, query, entryIDs)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete ledger entries", err)
	}

	deleted := make([]domain.LedgerEntry, 0, len(entryIDs))
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.EntryID, &e.AccountID, &e.Direction, &e.Amount); err != nil {
			rows.Close()
			return apperrors.NewAppError(500, "failed to scan deleted ledger entry", err)
		}
		deleted = append(deleted, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return apperrors.NewAppError(500, "error iterating deleted ledger entries", err)
	}
	if len(deleted) != len(entryIDs) {
		return fmt.Errorf("%w: %d of %d ledger entries found", apperrors.ErrNotFound, len(deleted), len(entryIDs))
	}

	if err := applyBalanceChangesInTx(ctx, tx, r.accountRepo, deleted, true, userID, now); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateEntryStatus sets status and reconciliation time on the given entries.
func (r *PgxLedgerEntryRepository) UpdateEntryStatus(ctx context.Context, entryIDs []string, status domain.EntryStatus, pointedAt *time.Time, userID string, now time.Time) error {
	query := `
		UPDATE ledger_entries
		SET status = $2, pointed_at = $3, last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = ANY($1);
	`
	cmdTag, err := r.Pool.Exec(ctx, query, entryIDs, string(status), pointedAt, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of ledger entries: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
