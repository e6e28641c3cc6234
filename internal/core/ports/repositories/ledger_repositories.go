package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/buddyair/internal/core/domain"
)

// LedgerEntryReader defines read operations for ledger entries
type LedgerEntryReader interface {
	// FindEntryByID retrieves a specific entry by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// ListEntriesByAccount retrieves a page of an account's entries, newest first, using token-based pagination.
	// It returns the entries, a token for the next page, and an error.
	ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// ListEntriesByUserInRange retrieves a user's entries dated within [from, to].
	ListEntriesByUserInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.LedgerEntry, error)

	// BalanceSnapshot reads the stored balances and re-sums the ledger (income minus expense)
	// in a single statement, so both sides see the same committed state.
	BalanceSnapshot(ctx context.Context, accountID string) (domain.BalanceSnapshot, error)
}

// LedgerEntryWriter defines write operations for ledger entries.
// Every write adjusts account balances in the same transaction.
type LedgerEntryWriter interface {
	// SaveEntries inserts entries and applies their balance deltas atomically.
	SaveEntries(ctx context.Context, entries []domain.LedgerEntry, userID string, now time.Time) error

	// DeleteEntries removes entries and reverses their balance deltas atomically.
	DeleteEntries(ctx context.Context, entryIDs []string, userID string, now time.Time) error

	// UpdateEntryStatus sets status and reconciliation time on the given entries.
	UpdateEntryStatus(ctx context.Context, entryIDs []string, status domain.EntryStatus, pointedAt *time.Time, userID string, now time.Time) error
}

// LedgerEntryRepositoryFacade combines all ledger-related repository interfaces
type LedgerEntryRepositoryFacade interface {
	LedgerEntryReader
	LedgerEntryWriter
}
