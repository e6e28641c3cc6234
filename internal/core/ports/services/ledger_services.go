package services

import (
	"context"

	"github.com/SscSPs/buddyair/internal/core/domain"
	"github.com/SscSPs/buddyair/internal/dto"
)

// LedgerReaderSvc defines read operations for ledger entries
type LedgerReaderSvc interface {
	// ListEntriesByAccount retrieves a page of the account's entries, newest first.
	ListEntriesByAccount(ctx context.Context, userID string, accountID string, params dto.ListEntriesParams) ([]domain.LedgerEntry, *string, error)
}

// LedgerWriterSvc defines write operations for ledger entries
type LedgerWriterSvc interface {
	// CreateEntry records a manual entry, plus its mirror when a transfer account is given.
	CreateEntry(ctx context.Context, userID string, accountID string, req dto.CreateEntryRequest) ([]domain.LedgerEntry, error)

	// DeleteEntry removes an entry and its transfer mirror, reversing both balance deltas.
	DeleteEntry(ctx context.Context, userID string, entryID string) error

	// SetEntryStatus reconciles an entry; the status propagates to the transfer mirror.
	SetEntryStatus(ctx context.Context, userID string, entryID string, status domain.EntryStatus) (*domain.LedgerEntry, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
