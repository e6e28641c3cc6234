package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/buddyair/internal/apperrors"
	"github.com/SscSPs/buddyair/internal/core/domain"
	portsrepo "github.com/SscSPs/buddyair/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/buddyair/internal/core/ports/services"
	"github.com/SscSPs/buddyair/internal/dto"
	"github.com/SscSPs/buddyair/internal/utils/clock"
	"github.com/google/uuid"
)

type ledgerService struct {
	BaseService
	ledgerRepo  portsrepo.LedgerEntryRepositoryFacade
	accountRepo portsrepo.AccountReader
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

// WithLedgerClock pins the ledger service's notion of now.
func WithLedgerClock(c clock.Clock) LedgerServiceOption {
	return func(s *ledgerService) {
		s.Clock = c
	}
}

// NewLedgerService creates a service for manual ledger entries.
func NewLedgerService(ledgerRepo portsrepo.LedgerEntryRepositoryFacade, accountRepo portsrepo.AccountReader, options ...LedgerServiceOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		BaseService: BaseService{Clock: clock.SystemClock{}},
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) ListEntriesByAccount(ctx context.Context, userID string, accountID string, params dto.ListEntriesParams) ([]domain.LedgerEntry, *string, error) {
	if _, err := s.ownedAccount(ctx, userID, accountID); err != nil {
		return nil, nil, err
	}
	entries, nextToken, err := s.ledgerRepo.ListEntriesByAccount(ctx, accountID, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger entries", slog.String("account_id", accountID))
		return nil, nil, err
	}
	return entries, nextToken, nil
}

func (s *ledgerService) CreateEntry(ctx context.Context, userID string, accountID string, req dto.CreateEntryRequest) ([]domain.LedgerEntry, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if !req.Direction.IsValid() {
		return nil, fmt.Errorf("%w: unknown direction %q", apperrors.ErrValidation, req.Direction)
	}
	status := req.Status
	if status == "" {
		status = domain.Pending
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, status)
	}

	if _, err := s.ownedAccount(ctx, userID, accountID); err != nil {
		return nil, err
	}
	transferAccountID := nonEmpty(req.TransferAccountID)
	if transferAccountID != nil {
		if *transferAccountID == accountID {
			return nil, fmt.Errorf("%w: transfer account must differ from source account", apperrors.ErrValidation)
		}
		if _, err := s.ownedAccount(ctx, userID, *transferAccountID); err != nil {
			return nil, err
		}
	}

	now := s.Now()
	entry := domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		UserID:        userID,
		AccountID:     accountID,
		Direction:     req.Direction,
		Amount:        req.Amount,
		EntryDate:     dateOnly(req.EntryDate),
		Description:   req.Description,
		Category:      strings.TrimSpace(req.Category),
		SubCategory:   strings.TrimSpace(req.SubCategory),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Status:        status,
		AuditFields:   domain.NewAuditFields(userID, now),
	}
	if status == domain.Completed {
		entry.PointedAt = &now
	}

	entries := []domain.LedgerEntry{entry}
	if transferAccountID != nil {
		mirror := entry
		mirror.EntryID = uuid.NewString()
		mirror.AccountID = *transferAccountID
		mirror.Direction = entry.Direction.Opposite()
		entryID, mirrorID := entry.EntryID, mirror.EntryID
		entries[0].RelatedEntryID = &mirrorID
		mirror.RelatedEntryID = &entryID
		entries = append(entries, mirror)
	}

	if err := s.ledgerRepo.SaveEntries(ctx, entries, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to save ledger entry", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Ledger entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("account_id", accountID),
		slog.Bool("transfer", transferAccountID != nil))
	return entries, nil
}

func (s *ledgerService) DeleteEntry(ctx context.Context, userID string, entryID string) error {
	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return err
	}

	ids := entryWithMirror(entry)
	if err := s.ledgerRepo.DeleteEntries(ctx, ids, userID, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to delete ledger entry", slog.String("entry_id", entryID))
		return err
	}
	s.LogInfo(ctx, "Ledger entry deleted", slog.String("entry_id", entryID), slog.Int("rows", len(ids)))
	return nil
}

func (s *ledgerService) SetEntryStatus(ctx context.Context, userID string, entryID string, status domain.EntryStatus) (*domain.LedgerEntry, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, status)
	}
	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	entry.Status = status
	entry.PointedAt = nil
	if status == domain.Completed {
		entry.PointedAt = &now
	}

	if err := s.ledgerRepo.UpdateEntryStatus(ctx, entryWithMirror(entry), status, entry.PointedAt, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to update ledger entry status", slog.String("entry_id", entryID))
		return nil, err
	}
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	return entry, nil
}

func (s *ledgerService) ownedAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		return nil, err
	}
	if err := s.AuthorizeOwner(ctx, account.UserID, userID, "account", accountID); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *ledgerService) ownedEntry(ctx context.Context, userID, entryID string) (*domain.LedgerEntry, error) {
	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find ledger entry", slog.String("entry_id", entryID))
		return nil, err
	}
	if err := s.AuthorizeOwner(ctx, entry.UserID, userID, "ledger entry", entryID); err != nil {
		return nil, err
	}
	return entry, nil
}

func entryWithMirror(entry *domain.LedgerEntry) []string {
	ids := []string{entry.EntryID}
	if entry.IsTransferLeg() {
		ids = append(ids, *entry.RelatedEntryID)
	}
	return ids
}
