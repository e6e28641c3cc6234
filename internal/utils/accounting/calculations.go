package accounting

import (
	"fmt"

	"github.com/SscSPs/buddyair/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the sign implied by the entry direction: income adds to the account, expense subtracts.
// Used by services and repositories alike so balance deltas are computed one way only.
func SignedAmount(entry domain.LedgerEntry) (decimal.Decimal, error) {
	if !entry.Amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("entry amount must be positive for entry ID %s", entry.EntryID)
	}
	switch entry.Direction {
	case domain.Income:
		return entry.Amount, nil
	case domain.Expense:
		return entry.Amount.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown direction '%s' encountered for entry ID %s", entry.Direction, entry.EntryID)
	}
}

// BalanceChanges folds entries into one net delta per account.
func BalanceChanges(entries []domain.LedgerEntry) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(entries))
	for _, entry := range entries {
		signed, err := SignedAmount(entry)
		if err != nil {
			return nil, err
		}
		changes[entry.AccountID] = changes[entry.AccountID].Add(signed)
	}
	return changes, nil
}

// ReverseChanges negates every delta, used when entries are removed.
func ReverseChanges(changes map[string]decimal.Decimal) map[string]decimal.Decimal {
	reversed := make(map[string]decimal.Decimal, len(changes))
	for accountID, delta := range changes {
		reversed[accountID] = delta.Neg()
	}
	return reversed
}

// LedgerBalance is the balance an account should carry given its initial balance and signed ledger total.
func LedgerBalance(initial, signedTotal decimal.Decimal) decimal.Decimal {
	return initial.Add(signedTotal)
}
