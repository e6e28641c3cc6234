package budgeting

import (
	"github.com/SscSPs/buddyair/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SummarizeBalances totals the stored account balances and the period's income and expense.
// entries are expected to be the period's entries; entries on unknown accounts still count toward the flows.
func SummarizeBalances(accounts []domain.Account, entries []domain.LedgerEntry) domain.BalanceSummary {
	summary := domain.BalanceSummary{
		TotalBalance:  decimal.Zero,
		PeriodIncome:  decimal.Zero,
		PeriodExpense: decimal.Zero,
		Accounts:      make([]domain.AccountBalance, 0, len(accounts)),
	}

	net := make(map[string]decimal.Decimal, len(accounts))
	for _, e := range entries {
		switch e.Direction {
		case domain.Income:
			summary.PeriodIncome = summary.PeriodIncome.Add(e.Amount)
			net[e.AccountID] = net[e.AccountID].Add(e.Amount)
		case domain.Expense:
			summary.PeriodExpense = summary.PeriodExpense.Add(e.Amount)
			net[e.AccountID] = net[e.AccountID].Sub(e.Amount)
		}
	}

	for _, a := range accounts {
		summary.TotalBalance = summary.TotalBalance.Add(a.Balance)
		summary.Accounts = append(summary.Accounts, domain.AccountBalance{
			AccountID:    a.AccountID,
			Name:         a.Name,
			AccountType:  a.AccountType,
			CurrencyCode: a.CurrencyCode,
			Balance:      a.Balance,
			PeriodNet:    net[a.AccountID],
		})
	}
	summary.Net = summary.PeriodIncome.Sub(summary.PeriodExpense)
	return summary
}
