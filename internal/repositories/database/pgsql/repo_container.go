package pgsql

import (
	portsrepo "github.com/SscSPs/buddyair/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	ledgerRepo := newPgxLedgerEntryRepository(dbPool, accountRepo)
	ruleRepo := newPgxRecurrenceRuleRepository(dbPool, accountRepo)
	budgetRepo := newPgxBudgetRepository(dbPool)
	loanRepo := newPgxLoanRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo: accountRepo,
		RuleRepo:    ruleRepo,
		LedgerRepo:  ledgerRepo,
		BudgetRepo:  budgetRepo,
		LoanRepo:    loanRepo,
	}
}
