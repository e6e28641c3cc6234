package services

import (
	portsrepo "github.com/SscSPs/buddyair/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/buddyair/internal/core/ports/services"
	"github.com/SscSPs/buddyair/internal/utils/clock"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, clk clock.Clock, analytics AnalyticsTracker) *portssvc.ServiceContainer {
	if clk == nil {
		clk = clock.SystemClock{}
	}

	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(
		repos.AccountRepo,
		WithLedgerReader(repos.LedgerRepo),
		WithAccountClock(clk),
	)
	container.Rule = NewRecurrenceRuleService(repos.RuleRepo, repos.AccountRepo, WithRuleClock(clk))

	generatorOpts := []GeneratorOption{WithGeneratorClock(clk)}
	if analytics != nil {
		generatorOpts = append(generatorOpts, WithGeneratorAnalytics(analytics))
	}
	container.Generator = NewScheduleGeneratorService(repos.RuleRepo, generatorOpts...)

	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.AccountRepo, WithLedgerClock(clk))
	container.Budget = NewBudgetService(repos.BudgetRepo, repos.LedgerRepo, repos.RuleRepo, repos.AccountRepo, WithBudgetClock(clk))
	container.Credit = NewCreditService(repos.LoanRepo, repos.AccountRepo, WithCreditClock(clk))

	return container
}
