package domain

import (
	"github.com/shopspring/decimal"
)

// PaceStatus compares category consumption with elapsed time in the current month.
type PaceStatus string

const (
	PaceHigh       PaceStatus = "high_pace"
	PaceEconomical PaceStatus = "economical"
	PaceOnTrack    PaceStatus = "on_track"
)

// ProgressLevel buckets a consumption percentage.
type ProgressLevel string

const (
	ProgressOK      ProgressLevel = "ok"
	ProgressWarning ProgressLevel = "warning"
	ProgressOver    ProgressLevel = "over"
)

// HealthTier grades the savings rate.
type HealthTier string

const (
	HealthExcellent HealthTier = "excellent"
	HealthGood      HealthTier = "good"
	HealthStable    HealthTier = "stable"
	HealthCritical  HealthTier = "critical"
)

// BudgetSort selects the ordering of category stats.
type BudgetSort string

const (
	SortDefault      BudgetSort = ""
	SortProgressDesc BudgetSort = "progress-desc"
	SortSpentDesc    BudgetSort = "spent-desc"
	SortAmountDesc   BudgetSort = "amount-desc"
	SortCategory     BudgetSort = "category"
)

// IsValid reports whether s is a supported sort key.
func (s BudgetSort) IsValid() bool {
	switch s {
	case SortDefault, SortProgressDesc, SortSpentDesc, SortAmountDesc, SortCategory:
		return true
	}
	return false
}

// CategoryStats is the per-budget line of a BudgetReport.
type CategoryStats struct {
	BudgetID            string           `json:"budgetID"`
	Category            string           `json:"category"`
	Limit               decimal.Decimal  `json:"limit"`
	Spent               decimal.Decimal  `json:"spent"`
	Remaining           decimal.Decimal  `json:"remaining"`
	RemainingPerDay     *decimal.Decimal `json:"remainingPerDay,omitempty"`
	Percentage          decimal.Decimal  `json:"percentage"`
	Scheduled           decimal.Decimal  `json:"scheduled"`
	ProjectedPercentage decimal.Decimal  `json:"projectedPercentage"`
	PreviousSpent       decimal.Decimal  `json:"previousSpent"`
	Trend               decimal.Decimal  `json:"trend"`
	TransactionCount    int              `json:"transactionCount"`
	Pace                *PaceStatus      `json:"pace,omitempty"`
	Level               ProgressLevel    `json:"level"`
}

// GlobalBudgetStats aggregates every budget of the period.
type GlobalBudgetStats struct {
	TotalLimit       decimal.Decimal  `json:"totalLimit"`
	TotalSpent       decimal.Decimal  `json:"totalSpent"`
	TotalRemaining   decimal.Decimal  `json:"totalRemaining"`
	Progress         decimal.Decimal  `json:"progress"`
	TotalIncome      decimal.Decimal  `json:"totalIncome"`
	SavingsCapacity  decimal.Decimal  `json:"savingsCapacity"`
	SavingsRate      decimal.Decimal  `json:"savingsRate"`
	TotalScheduled   decimal.Decimal  `json:"totalScheduled"`
	Health           HealthTier       `json:"health"`
	DailySafeSpend   *decimal.Decimal `json:"dailySafeSpend,omitempty"`
	IsCurrentPeriod  bool             `json:"isCurrentPeriod"`
	DaysRemaining    int              `json:"daysRemaining"`
	MonthProgressPct decimal.Decimal  `json:"monthProgressPct"`
}

// BudgetReport is the full output of the budget aggregator for one month.
type BudgetReport struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	Categories []CategoryStats `json:"categories"`
	Global     GlobalBudgetStats `json:"global"`
}

// AccountBalance is one line of a BalanceSummary.
type AccountBalance struct {
	AccountID    string          `json:"accountID"`
	Name         string          `json:"name"`
	AccountType  AccountType     `json:"accountType"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
	PeriodNet    decimal.Decimal `json:"periodNet"`
}

// BalanceSummary totals account balances and the period's cash flow.
type BalanceSummary struct {
	TotalBalance  decimal.Decimal  `json:"totalBalance"`
	PeriodIncome  decimal.Decimal  `json:"periodIncome"`
	PeriodExpense decimal.Decimal  `json:"periodExpense"`
	Net           decimal.Decimal  `json:"net"`
	Accounts      []AccountBalance `json:"accounts"`
}
