// Package budgeting turns budgets, ledger entries and recurrence rules into read-side statistics.
// Nothing here touches storage; every figure is recomputed from its inputs.
package budgeting

import (
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/buddyair/internal/core/domain"
	"github.com/SscSPs/buddyair/internal/utils/schedule"
	"github.com/shopspring/decimal"
)

var (
	hundred          = decimal.NewFromInt(100)
	warningThreshold = decimal.NewFromInt(85)
	paceHighMargin   = decimal.NewFromInt(15)
	paceLowMargin    = decimal.NewFromInt(10)
	healthExcellent  = decimal.NewFromInt(20)
	healthGood       = decimal.NewFromInt(10)
)

// Input is everything the aggregator needs for one month.
type Input struct {
	Year  int
	Month time.Month
	Now   time.Time
	// Budgets are reported in this order unless SortBy says otherwise.
	Budgets []domain.Budget
	// Entries are the ledger entries dated within the month, any direction.
	Entries []domain.LedgerEntry
	// PreviousEntries are the entries of the month before.
	PreviousEntries []domain.LedgerEntry
	// Rules are the user's recurrence rules; only active expense rules contribute scheduled amounts.
	Rules  []domain.RecurrenceRule
	SortBy domain.BudgetSort
}

// NormalizeCategory is the matching key for categories: trimmed and lower-cased.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// Aggregate computes per-category and global budget statistics.
func Aggregate(in Input) domain.BudgetReport {
	periodStart := time.Date(in.Year, in.Month, 1, 0, 0, 0, 0, in.Now.Location())
	periodEnd := schedule.EndOfMonth(periodStart)
	isCurrent := in.Now.Year() == in.Year && in.Now.Month() == in.Month
	daysRemaining := RemainingDays(in.Now)
	monthProgress := MonthProgress(in.Now)

	spent := sumExpensesByCategory(in.Entries)
	previous := sumExpensesByCategory(in.PreviousEntries)
	scheduled := scheduledByCategory(in.Rules, periodStart, periodEnd)

	report := domain.BudgetReport{
		Year:       in.Year,
		Month:      int(in.Month),
		Categories: make([]domain.CategoryStats, 0, len(in.Budgets)),
	}

	for _, b := range in.Budgets {
		key := NormalizeCategory(b.Category)
		current := spent[key]
		stats := domain.CategoryStats{
			BudgetID:            b.BudgetID,
			Category:            b.Category,
			Limit:               b.Amount,
			Spent:               current.total,
			Remaining:           b.Amount.Sub(current.total),
			Percentage:          decimal.Zero,
			Scheduled:           scheduled[key],
			ProjectedPercentage: decimal.Zero,
			PreviousSpent:       previous[key].total,
			TransactionCount:    current.count,
		}
		stats.Trend = stats.Spent.Sub(stats.PreviousSpent)

		percentage := decimal.Zero
		if b.Amount.IsPositive() {
			percentage = stats.Spent.Div(b.Amount).Mul(hundred)
			stats.ProjectedPercentage = stats.Spent.Add(stats.Scheduled).Div(b.Amount).Mul(hundred).Round(2)
		}
		stats.Percentage = percentage.Round(2)
		stats.Level = ProgressLevelFor(percentage)

		if isCurrent {
			perDay := decimal.Zero
			if stats.Remaining.IsPositive() {
				perDay = stats.Remaining.Div(decimal.NewFromInt(int64(daysRemaining))).Round(2)
			}
			stats.RemainingPerDay = &perDay
			pace := PaceFor(percentage, monthProgress)
			stats.Pace = &pace
		}

		report.Categories = append(report.Categories, stats)
	}

	sortCategories(report.Categories, in.SortBy)
	report.Global = globalStats(report.Categories, in.Entries, isCurrent, daysRemaining, monthProgress)
	return report
}

// ProgressLevelFor buckets a consumption percentage: over at 100, warning from 85.
func ProgressLevelFor(percentage decimal.Decimal) domain.ProgressLevel {
	switch {
	case percentage.GreaterThanOrEqual(hundred):
		return domain.ProgressOver
	case percentage.GreaterThanOrEqual(warningThreshold):
		return domain.ProgressWarning
	default:
		return domain.ProgressOK
	}
}

// PaceFor compares a consumption percentage with the share of the month already elapsed.
func PaceFor(percentage, monthProgress decimal.Decimal) domain.PaceStatus {
	switch {
	case percentage.GreaterThan(monthProgress.Add(paceHighMargin)):
		return domain.PaceHigh
	case percentage.LessThan(monthProgress.Sub(paceLowMargin)):
		return domain.PaceEconomical
	default:
		return domain.PaceOnTrack
	}
}

// HealthFor grades a savings rate.
func HealthFor(savingsRate decimal.Decimal) domain.HealthTier {
	switch {
	case savingsRate.GreaterThan(healthExcellent):
		return domain.HealthExcellent
	case savingsRate.GreaterThan(healthGood):
		return domain.HealthGood
	case savingsRate.IsPositive():
		return domain.HealthStable
	default:
		return domain.HealthCritical
	}
}

// MonthProgress is the share of now's month elapsed, counting today, as a percentage.
func MonthProgress(now time.Time) decimal.Decimal {
	days := schedule.DaysInMonth(now.Year(), now.Month())
	return decimal.NewFromInt(int64(now.Day())).Div(decimal.NewFromInt(int64(days))).Mul(hundred)
}

// RemainingDays counts the days left in now's month including today, at least 1.
func RemainingDays(now time.Time) int {
	return max(1, schedule.DaysInMonth(now.Year(), now.Month())-now.Day()+1)
}

type categoryTotal struct {
	total decimal.Decimal
	count int
}

func sumExpensesByCategory(entries []domain.LedgerEntry) map[string]categoryTotal {
	totals := make(map[string]categoryTotal)
	for _, e := range entries {
		if e.Direction != domain.Expense {
			continue
		}
		key := NormalizeCategory(e.Category)
		t := totals[key]
		t.total = t.total.Add(e.Amount.Abs())
		t.count++
		totals[key] = t
	}
	return totals
}

// scheduledByCategory sums the expense occurrences of the period that the generator has not
// materialized yet, i.e. those on or after each rule's next date.
func scheduledByCategory(rules []domain.RecurrenceRule, periodStart, periodEnd time.Time) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, r := range rules {
		if !r.IsActive || r.Direction != domain.Expense {
			continue
		}
		from := periodStart
		if r.NextDate.After(from) {
			from = r.NextDate
		}
		to := periodEnd
		if r.EndDate != nil && r.EndDate.Before(to) {
			to = *r.EndDate
		}
		dates, err := schedule.OccurrencesBetween(r.StartDate, r.Frequency, r.DayOfMonth, r.ShiftWeekends, from, to)
		if err != nil || len(dates) == 0 {
			continue
		}
		key := NormalizeCategory(r.Category)
		totals[key] = totals[key].Add(r.Amount.Mul(decimal.NewFromInt(int64(len(dates)))))
	}
	return totals
}

func sortCategories(stats []domain.CategoryStats, by domain.BudgetSort) {
	switch by {
	case domain.SortProgressDesc:
		sort.SliceStable(stats, func(i, j int) bool { return stats[i].Percentage.GreaterThan(stats[j].Percentage) })
	case domain.SortSpentDesc:
		sort.SliceStable(stats, func(i, j int) bool { return stats[i].Spent.GreaterThan(stats[j].Spent) })
	case domain.SortAmountDesc:
		sort.SliceStable(stats, func(i, j int) bool { return stats[i].Limit.GreaterThan(stats[j].Limit) })
	case domain.SortCategory:
		sort.SliceStable(stats, func(i, j int) bool {
			return NormalizeCategory(stats[i].Category) < NormalizeCategory(stats[j].Category)
		})
	}
}

func globalStats(stats []domain.CategoryStats, entries []domain.LedgerEntry, isCurrent bool, daysRemaining int, monthProgress decimal.Decimal) domain.GlobalBudgetStats {
	g := domain.GlobalBudgetStats{
		TotalLimit:      decimal.Zero,
		TotalSpent:      decimal.Zero,
		TotalIncome:     decimal.Zero,
		TotalScheduled:  decimal.Zero,
		Progress:        decimal.Zero,
		SavingsRate:     decimal.Zero,
		IsCurrentPeriod: isCurrent,
	}
	for _, s := range stats {
		g.TotalLimit = g.TotalLimit.Add(s.Limit)
		g.TotalSpent = g.TotalSpent.Add(s.Spent)
		g.TotalScheduled = g.TotalScheduled.Add(s.Scheduled)
	}
	for _, e := range entries {
		if e.Direction == domain.Income {
			g.TotalIncome = g.TotalIncome.Add(e.Amount.Abs())
		}
	}

	g.TotalRemaining = g.TotalLimit.Sub(g.TotalSpent)
	if g.TotalLimit.IsPositive() {
		g.Progress = g.TotalSpent.Div(g.TotalLimit).Mul(hundred).Round(2)
	}
	g.SavingsCapacity = g.TotalIncome.Sub(g.TotalLimit)
	savingsRate := decimal.Zero
	if g.TotalIncome.IsPositive() {
		savingsRate = g.SavingsCapacity.Div(g.TotalIncome).Mul(hundred)
	}
	g.SavingsRate = savingsRate.Round(2)
	g.Health = HealthFor(savingsRate)

	if isCurrent {
		safe := decimal.Zero
		if g.TotalRemaining.IsPositive() {
			safe = g.TotalRemaining.Div(decimal.NewFromInt(int64(daysRemaining))).Round(2)
		}
		g.DailySafeSpend = &safe
		g.DaysRemaining = daysRemaining
		g.MonthProgressPct = monthProgress.Round(2)
	}
	return g
}
