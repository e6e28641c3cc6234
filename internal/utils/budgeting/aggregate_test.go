package budgeting

import (
	"testing"
	"time"

	"github.com/SscSPs/buddyair/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s got %s", field, want, got.String())
}

func expense(category, amount string) domain.LedgerEntry {
	return domain.LedgerEntry{Direction: domain.Expense, Category: category, Amount: dec(amount)}
}

func marchInput() Input {
	return Input{
		Year:  2024,
		Month: time.March,
		Now:   time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC),
		Budgets: []domain.Budget{
			{BudgetID: "b-groceries", Category: "Groceries", Amount: dec("400")},
			{BudgetID: "b-transport", Category: "Transport", Amount: dec("100")},
			{BudgetID: "b-leisure", Category: "Leisure", Amount: decimal.Zero},
		},
		Entries: []domain.LedgerEntry{
			expense(" groceries ", "150"),
			expense("Groceries", "50"),
			expense("TRANSPORT", "10"),
			expense("Leisure", "20"),
			{Direction: domain.Income, Category: "Salary", Amount: dec("3000")},
		},
		PreviousEntries: []domain.LedgerEntry{
			expense("groceries", "250"),
		},
		Rules: []domain.RecurrenceRule{
			{
				RuleID: "r-weekly-shop", Direction: domain.Expense, Category: "Groceries", Amount: dec("40"),
				Frequency: domain.Monthly, DayOfMonth: 20, StartDate: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
				NextDate: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), IsActive: true,
			},
			{
				// Already materialized for March.
				RuleID: "r-pass", Direction: domain.Expense, Category: "Transport", Amount: dec("75"),
				Frequency: domain.Monthly, DayOfMonth: 5, StartDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
				NextDate: time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC), IsActive: true,
			},
			{
				RuleID: "r-salary", Direction: domain.Income, Category: "Groceries", Amount: dec("3000"),
				Frequency: domain.Monthly, DayOfMonth: 28, StartDate: time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC),
				NextDate: time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC), IsActive: true,
			},
			{
				RuleID: "r-paused", Direction: domain.Expense, Category: "Leisure", Amount: dec("999"),
				Frequency: domain.Monthly, DayOfMonth: 25, StartDate: time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC),
				NextDate: time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC), IsActive: false,
			},
		},
	}
}

func TestAggregate_CurrentMonth(t *testing.T) {
	report := Aggregate(marchInput())
	require.Len(t, report.Categories, 3)
	assert.Equal(t, 2024, report.Year)
	assert.Equal(t, 3, report.Month)

	groceries := report.Categories[0]
	assert.Equal(t, "b-groceries", groceries.BudgetID)
	assertDecimal(t, "200", groceries.Spent, "spent")
	assertDecimal(t, "200", groceries.Remaining, "remaining")
	assertDecimal(t, "50", groceries.Percentage, "percentage")
	assertDecimal(t, "40", groceries.Scheduled, "scheduled")
	assertDecimal(t, "60", groceries.ProjectedPercentage, "projected")
	assertDecimal(t, "250", groceries.PreviousSpent, "previous")
	assertDecimal(t, "-50", groceries.Trend, "trend")
	assert.Equal(t, 2, groceries.TransactionCount)
	require.NotNil(t, groceries.RemainingPerDay)
	assertDecimal(t, "9.09", *groceries.RemainingPerDay, "remaining per day")
	require.NotNil(t, groceries.Pace)
	assert.Equal(t, domain.PaceHigh, *groceries.Pace)
	assert.Equal(t, domain.ProgressOK, groceries.Level)

	transport := report.Categories[1]
	assertDecimal(t, "10", transport.Spent, "transport spent")
	assertDecimal(t, "0", transport.Scheduled, "transport scheduled")
	require.NotNil(t, transport.Pace)
	assert.Equal(t, domain.PaceEconomical, *transport.Pace)

	leisure := report.Categories[2]
	assertDecimal(t, "20", leisure.Spent, "leisure spent")
	assertDecimal(t, "0", leisure.Percentage, "zero limit percentage")
	assertDecimal(t, "0", leisure.Scheduled, "inactive rule ignored")
	require.NotNil(t, leisure.RemainingPerDay)
	assert.True(t, leisure.RemainingPerDay.IsZero())

	g := report.Global
	assertDecimal(t, "500", g.TotalLimit, "total limit")
	assertDecimal(t, "230", g.TotalSpent, "total spent")
	assertDecimal(t, "270", g.TotalRemaining, "total remaining")
	assertDecimal(t, "46", g.Progress, "progress")
	assertDecimal(t, "3000", g.TotalIncome, "income")
	assertDecimal(t, "2500", g.SavingsCapacity, "capacity")
	assertDecimal(t, "83.33", g.SavingsRate, "savings rate")
	assertDecimal(t, "40", g.TotalScheduled, "total scheduled")
	assert.Equal(t, domain.HealthExcellent, g.Health)
	require.NotNil(t, g.DailySafeSpend)
	assertDecimal(t, "12.27", *g.DailySafeSpend, "daily safe spend")
	assert.Equal(t, 22, g.DaysRemaining)
	assert.True(t, g.IsCurrentPeriod)
}

func TestAggregate_PastMonthHasNoPace(t *testing.T) {
	in := marchInput()
	in.Month = time.February

	report := Aggregate(in)
	for _, c := range report.Categories {
		assert.Nil(t, c.Pace, c.Category)
		assert.Nil(t, c.RemainingPerDay, c.Category)
	}
	assert.Nil(t, report.Global.DailySafeSpend)
	assert.False(t, report.Global.IsCurrentPeriod)
}

func TestAggregate_NoIncomeIsCritical(t *testing.T) {
	in := marchInput()
	in.Entries = in.Entries[:4]

	report := Aggregate(in)
	assert.True(t, report.Global.SavingsRate.IsZero())
	assert.Equal(t, domain.HealthCritical, report.Global.Health)
}

func TestAggregate_Sorting(t *testing.T) {
	tests := []struct {
		sortBy domain.BudgetSort
		want   []string
	}{
		{domain.SortDefault, []string{"Groceries", "Transport", "Leisure"}},
		{domain.SortSpentDesc, []string{"Groceries", "Leisure", "Transport"}},
		{domain.SortProgressDesc, []string{"Groceries", "Transport", "Leisure"}},
		{domain.SortAmountDesc, []string{"Groceries", "Transport", "Leisure"}},
		{domain.SortCategory, []string{"Groceries", "Leisure", "Transport"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sortBy), func(t *testing.T) {
			in := marchInput()
			in.SortBy = tt.sortBy
			report := Aggregate(in)

			got := make([]string, 0, len(report.Categories))
			for _, c := range report.Categories {
				got = append(got, c.Category)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProgressLevelFor(t *testing.T) {
	tests := []struct {
		percentage string
		want       domain.ProgressLevel
	}{
		{"0", domain.ProgressOK},
		{"84.99", domain.ProgressOK},
		{"85", domain.ProgressWarning},
		{"99.99", domain.ProgressWarning},
		{"100", domain.ProgressOver},
		{"180", domain.ProgressOver},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ProgressLevelFor(dec(tt.percentage)), tt.percentage)
	}
}

func TestHealthFor(t *testing.T) {
	tests := []struct {
		rate string
		want domain.HealthTier
	}{
		{"25", domain.HealthExcellent},
		{"20", domain.HealthGood},
		{"15", domain.HealthGood},
		{"10", domain.HealthStable},
		{"0.5", domain.HealthStable},
		{"0", domain.HealthCritical},
		{"-12", domain.HealthCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HealthFor(dec(tt.rate)), tt.rate)
	}
}

func TestPaceFor(t *testing.T) {
	progress := dec("50")
	assert.Equal(t, domain.PaceHigh, PaceFor(dec("65.01"), progress))
	assert.Equal(t, domain.PaceOnTrack, PaceFor(dec("65"), progress))
	assert.Equal(t, domain.PaceOnTrack, PaceFor(dec("40"), progress))
	assert.Equal(t, domain.PaceEconomical, PaceFor(dec("39.99"), progress))
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "groceries", NormalizeCategory("  GroCeries\t"))
	assert.Equal(t, NormalizeCategory("Transport"), NormalizeCategory(" transport "))
}

func TestSummarizeBalances(t *testing.T) {
	accounts := []domain.Account{
		{AccountID: "acc-1", Name: "Checking", AccountType: domain.Checking, Balance: dec("1000")},
		{AccountID: "acc-2", Name: "Card", AccountType: domain.Credit, Balance: dec("-200")},
	}
	entries := []domain.LedgerEntry{
		{AccountID: "acc-1", Direction: domain.Income, Amount: dec("500")},
		{AccountID: "acc-1", Direction: domain.Expense, Amount: dec("100")},
		{AccountID: "acc-2", Direction: domain.Expense, Amount: dec("50")},
	}

	summary := SummarizeBalances(accounts, entries)
	assertDecimal(t, "800", summary.TotalBalance, "total")
	assertDecimal(t, "500", summary.PeriodIncome, "income")
	assertDecimal(t, "150", summary.PeriodExpense, "expense")
	assertDecimal(t, "350", summary.Net, "net")
	require.Len(t, summary.Accounts, 2)
	assertDecimal(t, "400", summary.Accounts[0].PeriodNet, "acc-1 net")
	assertDecimal(t, "-50", summary.Accounts[1].PeriodNet, "acc-2 net")
}
