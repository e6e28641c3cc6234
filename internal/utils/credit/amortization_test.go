package credit

import (
	"testing"
	"time"

	"github.com/SscSPs/buddyair/internal/apperrors"
	"github.com/SscSPs/buddyair/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s got %s", want, got.String()}, msgAndArgs...)...)
}

func sumPrincipal(rows []domain.AmortizationRow) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Principal)
	}
	return total
}

var loanStart = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

func TestMonthlyPayment(t *testing.T) {
	assertDecimal(t, "856.07", MonthlyPayment(dec("10000"), dec("5"), 12))
	assertDecimal(t, "333.33", MonthlyPayment(dec("1000"), decimal.Zero, 3))
	assertDecimal(t, "0", MonthlyPayment(dec("1000"), dec("5"), 0))
}

func TestComputeSchedule_PrincipalSumsToLoan(t *testing.T) {
	params := domain.LoanParams{
		Principal:  dec("10000"),
		AnnualRate: dec("5"),
		TermMonths: 12,
		StartDate:  loanStart,
	}

	rows, err := ComputeSchedule(params, loanStart.AddDate(-1, 0, 0))
	require.NoError(t, err)
	require.Len(t, rows, 12)

	assertDecimal(t, "10000", sumPrincipal(rows))
	assert.True(t, rows[len(rows)-1].Balance.IsZero(), "final balance must be zero")
	assertDecimal(t, "41.67", rows[0].Interest)
	assertDecimal(t, "814.40", rows[0].Principal)
	assert.Equal(t, time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC), rows[0].Date)

	for i, row := range rows {
		assert.True(t, row.Payment.Equal(row.Principal.Add(row.Interest)), "row %d payment", i+1)
		assert.False(t, row.IsPast)
		assert.Equal(t, i+1, row.Period)
		if i > 0 {
			assert.True(t, row.OpeningBalance.Equal(rows[i-1].Balance), "row %d opens on previous close", i+1)
		}
	}
}

func TestComputeSchedule_ZeroRate(t *testing.T) {
	params := domain.LoanParams{
		Principal:  dec("1000"),
		AnnualRate: decimal.Zero,
		TermMonths: 3,
		StartDate:  loanStart,
	}

	rows, err := ComputeSchedule(params, loanStart)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assertDecimal(t, "333.33", rows[0].Principal)
	assertDecimal(t, "333.33", rows[1].Principal)
	assertDecimal(t, "333.34", rows[2].Principal)
	for _, row := range rows {
		assert.True(t, row.Interest.IsZero())
	}
	assertDecimal(t, "1000", sumPrincipal(rows))
}

func TestComputeSchedule_HybridUsesActualBalance(t *testing.T) {
	now := time.Date(2024, time.July, 20, 9, 0, 0, 0, time.UTC)
	params := domain.LoanParams{
		Principal:                dec("10000"),
		AnnualRate:               dec("5"),
		TermMonths:               12,
		StartDate:                loanStart,
		ActualOutstandingBalance: decimalPtr(dec("-5000")),
	}

	rows, err := ComputeSchedule(params, now)
	require.NoError(t, err)
	require.Greater(t, len(rows), 7)

	// Six whole months elapsed, so period 7 opens on the actual balance.
	assertDecimal(t, "5000", rows[6].OpeningBalance)
	assert.False(t, rows[5].Balance.Equal(dec("5000")), "earlier periods follow the theoretical trajectory")
	assert.True(t, rows[5].IsPast)
	assert.False(t, rows[6].IsPast)

	assertDecimal(t, "5000", sumPrincipal(rows[6:]))
	assert.True(t, rows[len(rows)-1].Balance.IsZero())
}

func TestComputeSchedule_DeclaredPaymentEndsEarly(t *testing.T) {
	params := domain.LoanParams{
		Principal:      dec("1000"),
		AnnualRate:     dec("12"),
		TermMonths:     12,
		StartDate:      loanStart,
		MonthlyPayment: decimalPtr(dec("600")),
	}

	rows, err := ComputeSchedule(params, loanStart)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assertDecimal(t, "10", rows[0].Interest)
	assertDecimal(t, "590", rows[0].Principal)
	assertDecimal(t, "410", rows[1].Principal)
	assertDecimal(t, "4.10", rows[1].Interest)
	assert.True(t, rows[1].Balance.IsZero())
}

func TestComputeSchedule_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params domain.LoanParams
	}{
		{"zero principal", domain.LoanParams{Principal: decimal.Zero, AnnualRate: dec("3"), TermMonths: 12, StartDate: loanStart}},
		{"zero term", domain.LoanParams{Principal: dec("100"), AnnualRate: dec("3"), TermMonths: 0, StartDate: loanStart}},
		{"negative rate", domain.LoanParams{Principal: dec("100"), AnnualRate: dec("-1"), TermMonths: 12, StartDate: loanStart}},
		{"missing start", domain.LoanParams{Principal: dec("100"), AnnualRate: dec("3"), TermMonths: 12}},
		{"non-positive payment", domain.LoanParams{Principal: dec("100"), AnnualRate: dec("3"), TermMonths: 12, StartDate: loanStart, MonthlyPayment: decimalPtr(decimal.Zero)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ComputeSchedule(tt.params, loanStart)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Nil(t, rows)
		})
	}
}

func TestComputeSummary(t *testing.T) {
	params := domain.LoanParams{
		Principal:      dec("1000"),
		AnnualRate:     decimal.Zero,
		TermMonths:     3,
		StartDate:      loanStart,
		InsuranceFixed: dec("5"),
	}
	// The first instalment (15 Feb) is behind us.
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	rows, err := ComputeSchedule(params, now)
	require.NoError(t, err)

	summary := ComputeSummary(rows, params.Principal)
	assertDecimal(t, "1000", summary.Capital)
	assertDecimal(t, "0", summary.TotalInterest)
	assertDecimal(t, "15", summary.TotalInsurance)
	assertDecimal(t, "1015", summary.TotalCost)
	assertDecimal(t, "98.52", summary.CapitalShare)
	assertDecimal(t, "0", summary.InterestShare)
	assertDecimal(t, "1.48", summary.InsuranceShare)
	assertDecimal(t, "338.33", summary.PaidToDate)
	assertDecimal(t, "666.67", summary.RemainingBalance)
	assert.Equal(t, 2, summary.RemainingPeriods)
}

func TestComputeSummary_Empty(t *testing.T) {
	summary := ComputeSummary(nil, decimal.Zero)
	assert.True(t, summary.TotalCost.IsZero())
	assert.True(t, summary.CapitalShare.IsZero())
}

func TestSimulate(t *testing.T) {
	sim, err := Simulate(domain.LoanParams{
		Principal:     dec("1000"),
		AnnualRate:    decimal.Zero,
		TermMonths:    4,
		StartDate:     loanStart,
		InsuranceRate: dec("1.2"),
	})
	require.NoError(t, err)
	assertDecimal(t, "1", sim.MonthlyInsurance)
	assertDecimal(t, "251", sim.MonthlyPayment)
	assertDecimal(t, "4", sim.TotalCost)

	_, err = Simulate(domain.LoanParams{Principal: dec("1000"), TermMonths: 0, StartDate: loanStart})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
