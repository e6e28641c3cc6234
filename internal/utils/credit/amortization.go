// Package credit derives loan amortization schedules and cost estimates.
package credit

import (
	"fmt"
	"math"
	"time"

	"github.com/SscSPs/buddyair/internal/apperrors"
	"github.com/SscSPs/buddyair/internal/core/domain"
	"github.com/SscSPs/buddyair/internal/utils/schedule"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	hundred         = decimal.NewFromInt(100)
	monthsPerYear   = decimal.NewFromInt(12)
	percentPerMonth = hundred.Mul(monthsPerYear)
	validate        = validator.New()
)

// ValidateParams rejects loans that cannot be amortized.
func ValidateParams(p domain.LoanParams) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: invalid loan parameters: %v", apperrors.ErrValidation, err)
	}
	if !p.Principal.IsPositive() {
		return fmt.Errorf("%w: principal must be positive", apperrors.ErrValidation)
	}
	if p.AnnualRate.IsNegative() {
		return fmt.Errorf("%w: annual rate must not be negative", apperrors.ErrValidation)
	}
	if p.InsuranceRate.IsNegative() || p.InsuranceFixed.IsNegative() {
		return fmt.Errorf("%w: insurance must not be negative", apperrors.ErrValidation)
	}
	if p.MonthlyPayment != nil && !p.MonthlyPayment.IsPositive() {
		return fmt.Errorf("%w: declared monthly payment must be positive", apperrors.ErrValidation)
	}
	return nil
}

// MonthlyRate converts an annual percentage into a monthly fraction.
func MonthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.Div(percentPerMonth)
}

// MonthlyPayment is the constant annuity payment, rounded to cents. A zero rate splits the principal evenly.
func MonthlyPayment(principal, annualRate decimal.Decimal, termMonths int) decimal.Decimal {
	if termMonths <= 0 {
		return decimal.Zero
	}
	if annualRate.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(termMonths))).Round(2)
	}
	r := MonthlyRate(annualRate).InexactFloat64()
	factor := math.Pow(1+r, float64(termMonths))
	payment := principal.InexactFloat64() * r * factor / (factor - 1)
	return decimal.NewFromFloat(payment).Round(2)
}

// MonthlyInsurance is the flat monthly insurance premium: a yearly rate on the original principal plus a fixed fee.
func MonthlyInsurance(principal, insuranceRate, insuranceFixed decimal.Decimal) decimal.Decimal {
	return principal.Mul(insuranceRate).Div(percentPerMonth).Add(insuranceFixed).Round(2)
}

// ComputeSchedule builds the monthly amortization rows of a loan.
//
// With ActualOutstandingBalance set, the period following the months already elapsed opens on
// that balance instead of the theoretical one, and later periods continue from it.
// The nominal last period repays whatever principal remains, so the principal column always sums
// to the amount actually owed.
func ComputeSchedule(p domain.LoanParams, now time.Time) ([]domain.AmortizationRow, error) {
	if err := ValidateParams(p); err != nil {
		return nil, err
	}

	rate := MonthlyRate(p.AnnualRate)
	payment := MonthlyPayment(p.Principal, p.AnnualRate, p.TermMonths)
	if p.MonthlyPayment != nil {
		payment = p.MonthlyPayment.Round(2)
	}
	insurance := MonthlyInsurance(p.Principal, p.InsuranceRate, p.InsuranceFixed)

	hybridPeriod := 0
	if p.ActualOutstandingBalance != nil {
		hybridPeriod = max(0, schedule.MonthsBetween(p.StartDate, now)) + 1
	}

	balance := p.Principal
	rows := make([]domain.AmortizationRow, 0, p.TermMonths)
	for period := 1; period <= p.TermMonths; period++ {
		if period == hybridPeriod {
			balance = p.ActualOutstandingBalance.Abs()
		}
		opening := balance

		interest := balance.Mul(rate).Round(2)
		principal := decimal.Max(decimal.Zero, payment.Sub(interest))
		if period == p.TermMonths || principal.GreaterThan(balance) {
			principal = balance
		}
		balance = balance.Sub(principal)

		date := schedule.AddMonthsClamped(p.StartDate, period)
		rows = append(rows, domain.AmortizationRow{
			Period:         period,
			Date:           date,
			OpeningBalance: opening,
			Payment:        principal.Add(interest),
			Principal:      principal,
			Interest:       interest,
			Insurance:      insurance,
			Balance:        balance,
			IsPast:         date.Before(now),
		})

		if !balance.IsPositive() {
			break
		}
	}
	return rows, nil
}

// ComputeSummary totals a schedule. capital is the loan's original principal.
func ComputeSummary(rows []domain.AmortizationRow, capital decimal.Decimal) domain.AmortizationSummary {
	summary := domain.AmortizationSummary{
		Capital:          capital,
		TotalInterest:    decimal.Zero,
		TotalInsurance:   decimal.Zero,
		PaidToDate:       decimal.Zero,
		RemainingBalance: capital,
		CapitalShare:     decimal.Zero,
		InterestShare:    decimal.Zero,
		InsuranceShare:   decimal.Zero,
	}

	for _, row := range rows {
		summary.TotalInterest = summary.TotalInterest.Add(row.Interest)
		summary.TotalInsurance = summary.TotalInsurance.Add(row.Insurance)
		if row.IsPast {
			summary.PaidToDate = summary.PaidToDate.Add(row.Payment).Add(row.Insurance)
			summary.RemainingBalance = row.Balance
			continue
		}
		summary.RemainingPeriods++
	}

	summary.TotalCost = capital.Add(summary.TotalInterest).Add(summary.TotalInsurance)
	if summary.TotalCost.IsPositive() {
		summary.CapitalShare = share(capital, summary.TotalCost)
		summary.InterestShare = share(summary.TotalInterest, summary.TotalCost)
		summary.InsuranceShare = share(summary.TotalInsurance, summary.TotalCost)
	}
	return summary
}

// Simulate gives the headline figures of a prospective credit without building the full schedule.
func Simulate(p domain.LoanParams) (domain.CreditSimulation, error) {
	if err := ValidateParams(p); err != nil {
		return domain.CreditSimulation{}, err
	}
	payment := MonthlyPayment(p.Principal, p.AnnualRate, p.TermMonths)
	insurance := MonthlyInsurance(p.Principal, p.InsuranceRate, p.InsuranceFixed)
	monthly := payment.Add(insurance)

	return domain.CreditSimulation{
		MonthlyPayment:   monthly,
		MonthlyInsurance: insurance,
		TotalCost:        monthly.Mul(decimal.NewFromInt(int64(p.TermMonths))).Sub(p.Principal),
	}, nil
}

func share(part, total decimal.Decimal) decimal.Decimal {
	return part.Div(total).Mul(hundred).Round(2)
}
