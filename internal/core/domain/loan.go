package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan is a persisted credit whose amortization is derived on demand.
// When AccountID is set, that account's balance is used as the actual outstanding balance.
type Loan struct {
	LoanID         string           `json:"loanID"`
	UserID         string           `json:"userID"`
	AccountID      *string          `json:"accountID,omitempty"`
	Name           string           `json:"name"`
	Principal      decimal.Decimal  `json:"principal"`
	AnnualRate     decimal.Decimal  `json:"annualRate"`
	TermMonths     int              `json:"termMonths"`
	StartDate      time.Time        `json:"startDate"`
	InsuranceRate  decimal.Decimal  `json:"insuranceRate"`
	InsuranceFixed decimal.Decimal  `json:"insuranceFixed"`
	MonthlyPayment *decimal.Decimal `json:"monthlyPayment,omitempty"`
	AuditFields
}

// LoanParams are the inputs of the amortization calculator.
type LoanParams struct {
	Principal      decimal.Decimal
	AnnualRate     decimal.Decimal // percent, e.g. 3.5
	TermMonths     int             `validate:"gt=0,lte=1200"`
	StartDate      time.Time       `validate:"required"`
	InsuranceRate  decimal.Decimal // annual percent of principal
	InsuranceFixed decimal.Decimal // flat monthly amount
	MonthlyPayment *decimal.Decimal
	// ActualOutstandingBalance switches the schedule to hybrid mode.
	ActualOutstandingBalance *decimal.Decimal
}

// Params converts a stored loan into calculator inputs.
func (l Loan) Params() LoanParams {
	return LoanParams{
		Principal:      l.Principal,
		AnnualRate:     l.AnnualRate,
		TermMonths:     l.TermMonths,
		StartDate:      l.StartDate,
		InsuranceRate:  l.InsuranceRate,
		InsuranceFixed: l.InsuranceFixed,
		MonthlyPayment: l.MonthlyPayment,
	}
}

// AmortizationRow is one period of a loan schedule.
type AmortizationRow struct {
	Period         int             `json:"period"`
	Date           time.Time       `json:"date"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Payment        decimal.Decimal `json:"payment"`
	Principal      decimal.Decimal `json:"principal"`
	Interest       decimal.Decimal `json:"interest"`
	Insurance      decimal.Decimal `json:"insurance"`
	Balance        decimal.Decimal `json:"balance"` // closing balance after this period
	IsPast         bool            `json:"isPast"`
}

// AmortizationSummary totals a schedule. Shares are percentages of TotalCost.
type AmortizationSummary struct {
	Capital          decimal.Decimal `json:"capital"`
	TotalInterest    decimal.Decimal `json:"totalInterest"`
	TotalInsurance   decimal.Decimal `json:"totalInsurance"`
	TotalCost        decimal.Decimal `json:"totalCost"` // capital + interest + insurance
	CapitalShare     decimal.Decimal `json:"capitalShare"`
	InterestShare    decimal.Decimal `json:"interestShare"`
	InsuranceShare   decimal.Decimal `json:"insuranceShare"`
	PaidToDate       decimal.Decimal `json:"paidToDate"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	RemainingPeriods int             `json:"remainingPeriods"`
}

// CreditSimulation is a quick estimate for a prospective credit.
type CreditSimulation struct {
	MonthlyPayment   decimal.Decimal `json:"monthlyPayment"` // including insurance
	MonthlyInsurance decimal.Decimal `json:"monthlyInsurance"`
	TotalCost        decimal.Decimal `json:"totalCost"` // interest + insurance, capital excluded
}

// LoanSchedule bundles a loan with its derived schedule.
type LoanSchedule struct {
	Loan    Loan                `json:"loan"`
	Hybrid  bool                `json:"hybrid"`
	Rows    []AmortizationRow   `json:"rows"`
	Summary AmortizationSummary `json:"summary"`
}
