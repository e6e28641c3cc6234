package dto

import (
	"time"

	"github.com/SscSPs/buddyair/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLoanRequest defines the data needed to record a loan.
type CreateLoanRequest struct {
	Name           string           `json:"name" binding:"required,max=100"`
	AccountID      *string          `json:"accountID"` // Optional: credit account holding the real outstanding balance
	Principal      decimal.Decimal  `json:"principal"`
	AnnualRate     decimal.Decimal  `json:"annualRate"`
	TermMonths     int              `json:"termMonths" binding:"required,min=1,max=1200"`
	StartDate      time.Time        `json:"startDate" binding:"required"`
	InsuranceRate  decimal.Decimal  `json:"insuranceRate"`
	InsuranceFixed decimal.Decimal  `json:"insuranceFixed"`
	MonthlyPayment *decimal.Decimal `json:"monthlyPayment"`
}

// SimulateCreditRequest defines the inputs of a quick credit estimate.
type SimulateCreditRequest struct {
	Principal      decimal.Decimal `json:"principal"`
	AnnualRate     decimal.Decimal `json:"annualRate"`
	TermMonths     int             `json:"termMonths" binding:"required,min=1,max=1200"`
	InsuranceRate  decimal.Decimal `json:"insuranceRate"`
	InsuranceFixed decimal.Decimal `json:"insuranceFixed"`
}

// LoanResponse defines the data returned for a loan.
type LoanResponse struct {
	LoanID         string           `json:"loanID"`
	AccountID      *string          `json:"accountID,omitempty"`
	Name           string           `json:"name"`
	Principal      decimal.Decimal  `json:"principal"`
	AnnualRate     decimal.Decimal  `json:"annualRate"`
	TermMonths     int              `json:"termMonths"`
	StartDate      time.Time        `json:"startDate"`
	InsuranceRate  decimal.Decimal  `json:"insuranceRate"`
	InsuranceFixed decimal.Decimal  `json:"insuranceFixed"`
	MonthlyPayment *decimal.Decimal `json:"monthlyPayment,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// ToLoanResponse converts a domain.Loan to LoanResponse DTO.
func ToLoanResponse(l *domain.Loan) LoanResponse {
	return LoanResponse{
		LoanID:         l.LoanID,
		AccountID:      l.AccountID,
		Name:           l.Name,
		Principal:      l.Principal,
		AnnualRate:     l.AnnualRate,
		TermMonths:     l.TermMonths,
		StartDate:      l.StartDate,
		InsuranceRate:  l.InsuranceRate,
		InsuranceFixed: l.InsuranceFixed,
		MonthlyPayment: l.MonthlyPayment,
		CreatedAt:      l.CreatedAt,
	}
}

// ToLoanResponses converts a slice of loans.
func ToLoanResponses(loans []domain.Loan) []LoanResponse {
	res := make([]LoanResponse, len(loans))
	for i, l := range loans {
		res[i] = ToLoanResponse(&l)
	}
	return res
}

// ListLoansResponse wraps the list of loans.
type ListLoansResponse struct {
	Loans []LoanResponse `json:"loans"`
}
