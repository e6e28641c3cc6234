package mapping

import (
	"github.com/SscSPs/buddyair/internal/core/domain"
	"github.com/SscSPs/buddyair/internal/models"
)

// ToModelLoan converts a domain Loan to a model Loan
func ToModelLoan(d domain.Loan) models.Loan {
	return models.Loan{
		LoanID:         d.LoanID,
		UserID:         d.UserID,
		AccountID:      d.AccountID,
		Name:           d.Name,
		Principal:      d.Principal,
		AnnualRate:     d.AnnualRate,
		TermMonths:     d.TermMonths,
		StartDate:      d.StartDate,
		InsuranceRate:  d.InsuranceRate,
		InsuranceFixed: d.InsuranceFixed,
		MonthlyPayment: d.MonthlyPayment,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLoan converts a model Loan to a domain Loan
func ToDomainLoan(m models.Loan) domain.Loan {
	return domain.Loan{
		LoanID:         m.LoanID,
		UserID:         m.UserID,
		AccountID:      m.AccountID,
		Name:           m.Name,
		Principal:      m.Principal,
		AnnualRate:     m.AnnualRate,
		TermMonths:     m.TermMonths,
		StartDate:      m.StartDate,
		InsuranceRate:  m.InsuranceRate,
		InsuranceFixed: m.InsuranceFixed,
		MonthlyPayment: m.MonthlyPayment,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
