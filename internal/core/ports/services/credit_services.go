package services

import (
	"context"

	"github.com/SscSPs/buddyair/internal/core/domain"
	"github.com/SscSPs/buddyair/internal/dto"
)

// LoanSvc defines operations on stored loans
type LoanSvc interface {
	CreateLoan(ctx context.Context, req dto.CreateLoanRequest, userID string) (*domain.Loan, error)
	GetLoan(ctx context.Context, userID string, loanID string) (*domain.Loan, error)
	ListLoans(ctx context.Context, userID string) ([]domain.Loan, error)

	// GetLoanSchedule derives the amortization schedule; a linked account switches it to hybrid mode.
	GetLoanSchedule(ctx context.Context, userID string, loanID string) (*domain.LoanSchedule, error)
}

// CreditSimulatorSvc estimates prospective credits
type CreditSimulatorSvc interface {
	Simulate(ctx context.Context, req dto.SimulateCreditRequest) (*domain.CreditSimulation, error)
}

// CreditSvcFacade combines all credit-related service interfaces
type CreditSvcFacade interface {
	LoanSvc
	CreditSimulatorSvc
}
