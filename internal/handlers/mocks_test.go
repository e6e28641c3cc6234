package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/buddyair/internal/core/domain"
	portssvc "github.com/SscSPs/buddyair/internal/core/ports/services"
	"github.com/SscSPs/buddyair/internal/dto"
	"github.com/SscSPs/buddyair/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testJWTSecret = "test-secret-key-that-is-long-enough"
	testIssuer    = "buddyair-test"
)

// signTestToken creates a short-lived HS256 token for userID.
func signTestToken(userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
}

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, userID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, userID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) VerifyBalance(ctx context.Context, userID string, accountID string) (*domain.BalanceCheck, error) {
	args := m.Called(ctx, userID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceCheck), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) ListEntriesByAccount(ctx context.Context, userID string, accountID string, params dto.ListEntriesParams) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, userID, accountID, params)
	var token *string
	if t := args.Get(1); t != nil {
		token = t.(*string)
	}
	if args.Get(0) == nil {
		return nil, token, args.Error(2)
	}
	return args.Get(0).([]domain.LedgerEntry), token, args.Error(2)
}
func (m *MockLedgerService) CreateEntry(ctx context.Context, userID string, accountID string, req dto.CreateEntryRequest) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, userID, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}
func (m *MockLedgerService) DeleteEntry(ctx context.Context, userID string, entryID string) error {
	args := m.Called(ctx, userID, entryID)
	return args.Error(0)
}
func (m *MockLedgerService) SetEntryStatus(ctx context.Context, userID string, entryID string, status domain.EntryStatus) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, userID, entryID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock RuleService ---
type MockRuleService struct {
	mock.Mock
}

func (m *MockRuleService) GetRule(ctx context.Context, userID string, ruleID string) (*domain.RecurrenceRule, error) {
	args := m.Called(ctx, userID, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurrenceRule), args.Error(1)
}
func (m *MockRuleService) ListRules(ctx context.Context, userID string) ([]domain.RecurrenceRule, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurrenceRule), args.Error(1)
}
func (m *MockRuleService) PreviewOccurrences(ctx context.Context, userID string, ruleID string, count int) ([]time.Time, error) {
	args := m.Called(ctx, userID, ruleID, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}
func (m *MockRuleService) CreateRule(ctx context.Context, req dto.CreateRuleRequest, userID string) (*domain.RecurrenceRule, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurrenceRule), args.Error(1)
}
func (m *MockRuleService) UpdateRule(ctx context.Context, userID string, ruleID string, req dto.UpdateRuleRequest) (*domain.RecurrenceRule, error) {
	args := m.Called(ctx, userID, ruleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurrenceRule), args.Error(1)
}
func (m *MockRuleService) DeleteRule(ctx context.Context, userID string, ruleID string) error {
	args := m.Called(ctx, userID, ruleID)
	return args.Error(0)
}

var _ portssvc.RecurrenceRuleSvcFacade = (*MockRuleService)(nil)

// --- Mock GeneratorService ---
type MockGeneratorService struct {
	mock.Mock
}

func (m *MockGeneratorService) GenerateDue(ctx context.Context, userID string, horizon time.Time) (*domain.GenerationResult, error) {
	args := m.Called(ctx, userID, horizon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerationResult), args.Error(1)
}
func (m *MockGeneratorService) DefaultHorizon() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}
func (m *MockGeneratorService) ForceOccurrence(ctx context.Context, userID string, ruleID string, year int, month time.Month) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, userID, ruleID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

var _ portssvc.ScheduleGeneratorSvc = (*MockGeneratorService)(nil)

// --- Mock BudgetService ---
type MockBudgetService struct {
	mock.Mock
}

func (m *MockBudgetService) CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, userID string) (*domain.Budget, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}
func (m *MockBudgetService) UpdateBudget(ctx context.Context, userID string, budgetID string, req dto.UpdateBudgetRequest) (*domain.Budget, error) {
	args := m.Called(ctx, userID, budgetID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}
func (m *MockBudgetService) DeleteBudget(ctx context.Context, userID string, budgetID string) error {
	args := m.Called(ctx, userID, budgetID)
	return args.Error(0)
}
func (m *MockBudgetService) ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Budget), args.Error(1)
}
func (m *MockBudgetService) GetBudgetReport(ctx context.Context, userID string, year int, month time.Month, sortBy domain.BudgetSort) (*domain.BudgetReport, error) {
	args := m.Called(ctx, userID, year, month, sortBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetReport), args.Error(1)
}
func (m *MockBudgetService) GetBalanceSummary(ctx context.Context, userID string, year int, month time.Month) (*domain.BalanceSummary, error) {
	args := m.Called(ctx, userID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSummary), args.Error(1)
}
func (m *MockBudgetService) CurrentPeriod() (int, time.Month) {
	args := m.Called()
	return args.Int(0), args.Get(1).(time.Month)
}

var _ portssvc.BudgetSvcFacade = (*MockBudgetService)(nil)

// --- Mock CreditService ---
type MockCreditService struct {
	mock.Mock
}

func (m *MockCreditService) CreateLoan(ctx context.Context, req dto.CreateLoanRequest, userID string) (*domain.Loan, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockCreditService) GetLoan(ctx context.Context, userID string, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, userID, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockCreditService) ListLoans(ctx context.Context, userID string) ([]domain.Loan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}
func (m *MockCreditService) GetLoanSchedule(ctx context.Context, userID string, loanID string) (*domain.LoanSchedule, error) {
	args := m.Called(ctx, userID, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanSchedule), args.Error(1)
}
func (m *MockCreditService) Simulate(ctx context.Context, req dto.SimulateCreditRequest) (*domain.CreditSimulation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditSimulation), args.Error(1)
}

var _ portssvc.CreditSvcFacade = (*MockCreditService)(nil)

// newTestRouter returns a gin engine in test mode behind the real auth middleware, grouped like production.
func newTestRouter() (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	v1 := router.Group("/api/v1", middleware.AuthMiddleware(testJWTSecret, testIssuer))
	return router, v1
}

// perform serves one request as userID; an empty userID sends no Authorization header.
func perform(t *testing.T, router http.Handler, method, url, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		token, err := signTestToken(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
