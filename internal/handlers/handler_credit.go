package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/buddyair/internal/core/ports/services"
	"github.com/SscSPs/buddyair/internal/dto"
	"github.com/SscSPs/buddyair/internal/middleware"
	"github.com/gin-gonic/gin"
)

type creditHandler struct {
	creditService portssvc.CreditSvcFacade
}

// RegisterCreditRoutes registers loan and credit simulation routes.
func RegisterCreditRoutes(rg *gin.RouterGroup, creditService portssvc.CreditSvcFacade) {
	h := &creditHandler{creditService: creditService}

	loans := rg.Group("/loans")
	{
		loans.POST("/simulate", h.simulate)
		loans.POST("", h.createLoan)
		loans.GET("", h.listLoans)
		loans.GET("/:loanID/schedule", h.getSchedule)
	}
}

// createLoan godoc
// @Summary Record a loan
// @Description Stores the loan parameters; an optional linked credit account enables hybrid schedules
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   loan body dto.CreateLoanRequest true "Loan parameters"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Invalid loan parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Linked account not found"
// @Security BearerAuth
// @Router /loans [post]
func (h *creditHandler) createLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateLoan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	loan, err := h.creditService.CreateLoan(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create loan")
		return
	}
	logger.Info("Loan created", slog.String("loan_id", loan.LoanID))
	c.JSON(http.StatusCreated, dto.ToLoanResponse(loan))
}

// listLoans godoc
// @Summary List loans
// @Tags loans
// @Produce  json
// @Success 200 {object} dto.ListLoansResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /loans [get]
func (h *creditHandler) listLoans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	loans, err := h.creditService.ListLoans(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list loans")
		return
	}
	c.JSON(http.StatusOK, dto.ListLoansResponse{Loans: dto.ToLoanResponses(loans)})
}

// getSchedule godoc
// @Summary Loan amortization schedule
// @Description Full schedule with cost summary. With a linked account, periods from now on restart from the actual outstanding balance.
// @Tags loans
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Success 200 {object} domain.LoanSchedule
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Loan not found"
// @Security BearerAuth
// @Router /loans/{loanID}/schedule [get]
func (h *creditHandler) getSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	schedule, err := h.creditService.GetLoanSchedule(c.Request.Context(), userID, c.Param("loanID"))
	if err != nil {
		respondError(c, logger, err, "Failed to compute loan schedule")
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// simulate godoc
// @Summary Simulate a credit
// @Description Monthly payment, insurance and total cost of a prospective credit. Nothing is stored.
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   simulation body dto.SimulateCreditRequest true "Credit parameters"
// @Success 200 {object} domain.CreditSimulation
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /loans/simulate [post]
func (h *creditHandler) simulate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SimulateCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if _, ok := requireUserID(c, logger); !ok {
		return
	}

	sim, err := h.creditService.Simulate(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to simulate credit")
		return
	}
	c.JSON(http.StatusOK, sim)
}
