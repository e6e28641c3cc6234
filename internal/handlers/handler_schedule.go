package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/buddyair/internal/apperrors"
	portssvc "github.com/SscSPs/buddyair/internal/core/ports/services"
	"github.com/SscSPs/buddyair/internal/dto"
	"github.com/SscSPs/buddyair/internal/middleware"
	"github.com/gin-gonic/gin"
)

// scheduleHandler handles HTTP requests related to recurrence rules and their generation.
type scheduleHandler struct {
	ruleService      portssvc.RecurrenceRuleSvcFacade
	generatorService portssvc.ScheduleGeneratorSvc
}

func newScheduleHandler(rs portssvc.RecurrenceRuleSvcFacade, gs portssvc.ScheduleGeneratorSvc) *scheduleHandler {
	return &scheduleHandler{
		ruleService:      rs,
		generatorService: gs,
	}
}

// RegisterScheduleRoutes registers routes related to recurrence rules.
func RegisterScheduleRoutes(rg *gin.RouterGroup, ruleService portssvc.RecurrenceRuleSvcFacade, generatorService portssvc.ScheduleGeneratorSvc) {
	h := newScheduleHandler(ruleService, generatorService)

	schedules := rg.Group("/schedules")
	{
		schedules.POST("/generate", h.generate)
		schedules.POST("", h.createRule)
		schedules.GET("", h.listRules)
		schedules.GET("/:ruleID", h.getRule)
		schedules.PUT("/:ruleID", h.updateRule)
		schedules.DELETE("/:ruleID", h.deleteRule)
		schedules.GET("/:ruleID/occurrences", h.previewOccurrences)
		schedules.POST("/:ruleID/force", h.forceOccurrence)
	}
}

// generate godoc
// @Summary Generate due occurrences
// @Description Materializes every due occurrence of the user's active rules up to the horizon (default: end of the current month). Returns 207 when some rules failed.
// @Tags schedules
// @Produce  json
// @Param   horizon query string false "Horizon date (YYYY-MM-DD)"
// @Success 200 {object} dto.GenerationResponse
// @Success 207 {object} dto.GenerationResponse "Some rules failed"
// @Failure 400 {object} map[string]string "Invalid horizon"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate occurrences"
// @Security BearerAuth
// @Router /schedules/generate [post]
func (h *scheduleHandler) generate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var params dto.GenerateParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for Generate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	horizon := h.generatorService.DefaultHorizon()
	if params.Horizon != "" {
		parsed, err := time.Parse(time.DateOnly, params.Horizon)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "horizon must be formatted YYYY-MM-DD"})
			return
		}
		horizon = parsed
	}

	result, err := h.generatorService.GenerateDue(c.Request.Context(), userID, horizon)
	if err != nil {
		respondError(c, logger, err, "Failed to generate occurrences")
		return
	}

	status := http.StatusOK
	if runErr := result.Err(); runErr != nil {
		var partial *apperrors.PartialGenerationError
		if errors.As(runErr, &partial) {
			logger.Warn("Generation finished with failures", slog.Int("failed", len(partial.Failures)))
		}
		status = http.StatusMultiStatus
	}
	c.JSON(status, dto.ToGenerationResponse(result))
}

// createRule godoc
// @Summary Create a recurrence rule
// @Description Creates a rule; its next date is the first projected occurrence on or after the start date
// @Tags schedules
// @Accept  json
// @Produce  json
// @Param   rule body dto.CreateRuleRequest true "Rule definition"
// @Success 201 {object} dto.RuleResponse
// @Failure 400 {object} map[string]string "Invalid rule"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to create rule"
// @Security BearerAuth
// @Router /schedules [post]
func (h *scheduleHandler) createRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	rule, err := h.ruleService.CreateRule(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create rule")
		return
	}
	c.JSON(http.StatusCreated, dto.ToRuleResponse(rule))
}

// listRules godoc
// @Summary List recurrence rules
// @Tags schedules
// @Produce  json
// @Success 200 {object} dto.ListRulesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list rules"
// @Security BearerAuth
// @Router /schedules [get]
func (h *scheduleHandler) listRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	rules, err := h.ruleService.ListRules(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list rules")
		return
	}
	c.JSON(http.StatusOK, dto.ListRulesResponse{Rules: dto.ToRuleResponses(rules)})
}

// getRule godoc
// @Summary Get a recurrence rule
// @Tags schedules
// @Produce  json
// @Param   ruleID path string true "Rule ID"
// @Success 200 {object} dto.RuleResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Rule not found"
// @Failure 500 {object} map[string]string "Failed to retrieve rule"
// @Security BearerAuth
// @Router /schedules/{ruleID} [get]
func (h *scheduleHandler) getRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	rule, err := h.ruleService.GetRule(c.Request.Context(), userID, c.Param("ruleID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve rule")
		return
	}
	c.JSON(http.StatusOK, dto.ToRuleResponse(rule))
}

// updateRule godoc
// @Summary Update a recurrence rule
// @Description Changing the pattern re-projects the next date from the current one; it never moves backward
// @Tags schedules
// @Accept  json
// @Produce  json
// @Param   ruleID path string true "Rule ID"
// @Param   rule body dto.UpdateRuleRequest true "Fields to update"
// @Success 200 {object} dto.RuleResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Rule not found"
// @Failure 500 {object} map[string]string "Failed to update rule"
// @Security BearerAuth
// @Router /schedules/{ruleID} [put]
func (h *scheduleHandler) updateRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	rule, err := h.ruleService.UpdateRule(c.Request.Context(), userID, c.Param("ruleID"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to update rule")
		return
	}
	c.JSON(http.StatusOK, dto.ToRuleResponse(rule))
}

// deleteRule godoc
// @Summary Delete a recurrence rule
// @Description Entries already generated are kept
// @Tags schedules
// @Param   ruleID path string true "Rule ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Rule not found"
// @Failure 500 {object} map[string]string "Failed to delete rule"
// @Security BearerAuth
// @Router /schedules/{ruleID} [delete]
func (h *scheduleHandler) deleteRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.ruleService.DeleteRule(c.Request.Context(), userID, c.Param("ruleID")); err != nil {
		respondError(c, logger, err, "Failed to delete rule")
		return
	}
	c.Status(http.StatusNoContent)
}

// previewOccurrences godoc
// @Summary Preview upcoming occurrences
// @Tags schedules
// @Produce  json
// @Param   ruleID path string true "Rule ID"
// @Param   count query int false "Number of occurrences (1-120)" default(6)
// @Success 200 {object} dto.OccurrencePreviewResponse
// @Failure 400 {object} map[string]string "Invalid count"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Rule not found"
// @Security BearerAuth
// @Router /schedules/{ruleID}/occurrences [get]
func (h *scheduleHandler) previewOccurrences(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	var params dto.PreviewParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	ruleID := c.Param("ruleID")
	dates, err := h.ruleService.PreviewOccurrences(c.Request.Context(), userID, ruleID, params.Count)
	if err != nil {
		respondError(c, logger, err, "Failed to preview occurrences")
		return
	}
	c.JSON(http.StatusOK, dto.OccurrencePreviewResponse{RuleID: ruleID, Occurrences: dates})
}

// forceOccurrence godoc
// @Summary Force one occurrence
// @Description Materializes the rule's occurrence in the given month without moving its next date
// @Tags schedules
// @Accept  json
// @Produce  json
// @Param   ruleID path string true "Rule ID"
// @Param   period body dto.ForceOccurrenceRequest true "Target month"
// @Success 201 {object} dto.ForceOccurrenceResponse
// @Failure 400 {object} map[string]string "Month outside the rule's active period"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Rule not found"
// @Failure 409 {object} map[string]string "Occurrence already exists"
// @Security BearerAuth
// @Router /schedules/{ruleID}/force [post]
func (h *scheduleHandler) forceOccurrence(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ForceOccurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	ruleID := c.Param("ruleID")
	entries, err := h.generatorService.ForceOccurrence(c.Request.Context(), userID, ruleID, req.Year, time.Month(req.Month))
	if err != nil {
		respondError(c, logger, err, fmt.Sprintf("Failed to force occurrence %04d-%02d", req.Year, req.Month))
		return
	}

	resp := dto.ForceOccurrenceResponse{RuleID: ruleID, Entries: dto.ToEntryResponses(entries)}
	if len(entries) > 0 && entries[0].OccurrenceDate != nil {
		resp.OccurrenceDate = *entries[0].OccurrenceDate
	}
	c.JSON(http.StatusCreated, resp)
}
