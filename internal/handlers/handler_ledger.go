package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/buddyair/internal/core/ports/services"
	"github.com/SscSPs/buddyair/internal/dto"
	"github.com/SscSPs/buddyair/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// RegisterLedgerRoutes registers routes that act on a single ledger entry.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &ledgerHandler{ledgerService: ledgerService}

	entries := rg.Group("/entries")
	{
		entries.DELETE("/:entryID", h.deleteEntry)
		entries.PATCH("/:entryID/status", h.setStatus)
	}
}

// deleteEntry godoc
// @Summary Delete a ledger entry
// @Description Deletes the entry and its transfer mirror, reversing both balance changes
// @Tags entries
// @Param   entryID path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to delete entry"
// @Security BearerAuth
// @Router /entries/{entryID} [delete]
func (h *ledgerHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entryID := c.Param("entryID")
	if err := h.ledgerService.DeleteEntry(c.Request.Context(), userID, entryID); err != nil {
		respondError(c, logger, err, "Failed to delete entry")
		return
	}
	logger.Info("Entry deleted", slog.String("entry_id", entryID))
	c.Status(http.StatusNoContent)
}

// setStatus godoc
// @Summary Reconcile a ledger entry
// @Description Sets pending or completed; completed stamps the reconciliation time. The transfer mirror follows.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   status body dto.UpdateEntryStatusRequest true "New status"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /entries/{entryID}/status [patch]
func (h *ledgerHandler) setStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateEntryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.ledgerService.SetEntryStatus(c.Request.Context(), userID, c.Param("entryID"), req.Status)
	if err != nil {
		respondError(c, logger, err, "Failed to update entry status")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}
