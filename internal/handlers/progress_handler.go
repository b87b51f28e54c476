package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/learning-trails-service/internal/models"
	"github.com/SAP-F-2025/learning-trails-service/internal/services"
	"github.com/SAP-F-2025/learning-trails-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	BaseHandler
	progressService services.ProgressService
	reportService   services.ReportService
}

func NewProgressHandler(progressService services.ProgressService, reportService services.ReportService, logger utils.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:     NewBaseHandler(logger),
		progressService: progressService,
		reportService:   reportService,
	}
}

// RecordProgress stores a progress tick for the caller
// @Router /progress [post]
func (h *ProgressHandler) RecordProgress(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req models.RecordProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.progressService.RecordProgress(c.Request.Context(), actor.UserID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// MarkComplete completes content for the caller
// @Router /contents/{id}/complete [post]
func (h *ProgressHandler) MarkComplete(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.progressService.MarkComplete(c.Request.Context(), actor.UserID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CheckAccess reports whether the content is reachable through its hierarchy
// @Router /contents/{id}/access [get]
func (h *ProgressHandler) CheckAccess(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.progressService.CheckAccess(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Router /modules/{id}/progress [get]
func (h *ProgressHandler) GetModuleProgress(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.progressService.GetModuleProgress(c.Request.Context(), actor.UserID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Router /trails/{id}/progress [get]
func (h *ProgressHandler) GetTrailProgress(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.progressService.GetTrailProgress(c.Request.Context(), actor.UserID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Router /classes/{id}/progress [get]
func (h *ProgressHandler) GetClassProgress(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.progressService.GetClassProgress(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetClassReport returns every enrolled student's progress
// @Router /classes/{id}/report [get]
func (h *ProgressHandler) GetClassReport(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	roster, err := h.progressService.GetClassRoster(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"class_id": id, "students": roster})
}

// ExportClassReport downloads the class roster progress as a spreadsheet
// @Router /classes/{id}/report.xlsx [get]
func (h *ProgressHandler) ExportClassReport(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	data, err := h.reportService.ExportClassProgress(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.sendXLSX(c, fmt.Sprintf("class_%d_progress.xlsx", id), data)
}
