package handlers

import (
	"context"
	"net/http"

	"github.com/SAP-F-2025/learning-trails-service/internal/models"
	"github.com/SAP-F-2025/learning-trails-service/internal/services"
	"github.com/SAP-F-2025/learning-trails-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type TrailHandler struct {
	BaseHandler
	trailService services.TrailService
}

func NewTrailHandler(trailService services.TrailService, logger utils.Logger) *TrailHandler {
	return &TrailHandler{
		BaseHandler:  NewBaseHandler(logger),
		trailService: trailService,
	}
}

type setBlockedFunc func(ctx context.Context, actor services.Actor, id uint, blocked bool) error

// @Router /trails/{id}/blocked [patch]
func (h *TrailHandler) SetTrailBlocked(c *gin.Context) {
	h.setBlocked(c, h.trailService.SetTrailBlocked)
}

// @Router /modules/{id}/blocked [patch]
func (h *TrailHandler) SetModuleBlocked(c *gin.Context) {
	h.setBlocked(c, h.trailService.SetModuleBlocked)
}

// @Router /contents/{id}/blocked [patch]
func (h *TrailHandler) SetContentBlocked(c *gin.Context) {
	h.setBlocked(c, h.trailService.SetContentBlocked)
}

func (h *TrailHandler) setBlocked(c *gin.Context, set setBlockedFunc) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.SetBlockedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := set(c.Request.Context(), actor, id, *req.Blocked); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "blocked": *req.Blocked})
}
