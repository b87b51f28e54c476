package handlers

import (
	"errors"
	"net/http"
	"strconv"

	apperrors "github.com/SAP-F-2025/learning-trails-service/internal/errors"
	"github.com/SAP-F-2025/learning-trails-service/internal/models"
	"github.com/SAP-F-2025/learning-trails-service/internal/services"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// parseIDParam writes a 400 and returns false when the path parameter is not a positive integer
func parseIDParam(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		details := "ID must be a positive integer"
		if err != nil {
			details = err.Error()
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: details,
		})
		return 0, false
	}
	return uint(id), true
}

// actorFromContext reads the identity set by the auth middleware
func actorFromContext(c *gin.Context) (services.Actor, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
			Code:    "UNAUTHORIZED",
		})
		return services.Actor{}, false
	}
	role, _ := c.Get("user_role")
	userRole, _ := role.(models.UserRole)
	return services.Actor{UserID: userID, Role: userRole}, true
}

func (h *BaseHandler) sendXLSX(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var configErr *apperrors.ConfigurationError
	if errors.As(err, &configErr) {
		h.RespondWithError(c, http.StatusInternalServerError, ErrorResponse{
			Message: "Learning content is misconfigured",
			Code:    "CONFIGURATION_ERROR",
			Details: map[string]interface{}{
				"reason":  configErr.Reason,
				"context": configErr.Context,
			},
		}, err)
		return
	}

	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithError(c, http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Code:    "VALIDATION_ERROR",
			Details: validationErrors,
		}, err)
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		h.RespondWithError(c, http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Code:    "FORBIDDEN",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		}, err)
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		h.RespondWithError(c, http.StatusUnprocessableEntity, ErrorResponse{
			Message: businessRuleError.Message,
			Code:    "BUSINESS_RULE",
			Details: map[string]interface{}{
				"rule":    businessRuleError.Rule,
				"context": businessRuleError.Context,
			},
		}, err)
		return
	}

	switch {
	case errors.Is(err, services.ErrContentBlocked):
		h.RespondWithError(c, http.StatusForbidden, ErrorResponse{Message: "Content is blocked", Code: "CONTENT_BLOCKED"}, err)
	case errors.Is(err, services.ErrNotEnrolled):
		h.RespondWithError(c, http.StatusForbidden, ErrorResponse{Message: "Not enrolled in class", Code: "NOT_ENROLLED"}, err)
	case errors.Is(err, services.ErrRetakeNotAllowed):
		h.RespondWithError(c, http.StatusConflict, ErrorResponse{Message: "Quiz cannot be retaken", Code: "RETAKE_NOT_ALLOWED", Details: err.Error()}, err)
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, ErrorResponse{Message: "Resource not found", Code: "NOT_FOUND", Details: err.Error()}, err)
	case services.IsValidation(err):
		h.RespondWithError(c, http.StatusBadRequest, ErrorResponse{Message: "Validation failed", Code: "VALIDATION_ERROR", Details: err.Error()}, err)
	case services.IsUnauthorized(err):
		h.RespondWithError(c, http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized access", Code: "UNAUTHORIZED"}, err)
	case services.IsForbidden(err):
		h.RespondWithError(c, http.StatusForbidden, ErrorResponse{Message: "Forbidden - insufficient permissions", Code: "FORBIDDEN"}, err)
	case services.IsConflict(err):
		h.RespondWithError(c, http.StatusConflict, ErrorResponse{Message: "Resource conflict", Code: "CONFLICT"}, err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, ErrorResponse{Message: "Internal server error", Code: "INTERNAL_ERROR"}, err)
	}
}
