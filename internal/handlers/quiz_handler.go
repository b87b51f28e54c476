package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/learning-trails-service/internal/models"
	"github.com/SAP-F-2025/learning-trails-service/internal/services"
	"github.com/SAP-F-2025/learning-trails-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	BaseHandler
	quizService   services.QuizService
	reportService services.ReportService
}

func NewQuizHandler(quizService services.QuizService, reportService services.ReportService, logger utils.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler:   NewBaseHandler(logger),
		quizService:   quizService,
		reportService: reportService,
	}
}

// CreateQuiz creates a quiz with its questions
// @Router /quizzes [post]
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var quiz models.Quiz
	if err := c.ShouldBindJSON(&quiz); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	created, err := h.quizService.CreateQuiz(c.Request.Context(), actor, &quiz)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetQuiz returns the quiz without correct answers
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	quiz, err := h.quizService.GetQuizForLearner(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// SubmitQuiz grades the caller's answers
// @Router /quizzes/{id}/submit [post]
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	response, err := h.quizService.Submit(c.Request.Context(), actor.UserID, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListAttempts returns the caller's attempts on the quiz
// @Router /quizzes/{id}/attempts [get]
func (h *QuizHandler) ListAttempts(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	attempts, err := h.quizService.ListAttempts(c.Request.Context(), actor.UserID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attempts": attempts, "total": len(attempts)})
}

// ExportAttempts downloads every attempt on the quiz as a spreadsheet
// @Router /quizzes/{id}/attempts.xlsx [get]
func (h *QuizHandler) ExportAttempts(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	data, err := h.reportService.ExportQuizAttempts(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.sendXLSX(c, fmt.Sprintf("quiz_%d_attempts.xlsx", id), data)
}
