package handlers

import (
	"github.com/SAP-F-2025/learning-trails-service/internal/services"
	"github.com/SAP-F-2025/learning-trails-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HandlerManager struct {
	quizHandler     *QuizHandler
	progressHandler *ProgressHandler
	trailHandler    *TrailHandler
	tokenParser     TokenParser
	gatherer        prometheus.Gatherer
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	tokenParser TokenParser,
	gatherer prometheus.Gatherer,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		quizHandler:     NewQuizHandler(serviceManager.Quiz(), serviceManager.Report(), logger),
		progressHandler: NewProgressHandler(serviceManager.Progress(), serviceManager.Report(), logger),
		trailHandler:    NewTrailHandler(serviceManager.Trail(), logger),
		tokenParser:     tokenParser,
		gatherer:        gatherer,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(hm.gatherer, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	v1.Use(AuthMiddleware(hm.tokenParser))
	{
		quizzes := v1.Group("/quizzes")
		{
			quizzes.POST("", RequireAuthor(), hm.quizHandler.CreateQuiz)
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
			quizzes.POST("/:id/submit", hm.quizHandler.SubmitQuiz)
			quizzes.GET("/:id/attempts", hm.quizHandler.ListAttempts)
			quizzes.GET("/:id/attempts.xlsx", RequireAuthor(), hm.quizHandler.ExportAttempts)
		}

		v1.POST("/progress", hm.progressHandler.RecordProgress)

		contents := v1.Group("/contents")
		{
			contents.POST("/:id/complete", hm.progressHandler.MarkComplete)
			contents.GET("/:id/access", hm.progressHandler.CheckAccess)
			contents.PATCH("/:id/blocked", RequireAuthor(), hm.trailHandler.SetContentBlocked)
		}

		modules := v1.Group("/modules")
		{
			modules.GET("/:id/progress", hm.progressHandler.GetModuleProgress)
			modules.PATCH("/:id/blocked", RequireAuthor(), hm.trailHandler.SetModuleBlocked)
		}

		trails := v1.Group("/trails")
		{
			trails.GET("/:id/progress", hm.progressHandler.GetTrailProgress)
			trails.PATCH("/:id/blocked", RequireAuthor(), hm.trailHandler.SetTrailBlocked)
		}

		classes := v1.Group("/classes")
		{
			classes.GET("/:id/progress", hm.progressHandler.GetClassProgress)
			classes.GET("/:id/report", RequireAuthor(), hm.progressHandler.GetClassReport)
			classes.GET("/:id/report.xlsx", RequireAuthor(), hm.progressHandler.ExportClassReport)
		}
	}
}
