package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sinavly/exam-engine/internal/services"
	"github.com/sinavly/exam-engine/internal/utils"
)

type HandlerManager struct {
	catalogHandler      *CatalogHandler
	sessionHandler      *SessionHandler
	predictionHandler   *PredictionHandler
	importExportHandler *ImportExportHandler
}

func NewHandlerManager(
	catalogService services.CatalogService,
	sessionService services.SessionService,
	predictionService services.PredictionService,
	registrationService services.RegistrationService,
	statisticsService services.StatisticsService,
	importExportService services.ImportExportService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		catalogHandler:      NewCatalogHandler(catalogService, statisticsService, logger),
		sessionHandler:      NewSessionHandler(sessionService, logger),
		predictionHandler:   NewPredictionHandler(predictionService, registrationService, logger),
		importExportHandler: NewImportExportHandler(importExportService, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Exam catalog routes
		categories := v1.Group("/exam-categories")
		{
			categories.GET("", hm.catalogHandler.ListCategories)
			categories.GET("/:id", hm.catalogHandler.GetCategory)
			categories.GET("/:id/questions", hm.catalogHandler.GetCategoryQuestions)
			categories.GET("/:id/statistics", hm.catalogHandler.GetCategoryStatistics)
			categories.POST("/:id/questions/import", hm.importExportHandler.ImportQuestions)
		}

		// User-scoped routes
		users := v1.Group("/users/:userId")
		{
			users.POST("/exam-sessions", hm.sessionHandler.CreateSession)
			users.POST("/exam-sessions/submit", hm.sessionHandler.SubmitSession)
			users.GET("/exam-sessions/:sessionId", hm.sessionHandler.GetSession)
			users.DELETE("/exam-sessions/:sessionId", hm.sessionHandler.CancelSession)

			users.POST("/exam-registration", hm.predictionHandler.RegisterExam)
			users.GET("/exam-registration", hm.predictionHandler.ListRegistrations)

			users.GET("/results/export", hm.importExportHandler.ExportResults)
		}

		// Session results by session id (user-agnostic read)
		v1.GET("/exam-sessions/:sessionId/results", hm.sessionHandler.GetSessionResult)

		// Success prediction
		v1.GET("/success-prediction", hm.predictionHandler.GetSuccessPrediction)
	}
}

// HealthCheck reports service liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "exam-engine",
	})
}
