package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sinavly/exam-engine/internal/services"
	"github.com/sinavly/exam-engine/internal/utils"
)

type PredictionHandler struct {
	BaseHandler
	predictionService   services.PredictionService
	registrationService services.RegistrationService
}

func NewPredictionHandler(predictionService services.PredictionService, registrationService services.RegistrationService, logger utils.Logger) *PredictionHandler {
	return &PredictionHandler{
		BaseHandler:         NewBaseHandler(logger),
		predictionService:   predictionService,
		registrationService: registrationService,
	}
}

// GetSuccessPrediction estimates the chance of reaching the target score
// by the exam date
func (h *PredictionHandler) GetSuccessPrediction(c *gin.Context) {
	req := services.PredictionRequest{
		UserID:            c.Query("userId"),
		CategoryID:        c.Query("categoryId"),
		CurrentScore:      ParseFloatQuery(c, "currentScore", 0),
		TargetScore:       ParseFloatQuery(c, "targetScore", 0),
		StudyHoursPerWeek: ParseFloatQuery(c, "studyHours", 0),
	}

	examDate := c.Query("examDate")
	if examDate == "" {
		h.RespondWithError(c, http.StatusBadRequest, "VALIDATION_FAILED", nil, "examDate zorunludur")
		return
	}
	parsed, err := time.Parse("2006-01-02", examDate)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "VALIDATION_FAILED", err, "examDate YYYY-MM-DD biçiminde olmalıdır")
		return
	}
	req.DaysUntilExam = int(time.Until(parsed).Hours() / 24)

	prediction, err := h.predictionService.Predict(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, prediction)
}

// RegisterExam records an official exam commitment and returns the
// generated study plan
func (h *PredictionHandler) RegisterExam(c *gin.Context) {
	userID := ParseStringIDParam(c, "userId")
	if userID == "" {
		return
	}

	var req services.RegisterExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "VALIDATION_FAILED", err, err.Error())
		return
	}

	response, err := h.registrationService.Register(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListRegistrations returns the user's exam registrations
func (h *PredictionHandler) ListRegistrations(c *gin.Context) {
	userID := ParseStringIDParam(c, "userId")
	if userID == "" {
		return
	}

	registrations, err := h.registrationService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"registrations": registrations})
}
