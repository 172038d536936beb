package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sinavly/exam-engine/internal/services"
	"github.com/sinavly/exam-engine/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse carries a stable machine-readable code together with the
// localized user-facing message.
type ErrorResponse struct {
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== LOCALIZATION =====

// turkishMessages maps service error codes to the Turkish text shown to
// users. Localization lives here at the boundary; services only emit
// codes.
var turkishMessages = map[string]string{
	"CATEGORY_NOT_FOUND":        "Sınav kategorisi bulunamadı",
	"SESSION_NOT_FOUND":         "Sınav oturumu bulunamadı",
	"QUESTION_NOT_FOUND":        "Soru bulunamadı",
	"RESULT_NOT_FOUND":          "Sınav sonucu bulunamadı",
	"INVALID_QUESTION_COUNT":    "Soru sayısı pozitif bir sayı olmalıdır",
	"SCORING_CONFIG_CONFLICT":   "Yüzdelik puanlama ile yanlış cezası birlikte kullanılamaz",
	"PAST_EXAM_DATE":            "Geçmiş bir sınav tarihi için işlem yapılamaz",
	"INVALID_TARGET_SCORE":      "Hedef puan 0 ile 100 arasında olmalıdır",
	"SESSION_NOT_ACTIVE":        "Sınav oturumu aktif değil",
	"SESSION_ALREADY_SUBMITTED": "Sınav oturumu zaten tamamlanmış",
	"SESSION_ALREADY_STARTED":   "Sınav oturumu zaten başlatılmış",
	"SESSION_ABANDONED":         "Sınav oturumu iptal edilmiş",
	"SUBMIT_WINDOW_CLOSED":      "Sınav süresi dolmuş, cevaplar kabul edilemiyor",
	"VALIDATION_FAILED":         "Gönderilen veriler doğrulanamadı",
	"NOT_FOUND":                 "Kayıt bulunamadı",
	"CONFLICT":                  "İşlem mevcut durumla çakışıyor",
	"INTERNAL_ERROR":            "Beklenmeyen bir hata oluştu",
}

func localizedMessage(code string) string {
	if msg, ok := turkishMessages[code]; ok {
		return msg
	}
	return turkishMessages["INTERNAL_ERROR"]
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging and error translation for all
// handlers.
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// LogError logs error details with request context
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"request_id", c.GetHeader("X-Request-ID"),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	fields = append(fields, additionalFields...)

	h.logger.LogError(err, message, fields...)
}

// LogInfo logs informational messages with request context
func (h *BaseHandler) LogInfo(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"request_id", c.GetHeader("X-Request-ID"),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"timestamp", time.Now().Format(time.RFC3339),
	}
	fields = append(fields, additionalFields...)

	h.logger.Info(message, fields...)
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, code string, err error, details ...interface{}) {
	errorResp := ErrorResponse{
		Message: localizedMessage(code),
		Code:    code,
	}
	if len(details) > 0 {
		errorResp.Details = details[0]
	}

	if err != nil {
		h.LogError(c, err, errorResp.Message, "status_code", statusCode, "code", code)
	}

	c.JSON(statusCode, errorResp)
}

// RespondWithSuccess sends a consistent success response
func (h *BaseHandler) RespondWithSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, SuccessResponse{
		Message: message,
		Data:    data,
	})
}

// handleServiceError translates a service error into an HTTP response
// with the right status and a localized message.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	code := services.ErrorCode(err)

	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: localizedMessage("VALIDATION_FAILED"),
			Code:    "VALIDATION_FAILED",
			Details: validationErrors,
		})
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: businessRuleError.Message,
			Code:    businessRuleError.Rule,
			Details: businessRuleError.Context,
		})
		return
	}

	switch {
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: localizedMessage(code),
			Code:    code,
		})
	case services.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: localizedMessage(code),
			Code:    code,
			Details: err.Error(),
		})
	case services.IsConflict(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: localizedMessage(code),
			Code:    code,
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: localizedMessage("INTERNAL_ERROR"),
			Code:    "INTERNAL_ERROR",
		})
	}
}
