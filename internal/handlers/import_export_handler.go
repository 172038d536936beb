package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sinavly/exam-engine/internal/models"
	"github.com/sinavly/exam-engine/internal/services"
	"github.com/sinavly/exam-engine/internal/utils"
)

type ImportExportHandler struct {
	BaseHandler
	importExportService services.ImportExportService
}

func NewImportExportHandler(importExportService services.ImportExportService, logger utils.Logger) *ImportExportHandler {
	return &ImportExportHandler{
		BaseHandler:         NewBaseHandler(logger),
		importExportService: importExportService,
	}
}

// ImportQuestions loads curated questions from an uploaded CSV or Excel
// file into a category's question bank
func (h *ImportExportHandler) ImportQuestions(c *gin.Context) {
	categoryID := ParseStringIDParam(c, "id")
	if categoryID == "" {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "VALIDATION_FAILED", err, "dosya yüklenemedi")
		return
	}
	defer file.Close()

	summary, err := h.importExportService.ImportQuestionsFromFile(c.Request.Context(), file, header.Filename, categoryID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	status := http.StatusCreated
	if summary.ErrorCount > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, summary)
}

// ExportResults streams a user's stored results as CSV or XLSX
func (h *ImportExportHandler) ExportResults(c *gin.Context) {
	userID := ParseStringIDParam(c, "userId")
	if userID == "" {
		return
	}

	req := &models.ExportRequest{
		UserID:     userID,
		CategoryID: c.Query("categoryId"),
		Format:     c.DefaultQuery("format", "xlsx"),
	}
	if from := c.Query("from"); from != "" {
		if parsed, err := time.Parse("2006-01-02", from); err == nil {
			req.DateFrom = &parsed
		}
	}
	if to := c.Query("to"); to != "" {
		if parsed, err := time.Parse("2006-01-02", to); err == nil {
			req.DateTo = &parsed
		}
	}

	payload, contentType, err := h.importExportService.ExportResults(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := "exam-results-" + time.Now().Format("20060102") + "." + req.Format
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, payload)
}
