package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sinavly/exam-engine/internal/models"
	"github.com/sinavly/exam-engine/internal/repositories"
	"github.com/sinavly/exam-engine/internal/services"
	"github.com/sinavly/exam-engine/internal/utils"
)

type CatalogHandler struct {
	BaseHandler
	catalogService    services.CatalogService
	statisticsService services.StatisticsService
}

func NewCatalogHandler(catalogService services.CatalogService, statisticsService services.StatisticsService, logger utils.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:       NewBaseHandler(logger),
		catalogService:    catalogService,
		statisticsService: statisticsService,
	}
}

// ListCategories returns every exam category in declared priority order
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategory returns one exam category by id
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	category, err := h.catalogService.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// GetCategoryQuestions returns curated questions for practice, with
// answers and explanations stripped
func (h *CatalogHandler) GetCategoryQuestions(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	filters := repositories.QuestionFilters{
		Limit:  ParseIntQuery(c, "count", 20),
		Offset: ParseIntQuery(c, "offset", 0),
	}
	if subject := c.Query("subject"); subject != "" {
		filters.Subject = &subject
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		level := models.DifficultyLevel(difficulty)
		if !level.Valid() {
			h.RespondWithError(c, http.StatusBadRequest, "VALIDATION_FAILED", nil, "geçersiz zorluk seviyesi")
			return
		}
		filters.Difficulty = &level
	}

	questions, err := h.catalogService.GetCategoryQuestions(c.Request.Context(), id, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category_id": id,
		"questions":   questions,
		"count":       len(questions),
	})
}

// GetCategoryStatistics compares aggregate category performance with the
// optional user's own numbers
func (h *CatalogHandler) GetCategoryStatistics(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	stats, err := h.statisticsService.GetCategoryStatistics(c.Request.Context(), id, c.Query("userId"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
