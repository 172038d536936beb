package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sinavly/exam-engine/internal/cache"
	"github.com/sinavly/exam-engine/internal/models"
	"github.com/sinavly/exam-engine/internal/repositories"
)

const (
	categoryListCacheKey = "catalog:categories"
	categoryCacheTTL     = 10 * time.Minute
)

// CatalogService is the read-only surface of the exam category registry
// and its question bank.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]*models.ExamCategory, error)
	GetCategory(ctx context.Context, id string) (*models.ExamCategory, error)

	// GetCategoryQuestions returns curated questions for client-side
	// practice, with explanations and correct answers stripped.
	GetCategoryQuestions(ctx context.Context, categoryID string, filters repositories.QuestionFilters) ([]models.ExamQuestion, error)
}

type catalogService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger *slog.Logger
}

func NewCatalogService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger) CatalogService {
	return &catalogService{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
	}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*models.ExamCategory, error) {
	var cached []*models.ExamCategory
	if err := s.cache.Get(ctx, categoryListCacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Category cache read failed", "error", err)
	}

	categories, err := s.repo.Category().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if err := s.cache.Set(ctx, categoryListCacheKey, categories, categoryCacheTTL); err != nil {
		s.logger.Warn("Category cache write failed", "error", err)
	}
	return categories, nil
}

func (s *catalogService) GetCategory(ctx context.Context, id string) (*models.ExamCategory, error) {
	category, err := s.repo.Category().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (s *catalogService) GetCategoryQuestions(ctx context.Context, categoryID string, filters repositories.QuestionFilters) ([]models.ExamQuestion, error) {
	if _, err := s.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	if filters.Synthetic == nil {
		// Practice listings serve curated content only.
		curatedOnly := false
		filters.Synthetic = &curatedOnly
	}
	questions, err := s.repo.Question().GetByCategory(ctx, categoryID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}

	sanitized := make([]models.ExamQuestion, len(questions))
	for i, q := range questions {
		sanitized[i] = q.Sanitized()
	}
	return sanitized, nil
}
