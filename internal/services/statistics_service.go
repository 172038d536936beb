package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sinavly/exam-engine/internal/cache"
	"github.com/sinavly/exam-engine/internal/repositories"
)

const (
	categoryStatsCacheTTL = 5 * time.Minute
)

// CategoryStatistics compares aggregate category performance with one
// user's own numbers. UserStats is nil when no userId was supplied.
type CategoryStatistics struct {
	CategoryID string                          `json:"category_id"`
	Aggregate  *repositories.CategoryStats     `json:"aggregate"`
	UserStats  *repositories.UserCategoryStats `json:"user_stats,omitempty"`
}

// StatisticsService serves performance aggregates over stored results.
type StatisticsService interface {
	GetCategoryStatistics(ctx context.Context, categoryID, userID string) (*CategoryStatistics, error)
}

type statisticsService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger *slog.Logger
}

func NewStatisticsService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger) StatisticsService {
	return &statisticsService{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
	}
}

func (s *statisticsService) GetCategoryStatistics(ctx context.Context, categoryID, userID string) (*CategoryStatistics, error) {
	category, err := s.repo.Category().GetByID(ctx, categoryID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	stats := &CategoryStatistics{CategoryID: categoryID}

	// Aggregate numbers change slowly; serve them through the cache.
	cacheKey := "stats:category:" + categoryID
	var aggregate repositories.CategoryStats
	if err := s.cache.Get(ctx, cacheKey, &aggregate); err == nil {
		stats.Aggregate = &aggregate
	} else {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Statistics cache read failed", "error", err)
		}
		fresh, err := s.repo.Result().GetCategoryStats(ctx, categoryID, category.PassingScore)
		if err != nil {
			return nil, fmt.Errorf("failed to compute category stats: %w", err)
		}
		stats.Aggregate = fresh
		if err := s.cache.Set(ctx, cacheKey, fresh, categoryStatsCacheTTL); err != nil {
			s.logger.Warn("Statistics cache write failed", "error", err)
		}
	}

	if userID != "" {
		userStats, err := s.repo.Result().GetUserCategoryStats(ctx, categoryID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to compute user stats: %w", err)
		}
		stats.UserStats = userStats
	}

	return stats, nil
}
