package postgres

import (
	"context"

	"github.com/sinavly/exam-engine/internal/models"
	"github.com/sinavly/exam-engine/internal/repositories"
	"gorm.io/gorm"
)

type ResultPostgreSQL struct {
	db *gorm.DB
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{db: db}
}

func (r ResultPostgreSQL) Create(ctx context.Context, result *models.ExamResult) error {
	// The unique index on session_id enforces the one-result-per-session
	// invariant at the storage layer.
	return r.db.WithContext(ctx).Create(result).Error
}

func (r ResultPostgreSQL) GetBySession(ctx context.Context, sessionID string) (*models.ExamResult, error) {
	var result models.ExamResult
	if err := r.db.WithContext(ctx).First(&result, "session_id = ?", sessionID).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r ResultPostgreSQL) GetByUser(ctx context.Context, userID string, filters repositories.ResultFilters) ([]*models.ExamResult, error) {
	var results []*models.ExamResult

	query := r.db.WithContext(ctx).
		Model(&models.ExamResult{}).
		Where("user_id = ?", userID)
	query = r.applyFilters(query, filters)

	if err := query.Order("generated_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type categoryStatsRow struct {
	TotalAttempts    int
	AverageScore     float64
	AveragePercent   float64
	BestScore        float64
	Passed           int
	AverageTimeSpent float64
}

func (r ResultPostgreSQL) GetCategoryStats(ctx context.Context, categoryID string, passingScore float64) (*repositories.CategoryStats, error) {
	var row categoryStatsRow
	err := r.db.WithContext(ctx).
		Model(&models.ExamResult{}).
		Select(`COUNT(*) AS total_attempts,
			COALESCE(AVG(raw_score), 0) AS average_score,
			COALESCE(AVG(percentage_score), 0) AS average_percent,
			COALESCE(MAX(raw_score), 0) AS best_score,
			COALESCE(SUM(CASE WHEN raw_score >= ? THEN 1 ELSE 0 END), 0) AS passed,
			COALESCE(AVG(total_time_spent_seconds), 0) AS average_time_spent`, passingScore).
		Joins("JOIN mock_exam_sessions ON mock_exam_sessions.id = exam_results.session_id").
		Where("mock_exam_sessions.category_id = ?", categoryID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	stats := &repositories.CategoryStats{
		TotalAttempts:    row.TotalAttempts,
		AverageScore:     row.AverageScore,
		AveragePercent:   row.AveragePercent,
		BestScore:        row.BestScore,
		AverageTimeSpent: int(row.AverageTimeSpent),
	}
	if row.TotalAttempts > 0 {
		stats.PassRate = float64(row.Passed) / float64(row.TotalAttempts) * 100
	}
	return stats, nil
}

func (r ResultPostgreSQL) GetUserCategoryStats(ctx context.Context, categoryID, userID string) (*repositories.UserCategoryStats, error) {
	var results []*models.ExamResult
	err := r.db.WithContext(ctx).
		Model(&models.ExamResult{}).
		Joins("JOIN mock_exam_sessions ON mock_exam_sessions.id = exam_results.session_id").
		Where("mock_exam_sessions.category_id = ? AND exam_results.user_id = ?", categoryID, userID).
		Order("exam_results.generated_at").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	stats := &repositories.UserCategoryStats{Attempts: len(results)}
	if len(results) == 0 {
		return stats, nil
	}

	var scoreSum, percentSum float64
	for _, res := range results {
		scoreSum += res.RawScore
		percentSum += res.PercentageScore
		if res.RawScore > stats.BestScore {
			stats.BestScore = res.RawScore
		}
	}
	stats.AverageScore = scoreSum / float64(len(results))
	stats.AveragePercent = percentSum / float64(len(results))
	stats.LastPercent = results[len(results)-1].PercentageScore
	return stats, nil
}

func (r ResultPostgreSQL) applyFilters(query *gorm.DB, filters repositories.ResultFilters) *gorm.DB {
	if filters.CategoryID != nil {
		query = query.
			Joins("JOIN mock_exam_sessions ON mock_exam_sessions.id = exam_results.session_id").
			Where("mock_exam_sessions.category_id = ?", *filters.CategoryID)
	}
	if filters.DateFrom != nil {
		query = query.Where("generated_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("generated_at <= ?", *filters.DateTo)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
