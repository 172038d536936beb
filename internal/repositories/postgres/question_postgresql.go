package postgres

import (
	"context"

	"github.com/sinavly/exam-engine/internal/models"
	"github.com/sinavly/exam-engine/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q QuestionPostgreSQL) Create(ctx context.Context, question *models.ExamQuestion) error {
	return q.db.WithContext(ctx).Create(question).Error
}

func (q QuestionPostgreSQL) CreateBatch(ctx context.Context, questions []*models.ExamQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	return q.db.WithContext(ctx).CreateInBatches(questions, 100).Error
}

func (q QuestionPostgreSQL) GetByID(ctx context.Context, id string) (*models.ExamQuestion, error) {
	var question models.ExamQuestion
	if err := q.db.WithContext(ctx).First(&question, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (q QuestionPostgreSQL) GetByIDs(ctx context.Context, ids []string) ([]*models.ExamQuestion, error) {
	var questions []*models.ExamQuestion
	if len(ids) == 0 {
		return questions, nil
	}
	if err := q.db.WithContext(ctx).Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q QuestionPostgreSQL) GetByCategory(ctx context.Context, categoryID string, filters repositories.QuestionFilters) ([]*models.ExamQuestion, error) {
	var questions []*models.ExamQuestion

	query := q.db.WithContext(ctx).
		Model(&models.ExamQuestion{}).
		Where("category_id = ?", categoryID)
	query = q.applyFilters(query, filters)

	// Stable subject grouping; the provisioner reorders subjects into the
	// category's declared order.
	query = query.Order("subject, created_at, id")

	if err := query.Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q QuestionPostgreSQL) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	var count int64
	err := q.db.WithContext(ctx).
		Model(&models.ExamQuestion{}).
		Where("category_id = ? AND synthetic = false", categoryID).
		Count(&count).Error
	return count, err
}

func (q QuestionPostgreSQL) applyFilters(query *gorm.DB, filters repositories.QuestionFilters) *gorm.DB {
	if filters.Subject != nil {
		query = query.Where("subject = ?", *filters.Subject)
	}
	if filters.Difficulty != nil {
		query = query.Where("difficulty = ?", *filters.Difficulty)
	}
	if filters.Synthetic != nil {
		query = query.Where("synthetic = ?", *filters.Synthetic)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
