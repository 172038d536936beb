package postgres

import (
	"context"
	"time"

	"github.com/sinavly/exam-engine/internal/models"
	"github.com/sinavly/exam-engine/internal/repositories"
	"gorm.io/gorm"
)

type SessionPostgreSQL struct {
	db *gorm.DB
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{db: db}
}

func (s SessionPostgreSQL) Create(ctx context.Context, session *models.MockExamSession) error {
	return s.db.WithContext(ctx).Create(session).Error
}

func (s SessionPostgreSQL) GetByID(ctx context.Context, id string) (*models.MockExamSession, error) {
	var session models.MockExamSession
	if err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s SessionPostgreSQL) Update(ctx context.Context, session *models.MockExamSession) error {
	return s.db.WithContext(ctx).Save(session).Error
}

func (s SessionPostgreSQL) UpdateStatusIf(ctx context.Context, id string, from []models.SessionStatus, to models.SessionStatus) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.MockExamSession{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s SessionPostgreSQL) ListDeadlinePassed(ctx context.Context, cutoff time.Time) ([]*models.MockExamSession, error) {
	var sessions []*models.MockExamSession
	err := s.db.WithContext(ctx).
		Where("status = ? AND deadline_at < ?", models.SessionActive, cutoff).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}
