package postgres

import (
	"context"

	"github.com/sinavly/exam-engine/internal/models"
	"github.com/sinavly/exam-engine/internal/repositories"
	"gorm.io/gorm"
)

type RegistrationPostgreSQL struct {
	db *gorm.DB
}

func NewRegistrationPostgreSQL(db *gorm.DB) repositories.RegistrationRepository {
	return &RegistrationPostgreSQL{db: db}
}

func (r RegistrationPostgreSQL) Create(ctx context.Context, registration *models.ExamRegistration) error {
	return r.db.WithContext(ctx).Create(registration).Error
}

func (r RegistrationPostgreSQL) GetByUser(ctx context.Context, userID string) ([]*models.ExamRegistration, error) {
	var registrations []*models.ExamRegistration
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("exam_date").
		Find(&registrations).Error
	if err != nil {
		return nil, err
	}
	return registrations, nil
}
