package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sinavly/exam-engine/internal/events"
	"github.com/sinavly/exam-engine/internal/models"
	"github.com/sinavly/exam-engine/internal/repositories"
	"github.com/sinavly/exam-engine/internal/validator"
)

type RegisterExamRequest struct {
	CategoryID       string                  `json:"category_id" validate:"required"`
	ExamDate         string                  `json:"exam_date" validate:"required"`
	TargetScore      float64                 `json:"target_score" validate:"min=0,max=100"`
	PreparationLevel models.PreparationLevel `json:"preparation_level" validate:"required,preparation_level"`
}

// RegistrationResponse pairs the stored registration with the plan it
// snapshotted, so clients don't have to decode the jsonb column.
type RegistrationResponse struct {
	Registration *models.ExamRegistration `json:"registration"`
	StudyPlan    models.StudyPlan         `json:"study_plan"`
}

// RegistrationService records official exam commitments and generates the
// accompanying study plan.
type RegistrationService interface {
	Register(ctx context.Context, userID string, req *RegisterExamRequest) (*RegistrationResponse, error)
	ListByUser(ctx context.Context, userID string) ([]*models.ExamRegistration, error)
}

type registrationService struct {
	repo        repositories.Repository
	predictions PredictionService
	publisher   events.EventPublisher
	logger      *slog.Logger
	validator   *validator.Validator
}

func NewRegistrationService(repo repositories.Repository, predictions PredictionService, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) RegistrationService {
	return &registrationService{
		repo:        repo,
		predictions: predictions,
		publisher:   publisher,
		logger:      logger,
		validator:   v,
	}
}

func (s *registrationService) Register(ctx context.Context, userID string, req *RegisterExamRequest) (*RegistrationResponse, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	examDate, err := time.Parse("2006-01-02", req.ExamDate)
	if err != nil {
		return nil, fmt.Errorf("%w: exam_date must be YYYY-MM-DD", ErrBadRequest)
	}
	daysUntilExam := int(time.Until(examDate).Hours() / 24)
	if daysUntilExam < 0 {
		return nil, ErrPastExamDate
	}

	category, err := s.repo.Category().GetByID(ctx, req.CategoryID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	plan := s.predictions.BuildStudyPlan(category, req.PreparationLevel, daysUntilExam)

	registration := &models.ExamRegistration{
		ID:               uuid.NewString(),
		UserID:           userID,
		CategoryID:       category.ID,
		ExamDate:         examDate,
		TargetScore:      req.TargetScore,
		PreparationLevel: req.PreparationLevel,
		CreatedAt:        time.Now(),
	}
	if err := registration.SetPlan(plan); err != nil {
		return nil, fmt.Errorf("failed to encode study plan: %w", err)
	}

	if err := s.repo.Registration().Create(ctx, registration); err != nil {
		return nil, fmt.Errorf("failed to store registration: %w", err)
	}

	if s.publisher != nil {
		event := events.NewRegistrationCreatedEvent(registration.ID, userID, category.ID, examDate, req.TargetScore)
		if err := s.publisher.PublishExamEvent(ctx, event); err != nil {
			s.logger.Warn("Failed to publish registration event",
				"registration_id", registration.ID, "error", err)
		}
	}

	s.logger.Info("Exam registration created",
		"registration_id", registration.ID,
		"user_id", userID,
		"category_id", category.ID,
		"exam_date", req.ExamDate)

	return &RegistrationResponse{
		Registration: registration,
		StudyPlan:    plan,
	}, nil
}

func (s *registrationService) ListByUser(ctx context.Context, userID string) ([]*models.ExamRegistration, error) {
	registrations, err := s.repo.Registration().GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return registrations, nil
}
