package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/sinavly/exam-engine/internal/models"
	"github.com/sinavly/exam-engine/internal/repositories"
	"github.com/sinavly/exam-engine/internal/validator"
)

// studyHoursPerImprovementPoint is the heuristic cost of one full
// (100%) improvement point, in study hours.
const studyHoursPerImprovementPoint = 80

// probability clamp bounds: the heuristic never promises certainty in
// either direction.
const (
	minSuccessProbability = 0.05
	maxSuccessProbability = 0.95
)

type PredictionRequest struct {
	UserID            string                  `json:"user_id,omitempty"`
	CategoryID        string                  `json:"category_id" validate:"required"`
	CurrentScore      float64                 `json:"current_score" validate:"min=0,max=100"`
	TargetScore       float64                 `json:"target_score" validate:"min=0,max=100"`
	StudyHoursPerWeek float64                 `json:"study_hours" validate:"min=0"`
	DaysUntilExam     int                     `json:"days_until_exam"`
	PreparationLevel  models.PreparationLevel `json:"preparation_level,omitempty" validate:"omitempty,preparation_level"`
}

// PredictionService estimates the chance of reaching a target score and
// derives a study plan from static per-category tables.
type PredictionService interface {
	Predict(ctx context.Context, req *PredictionRequest) (*models.SuccessPrediction, error)
	BuildStudyPlan(category *models.ExamCategory, level models.PreparationLevel, daysUntilExam int) models.StudyPlan
}

type predictionService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewPredictionService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) PredictionService {
	return &predictionService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

func (s *predictionService) Predict(ctx context.Context, req *PredictionRequest) (*models.SuccessPrediction, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}
	if req.DaysUntilExam < 0 {
		return nil, ErrPastExamDate
	}

	category, err := s.repo.Category().GetByID(ctx, req.CategoryID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	factors := lookupFactors(category.ID)

	currentLevel := req.CurrentScore / 100
	targetLevel := req.TargetScore / 100
	requiredImprovement := math.Max(0, targetLevel-currentLevel)

	weeksRemaining := float64(req.DaysUntilExam) / 7
	totalStudyHours := req.StudyHoursPerWeek * weeksRemaining
	studyEffectiveness := math.Min(1, totalStudyHours/math.Max(1e-9, requiredImprovement*100))

	// Average the two weighted terms so a perfect score on both sides
	// approaches, but does not saturate, the upper clamp.
	probability := (currentLevel*factors.Difficulty + studyEffectiveness*factors.Competitiveness) / 2
	probability = math.Max(minSuccessProbability, math.Min(maxSuccessProbability, probability))

	level := req.PreparationLevel
	if level == "" {
		level = models.PreparationIntermediate
	}

	prediction := &models.SuccessPrediction{
		UserID:                    req.UserID,
		CategoryID:                category.ID,
		CurrentScore:              req.CurrentScore,
		TargetScore:               req.TargetScore,
		SuccessProbabilityPercent: probability * 100,
		RequiredStudyHours:        int(math.Ceil(requiredImprovement * studyHoursPerImprovementPoint)),
		WeakAreas:                 lookupWeakAreas(category.ID),
		Recommendations:           lookupRecommendations(category.ID),
		StudyPlan:                 s.BuildStudyPlan(category, level, req.DaysUntilExam),
		GeneratedAt:               time.Now(),
	}

	s.logger.Info("Generated success prediction",
		"category_id", category.ID,
		"probability_percent", prediction.SuccessProbabilityPercent,
		"required_study_hours", prediction.RequiredStudyHours)

	return prediction, nil
}

// BuildStudyPlan derives the plan for the remaining preparation window.
// Milestones land at 25%, 50% and 75% of the remaining days plus a final
// rehearsal one week before the exam; offsets that are not strictly
// positive are dropped for short windows.
func (s *predictionService) BuildStudyPlan(category *models.ExamCategory, level models.PreparationLevel, daysUntilExam int) models.StudyPlan {
	plan := models.StudyPlan{
		TotalWeeks:          daysUntilExam / 7,
		DailyStudyHours:     level.DailyStudyHours(),
		SubjectDistribution: lookupSubjectDistribution(category),
	}

	offsets := []int{
		daysUntilExam * 25 / 100,
		daysUntilExam * 50 / 100,
		daysUntilExam * 75 / 100,
		daysUntilExam - 7,
	}
	for i, offset := range offsets {
		if offset <= 0 {
			continue
		}
		stage := milestoneStages[i]
		plan.Milestones = append(plan.Milestones, models.Milestone{
			DayOffset:   offset,
			Title:       stage.Title,
			Description: stage.Description,
		})
	}

	// In short windows the rehearsal offset (days-7) can land before the
	// percentage milestones; keep the list chronological.
	sort.SliceStable(plan.Milestones, func(i, j int) bool {
		return plan.Milestones[i].DayOffset < plan.Milestones[j].DayOffset
	})

	return plan
}
