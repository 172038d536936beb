package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand"

	"github.com/sinavly/exam-engine/internal/models"
	"github.com/sinavly/exam-engine/internal/repositories"
)

// ProvisionService assembles the ordered question set for a new session,
// backfilling with generated placeholders when the curated bank runs short.
type ProvisionService interface {
	Provision(ctx context.Context, categoryID string, count int) ([]models.ExamQuestion, error)
}

type provisionService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewProvisionService(repo repositories.Repository, logger *slog.Logger) ProvisionService {
	return &provisionService{
		repo:   repo,
		logger: logger,
	}
}

func (s *provisionService) Provision(ctx context.Context, categoryID string, count int) ([]models.ExamQuestion, error) {
	if count <= 0 {
		return nil, ErrInvalidQuestionCount
	}

	category, err := s.repo.Category().GetByID(ctx, categoryID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	// Placeholder questions persisted by earlier sessions never count as
	// curated content.
	curatedOnly := false
	curated, err := s.repo.Question().GetByCategory(ctx, categoryID, repositories.QuestionFilters{Synthetic: &curatedOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to load question bank: %w", err)
	}

	// Curated questions come back grouped by subject in the category's
	// declared order; a mock exam blocks subjects together rather than
	// interleaving them.
	ordered := groupBySubject(curated, category.Subjects)

	if len(ordered) >= count {
		return ordered[:count], nil
	}

	remaining := count - len(ordered)
	s.logger.Info("Backfilling question set with generated questions",
		"category_id", categoryID,
		"curated", len(ordered),
		"generated", remaining)

	generated := s.generateQuestions(category, remaining, len(ordered))
	return append(ordered, generated...), nil
}

// groupBySubject reorders questions so every subject's questions appear
// contiguously, following the category's declared subject order. Questions
// with a subject the category does not declare keep their relative order
// at the end.
func groupBySubject(questions []*models.ExamQuestion, subjects []string) []models.ExamQuestion {
	ordered := make([]models.ExamQuestion, 0, len(questions))
	taken := make([]bool, len(questions))

	for _, subject := range subjects {
		for i, q := range questions {
			if !taken[i] && q.Subject == subject {
				ordered = append(ordered, *q)
				taken[i] = true
			}
		}
	}
	for i, q := range questions {
		if !taken[i] {
			ordered = append(ordered, *q)
		}
	}
	return ordered
}

var difficultyPool = []models.DifficultyLevel{
	models.DifficultyEasy,
	models.DifficultyMedium,
	models.DifficultyHard,
}

// generateQuestions synthesizes placeholder questions, distributing the
// shortfall round-robin across the category's subjects. IDs are
// deterministic per category and index so retried provisioning produces
// the same set; only the difficulty draw uses the seeded generator.
func (s *provisionService) generateQuestions(category *models.ExamCategory, remaining, startIndex int) []models.ExamQuestion {
	subjects := category.Subjects
	if len(subjects) == 0 {
		subjects = []string{"Genel"}
	}

	seed := fnv.New64a()
	seed.Write([]byte(category.ID))
	rng := rand.New(rand.NewSource(int64(seed.Sum64())))

	// One question per subject in rotation, so subject counts never
	// differ by more than one regardless of the shortfall size.
	perSubject := make(map[string]int, len(subjects))
	generated := make([]models.ExamQuestion, 0, remaining)
	index := startIndex
	for i := 0; i < remaining; i++ {
		subject := subjects[i%len(subjects)]
		perSubject[subject]++
		q := models.ExamQuestion{
			ID:         fmt.Sprintf("%s-gen-%03d", category.ID, index),
			CategoryID: category.ID,
			Subject:    subject,
			Topic:      subject,
			QuestionText: fmt.Sprintf("%s - %s alanında örnek soru %d",
				category.Name, subject, perSubject[subject]),
			// Placeholder marker, not authoritative content.
			CorrectAnswer:       "A şıkkı",
			Difficulty:          difficultyPool[rng.Intn(len(difficultyPool))],
			TimeEstimateSeconds: 60,
			Synthetic:           true,
		}
		_ = q.SetOptions([]string{"A şıkkı", "B şıkkı", "C şıkkı", "D şıkkı", "E şıkkı"})
		generated = append(generated, q)
		index++
	}
	return generated
}
