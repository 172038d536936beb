package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/sinavly/exam-engine/internal/catalog"
	"github.com/sinavly/exam-engine/internal/models"
	"github.com/sinavly/exam-engine/internal/repositories"
	"github.com/sinavly/exam-engine/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testCategory() models.ExamCategory {
	return models.ExamCategory{
		ID:              "test-cat",
		Name:            "Test Sınavı",
		Type:            models.ExamYKS,
		DurationSeconds: 600,
		TotalQuestions:  12,
		PassingScore:    50,
		Subjects:        []string{"Matematik", "Türkçe", "Fen Bilimleri"},
		ScoringSystem:   models.ScoringNetCalculation,
	}
}

func testRepo(t *testing.T) repositories.Repository {
	t.Helper()
	return memory.NewRepository(catalog.NewWithCategories([]models.ExamCategory{testCategory()}))
}

func seedQuestions(t *testing.T, repo repositories.Repository, specs map[string]int) {
	t.Helper()
	ctx := context.Background()
	for subject, count := range specs {
		for j := 0; j < count; j++ {
			q := makeQuestion(subjectQuestionID(subject, j), subject, "A")
			q.CategoryID = "test-cat"
			require.NoError(t, repo.Question().Create(ctx, &q))
		}
	}
}

func subjectQuestionID(subject string, n int) string {
	return "q-" + subject + "-" + string(rune('a'+n))
}

func TestProvision_RejectsBadInput(t *testing.T) {
	svc := NewProvisionService(testRepo(t), testLogger())

	_, err := svc.Provision(context.Background(), "test-cat", 0)
	assert.ErrorIs(t, err, ErrInvalidQuestionCount)

	_, err = svc.Provision(context.Background(), "test-cat", -5)
	assert.ErrorIs(t, err, ErrInvalidQuestionCount)

	_, err = svc.Provision(context.Background(), "no-such-cat", 10)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestProvision_CuratedOnlyKeepsSubjectsContiguous(t *testing.T) {
	repo := testRepo(t)
	seedQuestions(t, repo, map[string]int{"Matematik": 4, "Türkçe": 4, "Fen Bilimleri": 4})
	svc := NewProvisionService(repo, testLogger())

	questions, err := svc.Provision(context.Background(), "test-cat", 12)
	require.NoError(t, err)
	require.Len(t, questions, 12)

	// Every subject's questions must form one contiguous block.
	seen := make(map[string]bool)
	last := ""
	for _, q := range questions {
		if q.Subject != last {
			assert.False(t, seen[q.Subject], "subject %s appears in two separate blocks", q.Subject)
			seen[q.Subject] = true
			last = q.Subject
		}
		assert.False(t, q.Synthetic)
	}
}

func TestProvision_BackfillsToRequestedCount(t *testing.T) {
	repo := testRepo(t)
	seedQuestions(t, repo, map[string]int{"Matematik": 2})
	svc := NewProvisionService(repo, testLogger())

	questions, err := svc.Provision(context.Background(), "test-cat", 11)
	require.NoError(t, err)
	require.Len(t, questions, 11)

	var synthetic int
	perSubject := make(map[string]int)
	for _, q := range questions {
		if q.Synthetic {
			synthetic++
			perSubject[q.Subject]++
		}
	}
	assert.Equal(t, 9, synthetic)

	// Shortfall distributes round-robin: per-subject counts differ by at
	// most one.
	min, max := 1<<30, 0
	for _, n := range perSubject {
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}
	assert.LessOrEqual(t, max-min, 1)
}

func TestProvision_BackfillSpreadsNonDivisibleShortfall(t *testing.T) {
	repo := testRepo(t)
	svc := NewProvisionService(repo, testLogger())

	// 4 generated questions over 3 subjects: no subject may absorb the
	// whole overflow.
	questions, err := svc.Provision(context.Background(), "test-cat", 4)
	require.NoError(t, err)
	require.Len(t, questions, 4)

	perSubject := make(map[string]int)
	for _, q := range questions {
		require.True(t, q.Synthetic)
		perSubject[q.Subject]++
	}
	require.Len(t, perSubject, 3, "every subject receives at least one question")
	for subject, n := range perSubject {
		assert.LessOrEqual(t, n, 2, "subject %s", subject)
		assert.GreaterOrEqual(t, n, 1, "subject %s", subject)
	}
}

func TestProvision_SyntheticQuestionsAreDeterministic(t *testing.T) {
	repo := testRepo(t)
	svc := NewProvisionService(repo, testLogger())

	first, err := svc.Provision(context.Background(), "test-cat", 6)
	require.NoError(t, err)
	second, err := svc.Provision(context.Background(), "test-cat", 6)
	require.NoError(t, err)

	require.Len(t, first, 6)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Difficulty, second[i].Difficulty)
		assert.True(t, first[i].Synthetic)
		assert.Regexp(t, `^test-cat-gen-\d{3}$`, first[i].ID)
	}
}

func TestProvision_SyntheticShape(t *testing.T) {
	repo := testRepo(t)
	svc := NewProvisionService(repo, testLogger())

	questions, err := svc.Provision(context.Background(), "test-cat", 3)
	require.NoError(t, err)

	for _, q := range questions {
		options, err := q.OptionList()
		require.NoError(t, err)
		require.Len(t, options, 5)
		// Recorded answer is a placeholder equal to the first option.
		assert.Equal(t, options[0], q.CorrectAnswer)
	}
}
