package catalog

import (
	"context"
	"testing"

	"github.com/sinavly/exam-engine/internal/models"
	"github.com/sinavly/exam-engine/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOrderedByPriority(t *testing.T) {
	c := NewWithCategories([]models.ExamCategory{
		{ID: "c", Priority: 3},
		{ID: "a", Priority: 1},
		{ID: "b", Priority: 2},
		{ID: "b2", Priority: 2},
	})

	categories, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 4)

	ids := make([]string, 0, len(categories))
	for _, cat := range categories {
		ids = append(ids, cat.ID)
	}
	// Equal priority falls back to ID order.
	assert.Equal(t, []string{"a", "b", "b2", "c"}, ids)
}

func TestGetByID(t *testing.T) {
	c := New()

	cat, err := c.GetByID(context.Background(), "yks-tyt")
	require.NoError(t, err)
	assert.Equal(t, models.ExamYKS, cat.Type)
	assert.True(t, cat.NegativeScoring)

	_, err = c.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestReturnedCategoriesAreCopies(t *testing.T) {
	c := New()

	first, err := c.GetByID(context.Background(), "ales")
	require.NoError(t, err)
	first.Name = "mutated"
	first.NegativeScoring = false

	second, err := c.GetByID(context.Background(), "ales")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", second.Name)
	assert.True(t, second.NegativeScoring)
}

func TestDefaultCategoriesAreConsistent(t *testing.T) {
	c := New()
	categories, err := c.List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, categories)

	seen := make(map[string]bool)
	for _, cat := range categories {
		assert.False(t, seen[cat.ID], "duplicate category id %s", cat.ID)
		seen[cat.ID] = true

		assert.NotEmpty(t, cat.Name, "%s has no name", cat.ID)
		assert.Greater(t, cat.DurationSeconds, 0, "%s has no duration", cat.ID)
		assert.Greater(t, cat.TotalQuestions, 0, "%s has no question count", cat.ID)
		assert.NotEmpty(t, cat.Subjects, "%s has no subjects", cat.ID)

		// Percentage scoring never carries a wrong-answer penalty.
		if cat.ScoringSystem == models.ScoringPercentage {
			assert.False(t, cat.NegativeScoring, "%s mixes percentage with penalties", cat.ID)
		}
		if cat.NegativeScoring {
			assert.Greater(t, cat.WrongAnswerPenalty, 0.0, "%s penalizes with zero penalty", cat.ID)
		}

		// Section counts, when declared, must add up to the exam total.
		if len(cat.Sections) > 0 {
			total := 0
			for _, section := range cat.Sections {
				assert.Contains(t, cat.Subjects, section.Name, "%s section %s not in subjects", cat.ID, section.Name)
				total += section.QuestionCount
			}
			assert.Equal(t, cat.TotalQuestions, total, "%s sections do not sum to total", cat.ID)
		}
	}
}
