package validator

import (
	"testing"

	"github.com/sinavly/exam-engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuestion(t *testing.T) *models.ExamQuestion {
	t.Helper()
	q := &models.ExamQuestion{
		ID:            "q-1",
		CategoryID:    "yks-tyt",
		QuestionText:  "2 + 2 kaçtır?",
		CorrectAnswer: "4",
		Subject:       "Temel Matematik",
		Difficulty:    models.DifficultyEasy,
	}
	require.NoError(t, q.SetOptions([]string{"3", "4", "5", "6"}))
	return q
}

func tytCategory() *models.ExamCategory {
	return &models.ExamCategory{
		ID:       "yks-tyt",
		Subjects: []string{"Türkçe", "Temel Matematik", "Fen Bilimleri"},
	}
}

func TestValidateQuestion(t *testing.T) {
	v := NewQuestionValidator()

	assert.NoError(t, v.ValidateQuestion(validQuestion(t), tytCategory()))

	t.Run("missing text", func(t *testing.T) {
		q := validQuestion(t)
		q.QuestionText = ""
		assert.Error(t, v.ValidateQuestion(q, tytCategory()))
	})

	t.Run("too few options", func(t *testing.T) {
		q := validQuestion(t)
		require.NoError(t, q.SetOptions([]string{"4"}))
		assert.Error(t, v.ValidateQuestion(q, tytCategory()))
	})

	t.Run("too many options", func(t *testing.T) {
		q := validQuestion(t)
		require.NoError(t, q.SetOptions([]string{"1", "2", "3", "4", "5", "6"}))
		assert.Error(t, v.ValidateQuestion(q, tytCategory()))
	})

	t.Run("duplicate options", func(t *testing.T) {
		q := validQuestion(t)
		require.NoError(t, q.SetOptions([]string{"4", "4", "5"}))
		assert.Error(t, v.ValidateQuestion(q, tytCategory()))
	})

	t.Run("answer not among options", func(t *testing.T) {
		q := validQuestion(t)
		q.CorrectAnswer = "7"
		assert.Error(t, v.ValidateQuestion(q, tytCategory()))
	})

	t.Run("unknown difficulty", func(t *testing.T) {
		q := validQuestion(t)
		q.Difficulty = models.DifficultyLevel("imkansız")
		assert.Error(t, v.ValidateQuestion(q, tytCategory()))
	})

	t.Run("subject outside category", func(t *testing.T) {
		q := validQuestion(t)
		q.Subject = "Astroloji"
		assert.Error(t, v.ValidateQuestion(q, tytCategory()))
	})

	t.Run("nil category skips subject check", func(t *testing.T) {
		q := validQuestion(t)
		q.Subject = "Astroloji"
		assert.NoError(t, v.ValidateQuestion(q, nil))
	})
}

func TestValidateBatch(t *testing.T) {
	v := NewQuestionValidator()

	good := validQuestion(t)
	bad := validQuestion(t)
	bad.CorrectAnswer = ""

	rowErrors := v.ValidateBatch([]*models.ExamQuestion{good, bad, good}, tytCategory())
	require.Len(t, rowErrors, 1)
	assert.Equal(t, 2, rowErrors[0].Row)
	assert.Contains(t, rowErrors[0].Message, "correct answer")
}
