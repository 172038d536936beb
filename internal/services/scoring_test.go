package services

import (
	"fmt"
	"testing"

	"github.com/sinavly/exam-engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeQuestion(id, subject, correct string) models.ExamQuestion {
	q := models.ExamQuestion{
		ID:            id,
		CategoryID:    "test-cat",
		Subject:       subject,
		QuestionText:  "soru " + id,
		CorrectAnswer: correct,
		Difficulty:    models.DifficultyMedium,
	}
	q.SetOptions([]string{"A", "B", "C", "D", "E"})
	return q
}

func makeSession(id string) *models.MockExamSession {
	return &models.MockExamSession{
		ID:         id,
		UserID:     "user-1",
		CategoryID: "test-cat",
		Status:     models.SessionActive,
	}
}

func TestScoreSession_NetCalculationWithPenalty(t *testing.T) {
	category := &models.ExamCategory{
		ID:                 "test-cat",
		ScoringSystem:      models.ScoringNetCalculation,
		NegativeScoring:    true,
		WrongAnswerPenalty: 0.25,
	}

	questions := []models.ExamQuestion{
		makeQuestion("q1", "Matematik", "A"),
		makeQuestion("q2", "Matematik", "B"),
		makeQuestion("q3", "Türkçe", "C"),
		makeQuestion("q4", "Türkçe", "D"),
	}
	answers := []models.SubmittedAnswer{
		{QuestionID: "q1", SelectedAnswer: "A", TimeSpentSeconds: 30},
		{QuestionID: "q2", SelectedAnswer: "E", TimeSpentSeconds: 45},
		{QuestionID: "q3", SelectedAnswer: "", TimeSpentSeconds: 5},
		{QuestionID: "q4", SelectedAnswer: "D", TimeSpentSeconds: 20},
	}

	result, err := ScoreSession(makeSession("s1"), answers, questions, category)
	require.NoError(t, err)

	assert.Equal(t, 2, result.CorrectCount)
	assert.Equal(t, 1, result.WrongCount)
	assert.Equal(t, 1, result.BlankCount)
	assert.Equal(t, 4, result.TotalQuestions)
	assert.InDelta(t, 1.75, result.RawScore, 1e-9)
	assert.InDelta(t, 50.0, result.PercentageScore, 1e-9)
	assert.Equal(t, 100, result.TotalTimeSpentSeconds)
}

func TestScoreSession_RawScoreCanGoNegative(t *testing.T) {
	category := &models.ExamCategory{
		ID:                 "test-cat",
		ScoringSystem:      models.ScoringNetCalculation,
		NegativeScoring:    true,
		WrongAnswerPenalty: 0.25,
	}

	questions := []models.ExamQuestion{
		makeQuestion("q1", "Matematik", "A"),
		makeQuestion("q2", "Matematik", "A"),
		makeQuestion("q3", "Matematik", "A"),
		makeQuestion("q4", "Matematik", "A"),
	}
	answers := []models.SubmittedAnswer{
		{QuestionID: "q1", SelectedAnswer: "B"},
		{QuestionID: "q2", SelectedAnswer: "B"},
		{QuestionID: "q3", SelectedAnswer: "B"},
		{QuestionID: "q4", SelectedAnswer: "B"},
	}

	result, err := ScoreSession(makeSession("s1"), answers, questions, category)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, result.RawScore, 1e-9)
}

func TestScoreSession_PenaltyIgnoredWithoutNegativeScoring(t *testing.T) {
	category := &models.ExamCategory{
		ID:                 "test-cat",
		ScoringSystem:      models.ScoringNetCalculation,
		NegativeScoring:    false,
		WrongAnswerPenalty: 0.25,
	}

	questions := []models.ExamQuestion{
		makeQuestion("q1", "Matematik", "A"),
		makeQuestion("q2", "Matematik", "A"),
	}
	answers := []models.SubmittedAnswer{
		{QuestionID: "q1", SelectedAnswer: "A"},
		{QuestionID: "q2", SelectedAnswer: "B"},
	}

	result, err := ScoreSession(makeSession("s1"), answers, questions, category)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.RawScore, 1e-9)
}

func TestScoreSession_PercentageEqualsRawScore(t *testing.T) {
	category := &models.ExamCategory{
		ID:            "test-cat",
		ScoringSystem: models.ScoringPercentage,
	}

	questions := make([]models.ExamQuestion, 10)
	answers := make([]models.SubmittedAnswer, 10)
	for i := range questions {
		id := fmt.Sprintf("q%d", i)
		questions[i] = makeQuestion(id, "Trafik", "A")
		selected := "A"
		if i >= 7 {
			selected = "B"
		}
		answers[i] = models.SubmittedAnswer{QuestionID: id, SelectedAnswer: selected}
	}

	result, err := ScoreSession(makeSession("s1"), answers, questions, category)
	require.NoError(t, err)
	assert.Equal(t, result.PercentageScore, result.RawScore)
	assert.InDelta(t, 70.0, result.RawScore, 1e-9)
}

func TestScoreSession_PercentageWithNegativeScoringRejected(t *testing.T) {
	category := &models.ExamCategory{
		ID:              "test-cat",
		ScoringSystem:   models.ScoringPercentage,
		NegativeScoring: true,
	}

	_, err := ScoreSession(makeSession("s1"), nil, []models.ExamQuestion{makeQuestion("q1", "Trafik", "A")}, category)
	assert.ErrorIs(t, err, ErrScoringConfig)
}

func TestScoreSession_EmptyQuestionSet(t *testing.T) {
	category := &models.ExamCategory{
		ID:            "test-cat",
		ScoringSystem: models.ScoringNetCalculation,
	}

	result, err := ScoreSession(makeSession("s1"), nil, nil, category)
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalQuestions)
	assert.Zero(t, result.PercentageScore)
	assert.Zero(t, result.RawScore)
}

func TestScoreSession_UnansweredQuestionsCountBlank(t *testing.T) {
	category := &models.ExamCategory{
		ID:            "test-cat",
		ScoringSystem: models.ScoringNetCalculation,
	}

	questions := []models.ExamQuestion{
		makeQuestion("q1", "Matematik", "A"),
		makeQuestion("q2", "Matematik", "A"),
		makeQuestion("q3", "Matematik", "A"),
	}
	answers := []models.SubmittedAnswer{
		{QuestionID: "q1", SelectedAnswer: "A"},
	}

	result, err := ScoreSession(makeSession("s1"), answers, questions, category)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CorrectCount)
	assert.Equal(t, 0, result.WrongCount)
	assert.Equal(t, 2, result.BlankCount)
}

func TestScoreSession_SubjectBreakdownUsesQuestionSubject(t *testing.T) {
	category := &models.ExamCategory{
		ID:            "test-cat",
		ScoringSystem: models.ScoringNetCalculation,
		Subjects:      []string{"Matematik", "Türkçe", "Fen Bilimleri"},
	}

	questions := []models.ExamQuestion{
		makeQuestion("q1", "Matematik", "A"),
		makeQuestion("q2", "Matematik", "A"),
		makeQuestion("q3", "Türkçe", "A"),
	}
	answers := []models.SubmittedAnswer{
		{QuestionID: "q1", SelectedAnswer: "A"},
		{QuestionID: "q2", SelectedAnswer: "B"},
		{QuestionID: "q3", SelectedAnswer: "A"},
	}

	result, err := ScoreSession(makeSession("s1"), answers, questions, category)
	require.NoError(t, err)

	breakdown, err := result.Breakdown()
	require.NoError(t, err)

	// Only subjects that actually had questions appear.
	require.Len(t, breakdown, 2)
	assert.Equal(t, 2, breakdown["Matematik"].Total)
	assert.Equal(t, 1, breakdown["Matematik"].Correct)
	assert.InDelta(t, 50.0, breakdown["Matematik"].AccuracyPercent, 1e-9)
	assert.InDelta(t, 100.0, breakdown["Türkçe"].AccuracyPercent, 1e-9)
}
