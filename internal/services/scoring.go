package services

import (
	"time"

	"github.com/sinavly/exam-engine/internal/models"
)

// answerClass is the outcome of comparing one submitted answer against
// the recorded correct answer.
type answerClass int

const (
	answerBlank answerClass = iota
	answerCorrect
	answerWrong
)

func classifyAnswer(selected, correct string) answerClass {
	// An empty selection is always blank, never wrong.
	if selected == "" {
		return answerBlank
	}
	if selected == correct {
		return answerCorrect
	}
	return answerWrong
}

// ScoreSession computes the result for a finished session. Questions not
// covered by a submitted answer count as blank. The result is derived
// state; callers persist it once and never mutate it.
func ScoreSession(session *models.MockExamSession, answers []models.SubmittedAnswer, questions []models.ExamQuestion, category *models.ExamCategory) (*models.ExamResult, error) {
	if category.ScoringSystem == models.ScoringPercentage && category.NegativeScoring {
		return nil, ErrScoringConfig
	}

	result := &models.ExamResult{
		SessionID:      session.ID,
		UserID:         session.UserID,
		TotalQuestions: len(questions),
		GeneratedAt:    time.Now(),
	}

	answerByQuestion := make(map[string]models.SubmittedAnswer, len(answers))
	for _, a := range answers {
		answerByQuestion[a.QuestionID] = a
		result.TotalTimeSpentSeconds += a.TimeSpentSeconds
	}

	breakdown := make(map[string]models.SubjectScore)
	for _, q := range questions {
		subject := q.Subject
		score := breakdown[subject]
		score.Total++

		switch classifyAnswer(answerByQuestion[q.ID].SelectedAnswer, q.CorrectAnswer) {
		case answerCorrect:
			result.CorrectCount++
			score.Correct++
		case answerWrong:
			result.WrongCount++
		case answerBlank:
			result.BlankCount++
		}

		breakdown[subject] = score
	}

	for subject, score := range breakdown {
		if score.Total > 0 {
			score.AccuracyPercent = float64(score.Correct) / float64(score.Total) * 100
		}
		breakdown[subject] = score
	}
	if err := result.SetBreakdown(breakdown); err != nil {
		return nil, err
	}

	// Guard against empty sessions rather than dividing by zero.
	if result.TotalQuestions == 0 {
		return result, nil
	}

	result.PercentageScore = float64(result.CorrectCount) / float64(result.TotalQuestions) * 100

	switch category.ScoringSystem {
	case models.ScoringPercentage:
		result.RawScore = result.PercentageScore
	case models.ScoringNetCalculation, models.ScoringStandard:
		penalty := 0.0
		if category.NegativeScoring {
			penalty = category.WrongAnswerPenalty
		}
		result.RawScore = float64(result.CorrectCount) - float64(result.WrongCount)*penalty
	default:
		result.RawScore = result.PercentageScore
	}

	return result, nil
}
