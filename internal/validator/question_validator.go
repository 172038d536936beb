package validator

import (
	"fmt"

	"github.com/sinavly/exam-engine/internal/models"
)

// QuestionValidator handles question-specific validation
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion validates a complete question against its category
func (v *QuestionValidator) ValidateQuestion(question *models.ExamQuestion, category *models.ExamCategory) error {
	if question.QuestionText == "" {
		return fmt.Errorf("question text is required")
	}

	options, err := question.OptionList()
	if err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	if len(options) < 2 {
		return fmt.Errorf("must have at least 2 options")
	}
	if len(options) > 5 {
		return fmt.Errorf("cannot have more than 5 options")
	}

	seen := make(map[string]bool, len(options))
	for i, option := range options {
		if option == "" {
			return fmt.Errorf("option %d cannot be empty", i+1)
		}
		if seen[option] {
			return fmt.Errorf("options contain duplicate: %s", option)
		}
		seen[option] = true
	}

	if question.CorrectAnswer == "" {
		return fmt.Errorf("correct answer is required")
	}
	if !seen[question.CorrectAnswer] {
		return fmt.Errorf("correct answer does not match any option")
	}

	if !question.Difficulty.Valid() {
		return fmt.Errorf("invalid difficulty level: %s", question.Difficulty)
	}

	if category != nil && question.Subject != "" && !category.HasSubject(question.Subject) {
		return fmt.Errorf("subject %q is not part of category %s", question.Subject, category.ID)
	}

	return nil
}

// ValidateBatch validates multiple questions, reporting per-row failures
func (v *QuestionValidator) ValidateBatch(questions []*models.ExamQuestion, category *models.ExamCategory) []models.ImportRowError {
	var rowErrors []models.ImportRowError
	for i, question := range questions {
		if err := v.ValidateQuestion(question, category); err != nil {
			rowErrors = append(rowErrors, models.ImportRowError{
				Row:     i + 1,
				Message: err.Error(),
			})
		}
	}
	return rowErrors
}
