package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// Valid reports whether d is one of the known difficulty levels.
func (d DifficultyLevel) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ExamQuestion is a single multiple-choice question. Once issued to a
// session it is treated as immutable.
type ExamQuestion struct {
	ID         string `json:"id" gorm:"primaryKey;size:64"`
	CategoryID string `json:"category_id" gorm:"not null;size:32;index" validate:"required"`
	Subject    string `json:"subject" gorm:"not null;size:100;index" validate:"required"`
	Topic      string `json:"topic" gorm:"size:200"`

	QuestionText string `json:"question_text" gorm:"type:text;not null" validate:"required"`
	// Ordered answer options, 2-5 entries.
	Options       datatypes.JSON `json:"options" gorm:"type:jsonb;not null"`
	CorrectAnswer string         `json:"correct_answer,omitempty" gorm:"not null" validate:"required"`
	Explanation   string         `json:"explanation,omitempty" gorm:"type:text"`

	Difficulty          DifficultyLevel `json:"difficulty" gorm:"not null;index" validate:"required,difficulty_level"`
	TimeEstimateSeconds int             `json:"time_estimate_seconds" gorm:"default:60"`

	// Synthetic marks generated filler questions whose recorded correct
	// answer is a placeholder, not authoritative content.
	Synthetic bool `json:"synthetic" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
}

func (ExamQuestion) TableName() string {
	return "exam_questions"
}

// OptionList decodes the stored options column.
func (q *ExamQuestion) OptionList() ([]string, error) {
	var opts []string
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// SetOptions encodes opts into the options column.
func (q *ExamQuestion) SetOptions(opts []string) error {
	raw, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	q.Options = raw
	return nil
}

// Sanitized returns a copy safe to send to an exam taker: the correct
// answer and explanation are stripped.
func (q ExamQuestion) Sanitized() ExamQuestion {
	q.CorrectAnswer = ""
	q.Explanation = ""
	return q
}
