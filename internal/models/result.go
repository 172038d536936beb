package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// SubjectScore is the per-subject slice of an exam result.
type SubjectScore struct {
	Correct         int     `json:"correct"`
	Total           int     `json:"total"`
	AccuracyPercent float64 `json:"accuracy_percent"`
}

// ExamResult is the scored outcome of one session. Results are derived
// data: created once per session (1:1, enforced by a unique index) and
// never mutated afterwards.
type ExamResult struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	SessionID string `json:"session_id" gorm:"not null;size:36;uniqueIndex"`
	UserID    string `json:"user_id" gorm:"not null;size:64;index"`

	CorrectCount   int `json:"correct_count"`
	WrongCount     int `json:"wrong_count"`
	BlankCount     int `json:"blank_count"`
	TotalQuestions int `json:"total_questions"`

	// RawScore is scoring-system dependent: a net score for
	// net_calculation/standard_scoring, a 0-100 value for percentage.
	RawScore        float64 `json:"raw_score"`
	PercentageScore float64 `json:"percentage_score"`

	// SubjectBreakdown maps subject name to SubjectScore.
	SubjectBreakdown datatypes.JSON `json:"subject_breakdown" gorm:"type:jsonb"`

	TotalTimeSpentSeconds int       `json:"total_time_spent_seconds"`
	GeneratedAt           time.Time `json:"generated_at"`
}

func (ExamResult) TableName() string {
	return "exam_results"
}

// Breakdown decodes the subject breakdown column.
func (r *ExamResult) Breakdown() (map[string]SubjectScore, error) {
	breakdown := make(map[string]SubjectScore)
	if err := json.Unmarshal(r.SubjectBreakdown, &breakdown); err != nil {
		return nil, err
	}
	return breakdown, nil
}

// SetBreakdown encodes breakdown into the subject breakdown column.
func (r *ExamResult) SetBreakdown(breakdown map[string]SubjectScore) error {
	raw, err := json.Marshal(breakdown)
	if err != nil {
		return err
	}
	r.SubjectBreakdown = raw
	return nil
}
