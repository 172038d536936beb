package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type PreparationLevel string

const (
	PreparationBeginner     PreparationLevel = "beginner"
	PreparationIntermediate PreparationLevel = "intermediate"
	PreparationAdvanced     PreparationLevel = "advanced"
)

// DailyStudyHours maps the preparation level to recommended daily hours.
func (p PreparationLevel) DailyStudyHours() float64 {
	switch p {
	case PreparationBeginner:
		return 2
	case PreparationAdvanced:
		return 4
	default:
		return 3
	}
}

// WeakArea is one topic the user underperforms in.
type WeakArea struct {
	Topic    string `json:"topic"`
	Category string `json:"category"`
}

// Milestone is one dated checkpoint of a study plan.
type Milestone struct {
	DayOffset   int    `json:"day_offset"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// StudyPlan is the structured plan emitted alongside a prediction.
type StudyPlan struct {
	TotalWeeks      int     `json:"total_weeks"`
	DailyStudyHours float64 `json:"daily_study_hours"`
	// SubjectDistribution maps subject name to its share of study time;
	// shares sum to 1.0.
	SubjectDistribution map[string]float64 `json:"subject_distribution"`
	Milestones          []Milestone        `json:"milestones"`
}

// SuccessPrediction is a heuristic estimate of reaching a target score.
// Predictions are recomputed on demand and never persisted by the engine.
type SuccessPrediction struct {
	UserID     string `json:"user_id,omitempty"`
	CategoryID string `json:"category_id"`

	CurrentScore              float64 `json:"current_score"`
	TargetScore               float64 `json:"target_score"`
	SuccessProbabilityPercent float64 `json:"success_probability_percent"`
	RequiredStudyHours        int     `json:"required_study_hours"`

	WeakAreas       []WeakArea `json:"weak_areas"`
	Recommendations []string   `json:"recommendations"`
	StudyPlan       StudyPlan  `json:"study_plan"`

	GeneratedAt time.Time `json:"generated_at"`
}

// ExamRegistration records a user's commitment to an official exam date
// together with the study plan generated at registration time.
type ExamRegistration struct {
	ID         string `json:"id" gorm:"primaryKey;size:36"`
	UserID     string `json:"user_id" gorm:"not null;size:64;index" validate:"required"`
	CategoryID string `json:"category_id" gorm:"not null;size:32;index" validate:"required"`

	ExamDate         time.Time        `json:"exam_date" gorm:"not null"`
	TargetScore      float64          `json:"target_score" validate:"min=0,max=100"`
	PreparationLevel PreparationLevel `json:"preparation_level" validate:"required,preparation_level"`

	// StudyPlan is the plan snapshot taken when the registration was created.
	StudyPlan datatypes.JSON `json:"study_plan" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
}

func (ExamRegistration) TableName() string {
	return "exam_registrations"
}

// Plan decodes the stored study plan snapshot.
func (r *ExamRegistration) Plan() (*StudyPlan, error) {
	var plan StudyPlan
	if err := json.Unmarshal(r.StudyPlan, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// SetPlan encodes plan into the study plan column.
func (r *ExamRegistration) SetPlan(plan StudyPlan) error {
	raw, err := json.Marshal(plan)
	if err != nil {
		return err
	}
	r.StudyPlan = raw
	return nil
}
