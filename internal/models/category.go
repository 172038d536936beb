package models

import "time"

type ExamType string

const (
	ExamYKS     ExamType = "yks"
	ExamKPSS    ExamType = "kpss"
	ExamEhliyet ExamType = "ehliyet"
	ExamSRC     ExamType = "src"
	ExamALES    ExamType = "ales"
	ExamDGS     ExamType = "dgs"
	ExamMSU     ExamType = "msu"
	ExamPolis   ExamType = "polis"
)

type ScoringSystem string

const (
	ScoringNetCalculation ScoringSystem = "net_calculation"
	ScoringPercentage     ScoringSystem = "percentage"
	ScoringStandard       ScoringSystem = "standard_scoring"
)

// ExamSection describes one named block of an exam paper. When a category
// declares sections, their question counts must sum to TotalQuestions.
type ExamSection struct {
	Name          string `json:"name"`
	QuestionCount int    `json:"question_count"`
}

// ExamCategory is the immutable configuration of one exam type. Categories
// are declared in code and only change via redeployment; there is no
// runtime mutation API.
type ExamCategory struct {
	ID                 string        `json:"id" validate:"required"`
	Name               string        `json:"name" validate:"required"`
	Type               ExamType      `json:"type" validate:"required,exam_type"`
	DurationSeconds    int           `json:"duration_seconds" validate:"required,min=60"`
	TotalQuestions     int           `json:"total_questions" validate:"required,min=1"`
	PassingScore       float64       `json:"passing_score"`
	Subjects           []string      `json:"subjects" validate:"required,min=1"`
	Sections           []ExamSection `json:"sections,omitempty"`
	ScoringSystem      ScoringSystem `json:"scoring_system" validate:"required,scoring_system"`
	NegativeScoring    bool          `json:"negative_scoring"`
	WrongAnswerPenalty float64       `json:"wrong_answer_penalty" validate:"min=0,max=1"`
	// Empty means a continuous/rolling exam with no fixed sitting.
	OfficialExamDates []time.Time `json:"official_exam_dates,omitempty"`
	// Priority drives the deterministic order of ListCategories.
	Priority int `json:"-"`
}

// HasSections reports whether the category declares per-section counts.
func (c *ExamCategory) HasSections() bool {
	return len(c.Sections) > 0
}

// SectionTotal returns the sum of declared section question counts.
func (c *ExamCategory) SectionTotal() int {
	total := 0
	for _, s := range c.Sections {
		total += s.QuestionCount
	}
	return total
}

// HasSubject reports whether name is one of the category's declared subjects.
func (c *ExamCategory) HasSubject(name string) bool {
	for _, s := range c.Subjects {
		if s == name {
			return true
		}
	}
	return false
}
