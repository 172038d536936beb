package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type SessionStatus string

const (
	SessionCreated   SessionStatus = "created"
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionExpired   SessionStatus = "expired"
	SessionAbandoned SessionStatus = "abandoned"
)

// IsTerminal reports whether s admits no further transitions.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionAbandoned
}

type SessionType string

const (
	SessionFullMock         SessionType = "full_mock"
	SessionSubjectPractice  SessionType = "subject_practice"
	SessionTimedPractice    SessionType = "timed_practice"
	SessionAdaptivePractice SessionType = "adaptive_practice"
)

// SessionEnvironment carries client-side presentation flags. They are
// recorded with the session but never enforced server-side.
type SessionEnvironment struct {
	StrictTiming bool `json:"strict_timing"`
	NoBacktrack  bool `json:"no_backtrack"`
	ShowTimer    bool `json:"show_timer"`
}

// MockExamSession is a timed, single-attempt exam simulation. It is owned
// exclusively by the session service until it reaches a terminal status;
// afterwards it is read-only.
type MockExamSession struct {
	ID          string      `json:"id" gorm:"primaryKey;size:36"`
	UserID      string      `json:"user_id" gorm:"not null;size:64;index" validate:"required"`
	CategoryID  string      `json:"category_id" gorm:"not null;size:32;index" validate:"required"`
	SessionType SessionType `json:"session_type" gorm:"not null" validate:"required,session_type"`

	OrderedQuestionIDs datatypes.JSON `json:"ordered_question_ids" gorm:"type:jsonb;not null"`
	DurationSeconds    int            `json:"duration_seconds" gorm:"not null"`

	Status      SessionStatus `json:"status" gorm:"not null;index"`
	CreatedAt   time.Time     `json:"created_at"`
	StartedAt   time.Time     `json:"started_at"`
	DeadlineAt  time.Time     `json:"deadline_at"`
	SubmittedAt *time.Time    `json:"submitted_at,omitempty"`

	Environment SessionEnvironment `json:"environment" gorm:"embedded;embeddedPrefix:env_"`
}

func (MockExamSession) TableName() string {
	return "mock_exam_sessions"
}

// QuestionIDs decodes the ordered question id column.
func (s *MockExamSession) QuestionIDs() ([]string, error) {
	var ids []string
	if err := json.Unmarshal(s.OrderedQuestionIDs, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// SetQuestionIDs encodes ids into the ordered question id column.
func (s *MockExamSession) SetQuestionIDs(ids []string) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	s.OrderedQuestionIDs = raw
	return nil
}

// SubmittedAnswer is one answer from the client's submit payload. An empty
// SelectedAnswer means the question was left blank.
type SubmittedAnswer struct {
	QuestionID       string `json:"question_id" validate:"required"`
	SelectedAnswer   string `json:"selected_answer"`
	TimeSpentSeconds int    `json:"time_spent" validate:"min=0"`
}
