package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of engine events
type EventType string

const (
	// Session events
	EventSessionStarted   EventType = "session.started"
	EventSessionCompleted EventType = "session.completed"
	EventSessionExpired   EventType = "session.expired"
	EventSessionAbandoned EventType = "session.abandoned"

	// Registration events
	EventRegistrationCreated EventType = "registration.created"
)

// ExamEvent is the base envelope for all engine events
type ExamEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Session event payloads

type SessionStartedEvent struct {
	SessionID     string    `json:"session_id"`
	UserID        string    `json:"user_id"`
	CategoryID    string    `json:"category_id"`
	SessionType   string    `json:"session_type"`
	QuestionCount int       `json:"question_count"`
	StartedAt     time.Time `json:"started_at"`
	DeadlineAt    time.Time `json:"deadline_at"`
}

type SessionCompletedEvent struct {
	SessionID       string    `json:"session_id"`
	UserID          string    `json:"user_id"`
	CategoryID      string    `json:"category_id"`
	SubmittedAt     time.Time `json:"submitted_at"`
	RawScore        float64   `json:"raw_score"`
	PercentageScore float64   `json:"percentage_score"`
	CorrectCount    int       `json:"correct_count"`
	WrongCount      int       `json:"wrong_count"`
	BlankCount      int       `json:"blank_count"`
}

type SessionExpiredEvent struct {
	SessionID  string    `json:"session_id"`
	UserID     string    `json:"user_id"`
	CategoryID string    `json:"category_id"`
	ExpiredAt  time.Time `json:"expired_at"`
}

type SessionAbandonedEvent struct {
	SessionID   string    `json:"session_id"`
	UserID      string    `json:"user_id"`
	CategoryID  string    `json:"category_id"`
	AbandonedAt time.Time `json:"abandoned_at"`
}

// Registration event payload

type RegistrationCreatedEvent struct {
	RegistrationID string    `json:"registration_id"`
	UserID         string    `json:"user_id"`
	CategoryID     string    `json:"category_id"`
	ExamDate       time.Time `json:"exam_date"`
	TargetScore    float64   `json:"target_score"`
}

// Event factory functions

func NewSessionStartedEvent(sessionID, userID, categoryID, sessionType string, questionCount int, startedAt, deadlineAt time.Time) *ExamEvent {
	return newEvent(EventSessionStarted, SessionStartedEvent{
		SessionID:     sessionID,
		UserID:        userID,
		CategoryID:    categoryID,
		SessionType:   sessionType,
		QuestionCount: questionCount,
		StartedAt:     startedAt,
		DeadlineAt:    deadlineAt,
	})
}

func NewSessionCompletedEvent(sessionID, userID, categoryID string, submittedAt time.Time, rawScore, percentageScore float64, correct, wrong, blank int) *ExamEvent {
	return newEvent(EventSessionCompleted, SessionCompletedEvent{
		SessionID:       sessionID,
		UserID:          userID,
		CategoryID:      categoryID,
		SubmittedAt:     submittedAt,
		RawScore:        rawScore,
		PercentageScore: percentageScore,
		CorrectCount:    correct,
		WrongCount:      wrong,
		BlankCount:      blank,
	})
}

func NewSessionExpiredEvent(sessionID, userID, categoryID string, expiredAt time.Time) *ExamEvent {
	return newEvent(EventSessionExpired, SessionExpiredEvent{
		SessionID:  sessionID,
		UserID:     userID,
		CategoryID: categoryID,
		ExpiredAt:  expiredAt,
	})
}

func NewSessionAbandonedEvent(sessionID, userID, categoryID string, abandonedAt time.Time) *ExamEvent {
	return newEvent(EventSessionAbandoned, SessionAbandonedEvent{
		SessionID:   sessionID,
		UserID:      userID,
		CategoryID:  categoryID,
		AbandonedAt: abandonedAt,
	})
}

func NewRegistrationCreatedEvent(registrationID, userID, categoryID string, examDate time.Time, targetScore float64) *ExamEvent {
	return newEvent(EventRegistrationCreated, RegistrationCreatedEvent{
		RegistrationID: registrationID,
		UserID:         userID,
		CategoryID:     categoryID,
		ExamDate:       examDate,
		TargetScore:    targetScore,
	})
}

func newEvent(eventType EventType, data interface{}) *ExamEvent {
	return &ExamEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "exam-engine",
		Version:   "1.0",
		Data:      data,
	}
}
