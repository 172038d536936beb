package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/sinavly/exam-engine/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned by non-gorm repository implementations when a
// record does not exist. Gorm-backed implementations surface
// gorm.ErrRecordNotFound instead; use IsNotFoundError to cover both.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a uniqueness constraint would be violated,
// e.g. a second result for the same session.
var ErrDuplicate = errors.New("record already exists")

// IsNotFoundError reports whether err represents a missing record.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err represents a uniqueness violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey)
}

// ===== SHARED FILTER STRUCTS =====

type QuestionFilters struct {
	Subject    *string                 `json:"subject"`
	Difficulty *models.DifficultyLevel `json:"difficulty"`
	Synthetic  *bool                   `json:"synthetic"`
	Limit      int                     `json:"limit"`
	Offset     int                     `json:"offset"`
}

type ResultFilters struct {
	CategoryID *string    `json:"category_id"`
	DateFrom   *time.Time `json:"date_from"`
	DateTo     *time.Time `json:"date_to"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type CategoryStats struct {
	TotalAttempts    int     `json:"total_attempts"`
	AverageScore     float64 `json:"average_score"`
	AveragePercent   float64 `json:"average_percent"`
	BestScore        float64 `json:"best_score"`
	PassRate         float64 `json:"pass_rate"`
	AverageTimeSpent int     `json:"average_time_spent"`
}

type UserCategoryStats struct {
	Attempts       int     `json:"attempts"`
	AverageScore   float64 `json:"average_score"`
	AveragePercent float64 `json:"average_percent"`
	BestScore      float64 `json:"best_score"`
	LastPercent    float64 `json:"last_percent"`
}

// ===== REPOSITORY INTERFACES =====

// CategoryRepository provides read-only access to the exam category
// registry. Implementations must return categories in declared priority
// order from List, never an arbitrary iteration order.
type CategoryRepository interface {
	GetByID(ctx context.Context, id string) (*models.ExamCategory, error)
	List(ctx context.Context) ([]*models.ExamCategory, error)
}

// QuestionRepository stores curated and synthetic exam questions.
type QuestionRepository interface {
	Create(ctx context.Context, question *models.ExamQuestion) error
	CreateBatch(ctx context.Context, questions []*models.ExamQuestion) error
	GetByID(ctx context.Context, id string) (*models.ExamQuestion, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.ExamQuestion, error)

	// GetByCategory returns curated questions for the category ordered by
	// subject (in insertion order within a subject) so provisioning can
	// keep subjects contiguous.
	GetByCategory(ctx context.Context, categoryID string, filters QuestionFilters) ([]*models.ExamQuestion, error)
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
}

// SessionRepository stores mock exam sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *models.MockExamSession) error
	GetByID(ctx context.Context, id string) (*models.MockExamSession, error)
	Update(ctx context.Context, session *models.MockExamSession) error

	// UpdateStatusIf atomically moves the session from one of the given
	// statuses to the target status. It reports false when the session was
	// not in any of the expected statuses, which makes it usable as a
	// compare-and-swap for the Active -> Completed transition.
	UpdateStatusIf(ctx context.Context, id string, from []models.SessionStatus, to models.SessionStatus) (bool, error)

	// ListDeadlinePassed returns non-terminal sessions whose deadline
	// passed before cutoff, for the expiry sweep.
	ListDeadlinePassed(ctx context.Context, cutoff time.Time) ([]*models.MockExamSession, error)
}

// ResultRepository stores derived exam results, exactly one per session.
type ResultRepository interface {
	Create(ctx context.Context, result *models.ExamResult) error
	GetBySession(ctx context.Context, sessionID string) (*models.ExamResult, error)
	GetByUser(ctx context.Context, userID string, filters ResultFilters) ([]*models.ExamResult, error)

	GetCategoryStats(ctx context.Context, categoryID string, passingScore float64) (*CategoryStats, error)
	GetUserCategoryStats(ctx context.Context, categoryID, userID string) (*UserCategoryStats, error)
}

// RegistrationRepository stores official exam registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, registration *models.ExamRegistration) error
	GetByUser(ctx context.Context, userID string) ([]*models.ExamRegistration, error)
}

// Repository aggregates all repositories behind one injection point.
type Repository interface {
	Category() CategoryRepository
	Question() QuestionRepository
	Session() SessionRepository
	Result() ResultRepository
	Registration() RegistrationRepository
}
