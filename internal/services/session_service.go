package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sinavly/exam-engine/internal/events"
	"github.com/sinavly/exam-engine/internal/models"
	"github.com/sinavly/exam-engine/internal/repositories"
	"github.com/sinavly/exam-engine/internal/validator"
)

// SubmitGracePeriod is how far past the deadline a submit is still
// accepted, to absorb network latency on client auto-submits.
const SubmitGracePeriod = 5 * time.Second

type CreateSessionRequest struct {
	CategoryID        string                     `json:"category_id" validate:"required"`
	SessionType       models.SessionType         `json:"session_type" validate:"required,session_type"`
	QuestionCount     int                        `json:"question_count" validate:"required,min=1,max=200"`
	TimeLimitOverride int                        `json:"time_limit_override,omitempty" validate:"omitempty,min=60"`
	Environment       *models.SessionEnvironment `json:"environment,omitempty"`
}

type SubmitSessionRequest struct {
	SessionID string                   `json:"session_id" validate:"required"`
	Answers   []models.SubmittedAnswer `json:"answers" validate:"dive"`
	TimeSpent int                      `json:"time_spent" validate:"min=0"`
}

// SessionResponse bundles a created session with its sanitized question
// set and the category the client renders the exam header from.
type SessionResponse struct {
	Session   *models.MockExamSession `json:"session"`
	Questions []models.ExamQuestion   `json:"questions"`
	ExamInfo  *models.ExamCategory    `json:"exam_info"`
}

// SessionService owns the session lifecycle: Created -> Active ->
// {Completed | Expired | Abandoned}. Terminal states are final.
type SessionService interface {
	Create(ctx context.Context, userID string, req *CreateSessionRequest) (*SessionResponse, error)
	Submit(ctx context.Context, userID string, req *SubmitSessionRequest) (*models.ExamResult, error)
	Cancel(ctx context.Context, userID, sessionID string) error
	GetByID(ctx context.Context, userID, sessionID string) (*models.MockExamSession, error)
	GetResult(ctx context.Context, sessionID string) (*models.ExamResult, error)

	// ExpireOverdue marks every overdue non-terminal session as expired.
	// It is the body of the background sweep and is safe to call
	// concurrently with submits.
	ExpireOverdue(ctx context.Context) (int, error)
}

type sessionService struct {
	repo        repositories.Repository
	provisioner ProvisionService
	publisher   events.EventPublisher
	logger      *slog.Logger
	validator   *validator.Validator

	// mu serializes submit and cancel per session id. The repository CAS
	// on status is the real guarantee; the keyed mutex keeps duplicate
	// submits from racing between the CAS and the result read.
	mu struct {
		sync.Mutex
		locks map[string]*sync.Mutex
	}
}

func NewSessionService(repo repositories.Repository, provisioner ProvisionService, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) SessionService {
	s := &sessionService{
		repo:        repo,
		provisioner: provisioner,
		publisher:   publisher,
		logger:      logger,
		validator:   v,
	}
	s.mu.locks = make(map[string]*sync.Mutex)
	return s
}

func (s *sessionService) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.mu.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.mu.locks[sessionID] = lock
	}
	return lock
}

func (s *sessionService) releaseLock(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mu.locks, sessionID)
}

// ===== LIFECYCLE OPERATIONS =====

func (s *sessionService) Create(ctx context.Context, userID string, req *CreateSessionRequest) (*SessionResponse, error) {
	s.logger.Info("Creating exam session",
		"user_id", userID,
		"category_id", req.CategoryID,
		"session_type", req.SessionType)

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	category, err := s.repo.Category().GetByID(ctx, req.CategoryID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	questions, err := s.provisioner.Provision(ctx, req.CategoryID, req.QuestionCount)
	if err != nil {
		return nil, err
	}

	duration := category.DurationSeconds
	if req.TimeLimitOverride > 0 {
		duration = req.TimeLimitOverride
	}

	now := time.Now()
	session := &models.MockExamSession{
		ID:              uuid.NewString(),
		UserID:          userID,
		CategoryID:      req.CategoryID,
		SessionType:     req.SessionType,
		DurationSeconds: duration,
		Status:          models.SessionActive,
		CreatedAt:       now,
		StartedAt:       now,
		DeadlineAt:      now.Add(time.Duration(duration) * time.Second),
	}
	if req.Environment != nil {
		session.Environment = *req.Environment
	}

	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	if err := session.SetQuestionIDs(ids); err != nil {
		return nil, fmt.Errorf("failed to encode question ids: %w", err)
	}

	// Synthetic backfill questions exist only in this session's set, so
	// they must be persisted for scoring to find them at submit time.
	var generated []*models.ExamQuestion
	for i := range questions {
		if questions[i].Synthetic {
			generated = append(generated, &questions[i])
		}
	}
	if len(generated) > 0 {
		if err := s.repo.Question().CreateBatch(ctx, generated); err != nil && !repositories.IsDuplicateError(err) {
			return nil, fmt.Errorf("failed to store generated questions: %w", err)
		}
	}

	if err := s.repo.Session().Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.publishEvent(ctx, events.NewSessionStartedEvent(
		session.ID, userID, session.CategoryID, string(session.SessionType),
		len(questions), session.StartedAt, session.DeadlineAt))

	sanitized := make([]models.ExamQuestion, len(questions))
	for i, q := range questions {
		sanitized[i] = q.Sanitized()
	}

	s.logger.Info("Exam session created",
		"session_id", session.ID,
		"question_count", len(questions),
		"deadline_at", session.DeadlineAt)

	return &SessionResponse{
		Session:   session,
		Questions: sanitized,
		ExamInfo:  category,
	}, nil
}

func (s *sessionService) Submit(ctx context.Context, userID string, req *SubmitSessionRequest) (*models.ExamResult, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	lock := s.sessionLock(req.SessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.getOwnedSession(ctx, userID, req.SessionID)
	if err != nil {
		return nil, err
	}

	// A duplicate submit returns the stored result, never rescoring.
	if session.Status == models.SessionCompleted {
		return s.storedResult(ctx, session.ID)
	}
	if session.Status == models.SessionAbandoned {
		return nil, ErrSessionCancelled
	}

	now := time.Now()
	if session.Status == models.SessionActive && now.After(session.DeadlineAt.Add(SubmitGracePeriod)) {
		// Deadline long gone; flip to expired and fall through so this
		// submit is treated as the expired session's final submit.
		if _, err := s.repo.Session().UpdateStatusIf(ctx, session.ID,
			[]models.SessionStatus{models.SessionActive}, models.SessionExpired); err != nil {
			return nil, fmt.Errorf("failed to expire session: %w", err)
		}
		session.Status = models.SessionExpired
		s.publishEvent(ctx, events.NewSessionExpiredEvent(session.ID, session.UserID, session.CategoryID, now))
	}

	// CAS the terminal transition; losing the race means another submit
	// already completed the session, so serve its result.
	ok, err := s.repo.Session().UpdateStatusIf(ctx, session.ID,
		[]models.SessionStatus{models.SessionActive, models.SessionExpired, models.SessionCreated},
		models.SessionCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}
	if !ok {
		return s.storedResult(ctx, session.ID)
	}

	result, err := s.scoreAndStore(ctx, session, req.Answers, now)
	if err != nil {
		// Roll the status back to what it was before the CAS, otherwise a
		// retry would find a completed session with no stored result and
		// the answers would be unrecoverable.
		if _, rbErr := s.repo.Session().UpdateStatusIf(ctx, session.ID,
			[]models.SessionStatus{models.SessionCompleted}, session.Status); rbErr != nil {
			s.logger.Error("Failed to restore session status after scoring failure",
				"session_id", session.ID, "status", session.Status, "error", rbErr)
		}
		return nil, err
	}
	s.releaseLock(session.ID)
	return result, nil
}

func (s *sessionService) scoreAndStore(ctx context.Context, session *models.MockExamSession, answers []models.SubmittedAnswer, now time.Time) (*models.ExamResult, error) {
	category, err := s.repo.Category().GetByID(ctx, session.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	// Always score against the session's own question set.
	ids, err := session.QuestionIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to decode question ids: %w", err)
	}
	stored, err := s.repo.Question().GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load session questions: %w", err)
	}

	byID := make(map[string]*models.ExamQuestion, len(stored))
	for _, q := range stored {
		byID[q.ID] = q
	}
	questions := make([]models.ExamQuestion, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			questions = append(questions, *q)
		}
	}

	result, err := ScoreSession(session, answers, questions, category)
	if err != nil {
		return nil, err
	}
	result.ID = uuid.NewString()

	if err := s.repo.Result().Create(ctx, result); err != nil {
		if repositories.IsDuplicateError(err) {
			return s.storedResult(ctx, session.ID)
		}
		return nil, fmt.Errorf("failed to store result: %w", err)
	}

	session.Status = models.SessionCompleted
	session.SubmittedAt = &now
	if err := s.repo.Session().Update(ctx, session); err != nil {
		s.logger.Warn("Failed to record submit timestamp",
			"session_id", session.ID, "error", err)
	}

	s.publishEvent(ctx, events.NewSessionCompletedEvent(
		session.ID, session.UserID, session.CategoryID, now,
		result.RawScore, result.PercentageScore,
		result.CorrectCount, result.WrongCount, result.BlankCount))

	s.logger.Info("Exam session scored",
		"session_id", session.ID,
		"raw_score", result.RawScore,
		"percentage", result.PercentageScore)

	return result, nil
}

func (s *sessionService) Cancel(ctx context.Context, userID, sessionID string) error {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.getOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}

	switch session.Status {
	case models.SessionCompleted:
		return ErrSessionAlreadySubmitted
	case models.SessionAbandoned:
		return ErrSessionCancelled
	case models.SessionExpired:
		// Abandoning is only meaningful before the deadline; an expired
		// session's remaining move is the final submit.
		return ErrSubmitWindowClosed
	}

	ok, err := s.repo.Session().UpdateStatusIf(ctx, sessionID,
		[]models.SessionStatus{models.SessionCreated, models.SessionActive},
		models.SessionAbandoned)
	if err != nil {
		return fmt.Errorf("failed to abandon session: %w", err)
	}
	if !ok {
		return ErrSessionAlreadySubmitted
	}

	s.publishEvent(ctx, events.NewSessionAbandonedEvent(sessionID, session.UserID, session.CategoryID, time.Now()))
	s.releaseLock(sessionID)

	s.logger.Info("Exam session abandoned", "session_id", sessionID, "user_id", userID)
	return nil
}

func (s *sessionService) GetByID(ctx context.Context, userID, sessionID string) (*models.MockExamSession, error) {
	session, err := s.getOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	// Lazily surface expiry on read access.
	if session.Status == models.SessionActive && time.Now().After(session.DeadlineAt.Add(SubmitGracePeriod)) {
		ok, err := s.repo.Session().UpdateStatusIf(ctx, session.ID,
			[]models.SessionStatus{models.SessionActive}, models.SessionExpired)
		if err != nil {
			return nil, fmt.Errorf("failed to expire session: %w", err)
		}
		if ok {
			session.Status = models.SessionExpired
			s.publishEvent(ctx, events.NewSessionExpiredEvent(session.ID, session.UserID, session.CategoryID, time.Now()))
		}
	}

	return session, nil
}

func (s *sessionService) GetResult(ctx context.Context, sessionID string) (*models.ExamResult, error) {
	return s.storedResult(ctx, sessionID)
}

func (s *sessionService) ExpireOverdue(ctx context.Context) (int, error) {
	overdue, err := s.repo.Session().ListDeadlinePassed(ctx, time.Now().Add(-SubmitGracePeriod))
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue sessions: %w", err)
	}

	expired := 0
	for _, session := range overdue {
		ok, err := s.repo.Session().UpdateStatusIf(ctx, session.ID,
			[]models.SessionStatus{models.SessionCreated, models.SessionActive},
			models.SessionExpired)
		if err != nil {
			s.logger.Warn("Expiry sweep failed for session",
				"session_id", session.ID, "error", err)
			continue
		}
		if ok {
			expired++
			s.publishEvent(ctx, events.NewSessionExpiredEvent(session.ID, session.UserID, session.CategoryID, time.Now()))
		}
	}

	if expired > 0 {
		s.logger.Info("Expiry sweep finished", "expired", expired)
	}
	return expired, nil
}

// StartExpirySweep runs ExpireOverdue on a fixed interval until ctx is
// cancelled.
func StartExpirySweep(ctx context.Context, sessions SessionService, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := sessions.ExpireOverdue(ctx); err != nil {
					logger.Error("Expiry sweep failed", "error", err)
				}
			}
		}
	}()
}

// ===== HELPERS =====

func (s *sessionService) getOwnedSession(ctx context.Context, userID, sessionID string) (*models.MockExamSession, error) {
	session, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if userID != "" && session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionService) storedResult(ctx context.Context, sessionID string) (*models.ExamResult, error) {
	result, err := s.repo.Result().GetBySession(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	return result, nil
}

func (s *sessionService) publishEvent(ctx context.Context, event *events.ExamEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExamEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event",
			"event_type", event.Type, "error", err)
	}
}
