// Package memory provides in-memory repository implementations. They back
// the development mode of the server and the concurrency tests; semantics
// (not-found, duplicate, compare-and-swap) match the postgres stores.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sinavly/exam-engine/internal/models"
	"github.com/sinavly/exam-engine/internal/repositories"
)

type repository struct {
	categories    repositories.CategoryRepository
	questions     *QuestionStore
	sessions      *SessionStore
	results       *ResultStore
	registrations *RegistrationStore
}

// NewRepository builds a fully in-memory repository around the injected
// category registry.
func NewRepository(categories repositories.CategoryRepository) repositories.Repository {
	return &repository{
		categories:    categories,
		questions:     NewQuestionStore(),
		sessions:      NewSessionStore(),
		results:       NewResultStore(),
		registrations: NewRegistrationStore(),
	}
}

func (r *repository) Category() repositories.CategoryRepository { return r.categories }
func (r *repository) Question() repositories.QuestionRepository { return r.questions }
func (r *repository) Session() repositories.SessionRepository   { return r.sessions }
func (r *repository) Result() repositories.ResultRepository     { return r.results }
func (r *repository) Registration() repositories.RegistrationRepository {
	return r.registrations
}

// ===== QUESTIONS =====

type QuestionStore struct {
	mu    sync.RWMutex
	byID  map[string]*models.ExamQuestion
	order []string
}

func NewQuestionStore() *QuestionStore {
	return &QuestionStore{byID: make(map[string]*models.ExamQuestion)}
}

func (s *QuestionStore) Create(ctx context.Context, question *models.ExamQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[question.ID]; exists {
		return repositories.ErrDuplicate
	}
	q := *question
	s.byID[q.ID] = &q
	s.order = append(s.order, q.ID)
	return nil
}

func (s *QuestionStore) CreateBatch(ctx context.Context, questions []*models.ExamQuestion) error {
	for _, q := range questions {
		if err := s.Create(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *QuestionStore) GetByID(ctx context.Context, id string) (*models.ExamQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *q
	return &copied, nil
}

func (s *QuestionStore) GetByIDs(ctx context.Context, ids []string) ([]*models.ExamQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	questions := make([]*models.ExamQuestion, 0, len(ids))
	for _, id := range ids {
		if q, ok := s.byID[id]; ok {
			copied := *q
			questions = append(questions, &copied)
		}
	}
	return questions, nil
}

func (s *QuestionStore) GetByCategory(ctx context.Context, categoryID string, filters repositories.QuestionFilters) ([]*models.ExamQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var questions []*models.ExamQuestion
	for _, id := range s.order {
		q := s.byID[id]
		if q.CategoryID != categoryID {
			continue
		}
		if filters.Subject != nil && q.Subject != *filters.Subject {
			continue
		}
		if filters.Difficulty != nil && q.Difficulty != *filters.Difficulty {
			continue
		}
		if filters.Synthetic != nil && q.Synthetic != *filters.Synthetic {
			continue
		}
		copied := *q
		questions = append(questions, &copied)
	}

	// Group by subject with insertion order preserved inside a subject,
	// matching the postgres store's ordering contract.
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Subject < questions[j].Subject
	})

	if filters.Offset > 0 {
		if filters.Offset >= len(questions) {
			return nil, nil
		}
		questions = questions[filters.Offset:]
	}
	if filters.Limit > 0 && filters.Limit < len(questions) {
		questions = questions[:filters.Limit]
	}
	return questions, nil
}

func (s *QuestionStore) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, q := range s.byID {
		if q.CategoryID == categoryID && !q.Synthetic {
			count++
		}
	}
	return count, nil
}

// ===== SESSIONS =====

type SessionStore struct {
	mu   sync.RWMutex
	byID map[string]*models.MockExamSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{byID: make(map[string]*models.MockExamSession)}
}

func (s *SessionStore) Create(ctx context.Context, session *models.MockExamSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[session.ID]; exists {
		return repositories.ErrDuplicate
	}
	copied := *session
	s.byID[copied.ID] = &copied
	return nil
}

func (s *SessionStore) GetByID(ctx context.Context, id string) (*models.MockExamSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *SessionStore) Update(ctx context.Context, session *models.MockExamSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[session.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *session
	s.byID[copied.ID] = &copied
	return nil
}

func (s *SessionStore) UpdateStatusIf(ctx context.Context, id string, from []models.SessionStatus, to models.SessionStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.byID[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	for _, status := range from {
		if session.Status == status {
			session.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (s *SessionStore) ListDeadlinePassed(ctx context.Context, cutoff time.Time) ([]*models.MockExamSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sessions []*models.MockExamSession
	for _, session := range s.byID {
		if session.Status == models.SessionActive && session.DeadlineAt.Before(cutoff) {
			copied := *session
			sessions = append(sessions, &copied)
		}
	}
	return sessions, nil
}

// ===== RESULTS =====

type ResultStore struct {
	mu        sync.RWMutex
	bySession map[string]*models.ExamResult
}

func NewResultStore() *ResultStore {
	return &ResultStore{bySession: make(map[string]*models.ExamResult)}
}

func (s *ResultStore) Create(ctx context.Context, result *models.ExamResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.bySession[result.SessionID]; exists {
		return repositories.ErrDuplicate
	}
	copied := *result
	s.bySession[copied.SessionID] = &copied
	return nil
}

func (s *ResultStore) GetBySession(ctx context.Context, sessionID string) (*models.ExamResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.bySession[sessionID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *result
	return &copied, nil
}

func (s *ResultStore) GetByUser(ctx context.Context, userID string, filters repositories.ResultFilters) ([]*models.ExamResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var results []*models.ExamResult
	for _, result := range s.bySession {
		if result.UserID != userID {
			continue
		}
		if filters.DateFrom != nil && result.GeneratedAt.Before(*filters.DateFrom) {
			continue
		}
		if filters.DateTo != nil && result.GeneratedAt.After(*filters.DateTo) {
			continue
		}
		copied := *result
		results = append(results, &copied)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].GeneratedAt.After(results[j].GeneratedAt)
	})
	if filters.Limit > 0 && filters.Limit < len(results) {
		results = results[:filters.Limit]
	}
	return results, nil
}

func (s *ResultStore) GetCategoryStats(ctx context.Context, categoryID string, passingScore float64) (*repositories.CategoryStats, error) {
	// The memory store does not track the session -> category join; stats
	// queries are served by the postgres store in deployments. Returning
	// empty stats keeps development mode functional.
	return &repositories.CategoryStats{}, nil
}

func (s *ResultStore) GetUserCategoryStats(ctx context.Context, categoryID, userID string) (*repositories.UserCategoryStats, error) {
	return &repositories.UserCategoryStats{}, nil
}

// ===== REGISTRATIONS =====

type RegistrationStore struct {
	mu     sync.RWMutex
	byUser map[string][]*models.ExamRegistration
}

func NewRegistrationStore() *RegistrationStore {
	return &RegistrationStore{byUser: make(map[string][]*models.ExamRegistration)}
}

func (s *RegistrationStore) Create(ctx context.Context, registration *models.ExamRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *registration
	s.byUser[copied.UserID] = append(s.byUser[copied.UserID], &copied)
	return nil
}

func (s *RegistrationStore) GetByUser(ctx context.Context, userID string) ([]*models.ExamRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	registrations := make([]*models.ExamRegistration, 0, len(s.byUser[userID]))
	for _, reg := range s.byUser[userID] {
		copied := *reg
		registrations = append(registrations, &copied)
	}
	sort.Slice(registrations, func(i, j int) bool {
		return registrations[i].ExamDate.Before(registrations[j].ExamDate)
	})
	return registrations, nil
}
