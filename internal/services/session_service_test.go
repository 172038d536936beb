package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sinavly/exam-engine/internal/events"
	"github.com/sinavly/exam-engine/internal/models"
	"github.com/sinavly/exam-engine/internal/repositories"
	"github.com/sinavly/exam-engine/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionFixture(t *testing.T) (SessionService, repositories.Repository, *events.MockEventPublisher) {
	t.Helper()
	repo := testRepo(t)
	seedQuestions(t, repo, map[string]int{"Matematik": 4, "Türkçe": 4})
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	provisioner := NewProvisionService(repo, logger)
	svc := NewSessionService(repo, provisioner, publisher, logger, validator.New())
	return svc, repo, publisher
}

func createActiveSession(t *testing.T, svc SessionService, questionCount int) *SessionResponse {
	t.Helper()
	resp, err := svc.Create(context.Background(), "user-1", &CreateSessionRequest{
		CategoryID:    "test-cat",
		SessionType:   models.SessionFullMock,
		QuestionCount: questionCount,
	})
	require.NoError(t, err)
	return resp
}

func TestSessionCreate(t *testing.T) {
	svc, _, publisher := newSessionFixture(t)

	resp := createActiveSession(t, svc, 8)

	assert.Equal(t, models.SessionActive, resp.Session.Status)
	assert.Len(t, resp.Questions, 8)
	assert.Equal(t, "test-cat", resp.ExamInfo.ID)
	assert.Equal(t, 600, resp.Session.DurationSeconds)
	assert.WithinDuration(t, resp.Session.StartedAt.Add(600*time.Second), resp.Session.DeadlineAt, time.Second)

	// Issued questions never carry the answer key.
	for _, q := range resp.Questions {
		assert.Empty(t, q.CorrectAnswer)
		assert.Empty(t, q.Explanation)
	}

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventSessionStarted, published[0].Type)
}

func TestSessionCreate_TimeLimitOverride(t *testing.T) {
	svc, _, _ := newSessionFixture(t)

	resp, err := svc.Create(context.Background(), "user-1", &CreateSessionRequest{
		CategoryID:        "test-cat",
		SessionType:       models.SessionTimedPractice,
		QuestionCount:     4,
		TimeLimitOverride: 120,
	})
	require.NoError(t, err)
	assert.Equal(t, 120, resp.Session.DurationSeconds)
}

func TestSessionCreate_UnknownCategory(t *testing.T) {
	svc, _, _ := newSessionFixture(t)

	_, err := svc.Create(context.Background(), "user-1", &CreateSessionRequest{
		CategoryID:    "no-such-cat",
		SessionType:   models.SessionFullMock,
		QuestionCount: 4,
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestSubmit_ScoresAndCompletes(t *testing.T) {
	svc, repo, publisher := newSessionFixture(t)
	resp := createActiveSession(t, svc, 8)
	publisher.ClearEvents()

	ids, err := resp.Session.QuestionIDs()
	require.NoError(t, err)

	answers := []models.SubmittedAnswer{
		{QuestionID: ids[0], SelectedAnswer: "A", TimeSpentSeconds: 30},
		{QuestionID: ids[1], SelectedAnswer: "B", TimeSpentSeconds: 40},
	}

	result, err := svc.Submit(context.Background(), "user-1", &SubmitSessionRequest{
		SessionID: resp.Session.ID,
		Answers:   answers,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.CorrectCount)
	assert.Equal(t, 1, result.WrongCount)
	assert.Equal(t, 6, result.BlankCount)
	assert.Equal(t, 8, result.TotalQuestions)

	stored, err := repo.Session().GetByID(context.Background(), resp.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, stored.Status)
	require.NotNil(t, stored.SubmittedAt)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventSessionCompleted, published[0].Type)
}

func TestSubmit_IsIdempotent(t *testing.T) {
	svc, _, _ := newSessionFixture(t)
	resp := createActiveSession(t, svc, 6)

	ids, err := resp.Session.QuestionIDs()
	require.NoError(t, err)

	first, err := svc.Submit(context.Background(), "user-1", &SubmitSessionRequest{
		SessionID: resp.Session.ID,
		Answers:   []models.SubmittedAnswer{{QuestionID: ids[0], SelectedAnswer: "A"}},
	})
	require.NoError(t, err)

	// The second submit carries different answers but must observe the
	// stored result, never a rescore.
	second, err := svc.Submit(context.Background(), "user-1", &SubmitSessionRequest{
		SessionID: resp.Session.ID,
		Answers: []models.SubmittedAnswer{
			{QuestionID: ids[0], SelectedAnswer: "B"},
			{QuestionID: ids[1], SelectedAnswer: "B"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CorrectCount, second.CorrectCount)
	assert.Equal(t, first.RawScore, second.RawScore)
	assert.Equal(t, first.GeneratedAt.UnixNano(), second.GeneratedAt.UnixNano())
}

func TestSubmit_ConcurrentDuplicatesProduceOneResult(t *testing.T) {
	svc, repo, _ := newSessionFixture(t)
	resp := createActiveSession(t, svc, 6)

	ids, err := resp.Session.QuestionIDs()
	require.NoError(t, err)

	const callers = 8
	results := make([]*models.ExamResult, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			answer := "A"
			if n%2 == 1 {
				answer = "B"
			}
			results[n], errs[n] = svc.Submit(context.Background(), "user-1", &SubmitSessionRequest{
				SessionID: resp.Session.ID,
				Answers:   []models.SubmittedAnswer{{QuestionID: ids[n%len(ids)], SelectedAnswer: answer}},
			})
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
		// Every caller observes the single persisted result.
		assert.Equal(t, results[0].ID, results[i].ID)
	}

	stored, err := repo.Result().GetBySession(context.Background(), resp.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, results[0].ID, stored.ID)
}

func TestSubmit_ExpiredSessionAcceptsOneFinalSubmit(t *testing.T) {
	svc, repo, _ := newSessionFixture(t)
	resp := createActiveSession(t, svc, 4)

	// Push the deadline into the past, beyond the grace period.
	session, err := repo.Session().GetByID(context.Background(), resp.Session.ID)
	require.NoError(t, err)
	session.DeadlineAt = time.Now().Add(-time.Minute)
	require.NoError(t, repo.Session().Update(context.Background(), session))

	ids, err := resp.Session.QuestionIDs()
	require.NoError(t, err)

	result, err := svc.Submit(context.Background(), "user-1", &SubmitSessionRequest{
		SessionID: resp.Session.ID,
		Answers:   []models.SubmittedAnswer{{QuestionID: ids[0], SelectedAnswer: "A"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalQuestions)

	stored, err := repo.Session().GetByID(context.Background(), resp.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, stored.Status)
}

func TestSubmit_WithinGracePeriod(t *testing.T) {
	svc, repo, _ := newSessionFixture(t)
	resp := createActiveSession(t, svc, 4)

	session, err := repo.Session().GetByID(context.Background(), resp.Session.ID)
	require.NoError(t, err)
	session.DeadlineAt = time.Now().Add(-2 * time.Second)
	require.NoError(t, repo.Session().Update(context.Background(), session))

	_, err = svc.Submit(context.Background(), "user-1", &SubmitSessionRequest{
		SessionID: resp.Session.ID,
	})
	require.NoError(t, err)

	stored, err := repo.Session().GetByID(context.Background(), resp.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, stored.Status)
}

// flakyResultStore fails a fixed number of Create calls before
// delegating to the real store.
type flakyResultStore struct {
	repositories.ResultRepository
	failures int
}

func (f *flakyResultStore) Create(ctx context.Context, result *models.ExamResult) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("result storage unavailable")
	}
	return f.ResultRepository.Create(ctx, result)
}

type flakyResultRepo struct {
	repositories.Repository
	results *flakyResultStore
}

func (f *flakyResultRepo) Result() repositories.ResultRepository { return f.results }

func TestSubmit_RetrySucceedsAfterResultStoreFailure(t *testing.T) {
	base := testRepo(t)
	seedQuestions(t, base, map[string]int{"Matematik": 4})
	repo := &flakyResultRepo{
		Repository: base,
		results:    &flakyResultStore{ResultRepository: base.Result(), failures: 1},
	}
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	provisioner := NewProvisionService(repo, logger)
	svc := NewSessionService(repo, provisioner, publisher, logger, validator.New())

	resp := createActiveSession(t, svc, 4)
	ids, err := resp.Session.QuestionIDs()
	require.NoError(t, err)

	req := &SubmitSessionRequest{
		SessionID: resp.Session.ID,
		Answers:   []models.SubmittedAnswer{{QuestionID: ids[0], SelectedAnswer: "A"}},
	}

	_, err = svc.Submit(context.Background(), "user-1", req)
	require.Error(t, err)

	// The failed attempt must not strand the session as completed with no
	// result.
	stored, err := repo.Session().GetByID(context.Background(), resp.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionActive, stored.Status)

	result, err := svc.Submit(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalQuestions)
	assert.Equal(t, 1, result.CorrectCount)
}

func TestSubmit_AfterCancelConflicts(t *testing.T) {
	svc, _, _ := newSessionFixture(t)
	resp := createActiveSession(t, svc, 4)

	require.NoError(t, svc.Cancel(context.Background(), "user-1", resp.Session.ID))

	_, err := svc.Submit(context.Background(), "user-1", &SubmitSessionRequest{
		SessionID: resp.Session.ID,
	})
	assert.ErrorIs(t, err, ErrSessionCancelled)
	assert.True(t, IsConflict(err))
}

func TestSubmit_UnknownSession(t *testing.T) {
	svc, _, _ := newSessionFixture(t)

	_, err := svc.Submit(context.Background(), "user-1", &SubmitSessionRequest{
		SessionID: "missing",
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCancel(t *testing.T) {
	svc, repo, publisher := newSessionFixture(t)
	resp := createActiveSession(t, svc, 4)
	publisher.ClearEvents()

	require.NoError(t, svc.Cancel(context.Background(), "user-1", resp.Session.ID))

	stored, err := repo.Session().GetByID(context.Background(), resp.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionAbandoned, stored.Status)

	// No result is ever produced for an abandoned session.
	_, err = svc.GetResult(context.Background(), resp.Session.ID)
	assert.ErrorIs(t, err, ErrResultNotFound)

	// Cancelling twice conflicts.
	err = svc.Cancel(context.Background(), "user-1", resp.Session.ID)
	assert.True(t, IsConflict(err))

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventSessionAbandoned, published[0].Type)
}

func TestCancel_CompletedSessionConflicts(t *testing.T) {
	svc, _, _ := newSessionFixture(t)
	resp := createActiveSession(t, svc, 4)

	_, err := svc.Submit(context.Background(), "user-1", &SubmitSessionRequest{
		SessionID: resp.Session.ID,
	})
	require.NoError(t, err)

	err = svc.Cancel(context.Background(), "user-1", resp.Session.ID)
	assert.ErrorIs(t, err, ErrSessionAlreadySubmitted)
}

func TestGetByID_SurfacesExpiryLazily(t *testing.T) {
	svc, repo, publisher := newSessionFixture(t)
	resp := createActiveSession(t, svc, 4)
	publisher.ClearEvents()

	session, err := repo.Session().GetByID(context.Background(), resp.Session.ID)
	require.NoError(t, err)
	session.DeadlineAt = time.Now().Add(-time.Minute)
	require.NoError(t, repo.Session().Update(context.Background(), session))

	fetched, err := svc.GetByID(context.Background(), "user-1", resp.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionExpired, fetched.Status)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventSessionExpired, published[0].Type)
}

func TestGetByID_OtherUsersSessionHidden(t *testing.T) {
	svc, _, _ := newSessionFixture(t)
	resp := createActiveSession(t, svc, 4)

	_, err := svc.GetByID(context.Background(), "user-2", resp.Session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestExpireOverdue(t *testing.T) {
	svc, repo, _ := newSessionFixture(t)
	overdue := createActiveSession(t, svc, 4)
	fresh := createActiveSession(t, svc, 4)

	session, err := repo.Session().GetByID(context.Background(), overdue.Session.ID)
	require.NoError(t, err)
	session.DeadlineAt = time.Now().Add(-time.Minute)
	require.NoError(t, repo.Session().Update(context.Background(), session))

	expired, err := svc.ExpireOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	stored, err := repo.Session().GetByID(context.Background(), overdue.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionExpired, stored.Status)

	untouched, err := repo.Session().GetByID(context.Background(), fresh.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionActive, untouched.Status)
}
