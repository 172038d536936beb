package services

import (
	"context"
	"testing"

	"github.com/sinavly/exam-engine/internal/catalog"
	"github.com/sinavly/exam-engine/internal/models"
	"github.com/sinavly/exam-engine/internal/repositories/memory"
	"github.com/sinavly/exam-engine/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPredictionService(t *testing.T) PredictionService {
	t.Helper()
	repo := memory.NewRepository(catalog.NewWithCategories([]models.ExamCategory{testCategory()}))
	return NewPredictionService(repo, testLogger(), validator.New())
}

func TestPredict_ScenarioWithDefaultFactors(t *testing.T) {
	svc := newPredictionService(t)

	// test-cat has no configured factors, so the 0.8/0.8 defaults apply.
	prediction, err := svc.Predict(context.Background(), &PredictionRequest{
		CategoryID:        "test-cat",
		CurrentScore:      50,
		TargetScore:       80,
		StudyHoursPerWeek: 10,
		DaysUntilExam:     60,
	})
	require.NoError(t, err)

	// requiredImprovement = 0.30 -> ceil(0.30 * 80) = 24 hours.
	assert.Equal(t, 24, prediction.RequiredStudyHours)
	assert.Greater(t, prediction.SuccessProbabilityPercent, 5.0)
	assert.Less(t, prediction.SuccessProbabilityPercent, 95.0)
}

func TestPredict_ProbabilityClamped(t *testing.T) {
	svc := newPredictionService(t)

	cases := []struct {
		name    string
		request PredictionRequest
	}{
		{
			name: "hopeless",
			request: PredictionRequest{
				CategoryID:    "test-cat",
				CurrentScore:  0,
				TargetScore:   100,
				DaysUntilExam: 0,
			},
		},
		{
			name: "already there",
			request: PredictionRequest{
				CategoryID:        "test-cat",
				CurrentScore:      100,
				TargetScore:       10,
				StudyHoursPerWeek: 80,
				DaysUntilExam:     365,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prediction, err := svc.Predict(context.Background(), &tc.request)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, prediction.SuccessProbabilityPercent, 5.0)
			assert.LessOrEqual(t, prediction.SuccessProbabilityPercent, 95.0)
		})
	}
}

func TestPredict_PastExamDateRejected(t *testing.T) {
	svc := newPredictionService(t)

	_, err := svc.Predict(context.Background(), &PredictionRequest{
		CategoryID:    "test-cat",
		CurrentScore:  50,
		TargetScore:   80,
		DaysUntilExam: -1,
	})
	assert.ErrorIs(t, err, ErrPastExamDate)
	assert.True(t, IsInvalidArgument(err))
}

func TestPredict_UnknownCategory(t *testing.T) {
	svc := newPredictionService(t)

	_, err := svc.Predict(context.Background(), &PredictionRequest{
		CategoryID:    "no-such-cat",
		DaysUntilExam: 30,
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestPredict_UnconfiguredCategoryFallbacks(t *testing.T) {
	svc := newPredictionService(t)

	prediction, err := svc.Predict(context.Background(), &PredictionRequest{
		CategoryID:        "test-cat",
		CurrentScore:      40,
		TargetScore:       70,
		StudyHoursPerWeek: 5,
		DaysUntilExam:     90,
	})
	require.NoError(t, err)

	require.Len(t, prediction.WeakAreas, 1)
	assert.Equal(t, "Genel Konular", prediction.WeakAreas[0].Topic)
	assert.NotEmpty(t, prediction.Recommendations)

	// Uniform distribution across the category's three subjects.
	dist := prediction.StudyPlan.SubjectDistribution
	require.Len(t, dist, 3)
	total := 0.0
	for _, share := range dist {
		assert.InDelta(t, 1.0/3.0, share, 1e-9)
		total += share
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestBuildStudyPlan_Milestones(t *testing.T) {
	svc := newPredictionService(t)
	category := testCategory()

	plan := svc.BuildStudyPlan(&category, models.PreparationBeginner, 60)

	assert.Equal(t, 8, plan.TotalWeeks)
	assert.InDelta(t, 2.0, plan.DailyStudyHours, 1e-9)

	require.Len(t, plan.Milestones, 4)
	assert.Equal(t, 15, plan.Milestones[0].DayOffset)
	assert.Equal(t, "Temel Konular", plan.Milestones[0].Title)
	assert.Equal(t, 30, plan.Milestones[1].DayOffset)
	assert.Equal(t, "Orta Seviye", plan.Milestones[1].Title)
	assert.Equal(t, 45, plan.Milestones[2].DayOffset)
	assert.Equal(t, "İleri Seviye", plan.Milestones[2].Title)
	assert.Equal(t, 53, plan.Milestones[3].DayOffset)
	assert.Equal(t, "Son Tekrar", plan.Milestones[3].Title)
}

func TestBuildStudyPlan_ShortWindowDropsMilestones(t *testing.T) {
	svc := newPredictionService(t)
	category := testCategory()

	// 5 days out: 25% lands at day 1, but the final-week rehearsal would
	// land in the past and is dropped.
	plan := svc.BuildStudyPlan(&category, models.PreparationAdvanced, 5)

	assert.InDelta(t, 4.0, plan.DailyStudyHours, 1e-9)
	for _, m := range plan.Milestones {
		assert.Greater(t, m.DayOffset, 0)
	}
	assert.Less(t, len(plan.Milestones), 4)
}

func TestBuildStudyPlan_ShortWindowKeepsMilestonesChronological(t *testing.T) {
	svc := newPredictionService(t)
	category := testCategory()

	// 8 days out the rehearsal offset (day 1) precedes every percentage
	// milestone and must come first in the ordered list.
	plan := svc.BuildStudyPlan(&category, models.PreparationIntermediate, 8)

	require.Len(t, plan.Milestones, 4)
	assert.Equal(t, 1, plan.Milestones[0].DayOffset)
	assert.Equal(t, "Son Tekrar", plan.Milestones[0].Title)
	for i := 1; i < len(plan.Milestones); i++ {
		assert.GreaterOrEqual(t, plan.Milestones[i].DayOffset, plan.Milestones[i-1].DayOffset)
	}
}

func TestPreparationLevelHours(t *testing.T) {
	assert.InDelta(t, 2.0, models.PreparationBeginner.DailyStudyHours(), 1e-9)
	assert.InDelta(t, 3.0, models.PreparationIntermediate.DailyStudyHours(), 1e-9)
	assert.InDelta(t, 4.0, models.PreparationAdvanced.DailyStudyHours(), 1e-9)
}
