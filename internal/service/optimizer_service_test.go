package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/planwise-api/internal/dto"
	"github.com/planwise/planwise-api/internal/models"
	"github.com/planwise/planwise-api/internal/planner"
)

type fakeActivityStore struct {
	activities []models.Activity
	created    []models.Activity
	updated    []models.Activity
	nextID     int64
}

func (f *fakeActivityStore) ListByOwnerAndRange(context.Context, int64, time.Time, time.Time) ([]models.Activity, error) {
	return f.activities, nil
}

func (f *fakeActivityStore) Create(_ context.Context, activity *models.Activity) error {
	f.nextID++
	activity.ID = f.nextID + 1000
	f.created = append(f.created, *activity)
	return nil
}

func (f *fakeActivityStore) Update(_ context.Context, activity *models.Activity) error {
	f.updated = append(f.updated, *activity)
	return nil
}

func seededRand(seed int64) func() *rand.Rand {
	return func() *rand.Rand { return rand.New(rand.NewSource(seed)) }
}

func planWindow() (time.Time, time.Time) {
	start := time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)
	return start, start.Add(10 * time.Hour)
}

func TestGeneratePlanDefaultTemplate(t *testing.T) {
	store := &fakeActivityStore{}
	svc := NewOptimizerService(store, &fakeConstraintRepo{}, nil, WithRandSource(seededRand(42)))

	windowStart, windowEnd := planWindow()
	resp, err := svc.GeneratePlan(context.Background(), 1, dto.GeneratePlanRequest{
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
	})
	require.NoError(t, err)
	require.Len(t, resp.Activities, 3)
	assert.False(t, resp.Applied)
	assert.Empty(t, store.created)

	titles := map[string]bool{}
	for _, activity := range resp.Activities {
		titles[activity.Title] = true
		require.True(t, activity.HasInterval())
		assert.False(t, activity.Start.Before(windowStart))
		assert.False(t, activity.End.After(windowEnd))
	}
	assert.True(t, titles["Task A"] && titles["Task B"] && titles["Task C"])

	for i := 0; i < len(resp.Activities); i++ {
		for j := i + 1; j < len(resp.Activities); j++ {
			a, b := resp.Activities[i], resp.Activities[j]
			assert.False(t, planner.Overlaps(*a.Start, *a.End, *b.Start, *b.End))
		}
	}
}

func TestGeneratePlanDeterministicWithSeed(t *testing.T) {
	windowStart, windowEnd := planWindow()
	req := dto.GeneratePlanRequest{
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Candidates: []dto.PlanCandidate{
			{Title: "alpha", DurationHours: 2, Priority: models.PriorityHigh},
			{Title: "beta", DurationHours: 1, Priority: models.PriorityLow},
		},
	}

	first, err := NewOptimizerService(&fakeActivityStore{}, &fakeConstraintRepo{}, nil, WithRandSource(seededRand(7))).
		GeneratePlan(context.Background(), 1, req)
	require.NoError(t, err)
	second, err := NewOptimizerService(&fakeActivityStore{}, &fakeConstraintRepo{}, nil, WithRandSource(seededRand(7))).
		GeneratePlan(context.Background(), 1, req)
	require.NoError(t, err)

	require.Len(t, second.Activities, len(first.Activities))
	assert.Equal(t, first.Cost, second.Cost)
	for i := range first.Activities {
		assert.True(t, first.Activities[i].Start.Equal(*second.Activities[i].Start))
		assert.True(t, first.Activities[i].End.Equal(*second.Activities[i].End))
	}
}

func TestGeneratePlanApplyPersists(t *testing.T) {
	store := &fakeActivityStore{}
	svc := NewOptimizerService(store, &fakeConstraintRepo{}, nil, WithRandSource(seededRand(3)))

	windowStart, windowEnd := planWindow()
	resp, err := svc.GeneratePlan(context.Background(), 1, dto.GeneratePlanRequest{
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Candidates: []dto.PlanCandidate{
			{ActivityID: 12, Title: "existing", DurationHours: 1},
			{Title: "fresh", DurationHours: 2},
		},
		Apply: true,
	})
	require.NoError(t, err)
	assert.True(t, resp.Applied)
	assert.Equal(t, 1, resp.Created)
	assert.Equal(t, 1, resp.Updated)
	require.Len(t, store.created, 1)
	require.Len(t, store.updated, 1)
	assert.Equal(t, "fresh", store.created[0].Title)
	assert.Equal(t, int64(12), store.updated[0].ID)

	// Applied response carries the generated ids, not zeros.
	for _, activity := range resp.Activities {
		assert.Positive(t, activity.ID)
	}
}

func TestGeneratePlanTreatsWindowActivitiesAsFixed(t *testing.T) {
	windowStart, windowEnd := planWindow()
	fixedStart := windowStart
	fixedEnd := windowStart.Add(2 * time.Hour)
	store := &fakeActivityStore{activities: []models.Activity{
		{ID: 50, OwnerID: 1, Title: "standup", Start: &fixedStart, End: &fixedEnd, Priority: models.PriorityNormal},
	}}
	svc := NewOptimizerService(store, &fakeConstraintRepo{}, nil, WithRandSource(seededRand(11)))

	resp, err := svc.GeneratePlan(context.Background(), 1, dto.GeneratePlanRequest{
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Candidates:  []dto.PlanCandidate{{Title: "task", DurationHours: 2}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Activities, 1)

	planned := resp.Activities[0]
	assert.False(t, planner.Overlaps(*planned.Start, *planned.End, fixedStart, fixedEnd),
		"planned activity must not collide with the fixed one")
}

func TestReplanAroundExcludesStaleCopyAndPersists(t *testing.T) {
	base := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	staleStart := base
	staleEnd := base.Add(time.Hour)
	otherStart := base.Add(2 * time.Hour)
	otherEnd := base.Add(3 * time.Hour)
	store := &fakeActivityStore{activities: []models.Activity{
		{ID: 7, OwnerID: 1, Title: "moving", Start: &staleStart, End: &staleEnd, Priority: models.PriorityNormal},
		{ID: 8, OwnerID: 1, Title: "neighbor", Start: &otherStart, End: &otherEnd, Priority: models.PriorityNormal},
	}}
	svc := NewOptimizerService(store, &fakeConstraintRepo{}, nil, WithRandSource(seededRand(5)))

	candidateStart := base.Add(2 * time.Hour)
	candidateEnd := base.Add(4 * time.Hour)
	plan, err := svc.ReplanAround(context.Background(), models.Activity{
		ID: 7, OwnerID: 1, Title: "moving", Start: &candidateStart, End: &candidateEnd,
		Priority: models.PriorityHigh,
	})
	require.NoError(t, err)
	require.Len(t, plan, 2, "stale copy of id 7 must not be replanned twice")
	assert.Len(t, store.updated, 2)
	assert.Empty(t, store.created)

	ids := map[int64]bool{}
	for _, activity := range plan {
		ids[activity.ID] = true
	}
	assert.True(t, ids[7] && ids[8])
}

func TestReplanAroundRequiresInterval(t *testing.T) {
	svc := NewOptimizerService(&fakeActivityStore{}, &fakeConstraintRepo{}, nil)

	_, err := svc.ReplanAround(context.Background(), models.Activity{ID: 1, OwnerID: 1})
	require.Error(t, err)
}
