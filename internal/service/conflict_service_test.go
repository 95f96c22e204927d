package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/planwise-api/internal/models"
)

type fakeActivityReader struct {
	activities []models.Activity
	err        error
}

func (f *fakeActivityReader) ListByOwnerAndRange(context.Context, int64, time.Time, time.Time) ([]models.Activity, error) {
	return f.activities, f.err
}

type fakeConstraintRepo struct {
	weekly  []models.WeeklyConstraint
	blocked []models.BlockedPeriod
}

func (f *fakeConstraintRepo) ListWeeklyByOwner(context.Context, int64) ([]models.WeeklyConstraint, error) {
	return f.weekly, nil
}

func (f *fakeConstraintRepo) ListBlockedByOwner(context.Context, int64) ([]models.BlockedPeriod, error) {
	return f.blocked, nil
}

// Monday 2026-01-05.
var testDay = time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

func testAt(hour, minute int) time.Time {
	return testDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func ptr[T any](v T) *T { return &v }

func TestDetectConflictsOrdering(t *testing.T) {
	activities := []models.Activity{
		{ID: 1, OwnerID: 1, Title: "Sprint review", Start: ptr(testAt(9, 0)), End: ptr(testAt(11, 0))},
		{ID: 2, OwnerID: 1, Title: "Dentist", Start: ptr(testAt(10, 0)), End: ptr(testAt(12, 0))},
	}
	weekly := []models.WeeklyConstraint{{
		OwnerID: 1, Weekday: models.Monday, StartMinute: 9 * 60, EndMinute: 10 * 60,
		Kind: models.ConstraintUnavailable,
	}}
	blocked := []models.BlockedPeriod{{
		OwnerID: 1, Start: testAt(11, 0), End: testAt(13, 0), Reason: "travel",
	}}

	svc := NewConflictService(&fakeActivityReader{activities: activities}, &fakeConstraintRepo{weekly: weekly, blocked: blocked}, nil)

	conflicts, err := svc.DetectConflicts(context.Background(), 1, testDay, testDay.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, conflicts, 3)

	assert.Equal(t, models.ConflictOverlap, conflicts[0].Kind)
	assert.Equal(t, models.SeverityCritical, conflicts[0].Severity)
	require.NotNil(t, conflicts[0].OtherActivityID)
	assert.Equal(t, int64(2), *conflicts[0].OtherActivityID)
	assert.Contains(t, conflicts[0].Description, "'Sprint review'")
	assert.Contains(t, conflicts[0].Description, "'Dentist'")

	assert.Equal(t, models.ConflictWeeklyConstraint, conflicts[1].Kind)
	assert.Equal(t, models.SeverityMajor, conflicts[1].Severity)
	assert.Contains(t, conflicts[1].Description, "MONDAY")
	assert.Contains(t, conflicts[1].Description, "09:00")

	assert.Equal(t, models.ConflictBlockedPeriod, conflicts[2].Kind)
	assert.Contains(t, conflicts[2].Description, "travel")
}

func TestDetectConflictsSkipsUntimedActivities(t *testing.T) {
	activities := []models.Activity{
		{ID: 1, OwnerID: 1, Title: "Someday"},
		{ID: 2, OwnerID: 1, Title: "Timed", Start: ptr(testAt(9, 0)), End: ptr(testAt(10, 0))},
	}
	svc := NewConflictService(&fakeActivityReader{activities: activities}, &fakeConstraintRepo{}, nil)

	conflicts, err := svc.DetectConflicts(context.Background(), 1, testDay, testDay.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestDetectConflictsReportsEachOverlappingPair(t *testing.T) {
	activities := []models.Activity{
		{ID: 1, OwnerID: 1, Title: "a", Start: ptr(testAt(9, 0)), End: ptr(testAt(12, 0))},
		{ID: 2, OwnerID: 1, Title: "b", Start: ptr(testAt(10, 0)), End: ptr(testAt(13, 0))},
		{ID: 3, OwnerID: 1, Title: "c", Start: ptr(testAt(11, 0)), End: ptr(testAt(14, 0))},
	}
	svc := NewConflictService(&fakeActivityReader{activities: activities}, &fakeConstraintRepo{}, nil)

	conflicts, err := svc.DetectConflicts(context.Background(), 1, testDay, testDay.AddDate(0, 0, 1))
	require.NoError(t, err)

	// Three mutually overlapping activities are three pairwise conflicts,
	// never collapsed into one.
	require.Len(t, conflicts, 3)
	pairs := make(map[[2]int64]bool)
	for _, c := range conflicts {
		assert.Equal(t, models.ConflictOverlap, c.Kind)
		require.NotNil(t, c.OtherActivityID)
		pairs[[2]int64{c.ActivityID, *c.OtherActivityID}] = true
	}
	assert.True(t, pairs[[2]int64{1, 2}])
	assert.True(t, pairs[[2]int64{1, 3}])
	assert.True(t, pairs[[2]int64{2, 3}])
}

func TestDetectConflictsTouchingActivitiesDoNotOverlap(t *testing.T) {
	activities := []models.Activity{
		{ID: 1, OwnerID: 1, Title: "a", Start: ptr(testAt(9, 0)), End: ptr(testAt(10, 0))},
		{ID: 2, OwnerID: 1, Title: "b", Start: ptr(testAt(10, 0)), End: ptr(testAt(11, 0))},
	}
	svc := NewConflictService(&fakeActivityReader{activities: activities}, &fakeConstraintRepo{}, nil)

	conflicts, err := svc.DetectConflicts(context.Background(), 1, testDay, testDay.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestValidateActivityMissingDatesStopsEarly(t *testing.T) {
	svc := NewConflictService(&fakeActivityReader{}, &fakeConstraintRepo{}, nil)

	violations, err := svc.ValidateActivity(context.Background(), models.Activity{OwnerID: 1, Title: "x"}, 0)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "start and end dates are required", violations[0])
}

func TestValidateActivityRejectsInvertedInterval(t *testing.T) {
	svc := NewConflictService(&fakeActivityReader{}, &fakeConstraintRepo{}, nil)

	activity := models.Activity{OwnerID: 1, Start: ptr(testAt(12, 0)), End: ptr(testAt(12, 0))}
	violations, err := svc.ValidateActivity(context.Background(), activity, 0)
	require.NoError(t, err)
	assert.Contains(t, violations, "the start date must be before the end date")
}

func TestValidateActivityExcludesOwnStoredCopy(t *testing.T) {
	existing := []models.Activity{
		{ID: 5, OwnerID: 1, Title: "Old me", Start: ptr(testAt(9, 0)), End: ptr(testAt(10, 0))},
		{ID: 6, OwnerID: 1, Title: "Other", Start: ptr(testAt(9, 30)), End: ptr(testAt(10, 30))},
	}
	svc := NewConflictService(&fakeActivityReader{activities: existing}, &fakeConstraintRepo{}, nil)

	activity := models.Activity{ID: 5, OwnerID: 1, Start: ptr(testAt(9, 0)), End: ptr(testAt(10, 0))}
	violations, err := svc.ValidateActivity(context.Background(), activity, 5)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "conflict with existing activity 'Other'", violations[0])
}

func TestValidateActivityBlockedReasonFallback(t *testing.T) {
	blocked := []models.BlockedPeriod{{OwnerID: 1, Start: testAt(9, 0), End: testAt(17, 0)}}
	svc := NewConflictService(&fakeActivityReader{}, &fakeConstraintRepo{blocked: blocked}, nil)

	activity := models.Activity{OwnerID: 1, Start: ptr(testAt(10, 0)), End: ptr(testAt(11, 0))}
	violations, err := svc.ValidateActivity(context.Background(), activity, 0)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "blocked period: unspecified", violations[0])
}

func TestValidateActivityAcceptable(t *testing.T) {
	svc := NewConflictService(&fakeActivityReader{}, &fakeConstraintRepo{}, nil)

	activity := models.Activity{OwnerID: 1, Start: ptr(testAt(10, 0)), End: ptr(testAt(11, 0))}
	violations, err := svc.ValidateActivity(context.Background(), activity, 0)
	require.NoError(t, err)
	assert.Empty(t, violations)
}
