package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/planwise-api/internal/models"
)

func TestConstraintRepositoryListWeeklyByOwner(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConstraintRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "owner_id", "weekday", "start_minute", "end_minute", "kind", "created_at"}).
		AddRow(int64(1), int64(1), "MONDAY", 12*60, 13*60, "UNAVAILABLE", now)

	mock.ExpectQuery("SELECT .+ FROM weekly_constraints").
		WithArgs(int64(1)).
		WillReturnRows(rows)

	rules, err := repo.ListWeeklyByOwner(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, models.Monday, rules[0].Weekday)
	assert.Equal(t, models.ConstraintUnavailable, rules[0].Kind)
	assert.Equal(t, 720, rules[0].StartMinute)
}

func TestConstraintRepositoryCreateWeekly(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConstraintRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO weekly_constraints")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	rule := &models.WeeklyConstraint{
		OwnerID:     1,
		Weekday:     models.Friday,
		StartMinute: 18 * 60,
		EndMinute:   20 * 60,
		Kind:        models.ConstraintUnavailable,
	}
	require.NoError(t, repo.CreateWeekly(context.Background(), rule))
	assert.Equal(t, int64(9), rule.ID)
}

func TestConstraintRepositoryListBlockedByOwnerAndRange(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConstraintRepository(db)

	from := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "owner_id", "start_at", "end_at", "reason", "kind", "created_at"}).
		AddRow(int64(2), int64(1), from.Add(14*time.Hour), from.Add(16*time.Hour), "dentist", "OTHER", now)

	mock.ExpectQuery("SELECT .+ FROM blocked_periods").
		WithArgs(int64(1), from, to).
		WillReturnRows(rows)

	periods, err := repo.ListBlockedByOwnerAndRange(context.Background(), 1, from, to)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, "dentist", periods[0].Reason)
	assert.Equal(t, models.BlockedOther, periods[0].Kind)
}

func TestConstraintRepositoryDeleteBlockedMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConstraintRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM blocked_periods")).
		WithArgs(int64(3), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteBlocked(context.Background(), 1, 3)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
