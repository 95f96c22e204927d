package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/planwise-api/internal/dto"
	"github.com/planwise/planwise-api/internal/models"
)

type conflictServiceMock struct {
	conflicts     []models.Conflict
	detectErr     error
	violations    []string
	validateErr   error
	lastFrom      time.Time
	lastTo        time.Time
	lastActivity  models.Activity
	lastExcludeID int64
}

func (m *conflictServiceMock) DetectConflicts(ctx context.Context, ownerID int64, from, to time.Time) ([]models.Conflict, error) {
	m.lastFrom = from
	m.lastTo = to
	return m.conflicts, m.detectErr
}

func (m *conflictServiceMock) ValidateActivity(ctx context.Context, activity models.Activity, excludeID int64) ([]string, error) {
	m.lastActivity = activity
	m.lastExcludeID = excludeID
	return m.violations, m.validateErr
}

func TestConflictHandlerListRequiresRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewConflictHandler(&conflictServiceMock{})

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodGet, "/conflicts", nil)

	handler.List(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConflictHandlerListRejectsInvertedRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewConflictHandler(&conflictServiceMock{})

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodGet, "/conflicts?from=2026-01-06T00:00:00Z&to=2026-01-05T00:00:00Z", nil)

	handler.List(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConflictHandlerListReturnsTotal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &conflictServiceMock{
		conflicts: []models.Conflict{
			{Kind: models.ConflictOverlap},
			{Kind: models.ConflictBlockedPeriod},
		},
	}
	handler := NewConflictHandler(mockSvc)

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodGet, "/conflicts?from=2026-01-05T00:00:00Z&to=2026-01-06T00:00:00Z", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)
	assert.Equal(t, time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), mockSvc.lastFrom.UTC())
}

func TestConflictHandlerValidateReportsViolations(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &conflictServiceMock{violations: []string{"blocked period: vacation"}}
	handler := NewConflictHandler(mockSvc)

	start := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	payload, _ := json.Marshal(dto.ValidateActivityRequest{
		Title:     "Workshop",
		Start:     &start,
		End:       &end,
		ExcludeID: 12,
	})
	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodPost, "/conflicts/validate", payload)

	handler.Validate(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"valid":false`)
	assert.Equal(t, int64(12), mockSvc.lastExcludeID)
	assert.Equal(t, int64(7), mockSvc.lastActivity.OwnerID)
}

func TestConflictHandlerValidateCleanInterval(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewConflictHandler(&conflictServiceMock{})

	start := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	payload, _ := json.Marshal(dto.ValidateActivityRequest{Title: "Walk", Start: &start, End: &end})
	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodPost, "/conflicts/validate", payload)

	handler.Validate(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"valid":true`)
}
