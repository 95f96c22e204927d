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
	appErrors "github.com/planwise/planwise-api/pkg/errors"
)

type constraintServiceMock struct {
	listResp    *dto.ConstraintListResponse
	listErr     error
	weeklyResp  *models.WeeklyConstraint
	weeklyErr   error
	blockedResp *models.BlockedPeriod
	blockedErr  error
	deleteErr   error
	lastID      int64
}

func (m *constraintServiceMock) List(ctx context.Context, ownerID int64) (*dto.ConstraintListResponse, error) {
	return m.listResp, m.listErr
}

func (m *constraintServiceMock) CreateWeekly(ctx context.Context, ownerID int64, req dto.CreateWeeklyConstraintRequest) (*models.WeeklyConstraint, error) {
	return m.weeklyResp, m.weeklyErr
}

func (m *constraintServiceMock) DeleteWeekly(ctx context.Context, ownerID, id int64) error {
	m.lastID = id
	return m.deleteErr
}

func (m *constraintServiceMock) CreateBlocked(ctx context.Context, ownerID int64, req dto.CreateBlockedPeriodRequest) (*models.BlockedPeriod, error) {
	return m.blockedResp, m.blockedErr
}

func (m *constraintServiceMock) DeleteBlocked(ctx context.Context, ownerID, id int64) error {
	m.lastID = id
	return m.deleteErr
}

func TestConstraintHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &constraintServiceMock{
		listResp: &dto.ConstraintListResponse{
			Weekly:  []models.WeeklyConstraint{{ID: 1, Weekday: models.Monday}},
			Blocked: []models.BlockedPeriod{},
		},
	}
	handler := NewConstraintHandler(mockSvc)

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodGet, "/constraints", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "MONDAY")
}

func TestConstraintHandlerCreateWeekly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &constraintServiceMock{
		weeklyResp: &models.WeeklyConstraint{ID: 5, Weekday: models.Tuesday},
	}
	handler := NewConstraintHandler(mockSvc)

	payload, _ := json.Marshal(dto.CreateWeeklyConstraintRequest{
		Weekday:     models.Tuesday,
		StartMinute: 9 * 60,
		EndMinute:   17 * 60,
		Kind:        models.ConstraintUnavailable,
	})
	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodPost, "/constraints/weekly", payload)

	handler.CreateWeekly(c)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestConstraintHandlerCreateWeeklyInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewConstraintHandler(&constraintServiceMock{})

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodPost, "/constraints/weekly", []byte(`{"weekday":`))

	handler.CreateWeekly(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConstraintHandlerCreateBlocked(t *testing.T) {
	gin.SetMode(gin.TestMode)
	start := time.Date(2026, time.February, 9, 0, 0, 0, 0, time.UTC)
	mockSvc := &constraintServiceMock{
		blockedResp: &models.BlockedPeriod{ID: 3, Start: start, End: start.AddDate(0, 0, 7)},
	}
	handler := NewConstraintHandler(mockSvc)

	payload, _ := json.Marshal(dto.CreateBlockedPeriodRequest{
		Start:  start,
		End:    start.AddDate(0, 0, 7),
		Reason: "vacation",
	})
	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodPost, "/constraints/blocked", payload)

	handler.CreateBlocked(c)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestConstraintHandlerDeleteWeeklyNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &constraintServiceMock{deleteErr: appErrors.ErrNotFound}
	handler := NewConstraintHandler(mockSvc)

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodDelete, "/constraints/weekly/8", nil)
	c.Params = gin.Params{{Key: "id", Value: "8"}}

	handler.DeleteWeekly(c)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, int64(8), mockSvc.lastID)
}

func TestConstraintHandlerDeleteBlockedInvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewConstraintHandler(&constraintServiceMock{})

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodDelete, "/constraints/blocked/x", nil)
	c.Params = gin.Params{{Key: "id", Value: "x"}}

	handler.DeleteBlocked(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
