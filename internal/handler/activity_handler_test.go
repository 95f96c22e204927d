package handler

import (
	"bytes"
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
	"github.com/planwise/planwise-api/internal/middleware"
	"github.com/planwise/planwise-api/internal/models"
	appErrors "github.com/planwise/planwise-api/pkg/errors"
)

type activityServiceMock struct {
	listResp    []models.Activity
	listPage    *models.Pagination
	listErr     error
	lastQuery   dto.ActivityQuery
	getResp     *models.Activity
	getErr      error
	createResp  *dto.ActivityMutationResponse
	createErr   error
	updateResp  *dto.ActivityMutationResponse
	updateErr   error
	deleteErr   error
	lastOwnerID int64
	lastID      int64
}

func (m *activityServiceMock) List(ctx context.Context, ownerID int64, query dto.ActivityQuery) ([]models.Activity, *models.Pagination, error) {
	m.lastOwnerID = ownerID
	m.lastQuery = query
	return m.listResp, m.listPage, m.listErr
}

func (m *activityServiceMock) Get(ctx context.Context, ownerID, id int64) (*models.Activity, error) {
	m.lastOwnerID = ownerID
	m.lastID = id
	return m.getResp, m.getErr
}

func (m *activityServiceMock) Create(ctx context.Context, ownerID int64, req dto.CreateActivityRequest) (*dto.ActivityMutationResponse, error) {
	m.lastOwnerID = ownerID
	return m.createResp, m.createErr
}

func (m *activityServiceMock) Update(ctx context.Context, ownerID, id int64, req dto.UpdateActivityRequest) (*dto.ActivityMutationResponse, error) {
	m.lastOwnerID = ownerID
	m.lastID = id
	return m.updateResp, m.updateErr
}

func (m *activityServiceMock) Delete(ctx context.Context, ownerID, id int64) error {
	m.lastOwnerID = ownerID
	m.lastID = id
	return m.deleteErr
}

func authedContext(t *testing.T, w *httptest.ResponseRecorder, method, target string, body []byte) *gin.Context {
	t.Helper()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: 7, Email: "amelie@example.com"})
	return c
}

func TestActivityHandlerListParsesQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &activityServiceMock{
		listResp: []models.Activity{{ID: 1, Title: "Gym"}},
		listPage: &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1},
	}
	handler := NewActivityHandler(mockSvc)

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodGet, "/activities?from=2026-01-05T08:00:00Z&status=PLANNED&page=2&pageSize=5", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), mockSvc.lastOwnerID)
	require.NotNil(t, mockSvc.lastQuery.From)
	assert.Equal(t, time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC), mockSvc.lastQuery.From.UTC())
	assert.Equal(t, models.StatusPlanned, mockSvc.lastQuery.Status)
	assert.Equal(t, 2, mockSvc.lastQuery.Page)
	assert.Equal(t, 5, mockSvc.lastQuery.PageSize)
}

func TestActivityHandlerListRejectsBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewActivityHandler(&activityServiceMock{})

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodGet, "/activities?from=yesterday", nil)

	handler.List(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivityHandlerListUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewActivityHandler(&activityServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/activities", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestActivityHandlerCreateApplied(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &activityServiceMock{
		createResp: &dto.ActivityMutationResponse{
			Activity: &models.Activity{ID: 3, Title: "Dentist"},
			Applied:  true,
		},
	}
	handler := NewActivityHandler(mockSvc)

	payload, _ := json.Marshal(dto.CreateActivityRequest{Title: "Dentist"})
	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodPost, "/activities", payload)

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestActivityHandlerCreateClashReturnsConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &activityServiceMock{
		createResp: &dto.ActivityMutationResponse{
			Applied:    false,
			Violations: []string{"conflict with existing activity 'Gym'"},
			Plan:       []models.Activity{{ID: 9, Title: "Dentist"}},
		},
	}
	handler := NewActivityHandler(mockSvc)

	payload, _ := json.Marshal(dto.CreateActivityRequest{Title: "Dentist"})
	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodPost, "/activities", payload)

	handler.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "conflict with existing activity")
}

func TestActivityHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewActivityHandler(&activityServiceMock{})

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodPost, "/activities", []byte(`{"title":`))

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivityHandlerGetInvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewActivityHandler(&activityServiceMock{})

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodGet, "/activities/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Get(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivityHandlerDeleteNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &activityServiceMock{deleteErr: appErrors.ErrNotFound}
	handler := NewActivityHandler(mockSvc)

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodDelete, "/activities/42", nil)
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	handler.Delete(c)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, int64(42), mockSvc.lastID)
}

func TestActivityHandlerDeleteSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &activityServiceMock{}
	handler := NewActivityHandler(mockSvc)

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodDelete, "/activities/42", nil)
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	handler.Delete(c)
	// Calling the handler directly bypasses gin's engine, which normally
	// flushes the deferred status header; flush it so the recorder sees 204.
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
}
