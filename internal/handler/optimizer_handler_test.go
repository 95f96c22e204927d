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

type optimizerServiceMock struct {
	resp    *dto.GeneratePlanResponse
	err     error
	lastReq dto.GeneratePlanRequest
	called  bool
}

func (m *optimizerServiceMock) GeneratePlan(ctx context.Context, ownerID int64, req dto.GeneratePlanRequest) (*dto.GeneratePlanResponse, error) {
	m.called = true
	m.lastReq = req
	return m.resp, m.err
}

func planRequestPayload(t *testing.T, apply bool) []byte {
	t.Helper()
	start := time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)
	payload, err := json.Marshal(dto.GeneratePlanRequest{
		WindowStart: start,
		WindowEnd:   start.Add(10 * time.Hour),
		Candidates: []dto.PlanCandidate{
			{Title: "Deep work", DurationHours: 3, Priority: models.PriorityHigh},
		},
		Apply: apply,
	})
	require.NoError(t, err)
	return payload
}

func samplePlanResponse() *dto.GeneratePlanResponse {
	start := time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)
	return &dto.GeneratePlanResponse{
		WindowStart: start,
		WindowEnd:   start.Add(10 * time.Hour),
		Activities: []models.Activity{
			{ID: 1, Title: "Deep work", Start: &start, End: &end, Priority: models.PriorityHigh, Status: models.StatusPlanned},
		},
		Cost: 12.5,
	}
}

func TestOptimizerHandlerGenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &optimizerServiceMock{resp: samplePlanResponse()}
	handler := NewOptimizerHandler(mockSvc)

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodPost, "/plan/generate", planRequestPayload(t, false))

	handler.Generate(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.called)
	assert.Contains(t, w.Body.String(), "Deep work")
}

func TestOptimizerHandlerGenerateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewOptimizerHandler(&optimizerServiceMock{})

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodPost, "/plan/generate", []byte(`{"windowStart":`))

	handler.Generate(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOptimizerHandlerGenerateServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &optimizerServiceMock{err: appErrors.ErrUnschedulable}
	handler := NewOptimizerHandler(mockSvc)

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodPost, "/plan/generate", planRequestPayload(t, false))

	handler.Generate(c)
	require.Equal(t, appErrors.ErrUnschedulable.Status, w.Code)
}

func TestOptimizerHandlerApplyForcesPersistence(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &optimizerServiceMock{resp: samplePlanResponse()}
	handler := NewOptimizerHandler(mockSvc)

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodPost, "/plan/apply", planRequestPayload(t, false))

	handler.Apply(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.lastReq.Apply)
}

func TestOptimizerHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &optimizerServiceMock{resp: samplePlanResponse()}
	handler := NewOptimizerHandler(mockSvc)

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodPost, "/plan/export?format=csv", planRequestPayload(t, false))

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=\"plan-")
	assert.Contains(t, w.Body.String(), "Deep work")
	assert.Contains(t, w.Body.String(), "05/01/2026 08:00")
}

func TestOptimizerHandlerExportPDF(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &optimizerServiceMock{resp: samplePlanResponse()}
	handler := NewOptimizerHandler(mockSvc)

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodPost, "/plan/export?format=pdf", planRequestPayload(t, false))

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, w.Body.Len() > 0)
}

func TestOptimizerHandlerExportNeverApplies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &optimizerServiceMock{resp: samplePlanResponse()}
	handler := NewOptimizerHandler(mockSvc)

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodPost, "/plan/export", planRequestPayload(t, true))

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, mockSvc.lastReq.Apply)
}

func TestOptimizerHandlerExportRejectsUnknownFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewOptimizerHandler(&optimizerServiceMock{})

	w := httptest.NewRecorder()
	c := authedContext(t, w, http.MethodPost, "/plan/export?format=xlsx", planRequestPayload(t, false))

	handler.Export(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
