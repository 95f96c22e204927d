package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/planwise/planwise-api/internal/dto"
	"github.com/planwise/planwise-api/internal/models"
	appErrors "github.com/planwise/planwise-api/pkg/errors"
	"github.com/planwise/planwise-api/pkg/response"
)

type activityService interface {
	List(ctx context.Context, ownerID int64, query dto.ActivityQuery) ([]models.Activity, *models.Pagination, error)
	Get(ctx context.Context, ownerID, id int64) (*models.Activity, error)
	Create(ctx context.Context, ownerID int64, req dto.CreateActivityRequest) (*dto.ActivityMutationResponse, error)
	Update(ctx context.Context, ownerID, id int64, req dto.UpdateActivityRequest) (*dto.ActivityMutationResponse, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

// ActivityHandler exposes CRUD endpoints for activities.
type ActivityHandler struct {
	service activityService
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service activityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// List godoc
// @Summary List activities
// @Tags Activities
// @Produce json
// @Param from query string false "Window start (RFC 3339)"
// @Param to query string false "Window end (RFC 3339)"
// @Param status query string false "Status filter"
// @Param priority query string false "Priority filter"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	query := dto.ActivityQuery{
		Status:   models.ActivityStatus(c.Query("status")),
		Priority: models.ActivityPriority(c.Query("priority")),
	}
	if raw := c.Query("from"); raw != "" {
		t, err := parseTimeParam(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid from date"))
			return
		}
		query.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := parseTimeParam(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid to date"))
			return
		}
		query.To = &t
	}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	activities, pagination, err := h.service.List(c.Request.Context(), ownerID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activities, pagination)
}

// Get godoc
// @Summary Get a single activity
// @Tags Activities
// @Produce json
// @Param id path int true "Activity ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /activities/{id} [get]
func (h *ActivityHandler) Get(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid activity id"))
		return
	}
	activity, err := h.service.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activity, nil)
}

// Create godoc
// @Summary Create an activity
// @Description Creates the activity when its interval is free. A clashing
// @Description interval is not stored; the response carries the violations and
// @Description a replanned alternative instead.
// @Tags Activities
// @Accept json
// @Produce json
// @Param payload body dto.CreateActivityRequest true "Activity payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /activities [post]
func (h *ActivityHandler) Create(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid activity payload"))
		return
	}
	result, err := h.service.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !result.Applied {
		response.JSON(c, http.StatusConflict, result, nil)
		return
	}
	response.Created(c, result)
}

// Update godoc
// @Summary Update an activity
// @Tags Activities
// @Accept json
// @Produce json
// @Param id path int true "Activity ID"
// @Param payload body dto.UpdateActivityRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /activities/{id} [put]
func (h *ActivityHandler) Update(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid activity id"))
		return
	}
	var req dto.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid activity payload"))
		return
	}
	result, err := h.service.Update(c.Request.Context(), ownerID, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !result.Applied {
		response.JSON(c, http.StatusConflict, result, nil)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete an activity
// @Tags Activities
// @Param id path int true "Activity ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /activities/{id} [delete]
func (h *ActivityHandler) Delete(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid activity id"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), ownerID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
