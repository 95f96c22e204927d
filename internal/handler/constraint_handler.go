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

type constraintService interface {
	List(ctx context.Context, ownerID int64) (*dto.ConstraintListResponse, error)
	CreateWeekly(ctx context.Context, ownerID int64, req dto.CreateWeeklyConstraintRequest) (*models.WeeklyConstraint, error)
	DeleteWeekly(ctx context.Context, ownerID, id int64) error
	CreateBlocked(ctx context.Context, ownerID int64, req dto.CreateBlockedPeriodRequest) (*models.BlockedPeriod, error)
	DeleteBlocked(ctx context.Context, ownerID, id int64) error
}

// ConstraintHandler exposes availability rule endpoints.
type ConstraintHandler struct {
	service constraintService
}

// NewConstraintHandler constructs the handler.
func NewConstraintHandler(service constraintService) *ConstraintHandler {
	return &ConstraintHandler{service: service}
}

// List godoc
// @Summary List availability rules
// @Tags Constraints
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /constraints [get]
func (h *ConstraintHandler) List(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	rules, err := h.service.List(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rules, nil)
}

// CreateWeekly godoc
// @Summary Declare a recurring weekly rule
// @Tags Constraints
// @Accept json
// @Produce json
// @Param payload body dto.CreateWeeklyConstraintRequest true "Rule payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /constraints/weekly [post]
func (h *ConstraintHandler) CreateWeekly(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateWeeklyConstraintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid weekly rule payload"))
		return
	}
	rule, err := h.service.CreateWeekly(c.Request.Context(), ownerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rule)
}

// DeleteWeekly godoc
// @Summary Delete a recurring weekly rule
// @Tags Constraints
// @Param id path int true "Rule ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /constraints/weekly/{id} [delete]
func (h *ConstraintHandler) DeleteWeekly(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid rule id"))
		return
	}
	if err := h.service.DeleteWeekly(c.Request.Context(), ownerID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateBlocked godoc
// @Summary Declare a blocked period
// @Tags Constraints
// @Accept json
// @Produce json
// @Param payload body dto.CreateBlockedPeriodRequest true "Blocked period payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /constraints/blocked [post]
func (h *ConstraintHandler) CreateBlocked(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateBlockedPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid blocked period payload"))
		return
	}
	period, err := h.service.CreateBlocked(c.Request.Context(), ownerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, period)
}

// DeleteBlocked godoc
// @Summary Delete a blocked period
// @Tags Constraints
// @Param id path int true "Blocked period ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /constraints/blocked/{id} [delete]
func (h *ConstraintHandler) DeleteBlocked(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid blocked period id"))
		return
	}
	if err := h.service.DeleteBlocked(c.Request.Context(), ownerID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
