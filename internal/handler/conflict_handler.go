package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/planwise/planwise-api/internal/dto"
	"github.com/planwise/planwise-api/internal/models"
	appErrors "github.com/planwise/planwise-api/pkg/errors"
	"github.com/planwise/planwise-api/pkg/response"
)

type conflictService interface {
	DetectConflicts(ctx context.Context, ownerID int64, from, to time.Time) ([]models.Conflict, error)
	ValidateActivity(ctx context.Context, activity models.Activity, excludeID int64) ([]string, error)
}

// ConflictHandler exposes conflict detection endpoints.
type ConflictHandler struct {
	service conflictService
}

// NewConflictHandler constructs the handler.
func NewConflictHandler(service conflictService) *ConflictHandler {
	return &ConflictHandler{service: service}
}

// List godoc
// @Summary Detect conflicts over a range
// @Tags Conflicts
// @Produce json
// @Param from query string true "Range start (RFC 3339)"
// @Param to query string true "Range end (RFC 3339)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /conflicts [get]
func (h *ConflictHandler) List(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	from, err := parseTimeParam(c.Query("from"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid from date"))
		return
	}
	to, err := parseTimeParam(c.Query("to"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid to date"))
		return
	}
	if !from.Before(to) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "from must be before to"))
		return
	}
	conflicts, err := h.service.DetectConflicts(c.Request.Context(), ownerID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ConflictListResponse{Conflicts: conflicts, Total: len(conflicts)}, nil)
}

// Validate godoc
// @Summary Validate a proposed interval
// @Description Checks a candidate interval against stored activities, weekly
// @Description rules and blocked periods without persisting anything.
// @Tags Conflicts
// @Accept json
// @Produce json
// @Param payload body dto.ValidateActivityRequest true "Interval to check"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /conflicts/validate [post]
func (h *ConflictHandler) Validate(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.ValidateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid validation payload"))
		return
	}
	activity := models.Activity{
		OwnerID: ownerID,
		Title:   req.Title,
		Start:   req.Start,
		End:     req.End,
	}
	violations, err := h.service.ValidateActivity(c.Request.Context(), activity, req.ExcludeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ValidationResponse{
		Valid:      len(violations) == 0,
		Violations: violations,
	}, nil)
}
