package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/planwise/planwise-api/internal/dto"
	appErrors "github.com/planwise/planwise-api/pkg/errors"
	"github.com/planwise/planwise-api/pkg/response"
)

type fatigueService interface {
	DailyFatigue(ctx context.Context, ownerID int64, from, to time.Time) (*dto.DailyFatigueResponse, error)
	Summary(ctx context.Context, ownerID int64, from, to time.Time) (*dto.FatigueSummaryResponse, error)
}

// StatsHandler exposes workload and fatigue statistics.
type StatsHandler struct {
	service fatigueService
}

// NewStatsHandler constructs the handler.
func NewStatsHandler(service fatigueService) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) rangeFromQuery(c *gin.Context) (time.Time, time.Time, bool) {
	parse := func(name string) (time.Time, bool) {
		t, err := parseTimeParam(c.Query(name))
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid "+name+" date"))
			return time.Time{}, false
		}
		return t, true
	}
	from, ok := parse("from")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	to, ok := parse("to")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if !from.Before(to) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "from must be before to"))
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// Daily godoc
// @Summary Daily fatigue indices
// @Tags Statistics
// @Produce json
// @Param from query string true "Range start (RFC 3339)"
// @Param to query string true "Range end (RFC 3339)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /stats/fatigue [get]
func (h *StatsHandler) Daily(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	from, to, ok := h.rangeFromQuery(c)
	if !ok {
		return
	}
	daily, err := h.service.DailyFatigue(c.Request.Context(), ownerID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, daily, nil)
}

// Summary godoc
// @Summary Workload and fatigue summary
// @Tags Statistics
// @Produce json
// @Param from query string true "Range start (RFC 3339)"
// @Param to query string true "Range end (RFC 3339)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /stats [get]
func (h *StatsHandler) Summary(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	from, to, ok := h.rangeFromQuery(c)
	if !ok {
		return
	}
	summary, err := h.service.Summary(c.Request.Context(), ownerID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
