package dto

import (
	"time"

	"github.com/planwise/planwise-api/internal/models"
)

// PlanCandidate describes one activity the optimizer should place. A zero
// ActivityID means the candidate does not exist yet and will be created when
// the plan is applied.
type PlanCandidate struct {
	ActivityID    int64                   `json:"activityId"`
	Title         string                  `json:"title" validate:"required,max=200"`
	Description   string                  `json:"description"`
	DurationHours int                     `json:"durationHours" validate:"omitempty,min=1,max=24"`
	Priority      models.ActivityPriority `json:"priority" validate:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
}

// GeneratePlanRequest instructs the optimizer to build a proposal inside the
// window. An empty candidate list falls back to a default template.
type GeneratePlanRequest struct {
	WindowStart time.Time       `json:"windowStart" validate:"required"`
	WindowEnd   time.Time       `json:"windowEnd" validate:"required,gtfield=WindowStart"`
	Candidates  []PlanCandidate `json:"candidates" validate:"omitempty,dive"`
	Apply       bool            `json:"apply"`
}

// GeneratePlanResponse returns the optimized proposal.
type GeneratePlanResponse struct {
	WindowStart time.Time         `json:"windowStart"`
	WindowEnd   time.Time         `json:"windowEnd"`
	Activities  []models.Activity `json:"activities"`
	Cost        float64           `json:"cost"`
	Applied     bool              `json:"applied"`
	Created     int               `json:"created,omitempty"`
	Updated     int               `json:"updated,omitempty"`
}
