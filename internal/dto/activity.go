package dto

import (
	"time"

	"github.com/planwise/planwise-api/internal/models"
)

// CreateActivityRequest payload for creating an activity.
type CreateActivityRequest struct {
	Title       string                  `json:"title" validate:"required,max=200"`
	Description string                  `json:"description"`
	Start       *time.Time              `json:"start"`
	End         *time.Time              `json:"end"`
	CategoryID  *int64                  `json:"categoryId"`
	Priority    models.ActivityPriority `json:"priority" validate:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
	Status      models.ActivityStatus   `json:"status" validate:"omitempty,oneof=PLANNED IN_PROGRESS DONE CANCELLED"`
}

// UpdateActivityRequest payload for updating an existing activity. All fields
// are optional; absent fields keep their stored value.
type UpdateActivityRequest struct {
	Title       *string                  `json:"title" validate:"omitempty,max=200"`
	Description *string                  `json:"description"`
	Start       *time.Time               `json:"start"`
	End         *time.Time               `json:"end"`
	CategoryID  *int64                   `json:"categoryId"`
	Priority    *models.ActivityPriority `json:"priority" validate:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
	Status      *models.ActivityStatus   `json:"status" validate:"omitempty,oneof=PLANNED IN_PROGRESS DONE CANCELLED"`
}

// ActivityQuery captures listing filters for /activities.
type ActivityQuery struct {
	From     *time.Time
	To       *time.Time
	Status   models.ActivityStatus
	Priority models.ActivityPriority
	Page     int
	PageSize int
}

// ActivityMutationResponse reports the outcome of a create or update. When
// the submitted interval clashes, Applied is false, Violations explains why
// and Plan carries a replanned alternative around the clash.
type ActivityMutationResponse struct {
	Activity   *models.Activity  `json:"activity,omitempty"`
	Applied    bool              `json:"applied"`
	Violations []string          `json:"violations,omitempty"`
	Plan       []models.Activity `json:"plan,omitempty"`
}
