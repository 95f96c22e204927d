package dto

import (
	"time"

	"github.com/planwise/planwise-api/internal/models"
)

// CreateWeeklyConstraintRequest payload for declaring a recurring rule.
type CreateWeeklyConstraintRequest struct {
	Weekday     models.Weekday        `json:"weekday" validate:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartMinute int                   `json:"startMinute" validate:"min=0,max=1439"`
	EndMinute   int                   `json:"endMinute" validate:"required,min=1,max=1440,gtfield=StartMinute"`
	Kind        models.ConstraintKind `json:"kind" validate:"required,oneof=AVAILABLE UNAVAILABLE"`
}

// CreateBlockedPeriodRequest payload for declaring a one-off blocked range.
type CreateBlockedPeriodRequest struct {
	Start  time.Time                `json:"start" validate:"required"`
	End    time.Time                `json:"end" validate:"required,gtfield=Start"`
	Reason string                   `json:"reason"`
	Kind   models.BlockedPeriodKind `json:"kind" validate:"omitempty,oneof=LEAVE MEETING OTHER"`
}

// ConstraintListResponse groups both rule families for an owner.
type ConstraintListResponse struct {
	Weekly  []models.WeeklyConstraint `json:"weekly"`
	Blocked []models.BlockedPeriod    `json:"blocked"`
}
