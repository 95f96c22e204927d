package dto

import (
	"time"

	"github.com/planwise/planwise-api/internal/models"
)

// ConflictQuery captures the range to scan for conflicts.
type ConflictQuery struct {
	From time.Time
	To   time.Time
}

// ConflictListResponse is the /conflicts payload.
type ConflictListResponse struct {
	Conflicts []models.Conflict `json:"conflicts"`
	Total     int               `json:"total"`
}

// ValidateActivityRequest carries a proposed interval to check against the
// stored calendar. ExcludeID skips the stored copy of the same activity when
// validating an update.
type ValidateActivityRequest struct {
	Title     string     `json:"title"`
	Start     *time.Time `json:"start" validate:"required"`
	End       *time.Time `json:"end" validate:"required"`
	ExcludeID int64      `json:"excludeId" validate:"omitempty,min=1"`
}

// ValidationResponse reports the outcome of checking a proposed interval.
type ValidationResponse struct {
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations"`
}
