package models

import "time"

// ActivityPriority represents the closed set of activity priorities.
type ActivityPriority string

const (
	PriorityLow    ActivityPriority = "LOW"
	PriorityNormal ActivityPriority = "NORMAL"
	PriorityHigh   ActivityPriority = "HIGH"
	PriorityUrgent ActivityPriority = "URGENT"
)

// Weight maps a priority to its numeric scheduling weight. Unrecognized
// values fall back to the lowest weight instead of failing.
func (p ActivityPriority) Weight() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityNormal:
		return 2
	case PriorityLow:
		return 1
	default:
		return 1
	}
}

// ActivityStatus represents the lifecycle state of an activity.
type ActivityStatus string

const (
	StatusPlanned    ActivityStatus = "PLANNED"
	StatusInProgress ActivityStatus = "IN_PROGRESS"
	StatusDone       ActivityStatus = "DONE"
	StatusCancelled  ActivityStatus = "CANCELLED"
)

// Activity is a titled, timed task owned by one user. A zero ID means the
// activity has not been persisted yet. Activities with a nil start or end
// are excluded from all interval computations.
type Activity struct {
	ID          int64            `db:"id" json:"id"`
	OwnerID     int64            `db:"owner_id" json:"owner_id"`
	Title       string           `db:"title" json:"title"`
	Description string           `db:"description" json:"description"`
	Start       *time.Time       `db:"start_at" json:"start"`
	End         *time.Time       `db:"end_at" json:"end"`
	CategoryID  *int64           `db:"category_id" json:"category_id,omitempty"`
	Priority    ActivityPriority `db:"priority" json:"priority"`
	Status      ActivityStatus   `db:"status" json:"status"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}

// HasInterval reports whether both timestamps are present.
func (a *Activity) HasInterval() bool {
	return a.Start != nil && a.End != nil
}

// Duration returns end−start, or the provided fallback when either
// timestamp is missing.
func (a *Activity) Duration(fallback time.Duration) time.Duration {
	if !a.HasInterval() {
		return fallback
	}
	return a.End.Sub(*a.Start)
}

// ActivityFilter narrows activity listings.
type ActivityFilter struct {
	From     *time.Time
	To       *time.Time
	Status   ActivityStatus
	Priority ActivityPriority
	Page     int
	PageSize int
}

// Clone returns a deep copy whose timestamps do not alias the receiver's.
func (a Activity) Clone() Activity {
	clone := a
	if a.Start != nil {
		start := *a.Start
		clone.Start = &start
	}
	if a.End != nil {
		end := *a.End
		clone.End = &end
	}
	if a.CategoryID != nil {
		category := *a.CategoryID
		clone.CategoryID = &category
	}
	return clone
}
