package models

import "time"

// ConflictKind identifies the nature of a detected conflict.
type ConflictKind string

const (
	ConflictOverlap          ConflictKind = "OVERLAP"
	ConflictWeeklyConstraint ConflictKind = "WEEKLY_CONSTRAINT"
	ConflictBlockedPeriod    ConflictKind = "BLOCKED_PERIOD"
)

// ConflictSeverity ranks conflicts for presentation.
type ConflictSeverity string

const (
	SeverityCritical ConflictSeverity = "CRITICAL"
	SeverityMajor    ConflictSeverity = "MAJOR"
)

// Severity is determined solely by the conflict kind.
func (k ConflictKind) Severity() ConflictSeverity {
	if k == ConflictOverlap {
		return SeverityCritical
	}
	return SeverityMajor
}

// Conflict records an incompatibility between an activity and either
// another activity or a constraint. OtherActivityID and OtherActivityTitle
// are set only for OVERLAP conflicts.
type Conflict struct {
	Kind               ConflictKind     `json:"kind"`
	Severity           ConflictSeverity `json:"severity"`
	ActivityID         int64            `json:"activity_id"`
	ActivityTitle      string           `json:"activity_title"`
	OtherActivityID    *int64           `json:"other_activity_id,omitempty"`
	OtherActivityTitle string           `json:"other_activity_title,omitempty"`
	Start              *time.Time       `json:"start,omitempty"`
	End                *time.Time       `json:"end,omitempty"`
	Description        string           `json:"description"`
}
