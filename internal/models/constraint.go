package models

import (
	"fmt"
	"time"
)

// Weekday is the canonical day-of-week tag used by weekly constraints.
// Matching is done on this closed enumeration, never on locale-formatted
// labels, so stored rules cannot silently drift from generated ones.
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

var weekdayByTime = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// WeekdayOf converts a timestamp's day of week to its canonical tag.
func WeekdayOf(t time.Time) Weekday {
	return weekdayByTime[t.Weekday()]
}

// ConstraintKind distinguishes availability rules.
type ConstraintKind string

const (
	ConstraintAvailable   ConstraintKind = "AVAILABLE"
	ConstraintUnavailable ConstraintKind = "UNAVAILABLE"
)

// WeeklyConstraint is a recurring day-of-week availability rule. The time
// window is stored as minutes of day so comparisons stay date-less.
type WeeklyConstraint struct {
	ID          int64          `db:"id" json:"id"`
	OwnerID     int64          `db:"owner_id" json:"owner_id"`
	Weekday     Weekday        `db:"weekday" json:"weekday"`
	StartMinute int            `db:"start_minute" json:"start_minute"`
	EndMinute   int            `db:"end_minute" json:"end_minute"`
	Kind        ConstraintKind `db:"kind" json:"kind"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// BlockedPeriodKind classifies one-off blocked periods.
type BlockedPeriodKind string

const (
	BlockedLeave   BlockedPeriodKind = "LEAVE"
	BlockedMeeting BlockedPeriodKind = "MEETING"
	BlockedOther   BlockedPeriodKind = "OTHER"
)

// BlockedPeriod is a single absolute interval the owner is unavailable.
type BlockedPeriod struct {
	ID        int64             `db:"id" json:"id"`
	OwnerID   int64             `db:"owner_id" json:"owner_id"`
	Start     time.Time         `db:"start_at" json:"start"`
	End       time.Time         `db:"end_at" json:"end"`
	Reason    string            `db:"reason" json:"reason"`
	Kind      BlockedPeriodKind `db:"kind" json:"kind"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}

// FormatMinute renders a minute-of-day value as HH:MM.
func FormatMinute(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
