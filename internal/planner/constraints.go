package planner

import (
	"time"

	"github.com/planwise/planwise-api/internal/models"
)

// ViolatesWeekly reports whether the interval falls inside the rule's
// window on the rule's day. Only UNAVAILABLE rules are exclusionary;
// AVAILABLE rules are informative and never block.
func ViolatesWeekly(start, end time.Time, rule models.WeeklyConstraint) bool {
	if rule.Kind != models.ConstraintUnavailable {
		return false
	}
	if models.WeekdayOf(start) != rule.Weekday {
		return false
	}
	return clockOverlaps(minuteOfDay(start), minuteOfDay(end), rule.StartMinute, rule.EndMinute)
}

// RespectsWeekly reports whether the interval violates none of the rules.
func RespectsWeekly(start, end time.Time, rules []models.WeeklyConstraint) bool {
	for _, rule := range rules {
		if ViolatesWeekly(start, end, rule) {
			return false
		}
	}
	return true
}

// ViolatesBlocked reports whether the interval intersects the blocked period.
func ViolatesBlocked(start, end time.Time, period models.BlockedPeriod) bool {
	return Overlaps(start, end, period.Start, period.End)
}

// RespectsBlocked reports whether the interval intersects none of the periods.
func RespectsBlocked(start, end time.Time, periods []models.BlockedPeriod) bool {
	for _, period := range periods {
		if ViolatesBlocked(start, end, period) {
			return false
		}
	}
	return true
}
