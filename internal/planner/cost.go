package planner

import (
	"sort"

	"github.com/planwise/planwise-api/internal/models"
)

// Objective weights. Lower cost is better; cost is never required to
// reach zero.
const (
	WeightConflict   = 100.0
	WeightGap        = 10.0
	WeightConstraint = 80.0
	WeightPriority   = 20.0
)

// Gaps shorter than this are treated as acceptable breaks.
const acceptableGapMinutes = 30

// Cost scores a candidate schedule against the fixed activities and the
// owner's constraints. It combines overlap count, idle-gap hours,
// constraint violations and priority placement into a single scalar.
func Cost(schedule Schedule, fixed []models.Activity, weekly []models.WeeklyConstraint, blocked []models.BlockedPeriod) float64 {
	cost := float64(countOverlaps(schedule, fixed)) * WeightConflict
	cost += idleGapHours(schedule) * WeightGap
	cost += float64(countViolations(schedule, weekly, blocked)) * WeightConstraint
	cost += priorityPenalty(schedule) * WeightPriority
	return cost
}

// countOverlaps counts pairwise overlaps inside the schedule plus every
// overlap between a schedule activity and a fixed one.
func countOverlaps(schedule Schedule, fixed []models.Activity) int {
	count := 0
	for i := range schedule {
		if !schedule[i].HasInterval() {
			continue
		}
		for j := i + 1; j < len(schedule); j++ {
			if !schedule[j].HasInterval() {
				continue
			}
			if Overlaps(*schedule[i].Start, *schedule[i].End, *schedule[j].Start, *schedule[j].End) {
				count++
			}
		}
		for k := range fixed {
			if !fixed[k].HasInterval() {
				continue
			}
			if Overlaps(*schedule[i].Start, *schedule[i].End, *fixed[k].Start, *fixed[k].End) {
				count++
			}
		}
	}
	return count
}

// idleGapHours totals, in hours, the portion of each inter-activity gap
// exceeding the acceptable break length.
func idleGapHours(schedule Schedule) float64 {
	timed := sortedByStart(schedule)
	if len(timed) < 2 {
		return 0
	}

	total := 0.0
	for i := 0; i < len(timed)-1; i++ {
		gap := timed[i+1].Start.Sub(*timed[i].End)
		minutes := gap.Minutes()
		if minutes > acceptableGapMinutes {
			total += (minutes - acceptableGapMinutes) / 60.0
		}
	}
	return total
}

// countViolations adds one per failed weekly check and one per failed
// blocked-period check, independently, so an activity can contribute two.
func countViolations(schedule Schedule, weekly []models.WeeklyConstraint, blocked []models.BlockedPeriod) int {
	violations := 0
	for i := range schedule {
		if !schedule[i].HasInterval() {
			continue
		}
		if !RespectsWeekly(*schedule[i].Start, *schedule[i].End, weekly) {
			violations++
		}
		if !RespectsBlocked(*schedule[i].Start, *schedule[i].End, blocked) {
			violations++
		}
	}
	return violations
}

// priorityPenalty rewards placing high-priority activities early: the
// further an important activity sits in the start-sorted schedule, the
// larger its contribution.
func priorityPenalty(schedule Schedule) float64 {
	timed := sortedByStart(schedule)
	if len(timed) == 0 {
		return 0
	}

	penalty := 0.0
	for i, activity := range timed {
		weight := activity.Priority.Weight()
		penalty += float64(i) / float64(len(timed)) * float64(weight)
	}
	return penalty
}

// sortedByStart returns the timed activities ordered by start, leaving the
// input untouched.
func sortedByStart(schedule Schedule) []models.Activity {
	timed := make([]models.Activity, 0, len(schedule))
	for _, activity := range schedule {
		if activity.HasInterval() {
			timed = append(timed, activity)
		}
	}
	sort.SliceStable(timed, func(i, j int) bool {
		return timed[i].Start.Before(*timed[j].Start)
	})
	return timed
}
