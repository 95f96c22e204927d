package planner

import (
	"sort"
	"time"

	"github.com/planwise/planwise-api/internal/models"
)

// slotSearchStep is how far the cursor advances past a constraint
// violation while searching for a free slot.
const slotSearchStep = time.Hour

// buildInitial constructs a feasible starting schedule by priority-ordered
// greedy slot search. Candidates that cannot be placed before the window
// ends are silently omitted; the annealing phase never re-adds them.
func (p *Planner) buildInitial(
	candidates []models.Activity,
	windowStart, windowEnd time.Time,
	fixed []models.Activity,
	weekly []models.WeeklyConstraint,
	blocked []models.BlockedPeriod,
) Schedule {
	ordered := make([]models.Activity, len(candidates))
	copy(ordered, candidates)
	// Stable: equal priorities keep their relative input order.
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority.Weight() > ordered[j].Priority.Weight()
	})

	schedule := make(Schedule, 0, len(ordered))
	cursor := windowStart

	for _, candidate := range ordered {
		duration := candidate.Duration(p.defaultDuration)
		slotStart, ok := findSlot(cursor, windowEnd, duration, fixed, schedule, weekly, blocked)
		if !ok {
			continue
		}

		placed := candidate.Clone()
		start := slotStart
		end := slotStart.Add(duration)
		placed.Start = &start
		placed.End = &end
		schedule = append(schedule, placed)
		cursor = end
	}

	return schedule
}

// findSlot scans forward from the cursor for the first start time whose
// interval overlaps no fixed or already-placed activity and passes both
// constraint checks. Overlapping activities make the cursor jump straight
// to their end; constraint violations advance it one step.
func findSlot(
	cursor, windowEnd time.Time,
	duration time.Duration,
	fixed []models.Activity,
	placed Schedule,
	weekly []models.WeeklyConstraint,
	blocked []models.BlockedPeriod,
) (time.Time, bool) {
	for !cursor.Add(duration).After(windowEnd) {
		proposedEnd := cursor.Add(duration)

		if next, hit := firstOverlapEnd(cursor, proposedEnd, fixed); hit {
			cursor = next
			continue
		}
		if next, hit := firstOverlapEnd(cursor, proposedEnd, placed); hit {
			cursor = next
			continue
		}

		if !RespectsWeekly(cursor, proposedEnd, weekly) {
			cursor = cursor.Add(slotSearchStep)
			continue
		}
		if !RespectsBlocked(cursor, proposedEnd, blocked) {
			cursor = cursor.Add(slotSearchStep)
			continue
		}

		return cursor, true
	}

	return time.Time{}, false
}

// firstOverlapEnd returns the end of the first activity overlapping the
// proposed interval, if any.
func firstOverlapEnd(start, end time.Time, activities []models.Activity) (time.Time, bool) {
	for i := range activities {
		if !activities[i].HasInterval() {
			continue
		}
		if Overlaps(start, end, *activities[i].Start, *activities[i].End) {
			return *activities[i].End, true
		}
	}
	return time.Time{}, false
}
