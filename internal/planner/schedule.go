// Package planner implements the conflict-detection primitives and the
// simulated-annealing schedule optimizer. It is a pure package: all inputs
// are run-local slices loaded by the caller, randomness is injected, and
// nothing here performs I/O.
package planner

import (
	"github.com/planwise/planwise-api/internal/models"
)

// Schedule is a candidate assignment of start/end times to a set of
// activities undergoing optimization. Only the timestamps are mutated
// during search; identity, owner, title and the rest are carried verbatim
// from the candidate input.
type Schedule []models.Activity

// Clone returns a deep copy of the schedule. The annealer never aliases
// the current and best schedules: every transition between them is a full
// copy, so a later mutation of one cannot corrupt the other.
func (s Schedule) Clone() Schedule {
	clone := make(Schedule, len(s))
	for i, activity := range s {
		clone[i] = activity.Clone()
	}
	return clone
}
