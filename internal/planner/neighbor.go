package planner

import (
	"time"
)

const (
	maxShiftHours     = 2
	resizeStep        = 15 * time.Minute
	maxResizeSteps    = 3
	mutationKindCount = 3
)

// neighbor produces a deep copy of the schedule with exactly one randomly
// chosen mutation applied: shift, swap or resize. A mutation whose guard
// fails leaves that activity unchanged; the copy is returned either way.
// Mutations may introduce overlaps on purpose: the cost function penalizes
// them, it does not forbid them.
func (p *Planner) neighbor(schedule Schedule, windowStart, windowEnd time.Time) Schedule {
	next := schedule.Clone()
	if len(next) == 0 {
		return next
	}

	switch p.rng.Intn(mutationKindCount) {
	case 0:
		p.shift(next, windowStart, windowEnd)
	case 1:
		p.swap(next)
	case 2:
		p.resize(next, windowEnd)
	}

	return next
}

// shift moves one activity by a whole number of hours in [−2,+2],
// preserving its duration. Applied only when the new start stays strictly
// inside the window.
func (p *Planner) shift(schedule Schedule, windowStart, windowEnd time.Time) {
	activity := &schedule[p.rng.Intn(len(schedule))]
	if !activity.HasInterval() {
		return
	}

	offset := time.Duration(p.rng.Intn(2*maxShiftHours+1)-maxShiftHours) * time.Hour
	newStart := activity.Start.Add(offset)
	if !newStart.After(windowStart) || !newStart.Before(windowEnd) {
		return
	}

	duration := activity.End.Sub(*activity.Start)
	newEnd := newStart.Add(duration)
	activity.Start = &newStart
	activity.End = &newEnd
}

// swap exchanges the start times of two distinct activities; each keeps
// its own duration. No-op when fewer than two activities are present or
// the same index is drawn twice.
func (p *Planner) swap(schedule Schedule) {
	if len(schedule) < 2 {
		return
	}

	first := p.rng.Intn(len(schedule))
	second := p.rng.Intn(len(schedule))
	if first == second {
		return
	}

	a, b := &schedule[first], &schedule[second]
	if !a.HasInterval() || !b.HasInterval() {
		return
	}

	durationA := a.End.Sub(*a.Start)
	durationB := b.End.Sub(*b.Start)

	startA := *a.Start
	startB := *b.Start

	endA := startB.Add(durationA)
	endB := startA.Add(durationB)

	a.Start = &startB
	a.End = &endA
	b.Start = &startA
	b.End = &endB
}

// resize adjusts one activity's end by a multiple of 15 minutes in
// [−45,+45]. Applied only when the new end stays after the start and
// inside the window.
func (p *Planner) resize(schedule Schedule, windowEnd time.Time) {
	activity := &schedule[p.rng.Intn(len(schedule))]
	if !activity.HasInterval() {
		return
	}

	steps := p.rng.Intn(2*maxResizeSteps+1) - maxResizeSteps
	newEnd := activity.End.Add(time.Duration(steps) * resizeStep)
	if !newEnd.After(*activity.Start) || !newEnd.Before(windowEnd) {
		return
	}

	activity.End = &newEnd
}
