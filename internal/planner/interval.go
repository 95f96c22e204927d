package planner

import "time"

// Overlaps reports whether two half-open intervals [aStart,aEnd) and
// [bStart,bEnd) intersect. Touching endpoints do not count as overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// clockOverlaps applies the same half-open predicate to date-less
// minute-of-day windows.
func clockOverlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// minuteOfDay extracts the minutes elapsed since midnight.
func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
