package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/planwise/planwise-api/internal/models"
	"github.com/planwise/planwise-api/internal/planner"
)

type activityRangeReader interface {
	ListByOwnerAndRange(ctx context.Context, ownerID int64, from, to time.Time) ([]models.Activity, error)
}

type constraintReader interface {
	ListWeeklyByOwner(ctx context.Context, ownerID int64) ([]models.WeeklyConstraint, error)
	ListBlockedByOwner(ctx context.Context, ownerID int64) ([]models.BlockedPeriod, error)
}

// ConflictService detects scheduling conflicts and validates proposed
// activities against the owner's constraints.
type ConflictService struct {
	activities  activityRangeReader
	constraints constraintReader
	logger      *zap.Logger
}

// NewConflictService builds a ConflictService.
func NewConflictService(activities activityRangeReader, constraints constraintReader, logger *zap.Logger) *ConflictService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictService{activities: activities, constraints: constraints, logger: logger}
}

// DetectConflicts scans the owner's activities inside [from, to) and returns
// every conflict found: pairwise overlaps first, then weekly rule
// violations, then blocked period intrusions. Activities without both
// timestamps are skipped.
func (s *ConflictService) DetectConflicts(ctx context.Context, ownerID int64, from, to time.Time) ([]models.Conflict, error) {
	activities, err := s.activities.ListByOwnerAndRange(ctx, ownerID, from, to)
	if err != nil {
		return nil, err
	}
	weekly, err := s.constraints.ListWeeklyByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	blocked, err := s.constraints.ListBlockedByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	conflicts := []models.Conflict{}
	conflicts = append(conflicts, detectOverlaps(activities)...)
	conflicts = append(conflicts, detectWeeklyViolations(activities, weekly)...)
	conflicts = append(conflicts, detectBlockedViolations(activities, blocked)...)

	s.logger.Debug("conflict scan finished",
		zap.Int64("owner_id", ownerID),
		zap.Int("activities", len(activities)),
		zap.Int("conflicts", len(conflicts)))
	return conflicts, nil
}

// ValidateActivity checks a proposed activity against the owner's existing
// activities and constraints. It returns human-readable violation messages;
// an empty slice means the proposal is acceptable. When excludeID is
// positive the stored activity with that id is ignored, so updates do not
// collide with their own previous interval.
func (s *ConflictService) ValidateActivity(ctx context.Context, activity models.Activity, excludeID int64) ([]string, error) {
	violations := []string{}

	if !activity.HasInterval() {
		violations = append(violations, "start and end dates are required")
		return violations, nil
	}
	if !activity.Start.Before(*activity.End) {
		violations = append(violations, "the start date must be before the end date")
	}

	// Validation looks at the whole calendar, not just the proposal's week.
	existing, err := s.activities.ListByOwnerAndRange(ctx, activity.OwnerID, activity.Start.AddDate(-1, 0, 0), activity.End.AddDate(1, 0, 0))
	if err != nil {
		return nil, err
	}
	for _, other := range existing {
		if other.ID == excludeID && excludeID > 0 {
			continue
		}
		if !other.HasInterval() {
			continue
		}
		if planner.Overlaps(*activity.Start, *activity.End, *other.Start, *other.End) {
			violations = append(violations, fmt.Sprintf("conflict with existing activity '%s'", other.Title))
		}
	}

	weekly, err := s.constraints.ListWeeklyByOwner(ctx, activity.OwnerID)
	if err != nil {
		return nil, err
	}
	for _, rule := range weekly {
		if planner.ViolatesWeekly(*activity.Start, *activity.End, rule) {
			violations = append(violations, fmt.Sprintf("unavailable on %s between %s and %s",
				rule.Weekday, models.FormatMinute(rule.StartMinute), models.FormatMinute(rule.EndMinute)))
		}
	}

	blocked, err := s.constraints.ListBlockedByOwner(ctx, activity.OwnerID)
	if err != nil {
		return nil, err
	}
	for _, period := range blocked {
		if planner.ViolatesBlocked(*activity.Start, *activity.End, period) {
			violations = append(violations, fmt.Sprintf("blocked period: %s", reasonOrDefault(period.Reason)))
		}
	}

	return violations, nil
}

func detectOverlaps(activities []models.Activity) []models.Conflict {
	conflicts := []models.Conflict{}
	for i := 0; i < len(activities); i++ {
		a := activities[i]
		if !a.HasInterval() {
			continue
		}
		for j := i + 1; j < len(activities); j++ {
			b := activities[j]
			if !b.HasInterval() {
				continue
			}
			if !planner.Overlaps(*a.Start, *a.End, *b.Start, *b.End) {
				continue
			}
			otherID := b.ID
			conflicts = append(conflicts, models.Conflict{
				Kind:               models.ConflictOverlap,
				Severity:           models.ConflictOverlap.Severity(),
				ActivityID:         a.ID,
				ActivityTitle:      a.Title,
				OtherActivityID:    &otherID,
				OtherActivityTitle: b.Title,
				Start:              a.Start,
				End:                a.End,
				Description: fmt.Sprintf("activities '%s' and '%s' overlap between %s and %s",
					a.Title, b.Title, formatDateTime(a.Start), formatDateTime(a.End)),
			})
		}
	}
	return conflicts
}

func detectWeeklyViolations(activities []models.Activity, weekly []models.WeeklyConstraint) []models.Conflict {
	conflicts := []models.Conflict{}
	for _, activity := range activities {
		if !activity.HasInterval() {
			continue
		}
		for _, rule := range weekly {
			if !planner.ViolatesWeekly(*activity.Start, *activity.End, rule) {
				continue
			}
			conflicts = append(conflicts, models.Conflict{
				Kind:          models.ConflictWeeklyConstraint,
				Severity:      models.ConflictWeeklyConstraint.Severity(),
				ActivityID:    activity.ID,
				ActivityTitle: activity.Title,
				Start:         activity.Start,
				End:           activity.End,
				Description: fmt.Sprintf("activity '%s' violates an unavailability rule on %s between %s and %s",
					activity.Title, rule.Weekday, models.FormatMinute(rule.StartMinute), models.FormatMinute(rule.EndMinute)),
			})
		}
	}
	return conflicts
}

func detectBlockedViolations(activities []models.Activity, blocked []models.BlockedPeriod) []models.Conflict {
	conflicts := []models.Conflict{}
	for _, activity := range activities {
		if !activity.HasInterval() {
			continue
		}
		for _, period := range blocked {
			if !planner.ViolatesBlocked(*activity.Start, *activity.End, period) {
				continue
			}
			conflicts = append(conflicts, models.Conflict{
				Kind:          models.ConflictBlockedPeriod,
				Severity:      models.ConflictBlockedPeriod.Severity(),
				ActivityID:    activity.ID,
				ActivityTitle: activity.Title,
				Start:         activity.Start,
				End:           activity.End,
				Description: fmt.Sprintf("activity '%s' falls inside a blocked period: %s (%s - %s)",
					activity.Title, reasonOrDefault(period.Reason),
					formatDateTime(&period.Start), formatDateTime(&period.End)),
			})
		}
	}
	return conflicts
}

func reasonOrDefault(reason string) string {
	if reason == "" {
		return "unspecified"
	}
	return reason
}

func formatDateTime(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format("02/01/2006 15:04")
}
