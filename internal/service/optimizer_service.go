package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/planwise/planwise-api/internal/dto"
	"github.com/planwise/planwise-api/internal/models"
	"github.com/planwise/planwise-api/internal/planner"
	appErrors "github.com/planwise/planwise-api/pkg/errors"
)

type activityStore interface {
	activityRangeReader
	Create(ctx context.Context, activity *models.Activity) error
	Update(ctx context.Context, activity *models.Activity) error
}

type optimizerObserver interface {
	ObserveOptimizerRun(duration time.Duration, activities int)
}

// OptimizerService turns candidate activities into optimized plans and,
// on request, persists them.
type OptimizerService struct {
	activities      activityStore
	constraints     constraintReader
	metrics         optimizerObserver
	logger          *zap.Logger
	newRand         func() *rand.Rand
	defaultDuration time.Duration
	replanPadding   time.Duration
}

// OptimizerOption customises an OptimizerService.
type OptimizerOption func(*OptimizerService)

// WithRandSource overrides the per-run random source constructor. Tests use
// this to make runs reproducible.
func WithRandSource(newRand func() *rand.Rand) OptimizerOption {
	return func(s *OptimizerService) {
		s.newRand = newRand
	}
}

// WithDefaultDuration overrides the duration given to candidates that carry
// no interval.
func WithDefaultDuration(d time.Duration) OptimizerOption {
	return func(s *OptimizerService) {
		if d > 0 {
			s.defaultDuration = d
		}
	}
}

// WithReplanPadding overrides how far the re-optimization window extends
// around a clashing activity.
func WithReplanPadding(d time.Duration) OptimizerOption {
	return func(s *OptimizerService) {
		if d > 0 {
			s.replanPadding = d
		}
	}
}

// WithOptimizerMetrics attaches a run observer.
func WithOptimizerMetrics(m optimizerObserver) OptimizerOption {
	return func(s *OptimizerService) {
		s.metrics = m
	}
}

// NewOptimizerService builds an OptimizerService with sane defaults.
func NewOptimizerService(activities activityStore, constraints constraintReader, logger *zap.Logger, opts ...OptimizerOption) *OptimizerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &OptimizerService{
		activities:      activities,
		constraints:     constraints,
		logger:          logger,
		newRand:         func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) },
		defaultDuration: planner.DefaultActivityDuration,
		replanPadding:   24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GeneratePlan builds an optimized plan inside the request window. When the
// request carries no candidates a default three-activity template is
// optimized instead. When req.Apply is set the resulting plan is persisted:
// activities with a positive id are updated, the rest created.
func (s *OptimizerService) GeneratePlan(ctx context.Context, ownerID int64, req dto.GeneratePlanRequest) (*dto.GeneratePlanResponse, error) {
	candidates := s.buildCandidates(ownerID, req)

	weekly, err := s.constraints.ListWeeklyByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load weekly constraints: %w", err)
	}
	blocked, err := s.constraints.ListBlockedByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load blocked periods: %w", err)
	}
	fixed, err := s.loadFixed(ctx, ownerID, req.WindowStart, req.WindowEnd, candidates)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	p := planner.New(s.newRand(), planner.WithDefaultDuration(s.defaultDuration))
	plan := p.GeneratePlan(candidates, fixed, weekly, blocked, req.WindowStart, req.WindowEnd)
	cost := planner.Cost(plan, fixed, weekly, blocked)
	if s.metrics != nil {
		s.metrics.ObserveOptimizerRun(time.Since(started), len(plan))
	}

	s.logger.Info("plan generated",
		zap.Int64("owner_id", ownerID),
		zap.Int("candidates", len(candidates)),
		zap.Int("placed", len(plan)),
		zap.Float64("cost", cost),
		zap.Duration("elapsed", time.Since(started)))

	resp := &dto.GeneratePlanResponse{
		WindowStart: req.WindowStart,
		WindowEnd:   req.WindowEnd,
		Activities:  plan,
		Cost:        cost,
	}
	if req.Apply {
		created, updated, err := s.persistPlan(ctx, plan, &resp.Activities)
		if err != nil {
			return nil, err
		}
		resp.Applied = true
		resp.Created = created
		resp.Updated = updated
	}
	return resp, nil
}

// ReplanAround re-optimizes the calendar slice surrounding a clashing
// activity. Every activity in [start−padding, end+padding] is replanned
// together with the candidate, the stale stored copy of the candidate is
// excluded, and the whole resulting plan is persisted and returned.
func (s *OptimizerService) ReplanAround(ctx context.Context, activity models.Activity) ([]models.Activity, error) {
	if !activity.HasInterval() {
		return nil, appErrors.Clone(appErrors.ErrUnschedulable, "start and end dates are required to re-optimize")
	}

	windowStart := activity.Start.Add(-s.replanPadding)
	windowEnd := activity.End.Add(s.replanPadding)

	existing, err := s.activities.ListByOwnerAndRange(ctx, activity.OwnerID, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("load window activities: %w", err)
	}

	candidates := make([]models.Activity, 0, len(existing)+1)
	for _, act := range existing {
		if activity.ID > 0 && act.ID == activity.ID {
			continue
		}
		candidates = append(candidates, act)
	}
	candidates = append(candidates, activity)

	weekly, err := s.constraints.ListWeeklyByOwner(ctx, activity.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("load weekly constraints: %w", err)
	}
	blocked, err := s.constraints.ListBlockedByOwner(ctx, activity.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("load blocked periods: %w", err)
	}

	started := time.Now()
	p := planner.New(s.newRand(), planner.WithDefaultDuration(s.defaultDuration))
	plan := []models.Activity(p.GeneratePlan(candidates, nil, weekly, blocked, windowStart, windowEnd))
	if s.metrics != nil {
		s.metrics.ObserveOptimizerRun(time.Since(started), len(plan))
	}

	if _, _, err := s.persistPlan(ctx, plan, &plan); err != nil {
		return nil, err
	}

	s.logger.Info("replanned around conflict",
		zap.Int64("owner_id", activity.OwnerID),
		zap.Int64("activity_id", activity.ID),
		zap.Int("replanned", len(plan)))
	return plan, nil
}

func (s *OptimizerService) buildCandidates(ownerID int64, req dto.GeneratePlanRequest) []models.Activity {
	if len(req.Candidates) == 0 {
		return defaultTemplate(ownerID, req.WindowStart, s.defaultDuration)
	}

	candidates := make([]models.Activity, 0, len(req.Candidates))
	for i, c := range req.Candidates {
		duration := s.defaultDuration
		if c.DurationHours > 0 {
			duration = time.Duration(c.DurationHours) * time.Hour
		}
		priority := c.Priority
		if priority == "" {
			priority = models.PriorityNormal
		}
		// Stagger provisional starts so equal-length candidates don't all
		// begin on the same instant.
		start := req.WindowStart.Add(time.Duration(i) * time.Hour)
		end := start.Add(duration)
		candidates = append(candidates, models.Activity{
			ID:          c.ActivityID,
			OwnerID:     ownerID,
			Title:       c.Title,
			Description: c.Description,
			Start:       &start,
			End:         &end,
			Priority:    priority,
			Status:      models.StatusPlanned,
		})
	}
	return candidates
}

func defaultTemplate(ownerID int64, windowStart time.Time, duration time.Duration) []models.Activity {
	template := []struct {
		title    string
		priority models.ActivityPriority
	}{
		{"Task A", models.PriorityHigh},
		{"Task B", models.PriorityNormal},
		{"Task C", models.PriorityLow},
	}
	candidates := make([]models.Activity, 0, len(template))
	for _, item := range template {
		start := windowStart
		end := start.Add(duration)
		candidates = append(candidates, models.Activity{
			OwnerID:  ownerID,
			Title:    item.title,
			Start:    &start,
			End:      &end,
			Priority: item.priority,
			Status:   models.StatusPlanned,
		})
	}
	return candidates
}

// loadFixed returns timed activities in the window that are not themselves
// being replanned.
func (s *OptimizerService) loadFixed(ctx context.Context, ownerID int64, from, to time.Time, candidates []models.Activity) ([]models.Activity, error) {
	existing, err := s.activities.ListByOwnerAndRange(ctx, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load fixed activities: %w", err)
	}

	candidateIDs := map[int64]struct{}{}
	for _, c := range candidates {
		if c.ID > 0 {
			candidateIDs[c.ID] = struct{}{}
		}
	}

	fixed := make([]models.Activity, 0, len(existing))
	for _, act := range existing {
		if _, replanned := candidateIDs[act.ID]; replanned {
			continue
		}
		fixed = append(fixed, act)
	}
	return fixed, nil
}

func (s *OptimizerService) persistPlan(ctx context.Context, plan []models.Activity, out *[]models.Activity) (created, updated int, err error) {
	now := time.Now()
	persisted := make([]models.Activity, 0, len(plan))
	for _, activity := range plan {
		activity.UpdatedAt = now
		if activity.ID > 0 {
			if err := s.activities.Update(ctx, &activity); err != nil {
				return created, updated, fmt.Errorf("apply plan update %d: %w", activity.ID, err)
			}
			updated++
		} else {
			activity.CreatedAt = now
			if err := s.activities.Create(ctx, &activity); err != nil {
				return created, updated, fmt.Errorf("apply plan create: %w", err)
			}
			created++
		}
		persisted = append(persisted, activity)
	}
	*out = persisted
	return created, updated, nil
}
