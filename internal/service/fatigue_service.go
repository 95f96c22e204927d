package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/planwise/planwise-api/internal/dto"
	"github.com/planwise/planwise-api/internal/models"
	appErrors "github.com/planwise/planwise-api/pkg/errors"
)

const (
	fatigueBase              = 20.0
	fatigueNightStartMinute  = 22 * 60
	fatigueNightEndMinute    = 6 * 60
	fatigueEarlyStartMinute  = 7 * 60
	fatigueMergeGapMinutes   = 15
	fatigueContinuousMinutes = 120
	fatigueDailyBudgetMins   = 480
)

type fatigueCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// FatigueService derives a 0-100 daily fatigue index from the shape of the
// owner's calendar: overlapping bookings, night and early-morning exposure,
// long continuous stretches and days beyond eight booked hours all raise it.
type FatigueService struct {
	activities activityRangeReader
	cache      fatigueCache
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewFatigueService builds a FatigueService. A nil cache disables caching.
func NewFatigueService(activities activityRangeReader, cache fatigueCache, cacheTTL time.Duration, logger *zap.Logger) *FatigueService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &FatigueService{activities: activities, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// DailyFatigue returns one index per calendar day in [from, to].
func (s *FatigueService) DailyFatigue(ctx context.Context, ownerID int64, from, to time.Time) (*dto.DailyFatigueResponse, error) {
	key := fmt.Sprintf("fatigue:daily:%d:%s:%s", ownerID, from.Format(time.RFC3339), to.Format(time.RFC3339))
	if s.cache != nil {
		var cached dto.DailyFatigueResponse
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("fatigue cache read failed", zap.Error(err))
		}
	}

	daily, _, err := s.compute(ctx, ownerID, from, to)
	if err != nil {
		return nil, err
	}

	resp := &dto.DailyFatigueResponse{Daily: daily}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
			s.logger.Warn("fatigue cache write failed", zap.Error(err))
		}
	}
	return resp, nil
}

// Summary aggregates booked hours and fatigue over [from, to].
func (s *FatigueService) Summary(ctx context.Context, ownerID int64, from, to time.Time) (*dto.FatigueSummaryResponse, error) {
	key := fmt.Sprintf("fatigue:summary:%d:%s:%s", ownerID, from.Format(time.RFC3339), to.Format(time.RFC3339))
	if s.cache != nil {
		var cached dto.FatigueSummaryResponse
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("fatigue cache read failed", zap.Error(err))
		}
	}

	daily, totalMinutes, err := s.compute(ctx, ownerID, from, to)
	if err != nil {
		return nil, err
	}

	resp := &dto.FatigueSummaryResponse{TotalHours: float64(totalMinutes) / 60.0, Days: len(daily)}
	if len(daily) > 0 {
		minFatigue, maxFatigue, sum := 100.0, 0.0, 0.0
		for _, day := range daily {
			minFatigue = math.Min(minFatigue, day.FatigueIndex)
			maxFatigue = math.Max(maxFatigue, day.FatigueIndex)
			sum += day.FatigueIndex
		}
		resp.AvgHoursPerDay = resp.TotalHours / float64(len(daily))
		resp.AvgFatigue = sum / float64(len(daily))
		resp.MinFatigue = minFatigue
		resp.MaxFatigue = maxFatigue
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
			s.logger.Warn("fatigue cache write failed", zap.Error(err))
		}
	}
	return resp, nil
}

type fatigueInterval struct {
	start time.Time
	end   time.Time
}

type fatigueMetrics struct {
	totalMinutes          float64
	nightMinutes          float64
	earlyStarts           int
	overlaps              int
	continuousOverMinutes float64
}

func (s *FatigueService) compute(ctx context.Context, ownerID int64, from, to time.Time) ([]dto.FatigueDay, float64, error) {
	activities, err := s.activities.ListByOwnerAndRange(ctx, ownerID, from, to)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, "FATIGUE_LOAD_FAILED", http.StatusInternalServerError, "failed to load activities")
	}

	totalMinutes := 0.0
	for _, activity := range activities {
		if activity.HasInterval() {
			totalMinutes += activity.End.Sub(*activity.Start).Minutes()
		}
	}

	byDay := splitByDay(activities)
	daily := []dto.FatigueDay{}
	for day := startOfDay(from); !day.After(to); day = day.AddDate(0, 0, 1) {
		metrics := metricsForDay(byDay[day.Format("2006-01-02")], day)
		daily = append(daily, dto.FatigueDay{
			Date:         day.Format("2006-01-02"),
			FatigueIndex: fatigueIndex(metrics),
		})
	}
	return daily, totalMinutes, nil
}

// splitByDay clips each activity interval to calendar-day segments keyed by
// date. Multi-day activities contribute a segment per day.
func splitByDay(activities []models.Activity) map[string][]fatigueInterval {
	byDay := map[string][]fatigueInterval{}
	for _, activity := range activities {
		if !activity.HasInterval() {
			continue
		}
		for day := startOfDay(*activity.Start); day.Before(*activity.End); day = day.AddDate(0, 0, 1) {
			dayEnd := day.AddDate(0, 0, 1)
			segStart := maxTime(*activity.Start, day)
			segEnd := minTime(*activity.End, dayEnd)
			if segStart.Before(segEnd) {
				key := day.Format("2006-01-02")
				byDay[key] = append(byDay[key], fatigueInterval{start: segStart, end: segEnd})
			}
		}
	}
	return byDay
}

func metricsForDay(intervals []fatigueInterval, day time.Time) fatigueMetrics {
	var m fatigueMetrics
	if len(intervals) == 0 {
		return m
	}

	sorted := make([]fatigueInterval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start.Before(sorted[j].start) })

	nightStart := day.Add(time.Duration(fatigueNightStartMinute) * time.Minute)
	nightEnd := day.AddDate(0, 0, 1).Add(time.Duration(fatigueNightEndMinute) * time.Minute)

	for _, it := range sorted {
		m.totalMinutes += it.end.Sub(it.start).Minutes()
		m.nightMinutes += overlapMinutes(it, nightStart, nightEnd)
		startMinute := it.start.Hour()*60 + it.start.Minute()
		if startMinute < fatigueEarlyStartMinute {
			m.earlyStarts++
		}
	}

	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[i].start.Before(sorted[j].end) && sorted[j].start.Before(sorted[i].end) {
				m.overlaps++
			}
		}
	}

	// Stretches separated by breaks of 15 minutes or less count as one
	// continuous block.
	current := sorted[0]
	blocks := []fatigueInterval{}
	for i := 1; i < len(sorted); i++ {
		next := sorted[i]
		if next.start.Sub(current.end).Minutes() <= fatigueMergeGapMinutes {
			if next.end.After(current.end) {
				current.end = next.end
			}
		} else {
			blocks = append(blocks, current)
			current = next
		}
	}
	blocks = append(blocks, current)

	for _, block := range blocks {
		minutes := block.end.Sub(block.start).Minutes()
		if minutes > fatigueContinuousMinutes {
			m.continuousOverMinutes += minutes - fatigueContinuousMinutes
		}
	}
	return m
}

func overlapMinutes(it fatigueInterval, from, to time.Time) float64 {
	start := maxTime(it.start, from)
	end := minTime(it.end, to)
	if start.Before(end) {
		return end.Sub(start).Minutes()
	}
	return 0
}

func fatigueIndex(m fatigueMetrics) float64 {
	risk := float64(m.overlaps) * 10.0
	risk += (m.nightMinutes / 15.0) * 2.0
	risk += float64(m.earlyStarts) * 5.0
	risk += m.continuousOverMinutes * 0.5
	if over := m.totalMinutes - fatigueDailyBudgetMins; over > 0 {
		risk += over * 0.5
	}

	index := fatigueBase + risk
	if index > 100 {
		index = 100
	}
	if index < 0 {
		index = 0
	}
	return math.Round(index)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
