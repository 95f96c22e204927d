package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/planwise/planwise-api/internal/dto"
	"github.com/planwise/planwise-api/internal/models"
	appErrors "github.com/planwise/planwise-api/pkg/errors"
)

type activityRepository interface {
	activityStore
	FindByID(ctx context.Context, ownerID, id int64) (*models.Activity, error)
	ListByOwner(ctx context.Context, ownerID int64, filter models.ActivityFilter) ([]models.Activity, int, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

type activityValidator interface {
	ValidateActivity(ctx context.Context, activity models.Activity, excludeID int64) ([]string, error)
}

type replanner interface {
	ReplanAround(ctx context.Context, activity models.Activity) ([]models.Activity, error)
}

// ActivityService manages the activity lifecycle. Creates and updates pass
// through conflict validation first; when the proposed interval clashes the
// service falls back to re-optimizing the surrounding calendar slice
// instead of persisting the clash.
type ActivityService struct {
	repo      activityRepository
	validator activityValidator
	optimizer replanner
	logger    *zap.Logger
}

// NewActivityService builds an ActivityService.
func NewActivityService(repo activityRepository, validator activityValidator, optimizer replanner, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{repo: repo, validator: validator, optimizer: optimizer, logger: logger}
}

// List returns the owner's activities with pagination metadata.
func (s *ActivityService) List(ctx context.Context, ownerID int64, query dto.ActivityQuery) ([]models.Activity, *models.Pagination, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	activities, total, err := s.repo.ListByOwner(ctx, ownerID, models.ActivityFilter{
		From:     query.From,
		To:       query.To,
		Status:   query.Status,
		Priority: query.Priority,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, "ACTIVITY_LIST_FAILED", http.StatusInternalServerError, "failed to list activities")
	}
	return activities, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns a single activity.
func (s *ActivityService) Get(ctx context.Context, ownerID, id int64) (*models.Activity, error) {
	activity, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, "ACTIVITY_GET_FAILED", http.StatusInternalServerError, "failed to load activity")
	}
	return activity, nil
}

// Create validates and persists a new activity. An untimed activity is
// stored directly. A timed activity that clashes triggers the re-optimizer;
// the returned result then carries Applied=false, the violation messages
// and the replanned slice of the calendar.
func (s *ActivityService) Create(ctx context.Context, ownerID int64, req dto.CreateActivityRequest) (*dto.ActivityMutationResponse, error) {
	activity := models.Activity{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Start:       req.Start,
		End:         req.End,
		CategoryID:  req.CategoryID,
		Priority:    req.Priority,
		Status:      req.Status,
	}
	if activity.Priority == "" {
		activity.Priority = models.PriorityNormal
	}
	if activity.Status == "" {
		activity.Status = models.StatusPlanned
	}

	if activity.HasInterval() {
		violations, err := s.validator.ValidateActivity(ctx, activity, 0)
		if err != nil {
			return nil, appErrors.Wrap(err, "ACTIVITY_VALIDATE_FAILED", http.StatusInternalServerError, "failed to validate activity")
		}
		if len(violations) > 0 {
			return s.resolveByReplanning(ctx, activity, violations)
		}
	}

	now := time.Now()
	activity.CreatedAt = now
	activity.UpdatedAt = now
	if err := s.repo.Create(ctx, &activity); err != nil {
		return nil, appErrors.Wrap(err, "ACTIVITY_CREATE_FAILED", http.StatusInternalServerError, "failed to create activity")
	}
	return &dto.ActivityMutationResponse{Activity: &activity, Applied: true}, nil
}

// Update validates and persists changes to an existing activity, with the
// same re-optimization fallback as Create.
func (s *ActivityService) Update(ctx context.Context, ownerID, id int64, req dto.UpdateActivityRequest) (*dto.ActivityMutationResponse, error) {
	current, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	activity := current.Clone()
	if req.Title != nil {
		activity.Title = *req.Title
	}
	if req.Description != nil {
		activity.Description = *req.Description
	}
	if req.Start != nil {
		activity.Start = req.Start
	}
	if req.End != nil {
		activity.End = req.End
	}
	if req.CategoryID != nil {
		activity.CategoryID = req.CategoryID
	}
	if req.Priority != nil {
		activity.Priority = *req.Priority
	}
	if req.Status != nil {
		activity.Status = *req.Status
	}

	if activity.HasInterval() {
		violations, err := s.validator.ValidateActivity(ctx, activity, id)
		if err != nil {
			return nil, appErrors.Wrap(err, "ACTIVITY_VALIDATE_FAILED", http.StatusInternalServerError, "failed to validate activity")
		}
		if len(violations) > 0 {
			return s.resolveByReplanning(ctx, activity, violations)
		}
	}

	activity.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, &activity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, "ACTIVITY_UPDATE_FAILED", http.StatusInternalServerError, "failed to update activity")
	}
	return &dto.ActivityMutationResponse{Activity: &activity, Applied: true}, nil
}

// Delete removes an activity.
func (s *ActivityService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, "ACTIVITY_DELETE_FAILED", http.StatusInternalServerError, "failed to delete activity")
	}
	return nil
}

func (s *ActivityService) resolveByReplanning(ctx context.Context, activity models.Activity, violations []string) (*dto.ActivityMutationResponse, error) {
	plan, err := s.optimizer.ReplanAround(ctx, activity)
	if err != nil {
		return nil, err
	}
	s.logger.Info("activity clash resolved by re-optimization",
		zap.Int64("owner_id", activity.OwnerID),
		zap.Int("violations", len(violations)),
		zap.Int("replanned", len(plan)))
	return &dto.ActivityMutationResponse{Applied: false, Violations: violations, Plan: plan}, nil
}
