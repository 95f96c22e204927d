package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/planwise/planwise-api/internal/dto"
	"github.com/planwise/planwise-api/internal/models"
	appErrors "github.com/planwise/planwise-api/pkg/errors"
)

type constraintStore interface {
	constraintReader
	CreateWeekly(ctx context.Context, rule *models.WeeklyConstraint) error
	DeleteWeekly(ctx context.Context, ownerID, id int64) error
	CreateBlocked(ctx context.Context, period *models.BlockedPeriod) error
	DeleteBlocked(ctx context.Context, ownerID, id int64) error
}

// ConstraintService manages weekly rules and blocked periods.
type ConstraintService struct {
	repo      constraintStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewConstraintService builds a ConstraintService.
func NewConstraintService(repo constraintStore, validate *validator.Validate, logger *zap.Logger) *ConstraintService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConstraintService{repo: repo, validator: validate, logger: logger}
}

// List returns both rule families for an owner.
func (s *ConstraintService) List(ctx context.Context, ownerID int64) (*dto.ConstraintListResponse, error) {
	weekly, err := s.repo.ListWeeklyByOwner(ctx, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, "CONSTRAINT_LIST_FAILED", http.StatusInternalServerError, "failed to list constraints")
	}
	blocked, err := s.repo.ListBlockedByOwner(ctx, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, "CONSTRAINT_LIST_FAILED", http.StatusInternalServerError, "failed to list constraints")
	}
	return &dto.ConstraintListResponse{Weekly: weekly, Blocked: blocked}, nil
}

// CreateWeekly validates and stores a recurring rule.
func (s *ConstraintService) CreateWeekly(ctx context.Context, ownerID int64, req dto.CreateWeeklyConstraintRequest) (*models.WeeklyConstraint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, "VALIDATION_ERROR", http.StatusBadRequest, "invalid weekly constraint")
	}

	rule := models.WeeklyConstraint{
		OwnerID:     ownerID,
		Weekday:     req.Weekday,
		StartMinute: req.StartMinute,
		EndMinute:   req.EndMinute,
		Kind:        req.Kind,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.CreateWeekly(ctx, &rule); err != nil {
		return nil, appErrors.Wrap(err, "CONSTRAINT_CREATE_FAILED", http.StatusInternalServerError, "failed to create weekly constraint")
	}
	return &rule, nil
}

// DeleteWeekly removes a recurring rule.
func (s *ConstraintService) DeleteWeekly(ctx context.Context, ownerID, id int64) error {
	if err := s.repo.DeleteWeekly(ctx, ownerID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, "CONSTRAINT_DELETE_FAILED", http.StatusInternalServerError, "failed to delete weekly constraint")
	}
	return nil
}

// CreateBlocked validates and stores a one-off blocked period.
func (s *ConstraintService) CreateBlocked(ctx context.Context, ownerID int64, req dto.CreateBlockedPeriodRequest) (*models.BlockedPeriod, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, "VALIDATION_ERROR", http.StatusBadRequest, "invalid blocked period")
	}

	kind := req.Kind
	if kind == "" {
		kind = models.BlockedOther
	}
	period := models.BlockedPeriod{
		OwnerID:   ownerID,
		Start:     req.Start,
		End:       req.End,
		Reason:    req.Reason,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateBlocked(ctx, &period); err != nil {
		return nil, appErrors.Wrap(err, "CONSTRAINT_CREATE_FAILED", http.StatusInternalServerError, "failed to create blocked period")
	}
	return &period, nil
}

// DeleteBlocked removes a blocked period.
func (s *ConstraintService) DeleteBlocked(ctx context.Context, ownerID, id int64) error {
	if err := s.repo.DeleteBlocked(ctx, ownerID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, "CONSTRAINT_DELETE_FAILED", http.StatusInternalServerError, "failed to delete blocked period")
	}
	return nil
}
