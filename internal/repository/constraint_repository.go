package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/planwise/planwise-api/internal/models"
)

// ConstraintRepository provides database access for weekly rules and
// blocked periods.
type ConstraintRepository struct {
	db *sqlx.DB
}

// NewConstraintRepository creates a new instance of ConstraintRepository.
func NewConstraintRepository(db *sqlx.DB) *ConstraintRepository {
	return &ConstraintRepository{db: db}
}

// ListWeeklyByOwner returns all weekly rules for an owner.
func (r *ConstraintRepository) ListWeeklyByOwner(ctx context.Context, ownerID int64) ([]models.WeeklyConstraint, error) {
	const query = `SELECT id, owner_id, weekday, start_minute, end_minute, kind, created_at
		FROM weekly_constraints WHERE owner_id = $1 ORDER BY weekday, start_minute, id`
	rules := []models.WeeklyConstraint{}
	if err := r.db.SelectContext(ctx, &rules, query, ownerID); err != nil {
		return nil, fmt.Errorf("list weekly constraints: %w", err)
	}
	return rules, nil
}

// CreateWeekly inserts a weekly rule and returns the generated identifier.
func (r *ConstraintRepository) CreateWeekly(ctx context.Context, rule *models.WeeklyConstraint) error {
	const query = `INSERT INTO weekly_constraints (owner_id, weekday, start_minute, end_minute, kind, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		rule.OwnerID, rule.Weekday, rule.StartMinute, rule.EndMinute, rule.Kind, rule.CreatedAt,
	).Scan(&rule.ID); err != nil {
		return fmt.Errorf("create weekly constraint: %w", err)
	}
	return nil
}

// DeleteWeekly removes a weekly rule owned by ownerID.
func (r *ConstraintRepository) DeleteWeekly(ctx context.Context, ownerID, id int64) error {
	const query = `DELETE FROM weekly_constraints WHERE id = $1 AND owner_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete weekly constraint: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete weekly constraint rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListBlockedByOwner returns all blocked periods for an owner.
func (r *ConstraintRepository) ListBlockedByOwner(ctx context.Context, ownerID int64) ([]models.BlockedPeriod, error) {
	const query = `SELECT id, owner_id, start_at, end_at, reason, kind, created_at
		FROM blocked_periods WHERE owner_id = $1 ORDER BY start_at, id`
	periods := []models.BlockedPeriod{}
	if err := r.db.SelectContext(ctx, &periods, query, ownerID); err != nil {
		return nil, fmt.Errorf("list blocked periods: %w", err)
	}
	return periods, nil
}

// ListBlockedByOwnerAndRange returns blocked periods intersecting [from, to).
func (r *ConstraintRepository) ListBlockedByOwnerAndRange(ctx context.Context, ownerID int64, from, to time.Time) ([]models.BlockedPeriod, error) {
	const query = `SELECT id, owner_id, start_at, end_at, reason, kind, created_at
		FROM blocked_periods WHERE owner_id = $1 AND start_at < $3 AND end_at > $2
		ORDER BY start_at, id`
	periods := []models.BlockedPeriod{}
	if err := r.db.SelectContext(ctx, &periods, query, ownerID, from, to); err != nil {
		return nil, fmt.Errorf("list blocked periods by range: %w", err)
	}
	return periods, nil
}

// CreateBlocked inserts a blocked period and returns the generated identifier.
func (r *ConstraintRepository) CreateBlocked(ctx context.Context, period *models.BlockedPeriod) error {
	const query = `INSERT INTO blocked_periods (owner_id, start_at, end_at, reason, kind, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		period.OwnerID, period.Start, period.End, period.Reason, period.Kind, period.CreatedAt,
	).Scan(&period.ID); err != nil {
		return fmt.Errorf("create blocked period: %w", err)
	}
	return nil
}

// DeleteBlocked removes a blocked period owned by ownerID.
func (r *ConstraintRepository) DeleteBlocked(ctx context.Context, ownerID, id int64) error {
	const query = `DELETE FROM blocked_periods WHERE id = $1 AND owner_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete blocked period: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete blocked period rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
