package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/planwise/planwise-api/internal/models"
)

const activityColumns = `id, owner_id, title, description, start_at, end_at, category_id, priority, status, created_at, updated_at`

// ActivityRepository provides database access for activities.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository creates a new instance of ActivityRepository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// FindByID returns a single activity owned by ownerID.
func (r *ActivityRepository) FindByID(ctx context.Context, ownerID, id int64) (*models.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1 AND owner_id = $2 LIMIT 1`
	var activity models.Activity
	if err := r.db.GetContext(ctx, &activity, query, id, ownerID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find activity by id: %w", err)
	}
	return &activity, nil
}

// ListByOwner returns activities for an owner with optional filters and total count.
func (r *ActivityRepository) ListByOwner(ctx context.Context, ownerID int64, filter models.ActivityFilter) ([]models.Activity, int, error) {
	baseQuery := `FROM activities WHERE owner_id = $1`
	args := []interface{}{ownerID}
	var conditions []string

	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("end_at > $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("start_at < $%d", len(args)+1))
		args = append(args, *filter.To)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)+1))
		args = append(args, filter.Priority)
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	countQuery := `SELECT COUNT(*) ` + baseQuery
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count activities: %w", err)
	}

	listQuery := `SELECT ` + activityColumns + ` ` + baseQuery + ` ORDER BY start_at ASC NULLS LAST, id ASC`
	if filter.PageSize > 0 {
		listQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	}

	activities := []models.Activity{}
	if err := r.db.SelectContext(ctx, &activities, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list activities: %w", err)
	}
	return activities, total, nil
}

// ListByOwnerAndRange returns timed activities intersecting [from, to).
func (r *ActivityRepository) ListByOwnerAndRange(ctx context.Context, ownerID int64, from, to time.Time) ([]models.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities
		WHERE owner_id = $1 AND start_at IS NOT NULL AND end_at IS NOT NULL
		AND start_at < $3 AND end_at > $2
		ORDER BY start_at ASC, id ASC`
	activities := []models.Activity{}
	if err := r.db.SelectContext(ctx, &activities, query, ownerID, from, to); err != nil {
		return nil, fmt.Errorf("list activities by range: %w", err)
	}
	return activities, nil
}

// Create inserts a new activity and returns the generated identifier.
func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	const query = `INSERT INTO activities (owner_id, title, description, start_at, end_at, category_id, priority, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		activity.OwnerID, activity.Title, activity.Description, activity.Start, activity.End,
		activity.CategoryID, activity.Priority, activity.Status, activity.CreatedAt, activity.UpdatedAt,
	).Scan(&activity.ID); err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

// Update persists changes to an existing activity.
func (r *ActivityRepository) Update(ctx context.Context, activity *models.Activity) error {
	const query = `UPDATE activities SET title = $3, description = $4, start_at = $5, end_at = $6,
		category_id = $7, priority = $8, status = $9, updated_at = $10
		WHERE id = $1 AND owner_id = $2`
	result, err := r.db.ExecContext(ctx, query,
		activity.ID, activity.OwnerID, activity.Title, activity.Description, activity.Start,
		activity.End, activity.CategoryID, activity.Priority, activity.Status, activity.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update activity rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an activity owned by ownerID.
func (r *ActivityRepository) Delete(ctx context.Context, ownerID, id int64) error {
	const query = `DELETE FROM activities WHERE id = $1 AND owner_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete activity rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
