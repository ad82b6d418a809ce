package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/downtime/internal/repository"
)

// PlannerStateRepository implements repository.PlannerStateRepository for SQLite
type PlannerStateRepository struct {
	db *DB
}

var _ repository.PlannerStateRepository = (*PlannerStateRepository)(nil)

// NewPlannerStateRepository creates a new PlannerStateRepository
func NewPlannerStateRepository(db *DB) *PlannerStateRepository {
	return &PlannerStateRepository{db: db}
}

// Get returns the stored list for a user
func (r *PlannerStateRepository) Get(ctx context.Context, userID string) ([]byte, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT activities FROM planner_state WHERE user_id = ?`, userID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get planner state: %w", err)
	}
	return []byte(data), nil
}

// Put replaces the stored list in a single statement
func (r *PlannerStateRepository) Put(ctx context.Context, userID string, data []byte) error {
	query := `
		INSERT INTO planner_state (user_id, activities, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			activities = excluded.activities,
			updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, userID, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save planner state: %w", err)
	}
	return nil
}

// Delete removes the stored list. Deleting a missing row is not an error.
func (r *PlannerStateRepository) Delete(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM planner_state WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear planner state: %w", err)
	}
	return nil
}
