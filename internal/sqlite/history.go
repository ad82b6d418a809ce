package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/downtime/internal/domain/history"
	"github.com/rpggio/downtime/internal/repository"
)

// HistoryRepository implements repository.HistoryRepository for SQLite
type HistoryRepository struct {
	db *DB
}

var _ repository.HistoryRepository = (*HistoryRepository)(nil)

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Log inserts a new history entry
func (r *HistoryRepository) Log(ctx context.Context, userID string, entry *history.Entry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO planner_history (
			user_id, activity_id, kind, event_type, summary, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		userID,
		entry.ActivityID,
		entry.Kind,
		entry.EventType,
		entry.Summary,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log history: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}

	entry.UserID = userID
	entry.CreatedAt = createdAt

	return nil
}

// List returns history entries newest first
func (r *HistoryRepository) List(ctx context.Context, userID string, opts history.ListOptions) ([]history.Entry, error) {
	query := `
		SELECT id, user_id, activity_id, kind, event_type, summary, created_at
		FROM planner_history
		WHERE user_id = ?
	`

	args := []interface{}{userID}
	conditions := []string{}

	if opts.ActivityID != nil {
		conditions = append(conditions, "activity_id = ?")
		args = append(args, *opts.ActivityID)
	}
	if opts.EventType != nil {
		conditions = append(conditions, "event_type = ?")
		args = append(args, *opts.EventType)
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []history.Entry
	for rows.Next() {
		var entry history.Entry
		var activityID sql.NullString
		var kind sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&activityID,
			&kind,
			&entry.EventType,
			&entry.Summary,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if activityID.Valid {
			entry.ActivityID = &activityID.String
		}
		entry.Kind = kind.String
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	return entries, nil
}
