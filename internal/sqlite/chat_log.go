package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/downtime/internal/chat"
	"github.com/rpggio/downtime/internal/repository"
)

// ChatLogRepository implements repository.ChatLogRepository for SQLite.
// It is also a chat.Sink.
type ChatLogRepository struct {
	db *DB
}

var (
	_ chat.Sink                    = (*ChatLogRepository)(nil)
	_ repository.ChatLogRepository = (*ChatLogRepository)(nil)
)

// NewChatLogRepository creates a new ChatLogRepository
func NewChatLogRepository(db *DB) *ChatLogRepository {
	return &ChatLogRepository{db: db}
}

// Post appends a message to the log
func (r *ChatLogRepository) Post(ctx context.Context, msg chat.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.PostedAt.IsZero() {
		msg.PostedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO chat_messages (id, seq, user_id, speaker, kind, content, posted_at)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM chat_messages), ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		msg.ID,
		msg.UserID,
		msg.Speaker,
		msg.Kind,
		msg.Content,
		msg.PostedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to post chat message: %w", repository.ErrConflict)
		}
		return fmt.Errorf("failed to post chat message: %w", err)
	}
	return nil
}

// List returns messages oldest first. With a limit, the newest messages
// are returned, still oldest first.
func (r *ChatLogRepository) List(ctx context.Context, opts repository.ListChatOptions) ([]chat.Message, error) {
	query := `
		SELECT id, seq, user_id, speaker, kind, content, posted_at
		FROM chat_messages
	`
	args := []interface{}{}
	if opts.UserID != "" {
		query += " WHERE user_id = ?"
		args = append(args, opts.UserID)
	}

	if opts.Limit > 0 {
		query += " ORDER BY seq DESC LIMIT ? OFFSET ?"
		args = append(args, opts.Limit, max(opts.Offset, 0))
	}
	query = "SELECT id, user_id, speaker, kind, content, posted_at FROM (" + query + ") ORDER BY seq ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var msg chat.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.UserID,
			&msg.Speaker,
			&msg.Kind,
			&msg.Content,
			&msg.PostedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat rows: %w", err)
	}
	return msgs, nil
}
