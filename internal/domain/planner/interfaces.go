package planner

import (
	"context"

	"github.com/rpggio/downtime/internal/dialog"
	"github.com/rpggio/downtime/internal/domain/activity"
	"github.com/rpggio/downtime/internal/domain/history"
)

// Store persists one activity list per user.
type Store interface {
	// Load returns the stored list, or an empty list when none is stored.
	Load(ctx context.Context, userID string) (activity.List, error)
	// Save replaces the stored list.
	Save(ctx context.Context, userID string, list activity.List) error
	// Clear removes the stored list.
	Clear(ctx context.Context, userID string) error
}

// StateRepository stores the raw encoded list per user.
type StateRepository interface {
	Get(ctx context.Context, userID string) ([]byte, error)
	Put(ctx context.Context, userID string, data []byte) error
	Delete(ctx context.Context, userID string) error
}

// Host is the UI a planner session runs in.
type Host interface {
	dialog.Prompter
	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, title, message string) (bool, error)
	// Warn shows a non-blocking notice.
	Warn(ctx context.Context, message string)
}

// HistoryLogger records planner changes.
type HistoryLogger interface {
	Log(ctx context.Context, userID string, entry *history.Entry) error
}
